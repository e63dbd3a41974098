package usecase

import (
	"context"
	"errors"
	"testing"

	"talent-match/internal/ai"
	"talent-match/internal/domain/skill"
	"talent-match/internal/repository"

	"github.com/google/uuid"
)

type mockSkillRepo struct {
	byName    map[string]skill.CanonicalSkill
	aliases   map[string]skill.Alias
	upserted  []string
	aliased   []string
	upsertErr error
}

func newMockSkillRepo() *mockSkillRepo {
	return &mockSkillRepo{
		byName:  map[string]skill.CanonicalSkill{},
		aliases: map[string]skill.Alias{},
	}
}

func (m *mockSkillRepo) FindByName(_ context.Context, name string) (skill.CanonicalSkill, error) {
	if s, ok := m.byName[name]; ok {
		return s, nil
	}
	return skill.CanonicalSkill{}, repository.ErrSkillNotFound
}

func (m *mockSkillRepo) FindAliasByLabel(_ context.Context, label string) (skill.Alias, skill.CanonicalSkill, error) {
	if a, ok := m.aliases[label]; ok {
		for _, s := range m.byName {
			if s.ID == a.SkillID {
				return a, s, nil
			}
		}
	}
	return skill.Alias{}, skill.CanonicalSkill{}, repository.ErrAliasNotFound
}

func (m *mockSkillRepo) UpsertSkill(_ context.Context, name string, category skill.Category) (skill.CanonicalSkill, error) {
	if m.upsertErr != nil {
		return skill.CanonicalSkill{}, m.upsertErr
	}
	m.upserted = append(m.upserted, name)
	if s, ok := m.byName[name]; ok {
		return s, nil
	}
	s := skill.CanonicalSkill{ID: uuid.New(), Name: name, Category: category}
	m.byName[name] = s
	return s, nil
}

func (m *mockSkillRepo) UpsertAlias(_ context.Context, label string, skillID uuid.UUID, confidence float64, source skill.AliasSource) error {
	m.aliased = append(m.aliased, label)
	m.aliases[label] = skill.Alias{ID: uuid.New(), Alias: label, SkillID: skillID, Confidence: confidence, Source: source}
	return nil
}

func (m *mockSkillRepo) ListSkills(context.Context) ([]skill.CanonicalSkill, error) {
	out := make([]skill.CanonicalSkill, 0, len(m.byName))
	for _, s := range m.byName {
		out = append(out, s)
	}
	return out, nil
}

type mockCompletionClient struct {
	categorization ai.SkillCategorization
	categorizeErr  error
	analysis       ai.CandidateAnalysis
	analyzeErr     error
	analyzeCalls   int
}

func (m *mockCompletionClient) CategorizeSkill(context.Context, string) (ai.SkillCategorization, error) {
	if m.categorizeErr != nil {
		return ai.SkillCategorization{}, m.categorizeErr
	}
	return m.categorization, nil
}

func (m *mockCompletionClient) AnalyzeCandidate(context.Context, ai.AnalysisRequest) (ai.CandidateAnalysis, error) {
	m.analyzeCalls++
	if m.analyzeErr != nil {
		return ai.CandidateAnalysis{}, m.analyzeErr
	}
	return m.analysis, nil
}

func TestCanonicalizer_Normalize_KnownAlias(t *testing.T) {
	repo := newMockSkillRepo()
	canonical := skill.CanonicalSkill{ID: uuid.New(), Name: "javascript", Category: skill.CategoryTechnical}
	repo.byName["javascript"] = canonical
	repo.aliases["js"] = skill.Alias{ID: uuid.New(), Alias: "js", SkillID: canonical.ID, Confidence: 0.9, Source: skill.AliasSourceHuman}

	uc := NewCanonicalizer(repo, &mockCompletionClient{}, nil, nil)
	got, err := uc.Normalize(context.Background(), " JS ", skill.PriorityMustHave)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.SkillID != canonical.ID || got.CanonicalName != "javascript" {
		t.Fatalf("expected alias resolution, got %+v", got)
	}
	if got.Confidence != 0.9 {
		t.Fatalf("expected alias confidence, got %v", got.Confidence)
	}
	if len(repo.upserted) != 0 {
		t.Fatalf("alias hit should not create skills")
	}
}

func TestCanonicalizer_Normalize_CanonicalNameHit(t *testing.T) {
	repo := newMockSkillRepo()
	canonical := skill.CanonicalSkill{ID: uuid.New(), Name: "python", Category: skill.CategoryTechnical}
	repo.byName["python"] = canonical

	uc := NewCanonicalizer(repo, &mockCompletionClient{}, nil, nil)
	got, err := uc.Normalize(context.Background(), "Python", skill.PriorityNiceToHave)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.SkillID != canonical.ID || got.Confidence != 1.0 {
		t.Fatalf("expected direct canonical hit with full confidence, got %+v", got)
	}
}

func TestCanonicalizer_Normalize_NewSkillViaCompletion(t *testing.T) {
	repo := newMockSkillRepo()
	client := &mockCompletionClient{categorization: ai.SkillCategorization{
		CanonicalName: "React",
		Category:      "technical",
		Confidence:    0.8,
	}}

	uc := NewCanonicalizer(repo, client, nil, nil)
	got, err := uc.Normalize(context.Background(), "ReactJS", skill.PriorityMustHave)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.CanonicalName != "react" {
		t.Fatalf("expected cleaned canonical name, got %q", got.CanonicalName)
	}
	if len(repo.aliased) != 1 || repo.aliased[0] != "reactjs" {
		t.Fatalf("expected alias recorded for divergent label, got %v", repo.aliased)
	}
}

func TestCanonicalizer_Normalize_CompletionFailureFallsBack(t *testing.T) {
	repo := newMockSkillRepo()
	client := &mockCompletionClient{categorizeErr: errors.New("quota exceeded")}

	uc := NewCanonicalizer(repo, client, nil, nil)
	got, err := uc.Normalize(context.Background(), "Terraform", skill.PriorityNiceToHave)
	if err != nil {
		t.Fatalf("completion failure must not propagate, got %v", err)
	}
	if got.CanonicalName != "terraform" || got.Category != skill.CategoryTechnical {
		t.Fatalf("expected local fallback, got %+v", got)
	}
	if got.Confidence != 0.5 {
		t.Fatalf("expected fallback confidence 0.5, got %v", got.Confidence)
	}
}

func TestCanonicalizer_Normalize_Idempotent(t *testing.T) {
	repo := newMockSkillRepo()
	client := &mockCompletionClient{categorization: ai.SkillCategorization{
		CanonicalName: "kubernetes",
		Category:      "tool",
		Confidence:    0.85,
	}}

	uc := NewCanonicalizer(repo, client, nil, nil)
	first, err := uc.Normalize(context.Background(), "K8s", skill.PriorityMustHave)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	second, err := uc.Normalize(context.Background(), "k8s", skill.PriorityMustHave)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if first.SkillID != second.SkillID {
		t.Fatalf("repeat normalization should resolve to the same skill")
	}
	if len(repo.upserted) != 1 {
		t.Fatalf("expected a single skill upsert, got %d", len(repo.upserted))
	}
}

func TestCanonicalizer_Normalize_EmptyLabel(t *testing.T) {
	uc := NewCanonicalizer(newMockSkillRepo(), &mockCompletionClient{}, nil, nil)
	if _, err := uc.Normalize(context.Background(), "  !! ", skill.PriorityMustHave); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCanonicalizer_Normalize_StorageErrorPropagates(t *testing.T) {
	repo := newMockSkillRepo()
	repo.upsertErr = errors.New("db down")

	uc := NewCanonicalizer(repo, &mockCompletionClient{categorization: ai.SkillCategorization{
		CanonicalName: "rust", Category: "technical", Confidence: 0.9,
	}}, nil, nil)
	if _, err := uc.Normalize(context.Background(), "Rust", skill.PriorityMustHave); err == nil {
		t.Fatalf("expected storage error to propagate")
	}
}
