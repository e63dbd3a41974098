package usecase

import (
	"context"
	"errors"
	"testing"

	"talent-match/internal/ai"
	"talent-match/internal/domain/job"
	"talent-match/internal/domain/match"
	"talent-match/internal/domain/profile"
	"talent-match/internal/domain/skill"

	"github.com/google/uuid"
)

func TestMatchStep2_EmptySelection(t *testing.T) {
	uc := NewMatchStep2(newMockJobRepo(), newMockProfileRepo(), newMockInstanceRepo(), newMockSessionRepo(), &mockCompletionClient{}, nil, nil, 0)
	if _, err := uc.AnalyzeCandidates(context.Background(), uuid.New(), nil, nil); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
}

func TestMatchStep2_JobNotFound(t *testing.T) {
	uc := NewMatchStep2(newMockJobRepo(), newMockProfileRepo(), newMockInstanceRepo(), newMockSessionRepo(), &mockCompletionClient{}, nil, nil, 0)
	if _, err := uc.AnalyzeCandidates(context.Background(), uuid.New(), []uuid.UUID{uuid.New()}, nil); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestMatchStep2_AnalyzesAndPersistsWithoutSession(t *testing.T) {
	j := job.Job{ID: uuid.New(), Title: "Backend Engineer"}
	p := profile.Profile{ID: uuid.New(), Name: "Cand"}

	sessions := newMockSessionRepo()
	client := &mockCompletionClient{analysis: ai.CandidateAnalysis{
		Score:       82,
		Explanation: "strong overlap",
		Confidence:  0.9,
	}}

	uc := NewMatchStep2(newMockJobRepo(j), newMockProfileRepo(p), newMockInstanceRepo(), sessions, client, nil, nil, 0)
	out, err := uc.AnalyzeCandidates(context.Background(), j.ID, []uuid.UUID{p.ID}, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out.Results) != 1 || out.Results[0].Score != 82 {
		t.Fatalf("unexpected results: %+v", out.Results)
	}

	sess, err := sessions.FindByID(context.Background(), out.SessionID)
	if err != nil {
		t.Fatalf("expected session created: %v", err)
	}
	if sess.Status != match.StatusCompleted {
		t.Fatalf("ad-hoc analysis session should be born completed, got %q", sess.Status)
	}
	if len(sess.Step2Results) != 1 {
		t.Fatalf("expected persisted step-2 results")
	}
}

func TestMatchStep2_FailureDegradesToPlaceholder(t *testing.T) {
	j := job.Job{ID: uuid.New(), Title: "Backend Engineer"}
	p := profile.Profile{ID: uuid.New(), Name: "Cand"}

	client := &mockCompletionClient{analyzeErr: errors.New("model overloaded")}
	uc := NewMatchStep2(newMockJobRepo(j), newMockProfileRepo(p), newMockInstanceRepo(), newMockSessionRepo(), client, nil, nil, 0)

	out, err := uc.AnalyzeCandidates(context.Background(), j.ID, []uuid.UUID{p.ID}, nil)
	if err != nil {
		t.Fatalf("per-candidate failure must not fail the batch: %v", err)
	}
	if len(out.Results) != 1 {
		t.Fatalf("expected a placeholder result, got %d", len(out.Results))
	}
	got := out.Results[0]
	if got.Score != 0 || got.Confidence != 0 {
		t.Fatalf("expected zero-score zero-confidence placeholder, got %+v", got)
	}
	if got.Explanation == "" {
		t.Fatalf("placeholder should explain the degradation")
	}
}

func TestMatchStep2_SkipsMissingProfiles(t *testing.T) {
	j := job.Job{ID: uuid.New(), Title: "Backend Engineer"}
	p := profile.Profile{ID: uuid.New(), Name: "Cand"}

	client := &mockCompletionClient{analysis: ai.CandidateAnalysis{Score: 50, Confidence: 0.7}}
	uc := NewMatchStep2(newMockJobRepo(j), newMockProfileRepo(p), newMockInstanceRepo(), newMockSessionRepo(), client, nil, nil, 0)

	out, err := uc.AnalyzeCandidates(context.Background(), j.ID, []uuid.UUID{p.ID, uuid.New()}, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out.Results) != 1 || out.Results[0].ProfileID != p.ID {
		t.Fatalf("expected unknown profile silently skipped, got %+v", out.Results)
	}
	if client.analyzeCalls != 1 {
		t.Fatalf("expected one analysis call, got %d", client.analyzeCalls)
	}
}

func TestMatchStep2_SessionJobMismatch(t *testing.T) {
	j := job.Job{ID: uuid.New(), Title: "Backend Engineer"}
	other := job.Job{ID: uuid.New(), Title: "Other"}

	sessions := newMockSessionRepo()
	sess, _ := sessions.Create(context.Background(), match.Session{JobID: other.ID, Status: match.StatusStep1Complete})

	uc := NewMatchStep2(newMockJobRepo(j, other), newMockProfileRepo(), newMockInstanceRepo(), sessions, &mockCompletionClient{}, nil, nil, 0)
	if _, err := uc.AnalyzeCandidates(context.Background(), j.ID, []uuid.UUID{uuid.New()}, &sess.ID); !errors.Is(err, ErrSessionForbidden) {
		t.Fatalf("expected ErrSessionForbidden, got %v", err)
	}
}

func TestMatchStep2_SessionNotFound(t *testing.T) {
	j := job.Job{ID: uuid.New(), Title: "Backend Engineer"}
	missing := uuid.New()

	uc := NewMatchStep2(newMockJobRepo(j), newMockProfileRepo(), newMockInstanceRepo(), newMockSessionRepo(), &mockCompletionClient{}, nil, nil, 0)
	if _, err := uc.AnalyzeCandidates(context.Background(), j.ID, []uuid.UUID{uuid.New()}, &missing); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestMatchStep2_CrossValidatesAgainstStep1(t *testing.T) {
	j := job.Job{ID: uuid.New(), Title: "Backend Engineer"}
	inStep1 := profile.Profile{ID: uuid.New(), Name: "Listed"}
	notInStep1 := profile.Profile{ID: uuid.New(), Name: "Unlisted"}

	sessions := newMockSessionRepo()
	sess, _ := sessions.Create(context.Background(), match.Session{
		JobID:        j.ID,
		Status:       match.StatusStep1Complete,
		Step1Results: []match.StoredMatch{{ProfileID: inStep1.ID, Score: 80}},
	})

	client := &mockCompletionClient{analysis: ai.CandidateAnalysis{Score: 75, Confidence: 0.8}}
	uc := NewMatchStep2(newMockJobRepo(j), newMockProfileRepo(inStep1, notInStep1), newMockInstanceRepo(), sessions, client, nil, nil, 0)

	out, err := uc.AnalyzeCandidates(context.Background(), j.ID, []uuid.UUID{inStep1.ID, notInStep1.ID}, &sess.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out.Results) != 1 || out.Results[0].ProfileID != inStep1.ID {
		t.Fatalf("expected candidates outside step-1 filtered, got %+v", out.Results)
	}

	persisted, _ := sessions.FindByID(context.Background(), sess.ID)
	if persisted.Status != match.StatusCompleted {
		t.Fatalf("expected session promoted to completed, got %q", persisted.Status)
	}
}

func TestMatchStep2_AllCandidatesFiltered(t *testing.T) {
	j := job.Job{ID: uuid.New(), Title: "Backend Engineer"}

	sessions := newMockSessionRepo()
	sess, _ := sessions.Create(context.Background(), match.Session{
		JobID:        j.ID,
		Status:       match.StatusStep1Complete,
		Step1Results: []match.StoredMatch{{ProfileID: uuid.New(), Score: 80}},
	})

	uc := NewMatchStep2(newMockJobRepo(j), newMockProfileRepo(), newMockInstanceRepo(), sessions, &mockCompletionClient{}, nil, nil, 0)
	if _, err := uc.AnalyzeCandidates(context.Background(), j.ID, []uuid.UUID{uuid.New()}, &sess.ID); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection when every candidate is filtered, got %v", err)
	}
}

func TestMatchStep2_ResultsSortedByScore(t *testing.T) {
	j := job.Job{ID: uuid.New(), Title: "Backend Engineer"}
	a := profile.Profile{ID: uuid.New(), Name: "A"}
	b := profile.Profile{ID: uuid.New(), Name: "B"}

	instances := newMockInstanceRepo()
	goID := uuid.New()
	instances.add(skill.Instance{
		ID: uuid.New(), EntityType: skill.EntityProfile, EntityID: b.ID,
		SkillID: goID, SkillName: "golang", Priority: skill.PriorityNiceToHave,
	})

	// Scores depend on whether the candidate has any stored skills.
	client := &scoreBySkillsClient{withSkills: 90, withoutSkills: 40}
	uc := NewMatchStep2(newMockJobRepo(j), newMockProfileRepo(a, b), instances, newMockSessionRepo(), client, nil, nil, 0)

	out, err := uc.AnalyzeCandidates(context.Background(), j.ID, []uuid.UUID{a.ID, b.ID}, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out.Results))
	}
	if out.Results[0].Score < out.Results[1].Score {
		t.Fatalf("expected results sorted descending by score: %+v", out.Results)
	}
}

type scoreBySkillsClient struct {
	withSkills    int
	withoutSkills int
}

func (c *scoreBySkillsClient) CategorizeSkill(context.Context, string) (ai.SkillCategorization, error) {
	return ai.SkillCategorization{}, nil
}

func (c *scoreBySkillsClient) AnalyzeCandidate(_ context.Context, req ai.AnalysisRequest) (ai.CandidateAnalysis, error) {
	if len(req.ProfileSkills) > 0 {
		return ai.CandidateAnalysis{Score: c.withSkills, Confidence: 0.9}, nil
	}
	return ai.CandidateAnalysis{Score: c.withoutSkills, Confidence: 0.9}, nil
}
