package usecase

import (
	"context"
	"errors"
	"testing"

	"talent-match/internal/domain/job"
	"talent-match/internal/domain/match"
	"talent-match/internal/domain/profile"
	"talent-match/internal/domain/skill"
	"talent-match/internal/repository"

	"github.com/google/uuid"
)

type mockJobRepo struct {
	jobs map[uuid.UUID]job.Job
}

func newMockJobRepo(jobs ...job.Job) *mockJobRepo {
	m := &mockJobRepo{jobs: map[uuid.UUID]job.Job{}}
	for _, j := range jobs {
		m.jobs[j.ID] = j
	}
	return m
}

func (m *mockJobRepo) Create(_ context.Context, j job.Job) (job.Job, error) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	m.jobs[j.ID] = j
	return j, nil
}

func (m *mockJobRepo) FindByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	if j, ok := m.jobs[id]; ok {
		return j, nil
	}
	return job.Job{}, repository.ErrJobNotFound
}

func (m *mockJobRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.jobs[id]
	return ok, nil
}

func (m *mockJobRepo) List(context.Context, int, int) ([]job.Job, error) { return nil, nil }

type mockProfileRepo struct {
	profiles map[uuid.UUID]profile.Profile
}

func newMockProfileRepo(profiles ...profile.Profile) *mockProfileRepo {
	m := &mockProfileRepo{profiles: map[uuid.UUID]profile.Profile{}}
	for _, p := range profiles {
		m.profiles[p.ID] = p
	}
	return m
}

func (m *mockProfileRepo) Create(_ context.Context, p profile.Profile) (profile.Profile, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.profiles[p.ID] = p
	return p, nil
}

func (m *mockProfileRepo) FindByID(_ context.Context, id uuid.UUID) (profile.Profile, error) {
	if p, ok := m.profiles[id]; ok {
		return p, nil
	}
	return profile.Profile{}, repository.ErrProfileNotFound
}

func (m *mockProfileRepo) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]profile.Profile, error) {
	out := map[uuid.UUID]profile.Profile{}
	for _, id := range ids {
		if p, ok := m.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type mockInstanceRepo struct {
	byEntity map[skill.EntityType]map[uuid.UUID][]skill.Instance
}

func newMockInstanceRepo() *mockInstanceRepo {
	return &mockInstanceRepo{byEntity: map[skill.EntityType]map[uuid.UUID][]skill.Instance{
		skill.EntityJob:     {},
		skill.EntityProfile: {},
	}}
}

func (m *mockInstanceRepo) add(inst skill.Instance) {
	m.byEntity[inst.EntityType][inst.EntityID] = append(m.byEntity[inst.EntityType][inst.EntityID], inst)
}

func (m *mockInstanceRepo) FindByEntity(_ context.Context, et skill.EntityType, id uuid.UUID) ([]skill.Instance, error) {
	return m.byEntity[et][id], nil
}

func (m *mockInstanceRepo) FindAllByEntityType(_ context.Context, et skill.EntityType) (map[uuid.UUID][]skill.Instance, error) {
	return m.byEntity[et], nil
}

func (m *mockInstanceRepo) ReplaceForEntity(_ context.Context, et skill.EntityType, id uuid.UUID, instances []skill.Instance) error {
	m.byEntity[et][id] = instances
	return nil
}

type mockSessionRepo struct {
	sessions map[uuid.UUID]match.Session
	created  int
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: map[uuid.UUID]match.Session{}}
}

func (m *mockSessionRepo) FindByID(_ context.Context, id uuid.UUID) (match.Session, error) {
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return match.Session{}, repository.ErrSessionNotFound
}

func (m *mockSessionRepo) FindOldestByJob(_ context.Context, jobID uuid.UUID) (match.Session, error) {
	var oldest *match.Session
	for id := range m.sessions {
		s := m.sessions[id]
		if s.JobID != jobID {
			continue
		}
		if oldest == nil || s.CreatedAt.Before(oldest.CreatedAt) {
			oldest = &s
		}
	}
	if oldest == nil {
		return match.Session{}, repository.ErrSessionNotFound
	}
	return *oldest, nil
}

func (m *mockSessionRepo) ListByJob(_ context.Context, jobID uuid.UUID) ([]match.Session, error) {
	out := []match.Session{}
	for _, s := range m.sessions {
		if s.JobID == jobID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSessionRepo) Create(_ context.Context, s match.Session) (match.Session, error) {
	s.ID = uuid.New()
	m.sessions[s.ID] = s
	m.created++
	return s, nil
}

func (m *mockSessionRepo) SaveStep1(_ context.Context, id uuid.UUID, results []match.StoredMatch) (match.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return match.Session{}, repository.ErrSessionNotFound
	}
	s.Step1Results = results
	s.Status = match.StatusStep1Complete
	m.sessions[id] = s
	return s, nil
}

func (m *mockSessionRepo) SaveStep2(_ context.Context, id uuid.UUID, selections []uuid.UUID, results []match.StoredAnalysis) (match.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return match.Session{}, repository.ErrSessionNotFound
	}
	s.Step2Selections = selections
	s.Step2Results = results
	s.Status = match.StatusCompleted
	m.sessions[id] = s
	return s, nil
}

func jobInstance(jobID, skillID uuid.UUID, name string, priority skill.Priority) skill.Instance {
	return skill.Instance{
		ID:         uuid.New(),
		EntityType: skill.EntityJob,
		EntityID:   jobID,
		SkillID:    skillID,
		SkillName:  name,
		Priority:   priority,
		Confidence: 1,
	}
}

func profileInstance(profileID, skillID uuid.UUID, name string) skill.Instance {
	return skill.Instance{
		ID:         uuid.New(),
		EntityType: skill.EntityProfile,
		EntityID:   profileID,
		SkillID:    skillID,
		SkillName:  name,
		Priority:   skill.PriorityNiceToHave,
		Confidence: 1,
	}
}

func TestMatchStep1_JobNotFound(t *testing.T) {
	uc := NewMatchStep1(newMockJobRepo(), newMockProfileRepo(), newMockInstanceRepo(), newMockSessionRepo(), nil, nil)
	if _, err := uc.FindMatchingCandidates(context.Background(), uuid.New()); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestMatchStep1_RanksAndPersists(t *testing.T) {
	j := job.Job{ID: uuid.New(), Title: "Backend Engineer"}
	goID := uuid.New()
	sqlID := uuid.New()

	strong := profile.Profile{ID: uuid.New(), Name: "Strong"}
	weak := profile.Profile{ID: uuid.New(), Name: "Weak"}

	instances := newMockInstanceRepo()
	instances.add(jobInstance(j.ID, goID, "golang", skill.PriorityMustHave))
	instances.add(jobInstance(j.ID, sqlID, "sql", skill.PriorityNiceToHave))
	instances.add(profileInstance(strong.ID, goID, "golang"))
	instances.add(profileInstance(strong.ID, sqlID, "sql"))
	instances.add(profileInstance(weak.ID, sqlID, "sql"))

	sessions := newMockSessionRepo()
	uc := NewMatchStep1(newMockJobRepo(j), newMockProfileRepo(strong, weak), instances, sessions, nil, nil)

	out, err := uc.FindMatchingCandidates(context.Background(), j.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(out.Matches))
	}
	if out.Matches[0].ProfileID != strong.ID || out.Matches[0].Score != 100 {
		t.Fatalf("expected full match first, got %+v", out.Matches[0])
	}
	if out.Matches[1].ProfileID != weak.ID || out.Matches[1].Score != 30 {
		t.Fatalf("expected partial match at 30, got %+v", out.Matches[1])
	}

	sess, err := sessions.FindByID(context.Background(), out.SessionID)
	if err != nil {
		t.Fatalf("expected session persisted: %v", err)
	}
	if sess.Status != match.StatusStep1Complete {
		t.Fatalf("expected step1_complete status, got %q", sess.Status)
	}
	if len(sess.Step1Results) != 2 {
		t.Fatalf("expected stored results, got %d", len(sess.Step1Results))
	}
}

func TestMatchStep1_ReusesOldestSession(t *testing.T) {
	j := job.Job{ID: uuid.New(), Title: "Backend Engineer"}
	goID := uuid.New()
	cand := profile.Profile{ID: uuid.New(), Name: "Cand"}

	instances := newMockInstanceRepo()
	instances.add(jobInstance(j.ID, goID, "golang", skill.PriorityMustHave))
	instances.add(profileInstance(cand.ID, goID, "golang"))

	sessions := newMockSessionRepo()
	uc := NewMatchStep1(newMockJobRepo(j), newMockProfileRepo(cand), instances, sessions, nil, nil)

	first, err := uc.FindMatchingCandidates(context.Background(), j.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	second, err := uc.FindMatchingCandidates(context.Background(), j.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if first.SessionID != second.SessionID {
		t.Fatalf("expected session reuse, got %s then %s", first.SessionID, second.SessionID)
	}
	if sessions.created != 1 {
		t.Fatalf("expected exactly one session row, got %d", sessions.created)
	}
}

func TestMatchStep1_ProfilesWithoutSkillsExcluded(t *testing.T) {
	j := job.Job{ID: uuid.New(), Title: "Backend Engineer"}
	goID := uuid.New()
	skilled := profile.Profile{ID: uuid.New(), Name: "Skilled"}

	instances := newMockInstanceRepo()
	instances.add(jobInstance(j.ID, goID, "golang", skill.PriorityMustHave))
	instances.add(profileInstance(skilled.ID, goID, "golang"))

	// A profile with no skill instances never enters the population.
	bare := profile.Profile{ID: uuid.New(), Name: "Bare"}

	uc := NewMatchStep1(newMockJobRepo(j), newMockProfileRepo(skilled, bare), instances, newMockSessionRepo(), nil, nil)
	out, err := uc.FindMatchingCandidates(context.Background(), j.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out.Matches) != 1 || out.Matches[0].ProfileID != skilled.ID {
		t.Fatalf("expected only the skilled profile, got %+v", out.Matches)
	}
}
