package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"talent-match/internal/domain/match"
	"talent-match/internal/domain/matching"
	"talent-match/internal/domain/skill"
	"talent-match/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const matchLockTTL = 60 * time.Second

// matchLocker serializes concurrent matching runs for one job. Best effort:
// when the lock backend is down, runs race and the last write wins.
type matchLocker interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

type Step1Output struct {
	SessionID uuid.UUID
	Matches   []matching.CandidateMatch
}

type MatchStep1Usecase interface {
	FindMatchingCandidates(ctx context.Context, jobID uuid.UUID) (Step1Output, error)
}

// MatchStep1 is the deterministic first matching phase: it scans the whole
// candidate population against the job's skill requirements and persists the
// ranked result on the job's canonical match session.
type MatchStep1 struct {
	jobs      repository.JobRepository
	profiles  repository.ProfileRepository
	instances repository.SkillInstanceRepository
	sessions  repository.MatchSessionRepository
	locks     matchLocker
	logger    *zap.Logger
}

func NewMatchStep1(
	jobs repository.JobRepository,
	profiles repository.ProfileRepository,
	instances repository.SkillInstanceRepository,
	sessions repository.MatchSessionRepository,
	locks matchLocker,
	logger *zap.Logger,
) *MatchStep1 {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchStep1{
		jobs:      jobs,
		profiles:  profiles,
		instances: instances,
		sessions:  sessions,
		locks:     locks,
		logger:    logger,
	}
}

func (u *MatchStep1) FindMatchingCandidates(ctx context.Context, jobID uuid.UUID) (Step1Output, error) {
	if jobID == uuid.Nil {
		return Step1Output{}, ErrJobNotFound
	}

	exists, err := u.jobs.ExistsByID(ctx, jobID)
	if err != nil {
		return Step1Output{}, err
	}
	if !exists {
		return Step1Output{}, ErrJobNotFound
	}

	unlock := u.acquireLock(ctx, jobID)
	defer unlock()

	jobInstances, err := u.instances.FindByEntity(ctx, skill.EntityJob, jobID)
	if err != nil {
		return Step1Output{}, err
	}

	reqs := make([]matching.RequiredSkill, 0, len(jobInstances))
	for _, inst := range jobInstances {
		reqs = append(reqs, matching.RequiredSkill{
			SkillID:   inst.SkillID,
			SkillName: inst.SkillName,
			RawLabel:  inst.RawLabel,
			Mandatory: inst.Priority.IsMandatory(),
		})
	}

	cands, err := u.loadCandidates(ctx)
	if err != nil {
		return Step1Output{}, err
	}

	matches := matching.Rank(reqs, cands)

	sess, err := u.persistStep1(ctx, jobID, matches)
	if err != nil {
		return Step1Output{}, err
	}

	u.logger.Info("step-1 matching complete",
		zap.String("job_id", jobID.String()),
		zap.String("session_id", sess.ID.String()),
		zap.Int("candidates_scanned", len(cands)),
		zap.Int("matches", len(matches)),
	)

	return Step1Output{SessionID: sess.ID, Matches: matches}, nil
}

// loadCandidates builds the scoring population: every profile holding at
// least one skill instance, in a deterministic order so tie-breaking is
// stable across runs.
func (u *MatchStep1) loadCandidates(ctx context.Context) ([]matching.Candidate, error) {
	byProfile, err := u.instances.FindAllByEntityType(ctx, skill.EntityProfile)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(byProfile))
	for id := range byProfile {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	profilesByID, err := u.profiles.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]matching.Candidate, 0, len(ids))
	for _, id := range ids {
		cand := matching.Candidate{ProfileID: id}
		for _, inst := range byProfile[id] {
			cand.Skills = append(cand.Skills, matching.CandidateSkill{
				SkillID:   inst.SkillID,
				SkillName: inst.SkillName,
				RawLabel:  inst.RawLabel,
			})
		}
		if p, ok := profilesByID[id]; ok {
			cand.ExperienceText = p.SourceText()
		}
		out = append(out, cand)
	}
	return out, nil
}

// persistStep1 reuses the job's oldest session if one exists and creates one
// otherwise, per the one-canonical-session-per-job rule.
func (u *MatchStep1) persistStep1(ctx context.Context, jobID uuid.UUID, matches []matching.CandidateMatch) (match.Session, error) {
	stored := toStoredMatches(matches)

	existing, err := u.sessions.FindOldestByJob(ctx, jobID)
	if err == nil {
		return u.sessions.SaveStep1(ctx, existing.ID, stored)
	}
	if !errors.Is(err, repository.ErrSessionNotFound) {
		return match.Session{}, err
	}

	return u.sessions.Create(ctx, match.Session{
		JobID:        jobID,
		Status:       match.StatusStep1Complete,
		Step1Results: stored,
	})
}

func (u *MatchStep1) acquireLock(ctx context.Context, jobID uuid.UUID) func() {
	if u.locks == nil {
		return func() {}
	}

	key := "match:lock:job:" + jobID.String()
	ok, err := u.locks.SetIfNotExists(ctx, key, "step1", matchLockTTL)
	if err != nil || !ok {
		if !ok && err == nil {
			u.logger.Warn("concurrent matching run detected, proceeding last-write-wins",
				zap.String("job_id", jobID.String()),
			)
		}
		return func() {}
	}
	return func() { _ = u.locks.Delete(ctx, key) }
}

func toStoredMatches(matches []matching.CandidateMatch) []match.StoredMatch {
	out := make([]match.StoredMatch, 0, len(matches))
	for _, m := range matches {
		out = append(out, match.StoredMatch{
			ProfileID:         m.ProfileID,
			Score:             m.Score,
			MandatoryMissing:  m.MandatoryMissing,
			MatchedMustHave:   toStoredSkills(m.MatchedMustHave),
			MissingMustHave:   toStoredSkills(m.MissingMustHave),
			MatchedNiceToHave: toStoredSkills(m.MatchedNiceToHave),
			MissingNiceToHave: toStoredSkills(m.MissingNiceToHave),
		})
	}
	return out
}

func toStoredSkills(refs []matching.SkillRef) []match.StoredSkill {
	out := make([]match.StoredSkill, 0, len(refs))
	for _, r := range refs {
		out = append(out, match.StoredSkill{SkillID: r.SkillID, SkillName: r.SkillName})
	}
	return out
}
