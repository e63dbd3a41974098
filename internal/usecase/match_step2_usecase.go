package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"

	"talent-match/internal/ai"
	"talent-match/internal/domain/job"
	"talent-match/internal/domain/match"
	"talent-match/internal/domain/profile"
	"talent-match/internal/domain/skill"
	"talent-match/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// defaultBatchSize bounds concurrent completion-service calls. Batches
	// run sequentially; within a batch all analyses run concurrently.
	defaultBatchSize = 5

	// promptCharBudget caps how much free-form source text each side
	// contributes to one analysis prompt.
	promptCharBudget = 2000

	degradedExplanation = "Analysis failed for this candidate; the result is a placeholder."
)

type Step2Output struct {
	SessionID uuid.UUID
	Results   []match.StoredAnalysis
}

type MatchStep2Usecase interface {
	AnalyzeCandidates(ctx context.Context, jobID uuid.UUID, profileIDs []uuid.UUID, sessionID *uuid.UUID) (Step2Output, error)
}

// MatchStep2 is the contextual second matching phase: it asks the completion
// service for a per-candidate verdict and persists the outcome on the match
// session. Per-candidate failures degrade to zero-confidence placeholders so
// the batch always completes.
type MatchStep2 struct {
	jobs      repository.JobRepository
	profiles  repository.ProfileRepository
	instances repository.SkillInstanceRepository
	sessions  repository.MatchSessionRepository
	client    ai.CompletionClient
	locks     matchLocker
	logger    *zap.Logger
	batchSize int
}

func NewMatchStep2(
	jobs repository.JobRepository,
	profiles repository.ProfileRepository,
	instances repository.SkillInstanceRepository,
	sessions repository.MatchSessionRepository,
	client ai.CompletionClient,
	locks matchLocker,
	logger *zap.Logger,
	batchSize int,
) *MatchStep2 {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchStep2{
		jobs:      jobs,
		profiles:  profiles,
		instances: instances,
		sessions:  sessions,
		client:    client,
		locks:     locks,
		logger:    logger,
		batchSize: batchSize,
	}
}

func (u *MatchStep2) AnalyzeCandidates(ctx context.Context, jobID uuid.UUID, profileIDs []uuid.UUID, sessionID *uuid.UUID) (Step2Output, error) {
	if len(profileIDs) == 0 {
		return Step2Output{}, ErrEmptySelection
	}

	j, err := u.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return Step2Output{}, ErrJobNotFound
		}
		return Step2Output{}, err
	}

	var sess *match.Session
	if sessionID != nil {
		loaded, err := u.sessions.FindByID(ctx, *sessionID)
		if err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				return Step2Output{}, ErrSessionNotFound
			}
			return Step2Output{}, err
		}
		if loaded.JobID != jobID {
			return Step2Output{}, ErrSessionForbidden
		}

		profileIDs = u.crossValidate(loaded, profileIDs)
		if len(profileIDs) == 0 {
			return Step2Output{}, ErrEmptySelection
		}
		sess = &loaded
	}

	unlock := u.acquireLock(ctx, jobID)
	defer unlock()

	profilesByID, err := u.profiles.FindByIDs(ctx, profileIDs)
	if err != nil {
		return Step2Output{}, err
	}

	// Requested ids without a stored profile are silently skipped.
	analyzable := make([]uuid.UUID, 0, len(profileIDs))
	for _, id := range profileIDs {
		if _, ok := profilesByID[id]; ok {
			analyzable = append(analyzable, id)
		}
	}

	jobSkills, err := u.instances.FindByEntity(ctx, skill.EntityJob, jobID)
	if err != nil {
		return Step2Output{}, err
	}

	results := u.analyzeAll(ctx, j, jobSkills, analyzable, profilesByID)

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	persisted, err := u.persistStep2(ctx, jobID, sess, analyzable, results)
	if err != nil {
		return Step2Output{}, err
	}

	u.logger.Info("step-2 deep analysis complete",
		zap.String("job_id", jobID.String()),
		zap.String("session_id", persisted.ID.String()),
		zap.Int("analyzed", len(results)),
	)

	return Step2Output{SessionID: persisted.ID, Results: results}, nil
}

// crossValidate filters the requested ids down to those surfaced by the
// session's step-1 results. Discrepancies are logged, not fatal.
func (u *MatchStep2) crossValidate(sess match.Session, profileIDs []uuid.UUID) []uuid.UUID {
	if len(sess.Step1Results) == 0 {
		return profileIDs
	}

	kept := make([]uuid.UUID, 0, len(profileIDs))
	dropped := 0
	for _, id := range profileIDs {
		if sess.ContainsProfile(id) {
			kept = append(kept, id)
		} else {
			dropped++
		}
	}
	if dropped > 0 {
		u.logger.Warn("dropped candidates absent from step-1 results",
			zap.String("session_id", sess.ID.String()),
			zap.Int("dropped", dropped),
			zap.Int("kept", len(kept)),
		)
	}
	return kept
}

// analyzeAll runs analyses in fixed-size batches: sequential batches, full
// concurrency within one. Output order follows the input ids until the final
// by-score sort.
func (u *MatchStep2) analyzeAll(ctx context.Context, j job.Job, jobSkills []skill.Instance, ids []uuid.UUID, profilesByID map[uuid.UUID]profile.Profile) []match.StoredAnalysis {
	results := make([]match.StoredAnalysis, len(ids))

	for start := 0; start < len(ids); start += u.batchSize {
		end := start + u.batchSize
		if end > len(ids) {
			end = len(ids)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				id := ids[idx]
				results[idx] = u.analyzeOne(ctx, j, jobSkills, profilesByID[id])
			}(i)
		}
		wg.Wait()
	}

	return results
}

func (u *MatchStep2) analyzeOne(ctx context.Context, j job.Job, jobSkills []skill.Instance, p profile.Profile) match.StoredAnalysis {
	profileSkills, err := u.instances.FindByEntity(ctx, skill.EntityProfile, p.ID)
	if err != nil {
		u.logger.Warn("loading candidate skills failed, degrading analysis",
			zap.String("profile_id", p.ID.String()),
			zap.Error(err),
		)
		return placeholderAnalysis(p.ID)
	}

	req := ai.AnalysisRequest{
		JobTitle:      j.Title,
		JobCompany:    j.Company,
		JobSkills:     skillPromptLabels(jobSkills),
		JobText:       truncateText(j.SourceText(), promptCharBudget),
		ProfileName:   p.Name,
		ProfileSkills: skillPromptLabels(profileSkills),
		ProfileText:   truncateText(p.SourceText(), promptCharBudget),
	}

	analysis, err := u.client.AnalyzeCandidate(ctx, req)
	if err != nil {
		u.logger.Warn("candidate analysis degraded to placeholder",
			zap.String("profile_id", p.ID.String()),
			zap.Error(err),
		)
		return placeholderAnalysis(p.ID)
	}

	out := match.StoredAnalysis{
		ProfileID:   p.ID,
		Score:       analysis.Score,
		Explanation: analysis.Explanation,
		Evidence:    make([]match.Evidence, 0, len(analysis.Evidence)),
		Strengths:   analysis.Strengths,
		Concerns:    analysis.Concerns,
		Confidence:  analysis.Confidence,
	}
	for _, e := range analysis.Evidence {
		out.Evidence = append(out.Evidence, match.Evidence{
			Category:    e.Category,
			JobQuote:    e.JobQuote,
			ResumeQuote: e.ResumeQuote,
			Assessment:  e.Assessment,
		})
	}
	return out
}

func (u *MatchStep2) persistStep2(ctx context.Context, jobID uuid.UUID, sess *match.Session, selections []uuid.UUID, results []match.StoredAnalysis) (match.Session, error) {
	if sess != nil {
		return u.sessions.SaveStep2(ctx, sess.ID, selections, results)
	}

	// Ad-hoc deep analysis without a prior step-1 run: the session is born
	// completed.
	return u.sessions.Create(ctx, match.Session{
		JobID:           jobID,
		Status:          match.StatusCompleted,
		Step2Selections: selections,
		Step2Results:    results,
	})
}

func (u *MatchStep2) acquireLock(ctx context.Context, jobID uuid.UUID) func() {
	if u.locks == nil {
		return func() {}
	}

	key := "match:lock:job:" + jobID.String()
	ok, err := u.locks.SetIfNotExists(ctx, key, "step2", matchLockTTL)
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

func placeholderAnalysis(profileID uuid.UUID) match.StoredAnalysis {
	return match.StoredAnalysis{
		ProfileID:   profileID,
		Score:       0,
		Explanation: degradedExplanation,
		Evidence:    []match.Evidence{},
		Strengths:   []string{},
		Concerns:    []string{"analysis unavailable"},
		Confidence:  0,
	}
}

func skillPromptLabels(instances []skill.Instance) []string {
	out := make([]string, 0, len(instances))
	for _, inst := range instances {
		label := inst.SkillName
		if label == "" {
			label = inst.RawLabel
		}
		if inst.EntityType == skill.EntityJob && inst.Priority.IsMandatory() {
			label += " (must have)"
		}
		out = append(out, label)
	}
	return out
}

func truncateText(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	return s[:limit]
}
