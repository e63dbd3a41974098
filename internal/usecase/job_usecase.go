package usecase

import (
	"context"
	"errors"
	"strings"

	"talent-match/internal/domain/job"
	"talent-match/internal/domain/skill"
	"talent-match/internal/repository"

	"github.com/google/uuid"
)

type CreateJobInput struct {
	Title        string
	Company      string
	Location     string
	Description  string
	Overview     string
	Requirements string
}

// SkillLabelInput is one raw skill label as written in a posting or resume.
type SkillLabelInput struct {
	Label    string
	Priority string
}

type JobUsecase interface {
	CreateJob(ctx context.Context, in CreateJobInput) (job.Job, error)
	GetJob(ctx context.Context, id uuid.UUID) (job.Job, []skill.Instance, error)
	ListJobs(ctx context.Context, limit, offset int) ([]job.Job, error)
	AttachSkills(ctx context.Context, jobID uuid.UUID, labels []SkillLabelInput) ([]skill.Instance, error)
}

type Jobs struct {
	jobs          repository.JobRepository
	instances     repository.SkillInstanceRepository
	canonicalizer SkillCanonicalizer
}

func NewJobs(jobs repository.JobRepository, instances repository.SkillInstanceRepository, canonicalizer SkillCanonicalizer) *Jobs {
	return &Jobs{jobs: jobs, instances: instances, canonicalizer: canonicalizer}
}

func (u *Jobs) CreateJob(ctx context.Context, in CreateJobInput) (job.Job, error) {
	if strings.TrimSpace(in.Title) == "" {
		return job.Job{}, ErrInvalidInput
	}

	return u.jobs.Create(ctx, job.Job{
		Title:        strings.TrimSpace(in.Title),
		Company:      strings.TrimSpace(in.Company),
		Location:     strings.TrimSpace(in.Location),
		Description:  in.Description,
		Overview:     in.Overview,
		Requirements: in.Requirements,
	})
}

func (u *Jobs) GetJob(ctx context.Context, id uuid.UUID) (job.Job, []skill.Instance, error) {
	j, err := u.jobs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return job.Job{}, nil, ErrJobNotFound
		}
		return job.Job{}, nil, err
	}

	instances, err := u.instances.FindByEntity(ctx, skill.EntityJob, id)
	if err != nil {
		return job.Job{}, nil, err
	}
	return j, instances, nil
}

func (u *Jobs) ListJobs(ctx context.Context, limit, offset int) ([]job.Job, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return u.jobs.List(ctx, limit, offset)
}

// AttachSkills canonicalizes the raw labels and replaces the job's skill
// instance set. Job priorities default to nice_to_have when unrecognized.
func (u *Jobs) AttachSkills(ctx context.Context, jobID uuid.UUID, labels []SkillLabelInput) ([]skill.Instance, error) {
	if len(labels) == 0 {
		return nil, ErrInvalidInput
	}

	exists, err := u.jobs.ExistsByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrJobNotFound
	}

	instances, err := canonicalizeLabels(ctx, u.canonicalizer, skill.EntityJob, jobID, labels)
	if err != nil {
		return nil, err
	}

	if err := u.instances.ReplaceForEntity(ctx, skill.EntityJob, jobID, instances); err != nil {
		return nil, err
	}
	return u.instances.FindByEntity(ctx, skill.EntityJob, jobID)
}

// canonicalizeLabels is shared by job and profile ingestion: one normalize
// call per raw label, duplicate canonical skills collapsed to the first
// occurrence.
func canonicalizeLabels(ctx context.Context, canonicalizer SkillCanonicalizer, entityType skill.EntityType, entityID uuid.UUID, labels []SkillLabelInput) ([]skill.Instance, error) {
	seen := make(map[uuid.UUID]struct{}, len(labels))
	out := make([]skill.Instance, 0, len(labels))

	for _, l := range labels {
		if strings.TrimSpace(l.Label) == "" {
			continue
		}

		normalized, err := canonicalizer.Normalize(ctx, l.Label, skill.ParsePriority(l.Priority))
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				continue
			}
			return nil, err
		}

		if _, dup := seen[normalized.SkillID]; dup {
			continue
		}
		seen[normalized.SkillID] = struct{}{}

		out = append(out, skill.Instance{
			EntityType: entityType,
			EntityID:   entityID,
			SkillID:    normalized.SkillID,
			SkillName:  normalized.CanonicalName,
			Category:   normalized.Category,
			RawLabel:   normalized.RawLabel,
			Priority:   normalized.Priority,
			Confidence: normalized.Confidence,
		})
	}

	if len(out) == 0 {
		return nil, ErrInvalidInput
	}
	return out, nil
}
