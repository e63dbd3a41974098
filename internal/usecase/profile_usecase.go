package usecase

import (
	"context"
	"errors"
	"strings"

	"talent-match/internal/domain/profile"
	"talent-match/internal/domain/skill"
	"talent-match/internal/repository"

	"github.com/google/uuid"
)

type CreateProfileInput struct {
	Name       string
	Headline   string
	Summary    string
	Experience string
	ResumeText string
}

type ProfileUsecase interface {
	CreateProfile(ctx context.Context, in CreateProfileInput) (profile.Profile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (profile.Profile, []skill.Instance, error)
	AttachSkills(ctx context.Context, profileID uuid.UUID, labels []SkillLabelInput) ([]skill.Instance, error)
}

type Profiles struct {
	profiles      repository.ProfileRepository
	instances     repository.SkillInstanceRepository
	canonicalizer SkillCanonicalizer
}

func NewProfiles(profiles repository.ProfileRepository, instances repository.SkillInstanceRepository, canonicalizer SkillCanonicalizer) *Profiles {
	return &Profiles{profiles: profiles, instances: instances, canonicalizer: canonicalizer}
}

func (u *Profiles) CreateProfile(ctx context.Context, in CreateProfileInput) (profile.Profile, error) {
	if strings.TrimSpace(in.Name) == "" {
		return profile.Profile{}, ErrInvalidInput
	}

	return u.profiles.Create(ctx, profile.Profile{
		Name:       strings.TrimSpace(in.Name),
		Headline:   strings.TrimSpace(in.Headline),
		Summary:    in.Summary,
		Experience: in.Experience,
		ResumeText: in.ResumeText,
	})
}

func (u *Profiles) GetProfile(ctx context.Context, id uuid.UUID) (profile.Profile, []skill.Instance, error) {
	p, err := u.profiles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return profile.Profile{}, nil, ErrProfileNotFound
		}
		return profile.Profile{}, nil, err
	}

	instances, err := u.instances.FindByEntity(ctx, skill.EntityProfile, id)
	if err != nil {
		return profile.Profile{}, nil, err
	}
	return p, instances, nil
}

// AttachSkills canonicalizes the raw labels and replaces the profile's skill
// instance set.
func (u *Profiles) AttachSkills(ctx context.Context, profileID uuid.UUID, labels []SkillLabelInput) ([]skill.Instance, error) {
	if len(labels) == 0 {
		return nil, ErrInvalidInput
	}

	if _, err := u.profiles.FindByID(ctx, profileID); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	instances, err := canonicalizeLabels(ctx, u.canonicalizer, skill.EntityProfile, profileID, labels)
	if err != nil {
		return nil, err
	}

	if err := u.instances.ReplaceForEntity(ctx, skill.EntityProfile, profileID, instances); err != nil {
		return nil, err
	}
	return u.instances.FindByEntity(ctx, skill.EntityProfile, profileID)
}
