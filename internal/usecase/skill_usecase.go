package usecase

import (
	"context"

	"talent-match/internal/domain/skill"
	"talent-match/internal/repository"
)

type SkillUsecase interface {
	ListSkills(ctx context.Context) ([]skill.CanonicalSkill, error)
}

type Skills struct {
	skills repository.SkillRepository
}

func NewSkills(skills repository.SkillRepository) *Skills {
	return &Skills{skills: skills}
}

func (u *Skills) ListSkills(ctx context.Context) ([]skill.CanonicalSkill, error) {
	return u.skills.ListSkills(ctx)
}
