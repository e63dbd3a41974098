package usecase

import (
	"context"
	"errors"

	"talent-match/internal/domain/match"
	"talent-match/internal/repository"

	"github.com/google/uuid"
)

type MatchSessionUsecase interface {
	ListSessions(ctx context.Context, jobID uuid.UUID) ([]match.Session, error)
}

type MatchSessions struct {
	jobs     repository.JobRepository
	sessions repository.MatchSessionRepository
}

func NewMatchSessions(jobs repository.JobRepository, sessions repository.MatchSessionRepository) *MatchSessions {
	return &MatchSessions{jobs: jobs, sessions: sessions}
}

func (u *MatchSessions) ListSessions(ctx context.Context, jobID uuid.UUID) ([]match.Session, error) {
	if jobID == uuid.Nil {
		return nil, ErrJobNotFound
	}

	exists, err := u.jobs.ExistsByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrJobNotFound
	}

	sessions, err := u.sessions.ListByJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return []match.Session{}, nil
		}
		return nil, err
	}
	return sessions, nil
}
