package usecase

import "errors"

var (
	ErrJobNotFound      = errors.New("job not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrSessionNotFound  = errors.New("match session not found")
	ErrSessionForbidden = errors.New("match session belongs to a different job")
	ErrEmptySelection   = errors.New("no candidates to analyze")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInternal         = errors.New("internal error")
)
