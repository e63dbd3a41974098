package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"talent-match/internal/database"
	"talent-match/internal/domain/match"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrSessionNotFound = errors.New("match session not found")

type MatchSessionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (match.Session, error)
	FindOldestByJob(ctx context.Context, jobID uuid.UUID) (match.Session, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]match.Session, error)
	Create(ctx context.Context, s match.Session) (match.Session, error)
	SaveStep1(ctx context.Context, id uuid.UUID, results []match.StoredMatch) (match.Session, error)
	SaveStep2(ctx context.Context, id uuid.UUID, selections []uuid.UUID, results []match.StoredAnalysis) (match.Session, error)
}

type PostgresMatchSessionRepository struct {
	db database.DB
}

func NewPostgresMatchSessionRepository(db database.DB) *PostgresMatchSessionRepository {
	return &PostgresMatchSessionRepository{db: db}
}

const sessionSelect = `SELECT id, job_id, status, step1_results, step2_selections, step2_results,
       COALESCE(notes, ''), created_at, updated_at
 FROM match_sessions`

func (r *PostgresMatchSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (match.Session, error) {
	row := r.db.QueryRow(ctx, sessionSelect+` WHERE id = $1`, id)
	return scanSession(row)
}

// FindOldestByJob returns the job's canonical session: the first one ever
// created. Repeated step-1 runs reuse it instead of creating duplicates.
func (r *PostgresMatchSessionRepository) FindOldestByJob(ctx context.Context, jobID uuid.UUID) (match.Session, error) {
	row := r.db.QueryRow(ctx,
		sessionSelect+` WHERE job_id = $1 ORDER BY created_at ASC LIMIT 1`,
		jobID,
	)
	return scanSession(row)
}

func (r *PostgresMatchSessionRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]match.Session, error) {
	rows, err := r.db.Query(ctx,
		sessionSelect+` WHERE job_id = $1 ORDER BY created_at DESC`,
		jobID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]match.Session, 0)
	for rows.Next() {
		s, err := scanSessionRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresMatchSessionRepository) Create(ctx context.Context, s match.Session) (match.Session, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	step1, err := marshalNullable(s.Step1Results, s.Step1Results == nil)
	if err != nil {
		return match.Session{}, err
	}
	selections, err := marshalNullable(s.Step2Selections, s.Step2Selections == nil)
	if err != nil {
		return match.Session{}, err
	}
	step2, err := marshalNullable(s.Step2Results, s.Step2Results == nil)
	if err != nil {
		return match.Session{}, err
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO match_sessions (id, job_id, status, step1_results, step2_selections, step2_results, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, job_id, status, step1_results, step2_selections, step2_results, COALESCE(notes, ''), created_at, updated_at`,
		s.ID, s.JobID, s.Status, step1, selections, step2, s.Notes,
	)
	return scanSession(row)
}

func (r *PostgresMatchSessionRepository) SaveStep1(ctx context.Context, id uuid.UUID, results []match.StoredMatch) (match.Session, error) {
	payload, err := json.Marshal(results)
	if err != nil {
		return match.Session{}, err
	}

	row := r.db.QueryRow(ctx,
		`UPDATE match_sessions
		 SET step1_results = $1, status = $2, updated_at = now()
		 WHERE id = $3
		 RETURNING id, job_id, status, step1_results, step2_selections, step2_results, COALESCE(notes, ''), created_at, updated_at`,
		payload, match.StatusStep1Complete, id,
	)
	return scanSession(row)
}

func (r *PostgresMatchSessionRepository) SaveStep2(ctx context.Context, id uuid.UUID, selections []uuid.UUID, results []match.StoredAnalysis) (match.Session, error) {
	selPayload, err := json.Marshal(selections)
	if err != nil {
		return match.Session{}, err
	}
	resPayload, err := json.Marshal(results)
	if err != nil {
		return match.Session{}, err
	}

	row := r.db.QueryRow(ctx,
		`UPDATE match_sessions
		 SET step2_selections = $1, step2_results = $2, status = $3, updated_at = now()
		 WHERE id = $4
		 RETURNING id, job_id, status, step1_results, step2_selections, step2_results, COALESCE(notes, ''), created_at, updated_at`,
		selPayload, resPayload, match.StatusCompleted, id,
	)
	return scanSession(row)
}

func marshalNullable(v any, isNil bool) ([]byte, error) {
	if isNil {
		return nil, nil
	}
	return json.Marshal(v)
}

func scanSession(row database.Row) (match.Session, error) {
	var s match.Session
	var step1, selections, step2 []byte

	err := row.Scan(&s.ID, &s.JobID, &s.Status, &step1, &selections, &step2,
		&s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return match.Session{}, ErrSessionNotFound
		}
		return match.Session{}, err
	}

	if err := unmarshalSessionPayloads(&s, step1, selections, step2); err != nil {
		return match.Session{}, err
	}
	return s, nil
}

func scanSessionRows(rows database.Rows) (match.Session, error) {
	var s match.Session
	var step1, selections, step2 []byte

	if err := rows.Scan(&s.ID, &s.JobID, &s.Status, &step1, &selections, &step2,
		&s.Notes, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return match.Session{}, err
	}

	if err := unmarshalSessionPayloads(&s, step1, selections, step2); err != nil {
		return match.Session{}, err
	}
	return s, nil
}

func unmarshalSessionPayloads(s *match.Session, step1, selections, step2 []byte) error {
	if len(step1) > 0 {
		if err := json.Unmarshal(step1, &s.Step1Results); err != nil {
			return err
		}
	}
	if len(selections) > 0 {
		if err := json.Unmarshal(selections, &s.Step2Selections); err != nil {
			return err
		}
	}
	if len(step2) > 0 {
		if err := json.Unmarshal(step2, &s.Step2Results); err != nil {
			return err
		}
	}
	return nil
}
