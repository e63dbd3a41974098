package repository

import (
	"context"
	"database/sql"
	"errors"

	"talent-match/internal/database"
	"talent-match/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	Create(ctx context.Context, p profile.Profile) (profile.Profile, error)
	FindByID(ctx context.Context, id uuid.UUID) (profile.Profile, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]profile.Profile, error)
}

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) Create(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO profiles (id, name, headline, summary, experience, resume_text)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, name, headline, summary, experience, resume_text, created_at`,
		p.ID, p.Name, p.Headline, p.Summary, p.Experience, p.ResumeText,
	)
	return scanProfile(row)
}

func (r *PostgresProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (profile.Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, headline, summary, experience, resume_text, created_at
		 FROM profiles WHERE id = $1`,
		id,
	)

	p, err := scanProfile(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, ErrProfileNotFound
		}
		return profile.Profile{}, err
	}
	return p, nil
}

// FindByIDs returns the profiles that exist; missing ids are simply absent
// from the map, not an error.
func (r *PostgresProfileRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]profile.Profile, error) {
	out := make(map[uuid.UUID]profile.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, name, headline, summary, experience, resume_text, created_at
		 FROM profiles WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p profile.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Headline, &p.Summary,
			&p.Experience, &p.ResumeText, &p.CreatedAt); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanProfile(row database.Row) (profile.Profile, error) {
	var p profile.Profile
	err := row.Scan(&p.ID, &p.Name, &p.Headline, &p.Summary,
		&p.Experience, &p.ResumeText, &p.CreatedAt)
	return p, err
}
