package repository

import (
	"context"
	"database/sql"
	"errors"

	"talent-match/internal/database"
	"talent-match/internal/domain/job"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrJobNotFound = errors.New("job not found")

type JobRepository interface {
	Create(ctx context.Context, j job.Job) (job.Job, error)
	FindByID(ctx context.Context, id uuid.UUID) (job.Job, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, limit, offset int) ([]job.Job, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) (job.Job, error) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO jobs (id, title, company, location, description, overview, requirements)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, title, company, location, description, overview, requirements, created_at`,
		j.ID, j.Title, j.Company, j.Location, j.Description, j.Overview, j.Requirements,
	)
	return scanJob(row)
}

func (r *PostgresJobRepository) FindByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, title, company, location, description, overview, requirements, created_at
		 FROM jobs WHERE id = $1`,
		id,
	)

	j, err := scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, err
	}
	return j, nil
}

func (r *PostgresJobRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM jobs WHERE id = $1)`, id)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresJobRepository) List(ctx context.Context, limit, offset int) ([]job.Job, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, title, company, location, description, overview, requirements, created_at
		 FROM jobs ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		var j job.Job
		if err := rows.Scan(&j.ID, &j.Title, &j.Company, &j.Location,
			&j.Description, &j.Overview, &j.Requirements, &j.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanJob(row database.Row) (job.Job, error) {
	var j job.Job
	err := row.Scan(&j.ID, &j.Title, &j.Company, &j.Location,
		&j.Description, &j.Overview, &j.Requirements, &j.CreatedAt)
	return j, err
}
