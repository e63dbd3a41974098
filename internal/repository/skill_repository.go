package repository

import (
	"context"
	"database/sql"
	"errors"

	"talent-match/internal/database"
	"talent-match/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrSkillNotFound = errors.New("skill not found")
	ErrAliasNotFound = errors.New("alias not found")
)

type SkillRepository interface {
	FindByName(ctx context.Context, name string) (skill.CanonicalSkill, error)
	FindAliasByLabel(ctx context.Context, label string) (skill.Alias, skill.CanonicalSkill, error)
	UpsertSkill(ctx context.Context, name string, category skill.Category) (skill.CanonicalSkill, error)
	UpsertAlias(ctx context.Context, label string, skillID uuid.UUID, confidence float64, source skill.AliasSource) error
	ListSkills(ctx context.Context) ([]skill.CanonicalSkill, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) FindByName(ctx context.Context, name string) (skill.CanonicalSkill, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, category, created_at FROM skills WHERE name = $1`,
		name,
	)

	var s skill.CanonicalSkill
	if err := row.Scan(&s.ID, &s.Name, &s.Category, &s.CreatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return skill.CanonicalSkill{}, ErrSkillNotFound
		}
		return skill.CanonicalSkill{}, err
	}
	return s, nil
}

func (r *PostgresSkillRepository) FindAliasByLabel(ctx context.Context, label string) (skill.Alias, skill.CanonicalSkill, error) {
	row := r.db.QueryRow(ctx,
		`SELECT a.id, a.alias, a.skill_id, a.confidence, a.source,
		        s.id, s.name, s.category, s.created_at
		 FROM skill_aliases a
		 JOIN skills s ON s.id = a.skill_id
		 WHERE a.alias = $1
		 ORDER BY a.confidence DESC
		 LIMIT 1`,
		label,
	)

	var a skill.Alias
	var s skill.CanonicalSkill
	if err := row.Scan(&a.ID, &a.Alias, &a.SkillID, &a.Confidence, &a.Source,
		&s.ID, &s.Name, &s.Category, &s.CreatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return skill.Alias{}, skill.CanonicalSkill{}, ErrAliasNotFound
		}
		return skill.Alias{}, skill.CanonicalSkill{}, err
	}
	return a, s, nil
}

// UpsertSkill is an insert-or-get on the unique name column, so concurrent
// ingestion of the same novel skill resolves to a single row.
func (r *PostgresSkillRepository) UpsertSkill(ctx context.Context, name string, category skill.Category) (skill.CanonicalSkill, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO skills (id, name, category)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, name, category, created_at`,
		uuid.New(), name, category,
	)

	var s skill.CanonicalSkill
	if err := row.Scan(&s.ID, &s.Name, &s.Category, &s.CreatedAt); err != nil {
		return skill.CanonicalSkill{}, err
	}
	return s, nil
}

// UpsertAlias inserts an alias mapping, ignoring duplicates idempotently.
func (r *PostgresSkillRepository) UpsertAlias(ctx context.Context, label string, skillID uuid.UUID, confidence float64, source skill.AliasSource) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO skill_aliases (id, alias, skill_id, confidence, source)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (alias, skill_id) DO NOTHING`,
		uuid.New(), label, skillID, confidence, source,
	)
	return err
}

func (r *PostgresSkillRepository) ListSkills(ctx context.Context) ([]skill.CanonicalSkill, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, category, created_at FROM skills ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.CanonicalSkill, 0)
	for rows.Next() {
		var s skill.CanonicalSkill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
