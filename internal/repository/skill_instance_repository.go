package repository

import (
	"context"

	"talent-match/internal/database"
	"talent-match/internal/domain/skill"

	"github.com/google/uuid"
)

type SkillInstanceRepository interface {
	FindByEntity(ctx context.Context, entityType skill.EntityType, entityID uuid.UUID) ([]skill.Instance, error)
	FindAllByEntityType(ctx context.Context, entityType skill.EntityType) (map[uuid.UUID][]skill.Instance, error)
	ReplaceForEntity(ctx context.Context, entityType skill.EntityType, entityID uuid.UUID, instances []skill.Instance) error
}

type PostgresSkillInstanceRepository struct {
	db database.DB
}

func NewPostgresSkillInstanceRepository(db database.DB) *PostgresSkillInstanceRepository {
	return &PostgresSkillInstanceRepository{db: db}
}

const instanceSelect = `SELECT si.id, si.entity_type, si.entity_id, si.skill_id, s.name, s.category,
       si.raw_label, si.priority, si.confidence, si.created_at
 FROM skill_instances si
 JOIN skills s ON s.id = si.skill_id`

func (r *PostgresSkillInstanceRepository) FindByEntity(ctx context.Context, entityType skill.EntityType, entityID uuid.UUID) ([]skill.Instance, error) {
	rows, err := r.db.Query(ctx,
		instanceSelect+` WHERE si.entity_type = $1 AND si.entity_id = $2 ORDER BY si.created_at ASC, s.name ASC`,
		entityType, entityID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Instance, 0)
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindAllByEntityType loads the full skill-instance population for one entity
// type, grouped by owner. Step-1 uses this to scan every candidate in one
// query.
func (r *PostgresSkillInstanceRepository) FindAllByEntityType(ctx context.Context, entityType skill.EntityType) (map[uuid.UUID][]skill.Instance, error) {
	rows, err := r.db.Query(ctx,
		instanceSelect+` WHERE si.entity_type = $1 ORDER BY si.entity_id ASC, si.created_at ASC`,
		entityType,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]skill.Instance)
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		out[inst.EntityID] = append(out[inst.EntityID], inst)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceForEntity swaps the entity's instance set in one transaction. The
// set is re-derivable by re-running canonicalization, so replacement is the
// only mutation.
func (r *PostgresSkillInstanceRepository) ReplaceForEntity(ctx context.Context, entityType skill.EntityType, entityID uuid.UUID, instances []skill.Instance) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx,
		`DELETE FROM skill_instances WHERE entity_type = $1 AND entity_id = $2`,
		entityType, entityID,
	); err != nil {
		return err
	}

	for _, inst := range instances {
		id := inst.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO skill_instances (id, entity_type, entity_id, skill_id, raw_label, priority, confidence)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, entityType, entityID, inst.SkillID, inst.RawLabel, inst.Priority, inst.Confidence,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func scanInstance(rows database.Rows) (skill.Instance, error) {
	var inst skill.Instance
	err := rows.Scan(&inst.ID, &inst.EntityType, &inst.EntityID, &inst.SkillID,
		&inst.SkillName, &inst.Category, &inst.RawLabel, &inst.Priority,
		&inst.Confidence, &inst.CreatedAt)
	return inst, err
}
