package repository

import (
	"context"
	"fmt"

	"skill-bridge/internal/database"
	"skill-bridge/internal/domain"
	"skill-bridge/internal/domain/skill"
)

type SkillRepository interface {
	GetAllSkills(ctx context.Context) ([]skill.Skill, error)
	UpsertSkills(ctx context.Context, skills []skill.Skill) error
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

// GetAllSkills returns skills in taxonomy order with their aliases attached.
func (r *PostgresSkillRepository) GetAllSkills(ctx context.Context) ([]skill.Skill, error) {
	rows, err := r.db.Query(ctx, `SELECT id, canonical_name, category FROM skills ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}
	defer rows.Close()

	out := make([]skill.Skill, 0)
	pos := make(map[string]int)
	for rows.Next() {
		var s skill.Skill
		var category string
		if err := rows.Scan(&s.ID, &s.CanonicalName, &category); err != nil {
			return nil, err
		}
		s.Category = skill.Category(category)
		pos[s.ID] = len(out)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	aliasRows, err := r.db.Query(ctx, `SELECT skill_id, alias FROM skill_aliases ORDER BY skill_id ASC, alias ASC`)
	if err != nil {
		return nil, fmt.Errorf("query skill aliases: %w", err)
	}
	defer aliasRows.Close()

	for aliasRows.Next() {
		var skillID, alias string
		if err := aliasRows.Scan(&skillID, &alias); err != nil {
			return nil, err
		}
		if i, ok := pos[skillID]; ok {
			out[i].Aliases = append(out[i].Aliases, alias)
		}
	}
	if err := aliasRows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertSkills writes the taxonomy in one transaction. Each skill's alias set
// is replaced by the one given.
func (r *PostgresSkillRepository) UpsertSkills(ctx context.Context, skills []skill.Skill) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		for i, s := range skills {
			if _, err := tx.Exec(ctx,
				`INSERT INTO skills (id, canonical_name, category, position)
				 VALUES ($1, $2, $3, $4)
				 ON CONFLICT (id) DO UPDATE
				 SET canonical_name = EXCLUDED.canonical_name,
				     category = EXCLUDED.category,
				     position = EXCLUDED.position`,
				s.ID, s.CanonicalName, string(s.Category), i,
			); err != nil {
				return wrapWriteError(err, "skill", s.ID)
			}
			if _, err := tx.Exec(ctx, `DELETE FROM skill_aliases WHERE skill_id = $1`, s.ID); err != nil {
				return err
			}
			for _, a := range s.Aliases {
				if _, err := tx.Exec(ctx,
					`INSERT INTO skill_aliases (alias, skill_id) VALUES ($1, $2)`,
					skill.Normalize(a), s.ID,
				); err != nil {
					if database.IsUniqueViolation(err) {
						return fmt.Errorf("%w: %q on skill %s", domain.ErrDuplicateAlias, a, s.ID)
					}
					return wrapWriteError(err, "skill alias", a)
				}
			}
		}
		return nil
	})
}
