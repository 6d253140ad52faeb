package seeder

import (
	"context"

	"skill-bridge/internal/database"
	"skill-bridge/internal/domain/skill"
	"skill-bridge/internal/repository"
)

// TaxonomySeeder upserts a skill taxonomy. The skills are validated as a
// registry first so a bad file never reaches the database.
type TaxonomySeeder struct {
	Skills []skill.Skill
}

func (TaxonomySeeder) Name() string { return "taxonomy" }

func (s TaxonomySeeder) Run(ctx context.Context, db database.DB) error {
	reg, err := skill.NewRegistry(s.Skills)
	if err != nil {
		return err
	}
	return repository.NewPostgresSkillRepository(db).UpsertSkills(ctx, reg.All())
}
