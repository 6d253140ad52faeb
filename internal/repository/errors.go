package repository

import (
	"fmt"

	"skill-bridge/internal/database"
	"skill-bridge/internal/domain"
)

func wrapWriteError(err error, entity, id string) error {
	switch {
	case database.IsUniqueViolation(err):
		return fmt.Errorf("%w: %s %s", domain.ErrDuplicateID, entity, id)
	case database.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %s %s", domain.ErrUnknownSkill, entity, id)
	default:
		return fmt.Errorf("write %s %s: %w", entity, id, err)
	}
}
