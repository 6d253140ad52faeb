// Package seeder loads reference data into PostgreSQL.
package seeder

import (
	"context"

	"skill-bridge/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
