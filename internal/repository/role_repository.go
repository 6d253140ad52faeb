package repository

import (
	"context"
	"fmt"
	"time"

	"skill-bridge/internal/database"
	"skill-bridge/internal/domain/role"
)

type RoleRepository interface {
	ListRoles(ctx context.Context) ([]role.Role, error)
	// CreateRole fails with domain.ErrDuplicateID when the id or the
	// case-insensitive name is taken.
	CreateRole(ctx context.Context, r role.Role) error
}

type PostgresRoleRepository struct {
	db database.DB
}

func NewPostgresRoleRepository(db database.DB) *PostgresRoleRepository {
	return &PostgresRoleRepository{db: db}
}

func (r *PostgresRoleRepository) ListRoles(ctx context.Context) ([]role.Role, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, description, created_at
		 FROM roles
		 ORDER BY seq ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	out := make([]role.Role, 0)
	for rows.Next() {
		var ro role.Role
		var createdAt time.Time
		if err := rows.Scan(&ro.ID, &ro.Name, &ro.Description, &createdAt); err != nil {
			return nil, err
		}
		ro.CreatedAt = createdAt.UTC()
		out = append(out, ro)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRoleRepository) CreateRole(ctx context.Context, ro role.Role) error {
	if _, err := r.db.Exec(ctx,
		`INSERT INTO roles (id, name, description, created_at) VALUES ($1, $2, $3, $4)`,
		ro.ID, ro.Name, ro.Description, ro.CreatedAt,
	); err != nil {
		return wrapWriteError(err, "role", ro.ID)
	}
	return nil
}
