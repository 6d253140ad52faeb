package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"skill-bridge/internal/domain"
	"skill-bridge/internal/domain/job"
	"skill-bridge/internal/domain/role"
	"skill-bridge/internal/domain/skill"
	"skill-bridge/internal/repository"

	"github.com/google/uuid"
)

type CreateRoleInput struct {
	ID          string
	Name        string
	Description string
}

type RoleSkillWeight struct {
	Skill    skill.Skill
	Postings int
	Weight   float64
}

// RoleWeights is computed from the approved postings at ComputedAt.
type RoleWeights struct {
	Role             role.Role
	ComputedAt       time.Time
	ApprovedPostings int
	Weights          []RoleSkillWeight
}

type RoleUsecase interface {
	ListRoles(ctx context.Context) ([]role.Role, error)
	CreateRole(ctx context.Context, in CreateRoleInput) (role.Role, error)
	GetRoleWeights(ctx context.Context, roleID string) (RoleWeights, error)
}

type Role struct {
	registry *skill.Registry
	roles    *role.Store
	jobs     *job.Store
	repo     repository.RoleRepository
	logger   *log.Logger
	now      func() time.Time

	writeMu sync.Mutex
}

// NewRoleUsecase accepts a nil repo for memory-only mode.
func NewRoleUsecase(registry *skill.Registry, roles *role.Store, jobs *job.Store, repo repository.RoleRepository, logger *log.Logger) *Role {
	return &Role{
		registry: registry,
		roles:    roles,
		jobs:     jobs,
		repo:     repo,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (u *Role) ListRoles(context.Context) ([]role.Role, error) {
	return u.roles.List(), nil
}

func (u *Role) CreateRole(ctx context.Context, in CreateRoleInput) (role.Role, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return role.Role{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	r := role.Role{
		ID:          strings.TrimSpace(in.ID),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   u.now(),
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	u.writeMu.Lock()
	defer u.writeMu.Unlock()

	if _, ok := u.roles.Get(r.ID); ok {
		return role.Role{}, fmt.Errorf("%w: role %s", domain.ErrDuplicateID, r.ID)
	}
	if u.roles.HasName(r.Name) {
		return role.Role{}, fmt.Errorf("%w: role name %q", domain.ErrDuplicateID, r.Name)
	}

	if u.repo != nil {
		if err := u.repo.CreateRole(ctx, r); err != nil {
			if errors.Is(err, domain.ErrDuplicateID) {
				return role.Role{}, err
			}
			if u.logger != nil {
				u.logger.Printf("[Roles] persist failed id=%s err=%v", r.ID, err)
			}
			return role.Role{}, ErrInternal
		}
	}
	if err := u.roles.Add(r); err != nil {
		return role.Role{}, err
	}
	return r, nil
}

func (u *Role) GetRoleWeights(_ context.Context, roleID string) (RoleWeights, error) {
	r, ok := u.roles.Get(strings.TrimSpace(roleID))
	if !ok {
		return RoleWeights{}, fmt.Errorf("%w: role %s", domain.ErrNotFound, roleID)
	}

	weights, total := role.Weights(r.ID, u.jobs.List(job.StatusApproved))
	out := RoleWeights{
		Role:             r,
		ComputedAt:       u.now(),
		ApprovedPostings: total,
		Weights:          make([]RoleSkillWeight, 0, len(weights)),
	}
	for _, w := range weights {
		s, ok := u.registry.Get(w.SkillID)
		if !ok {
			continue
		}
		out.Weights = append(out.Weights, RoleSkillWeight{Skill: s, Postings: w.Postings, Weight: w.Weight})
	}
	return out, nil
}
