package usecase

import (
	"context"
	"time"

	"skill-bridge/internal/domain"
	"skill-bridge/internal/domain/evidence"
	"skill-bridge/internal/domain/job"
	"skill-bridge/internal/domain/skill"

	"golang.org/x/sync/errgroup"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type StatusUsecase interface {
	GetStatus(ctx context.Context) (domain.ServiceStatus, error)
}

// Status reports service health. Nil pingers mean the backend is not
// configured and are reported unhealthy.
type Status struct {
	registry *skill.Registry
	index    *evidence.Index
	store    *job.Store
	db       Pinger
	redis    Pinger
}

func NewStatusUsecase(registry *skill.Registry, index *evidence.Index, store *job.Store, db, redis Pinger) *Status {
	return &Status{registry: registry, index: index, store: store, db: db, redis: redis}
}

func (u *Status) GetStatus(ctx context.Context) (domain.ServiceStatus, error) {
	items, version := u.index.Snapshot()
	st := domain.ServiceStatus{
		TotalSkills:    u.registry.Len(),
		TotalEvidence:  len(items),
		TotalJobs:      u.store.Len(),
		EvidenceByKind: evidenceByKind(items),
		IndexVersion:   version,
		ServerTime:     time.Now().UTC(),
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var g errgroup.Group
	g.Go(func() error {
		st.DatabaseHealthy = ping(pingCtx, u.db)
		return nil
	})
	g.Go(func() error {
		st.RedisHealthy = ping(pingCtx, u.redis)
		return nil
	})
	_ = g.Wait()

	return st, nil
}

func ping(ctx context.Context, p Pinger) bool {
	if p == nil {
		return false
	}
	return p.Ping(ctx) == nil
}
