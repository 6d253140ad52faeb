package usecase

import (
	"context"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) (int, error)
}

// EventPublisher fans out change notifications to connected clients.
type EventPublisher interface {
	Publish(eventType string, payload any)
}

const (
	EventEvidenceUpdated = "evidence_updated"
	EventJobsUpdated     = "jobs_updated"
)

type noopPublisher struct{}

func (noopPublisher) Publish(string, any) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
