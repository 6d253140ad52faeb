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
	"skill-bridge/internal/domain/evidence"
	"skill-bridge/internal/domain/skill"
	"skill-bridge/internal/repository"

	"github.com/google/uuid"
)

type UploadEvidenceInput struct {
	ID          string
	Title       string
	Kind        string
	TextExcerpt string
	SourceURL   string
	UploadedAt  time.Time
	SkillTokens []string
}

type TaggedEvidence struct {
	Item       evidence.Item
	Unresolved []skill.UnresolvedToken
}

type EvidenceUsecase interface {
	ListEvidence(ctx context.Context, kind string) ([]evidence.Item, error)
	GetEvidence(ctx context.Context, id string) (evidence.Item, error)
	UploadEvidence(ctx context.Context, in UploadEvidenceInput) (TaggedEvidence, error)
	RetagEvidence(ctx context.Context, id string, tokens []string) (TaggedEvidence, error)
	DeleteEvidence(ctx context.Context, id string) error
}

// Evidence keeps the in-memory index and the optional repository in step.
// The repository is nil in memory-only mode. Writes hold writeMu from the
// existence check until the index is updated, so storage and the index see
// mutations in the same order.
type Evidence struct {
	registry *skill.Registry
	index    *evidence.Index
	repo     repository.EvidenceRepository
	events   EventPublisher
	logger   *log.Logger
	now      func() time.Time

	writeMu sync.Mutex
}

func NewEvidenceUsecase(registry *skill.Registry, index *evidence.Index, repo repository.EvidenceRepository, events EventPublisher, logger *log.Logger) *Evidence {
	return &Evidence{
		registry: registry,
		index:    index,
		repo:     repo,
		events:   publisherOrNoop(events),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (u *Evidence) ListEvidence(_ context.Context, kind string) ([]evidence.Item, error) {
	if strings.TrimSpace(kind) == "" {
		return u.index.All(), nil
	}
	k, err := evidence.ParseKind(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return u.index.ByKind(k), nil
}

func (u *Evidence) GetEvidence(_ context.Context, id string) (evidence.Item, error) {
	it, ok := u.index.Get(strings.TrimSpace(id))
	if !ok {
		return evidence.Item{}, fmt.Errorf("%w: evidence %s", domain.ErrNotFound, id)
	}
	return it, nil
}

// UploadEvidence tags and stores a new item. An existing id is rejected
// rather than re-tagged.
func (u *Evidence) UploadEvidence(ctx context.Context, in UploadEvidenceInput) (TaggedEvidence, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return TaggedEvidence{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	kind, err := evidence.ParseKind(in.Kind)
	if err != nil {
		return TaggedEvidence{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}
	uploadedAt := in.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = u.now()
	}

	u.writeMu.Lock()
	defer u.writeMu.Unlock()

	item, unresolved, err := u.index.Insert(evidence.Item{
		ID:          id,
		Title:       title,
		Kind:        kind,
		TextExcerpt: in.TextExcerpt,
		UploadedAt:  uploadedAt,
		SourceURL:   strings.TrimSpace(in.SourceURL),
	}, in.SkillTokens)
	if err != nil {
		return TaggedEvidence{}, err
	}

	if u.repo != nil {
		if err := u.repo.CreateEvidence(ctx, item); err != nil {
			_ = u.index.Remove(item.ID)
			if u.logger != nil {
				u.logger.Printf("[Evidence] save failed id=%s err=%v", item.ID, err)
			}
			if errors.Is(err, domain.ErrDuplicateID) {
				return TaggedEvidence{}, err
			}
			return TaggedEvidence{}, ErrInternal
		}
	}

	u.events.Publish(EventEvidenceUpdated, map[string]any{"evidence_id": item.ID, "action": "created"})
	return TaggedEvidence{Item: item, Unresolved: unresolved}, nil
}

// RetagEvidence replaces the item's whole skill set. Storage is written first
// so a failed write leaves the index untouched.
func (u *Evidence) RetagEvidence(ctx context.Context, id string, tokens []string) (TaggedEvidence, error) {
	id = strings.TrimSpace(id)

	u.writeMu.Lock()
	defer u.writeMu.Unlock()

	if _, ok := u.index.Get(id); !ok {
		return TaggedEvidence{}, fmt.Errorf("%w: evidence %s", domain.ErrNotFound, id)
	}

	if u.repo != nil {
		ids, _ := u.registry.ResolveAll(tokens)
		if err := u.repo.UpdateEvidenceSkills(ctx, id, ids); err != nil {
			if u.logger != nil {
				u.logger.Printf("[Evidence] retag save failed id=%s err=%v", id, err)
			}
			if errors.Is(err, domain.ErrNotFound) {
				return TaggedEvidence{}, err
			}
			return TaggedEvidence{}, ErrInternal
		}
	}

	item, unresolved, err := u.index.Retag(id, tokens)
	if err != nil {
		return TaggedEvidence{}, err
	}

	u.events.Publish(EventEvidenceUpdated, map[string]any{"evidence_id": item.ID, "action": "retagged"})
	return TaggedEvidence{Item: item, Unresolved: unresolved}, nil
}

func (u *Evidence) DeleteEvidence(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)

	u.writeMu.Lock()
	defer u.writeMu.Unlock()

	if _, ok := u.index.Get(id); !ok {
		return fmt.Errorf("%w: evidence %s", domain.ErrNotFound, id)
	}

	if u.repo != nil {
		if err := u.repo.DeleteEvidence(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
			if u.logger != nil {
				u.logger.Printf("[Evidence] delete failed id=%s err=%v", id, err)
			}
			return ErrInternal
		}
	}

	if err := u.index.Remove(id); err != nil {
		return err
	}
	u.events.Publish(EventEvidenceUpdated, map[string]any{"evidence_id": id, "action": "deleted"})
	return nil
}
