package job

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"skill-bridge/internal/domain"
)

// Store keeps postings in memory in creation order.
type Store struct {
	mu    sync.RWMutex
	items map[string]Posting
	order []string
}

func NewStore() *Store {
	return &Store{items: make(map[string]Posting)}
}

func (s *Store) Add(p Posting) error {
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		return fmt.Errorf("job posting with empty id")
	}
	if p.Status == "" {
		p.Status = StatusApproved
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[p.ID]; ok {
		return fmt.Errorf("%w: job %s", domain.ErrDuplicateID, p.ID)
	}
	s.items[p.ID] = p.clone()
	s.order = append(s.order, p.ID)
	return nil
}

func (s *Store) Get(id string) (Posting, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.items[id]
	if !ok {
		return Posting{}, false
	}
	return p.clone(), true
}

// List returns postings oldest first. An empty status lists every posting.
func (s *Store) List(status ModerationStatus) []Posting {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Posting, 0, len(s.order))
	for _, id := range s.order {
		p := s.items[id]
		if status != "" && p.Status != status {
			continue
		}
		out = append(out, p.clone())
	}
	return out
}

func (s *Store) Moderate(id string, status ModerationStatus, reason string) (Posting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.items[id]
	if !ok {
		return Posting{}, fmt.Errorf("%w: job %s", domain.ErrNotFound, id)
	}
	p.Status = status
	p.ModerationReason = strings.TrimSpace(reason)
	s.items[id] = p
	return p.clone(), nil
}

// TagRole adds roleID to the posting's role set. Tagging twice is a no-op;
// added reports whether the set changed.
func (s *Store) TagRole(id, roleID string) (p Posting, added bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.items[id]
	if !ok {
		return Posting{}, false, fmt.Errorf("%w: job %s", domain.ErrNotFound, id)
	}
	if !p.HasRole(roleID) {
		p.RoleIDs = append(slices.Clone(p.RoleIDs), roleID)
		s.items[id] = p
		added = true
	}
	return p.clone(), added, nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
