// Package role groups job postings under named career roles and derives how
// strongly each skill is demanded by a role.
package role

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"skill-bridge/internal/domain"
	"skill-bridge/internal/domain/job"
)

type Role struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// Store keeps roles in memory. Names are unique case-insensitively.
type Store struct {
	mu     sync.RWMutex
	items  map[string]Role
	byName map[string]string
}

func NewStore() *Store {
	return &Store{
		items:  make(map[string]Role),
		byName: make(map[string]string),
	}
}

func (s *Store) Add(r Role) error {
	r.ID = strings.TrimSpace(r.ID)
	r.Name = strings.TrimSpace(r.Name)
	if r.ID == "" || r.Name == "" {
		return fmt.Errorf("role with empty id or name: id=%q name=%q", r.ID, r.Name)
	}
	key := strings.ToLower(r.Name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[r.ID]; ok {
		return fmt.Errorf("%w: role %s", domain.ErrDuplicateID, r.ID)
	}
	if owner, ok := s.byName[key]; ok {
		return fmt.Errorf("%w: role name %q taken by %s", domain.ErrDuplicateID, r.Name, owner)
	}
	s.items[r.ID] = r
	s.byName[key] = r.ID
	return nil
}

func (s *Store) Get(id string) (Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.items[id]
	return r, ok
}

// HasName reports whether a role already uses name, ignoring case.
func (s *Store) HasName(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byName[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// List returns every role ordered by name.
func (s *Store) List() []Role {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Role, 0, len(s.items))
	for _, r := range s.items {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// SkillWeight is the share of a role's postings that require one skill.
type SkillWeight struct {
	SkillID  string
	Postings int
	Weight   float64
}

// Weights aggregates the postings tagged with roleID. Weight is the number
// of those postings requiring the skill divided by their total. Heavier
// skills come first; equal weights keep the order skills were first seen.
// Callers choose which postings count, normally the approved ones.
func Weights(roleID string, postings []job.Posting) ([]SkillWeight, int) {
	counts := make(map[string]int)
	order := make([]string, 0)
	total := 0

	for _, p := range postings {
		if !p.HasRole(roleID) {
			continue
		}
		total++
		seen := make(map[string]struct{}, len(p.RequiredSkillIDs))
		for _, sid := range p.RequiredSkillIDs {
			if _, dup := seen[sid]; dup {
				continue
			}
			seen[sid] = struct{}{}
			if _, ok := counts[sid]; !ok {
				order = append(order, sid)
			}
			counts[sid]++
		}
	}

	out := make([]SkillWeight, 0, len(order))
	for _, sid := range order {
		out = append(out, SkillWeight{
			SkillID:  sid,
			Postings: counts[sid],
			Weight:   float64(counts[sid]) / float64(total),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Postings > out[j].Postings
	})
	return out, total
}
