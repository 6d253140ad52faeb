package evidence

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"skill-bridge/internal/domain"
	"skill-bridge/internal/domain/skill"
)

// Resolver is the part of the skill registry the index needs for tagging.
type Resolver interface {
	ResolveAll(tokens []string) ([]string, []skill.UnresolvedToken)
	Contains(id string) bool
}

// Index stores tagged evidence items in insertion order. Writers take an
// exclusive lock; readers always receive copies.
type Index struct {
	resolver Resolver

	mu      sync.RWMutex
	items   map[string]Item
	order   []string
	version uint64
}

func NewIndex(resolver Resolver) *Index {
	return &Index{
		resolver: resolver,
		items:    make(map[string]Item),
	}
}

// Tag resolves tokens and stores the item keyed by id. Tagging an id that is
// already present replaces the stored item and its whole skill set; the item
// keeps its original insertion position.
func (x *Index) Tag(item Item, tokens []string) (Item, []skill.UnresolvedToken, error) {
	return x.put(item, tokens, true)
}

// Insert is Tag without replacement: an existing id fails with ErrDuplicateID.
func (x *Index) Insert(item Item, tokens []string) (Item, []skill.UnresolvedToken, error) {
	return x.put(item, tokens, false)
}

func (x *Index) put(item Item, tokens []string, replace bool) (Item, []skill.UnresolvedToken, error) {
	item.ID = strings.TrimSpace(item.ID)
	if item.ID == "" {
		return Item{}, nil, fmt.Errorf("evidence item with empty id")
	}

	ids, unresolved := x.resolver.ResolveAll(tokens)
	item.SkillIDs = ids

	x.mu.Lock()
	defer x.mu.Unlock()

	if _, exists := x.items[item.ID]; exists {
		if !replace {
			return Item{}, unresolved, fmt.Errorf("%w: evidence %s", domain.ErrDuplicateID, item.ID)
		}
	} else {
		x.order = append(x.order, item.ID)
	}
	x.items[item.ID] = item.clone()
	x.version++

	return item.clone(), unresolved, nil
}

// Retag replaces the skill set of an existing item, leaving its other fields.
func (x *Index) Retag(id string, tokens []string) (Item, []skill.UnresolvedToken, error) {
	ids, unresolved := x.resolver.ResolveAll(tokens)

	x.mu.Lock()
	defer x.mu.Unlock()

	it, ok := x.items[id]
	if !ok {
		return Item{}, unresolved, fmt.Errorf("%w: evidence %s", domain.ErrNotFound, id)
	}
	it.SkillIDs = ids
	x.items[id] = it
	x.version++

	return it.clone(), unresolved, nil
}

// Restore loads already-tagged items, typically from storage. The whole batch
// is rejected if any item has a blank id, references an unknown skill or
// repeats an id.
func (x *Index) Restore(items []Item) error {
	items = slices.Clone(items)
	seen := make(map[string]struct{}, len(items))
	for i := range items {
		items[i].ID = strings.TrimSpace(items[i].ID)
		it := items[i]
		if it.ID == "" {
			return fmt.Errorf("evidence item %d with empty id", i)
		}
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("%w: evidence %s", domain.ErrDuplicateID, it.ID)
		}
		seen[it.ID] = struct{}{}
		for _, sid := range it.SkillIDs {
			if !x.resolver.Contains(sid) {
				return fmt.Errorf("%w: evidence %s references %s", domain.ErrUnknownSkill, it.ID, sid)
			}
		}
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	for _, it := range items {
		if _, exists := x.items[it.ID]; exists {
			return fmt.Errorf("%w: evidence %s", domain.ErrDuplicateID, it.ID)
		}
	}
	for _, it := range items {
		it.SkillIDs = dedupe(it.SkillIDs)
		x.items[it.ID] = it.clone()
		x.order = append(x.order, it.ID)
	}
	x.version++
	return nil
}

func (x *Index) Remove(id string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if _, ok := x.items[id]; !ok {
		return fmt.Errorf("%w: evidence %s", domain.ErrNotFound, id)
	}
	delete(x.items, id)
	for i, oid := range x.order {
		if oid == id {
			x.order = append(x.order[:i], x.order[i+1:]...)
			break
		}
	}
	x.version++
	return nil
}

func (x *Index) Get(id string) (Item, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	it, ok := x.items[id]
	if !ok {
		return Item{}, false
	}
	return it.clone(), true
}

// EvidenceFor returns every item tagged with skillID, oldest insertion first.
func (x *Index) EvidenceFor(skillID string) []Item {
	return x.filter(func(it Item) bool { return it.HasSkill(skillID) })
}

func (x *Index) ByKind(k Kind) []Item {
	return x.filter(func(it Item) bool { return it.Kind == k })
}

func (x *Index) All() []Item {
	return x.filter(func(Item) bool { return true })
}

func (x *Index) filter(keep func(Item) bool) []Item {
	x.mu.RLock()
	defer x.mu.RUnlock()

	out := make([]Item, 0)
	for _, id := range x.order {
		it := x.items[id]
		if keep(it) {
			out = append(out, it.clone())
		}
	}
	return out
}

// Snapshot returns every item in insertion order together with the version
// they were read at.
func (x *Index) Snapshot() ([]Item, uint64) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	out := make([]Item, 0, len(x.order))
	for _, id := range x.order {
		out = append(out, x.items[id].clone())
	}
	return out, x.version
}

// CountBySkill reports how many items are tagged with each skill id.
func (x *Index) CountBySkill() map[string]int {
	x.mu.RLock()
	defer x.mu.RUnlock()

	out := make(map[string]int)
	for _, it := range x.items {
		for _, sid := range it.SkillIDs {
			out[sid]++
		}
	}
	return out
}

func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.items)
}

// Version changes after every mutation and never goes backwards.
func (x *Index) Version() uint64 {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.version
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
