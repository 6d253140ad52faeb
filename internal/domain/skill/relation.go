package skill

import (
	"fmt"
	"strings"

	"skill-bridge/internal/domain"
)

type RelationType string

const (
	RelationRelatedTo RelationType = "related_to"
	RelationParentOf  RelationType = "parent_of"
	RelationChildOf   RelationType = "child_of"
	RelationSimilarTo RelationType = "similar_to"
)

var relationTypes = []RelationType{RelationRelatedTo, RelationParentOf, RelationChildOf, RelationSimilarTo}

// ParseRelationType defaults an empty value to related_to.
func ParseRelationType(s string) (RelationType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RelationRelatedTo, nil
	}
	for _, t := range relationTypes {
		if s == string(t) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown relation type %q", s)
}

// Relation is a directed edge between two registered skills.
type Relation struct {
	FromSkillID string
	ToSkillID   string
	Type        RelationType
}

// Relations is a read-only set of taxonomy edges, kept in load order.
type Relations struct {
	items []Relation
}

// NewRelations validates every edge against the registry. Repeated edges are
// collapsed; self edges and unknown skills are rejected.
func NewRelations(r *Registry, rels []Relation) (*Relations, error) {
	out := &Relations{items: make([]Relation, 0, len(rels))}
	seen := make(map[Relation]struct{}, len(rels))

	for i, rel := range rels {
		rel.FromSkillID = strings.TrimSpace(rel.FromSkillID)
		rel.ToSkillID = strings.TrimSpace(rel.ToSkillID)
		t, err := ParseRelationType(string(rel.Type))
		if err != nil {
			return nil, fmt.Errorf("relation %d: %w", i, err)
		}
		rel.Type = t

		for _, id := range []string{rel.FromSkillID, rel.ToSkillID} {
			if !r.Contains(id) {
				return nil, fmt.Errorf("relation %d: %w %q", i, domain.ErrUnknownSkill, id)
			}
		}
		if rel.FromSkillID == rel.ToSkillID {
			return nil, fmt.Errorf("relation %d: skill %s related to itself", i, rel.FromSkillID)
		}
		if _, dup := seen[rel]; dup {
			continue
		}
		seen[rel] = struct{}{}
		out.items = append(out.items, rel)
	}
	return out, nil
}

func (rs *Relations) All() []Relation {
	if rs == nil {
		return []Relation{}
	}
	out := make([]Relation, len(rs.items))
	copy(out, rs.items)
	return out
}

// For returns the edges that start or end at skillID.
func (rs *Relations) For(skillID string) []Relation {
	out := make([]Relation, 0)
	if rs == nil {
		return out
	}
	for _, rel := range rs.items {
		if rel.FromSkillID == skillID || rel.ToSkillID == skillID {
			out = append(out, rel)
		}
	}
	return out
}

func (rs *Relations) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.items)
}
