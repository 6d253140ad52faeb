// Package taxonomy reads skill taxonomies from YAML documents.
package taxonomy

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"skill-bridge/internal/domain/skill"

	"github.com/goccy/go-yaml"
)

//go:embed default.yaml
var defaultTaxonomy []byte

type Document struct {
	Skills    []Entry         `yaml:"skills"`
	Relations []RelationEntry `yaml:"relations,omitempty"`
}

type Entry struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Category string   `yaml:"category"`
	Aliases  []string `yaml:"aliases,omitempty"`
}

type RelationEntry struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	Type string `yaml:"type,omitempty"`
}

// Taxonomy is a decoded document: the skills plus the relations between them.
type Taxonomy struct {
	Skills    []skill.Skill
	Relations []skill.Relation
}

// ParseTaxonomy decodes a document. Relations must reference skills declared
// in the same document.
func ParseTaxonomy(b []byte) (Taxonomy, error) {
	var doc Document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return Taxonomy{}, fmt.Errorf("failed to unmarshal taxonomy: %w", err)
	}

	out := Taxonomy{
		Skills:    make([]skill.Skill, 0, len(doc.Skills)),
		Relations: make([]skill.Relation, 0, len(doc.Relations)),
	}
	declared := make(map[string]struct{}, len(doc.Skills))
	for i, e := range doc.Skills {
		if strings.TrimSpace(e.ID) == "" || strings.TrimSpace(e.Name) == "" {
			return Taxonomy{}, fmt.Errorf("taxonomy entry %d: id and name are required", i)
		}
		cat, err := skill.ParseCategory(e.Category)
		if err != nil || cat == skill.CategoryAll {
			return Taxonomy{}, fmt.Errorf("taxonomy entry %s: category must be one of %v", e.ID, skill.Categories())
		}
		id := strings.TrimSpace(e.ID)
		declared[id] = struct{}{}
		out.Skills = append(out.Skills, skill.Skill{
			ID:            id,
			CanonicalName: strings.TrimSpace(e.Name),
			Category:      cat,
			Aliases:       e.Aliases,
		})
	}

	for i, r := range doc.Relations {
		from, to := strings.TrimSpace(r.From), strings.TrimSpace(r.To)
		for _, id := range []string{from, to} {
			if _, ok := declared[id]; !ok {
				return Taxonomy{}, fmt.Errorf("taxonomy relation %d: unknown skill %q", i, id)
			}
		}
		t, err := skill.ParseRelationType(r.Type)
		if err != nil {
			return Taxonomy{}, fmt.Errorf("taxonomy relation %d: %w", i, err)
		}
		out.Relations = append(out.Relations, skill.Relation{FromSkillID: from, ToSkillID: to, Type: t})
	}
	return out, nil
}

// LoadTaxonomy reads a taxonomy file. An empty path yields the built-in taxonomy.
func LoadTaxonomy(path string) (Taxonomy, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return ParseTaxonomy(defaultTaxonomy)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("failed to read taxonomy file %s: %w", path, err)
	}
	return ParseTaxonomy(b)
}

func Parse(b []byte) ([]skill.Skill, error) {
	t, err := ParseTaxonomy(b)
	return t.Skills, err
}

func Load(path string) ([]skill.Skill, error) {
	t, err := LoadTaxonomy(path)
	return t.Skills, err
}

func Default() ([]skill.Skill, error) {
	return Parse(defaultTaxonomy)
}

func MarshalTaxonomy(t Taxonomy) ([]byte, error) {
	doc := Document{Skills: make([]Entry, 0, len(t.Skills))}
	for _, s := range t.Skills {
		doc.Skills = append(doc.Skills, Entry{
			ID:       s.ID,
			Name:     s.CanonicalName,
			Category: string(s.Category),
			Aliases:  s.Aliases,
		})
	}
	for _, r := range t.Relations {
		doc.Relations = append(doc.Relations, RelationEntry{From: r.FromSkillID, To: r.ToSkillID, Type: string(r.Type)})
	}
	return yaml.Marshal(doc)
}
