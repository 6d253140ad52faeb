package skill

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryProgrammingLanguages Category = "Programming Languages"
	CategoryDataScience          Category = "Data Science"
	CategoryWebDevelopment       Category = "Web Development"
	CategoryCloudDevOps          Category = "Cloud & DevOps"
	CategoryTools                Category = "Tools"

	// CategoryAll is the listing sentinel meaning "no category filter".
	CategoryAll Category = "All"
)

var categories = []Category{
	CategoryProgrammingLanguages,
	CategoryDataScience,
	CategoryWebDevelopment,
	CategoryCloudDevOps,
	CategoryTools,
}

func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory accepts a category name case-insensitively. The All sentinel is
// accepted too since it is valid as a listing filter.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, string(CategoryAll)) {
		return CategoryAll, nil
	}
	for _, c := range categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown skill category %q", s)
}

type Skill struct {
	ID            string
	CanonicalName string
	Category      Category
	Aliases       []string
}

// Terms returns the normalized canonical name followed by the skill's aliases,
// de-duplicated.
func (s Skill) Terms() []string {
	out := make([]string, 0, len(s.Aliases)+1)
	seen := make(map[string]struct{}, len(s.Aliases)+1)
	add := func(v string) {
		v = Normalize(v)
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	add(s.CanonicalName)
	for _, a := range s.Aliases {
		add(a)
	}
	return out
}

func (s Skill) clone() Skill {
	aliases := make([]string, len(s.Aliases))
	copy(aliases, s.Aliases)
	s.Aliases = aliases
	return s
}

// UnresolvedToken is free text that matched no registered name or alias.
// Position is the index of the token in the caller's input.
type UnresolvedToken struct {
	Token    string `json:"token"`
	Position int    `json:"position"`
}

// Normalize lower-cases a token, trims it and collapses inner whitespace runs.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}
