package skill

import (
	"fmt"
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"skill-bridge/internal/domain"
)

const (
	confidenceCanonical = 0.9
	confidenceAlias     = 0.75
	snippetWindow       = 80
)

// Registry is the closed-world skill taxonomy. It is read-only after
// NewRegistry returns and safe for concurrent use.
type Registry struct {
	skills []Skill
	byID   map[string]int
	byTerm map[string]string
}

func NewRegistry(skills []Skill) (*Registry, error) {
	r := &Registry{
		skills: make([]Skill, 0, len(skills)),
		byID:   make(map[string]int, len(skills)),
		byTerm: make(map[string]string, len(skills)*3),
	}

	for _, s := range skills {
		s.ID = strings.TrimSpace(s.ID)
		s.CanonicalName = strings.TrimSpace(s.CanonicalName)
		if s.ID == "" || s.CanonicalName == "" {
			return nil, fmt.Errorf("skill with empty id or name: id=%q name=%q", s.ID, s.CanonicalName)
		}
		if _, ok := r.byID[s.ID]; ok {
			return nil, fmt.Errorf("%w: skill %s", domain.ErrDuplicateID, s.ID)
		}
		c, err := ParseCategory(string(s.Category))
		if err != nil || c == CategoryAll {
			return nil, fmt.Errorf("skill %s: unknown category %q", s.ID, s.Category)
		}
		s.Category = c

		terms := s.Terms()
		for _, t := range terms {
			if owner, ok := r.byTerm[t]; ok {
				return nil, fmt.Errorf("%w: %q claimed by %s and %s", domain.ErrDuplicateAlias, t, owner, s.ID)
			}
			r.byTerm[t] = s.ID
		}
		// terms[0] is the normalized canonical name, which stays implicit.
		s.Aliases = terms[1:]

		r.byID[s.ID] = len(r.skills)
		r.skills = append(r.skills, s)
	}

	return r, nil
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.skills)
}

// Resolve maps a free-text token to a skill id by case-insensitive exact match
// against canonical names and aliases.
func (r *Registry) Resolve(token string) (string, bool) {
	if r == nil {
		return "", false
	}
	key := Normalize(token)
	if key == "" {
		return "", false
	}
	id, ok := r.byTerm[key]
	return id, ok
}

// ResolveAll resolves tokens in order. Resolved ids are de-duplicated keeping
// the first occurrence; tokens that match nothing are returned separately.
func (r *Registry) ResolveAll(tokens []string) ([]string, []UnresolvedToken) {
	ids := make([]string, 0, len(tokens))
	unresolved := make([]UnresolvedToken, 0)
	seen := make(map[string]struct{}, len(tokens))

	for i, tok := range tokens {
		id, ok := r.Resolve(tok)
		if !ok {
			unresolved = append(unresolved, UnresolvedToken{Token: tok, Position: i})
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, unresolved
}

func (r *Registry) Contains(id string) bool {
	if r == nil {
		return false
	}
	_, ok := r.byID[id]
	return ok
}

func (r *Registry) Get(id string) (Skill, bool) {
	if r == nil {
		return Skill{}, false
	}
	i, ok := r.byID[id]
	if !ok {
		return Skill{}, false
	}
	return r.skills[i].clone(), true
}

func (r *Registry) All() []Skill {
	if r == nil {
		return []Skill{}
	}
	out := make([]Skill, 0, len(r.skills))
	for _, s := range r.skills {
		out = append(out, s.clone())
	}
	return out
}

// Search lazily yields skills whose name or any alias contains query,
// case-insensitively. An empty query yields every skill.
func (r *Registry) Search(query string) iter.Seq[Skill] {
	q := Normalize(query)
	return func(yield func(Skill) bool) {
		if r == nil {
			return
		}
		for _, s := range r.skills {
			if q != "" && !matchesSubstring(s, q) {
				continue
			}
			if !yield(s.clone()) {
				return
			}
		}
	}
}

func matchesSubstring(s Skill, q string) bool {
	if strings.Contains(Normalize(s.CanonicalName), q) {
		return true
	}
	for _, a := range s.Aliases {
		if strings.Contains(a, q) {
			return true
		}
	}
	return false
}

func (r *Registry) ListByCategory(c Category) []Skill {
	out := make([]Skill, 0)
	if r == nil {
		return out
	}
	for _, s := range r.skills {
		if c != CategoryAll && s.Category != c {
			continue
		}
		out = append(out, s.clone())
	}
	return out
}

type Mention struct {
	Skill       Skill
	MatchedTerm string
	Confidence  float64
	Snippet     string
}

// Mentions scans text for whole-word occurrences of canonical names and
// aliases. At most one mention is reported per skill, preferring the
// canonical name over an alias.
func (r *Registry) Mentions(text string) []Mention {
	out := make([]Mention, 0)
	if r == nil {
		return out
	}
	flat := strings.Join(strings.Fields(text), " ")
	lowered := strings.ToLower(flat)
	if lowered == "" {
		return out
	}
	src := flat
	if len(src) != len(lowered) {
		src = lowered
	}

	for _, s := range r.skills {
		var best *Mention
		for i, term := range s.Terms() {
			idx := indexWord(lowered, term)
			if idx < 0 {
				continue
			}
			conf := confidenceAlias
			if i == 0 {
				conf = confidenceCanonical
			}
			if best != nil && best.Confidence >= conf {
				continue
			}
			best = &Mention{
				Skill:       s.clone(),
				MatchedTerm: term,
				Confidence:  conf,
				Snippet:     snippet(src, idx, len(term)),
			}
		}
		if best != nil {
			out = append(out, *best)
		}
	}
	return out
}

func indexWord(haystack, needle string) int {
	from := 0
	for from <= len(haystack)-len(needle) {
		i := strings.Index(haystack[from:], needle)
		if i < 0 {
			return -1
		}
		start := from + i
		end := start + len(needle)
		if isBoundary(haystack, start, true) && isBoundary(haystack, end, false) {
			return start
		}
		_, w := utf8.DecodeRuneInString(haystack[start:])
		from = start + w
	}
	return -1
}

func isBoundary(s string, pos int, before bool) bool {
	var r rune
	if before {
		if pos == 0 {
			return true
		}
		r, _ = utf8.DecodeLastRuneInString(s[:pos])
	} else {
		if pos >= len(s) {
			return true
		}
		r, _ = utf8.DecodeRuneInString(s[pos:])
	}
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func snippet(text string, idx, n int) string {
	start := idx - snippetWindow
	if start < 0 {
		start = 0
	}
	end := idx + n + snippetWindow
	if end > len(text) {
		end = len(text)
	}
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}
	return strings.TrimSpace(text[start:end])
}
