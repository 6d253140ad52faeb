package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"skill-bridge/internal/domain"
	"skill-bridge/internal/domain/evidence"
	"skill-bridge/internal/domain/skill"
)

const (
	defaultSkillListLimit = 50
	maxSkillListLimit     = 200
	maxGapThreshold       = 10
	maxGapResults         = 200
	maxLinkedEvidence     = 50
)

type SkillListParams struct {
	Query    string
	Category string
	Limit    int
}

type SkillResolution struct {
	Token   string
	SkillID string
	Found   bool
	Skill   skill.Skill
}

type SkillGap struct {
	Skill         skill.Skill
	EvidenceCount int
}

type SkillDetail struct {
	Skill         skill.Skill
	EvidenceCount int
	Evidence      []evidence.Item
}

// SkillRelation is a taxonomy edge with both endpoints resolved.
type SkillRelation struct {
	From skill.Skill
	To   skill.Skill
	Type skill.RelationType
}

type SkillUsecase interface {
	ListSkills(ctx context.Context, params SkillListParams) ([]skill.Skill, error)
	ResolveToken(ctx context.Context, token string) (SkillResolution, error)
	GetSkillDetail(ctx context.Context, skillID string) (SkillDetail, error)
	ListSkillGaps(ctx context.Context, threshold int) ([]SkillGap, error)
	ExtractMentions(ctx context.Context, text string) ([]skill.Mention, error)
	// ListRelations returns every taxonomy edge, or only those touching
	// skillID when it is set.
	ListRelations(ctx context.Context, skillID string) ([]SkillRelation, error)
}

type Skill struct {
	registry  *skill.Registry
	index     *evidence.Index
	relations *skill.Relations
}

// NewSkillUsecase accepts a nil relations set, which lists no edges.
func NewSkillUsecase(registry *skill.Registry, index *evidence.Index, relations *skill.Relations) *Skill {
	return &Skill{registry: registry, index: index, relations: relations}
}

// ListSkills applies the search query and the category filter together, in
// registry order.
func (u *Skill) ListSkills(_ context.Context, params SkillListParams) ([]skill.Skill, error) {
	category := skill.CategoryAll
	if c := strings.TrimSpace(params.Category); c != "" {
		parsed, err := skill.ParseCategory(c)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		category = parsed
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultSkillListLimit
	}
	if limit > maxSkillListLimit {
		limit = maxSkillListLimit
	}

	out := make([]skill.Skill, 0)
	for s := range u.registry.Search(params.Query) {
		if category != skill.CategoryAll && s.Category != category {
			continue
		}
		out = append(out, s)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (u *Skill) ResolveToken(_ context.Context, token string) (SkillResolution, error) {
	if strings.TrimSpace(token) == "" {
		return SkillResolution{}, ErrInvalidInput
	}
	res := SkillResolution{Token: token}
	id, ok := u.registry.Resolve(token)
	if !ok {
		return res, nil
	}
	res.SkillID = id
	res.Found = true
	res.Skill, _ = u.registry.Get(id)
	return res, nil
}

// GetSkillDetail returns the skill with its most recently uploaded evidence.
func (u *Skill) GetSkillDetail(_ context.Context, skillID string) (SkillDetail, error) {
	s, ok := u.registry.Get(strings.TrimSpace(skillID))
	if !ok {
		return SkillDetail{}, fmt.Errorf("%w: skill %s", domain.ErrNotFound, skillID)
	}

	items := u.index.EvidenceFor(s.ID)
	count := len(items)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].UploadedAt.After(items[j].UploadedAt)
	})
	if len(items) > maxLinkedEvidence {
		items = items[:maxLinkedEvidence]
	}
	return SkillDetail{Skill: s, EvidenceCount: count, Evidence: items}, nil
}

// ListSkillGaps lists skills backed by at most threshold evidence items,
// weakest first, then by name.
func (u *Skill) ListSkillGaps(_ context.Context, threshold int) ([]SkillGap, error) {
	if threshold < 0 || threshold > maxGapThreshold {
		return nil, fmt.Errorf("%w: threshold must be between 0 and %d", ErrInvalidInput, maxGapThreshold)
	}

	counts := u.index.CountBySkill()
	out := make([]SkillGap, 0)
	for _, s := range u.registry.All() {
		n := counts[s.ID]
		if n > threshold {
			continue
		}
		out = append(out, SkillGap{Skill: s, EvidenceCount: n})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EvidenceCount != out[j].EvidenceCount {
			return out[i].EvidenceCount < out[j].EvidenceCount
		}
		return strings.ToLower(out[i].Skill.CanonicalName) < strings.ToLower(out[j].Skill.CanonicalName)
	})
	if len(out) > maxGapResults {
		out = out[:maxGapResults]
	}
	return out, nil
}

func (u *Skill) ExtractMentions(_ context.Context, text string) ([]skill.Mention, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidInput
	}
	return u.registry.Mentions(text), nil
}

func (u *Skill) ListRelations(_ context.Context, skillID string) ([]SkillRelation, error) {
	skillID = strings.TrimSpace(skillID)
	var rels []skill.Relation
	if skillID == "" {
		rels = u.relations.All()
	} else {
		if !u.registry.Contains(skillID) {
			return nil, fmt.Errorf("%w: skill %s", domain.ErrNotFound, skillID)
		}
		rels = u.relations.For(skillID)
	}

	out := make([]SkillRelation, 0, len(rels))
	for _, r := range rels {
		from, okFrom := u.registry.Get(r.FromSkillID)
		to, okTo := u.registry.Get(r.ToSkillID)
		if !okFrom || !okTo {
			continue
		}
		out = append(out, SkillRelation{From: from, To: to, Type: r.Type})
	}
	return out, nil
}
