package usecase

import (
	"context"
	"fmt"
	"sort"

	"skill-bridge/internal/domain"
	"skill-bridge/internal/domain/evidence"
	"skill-bridge/internal/domain/job"
	"skill-bridge/internal/domain/skill"
)

const (
	defaultTopSkills = 10
	maxTopSkills     = 50
	recentEvidence   = 10
)

type SkillEvidenceCount struct {
	Skill         skill.Skill
	EvidenceCount int
}

type DashboardSummary struct {
	TotalSkills    int
	TotalEvidence  int
	ApprovedJobs   int
	PendingJobs    int
	EvidenceByKind []domain.KindStat
	TopSkills      []SkillEvidenceCount
	RecentEvidence []evidence.Item
}

type DashboardUsecase interface {
	GetSummary(ctx context.Context, topN int) (DashboardSummary, error)
}

type Dashboard struct {
	registry *skill.Registry
	index    *evidence.Index
	store    *job.Store
}

func NewDashboardUsecase(registry *skill.Registry, index *evidence.Index, store *job.Store) *Dashboard {
	return &Dashboard{registry: registry, index: index, store: store}
}

func (u *Dashboard) GetSummary(_ context.Context, topN int) (DashboardSummary, error) {
	if topN == 0 {
		topN = defaultTopSkills
	}
	if topN < 1 || topN > maxTopSkills {
		return DashboardSummary{}, fmt.Errorf("%w: top_n must be between 1 and %d", ErrInvalidInput, maxTopSkills)
	}

	items, _ := u.index.Snapshot()
	out := DashboardSummary{
		TotalSkills:    u.registry.Len(),
		TotalEvidence:  len(items),
		ApprovedJobs:   len(u.store.List(job.StatusApproved)),
		PendingJobs:    len(u.store.List(job.StatusPending)),
		EvidenceByKind: evidenceByKind(items),
	}

	counts := make(map[string]int)
	for _, it := range items {
		for _, sid := range it.SkillIDs {
			counts[sid]++
		}
	}
	top := make([]SkillEvidenceCount, 0, len(counts))
	for _, s := range u.registry.All() {
		if n := counts[s.ID]; n > 0 {
			top = append(top, SkillEvidenceCount{Skill: s, EvidenceCount: n})
		}
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].EvidenceCount > top[j].EvidenceCount
	})
	if len(top) > topN {
		top = top[:topN]
	}
	out.TopSkills = top

	recent := make([]evidence.Item, len(items))
	copy(recent, items)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].UploadedAt.After(recent[j].UploadedAt)
	})
	if len(recent) > recentEvidence {
		recent = recent[:recentEvidence]
	}
	out.RecentEvidence = recent

	return out, nil
}

func evidenceByKind(items []evidence.Item) []domain.KindStat {
	counts := make(map[evidence.Kind]int)
	for _, it := range items {
		counts[it.Kind]++
	}
	out := make([]domain.KindStat, 0, len(evidence.Kinds()))
	for _, k := range evidence.Kinds() {
		out = append(out, domain.KindStat{Kind: string(k), Total: counts[k]})
	}
	return out
}
