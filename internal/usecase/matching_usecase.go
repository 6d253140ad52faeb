package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"skill-bridge/internal/domain"
	"skill-bridge/internal/domain/evidence"
	"skill-bridge/internal/domain/job"
	"skill-bridge/internal/domain/matching"
	"skill-bridge/internal/domain/skill"
	"skill-bridge/internal/worker"

	"github.com/google/uuid"
)

const (
	defaultRecommendationLimit = 20
	maxRecommendationLimit     = 50
)

type MatchedSkillDetail struct {
	Skill    skill.Skill
	Evidence []evidence.Item
}

type MatchReport struct {
	Job          job.Posting
	Result       matching.Result
	Matched      []MatchedSkillDetail
	Missing      []skill.Skill
	IndexVersion uint64
	Cached       bool
}

type RecommendationParams struct {
	MinScore int
	Limit    int
	Offset   int
}

type Recommendation struct {
	Job     job.Posting
	Result  matching.Result
	Missing []skill.Skill
}

type RecommendationPage struct {
	Items  []Recommendation
	Total  int
	Limit  int
	Offset int
}

type MatchingUsecase interface {
	MatchJob(ctx context.Context, jobID string) (MatchReport, error)
	Recommend(ctx context.Context, params RecommendationParams) (RecommendationPage, error)
}

type Matching struct {
	registry *skill.Registry
	index    *evidence.Index
	store    *job.Store
	cache    Cache
	workers  int
	ttl      time.Duration
	epoch    string
	logger   *log.Logger
}

func NewMatchingUsecase(registry *skill.Registry, index *evidence.Index, store *job.Store, cache Cache, workers int, ttl time.Duration, logger *log.Logger) *Matching {
	if workers <= 0 {
		workers = 1
	}
	return &Matching{
		registry: registry,
		index:    index,
		store:    store,
		cache:    cache,
		workers:  workers,
		ttl:      ttl,
		epoch:    uuid.NewString(),
		logger:   logger,
	}
}

// MatchJob scores one posting against the current evidence. Results are
// cached per (job, index version); a cache failure only costs a recompute.
func (u *Matching) MatchJob(ctx context.Context, jobID string) (MatchReport, error) {
	p, ok := u.store.Get(strings.TrimSpace(jobID))
	if !ok {
		return MatchReport{}, fmt.Errorf("%w: job %s", domain.ErrNotFound, jobID)
	}

	items, version := u.index.Snapshot()
	key := MatchCacheKey(u.epoch, p.ID, p.RequiredSkillIDs, version)

	var res matching.Result
	cached := false
	if u.cache != nil {
		hit, err := u.cache.GetJSON(ctx, key, &res)
		if err != nil && u.logger != nil {
			u.logger.Printf("[Match] cache read error job=%s err=%v", p.ID, err)
		}
		cached = hit && err == nil
	}

	if !cached {
		var err error
		res, err = matching.Compute(p, matching.NewSnapshot(items, version))
		if err != nil {
			return MatchReport{}, err
		}
		if u.cache != nil {
			if err := u.cache.SetJSON(ctx, key, res, u.ttl); err != nil && u.logger != nil {
				u.logger.Printf("[Match] cache write error job=%s err=%v", p.ID, err)
			}
		}
	}

	report := MatchReport{
		Job:          p,
		Result:       res,
		Missing:      u.skills(res.MissingSkillIDs),
		IndexVersion: version,
		Cached:       cached,
	}

	byID := make(map[string]evidence.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	report.Matched = make([]MatchedSkillDetail, 0, len(res.MatchedSkills))
	for _, m := range res.MatchedSkills {
		d := MatchedSkillDetail{Evidence: make([]evidence.Item, 0, len(m.EvidenceRefs))}
		d.Skill, _ = u.registry.Get(m.SkillID)
		for _, ref := range m.EvidenceRefs {
			if it, ok := byID[ref]; ok {
				d.Evidence = append(d.Evidence, it)
			}
		}
		report.Matched = append(report.Matched, d)
	}
	return report, nil
}

// Recommend scores every approved posting against one evidence snapshot,
// skipping postings that have no resolved requirements.
func (u *Matching) Recommend(ctx context.Context, params RecommendationParams) (RecommendationPage, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}
	if limit > maxRecommendationLimit {
		limit = maxRecommendationLimit
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	minScore := params.MinScore
	if minScore < 0 || minScore > 100 {
		return RecommendationPage{}, fmt.Errorf("%w: min_score must be between 0 and 100", ErrInvalidInput)
	}

	postings := u.store.List(job.StatusApproved)
	snap := matching.NewSnapshot(u.index.Snapshot())

	results := make([]*matching.Result, len(postings))
	err := worker.Each(ctx, u.workers, len(postings), func(_ context.Context, i int) error {
		res, err := matching.Compute(postings[i], snap)
		if errors.Is(err, domain.ErrInvalidJob) {
			return nil
		}
		if err != nil {
			return err
		}
		results[i] = &res
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return RecommendationPage{}, err
		}
		if u.logger != nil {
			u.logger.Printf("[Match] recommendation scoring failed err=%v", err)
		}
		return RecommendationPage{}, ErrInternal
	}

	all := make([]Recommendation, 0, len(postings))
	for i, res := range results {
		if res == nil || res.MatchScore < minScore {
			continue
		}
		all = append(all, Recommendation{Job: postings[i], Result: *res, Missing: u.skills(res.MissingSkillIDs)})
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Result.MatchScore > all[j].Result.MatchScore
	})

	page := RecommendationPage{Total: len(all), Limit: limit, Offset: offset, Items: []Recommendation{}}
	if offset < len(all) {
		end := offset + limit
		if end > len(all) {
			end = len(all)
		}
		page.Items = all[offset:end]
	}
	return page, nil
}

func (u *Matching) skills(ids []string) []skill.Skill {
	out := make([]skill.Skill, 0, len(ids))
	for _, id := range ids {
		s, ok := u.registry.Get(id)
		if !ok {
			s = skill.Skill{ID: id}
		}
		out = append(out, s)
	}
	return out
}
