package matching

import (
	"fmt"

	"skill-bridge/internal/domain"
	"skill-bridge/internal/domain/evidence"
	"skill-bridge/internal/domain/job"
)

// EvidenceSource answers which evidence items assert a skill, in insertion order.
type EvidenceSource interface {
	EvidenceFor(skillID string) []evidence.Item
}

type MatchedSkill struct {
	SkillID      string   `json:"skillId"`
	EvidenceRefs []string `json:"evidenceRefs"`
}

type Result struct {
	JobID           string         `json:"jobId"`
	MatchScore      int            `json:"matchScore"`
	MatchedSkills   []MatchedSkill `json:"matchedSkills"`
	MissingSkillIDs []string       `json:"missingSkillIds"`
}

// Compute partitions the job's required skills into matched and missing,
// walking them in the order the job declares. A job without requirements
// fails with ErrInvalidJob.
func Compute(j job.Posting, src EvidenceSource) (Result, error) {
	reqs := uniqueRequirements(j.RequiredSkillIDs)
	if len(reqs) == 0 {
		return Result{}, fmt.Errorf("%w: job %s", domain.ErrInvalidJob, j.ID)
	}

	matched := make([]MatchedSkill, 0, len(reqs))
	missing := make([]string, 0)

	for _, sid := range reqs {
		items := src.EvidenceFor(sid)
		if len(items) == 0 {
			missing = append(missing, sid)
			continue
		}
		refs := make([]string, 0, len(items))
		for _, it := range items {
			refs = append(refs, it.ID)
		}
		matched = append(matched, MatchedSkill{SkillID: sid, EvidenceRefs: refs})
	}

	return Result{
		JobID:           j.ID,
		MatchScore:      Score(len(matched), len(reqs)),
		MatchedSkills:   matched,
		MissingSkillIDs: missing,
	}, nil
}

// Score is round-half-up of 100*matched/total, kept off 0 and 100 unless the
// partition is really empty or complete.
func Score(matched, total int) int {
	if total <= 0 || matched <= 0 {
		return 0
	}
	if matched >= total {
		return 100
	}
	score := (200*matched + total) / (2 * total)
	if score >= 100 {
		return 99
	}
	if score <= 0 {
		return 1
	}
	return score
}

func uniqueRequirements(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
