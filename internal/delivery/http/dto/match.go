package dto

import (
	"skill-bridge/internal/domain/skill"
	"skill-bridge/internal/usecase"
)

type EvidenceSummaryResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Kind  string `json:"kind"`
}

type MatchedSkillResponse struct {
	SkillID       string                    `json:"skillId"`
	SkillName     string                    `json:"skillName"`
	EvidenceRefs  []string                  `json:"evidenceRefs"`
	EvidenceItems []EvidenceSummaryResponse `json:"evidenceItems"`
}

type MissingSkillResponse struct {
	SkillID   string `json:"skillId"`
	SkillName string `json:"skillName"`
}

// MatchResultResponse keeps the camelCase keys existing front-ends read.
type MatchResultResponse struct {
	JobID           string                 `json:"jobId"`
	JobTitle        string                 `json:"jobTitle"`
	Company         string                 `json:"company"`
	MatchScore      int                    `json:"matchScore"`
	MatchedSkills   []MatchedSkillResponse `json:"matchedSkills"`
	MissingSkillIDs []string               `json:"missingSkillIds"`
	MissingSkills   []MissingSkillResponse `json:"missingSkills"`
	IndexVersion    uint64                 `json:"indexVersion"`
	Cached          bool                   `json:"cached"`
}

func NewMatchResultResponse(r usecase.MatchReport) MatchResultResponse {
	out := MatchResultResponse{
		JobID:           r.Result.JobID,
		JobTitle:        r.Job.Title,
		Company:         r.Job.Company,
		MatchScore:      r.Result.MatchScore,
		MatchedSkills:   make([]MatchedSkillResponse, 0, len(r.Matched)),
		MissingSkillIDs: nonNil(r.Result.MissingSkillIDs),
		MissingSkills:   newMissingSkills(r.Missing),
		IndexVersion:    r.IndexVersion,
		Cached:          r.Cached,
	}
	for i, m := range r.Result.MatchedSkills {
		ms := MatchedSkillResponse{
			SkillID:       m.SkillID,
			EvidenceRefs:  nonNil(m.EvidenceRefs),
			EvidenceItems: []EvidenceSummaryResponse{},
		}
		if i < len(r.Matched) {
			ms.SkillName = r.Matched[i].Skill.CanonicalName
			for _, it := range r.Matched[i].Evidence {
				ms.EvidenceItems = append(ms.EvidenceItems, EvidenceSummaryResponse{ID: it.ID, Title: it.Title, Kind: string(it.Kind)})
			}
		}
		out.MatchedSkills = append(out.MatchedSkills, ms)
	}
	return out
}

type RecommendationResponse struct {
	JobID         string                 `json:"jobId"`
	Title         string                 `json:"title"`
	Company       string                 `json:"company"`
	Location      string                 `json:"location"`
	MatchScore    int                    `json:"matchScore"`
	MatchedCount  int                    `json:"matchedCount"`
	RequiredCount int                    `json:"requiredCount"`
	MissingSkills []MissingSkillResponse `json:"missingSkills"`
}

func NewRecommendationResponses(items []usecase.Recommendation) []RecommendationResponse {
	out := make([]RecommendationResponse, 0, len(items))
	for _, it := range items {
		out = append(out, RecommendationResponse{
			JobID:         it.Job.ID,
			Title:         it.Job.Title,
			Company:       it.Job.Company,
			Location:      it.Job.Location,
			MatchScore:    it.Result.MatchScore,
			MatchedCount:  len(it.Result.MatchedSkills),
			RequiredCount: len(it.Result.MatchedSkills) + len(it.Result.MissingSkillIDs),
			MissingSkills: newMissingSkills(it.Missing),
		})
	}
	return out
}

func newMissingSkills(skills []skill.Skill) []MissingSkillResponse {
	out := make([]MissingSkillResponse, 0, len(skills))
	for _, s := range skills {
		out = append(out, MissingSkillResponse{SkillID: s.ID, SkillName: s.CanonicalName})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
