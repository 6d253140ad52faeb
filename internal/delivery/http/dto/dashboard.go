package dto

import (
	"skill-bridge/internal/domain"
	"skill-bridge/internal/usecase"
)

type TopSkillResponse struct {
	SkillID       string `json:"skill_id"`
	SkillName     string `json:"skill_name"`
	Category      string `json:"category"`
	EvidenceCount int    `json:"evidence_count"`
}

type DashboardTotals struct {
	Skills       int `json:"skills"`
	Evidence     int `json:"evidence"`
	ApprovedJobs int `json:"approved_jobs"`
	PendingJobs  int `json:"pending_jobs"`
}

type DashboardSummaryResponse struct {
	Totals              DashboardTotals    `json:"totals"`
	EvidenceByKind      []domain.KindStat  `json:"evidence_by_kind"`
	TopSkillsByEvidence []TopSkillResponse `json:"top_skills_by_evidence"`
	RecentEvidence      []EvidenceResponse `json:"recent_evidence"`
}

func NewDashboardSummaryResponse(s usecase.DashboardSummary) DashboardSummaryResponse {
	out := DashboardSummaryResponse{
		Totals: DashboardTotals{
			Skills:       s.TotalSkills,
			Evidence:     s.TotalEvidence,
			ApprovedJobs: s.ApprovedJobs,
			PendingJobs:  s.PendingJobs,
		},
		EvidenceByKind:      s.EvidenceByKind,
		TopSkillsByEvidence: make([]TopSkillResponse, 0, len(s.TopSkills)),
		RecentEvidence:      NewEvidenceResponses(s.RecentEvidence),
	}
	for _, t := range s.TopSkills {
		out.TopSkillsByEvidence = append(out.TopSkillsByEvidence, TopSkillResponse{
			SkillID:       t.Skill.ID,
			SkillName:     t.Skill.CanonicalName,
			Category:      string(t.Skill.Category),
			EvidenceCount: t.EvidenceCount,
		})
	}
	return out
}
