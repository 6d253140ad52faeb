package dto

import (
	"time"

	"skill-bridge/internal/domain/job"
)

type CreateJobRequest struct {
	ID                 string    `json:"id" validate:"omitempty,max=128"`
	Title              string    `json:"title" validate:"required,max=300"`
	Company            string    `json:"company" validate:"max=300"`
	Location           string    `json:"location" validate:"max=300"`
	PostedAt           time.Time `json:"posted_at"`
	Skills             []string  `json:"skills" validate:"max=200,dive,max=200"`
	DescriptionExcerpt string    `json:"description_excerpt" validate:"max=20000"`
	SourceURL          string    `json:"source_url" validate:"omitempty,url"`
}

type TagJobRoleRequest struct {
	RoleID string `json:"role_id" validate:"required,max=128"`
}

type ModerateJobRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
	Reason string `json:"reason" validate:"max=1000"`
}

type JobResponse struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Company            string   `json:"company"`
	Location           string   `json:"location"`
	PostedAt           string   `json:"posted_at"`
	RequiredSkillIDs   []string `json:"required_skill_ids"`
	DescriptionExcerpt string   `json:"description_excerpt"`
	SourceURL          string   `json:"source_url,omitempty"`
	ModerationStatus   string   `json:"moderation_status"`
	ModerationReason   string   `json:"moderation_reason,omitempty"`
	RoleIDs            []string `json:"role_ids"`
}

func NewJobResponse(p job.Posting) JobResponse {
	ids := p.RequiredSkillIDs
	if ids == nil {
		ids = []string{}
	}
	roles := p.RoleIDs
	if roles == nil {
		roles = []string{}
	}
	return JobResponse{
		ID:                 p.ID,
		Title:              p.Title,
		Company:            p.Company,
		Location:           p.Location,
		PostedAt:           formatTime(p.PostedAt),
		RequiredSkillIDs:   ids,
		DescriptionExcerpt: p.DescriptionExcerpt,
		SourceURL:          p.SourceURL,
		ModerationStatus:   string(p.Status),
		ModerationReason:   p.ModerationReason,
		RoleIDs:            roles,
	}
}

func NewJobResponses(ps []job.Posting) []JobResponse {
	out := make([]JobResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, NewJobResponse(p))
	}
	return out
}

type CreatedJobResponse struct {
	Job              JobResponse               `json:"job"`
	UnresolvedTokens []UnresolvedTokenResponse `json:"unresolvedTokens"`
}
