package dto

import (
	"skill-bridge/internal/domain/role"
	"skill-bridge/internal/usecase"
)

type CreateRoleRequest struct {
	ID          string `json:"id" validate:"omitempty,max=128"`
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

type RoleResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

func NewRoleResponse(r role.Role) RoleResponse {
	return RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   formatTime(r.CreatedAt),
	}
}

func NewRoleResponses(rs []role.Role) []RoleResponse {
	out := make([]RoleResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, NewRoleResponse(r))
	}
	return out
}

type RoleSkillWeightResponse struct {
	SkillID   string  `json:"skill_id"`
	SkillName string  `json:"skill_name"`
	Category  string  `json:"category"`
	Postings  int     `json:"postings"`
	Weight    float64 `json:"weight"`
}

type RoleWeightsResponse struct {
	Role             RoleResponse              `json:"role"`
	ComputedAt       string                    `json:"computed_at"`
	ApprovedPostings int                       `json:"approved_postings"`
	Weights          []RoleSkillWeightResponse `json:"weights"`
}

func NewRoleWeightsResponse(w usecase.RoleWeights) RoleWeightsResponse {
	out := RoleWeightsResponse{
		Role:             NewRoleResponse(w.Role),
		ComputedAt:       formatTime(w.ComputedAt),
		ApprovedPostings: w.ApprovedPostings,
		Weights:          make([]RoleSkillWeightResponse, 0, len(w.Weights)),
	}
	for _, sw := range w.Weights {
		out.Weights = append(out.Weights, RoleSkillWeightResponse{
			SkillID:   sw.Skill.ID,
			SkillName: sw.Skill.CanonicalName,
			Category:  string(sw.Skill.Category),
			Postings:  sw.Postings,
			Weight:    sw.Weight,
		})
	}
	return out
}
