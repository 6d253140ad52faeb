package dto

import (
	"skill-bridge/internal/domain/skill"
	"skill-bridge/internal/usecase"
)

type SkillResponse struct {
	ID            string   `json:"id"`
	CanonicalName string   `json:"canonical_name"`
	Category      string   `json:"category"`
	Aliases       []string `json:"aliases"`
}

func NewSkillResponse(s skill.Skill) SkillResponse {
	aliases := s.Aliases
	if aliases == nil {
		aliases = []string{}
	}
	return SkillResponse{
		ID:            s.ID,
		CanonicalName: s.CanonicalName,
		Category:      string(s.Category),
		Aliases:       aliases,
	}
}

func NewSkillResponses(skills []skill.Skill) []SkillResponse {
	out := make([]SkillResponse, 0, len(skills))
	for _, s := range skills {
		out = append(out, NewSkillResponse(s))
	}
	return out
}

type SkillResolutionResponse struct {
	Token   string         `json:"token"`
	Found   bool           `json:"found"`
	SkillID string         `json:"skill_id,omitempty"`
	Skill   *SkillResponse `json:"skill,omitempty"`
}

func NewSkillResolutionResponse(r usecase.SkillResolution) SkillResolutionResponse {
	out := SkillResolutionResponse{Token: r.Token, Found: r.Found, SkillID: r.SkillID}
	if r.Found {
		s := NewSkillResponse(r.Skill)
		out.Skill = &s
	}
	return out
}

type SkillDetailResponse struct {
	SkillResponse
	EvidenceCount int                `json:"evidence_count"`
	Evidence      []EvidenceResponse `json:"evidence"`
}

type SkillGapResponse struct {
	SkillID       string `json:"skill_id"`
	SkillName     string `json:"skill_name"`
	Category      string `json:"category"`
	EvidenceCount int    `json:"evidence_count"`
}

type SkillGapsResponse struct {
	Threshold int                `json:"threshold"`
	Results   []SkillGapResponse `json:"results"`
}

type MentionsRequest struct {
	Text string `json:"text" validate:"required,max=20000"`
}

type MentionResponse struct {
	SkillID     string  `json:"skill_id"`
	SkillName   string  `json:"skill_name"`
	MatchedTerm string  `json:"matched_term"`
	Confidence  float64 `json:"confidence"`
	Snippet     string  `json:"snippet"`
}

func NewMentionResponses(ms []skill.Mention) []MentionResponse {
	out := make([]MentionResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, MentionResponse{
			SkillID:     m.Skill.ID,
			SkillName:   m.Skill.CanonicalName,
			MatchedTerm: m.MatchedTerm,
			Confidence:  m.Confidence,
			Snippet:     m.Snippet,
		})
	}
	return out
}

type UnresolvedTokenResponse struct {
	Token    string `json:"token"`
	Position int    `json:"position"`
}

func NewUnresolvedTokenResponses(ts []skill.UnresolvedToken) []UnresolvedTokenResponse {
	out := make([]UnresolvedTokenResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, UnresolvedTokenResponse{Token: t.Token, Position: t.Position})
	}
	return out
}

type SkillRelationResponse struct {
	From SkillResponse `json:"from"`
	To   SkillResponse `json:"to"`
	Type string        `json:"relation_type"`
}

func NewSkillRelationResponses(rs []usecase.SkillRelation) []SkillRelationResponse {
	out := make([]SkillRelationResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, SkillRelationResponse{
			From: NewSkillResponse(r.From),
			To:   NewSkillResponse(r.To),
			Type: string(r.Type),
		})
	}
	return out
}
