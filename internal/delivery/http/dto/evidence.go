package dto

import (
	"time"

	"skill-bridge/internal/domain/evidence"
)

type UploadEvidenceRequest struct {
	ID          string    `json:"id" validate:"omitempty,max=128"`
	Title       string    `json:"title" validate:"required,max=300"`
	Kind        string    `json:"kind" validate:"required,oneof=resume paper project Resume Paper Project"`
	TextExcerpt string    `json:"text_excerpt" validate:"max=20000"`
	SourceURL   string    `json:"source_url" validate:"omitempty,url"`
	UploadedAt  time.Time `json:"uploaded_at"`
	Skills      []string  `json:"skills" validate:"max=200,dive,max=200"`
}

type RetagEvidenceRequest struct {
	Skills []string `json:"skills" validate:"max=200,dive,max=200"`
}

type EvidenceResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Kind        string   `json:"kind"`
	TextExcerpt string   `json:"text_excerpt"`
	SourceURL   string   `json:"source_url,omitempty"`
	UploadedAt  string   `json:"uploaded_at"`
	SkillIDs    []string `json:"skill_ids"`
}

func NewEvidenceResponse(it evidence.Item) EvidenceResponse {
	ids := it.SkillIDs
	if ids == nil {
		ids = []string{}
	}
	return EvidenceResponse{
		ID:          it.ID,
		Title:       it.Title,
		Kind:        string(it.Kind),
		TextExcerpt: it.TextExcerpt,
		SourceURL:   it.SourceURL,
		UploadedAt:  formatTime(it.UploadedAt),
		SkillIDs:    ids,
	}
}

func NewEvidenceResponses(items []evidence.Item) []EvidenceResponse {
	out := make([]EvidenceResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewEvidenceResponse(it))
	}
	return out
}

type TaggedEvidenceResponse struct {
	Evidence         EvidenceResponse          `json:"evidence"`
	UnresolvedTokens []UnresolvedTokenResponse `json:"unresolvedTokens"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
