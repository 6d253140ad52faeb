package job

import (
	"strings"

	"skill-bridge/internal/domain/skill"
)

type Resolver interface {
	ResolveAll(tokens []string) ([]string, []skill.UnresolvedToken)
}

type Extractor struct {
	resolver Resolver
}

func NewExtractor(resolver Resolver) *Extractor {
	return &Extractor{resolver: resolver}
}

// ExtractRequirements resolves the posting's free-text skills. Unresolved
// tokens are dropped from the posting and returned alongside it; a posting
// whose tokens all fail to resolve comes back with no requirements.
func (e *Extractor) ExtractRequirements(raw RawPosting) (Posting, []skill.UnresolvedToken) {
	ids, unresolved := e.resolver.ResolveAll(raw.SkillTokens)
	return Posting{
		ID:                 strings.TrimSpace(raw.ID),
		Title:              strings.TrimSpace(raw.Title),
		Company:            strings.TrimSpace(raw.Company),
		Location:           strings.TrimSpace(raw.Location),
		PostedAt:           raw.PostedAt,
		RequiredSkillIDs:   ids,
		DescriptionExcerpt: raw.DescriptionExcerpt,
		SourceURL:          strings.TrimSpace(raw.SourceURL),
		Status:             StatusApproved,
	}, unresolved
}
