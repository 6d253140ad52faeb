package job

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRejected ModerationStatus = "rejected"
)

func ParseStatus(s string) (ModerationStatus, error) {
	switch ModerationStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusApproved:
		return StatusApproved, nil
	case StatusRejected:
		return StatusRejected, nil
	default:
		return "", fmt.Errorf("unknown moderation status %q", s)
	}
}

// RawPosting is a job posting as submitted, with its skill list still free text.
type RawPosting struct {
	ID                 string
	Title              string
	Company            string
	Location           string
	PostedAt           time.Time
	SkillTokens        []string
	DescriptionExcerpt string
	SourceURL          string
}

type Posting struct {
	ID                 string
	Title              string
	Company            string
	Location           string
	PostedAt           time.Time
	RequiredSkillIDs   []string
	DescriptionExcerpt string
	SourceURL          string
	Status             ModerationStatus
	ModerationReason   string
	RoleIDs            []string
}

// Scorable reports whether the posting has at least one resolved requirement.
func (p Posting) Scorable() bool {
	return len(p.RequiredSkillIDs) > 0
}

// HasRole reports whether the posting is tagged with roleID.
func (p Posting) HasRole(roleID string) bool {
	return slices.Contains(p.RoleIDs, roleID)
}

func (p Posting) clone() Posting {
	p.RequiredSkillIDs = slices.Clone(p.RequiredSkillIDs)
	if p.RequiredSkillIDs == nil {
		p.RequiredSkillIDs = []string{}
	}
	p.RoleIDs = slices.Clone(p.RoleIDs)
	return p
}
