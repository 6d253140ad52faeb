package evidence

import (
	"fmt"
	"strings"
	"time"
)

type Kind string

const (
	KindResume  Kind = "resume"
	KindPaper   Kind = "paper"
	KindProject Kind = "project"
)

var kinds = []Kind{KindResume, KindPaper, KindProject}

func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range kinds {
		if s == string(k) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown evidence kind %q", s)
}

type Item struct {
	ID          string
	Title       string
	Kind        Kind
	TextExcerpt string
	UploadedAt  time.Time
	SourceURL   string
	SkillIDs    []string
}

func (it Item) HasSkill(id string) bool {
	for _, s := range it.SkillIDs {
		if s == id {
			return true
		}
	}
	return false
}

func (it Item) clone() Item {
	ids := make([]string, len(it.SkillIDs))
	copy(ids, it.SkillIDs)
	it.SkillIDs = ids
	return it
}
