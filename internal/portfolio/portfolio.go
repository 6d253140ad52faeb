// Package portfolio runs the matching core offline over a YAML file that
// lists evidence items and job postings.
package portfolio

import (
	"errors"
	"fmt"
	"os"
	"time"

	"skill-bridge/internal/domain"
	"skill-bridge/internal/domain/evidence"
	"skill-bridge/internal/domain/job"
	"skill-bridge/internal/domain/matching"
	"skill-bridge/internal/domain/skill"

	"github.com/goccy/go-yaml"
)

type File struct {
	Evidence []EvidenceEntry `yaml:"evidence"`
	Jobs     []JobEntry      `yaml:"jobs"`
}

type EvidenceEntry struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title"`
	Kind    string   `yaml:"kind"`
	Excerpt string   `yaml:"excerpt"`
	Skills  []string `yaml:"skills"`
}

type JobEntry struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Company     string   `yaml:"company"`
	Location    string   `yaml:"location"`
	Description string   `yaml:"description"`
	Skills      []string `yaml:"skills"`
}

func Parse(b []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return File{}, fmt.Errorf("failed to parse portfolio: %w", err)
	}
	return f, nil
}

func Load(path string) (File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read portfolio file %s: %w", path, err)
	}
	return Parse(b)
}

type Unresolved struct {
	Source string                  `json:"source"`
	Tokens []skill.UnresolvedToken `json:"tokens"`
}

// JobOutcome is the match result of one job, or the reason it has none.
type JobOutcome struct {
	JobID  string           `json:"jobId"`
	Title  string           `json:"title"`
	Result *matching.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

type Report struct {
	Jobs       []JobOutcome `json:"jobs"`
	Unresolved []Unresolved `json:"unresolved"`
}

// Run tags every evidence entry, extracts every job and scores the jobs in
// file order. Jobs with no resolvable requirement are reported, not fatal.
func Run(registry *skill.Registry, f File, now time.Time) (Report, error) {
	index := evidence.NewIndex(registry)
	rep := Report{Jobs: make([]JobOutcome, 0, len(f.Jobs)), Unresolved: make([]Unresolved, 0)}

	for i, e := range f.Evidence {
		kind, err := evidence.ParseKind(e.Kind)
		if err != nil {
			return Report{}, fmt.Errorf("evidence #%d: %w", i, err)
		}
		_, unresolved, err := index.Insert(evidence.Item{
			ID:          e.ID,
			Title:       e.Title,
			Kind:        kind,
			TextExcerpt: e.Excerpt,
			UploadedAt:  now,
		}, e.Skills)
		if err != nil {
			return Report{}, fmt.Errorf("evidence #%d: %w", i, err)
		}
		if len(unresolved) > 0 {
			rep.Unresolved = append(rep.Unresolved, Unresolved{Source: "evidence:" + e.ID, Tokens: unresolved})
		}
	}

	extractor := job.NewExtractor(registry)
	seen := make(map[string]struct{}, len(f.Jobs))
	for i, j := range f.Jobs {
		p, unresolved := extractor.ExtractRequirements(job.RawPosting{
			ID:                 j.ID,
			Title:              j.Title,
			Company:            j.Company,
			Location:           j.Location,
			PostedAt:           now,
			SkillTokens:        j.Skills,
			DescriptionExcerpt: j.Description,
		})
		if p.ID == "" {
			return Report{}, fmt.Errorf("job #%d: empty id", i)
		}
		if _, dup := seen[p.ID]; dup {
			return Report{}, fmt.Errorf("job #%d: %w: %s", i, domain.ErrDuplicateID, p.ID)
		}
		seen[p.ID] = struct{}{}
		if len(unresolved) > 0 {
			rep.Unresolved = append(rep.Unresolved, Unresolved{Source: "job:" + p.ID, Tokens: unresolved})
		}

		out := JobOutcome{JobID: p.ID, Title: p.Title}
		res, err := matching.Compute(p, index)
		switch {
		case errors.Is(err, domain.ErrInvalidJob):
			out.Error = "job has no resolvable required skills"
		case err != nil:
			return Report{}, err
		default:
			out.Result = &res
		}
		rep.Jobs = append(rep.Jobs, out)
	}

	return rep, nil
}
