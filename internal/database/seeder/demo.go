package seeder

import (
	"context"
	"errors"
	"time"

	"skill-bridge/internal/database"
	"skill-bridge/internal/domain"
	"skill-bridge/internal/domain/evidence"
	"skill-bridge/internal/domain/job"
	"skill-bridge/internal/domain/role"
	"skill-bridge/internal/domain/skill"
	"skill-bridge/internal/repository"
)

type demoEvidence struct {
	item   evidence.Item
	tokens []string
}

type demoJob struct {
	raw    job.RawPosting
	status job.ModerationStatus
	roles  []string
}

var demoRoles = []role.Role{
	{ID: "demo-role-backend", Name: "Backend Engineer", Description: "Builds and operates API services."},
	{ID: "demo-role-ml", Name: "ML Engineer", Description: "Trains and ships models."},
}

var demoEvidenceItems = []demoEvidence{
	{
		item: evidence.Item{
			ID:          "demo-resume",
			Title:       "Data Analyst Resume",
			Kind:        evidence.KindResume,
			TextExcerpt: "Built reporting pipelines in Python and SQL; dashboards in React.",
		},
		tokens: []string{"Python", "SQL", "React"},
	},
	{
		item: evidence.Item{
			ID:          "demo-project",
			Title:       "API Repo README",
			Kind:        evidence.KindProject,
			TextExcerpt: "Containerized services with Docker and deployed to AWS.",
			SourceURL:   "https://github.com/example/skillbridge",
		},
		tokens: []string{"Docker", "AWS", "Git"},
	},
}

var demoJobs = []demoJob{
	{
		raw: job.RawPosting{
			ID:                 "demo-backend",
			Title:              "Junior Backend Engineer",
			Company:            "Campus Lab",
			Location:           "Rochester Hills, MI",
			SkillTokens:        []string{"Python", "PostgreSQL", "Docker", "Git"},
			DescriptionExcerpt: "Build API services; manage PostgreSQL; containerize with Docker.",
		},
		status: job.StatusApproved,
		roles:  []string{"demo-role-backend"},
	},
	{
		raw: job.RawPosting{
			ID:                 "demo-ml",
			Title:              "ML Engineer Intern",
			Company:            "OU Research",
			Location:           "Auburn Hills, MI",
			SkillTokens:        []string{"Python", "TensorFlow", "Machine Learning", "MLflow"},
			DescriptionExcerpt: "Train models; track experiments; ship to production.",
		},
		status: job.StatusApproved,
		roles:  []string{"demo-role-ml"},
	},
	{
		raw: job.RawPosting{
			ID:                 "demo-unverified",
			Title:              "Unverified Posting",
			Company:            "Unknown",
			Location:           "Remote",
			SkillTokens:        []string{"Python"},
			DescriptionExcerpt: "Suspicious posting pending moderation.",
		},
		status: job.StatusPending,
	},
}

// DemoSeeder writes a small set of evidence items, roles and postings, resolving
// their skill tokens through the registry. Re-running it is harmless.
type DemoSeeder struct {
	Registry *skill.Registry
	Now      func() time.Time
}

func (DemoSeeder) Name() string { return "demo" }

func (s DemoSeeder) Run(ctx context.Context, db database.DB) error {
	if s.Registry == nil {
		return errors.New("demo seeder needs a registry")
	}
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now()
	}

	evidenceRepo := repository.NewPostgresEvidenceRepository(db)
	for _, d := range demoEvidenceItems {
		it := d.item
		it.UploadedAt = now
		it.SkillIDs, _ = s.Registry.ResolveAll(d.tokens)
		if err := evidenceRepo.SaveEvidence(ctx, it); err != nil {
			return err
		}
	}

	roleRepo := repository.NewPostgresRoleRepository(db)
	for _, r := range demoRoles {
		r.CreatedAt = now
		if err := roleRepo.CreateRole(ctx, r); err != nil && !errors.Is(err, domain.ErrDuplicateID) {
			return err
		}
	}

	extractor := job.NewExtractor(s.Registry)
	jobRepo := repository.NewPostgresJobRepository(db)
	for _, d := range demoJobs {
		p, _ := extractor.ExtractRequirements(d.raw)
		p.PostedAt = now
		p.Status = d.status
		if err := jobRepo.CreateJob(ctx, p); err != nil && !errors.Is(err, domain.ErrDuplicateID) {
			return err
		}
		for _, roleID := range d.roles {
			if err := jobRepo.AddJobRole(ctx, p.ID, roleID); err != nil {
				return err
			}
		}
	}
	return nil
}
