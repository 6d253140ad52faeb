package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"skill-bridge/internal/config"
	"skill-bridge/internal/database"
	dbpostgres "skill-bridge/internal/database/postgres"
	"skill-bridge/internal/domain/evidence"
	"skill-bridge/internal/domain/job"
	"skill-bridge/internal/domain/role"
	"skill-bridge/internal/domain/skill"
	"skill-bridge/internal/infrastructure/cache"
	"skill-bridge/internal/repository"
	"skill-bridge/internal/taxonomy"
	"skill-bridge/internal/usecase"
	"skill-bridge/internal/ws"

	"golang.org/x/sync/errgroup"
)

// Container owns every long-lived component. DB and the repositories are
// nil when no database is configured.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Redis *cache.Redis
	Hub   *ws.Hub

	Registry  *skill.Registry
	Relations *skill.Relations
	Index     *evidence.Index
	Extractor *job.Extractor
	Store     *job.Store
	RoleStore *role.Store

	Skills    *usecase.Skill
	Evidence  *usecase.Evidence
	Jobs      *usecase.Job
	Roles     *usecase.Role
	Matching  *usecase.Matching
	Dashboard *usecase.Dashboard
	Status    *usecase.Status
}

func NewContainer(ctx context.Context, cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}
	c := &Container{Config: cfg, Logger: logger}

	var (
		skillRepo    repository.SkillRepository
		evidenceRepo repository.EvidenceRepository
		jobRepo      repository.JobRepository
		roleRepo     repository.RoleRepository
	)
	if cfg.Database.Enabled() {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		db, err := dbpostgres.Connect(connectCtx, cfg.Database, logger)
		cancel()
		if err != nil {
			return nil, err
		}
		c.DB = db
		skillRepo = repository.NewPostgresSkillRepository(db)
		evidenceRepo = repository.NewPostgresEvidenceRepository(db)
		jobRepo = repository.NewPostgresJobRepository(db)
		roleRepo = repository.NewPostgresRoleRepository(db)
	} else {
		logger.Printf("[App] DB_HOST not set, running memory-only")
	}

	tax, err := loadTaxonomy(ctx, cfg.Matching.TaxonomyPath, skillRepo, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	registry, err := skill.NewRegistry(tax.Skills)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("build skill registry: %w", err)
	}
	c.Registry = registry
	c.Relations, err = skill.NewRelations(registry, tax.Relations)
	if err != nil {
		// Stored skills may have drifted from the file's relations.
		logger.Printf("[App] skill relations skipped: %v", err)
		c.Relations = nil
	}
	c.Index = evidence.NewIndex(registry)
	c.Extractor = job.NewExtractor(registry)
	c.Store = job.NewStore()
	c.RoleStore = role.NewStore()

	if err := c.restore(ctx, evidenceRepo, jobRepo, roleRepo); err != nil {
		c.Close()
		return nil, err
	}

	c.Redis = cache.NewRedis(cfg.Redis, logger)
	if n, err := c.Redis.DeleteByPattern(ctx, usecase.MatchCachePattern()); err != nil {
		logger.Printf("[Cache] stale match entries not cleared: %v", err)
	} else if n > 0 {
		logger.Printf("[Cache] cleared stale match entries count=%d", n)
	}

	c.Hub = ws.NewHub(logger)

	c.Skills = usecase.NewSkillUsecase(registry, c.Index, c.Relations)
	c.Evidence = usecase.NewEvidenceUsecase(registry, c.Index, evidenceRepo, c.Hub, logger)
	c.Jobs = usecase.NewJobUsecase(c.Extractor, c.Store, c.RoleStore, jobRepo, c.Hub, logger)
	c.Roles = usecase.NewRoleUsecase(registry, c.RoleStore, c.Store, roleRepo, logger)
	c.Matching = usecase.NewMatchingUsecase(registry, c.Index, c.Store, c.Redis, cfg.Matching.Workers, cfg.Redis.TTL, logger)
	c.Dashboard = usecase.NewDashboardUsecase(registry, c.Index, c.Store)

	var dbPinger usecase.Pinger
	if c.DB != nil {
		dbPinger = c.DB
	}
	c.Status = usecase.NewStatusUsecase(registry, c.Index, c.Store, dbPinger, c.Redis)

	logger.Printf("[App] ready skills=%d relations=%d evidence=%d jobs=%d roles=%d",
		registry.Len(), c.Relations.Len(), c.Index.Len(), c.Store.Len(), c.RoleStore.Len())
	return c, nil
}

// loadTaxonomy prefers the skills stored in PostgreSQL. An empty skills
// table is filled from the taxonomy file so evidence tags can reference it.
// Relations always come from the file.
func loadTaxonomy(ctx context.Context, path string, repo repository.SkillRepository, logger *log.Logger) (taxonomy.Taxonomy, error) {
	tax, err := taxonomy.LoadTaxonomy(path)
	if err != nil {
		return taxonomy.Taxonomy{}, err
	}

	if repo != nil {
		stored, err := repo.GetAllSkills(ctx)
		if err != nil {
			return taxonomy.Taxonomy{}, fmt.Errorf("load skills: %w", err)
		}
		if len(stored) > 0 {
			logger.Printf("[App] taxonomy loaded source=db skills=%d", len(stored))
			tax.Skills = stored
			return tax, nil
		}
		if _, err := skill.NewRegistry(tax.Skills); err != nil {
			return taxonomy.Taxonomy{}, fmt.Errorf("invalid taxonomy: %w", err)
		}
		if err := repo.UpsertSkills(ctx, tax.Skills); err != nil {
			return taxonomy.Taxonomy{}, fmt.Errorf("seed skills: %w", err)
		}
	}
	logger.Printf("[App] taxonomy loaded source=file path=%q skills=%d relations=%d", path, len(tax.Skills), len(tax.Relations))
	return tax, nil
}

func (c *Container) restore(ctx context.Context, evidenceRepo repository.EvidenceRepository, jobRepo repository.JobRepository, roleRepo repository.RoleRepository) error {
	if evidenceRepo == nil || jobRepo == nil || roleRepo == nil {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := evidenceRepo.ListEvidence(gctx)
		if err != nil {
			return fmt.Errorf("restore evidence: %w", err)
		}
		if err := c.Index.Restore(items); err != nil {
			return fmt.Errorf("restore evidence: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		postings, err := jobRepo.ListJobs(gctx)
		if err != nil {
			return fmt.Errorf("restore jobs: %w", err)
		}
		for _, p := range postings {
			if err := c.Store.Add(p); err != nil {
				return fmt.Errorf("restore jobs: %w", err)
			}
		}
		return nil
	})
	g.Go(func() error {
		roles, err := roleRepo.ListRoles(gctx)
		if err != nil {
			return fmt.Errorf("restore roles: %w", err)
		}
		for _, r := range roles {
			if err := c.RoleStore.Add(r); err != nil {
				return fmt.Errorf("restore roles: %w", err)
			}
		}
		return nil
	})
	return g.Wait()
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
