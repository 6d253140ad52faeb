package routes

import (
	"skill-bridge/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type routeRegistrar interface {
	RegisterRoutes(r fiber.Router)
}

// Registry mounts every handler. Handlers left nil are skipped.
type Registry struct {
	Health    *handler.HealthHandler
	Skills    *handler.SkillHandler
	Evidence  *handler.EvidenceHandler
	Jobs      *handler.JobHandler
	Match     *handler.MatchHandler
	Roles     *handler.RoleHandler
	Dashboard *handler.DashboardHandler
	Events    routeRegistrar
}

func (r *Registry) Register(app *fiber.App) {
	if r == nil || app == nil {
		return
	}

	r.registerRoot(app)
	r.registerAPI(app)
}

func (r *Registry) registerRoot(app *fiber.App) {
	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}
	if r.Events != nil {
		r.Events.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	v1 := app.Group("/api").Group("/v1")

	if r.Skills != nil {
		r.Skills.RegisterRoutes(v1)
	}
	if r.Evidence != nil {
		r.Evidence.RegisterRoutes(v1)
	}
	// /jobs/recommendations must be matched before /jobs/:job_id.
	if r.Match != nil {
		r.Match.RegisterRoutes(v1)
	}
	if r.Jobs != nil {
		r.Jobs.RegisterRoutes(v1)
	}
	if r.Roles != nil {
		r.Roles.RegisterRoutes(v1)
	}
	if r.Dashboard != nil {
		r.Dashboard.RegisterRoutes(v1)
	}
}
