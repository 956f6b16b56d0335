package routes

import (
	"skill-ledger/internal/delivery/http/handler"
	"skill-ledger/internal/delivery/http/middleware"
	"skill-ledger/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// Deps are the collaborators the HTTP surface needs. Nil optional fields
// disable their routes or checks.
type Deps struct {
	Employees usecase.EmployeeUsecase
	Skills    usecase.SkillUsecase
	Search    usecase.SearchUsecase

	Store     handler.Pinger
	Validate  *middleware.ValidateMiddleware
	AdminAuth *middleware.AdminAuthMiddleware
	SkillsWS  fiber.Handler
}

type Registry struct {
	deps Deps

	health    *handler.HealthHandler
	employees *handler.EmployeeHandler
	admin     *handler.AdminHandler
	skills    *handler.SkillHandler
	search    *handler.SearchHandler
}

func NewRegistry(deps Deps) *Registry {
	return &Registry{
		deps:      deps,
		health:    handler.NewHealthHandler(deps.Store),
		employees: handler.NewEmployeeHandler(deps.Employees),
		admin:     handler.NewAdminHandler(deps.Employees),
		skills:    handler.NewSkillHandler(deps.Skills),
		search:    handler.NewSearchHandler(deps.Search),
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)
	r.employees.RegisterRoutes(app, r.deps.Validate)
	r.skills.RegisterRoutes(app, r.deps.Validate)
	r.search.RegisterRoutes(app, r.deps.Validate)
	r.registerAdmin(app)

	if r.deps.SkillsWS != nil {
		app.Get("/ws/skills", r.deps.SkillsWS)
	}
}

func (r *Registry) registerAdmin(app *fiber.App) {
	admin := app.Group("/admin", r.deps.AdminAuth.Middleware())
	r.admin.RegisterRoutes(admin, r.deps.Validate)
}
