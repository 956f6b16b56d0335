package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"skill-ledger/internal/config"
	"skill-ledger/internal/delivery/http/middleware"
	"skill-ledger/internal/delivery/http/routes"
	"skill-ledger/internal/delivery/http/validation"
	"skill-ledger/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) (*App, error) {
	v, err := validation.New()
	if err != nil {
		return nil, fmt.Errorf("compile request schemas: %w", err)
	}

	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})
	registerGlobalMiddleware(f, c.Logger)

	var adminAuth *middleware.AdminAuthMiddleware
	if c.JWT != nil {
		adminAuth = middleware.NewAdminAuthMiddleware(c.JWT)
	}

	routes.NewRegistry(routes.Deps{
		Employees: c.Employees,
		Skills:    c.Skills,
		Search:    c.Search,
		Store:     c.Mongo,
		Validate:  middleware.NewValidateMiddleware(v),
		AdminAuth: adminAuth,
		SkillsWS:  ws.NewHandler(c.Hub, c.Logger).HandleSkillsWS,
	}).Register(f)

	return &App{Fiber: f, Container: c}, nil
}

// Bootstrap builds the container, starts the event hub and returns the
// HTTP app with a cleanup that stops both.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	a, err := New(c)
	if err != nil {
		_ = c.Close()
		return nil, nil, err
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	go c.Hub.Run(hubCtx)

	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	logger.Printf("[App] bootstrap complete | env=%s searchLog=%s ledger=%t", cfg.App.Environment, cfg.SearchLog.Driver, cfg.Ledger.Enabled)
	return a, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
