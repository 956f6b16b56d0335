package handler

import (
	"context"
	"time"

	"skill-ledger/internal/delivery/http/middleware"
	"skill-ledger/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

const WelcomeText = "Welcome to Orange Skill API"

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/", h.Welcome)
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Welcome(c fiber.Ctx) error {
	return response.Text(c, fiber.StatusOK, WelcomeText)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			return middleware.NewAppError(fiber.StatusServiceUnavailable, "Store unavailable", nil, err)
		}
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}
