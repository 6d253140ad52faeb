package handler

import (
	"skill-bridge/internal/delivery/http/middleware"
	"skill-bridge/internal/pkg/response"
	"skill-bridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	uc usecase.StatusUsecase
}

func NewHealthHandler(uc usecase.StatusUsecase) *HealthHandler {
	return &HealthHandler{uc: uc}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.GetHealth)
}

// GetHealth answers 200 while the process serves; backend health is
// reported in the body.
func (h *HealthHandler) GetHealth(c fiber.Ctx) error {
	if h.uc == nil {
		return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
	}
	st, err := h.uc.GetStatus(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusServiceUnavailable, response.MessageServiceUnavailable, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, st)
}
