package handler

import (
	"skill-bridge/internal/delivery/http/dto"
	"skill-bridge/internal/pkg/response"
	"skill-bridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type DashboardHandler struct {
	uc usecase.DashboardUsecase
}

func NewDashboardHandler(uc usecase.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

func (h *DashboardHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/dashboard/summary", h.GetSummary)
}

func (h *DashboardHandler) GetSummary(c fiber.Ctx) error {
	topN, err := parseQueryIntStrict(c, "top_n", 0)
	if err != nil {
		return badQuery("top_n", err)
	}

	s, err := h.uc.GetSummary(c.Context(), topN)
	if err != nil {
		return mapUsecaseError(err, "Not found")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewDashboardSummaryResponse(s))
}
