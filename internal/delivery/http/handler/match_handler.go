package handler

import (
	"skill-bridge/internal/delivery/http/dto"
	"skill-bridge/internal/pkg/response"
	"skill-bridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type MatchHandler struct {
	uc usecase.MatchingUsecase
}

func NewMatchHandler(uc usecase.MatchingUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/jobs")
	grp.Get("/recommendations", h.ListRecommendations)
	grp.Get("/:job_id/match", h.GetMatch)
}

func (h *MatchHandler) GetMatch(c fiber.Ctx) error {
	rep, err := h.uc.MatchJob(c.Context(), c.Params("job_id"))
	if err != nil {
		return mapUsecaseError(err, jobNotFound)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchResultResponse(rep))
}

func (h *MatchHandler) ListRecommendations(c fiber.Ctx) error {
	minScore, err := parseQueryIntStrict(c, "min_score", 0)
	if err != nil {
		return badQuery("min_score", err)
	}
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return badQuery("limit", err)
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return badQuery("offset", err)
	}

	page, err := h.uc.Recommend(c.Context(), usecase.RecommendationParams{
		MinScore: minScore,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return mapUsecaseError(err, jobNotFound)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, response.Page{
		Items:  dto.NewRecommendationResponses(page.Items),
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}
