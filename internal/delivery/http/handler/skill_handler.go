package handler

import (
	"skill-bridge/internal/delivery/http/dto"
	"skill-bridge/internal/pkg/response"
	"skill-bridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SkillHandler struct {
	uc usecase.SkillUsecase
}

func NewSkillHandler(uc usecase.SkillUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/skills")
	grp.Get("/", h.ListSkills)
	grp.Get("/resolve", h.ResolveSkill)
	grp.Get("/gaps", h.ListSkillGaps)
	grp.Post("/mentions", h.ExtractMentions)
	grp.Get("/relations", h.ListRelations)
	grp.Get("/:skill_id", h.GetSkill)
}

func (h *SkillHandler) ListSkills(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return badQuery("limit", err)
	}

	skills, err := h.uc.ListSkills(c.Context(), usecase.SkillListParams{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Limit:    limit,
	})
	if err != nil {
		return mapUsecaseError(err, "Skill not found")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSkillResponses(skills))
}

func (h *SkillHandler) ResolveSkill(c fiber.Ctx) error {
	res, err := h.uc.ResolveToken(c.Context(), c.Query("token"))
	if err != nil {
		return mapUsecaseError(err, "Skill not found")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSkillResolutionResponse(res))
}

func (h *SkillHandler) ListSkillGaps(c fiber.Ctx) error {
	threshold, err := parseQueryIntStrict(c, "threshold", 1)
	if err != nil {
		return badQuery("threshold", err)
	}

	gaps, err := h.uc.ListSkillGaps(c.Context(), threshold)
	if err != nil {
		return mapUsecaseError(err, "Skill not found")
	}

	out := dto.SkillGapsResponse{Threshold: threshold, Results: make([]dto.SkillGapResponse, 0, len(gaps))}
	for _, g := range gaps {
		out.Results = append(out.Results, dto.SkillGapResponse{
			SkillID:       g.Skill.ID,
			SkillName:     g.Skill.CanonicalName,
			Category:      string(g.Skill.Category),
			EvidenceCount: g.EvidenceCount,
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *SkillHandler) ExtractMentions(c fiber.Ctx) error {
	var req dto.MentionsRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	ms, err := h.uc.ExtractMentions(c.Context(), req.Text)
	if err != nil {
		return mapUsecaseError(err, "Skill not found")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMentionResponses(ms))
}

func (h *SkillHandler) ListRelations(c fiber.Ctx) error {
	rels, err := h.uc.ListRelations(c.Context(), c.Query("skill_id"))
	if err != nil {
		return mapUsecaseError(err, "Skill not found")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSkillRelationResponses(rels))
}

func (h *SkillHandler) GetSkill(c fiber.Ctx) error {
	detail, err := h.uc.GetSkillDetail(c.Context(), c.Params("skill_id"))
	if err != nil {
		return mapUsecaseError(err, "Skill not found")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.SkillDetailResponse{
		SkillResponse: dto.NewSkillResponse(detail.Skill),
		EvidenceCount: detail.EvidenceCount,
		Evidence:      dto.NewEvidenceResponses(detail.Evidence),
	})
}
