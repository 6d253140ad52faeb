package handler

import (
	"skill-bridge/internal/delivery/http/dto"
	"skill-bridge/internal/pkg/response"
	"skill-bridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const evidenceNotFound = "Evidence not found"

type EvidenceHandler struct {
	uc usecase.EvidenceUsecase
}

func NewEvidenceHandler(uc usecase.EvidenceUsecase) *EvidenceHandler {
	return &EvidenceHandler{uc: uc}
}

func (h *EvidenceHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/evidence")
	grp.Get("/", h.ListEvidence)
	grp.Post("/", h.UploadEvidence)
	grp.Get("/:evidence_id", h.GetEvidence)
	grp.Put("/:evidence_id/skills", h.RetagEvidence)
	grp.Delete("/:evidence_id", h.DeleteEvidence)
}

func (h *EvidenceHandler) ListEvidence(c fiber.Ctx) error {
	items, err := h.uc.ListEvidence(c.Context(), c.Query("kind"))
	if err != nil {
		return mapUsecaseError(err, evidenceNotFound)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewEvidenceResponses(items))
}

func (h *EvidenceHandler) GetEvidence(c fiber.Ctx) error {
	it, err := h.uc.GetEvidence(c.Context(), c.Params("evidence_id"))
	if err != nil {
		return mapUsecaseError(err, evidenceNotFound)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewEvidenceResponse(it))
}

func (h *EvidenceHandler) UploadEvidence(c fiber.Ctx) error {
	var req dto.UploadEvidenceRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	res, err := h.uc.UploadEvidence(c.Context(), usecase.UploadEvidenceInput{
		ID:          req.ID,
		Title:       req.Title,
		Kind:        req.Kind,
		TextExcerpt: req.TextExcerpt,
		SourceURL:   req.SourceURL,
		UploadedAt:  req.UploadedAt,
		SkillTokens: req.Skills,
	})
	if err != nil {
		return mapUsecaseError(err, evidenceNotFound)
	}
	return response.Created(c, response.MessageCreated, newTaggedEvidenceResponse(res))
}

func (h *EvidenceHandler) RetagEvidence(c fiber.Ctx) error {
	var req dto.RetagEvidenceRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	res, err := h.uc.RetagEvidence(c.Context(), c.Params("evidence_id"), req.Skills)
	if err != nil {
		return mapUsecaseError(err, evidenceNotFound)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, newTaggedEvidenceResponse(res))
}

func (h *EvidenceHandler) DeleteEvidence(c fiber.Ctx) error {
	id := c.Params("evidence_id")
	if err := h.uc.DeleteEvidence(c.Context(), id); err != nil {
		return mapUsecaseError(err, evidenceNotFound)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"id": id})
}

func newTaggedEvidenceResponse(res usecase.TaggedEvidence) dto.TaggedEvidenceResponse {
	return dto.TaggedEvidenceResponse{
		Evidence:         dto.NewEvidenceResponse(res.Item),
		UnresolvedTokens: dto.NewUnresolvedTokenResponses(res.Unresolved),
	}
}
