package handler

import (
	"skill-bridge/internal/delivery/http/dto"
	"skill-bridge/internal/pkg/response"
	"skill-bridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const roleNotFound = "Role not found"

type RoleHandler struct {
	uc usecase.RoleUsecase
}

func NewRoleHandler(uc usecase.RoleUsecase) *RoleHandler {
	return &RoleHandler{uc: uc}
}

func (h *RoleHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/roles")
	grp.Get("/", h.ListRoles)
	grp.Post("/", h.CreateRole)
	grp.Get("/:role_id/weights", h.GetRoleWeights)
}

func (h *RoleHandler) ListRoles(c fiber.Ctx) error {
	roles, err := h.uc.ListRoles(c.Context())
	if err != nil {
		return mapUsecaseError(err, roleNotFound)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRoleResponses(roles))
}

func (h *RoleHandler) CreateRole(c fiber.Ctx) error {
	var req dto.CreateRoleRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	r, err := h.uc.CreateRole(c.Context(), usecase.CreateRoleInput{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return mapUsecaseError(err, roleNotFound)
	}
	return response.Created(c, response.MessageCreated, dto.NewRoleResponse(r))
}

// GetRoleWeights derives weights from the approved postings tagged with the role.
func (h *RoleHandler) GetRoleWeights(c fiber.Ctx) error {
	w, err := h.uc.GetRoleWeights(c.Context(), c.Params("role_id"))
	if err != nil {
		return mapUsecaseError(err, roleNotFound)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRoleWeightsResponse(w))
}
