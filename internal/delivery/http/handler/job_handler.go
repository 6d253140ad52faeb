package handler

import (
	"skill-bridge/internal/delivery/http/dto"
	"skill-bridge/internal/pkg/response"
	"skill-bridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const jobNotFound = "Job not found"

type JobHandler struct {
	uc usecase.JobUsecase
}

func NewJobHandler(uc usecase.JobUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

// RegisterRoutes mounts the posting routes. Parameterised routes are added
// by the match handler after its own static paths, so this must run after
// MatchHandler.RegisterRoutes.
func (h *JobHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/jobs")
	grp.Get("/", h.ListJobs)
	grp.Post("/", h.CreateJob)
	grp.Post("/submit", h.SubmitJob)
	grp.Get("/:job_id", h.GetJob)
	grp.Patch("/:job_id/moderate", h.ModerateJob)
	grp.Post("/:job_id/roles", h.TagJobRole)
}

func (h *JobHandler) ListJobs(c fiber.Ctx) error {
	jobs, err := h.uc.ListJobs(c.Context(), c.Query("status"))
	if err != nil {
		return mapUsecaseError(err, jobNotFound)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponses(jobs))
}

func (h *JobHandler) GetJob(c fiber.Ctx) error {
	p, err := h.uc.GetJob(c.Context(), c.Params("job_id"))
	if err != nil {
		return mapUsecaseError(err, jobNotFound)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(p))
}

func (h *JobHandler) CreateJob(c fiber.Ctx) error {
	in, err := bindJob(c)
	if err != nil {
		return err
	}
	res, err := h.uc.CreateJob(c.Context(), in)
	if err != nil {
		return mapUsecaseError(err, jobNotFound)
	}
	return response.Created(c, response.MessageCreated, newCreatedJobResponse(res))
}

func (h *JobHandler) SubmitJob(c fiber.Ctx) error {
	in, err := bindJob(c)
	if err != nil {
		return err
	}
	res, err := h.uc.SubmitJob(c.Context(), in)
	if err != nil {
		return mapUsecaseError(err, jobNotFound)
	}
	return response.Created(c, response.MessageCreated, newCreatedJobResponse(res))
}

func (h *JobHandler) ModerateJob(c fiber.Ctx) error {
	var req dto.ModerateJobRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	p, err := h.uc.ModerateJob(c.Context(), c.Params("job_id"), req.Status, req.Reason)
	if err != nil {
		return mapUsecaseError(err, jobNotFound)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(p))
}

func (h *JobHandler) TagJobRole(c fiber.Ctx) error {
	var req dto.TagJobRoleRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	p, err := h.uc.TagJobRole(c.Context(), c.Params("job_id"), req.RoleID)
	if err != nil {
		return mapUsecaseError(err, "Job or role not found")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(p))
}

func bindJob(c fiber.Ctx) (usecase.CreateJobInput, error) {
	var req dto.CreateJobRequest
	if err := bindBody(c, &req); err != nil {
		return usecase.CreateJobInput{}, err
	}
	return usecase.CreateJobInput{
		ID:                 req.ID,
		Title:              req.Title,
		Company:            req.Company,
		Location:           req.Location,
		PostedAt:           req.PostedAt,
		SkillTokens:        req.Skills,
		DescriptionExcerpt: req.DescriptionExcerpt,
		SourceURL:          req.SourceURL,
	}, nil
}

func newCreatedJobResponse(res usecase.CreatedJob) dto.CreatedJobResponse {
	return dto.CreatedJobResponse{
		Job:              dto.NewJobResponse(res.Posting),
		UnresolvedTokens: dto.NewUnresolvedTokenResponses(res.Unresolved),
	}
}
