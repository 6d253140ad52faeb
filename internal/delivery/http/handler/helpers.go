package handler

import (
	"errors"
	"strconv"
	"strings"

	"skill-bridge/internal/delivery/http/middleware"
	"skill-bridge/internal/domain"
	"skill-bridge/internal/pkg/response"
	"skill-bridge/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

var validate = validator.New()

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// bindBody decodes the JSON body into req and runs its validate tags.
func bindBody(c fiber.Ctx, req interface{}) error {
	if err := c.Bind().Body(req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", nil, err)
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			out := make([]fieldError, 0, len(verrs))
			for _, fe := range verrs {
				out = append(out, fieldError{Field: fe.Field(), Rule: fe.Tag()})
			}
			return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", out, err)
		}
		return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", nil, err)
	}
	return nil
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func badQuery(key string, err error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, "Invalid query parameter: "+key, nil, err)
}

// mapUsecaseError translates domain and usecase errors to HTTP errors.
func mapUsecaseError(err error, notFound string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, domain.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, notFound, nil, err)
	case errors.Is(err, domain.ErrDuplicateID):
		return middleware.NewAppError(fiber.StatusConflict, "Duplicate id", nil, err)
	case errors.Is(err, domain.ErrInvalidJob):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Job has no resolvable required skills", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
