package presenters

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/minischetti/meal-planner-api/domain"
	"github.com/minischetti/meal-planner-api/internal/utils/storage"
	"github.com/minischetti/meal-planner-api/pkg/store"
)

// DataResponse writes a successful read. Reads return the resource itself, not a Message.
func DataResponse(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

func SuccessResponse(c *fiber.Ctx, msg domain.Message, statusCode int) error {
	return c.Status(statusCode).JSON(msg.WithResult(domain.ResultSuccess))
}

// ErrorResponse classifies err and writes msg with the matching result and status. Unclassified
// errors come from the store and are passed through as they are.
func ErrorResponse(c *fiber.Ctx, msg domain.Message, err error) error {
	status, result := Classify(err)
	var verr *domain.ValidationError
	if errors.As(err, &verr) && msg.SecondaryDomain == "" && verr.Field != "" {
		msg = msg.WithSecondary(verr.Field)
	}
	if result == domain.ResultError {
		log.Errorw("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	text := err.Error()
	if msg.Message != "" {
		text = msg.Message + ": " + text
	}
	return c.Status(status).JSON(msg.WithResult(result).WithMessage(text))
}

// BodyErrorResponse is written when the request body cannot be parsed or fails its struct tags.
func BodyErrorResponse(c *fiber.Ctx, msg domain.Message, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(msg.
		WithResult(domain.ResultBadRequest).
		WithMessage(domain.MessageFailedBodyRequest + ": " + err.Error()))
}

func Classify(err error) (int, domain.Result) {
	switch {
	case errors.Is(err, domain.ErrBadRequest), errors.Is(err, storage.ErrFileTypeNotAllowed):
		return fiber.StatusBadRequest, domain.ResultBadRequest
	case errors.Is(err, domain.ErrEmpty), errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound, domain.ResultEmpty
	case errors.Is(err, domain.ErrPermissionDenied):
		return fiber.StatusForbidden, domain.ResultPermissionDeny
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, store.ErrAlreadyExists), errors.Is(err, domain.ErrAccountExists):
		return fiber.StatusConflict, domain.ResultAlreadyExists
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrTokenExpired), errors.Is(err, domain.ErrTokenNotFound):
		return fiber.StatusUnauthorized, domain.ResultPermissionDeny
	default:
		return fiber.StatusBadRequest, domain.ResultError
	}
}
