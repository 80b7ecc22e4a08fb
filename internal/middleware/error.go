package middleware

import (
	"errors"

	"quizhub/internal/domain"
	"quizhub/internal/dto"
	"quizhub/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// mapDomainErrorToHTTPStatus normalizes domain error codes onto the small set
// of statuses the API promises: 401, 403, 404, 400 and 500.
func mapDomainErrorToHTTPStatus(code domain.ErrorCode) int {
	switch code {
	case domain.CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case domain.CodeForbidden:
		return fiber.StatusForbidden
	case domain.CodeNotFound, domain.CodeQuizNotFound:
		return fiber.StatusNotFound
	case domain.CodeInvalidSubmission, domain.CodeValidation, domain.CodeMissingField,
		domain.CodeInvalidFormat, domain.CodeOutOfRange, domain.CodeDuplicate:
		return fiber.StatusBadRequest
	case domain.CodeStorageError, domain.CodeInternal:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler is the app-level fiber error handler. Every error escaping a
// handler is rendered here as the uniform envelope, so handlers never write
// error bodies themselves. Internal causes are logged but never sent to the
// client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	appLogger := logger.Get()

	var validationErrs domain.ValidationErrors
	if errors.As(err, &validationErrs) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Envelope{
			Status:  dto.StatusError,
			Message: "validation failed",
			Errors:  validationErrs,
		})
	}

	var validationErr domain.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Envelope{
			Status:  dto.StatusError,
			Message: "validation failed",
			Errors:  domain.ValidationErrors{validationErr},
		})
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		status := mapDomainErrorToHTTPStatus(domainErr.Code)
		if status == fiber.StatusInternalServerError {
			appLogger.Error("Internal error",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
				zap.String("code", string(domainErr.Code)),
				zap.Error(err))
			return c.Status(status).JSON(dto.Error("An unexpected error occurred"))
		}
		return c.Status(status).JSON(dto.Error(domainErr.Message))
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(dto.Error(fiberErr.Message))
	}

	appLogger.Error("Unhandled error",
		zap.String("path", c.Path()),
		zap.String("method", c.Method()),
		zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("An unexpected error occurred"))
}
