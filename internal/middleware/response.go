package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/mathieu-neron/vixtube/internal/apperror"
	"github.com/mathieu-neron/vixtube/internal/model"
)

// Success writes the success envelope.
func Success(c fiber.Ctx, status int, data any, message string) error {
	return c.Status(status).JSON(model.APIResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// ErrorResponse writes the error envelope.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(model.APIError{
		StatusCode: status,
		Message:    message,
		Code:       code,
		Success:    false,
	})
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(kind apperror.Kind) int {
	switch kind {
	case apperror.InvalidArgument:
		return fiber.StatusBadRequest
	case apperror.NotFound:
		return fiber.StatusNotFound
	case apperror.Unauthorized:
		return fiber.StatusForbidden
	case apperror.Conflict:
		return fiber.StatusConflict
	case apperror.Unavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// AppError renders err through the apperror taxonomy. Errors outside it are
// logged and reported as a generic 500.
func AppError(c fiber.Ctx, err error) error {
	kind := apperror.KindOf(err)
	status := StatusOf(kind)
	if status >= fiber.StatusInternalServerError {
		Logger.Error().Err(err).
			Str("method", c.Method()).
			Str("path", SanitizePath(c.Path())).
			Msg("request failed")
	}
	code := kind.String()
	if kind == apperror.Unauthorized {
		code = "FORBIDDEN"
	}
	return ErrorResponse(c, status, code, apperror.MessageOf(err))
}

// ErrorHandler is the fiber ErrorHandler. It covers errors returned by
// handlers that did not render a response themselves, including fiber's own
// routing errors.
func ErrorHandler(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return ErrorResponse(c, fe.Code, fiberCode(fe.Code), fe.Message)
	}
	return AppError(c, err)
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest:
		return "INVALID_ARGUMENT"
	case fiber.StatusUnauthorized:
		return "UNAUTHENTICATED"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	}
	if status >= fiber.StatusInternalServerError {
		return "INTERNAL_ERROR"
	}
	return "REQUEST_ERROR"
}
