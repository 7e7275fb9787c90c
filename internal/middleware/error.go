package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/varindex/internal/logging"
	"github.com/soltixdb/varindex/internal/models"
)

// errorCode names the error class of an HTTP status
func errorCode(status int) string {
	switch {
	case status == fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	case status == fiber.StatusNotFound:
		return "NOT_FOUND"
	case status == fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case status < 500:
		return "BAD_REQUEST"
	default:
		return "INTERNAL_ERROR"
	}
}

// ErrorHandler renders errors returned by handlers as an ErrorResponse
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
			message = fe.Message
		}

		kErr, vErr := logging.Err(err)
		fields := []interface{}{"path", c.Path(), "method", c.Method(), "status", status, kErr, vErr}
		if status >= 500 {
			logger.Error("Request error", fields...)
		} else {
			logger.Warn("Request rejected", fields...)
		}

		return c.Status(status).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    errorCode(status),
				Message: message,
				Path:    c.Path(),
			},
		})
	}
}
