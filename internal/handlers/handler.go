package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/varindex/internal/logging"
	"github.com/soltixdb/varindex/internal/models"
	"github.com/soltixdb/varindex/internal/services"
)

// Handler contains all HTTP handlers
type Handler struct {
	logger       *logging.Logger
	indexService *services.IndexService
}

// New creates a new handler instance
func New(logger *logging.Logger, indexService *services.IndexService) *Handler {
	return &Handler{
		logger:       logger,
		indexService: indexService,
	}
}

// handleServiceError writes err as an ErrorResponse
func (h *Handler) handleServiceError(c *fiber.Ctx, err error) error {
	var svcErr *services.ServiceError
	if !errors.As(err, &svcErr) {
		return err
	}

	return c.Status(svcErr.HTTPStatus()).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    svcErr.Code,
			Message: svcErr.Message,
			Details: svcErr.Details,
		},
	})
}

// badJSON is the response to an unparsable body
func badJSON(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    services.CodeInvalidJSON,
			Message: "Invalid JSON body: " + err.Error(),
		},
	})
}
