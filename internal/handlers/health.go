package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/varindex/internal/models"
)

// Version is reported by the health endpoint
var Version = "1.0.0"

// Health reports liveness plus the engine configuration, so a deployment
// can check which index families a replica computes.
func (h *Handler) Health(c *fiber.Ctx) error {
	resp := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   Version,
	}
	if h.indexService != nil {
		status := h.indexService.EngineStatus()
		resp.Engine = &status
	}
	return c.JSON(resp)
}

// NotFound answers routes outside the API
func (h *Handler) NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "NOT_FOUND",
			Message: "no route for " + c.Method() + " " + c.Path(),
			Path:    c.Path(),
		},
	})
}
