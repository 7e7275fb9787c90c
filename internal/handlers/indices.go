package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/varindex/internal/logging"
	"github.com/soltixdb/varindex/internal/models"
)

// Columns lists the index columns in log order
func (h *Handler) Columns(c *fiber.Ctx) error {
	return c.JSON(h.indexService.Columns())
}

// Compute handles POST /v1/indices
func (h *Handler) Compute(c *fiber.Ctx) error {
	var req models.LightCurveRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c, err)
	}

	rec, err := h.indexService.Compute(c.UserContext(), &req)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(rec)
}

// ComputeBatch handles POST /v1/indices/batch
func (h *Handler) ComputeBatch(c *fiber.Ctx) error {
	var req models.BatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c, err)
	}

	resp, err := h.indexService.ComputeBatch(c.UserContext(), &req)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	h.logger.Info("Batch computed",
		"run_id", resp.RunID,
		"stars", len(resp.Results),
		"failed", resp.Failed,
		"request_id", logging.RequestID(c.UserContext()),
	)
	return c.JSON(resp)
}

// GetStar handles GET /v1/indices/:star
func (h *Handler) GetStar(c *fiber.Ctx) error {
	rec, err := h.indexService.Lookup(c.UserContext(), c.Params("star"))
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(rec)
}
