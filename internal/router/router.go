package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/soltixdb/varindex/internal/config"
	"github.com/soltixdb/varindex/internal/handlers"
	"github.com/soltixdb/varindex/internal/logging"
	"github.com/soltixdb/varindex/internal/metrics"
	"github.com/soltixdb/varindex/internal/middleware"
	"github.com/soltixdb/varindex/internal/services"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, indexService *services.IndexService, cfg config.Config) *handlers.Handler {
	h := handlers.New(logger, indexService)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger, logging.DefaultMiddlewareConfig()))

	// Health check and metrics (no auth required)
	app.Get("/health", h.Health)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// API v1 routes (protected by API key)
	v1 := app.Group("/v1", middleware.APIKeyAuth(logger, cfg.Auth))

	v1.Get("/indices/columns", h.Columns)
	v1.Post("/indices", h.Compute)
	v1.Post("/indices/batch", h.ComputeBatch)
	v1.Get("/indices/:star", h.GetStar)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, indexService *services.IndexService, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "varindex",
		DisableStartupMessage: true,
		BodyLimit:             cfg.Server.BodyLimitBytes(),
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	Setup(app, logger, indexService, cfg)

	return app
}
