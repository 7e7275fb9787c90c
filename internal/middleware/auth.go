package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/varindex/internal/config"
	"github.com/soltixdb/varindex/internal/logging"
	"github.com/soltixdb/varindex/internal/models"
)

// MinAPIKeyLength is the minimum required length for API keys
const MinAPIKeyLength = 32

// ValidateAPIKey checks if an API key meets the length requirement
func ValidateAPIKey(key string) bool {
	return len(key) >= MinAPIKeyLength && strings.TrimSpace(key) != ""
}

// requestAPIKey reads the key from X-API-Key or Authorization (with or
// without the Bearer prefix)
func requestAPIKey(c *fiber.Ctx) string {
	if key := c.Get("X-API-Key"); key != "" {
		return key
	}
	auth := c.Get("Authorization")
	if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return after
	}
	return auth
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "UNAUTHORIZED",
			Message: message,
		},
	})
}

// APIKeyAuth creates an API key authentication middleware. Keys shorter
// than MinAPIKeyLength are ignored.
func APIKeyAuth(logger *logging.Logger, cfg config.AuthConfig) fiber.Handler {
	if !cfg.Enabled {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	keys := make(map[string]struct{}, len(cfg.APIKeys))
	for _, key := range cfg.APIKeys {
		if !ValidateAPIKey(key) {
			logger.Warn("Ignoring weak API key",
				"key_length", len(key),
				"min_required", MinAPIKeyLength,
				"key_prefix", maskAPIKey(key),
			)
			continue
		}
		keys[key] = struct{}{}
	}
	if len(keys) == 0 {
		logger.Error("Authentication enabled without a valid API key, every request will be rejected",
			"total_keys", len(cfg.APIKeys))
	}

	return func(c *fiber.Ctx) error {
		key := requestAPIKey(c)
		if key == "" {
			logger.Warn("API key missing", "path", c.Path(), "ip", c.IP())
			return unauthorized(c, "API key is required. Provide it via X-API-Key header or Authorization header.")
		}
		if _, ok := keys[key]; !ok {
			logger.Warn("Invalid API key", "path", c.Path(), "ip", c.IP(), "api_key_prefix", maskAPIKey(key))
			return unauthorized(c, "Invalid API key.")
		}
		return c.Next()
	}
}

// maskAPIKey masks API key for logging (show only first 4 chars)
func maskAPIKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}
