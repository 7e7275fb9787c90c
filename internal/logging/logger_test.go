package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/varindex/internal/config"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.DebugLevel)

	child := logger.With("run_id", "r1")
	kStar, vStar := Star("V1234")
	kErr, vErr := Err(errors.New("boom"))
	child.Warn("star failed", kStar, vStar, kErr, vErr, "n", 7)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "warn", lines[0]["level"])
	assert.Equal(t, "star failed", lines[0]["message"])
	assert.Equal(t, "r1", lines[0]["run_id"])
	assert.Equal(t, "V1234", lines[0]["star"])
	assert.Equal(t, "boom", lines[0]["error"])
	assert.Equal(t, float64(7), lines[0]["n"])
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.WarnLevel)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Error("shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["message"])
}

func TestLogger_Context(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel)

	ctx := WithLogger(context.Background(), logger)
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithRunID(ctx, "run-9")
	InfoCtx(ctx, "hello")

	assert.Equal(t, "req-1", RequestID(ctx))
	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "req-1", lines[0]["request_id"])
	assert.Equal(t, "run-9", lines[0]["run_id"])

	assert.Same(t, global, FromContext(context.Background()))
}

func TestNewFromConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "varindex.log")
	logger, err := NewFromConfig(config.LoggingConfig{Level: "info", Format: "json", OutputPath: path})
	require.NoError(t, err)
	logger.Info("written")
	assert.FileExists(t, path)
}

func TestNewFromConfig_ConsoleFileHasNoColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")
	logger, err := NewFromConfig(config.LoggingConfig{Level: "bogus", Format: "console", OutputPath: path})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown", "star", "V1")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(raw)
	assert.Contains(t, text, "shown")
	assert.Contains(t, text, "star=V1")
	assert.NotContains(t, text, "hidden", "unknown level falls back to info")
	assert.NotContains(t, text, "\x1b[")
}

func TestConsoleTimeFormat(t *testing.T) {
	assert.Equal(t, time.RFC3339, consoleTimeFormat(""))
	assert.Equal(t, time.UnixDate, consoleTimeFormat("Unix"))
	assert.Equal(t, time.StampMilli, consoleTimeFormat("UnixMs"))
}

func TestFiberMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel)

	app := fiber.New()
	app.Use(FiberMiddleware(logger, DefaultMiddlewareConfig()))
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/v1/indices/columns", func(c *fiber.Ctx) error {
		return c.SendString(RequestID(c.UserContext()))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Empty(t, buf.String(), "health checks are not logged")

	req := httptest.NewRequest("GET", "/v1/indices/columns", nil)
	req.Header.Set("X-Request-ID", "abc")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.Header.Get("X-Request-ID"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "Request completed", lines[0]["message"])
	assert.Equal(t, "abc", lines[0]["request_id"])
	assert.Equal(t, float64(200), lines[0]["status"])
}
