package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/soltixdb/varindex/internal/config"
)

// NewFromConfig creates a logger from the logging section. Anything other
// than "stdout" or "stderr" is a file path, opened for append.
func NewFromConfig(cfg config.LoggingConfig) (*Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	out, isFile, err := openOutput(cfg.OutputPath)
	if err != nil {
		return nil, err
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    isFile,
			TimeFormat: consoleTimeFormat(cfg.TimeFormat),
		}
	}

	return NewWithWriter(out, level), nil
}

// openOutput resolves a log destination. An empty path means stderr, which
// keeps stdout free for an index log written to "-".
func openOutput(path string) (io.Writer, bool, error) {
	switch path {
	case "stdout":
		return os.Stdout, false, nil
	case "stderr", "":
		return os.Stderr, false, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, false, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return file, true, nil
}

// consoleTimeFormat maps logging.time_format to a layout for console output
func consoleTimeFormat(name string) string {
	switch name {
	case "Unix":
		return time.UnixDate
	case "UnixMs", "StampMilli":
		return time.StampMilli
	case "Kitchen":
		return time.Kitchen
	default:
		return time.RFC3339
	}
}
