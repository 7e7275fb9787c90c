package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// envKeyReplacer maps nested keys to env names: indices.scan_gap -> VARINDEX_INDICES_SCAN_GAP
var envKeyReplacer = strings.NewReplacer(".", "_")

// EnsureDirectories ensures the directories of all configured output files exist
func (c *Config) EnsureDirectories() error {
	paths := []string{c.Output.LogPath, c.Output.FormatPath, c.Output.SQLitePath}

	for _, p := range paths {
		if p == "" || p == "-" {
			continue
		}
		dir := filepath.Dir(p)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Logging.Level == "debug" && c.Logging.Format == "console"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Logging.Level == "info" && c.Logging.Format == "json"
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
}

// BodyLimitBytes returns the HTTP body limit in bytes
func (c *ServerConfig) BodyLimitBytes() int {
	return c.BodyLimitMB * 1024 * 1024
}
