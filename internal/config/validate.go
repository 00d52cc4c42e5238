package config

import (
	"fmt"
	"time"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the config for errors and sets defaults. Arctic
// credentials are optional; the refresh command checks for them itself
// so the other commands work without reservation-system access.
func Validate(cfg *Config) error {
	if cfg.Database.DSN == "" {
		return fmt.Errorf("config: database.dsn is required (or set DATABASE_URL)")
	}

	if cfg.Outline.BaseURL == "" {
		return fmt.Errorf("config: outline.base-url is required")
	}
	if cfg.Outline.APIKey == "" {
		return fmt.Errorf("config: outline.api-key is required (or set OUTLINE_API_KEY)")
	}
	if cfg.Outline.CollectionID == "" {
		return fmt.Errorf("config: outline.collection-id is required")
	}

	if cfg.Outline.MinWriteDelay == "" {
		cfg.Outline.MinWriteDelay = "500ms"
	}
	d, err := time.ParseDuration(cfg.Outline.MinWriteDelay)
	if err != nil {
		return fmt.Errorf("config: outline.min-write-delay: %w", err)
	}
	if d < 0 {
		return fmt.Errorf("config: outline.min-write-delay must be >= 0")
	}
	cfg.Outline.writeDelay = d

	if cfg.Arctic.Username != "" && cfg.Arctic.BaseURL == "" {
		return fmt.Errorf("config: arctic.base-url is required when arctic credentials are set")
	}

	if cfg.BackupDir == "" {
		cfg.BackupDir = "backups"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("config: unknown log-level %q (must be debug, info, warn, or error)", cfg.LogLevel)
	}
	return nil
}
