// Package config loads the toursync YAML configuration. Secrets are
// never required in the file itself: the environment (optionally seeded
// from a .env file by the caller) overrides anything the file sets.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Database struct {
	DSN string `yaml:"dsn"`
}

type Outline struct {
	BaseURL       string `yaml:"base-url"`
	APIKey        string `yaml:"api-key"`
	CollectionID  string `yaml:"collection-id"`
	DayToursDocID string `yaml:"day-tours-doc-id"`
	MultiDayDocID string `yaml:"multi-day-doc-id"`

	// MinWriteDelay throttles write calls against the document API,
	// e.g. "500ms". Parsed during validation.
	MinWriteDelay string `yaml:"min-write-delay"`

	writeDelay time.Duration
}

// WriteDelay returns the parsed minimum delay between write calls.
func (o *Outline) WriteDelay() time.Duration { return o.writeDelay }

type Arctic struct {
	BaseURL  string `yaml:"base-url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type Config struct {
	Database  Database `yaml:"database"`
	Outline   Outline  `yaml:"outline"`
	Arctic    Arctic   `yaml:"arctic"`
	BackupDir string   `yaml:"backup-dir"`
	LogLevel  string   `yaml:"log-level"`
}

// Load reads a YAML config file, overlays environment variables, and
// returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyEnv(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overlays environment variables onto the file config so
// credentials can stay out of version control.
func applyEnv(cfg *Config) {
	overlay(&cfg.Database.DSN, "DATABASE_URL")
	overlay(&cfg.Outline.BaseURL, "OUTLINE_BASE_URL")
	overlay(&cfg.Outline.APIKey, "OUTLINE_API_KEY")
	overlay(&cfg.Outline.CollectionID, "OUTLINE_COLLECTION_ID")
	overlay(&cfg.Outline.DayToursDocID, "OUTLINE_DAY_TOURS_DOC_ID")
	overlay(&cfg.Outline.MultiDayDocID, "OUTLINE_MD_TOURS_DOC_ID")
	overlay(&cfg.Arctic.BaseURL, "ARCTIC_BASE_URL")
	overlay(&cfg.Arctic.Username, "ARCTIC_USERNAME")
	overlay(&cfg.Arctic.Password, "ARCTIC_PASSWORD")
}

func overlay(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
