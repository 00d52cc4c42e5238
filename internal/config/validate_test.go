package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func baseConfig() *Config {
	return &Config{
		Database: Database{DSN: "postgres://localhost/tours"},
		Outline: Outline{
			BaseURL:      "https://docs.example.com",
			APIKey:       "ol_key",
			CollectionID: "col-1",
		},
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := baseConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BackupDir != "backups" {
		t.Fatalf("backup dir default = %q", cfg.BackupDir)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("log level default = %q", cfg.LogLevel)
	}
	if cfg.Outline.WriteDelay() != 500*time.Millisecond {
		t.Fatalf("write delay default = %v", cfg.Outline.WriteDelay())
	}
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing dsn", func(c *Config) { c.Database.DSN = "" }, "database.dsn"},
		{"missing api key", func(c *Config) { c.Outline.APIKey = "" }, "outline.api-key"},
		{"missing collection", func(c *Config) { c.Outline.CollectionID = "" }, "outline.collection-id"},
		{"missing base url", func(c *Config) { c.Outline.BaseURL = "" }, "outline.base-url"},
		{"bad delay", func(c *Config) { c.Outline.MinWriteDelay = "fast" }, "min-write-delay"},
		{"negative delay", func(c *Config) { c.Outline.MinWriteDelay = "-1s" }, "min-write-delay"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log-level"},
		{"arctic creds without url", func(c *Config) { c.Arctic.Username = "u" }, "arctic.base-url"},
	}
	for _, c := range cases {
		cfg := baseConfig()
		c.mutate(cfg)
		err := Validate(cfg)
		if err == nil {
			t.Errorf("%s: expected error", c.name)
			continue
		}
		if !strings.Contains(err.Error(), c.want) {
			t.Errorf("%s: error %q does not mention %q", c.name, err, c.want)
		}
	}
}

func TestLoadAppliesEnvOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toursync.yaml")
	yaml := `
database:
  dsn: postgres://localhost/tours
outline:
  base-url: https://docs.example.com
  api-key: file_key
  collection-id: col-1
  min-write-delay: 250ms
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OUTLINE_API_KEY", "env_key")
	t.Setenv("OUTLINE_DAY_TOURS_DOC_ID", "parent-day")
	t.Setenv("OUTLINE_MD_TOURS_DOC_ID", "parent-multi")
	t.Setenv("ARCTIC_USERNAME", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Outline.APIKey != "env_key" {
		t.Fatalf("env overlay lost: api key = %q", cfg.Outline.APIKey)
	}
	if cfg.Outline.DayToursDocID != "parent-day" || cfg.Outline.MultiDayDocID != "parent-multi" {
		t.Fatalf("parent doc ids not overlaid: %q, %q", cfg.Outline.DayToursDocID, cfg.Outline.MultiDayDocID)
	}
	if cfg.Outline.WriteDelay() != 250*time.Millisecond {
		t.Fatalf("write delay = %v", cfg.Outline.WriteDelay())
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
