// Package scaffold writes starter configuration for a new toursync
// deployment.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rimtours/toursync/internal/ux"
)

var configTemplate = `# toursync configuration. Credentials belong in the environment or a
# .env file, not here.
database:
  dsn: postgres://toursync@localhost/tours?sslmode=disable

outline:
  base-url: https://docs.example.com
  api-key: ""            # or set OUTLINE_API_KEY
  collection-id: ""
  day-tours-doc-id: ""   # parent document for new day-tour docs
  multi-day-doc-id: ""   # parent document for new multi-day docs
  min-write-delay: 500ms

arctic:
  base-url: ""           # leave empty to disable pricing refresh
  username: ""           # or set ARCTIC_USERNAME
  password: ""           # or set ARCTIC_PASSWORD

backup-dir: backups
log-level: info
`

var envTemplate = `# Copy to .env and fill in. toursync loads .env on startup.
DATABASE_URL=
OUTLINE_API_KEY=
ARCTIC_USERNAME=
ARCTIC_PASSWORD=
`

// Init writes toursync.yaml and .env.example into targetDir. It refuses
// to overwrite an existing config.
func Init(targetDir string) error {
	configPath := filepath.Join(targetDir, "toursync.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("toursync.yaml already exists in %s", targetDir)
	}

	if err := os.WriteFile(configPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing toursync.yaml: %w", err)
	}
	envPath := filepath.Join(targetDir, ".env.example")
	if err := os.WriteFile(envPath, []byte(envTemplate), 0644); err != nil {
		return fmt.Errorf("writing .env.example: %w", err)
	}

	fmt.Printf("\n%s%s✓ Initialized toursync config%s\n\n", ux.Bold, ux.Green, ux.Reset)
	fmt.Printf("  Created:\n")
	fmt.Printf("    %stoursync.yaml%s — sync configuration\n", ux.Cyan, ux.Reset)
	fmt.Printf("    %s.env.example%s  — credential template\n\n", ux.Cyan, ux.Reset)
	fmt.Printf("  Next steps:\n")
	fmt.Printf("    1. Fill in %stoursync.yaml%s and copy %s.env.example%s to %s.env%s\n", ux.Cyan, ux.Reset, ux.Cyan, ux.Reset, ux.Cyan, ux.Reset)
	fmt.Printf("    2. Run %stoursync report%s to audit the catalog\n", ux.Cyan, ux.Reset)
	fmt.Printf("    3. Run %stoursync push --dry-run%s to preview the first sync\n\n", ux.Cyan, ux.Reset)

	return nil
}
