package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v3"

	"github.com/rimtours/toursync/internal/arctic"
	"github.com/rimtours/toursync/internal/backup"
	"github.com/rimtours/toursync/internal/config"
	"github.com/rimtours/toursync/internal/outline"
	"github.com/rimtours/toursync/internal/report"
	"github.com/rimtours/toursync/internal/scaffold"
	"github.com/rimtours/toursync/internal/store"
	"github.com/rimtours/toursync/internal/sync"
	"github.com/rimtours/toursync/internal/template"
	"github.com/rimtours/toursync/internal/ux"
)

func main() {
	app := &cli.Command{
		Name:  "toursync",
		Usage: "Bidirectional sync between the tour database and the document store",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "Path to toursync.yaml (default: search upward from cwd)"},
		},
		Commands: []*cli.Command{
			initCmd(),
			pushCmd(),
			pullCmd(),
			previewCmd(),
			backupCmd(),
			restoreCmd(),
			refreshCmd(),
			reportCmd(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%serror:%s %v\n", ux.Red, ux.Reset, err)
		os.Exit(1)
	}
}

// app bundles the pieces every database-touching command needs.
type app struct {
	cfg   *config.Config
	log   *logrus.Logger
	store *store.Store
}

func setup(cmd *cli.Command) (*app, error) {
	path := cmd.String("config")
	if path == "" {
		var err error
		path, err = findConfig()
		if err != nil {
			return nil, err
		}
	}

	// Credentials may live in a .env next to the config.
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log.SetLevel(level)

	st, err := store.Open(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return &app{cfg: cfg, log: log, store: st}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.WithError(err).Warn("closing database")
	}
}

func (a *app) docs() *outline.Client {
	return outline.New(a.cfg.Outline.BaseURL, a.cfg.Outline.APIKey, a.cfg.Outline.WriteDelay(), nil)
}

func (a *app) engine(opts sync.Options) *sync.Engine {
	opts.CollectionID = a.cfg.Outline.CollectionID
	opts.DayToursDocID = a.cfg.Outline.DayToursDocID
	opts.MultiDayDocID = a.cfg.Outline.MultiDayDocID
	opts.BackupDir = a.cfg.BackupDir
	return &sync.Engine{
		Store:    a.store,
		Docs:     a.docs(),
		Renderer: &template.Renderer{},
		Log:      a.log,
		Opts:     opts,
		Report:   ux.TourLine,
		RunID:    uuid.NewString(),
	}
}

func finish(sum *sync.Summary) error {
	ux.RunSummary(sum)
	if sum.Failures() {
		return fmt.Errorf("%d tours failed", sum.Failed)
	}
	return nil
}

func pushCmd() *cli.Command {
	return &cli.Command{
		Name:  "push",
		Usage: "Regenerate document headers from the database",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "Plan without writing"},
			&cli.BoolFlag{Name: "force", Usage: "Overwrite marked documents (snapshots them first)"},
			&cli.BoolFlag{Name: "assume-multiday", Usage: "File unclassified tours under the multi-day parent"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ux.RunHeader("push", cmd.Bool("dry-run"))
			sum, err := a.engine(sync.Options{
				DryRun:         cmd.Bool("dry-run"),
				Force:          cmd.Bool("force"),
				AssumeMultiDay: cmd.Bool("assume-multiday"),
			}).Push(ctx)
			if err != nil {
				return err
			}
			return finish(sum)
		},
	}
}

func pullCmd() *cli.Command {
	return &cli.Command{
		Name:  "pull",
		Usage: "Harvest editable fields from documents into the database",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "Plan without writing"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ux.RunHeader("pull", cmd.Bool("dry-run"))
			sum, err := a.engine(sync.Options{DryRun: cmd.Bool("dry-run")}).Pull(ctx)
			if err != nil {
				return err
			}
			return finish(sum)
		},
	}
}

func refreshCmd() *cli.Command {
	return &cli.Command{
		Name:  "refresh",
		Usage: "Replace pricing from the reservation system",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "Plan without writing"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if a.cfg.Arctic.Username == "" || a.cfg.Arctic.Password == "" {
				return fmt.Errorf("refresh requires arctic credentials (set ARCTIC_USERNAME and ARCTIC_PASSWORD)")
			}

			e := a.engine(sync.Options{DryRun: cmd.Bool("dry-run")})
			e.Pricer = arctic.New(a.cfg.Arctic.BaseURL, a.cfg.Arctic.Username, a.cfg.Arctic.Password, nil)

			ux.RunHeader("refresh", cmd.Bool("dry-run"))
			sum, err := e.Refresh(ctx)
			if err != nil {
				return err
			}
			return finish(sum)
		},
	}
}

func previewCmd() *cli.Command {
	return &cli.Command{
		Name:  "preview",
		Usage: "Render every tour document to local files without touching the document store",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Value: "preview", Usage: "Output directory"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.String("out")
			if err := os.MkdirAll(out, 0755); err != nil {
				return err
			}

			tours, err := a.store.Tours(ctx)
			if err != nil {
				return err
			}
			r := &template.Renderer{}
			written := 0
			for i := range tours {
				t := &tours[i]
				if t.Slug == "" {
					fmt.Printf("  %s-%s %-40s %s(no slug)%s\n", ux.Dim, ux.Reset, t.Title, ux.Dim, ux.Reset)
					continue
				}
				days, err := a.store.ItineraryDays(ctx, t.ID)
				if err != nil {
					return err
				}
				pricing, err := a.store.Pricing(ctx, t.ID)
				if err != nil {
					return err
				}
				fees, err := a.store.Fees(ctx, t.ID)
				if err != nil {
					return err
				}
				path := filepath.Join(out, t.Slug+".md")
				if err := os.WriteFile(path, []byte(r.Document(t, days, pricing, fees)), 0644); err != nil {
					return err
				}
				fmt.Printf("  %s+%s %s\n", ux.Green, ux.Reset, path)
				written++
			}
			fmt.Printf("\n%s✓ %d documents rendered to %s%s\n", ux.Green, written, out, ux.Reset)
			return nil
		},
	}
}

func backupCmd() *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Snapshot every document in the collection",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			docs, err := a.docs().List(ctx, a.cfg.Outline.CollectionID)
			if err != nil {
				return fmt.Errorf("listing documents: %w", err)
			}
			m, err := backup.Create(a.cfg.BackupDir, docs, time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("%s✓ backed up %d documents as %s%s\n", ux.Green, m.Count, m.Handle, ux.Reset)
			return nil
		},
	}
}

func restoreCmd() *cli.Command {
	return &cli.Command{
		Name:      "restore",
		Usage:     "Restore documents from a backup",
		ArgsUsage: "<handle>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "List what would be restored"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			handle := cmd.Args().First()
			if handle == "" {
				return fmt.Errorf("backup handle argument is required")
			}

			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if cmd.Bool("dry-run") {
				m, _, err := backup.Load(a.cfg.BackupDir, handle)
				if err != nil {
					return err
				}
				for _, d := range m.Documents {
					fmt.Printf("  %s~%s would restore %s %s(%s)%s\n", ux.Yellow, ux.Reset, d.Title, ux.Dim, d.ID, ux.Reset)
				}
				fmt.Printf("\n%d documents in %s\n", m.Count, handle)
				return nil
			}

			n, err := backup.Restore(ctx, a.cfg.BackupDir, handle, a.docs())
			if err != nil {
				return fmt.Errorf("restored %d documents, then: %w", n, err)
			}
			fmt.Printf("%s✓ restored %d documents from %s%s\n", ux.Green, n, handle, ux.Reset)
			return nil
		},
	}
}

func reportCmd() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Audit the catalog for sync problems",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "strict", Usage: "Exit non-zero when issues are found"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			r, err := report.Build(ctx, a.store)
			if err != nil {
				return err
			}
			ux.RenderReport(r)
			if cmd.Bool("strict") && !r.Clean() {
				return fmt.Errorf("%d issues found", len(r.Issues))
			}
			return nil
		},
	}
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a starter toursync.yaml and .env.example",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			return scaffold.Init(dir)
		},
	}
}

// findConfig walks up from cwd looking for toursync.yaml.
func findConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, "toursync.yaml")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no toursync.yaml found (searched from cwd to root); run 'toursync init'")
		}
		dir = parent
	}
}
