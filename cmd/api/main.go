package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/urfave/cli/v2"

	"mynextrecipe/internal/config"
	"mynextrecipe/internal/fridge"
	"mynextrecipe/internal/recipe"
	"mynextrecipe/internal/unit"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "mynextrecipe",
		Usage: "Recipe catalog and fridge service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Optional JSON configuration file",
				Value:   "config.json",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the REST API",
				Action: serveCommand,
			},
			{
				Name:   "seed",
				Usage:  "Create the units, categories and ingredients needed to write recipes",
				Action: seedCommand,
			},
			{
				Name:   "purge",
				Usage:  "Delete every recipe, category, ingredient, unit and unit type",
				Action: purgeCommand,
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return nil
}

// stores are the Postgres stores sharing one connection pool.
type stores struct {
	db      *sqlx.DB
	units   *unit.PostgresStore
	catalog *recipe.PostgresStore
	fridge  *fridge.PostgresStore
}

// openStores connects to the database and creates missing tables. Units come
// first, then the catalog, then the fridge, following the foreign keys.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &stores{db: db}
	if s.units, err = unit.NewPostgresStore(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	if s.catalog, err = recipe.NewPostgresStore(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	if s.fridge, err = fridge.NewPostgresStore(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *stores) Close() error {
	return s.db.Close()
}

// withStores loads the configuration, opens the stores and runs fn.
func withStores(c *cli.Context, fn func(ctx context.Context, cfg *config.Config, s *stores) error) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	s, err := openStores(c.Context, cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(c.Context, cfg, s)
}
