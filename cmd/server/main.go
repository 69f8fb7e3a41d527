// Package main implements the entry point for the medlex API server, which
// serves medical terms, phrases and categories to authenticated users and
// builds flashcard decks from them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/medlex/medlex-api/internal/config"
	"github.com/medlex/medlex-api/internal/platform/logger"
)

// options are the command line flags accepted by the server binary.
type options struct {
	migrate   string
	seed      bool
	logFormat string
	envFile   string
}

func main() {
	var opts options
	flag.StringVar(&opts.migrate, "migrate", "", "run a migration command (up, down, reset, status, version) and exit")
	flag.BoolVar(&opts.seed, "seed", false, "create the admin account and sample content, then exit")
	flag.StringVar(&opts.logFormat, "log-format", "json", "log output format (json or text)")
	flag.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		log.Fatalf("medlex server: %v", err)
	}
}

// run loads configuration, sets up logging and the database, then either
// executes a one-shot command or serves HTTP until ctx is cancelled.
func run(ctx context.Context, opts options) error {
	if err := config.LoadDotEnv(opts.envFile); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(logger.LoggerConfig{
		Level:  cfg.Server.LogLevel,
		Format: opts.logFormat,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))

	db, err := setupAppDatabase(ctx, cfg, l)
	if err != nil {
		return err
	}

	if opts.migrate != "" {
		defer closeDB(db, l)
		return runMigrations(ctx, db, opts.migrate, l)
	}

	app, err := newApplication(cfg, l, db)
	if err != nil {
		closeDB(db, l)
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if opts.seed {
		defer app.cleanup()
		return app.seed(ctx)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
