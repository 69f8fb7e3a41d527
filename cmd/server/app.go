package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/medlex/medlex-api/internal/api"
	"github.com/medlex/medlex-api/internal/config"
	"github.com/medlex/medlex-api/internal/platform/postgres"
	"github.com/medlex/medlex-api/internal/service"
	"github.com/medlex/medlex-api/internal/service/auth"
	"github.com/medlex/medlex-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore     store.UserStore
	categoryStore store.CategoryStore
	termStore     store.TermStore
	phraseStore   store.PhraseStore

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	authService      *auth.Service
	userService      service.UserService
	categoryService  service.CategoryService
	termService      service.TermService
	phraseService    service.PhraseService
	importService    service.ImportService
}

// newApplication creates a new application instance backed by the Postgres stores.
// The database connection must already be established.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app := &application{
		config:           cfg,
		logger:           logger,
		db:               db,
		userStore:        postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger),
		categoryStore:    postgres.NewPostgresCategoryStore(db, logger),
		termStore:        postgres.NewPostgresTermStore(db, logger),
		phraseStore:      postgres.NewPostgresPhraseStore(db, logger),
		jwtService:       jwtService,
		passwordVerifier: auth.NewBcryptVerifier(),
	}

	if err := app.initServices(); err != nil {
		return nil, err
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// initServices builds the service layer on top of the stores already set on app.
func (app *application) initServices() error {
	var err error

	app.authService, err = auth.NewService(app.userStore, app.jwtService, app.passwordVerifier, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create auth service: %w", err)
	}

	app.userService, err = service.NewUserService(app.userStore, app.db, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create user service: %w", err)
	}

	app.categoryService, err = service.NewCategoryService(app.categoryStore, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create category service: %w", err)
	}

	app.termService, err = service.NewTermService(app.db, app.termStore, app.categoryStore, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create term service: %w", err)
	}

	app.phraseService, err = service.NewPhraseService(app.db, app.phraseStore, app.categoryStore, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create phrase service: %w", err)
	}

	app.importService, err = service.NewImportService(
		app.db,
		app.termStore,
		app.phraseStore,
		app.categoryStore,
		app.logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create import service: %w", err)
	}

	return nil
}

// handlers creates the HTTP handlers mounted under /api.
func (app *application) handlers() api.Handlers {
	return api.Handlers{
		Auth:       api.NewAuthHandler(app.authService, app.config.Server.CookieSecure, app.logger),
		Terms:      api.NewTermHandler(app.termService, app.importService, app.logger),
		Phrases:    api.NewPhraseHandler(app.phraseService, app.importService, app.logger),
		Categories: api.NewCategoryHandler(app.categoryService, app.logger),
		Users:      api.NewUserHandler(app.userService, app.logger),
		Flashcards: api.NewFlashcardHandler(app.termService, app.phraseService, app.categoryService, app.logger),
	}
}

// Run serves HTTP until ctx is cancelled, then shuts down and releases resources.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// seed creates the admin account and the sample content.
func (app *application) seed(ctx context.Context) error {
	seeder := service.NewSeeder(app.db, app.userStore, app.categoryStore, app.termStore, app.phraseStore, app.logger)

	summary, err := seeder.Seed(ctx, app.config.Seed.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	app.logger.Info("seed complete",
		slog.String("admin_username", summary.Admin.Username),
		slog.Int("created", summary.Created),
		slog.Int("updated", summary.Updated))
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		closeDB(app.db, app.logger)
	}

	app.logger.Info("application shutdown completed")
}
