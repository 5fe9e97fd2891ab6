package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskdeck/internal/config"
	"github.com/phrazzld/taskdeck/internal/events"
	"github.com/phrazzld/taskdeck/internal/platform/jsonfile"
	"github.com/phrazzld/taskdeck/internal/platform/sqlstore"
	"github.com/phrazzld/taskdeck/internal/service"
	"github.com/phrazzld/taskdeck/internal/service/auth"
	"github.com/phrazzld/taskdeck/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger

	// Stores
	taskStore    store.TaskStore
	sessionStore auth.SessionStore

	// Service interfaces
	jwtService    auth.JWTService
	authenticator *auth.Authenticator
	taskService   service.TaskService

	// Event system
	eventEmitter *events.InMemoryEventEmitter

	// shutdownTimeout bounds graceful shutdown of the HTTP server.
	shutdownTimeout time.Duration
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config:          cfg,
		logger:          logger,
		shutdownTimeout: 10 * time.Second,
	}

	var err error
	app.taskStore, err = openTaskStore(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open task store: %w", err)
	}
	logger.Info("Task store initialized", "driver", cfg.Storage.Driver)

	// Initialize event emitter
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(events.NewAuditLogHandler(logger))

	app.taskService, err = service.NewTaskService(app.taskStore, app.eventEmitter, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	// Initialize JWT service
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	if cfg.Auth.JWTSecret == "" {
		logger.Warn("No JWT secret configured, generated a random one; tokens will not survive a restart")
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.sessionStore = auth.NewInMemorySessionStore()
	app.authenticator, err = auth.NewAuthenticator(cfg.Auth, app.jwtService, app.sessionStore, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create authenticator: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// openTaskStore creates the task store selected by the storage driver. The
// SQL drivers migrate the schema before the store is returned.
func openTaskStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (store.TaskStore, error) {
	switch cfg.Driver {
	case config.DriverJSON, "":
		s, err := jsonfile.New(cfg.DataFile,
			jsonfile.WithLockTimeout(cfg.LockTimeout()),
			jsonfile.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverSQLite, config.DriverPostgres:
		dialect, err := sqlstore.ParseDialect(cfg.Driver)
		if err != nil {
			return nil, err
		}

		db, err := sqlstore.Open(ctx, dialect, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := sqlstore.Migrate(ctx, db, dialect, sqlstore.MigrateUp, logger); err != nil {
			_ = db.Close()
			return nil, err
		}
		return sqlstore.New(db, dialect, logger), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router, err := app.setupRouter()
	if err != nil {
		return fmt.Errorf("failed to set up router: %w", err)
	}

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskStore != nil {
		if err := app.taskStore.Close(); err != nil {
			app.logger.Error("Error closing task store", "error", err)
		}
	}
}
