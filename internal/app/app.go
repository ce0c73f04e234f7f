package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/Identilink/identilink/config"
	"github.com/Identilink/identilink/internal/database"
	"github.com/Identilink/identilink/internal/domain"
	httpHandler "github.com/Identilink/identilink/internal/http"
	"github.com/Identilink/identilink/internal/http/middleware"
	"github.com/Identilink/identilink/internal/repository"
	"github.com/Identilink/identilink/internal/service"
	"github.com/Identilink/identilink/pkg/logger"
)

// App encapsulates the application dependencies and configuration
type App struct {
	config *config.Config
	logger logger.Logger
	db     *sql.DB

	contactStore     domain.ContactStore
	reconcileService domain.ReconcileService

	mux    *http.ServeMux
	server *http.Server
}

// AppOption defines a function that configures an App
type AppOption func(*App)

// WithLogger sets a custom logger for the App
func WithLogger(logger logger.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// WithDB sets a pre-built database handle, used by tests.
func WithDB(db *sql.DB) AppOption {
	return func(a *App) {
		a.db = db
	}
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config, opts ...AppOption) *App {
	app := &App{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.logger == nil {
		app.logger = logger.NewLoggerWithLevel(cfg.LogLevel)
	}

	return app
}

// Initialize prepares the database, repositories, services and handlers.
func (a *App) Initialize() error {
	if err := a.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	a.InitRepositories()
	a.InitServices()
	a.InitHandlers()

	return nil
}

// InitDB connects to the database and brings the schema up to date.
func (a *App) InitDB() error {
	if a.db == nil {
		db, err := database.Connect(&a.config.Database)
		if err != nil {
			return err
		}
		a.db = db
	}

	if err := database.InitializeDatabase(a.db); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	a.logger.WithField("database", a.config.Database.DBName).Info("Database initialized")
	return nil
}

// InitRepositories builds the store adapters.
func (a *App) InitRepositories() {
	a.contactStore = repository.NewContactStore(
		a.db,
		a.config.Reconcile.TxMaxWait,
		a.config.Reconcile.TxTimeout,
	)
}

// InitServices builds the services.
func (a *App) InitServices() {
	a.reconcileService = service.NewReconcileService(
		a.contactStore,
		a.logger,
		a.config.Reconcile.MaxAttempts,
	)
}

// InitHandlers registers the HTTP surface.
func (a *App) InitHandlers() {
	reconcileHandler := httpHandler.NewReconcileHandler(a.reconcileService, a.logger)
	reconcileHandler.RegisterRoutes(a.mux)

	healthHandler := httpHandler.NewHealthHandler(a.contactStore, a.logger)
	healthHandler.RegisterRoutes(a.mux)

	var handler http.Handler = a.mux
	handler = middleware.AccessLog(a.logger)(handler)
	handler = middleware.RequestID(handler)

	a.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Start runs the HTTP server until it is shut down.
func (a *App) Start() error {
	a.logger.WithField("addr", a.server.Addr).Info("HTTP server listening")
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server gracefully and closes the database.
func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			firstErr = fmt.Errorf("failed to shut down server: %w", err)
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close database: %w", err)
		}
	}

	return firstErr
}

// GetConfig returns the app configuration
func (a *App) GetConfig() *config.Config {
	return a.config
}

// GetLogger returns the app logger
func (a *App) GetLogger() logger.Logger {
	return a.logger
}

// GetMux returns the HTTP mux
func (a *App) GetMux() *http.ServeMux {
	return a.mux
}

// GetDB returns the database handle
func (a *App) GetDB() *sql.DB {
	return a.db
}

// GetContactStore returns the contact store adapter
func (a *App) GetContactStore() domain.ContactStore {
	return a.contactStore
}

// GetReconcileService returns the reconciliation service
func (a *App) GetReconcileService() domain.ReconcileService {
	return a.reconcileService
}
