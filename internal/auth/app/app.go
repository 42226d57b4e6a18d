package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpapi "github.com/tasklight/tasklight/internal/auth/http"
	"github.com/tasklight/tasklight/internal/auth/service"
	"github.com/tasklight/tasklight/internal/auth/store"
	"github.com/tasklight/tasklight/internal/auth/store/drivers/memory"
	"github.com/tasklight/tasklight/internal/auth/store/drivers/sqlite"
	"github.com/tasklight/tasklight/pkg/cryptox"
	"github.com/tasklight/tasklight/pkg/jwtx"
	"github.com/tasklight/tasklight/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	credentialService *service.CredentialService
	tokenService      *service.TokenService
	sessionService    *service.SessionService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "tasklight-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initStore(); err != nil {
		return nil, err
	}
	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("auth service starting",
		"port", app.cfg.Port,
		"driver", app.cfg.StoreDriver,
		"version", BuildVersion,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing store", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initStore initializes the configured store driver and applies migrations.
func (app *Application) initStore() error {
	switch app.cfg.StoreDriver {
	case "memory", "":
		app.db = memory.NewStore()
	case "sqlite":
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
		db, err := sqlite.NewStore(dsn)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		app.db = db
	default:
		return fmt.Errorf("unknown store driver %q", app.cfg.StoreDriver)
	}

	if err := app.db.ApplyMigrations(); err != nil {
		_ = app.db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	return nil
}

// initServices initializes the business logic services.
func (app *Application) initServices() error {
	signer, err := jwtx.NewSignerHS256([]byte(app.cfg.JWTSecret))
	if err != nil {
		return fmt.Errorf("failed to initialize token signer: %w", err)
	}
	verifier := jwtx.NewCommonHS256([]byte(app.cfg.JWTSecret), app.cfg.Issuer)

	app.credentialService = &service.CredentialService{Store: app.db}
	app.tokenService = &service.TokenService{
		Signer:         signer,
		Verifier:       verifier,
		Store:          app.db,
		Issuer:         app.cfg.Issuer,
		AccessTTL:      app.cfg.AccessTTL,
		MaxOutstanding: app.cfg.MaxRefreshTokens,
	}
	app.sessionService = &service.SessionService{
		Credentials: app.credentialService,
		Tokens:      app.tokenService,
		Limiter:     service.NewLoginLimiter(app.cfg.LoginWindow, app.cfg.LoginMaxFailures),
	}

	if app.cfg.JWTSecret == "dev-secret" && app.cfg.Env != "dev" {
		app.logger.Warn("running with the default JWT secret outside dev")
	}

	return nil
}

// initHTTP wires the router and the HTTP server.
func (app *Application) initHTTP() {
	app.router = httpapi.NewRouter(app.sessionService, app.db, BuildVersion, app.logger)
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: app.router,
	}
}
