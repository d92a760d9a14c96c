// Package app wires the storeadmin server runtime: config, logging, the
// database pool, HTTP routes, and the session sweeper lifecycle.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	authapi "storeadmin/internal/auth/api"
	"storeadmin/internal/auth/session"
	"storeadmin/internal/content"
	contentapi "storeadmin/internal/content/api"
	"storeadmin/internal/identity"
	identityapi "storeadmin/internal/identity/api"
)

// App is the storeadmin server runtime. It owns the database pool, the HTTP
// handlers, and the background session sweeper.
type App struct {
	cfg Config
	log Logger

	dbPool *pgxpool.Pool

	auth    *authapi.Handler
	admins  *identityapi.Handler
	content *contentapi.Handler

	sweeper *session.Sweeper
}

// New constructs a fully wired App instance from config and logger.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel)
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("app: STORE_DATABASE_URL is required")
	}

	pool, err := NewDBPool(context.Background(), cfg, log)
	if err != nil {
		return nil, err
	}

	a, err := build(cfg, log, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return a, nil
}

func build(cfg Config, log Logger, pool *pgxpool.Pool) (*App, error) {
	accounts, err := identity.NewPostgresStore(pool)
	if err != nil {
		return nil, err
	}

	sessCfg, err := session.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	tokens, err := session.NewPasetoV4PublicManager(sessCfg)
	if err != nil {
		return nil, err
	}
	sessStore, err := session.NewPostgresStore(pool)
	if err != nil {
		return nil, err
	}
	sessions, err := session.NewService(sessCfg, log, accounts, sessStore, tokens)
	if err != nil {
		return nil, err
	}

	authHandler, err := authapi.NewHandler(log, sessions, accounts, cfg.TrustProxy)
	if err != nil {
		return nil, err
	}
	adminHandler, err := identityapi.NewHandler(log, accounts, authHandler.RequireToken)
	if err != nil {
		return nil, err
	}

	contentStore, err := content.NewPostgresStore(pool)
	if err != nil {
		return nil, err
	}
	contentHandler, err := contentapi.NewHandler(log, contentStore, authHandler.RequireToken, cfg.ContactDailyLimit, cfg.TrustProxy)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:     cfg,
		log:     log,
		dbPool:  pool,
		auth:    authHandler,
		admins:  adminHandler,
		content: contentHandler,
		sweeper: session.NewSweeper(sessions, log),
	}, nil
}

// Run starts the session sweeper and the HTTP server, then blocks until
// context cancellation or a fatal server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.dbPool, a.auth, a.admins, a.content)

	handler := cors.Handler(cors.Options{
		AllowedOrigins:   a.cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "x-api-key"},
		AllowCredentials: true,
		MaxAge:           300,
	})(WithAPIKey(mux, a.cfg.APIKey))

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           WithRequestLogging(handler, a.log),
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.sweeper.Start(ctx)

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		runErr = err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		if runErr == nil {
			runErr = err
		}
	}

	a.sweeper.Stop()
	a.dbPool.Close()

	a.log.Info("server.stopped")
	return runErr
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
