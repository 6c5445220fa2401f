package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"SalesPulse/internal/service/ratelimit"
	pkgcache "SalesPulse/pkg/cache"
	pkgch "SalesPulse/pkg/clickhouse"
	"SalesPulse/pkg/config"
	xhttp "SalesPulse/pkg/http"
	applogger "SalesPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	chClient   *pkgch.Client
	cache      pkgcache.Service
	handler    xhttp.Handler
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	chClient *pkgch.Client,
	cache pkgcache.Service,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		chClient: chClient,
		cache:    cache,
		handler:  handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var extra []echo.MiddlewareFunc
	if a.cfg.Server.RateLimit.Enabled {
		extra = append(extra, ratelimit.Middleware(
			ratelimit.New(),
			a.cfg.Server.RateLimit.Capacity,
			a.cfg.Server.RateLimit.RefillPerSec,
		))
	}

	a.httpServer = xhttp.NewServer(a.handler, a.log,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMiddleware(extra...),
	)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown", applogger.Error(err))
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("cache close", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
