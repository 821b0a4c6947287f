package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/beejsebazaar/advisor/internal/infra/config"
)

const shutdownGrace = 10 * time.Second

// App owns the advisor HTTP server lifecycle.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server}
}

// Run binds the listener, serves until ctx is cancelled, then drains
// in-flight requests for up to shutdownGrace. A bind failure is returned
// before anything is served.
func (a *App) Run(ctx context.Context) error {
	a.logCapabilities()

	listener, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.server.Addr, err)
	}
	a.logger.Info("http server listening", "address", listener.Addr().String())

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- a.server.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return a.shutdown()
	}
}

func (a *App) shutdown() error {
	a.logger.Info("shutdown signal received", "grace", shutdownGrace.String())
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	a.logger.Info("http server stopped")
	return nil
}

// logCapabilities records which credential-dependent actions will answer
// config_missing, so a half-configured deploy is visible at startup.
func (a *App) logCapabilities() {
	caps := a.cfg.Capabilities()
	a.logger.Info("capabilities",
		"generation", caps.Generation,
		"weather", caps.Weather,
		"contact", caps.Contact,
		"auth", caps.Auth,
		"llm_provider", a.cfg.LLM.Provider,
		"relay", a.cfg.Relay.Provider,
	)
}
