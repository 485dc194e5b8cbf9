// Package app wires configuration, storage and HTTP into a runnable
// server.
package app

import (
	"context"
	"log/slog"
	"net/http"

	"timeclock-backend/internal/clock"
	"timeclock-backend/internal/config"
)

type App struct {
	httpServer *http.Server
	infra      *Infra
	logger     *slog.Logger
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	return NewWithClock(ctx, cfg, clock.Real(), logger)
}

// NewWithClock is New with an injected clock.
func NewWithClock(ctx context.Context, cfg config.Config, clk clock.Clock, logger *slog.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	infra, err := setupInfra(ctx, cfg, clk, logger)
	if err != nil {
		return nil, err
	}

	router := setupHTTP(infra, cfg, loc, clk, logger)

	return &App{
		httpServer: &http.Server{
			Addr:    cfg.Addr,
			Handler: router,
		},
		infra:  infra,
		logger: logger,
	}, nil
}

func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

func (a *App) Run() error {
	a.logger.Info("http server listening", "addr", a.httpServer.Addr)
	return a.httpServer.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	return a.infra.Close()
}
