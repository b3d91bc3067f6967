// Package server runs the HTTP API and the day-rollover watcher.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/vkine/internal/catalog"
)

// Config for the server runner.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	RolloverCheck   time.Duration // how often to look for a new listings day
}

// DayTracker is the part of the listings service the rollover watcher needs.
type DayTracker interface {
	Today() catalog.Date
	InvalidatePerformanceCache()
}

// Runner manages the HTTP server and background jobs.
type Runner struct {
	handler  http.Handler
	days     DayTracker
	config   Config
	logger   *slog.Logger
	listenFn func(network, addr string) (net.Listener, error)
}

// NewRunner creates a new runner.
func NewRunner(handler http.Handler, days DayTracker, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if cfg.RolloverCheck <= 0 {
		cfg.RolloverCheck = time.Minute
	}
	return &Runner{
		handler:  handler,
		days:     days,
		config:   cfg,
		logger:   logger.With("component", "runner"),
		listenFn: net.Listen,
	}
}

// Run serves HTTP and watches for day rollover.
// It blocks until the context is canceled or a component fails.
func (r *Runner) Run(ctx context.Context) error {
	ln, err := r.listenFn("tcp", r.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", r.config.Addr, err)
	}
	srv := &http.Server{
		Handler:           r.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r.logger.Info("http server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		r.logger.Info("http server stopped")
		return nil
	})

	g.Go(func() error {
		r.watchRollover(ctx)
		return nil
	})

	return g.Wait()
}

// watchRollover invalidates the performance cache whenever the listings day changes.
func (r *Runner) watchRollover(ctx context.Context) {
	ticker := time.NewTicker(r.config.RolloverCheck)
	defer ticker.Stop()

	current := r.days.Today()
	r.logger.Info("rollover watcher started", "today", current, "interval", r.config.RolloverCheck)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("rollover watcher stopped")
			return
		case <-ticker.C:
			today := r.days.Today()
			if today == current {
				continue
			}
			r.logger.Info("day rolled over", "from", current, "to", today)
			r.days.InvalidatePerformanceCache()
			current = today
		}
	}
}
