package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	v1 "github.com/vmunix/vkine/internal/api/v1"
	"github.com/vmunix/vkine/internal/config"
	"github.com/vmunix/vkine/internal/listing"
	"github.com/vmunix/vkine/internal/server"
	"github.com/vmunix/vkine/internal/store"
	"github.com/vmunix/vkine/internal/store/mongo"
	"github.com/vmunix/vkine/internal/store/sqlite"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runServer(configPath string) error {
	if configPath == "" {
		p, err := config.Discover()
		if err != nil {
			return err
		}
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(context.Background()); err != nil {
			logger.Error("close store", "error", err)
		}
	}()

	b := cfg.Store.Breaker
	breaker := store.NewBreaker(backend, store.BreakerConfig{
		Enabled:      b.Enabled,
		MaxRequests:  b.MaxRequests,
		Interval:     b.Interval.Duration,
		Timeout:      b.Timeout.Duration,
		FailureRatio: b.FailureRatio,
		MinRequests:  b.MinRequests,
	}, logger)

	svc := listing.New(breaker, listingConfig(cfg, loc), logger)

	apiV1, err := v1.New(v1.ServerDeps{
		Listings:    svc,
		Store:       breaker,
		Breaker:     breaker,
		Driver:      cfg.Store.Driver,
		Version:     version,
		MaxPageSize: cfg.Listing.MaxPageSize,
	}, logger)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	apiV1.RegisterRoutes(mux)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	logger.Info("server starting",
		"addr", addr,
		"config", configPath,
		"driver", cfg.Store.Driver,
		"breaker", b.Enabled,
		"timezone", loc.String(),
		"log_level", cfg.Server.LogLevel,
	)

	runner := server.NewRunner(v1.LogRequests(mux, logger), svc, server.Config{Addr: addr}, logger)
	if err := runner.Run(ctx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func listingConfig(cfg *config.Config, loc *time.Location) listing.Config {
	lc := listing.DefaultConfig()
	lc.MovieCapacity = cfg.Cache.MovieCapacity
	lc.IndexCapacity = cfg.Cache.IndexCapacity
	lc.UpcomingTTL = cfg.Cache.UpcomingTTL.Duration
	lc.UpcomingCapacity = cfg.Cache.UpcomingCapacity
	lc.VenueTTL = cfg.Cache.VenueTTL.Duration
	lc.VenueCapacity = cfg.Cache.VenueCapacity
	lc.FetchTimeout = cfg.Store.FetchTimeout.Duration
	lc.SearchLimit = cfg.Listing.SearchLimit
	lc.MaxPageSize = cfg.Listing.MaxPageSize
	lc.Location = loc
	return lc
}

// openStore connects the configured backend.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	switch cfg.Store.Driver {
	case "mongo":
		db, err := mongo.Open(ctx, mongo.Config{
			URI:      cfg.Store.Mongo.URI,
			Database: cfg.Store.Mongo.Database,
		}, logger)
		if err != nil {
			return nil, err
		}
		return db, nil

	case "sqlite":
		path := cfg.Store.SQLite.Path
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		db, err := sqlite.Open(path, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Store.SQLite.Fixtures != "" {
			if err := loadFixtures(ctx, db, cfg.Store.SQLite.Fixtures); err != nil {
				_ = db.Close(ctx)
				return nil, err
			}
		}
		return db, nil

	default:
		return nil, fmt.Errorf("%w: %q", store.ErrUnknownDriver, cfg.Store.Driver)
	}
}

func loadFixtures(ctx context.Context, db *sqlite.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open fixtures: %w", err)
	}
	defer func() { _ = f.Close() }()
	return db.LoadFixtures(ctx, f)
}
