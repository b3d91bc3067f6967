package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/vmunix/vkine/internal/catalog"
	"github.com/vmunix/vkine/internal/metrics"
)

// BreakerConfig configures the store circuit breaker.
type BreakerConfig struct {
	Enabled      bool
	MaxRequests  uint32        // concurrent probes allowed while half-open
	Interval     time.Duration // closed-state count reset period
	Timeout      time.Duration // open-state duration before probing
	FailureRatio float64
	MinRequests  uint32
}

// DefaultBreakerConfig opens after 60% failures over at least 10 requests
// and probes again after 30 seconds.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Enabled:      true,
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		FailureRatio: 0.6,
		MinRequests:  10,
	}
}

// Breaker wraps a Store with a circuit breaker and query metrics.
// When the circuit is open calls fail fast with ErrUnavailable.
type Breaker struct {
	next   Store
	cb     *gobreaker.CircuitBreaker[any]
	name   string
	logger *slog.Logger
}

var _ Store = (*Breaker)(nil)

// NewBreaker wraps next. A disabled config still records metrics but never trips.
func NewBreaker(next Store, cfg BreakerConfig, logger *slog.Logger) *Breaker {
	if logger == nil {
		logger = slog.Default()
	}
	name := "store"
	b := &Breaker{
		next:   next,
		name:   name,
		logger: logger.With("component", "store-breaker"),
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	b.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if !cfg.Enabled || counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= cfg.FailureRatio {
				b.logger.Warn("opening circuit", "failures", counts.TotalFailures, "requests", counts.Requests)
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.logger.Warn("circuit state change", "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
		IsSuccessful: isSuccessful,
	})
	return b
}

// isSuccessful keeps caller cancellations and lookups of missing records from
// counting against the store.
func isSuccessful(err error) bool {
	return err == nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, ErrNotFound)
}

// State returns the current breaker state ("closed", "half-open", "open").
func (b *Breaker) State() string {
	return b.cb.State().String()
}

func run[T any](b *Breaker, op string, fn func() (T, error)) (T, error) {
	start := time.Now()
	res, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	metrics.ObserveStoreQuery(op, start, err)

	var zero T
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
		}
		return zero, err
	}
	typed, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("%s: unexpected result type %T", op, res)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func (b *Breaker) Movies(ctx context.Context, f MovieFilter) ([]catalog.Movie, error) {
	return run(b, "movies", func() ([]catalog.Movie, error) { return b.next.Movies(ctx, f) })
}

func (b *Breaker) SearchMovies(ctx context.Context, tokens []string, limit int) ([]catalog.Movie, error) {
	return run(b, "search_movies", func() ([]catalog.Movie, error) { return b.next.SearchMovies(ctx, tokens, limit) })
}

func (b *Breaker) CountMovies(ctx context.Context) (int, error) {
	return run(b, "count_movies", func() (int, error) { return b.next.CountMovies(ctx) })
}

func (b *Breaker) Schedules(ctx context.Context, f ScheduleFilter) ([]catalog.ScheduleEntry, error) {
	return run(b, "schedules", func() ([]catalog.ScheduleEntry, error) { return b.next.Schedules(ctx, f) })
}

func (b *Breaker) Venues(ctx context.Context, f VenueFilter) ([]catalog.Venue, error) {
	return run(b, "venues", func() ([]catalog.Venue, error) { return b.next.Venues(ctx, f) })
}

func (b *Breaker) Premieres(ctx context.Context, from catalog.Date) ([]catalog.Premiere, error) {
	return run(b, "premieres", func() ([]catalog.Premiere, error) { return b.next.Premieres(ctx, from) })
}

func (b *Breaker) Ping(ctx context.Context) error {
	_, err := run(b, "ping", func() (struct{}, error) { return struct{}{}, b.next.Ping(ctx) })
	return err
}

// Close closes the wrapped store without going through the breaker.
func (b *Breaker) Close(ctx context.Context) error {
	return b.next.Close(ctx)
}
