package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/vmunix/vkine/internal/catalog"
	"github.com/vmunix/vkine/internal/metrics"
	"github.com/vmunix/vkine/internal/store"
)

const cacheName = "upcoming"

// Source is the part of store.Store the Aggregator reads from.
type Source interface {
	Schedules(ctx context.Context, f store.ScheduleFilter) ([]catalog.ScheduleEntry, error)
}

// Config configures an Aggregator.
type Config struct {
	TTL          time.Duration // result lifetime, default 5m
	Capacity     int           // cached result lists, default 256
	FetchTimeout time.Duration // bound on a shared store fetch, default 30s
	Location     *time.Location
	Now          func() time.Time
}

// Aggregator orders movies by their earliest upcoming showtime.
// Results are cached for TTL and are not invalidated by new data.
type Aggregator struct {
	src          Source
	loc          *time.Location
	now          func() time.Time
	fetchTimeout time.Duration
	cache        *expirable.LRU[string, []int]
	group        singleflight.Group
	logger       *slog.Logger
}

// New returns an Aggregator reading from src.
func New(src Source, cfg Config, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = 256
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Aggregator{
		src:          src,
		loc:          cfg.Location,
		now:          cfg.Now,
		fetchTimeout: cfg.FetchTimeout,
		cache:        expirable.NewLRU[string, []int](cfg.Capacity, nil, cfg.TTL),
		logger:       logger.With("component", "aggregator"),
	}
}

// Today returns the current date in the aggregator's location.
func (a *Aggregator) Today() catalog.Date {
	return catalog.DateOf(a.now().In(a.loc))
}

// Window returns the showtime window starting now.
func (a *Aggregator) Window(minTime *catalog.TimeOfDay) Window {
	return Window{Now: a.now().In(a.loc), Location: a.loc, MinTime: minTime}
}

// IDsInRange returns ids of movies with a qualifying showtime dated within [from, to],
// ordered by earliest qualifying showtime.
func (a *Aggregator) IDsInRange(ctx context.Context, from, to catalog.Date, minTime *catalog.TimeOfDay) ([]int, error) {
	key := fmt.Sprintf("range|%s|%s|%s", from, to, minTimeKey(minTime))
	return a.cached(ctx, key, store.ScheduleFilter{From: &from, To: &to}, minTime)
}

// AllUpcoming returns ids of every movie with a qualifying showtime from today on.
func (a *Aggregator) AllUpcoming(ctx context.Context, minTime *catalog.TimeOfDay) ([]int, error) {
	today := a.Today()
	key := fmt.Sprintf("upcoming|%s|%s", today, minTimeKey(minTime))
	return a.cached(ctx, key, store.ScheduleFilter{From: &today}, minTime)
}

func (a *Aggregator) cached(ctx context.Context, key string, f store.ScheduleFilter, minTime *catalog.TimeOfDay) ([]int, error) {
	if ids, ok := a.cache.Get(key); ok {
		metrics.Hit(cacheName)
		a.logger.Debug("cache hit", "key", key)
		return slices.Clone(ids), nil
	}
	metrics.Miss(cacheName)
	a.logger.Debug("cache miss", "key", key)

	ch := a.group.DoChan(key, func() (any, error) {
		return a.compute(ctx, key, f, minTime)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			metrics.CoalescedFetches.WithLabelValues(cacheName).Inc()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]int)), nil
	}
}

// compute ignores cancellation of the caller that started it; only fetchTimeout bounds it.
func (a *Aggregator) compute(callerCtx context.Context, key string, f store.ScheduleFilter, minTime *catalog.TimeOfDay) ([]int, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(callerCtx), a.fetchTimeout)
	defer cancel()

	entries, err := a.src.Schedules(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", key, err)
	}
	ids := OrderByEarliest(Earliest(entries, a.Window(minTime)))
	a.cache.Add(key, ids)
	a.logger.Info("aggregated upcoming movies", "key", key, "entries", len(entries), "movies", len(ids))
	return ids, nil
}

// Purge drops every cached result.
func (a *Aggregator) Purge() {
	a.cache.Purge()
}

func minTimeKey(t *catalog.TimeOfDay) string {
	if t == nil {
		return "-"
	}
	return t.String()
}
