package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vmunix/vkine/internal/catalog"
	"github.com/vmunix/vkine/internal/metrics"
	"github.com/vmunix/vkine/internal/store"
)

const dayCacheName = "performances"

// DefaultFetchTimeout bounds a shared day fetch.
const DefaultFetchTimeout = 30 * time.Second

// DaySource is the part of store.Store a DayCache reads from.
type DaySource interface {
	Schedules(ctx context.Context, f store.ScheduleFilter) ([]catalog.ScheduleEntry, error)
	Venues(ctx context.Context, f store.VenueFilter) ([]catalog.Venue, error)
}

// DayCache caches every schedule entry of a single date with venues attached.
//
// Fetches are coalesced per date. The one cached slot holds whichever day's
// fetch completed last. Invalidate bumps a generation: fetches started before
// it cannot repopulate the slot and later callers start fresh fetches.
type DayCache struct {
	src          DaySource
	fetchTimeout time.Duration
	logger       *slog.Logger
	group        singleflight.Group

	mu      sync.Mutex
	gen     uint64
	valid   bool
	date    catalog.Date
	entries []catalog.ScheduleEntry
}

// NewDayCache returns an empty DayCache. A non-positive fetchTimeout uses DefaultFetchTimeout.
func NewDayCache(src DaySource, fetchTimeout time.Duration, logger *slog.Logger) *DayCache {
	if logger == nil {
		logger = slog.Default()
	}
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &DayCache{
		src:          src,
		fetchTimeout: fetchTimeout,
		logger:       logger.With("component", "day-cache"),
	}
}

// Get returns a deep copy of the schedule entries for date.
// A cancelled ctx abandons the wait; the shared fetch keeps running for other callers.
func (c *DayCache) Get(ctx context.Context, date catalog.Date) ([]catalog.ScheduleEntry, error) {
	c.mu.Lock()
	if c.valid && c.date == date {
		entries := cloneEntries(c.entries)
		c.mu.Unlock()
		metrics.Hit(dayCacheName)
		c.logger.Debug("cache hit", "date", date)
		return entries, nil
	}
	gen := c.gen
	c.mu.Unlock()

	metrics.Miss(dayCacheName)
	c.logger.Debug("cache miss", "date", date)

	key := fmt.Sprintf("%s#%d", date, gen)
	ch := c.group.DoChan(key, func() (any, error) {
		return c.load(ctx, date, gen)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			metrics.CoalescedFetches.WithLabelValues(dayCacheName).Inc()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return cloneEntries(res.Val.([]catalog.ScheduleEntry)), nil
	}
}

// Invalidate drops the cached day and detaches in-flight fetches from the slot.
func (c *DayCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.valid = false
	c.entries = nil
	c.logger.Info("performance cache invalidated")
}

// Cached reports the currently cached date, if any.
func (c *DayCache) Cached() (catalog.Date, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.date, c.valid
}

func (c *DayCache) load(callerCtx context.Context, date catalog.Date, gen uint64) ([]catalog.ScheduleEntry, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(callerCtx), c.fetchTimeout)
	defer cancel()

	start := time.Now()
	entries, err := c.src.Schedules(ctx, store.ScheduleFilter{From: &date, To: &date})
	if err != nil {
		return nil, fmt.Errorf("load schedules for %s: %w", date, err)
	}
	venues, err := c.src.Venues(ctx, store.VenueFilter{})
	if err != nil {
		return nil, fmt.Errorf("load venues for %s: %w", date, err)
	}
	AttachVenues(entries, venues)

	c.mu.Lock()
	stored := c.gen == gen
	if stored {
		c.valid = true
		c.date = date
		c.entries = entries
	}
	c.mu.Unlock()

	c.logger.Info("loaded day",
		"date", date,
		"entries", len(entries),
		"venues", len(venues),
		"stored", stored,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return entries, nil
}

// AttachVenues resolves each performance's venue by id. Unknown ids leave Venue nil.
func AttachVenues(entries []catalog.ScheduleEntry, venues []catalog.Venue) {
	byID := make(map[int]*catalog.Venue, len(venues))
	for i := range venues {
		byID[venues[i].ID] = &venues[i]
	}
	for i := range entries {
		for j := range entries[i].Performances {
			p := &entries[i].Performances[j]
			p.Venue = byID[p.VenueID]
		}
	}
}

func cloneEntries(entries []catalog.ScheduleEntry) []catalog.ScheduleEntry {
	out := make([]catalog.ScheduleEntry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}
