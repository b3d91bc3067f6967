// Package listing is the query façade consumed by the presentation layer.
//
// Every operation is idempotent and never returns an error: store failures are
// logged with the operation name and degrade to an empty result.
package listing

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/vmunix/vkine/internal/cache"
	"github.com/vmunix/vkine/internal/catalog"
	"github.com/vmunix/vkine/internal/metrics"
	"github.com/vmunix/vkine/internal/schedule"
	"github.com/vmunix/vkine/internal/store"
	"github.com/vmunix/vkine/pkg/textmatch"
)

// Config sizes the façade's caches.
type Config struct {
	MovieCapacity    int // id-keyed movie cache
	IndexCapacity    int // position-keyed movie cache
	UpcomingTTL      time.Duration
	UpcomingCapacity int
	VenueTTL         time.Duration
	VenueCapacity    int
	FetchTimeout     time.Duration
	SearchLimit      int
	MaxPageSize      int // upper bound on MoviesByIndexRange count
	Location         *time.Location
	Now              func() time.Time
}

// DefaultMaxPageSize bounds a single MoviesByIndexRange call.
const DefaultMaxPageSize = 200

// DefaultConfig returns production cache sizes.
func DefaultConfig() Config {
	return Config{
		MovieCapacity:    1000,
		IndexCapacity:    1000,
		UpcomingTTL:      5 * time.Minute,
		UpcomingCapacity: 256,
		VenueTTL:         time.Hour,
		VenueCapacity:    1024,
		FetchTimeout:     cache.DefaultFetchTimeout,
		SearchLimit:      50,
		MaxPageSize:      DefaultMaxPageSize,
		Location:         time.Local,
		Now:              time.Now,
	}
}

// DateRange bounds a schedule query. A zero From means today; a zero To is open-ended.
type DateRange struct {
	From catalog.Date
	To   catalog.Date
}

// Service answers listing queries through the caches.
type Service struct {
	store       store.Store
	movies      *cache.FIFO[catalog.Movie]
	index       *cache.FIFO[catalog.Movie]
	days        *cache.DayCache
	agg         *schedule.Aggregator
	venues      *expirable.LRU[int, catalog.Venue]
	premieres   *expirable.LRU[catalog.Date, []catalog.Premiere]
	searchLimit int
	maxPageSize int
	logger      *slog.Logger
}

// New wires the caches in front of st.
func New(st store.Store, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.VenueTTL <= 0 {
		cfg.VenueTTL = def.VenueTTL
	}
	if cfg.VenueCapacity <= 0 {
		cfg.VenueCapacity = def.VenueCapacity
	}
	if cfg.UpcomingTTL <= 0 {
		cfg.UpcomingTTL = def.UpcomingTTL
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = def.SearchLimit
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = def.MaxPageSize
	}
	if cfg.Location == nil {
		cfg.Location = def.Location
	}
	if cfg.Now == nil {
		cfg.Now = def.Now
	}

	return &Service{
		store:  st,
		movies: cache.NewFIFO[catalog.Movie]("movies_by_id", cfg.MovieCapacity).WithClone(catalog.Movie.Clone),
		index:  cache.NewFIFO[catalog.Movie]("movies_by_index", cfg.IndexCapacity).WithClone(catalog.Movie.Clone),
		days:   cache.NewDayCache(st, cfg.FetchTimeout, logger),
		agg: schedule.New(st, schedule.Config{
			TTL:          cfg.UpcomingTTL,
			Capacity:     cfg.UpcomingCapacity,
			FetchTimeout: cfg.FetchTimeout,
			Location:     cfg.Location,
			Now:          cfg.Now,
		}, logger),
		venues:      expirable.NewLRU[int, catalog.Venue](cfg.VenueCapacity, nil, cfg.VenueTTL),
		premieres:   expirable.NewLRU[catalog.Date, []catalog.Premiere](4, nil, cfg.UpcomingTTL),
		searchLimit: cfg.SearchLimit,
		maxPageSize: cfg.MaxPageSize,
		logger:      logger.With("component", "listing"),
	}
}

// degrade records a failed operation. Cancellations are expected and logged at debug.
func (s *Service) degrade(op string, err error, attrs ...any) {
	metrics.Degraded.WithLabelValues(op).Inc()
	args := append([]any{"operation", op, "error", err}, attrs...)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		s.logger.Debug("query abandoned", args...)
		return
	}
	s.logger.Error("query failed", args...)
}

// MoviesByIDs returns the movies with the given ids. Non-positive and duplicate
// ids are ignored; ids the store does not know are omitted.
func (s *Service) MoviesByIDs(ctx context.Context, ids []int) map[int]catalog.Movie {
	valid := make([]int, 0, len(ids))
	for _, id := range ids {
		if id > 0 {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return map[int]catalog.Movie{}
	}

	hits, misses := s.movies.Get(valid)
	if len(misses) == 0 {
		return hits
	}

	fetched, err := s.store.Movies(ctx, store.MovieFilter{IDs: misses})
	if err != nil {
		s.degrade("movies_by_ids", err, "ids", misses)
		return map[int]catalog.Movie{}
	}
	for _, m := range fetched {
		s.movies.Put(m.ID, m)
		hits[m.ID] = m
	}

	var missing []int
	for _, id := range misses {
		if _, ok := hits[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		s.logger.Warn("movies not found", "ids", missing)
	}
	return hits
}

// MoviesByIndexRange returns the movies at catalog positions [start, start+count).
// Positions past the end of the catalog are omitted. count is capped at the
// configured maximum page size.
func (s *Service) MoviesByIndexRange(ctx context.Context, start, count int) []catalog.Movie {
	if start < 0 || count <= 0 {
		return []catalog.Movie{}
	}
	count = min(count, s.maxPageSize)
	if start > math.MaxInt-count {
		return []catalog.Movie{}
	}
	keys := make([]int, count)
	for i := range keys {
		keys[i] = start + i
	}

	hits, misses := s.index.Get(keys)
	for _, r := range cache.BuildRanges(misses) {
		fetched, err := s.store.Movies(ctx, store.MovieFilter{Offset: r.Start, Limit: r.Count})
		if err != nil {
			s.degrade("movies_by_index_range", err, "start", r.Start, "count", r.Count)
			return []catalog.Movie{}
		}
		for i, m := range fetched {
			s.index.Put(r.Start+i, m)
			s.movies.Put(m.ID, m)
			hits[r.Start+i] = m
		}
	}

	out := make([]catalog.Movie, 0, len(hits))
	for _, k := range keys {
		if m, ok := hits[k]; ok {
			out = append(out, m)
		}
	}
	return out
}

// SearchMovies returns up to limit movies matching every whitespace-separated
// token of query. A non-positive limit uses the configured default.
func (s *Service) SearchMovies(ctx context.Context, query string, limit int) []catalog.Movie {
	tokens := textmatch.Tokenize(query)
	if len(tokens) == 0 {
		return []catalog.Movie{}
	}
	if limit <= 0 {
		limit = s.searchLimit
	}

	found, err := s.store.SearchMovies(ctx, tokens, limit)
	if err != nil {
		s.degrade("search_movies", err, "query", query)
		return []catalog.Movie{}
	}
	for _, m := range found {
		s.movies.Put(m.ID, m)
	}
	if len(found) > limit {
		found = found[:limit]
	}
	return found
}

// TotalMovieCount returns the catalog size, or 0 when the store fails.
func (s *Service) TotalMovieCount(ctx context.Context) int {
	n, err := s.store.CountMovies(ctx)
	if err != nil {
		s.degrade("total_movie_count", err)
		return 0
	}
	return n
}

// UpcomingSchedulesForMovie returns the movie's schedule within r, keeping
// showtimes from now on and at or after minTime. Single-day ranges are served
// from the day cache.
func (s *Service) UpcomingSchedulesForMovie(ctx context.Context, movieID int, r DateRange, minTime *catalog.TimeOfDay) []catalog.ScheduleEntry {
	if movieID <= 0 {
		return []catalog.ScheduleEntry{}
	}
	entries, err := s.movieSchedules(ctx, movieID, r)
	if err != nil {
		s.degrade("upcoming_schedules_for_movie", err, "movie_id", movieID, "from", r.From, "to", r.To)
		return []catalog.ScheduleEntry{}
	}
	return schedule.Upcoming(entries, s.agg.Window(minTime))
}

func (s *Service) movieSchedules(ctx context.Context, movieID int, r DateRange) ([]catalog.ScheduleEntry, error) {
	today := s.agg.Today()
	from := r.From
	if from.IsZero() || from.Before(today) {
		from = today
	}
	if !r.To.IsZero() && r.To.Before(from) {
		return nil, nil
	}

	if from == r.To {
		day, err := s.days.Get(ctx, from)
		if err != nil {
			return nil, err
		}
		return slices.DeleteFunc(day, func(e catalog.ScheduleEntry) bool { return e.MovieID != movieID }), nil
	}

	f := store.ScheduleFilter{From: &from, MovieID: &movieID}
	if !r.To.IsZero() {
		f.To = &r.To
	}
	entries, err := s.store.Schedules(ctx, f)
	if err != nil {
		return nil, err
	}

	var venueIDs []int
	for _, e := range entries {
		for _, p := range e.Performances {
			venueIDs = append(venueIDs, p.VenueID)
		}
	}
	venues, err := s.venuesByIDs(ctx, venueIDs)
	if err != nil {
		return nil, err
	}
	list := make([]catalog.Venue, 0, len(venues))
	for _, v := range venues {
		list = append(list, v)
	}
	cache.AttachVenues(entries, list)
	return entries, nil
}

// VenuesByIDs returns venues by id. Unknown ids are omitted.
func (s *Service) VenuesByIDs(ctx context.Context, ids []int) map[int]catalog.Venue {
	venues, err := s.venuesByIDs(ctx, ids)
	if err != nil {
		s.degrade("venues_by_ids", err, "ids", ids)
		return map[int]catalog.Venue{}
	}
	return venues
}

func (s *Service) venuesByIDs(ctx context.Context, ids []int) (map[int]catalog.Venue, error) {
	out := make(map[int]catalog.Venue, len(ids))
	var misses []int
	for _, id := range ids {
		if _, seen := out[id]; seen || id <= 0 {
			continue
		}
		if v, ok := s.venues.Get(id); ok {
			out[id] = v
			continue
		}
		misses = append(misses, id)
	}
	slices.Sort(misses)
	misses = slices.Compact(misses)
	if len(misses) == 0 {
		return out, nil
	}

	fetched, err := s.store.Venues(ctx, store.VenueFilter{IDs: misses})
	if err != nil {
		return nil, err
	}
	for _, v := range fetched {
		s.venues.Add(v.ID, v)
		out[v.ID] = v
	}
	return out, nil
}

// UpcomingMovieIDs pages through movies with upcoming showtimes, ordered by
// earliest showtime.
func (s *Service) UpcomingMovieIDs(ctx context.Context, skip, limit int, minTime *catalog.TimeOfDay) []int {
	ids, err := s.agg.AllUpcoming(ctx, minTime)
	if err != nil {
		s.degrade("upcoming_movie_ids", err, "skip", skip, "limit", limit)
		return []int{}
	}
	return schedule.Page(ids, skip, limit)
}

// MovieIDsInDateRange pages through movies with a qualifying showtime dated
// within [from, to], ordered by earliest showtime.
func (s *Service) MovieIDsInDateRange(ctx context.Context, from, to catalog.Date, minTime *catalog.TimeOfDay, skip, limit int) []int {
	if to.Before(from) {
		return []int{}
	}
	ids, err := s.agg.IDsInRange(ctx, from, to, minTime)
	if err != nil {
		s.degrade("movie_ids_in_date_range", err, "from", from, "to", to)
		return []int{}
	}
	return schedule.Page(ids, skip, limit)
}

// AllUpcomingMovieIDs returns the set of movies with any upcoming showtime.
func (s *Service) AllUpcomingMovieIDs(ctx context.Context) map[int]struct{} {
	ids, err := s.agg.AllUpcoming(ctx, nil)
	if err != nil {
		s.degrade("all_upcoming_movie_ids", err)
		return map[int]struct{}{}
	}
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// TodaysSchedules returns today's remaining showtimes ordered by movie title.
func (s *Service) TodaysSchedules(ctx context.Context) []catalog.ScheduleEntry {
	today := s.agg.Today()
	day, err := s.days.Get(ctx, today)
	if err != nil {
		s.degrade("todays_schedules", err, "date", today)
		return []catalog.ScheduleEntry{}
	}
	entries := schedule.Upcoming(day, s.agg.Window(nil))

	col := collate.New(language.Czech, collate.IgnoreCase)
	slices.SortStableFunc(entries, func(a, b catalog.ScheduleEntry) int {
		return col.CompareString(a.MovieTitle, b.MovieTitle)
	})
	return entries
}

// SearchTodaysSchedules filters TodaysSchedules by query.
func (s *Service) SearchTodaysSchedules(ctx context.Context, query string) []catalog.ScheduleEntry {
	return schedule.MatchQuery(s.TodaysSchedules(ctx), query)
}

// UpcomingPremieres returns premieres dated today or later, ascending by date.
func (s *Service) UpcomingPremieres(ctx context.Context) []catalog.Premiere {
	today := s.agg.Today()
	if p, ok := s.premieres.Get(today); ok {
		metrics.Hit("premieres")
		return slices.Clone(p)
	}
	metrics.Miss("premieres")

	p, err := s.store.Premieres(ctx, today)
	if err != nil {
		s.degrade("upcoming_premieres", err, "from", today)
		return []catalog.Premiere{}
	}
	if p == nil {
		p = []catalog.Premiere{}
	}
	slices.SortStableFunc(p, func(a, b catalog.Premiere) int { return a.Date.Compare(b.Date) })
	s.premieres.Add(today, p)
	s.logger.Info("loaded upcoming premieres", "count", len(p))
	return slices.Clone(p)
}

// InvalidatePerformanceCache drops the cached day of showtimes.
func (s *Service) InvalidatePerformanceCache() {
	s.days.Invalidate()
}

// Today returns the current date in the listings location.
func (s *Service) Today() catalog.Date {
	return s.agg.Today()
}
