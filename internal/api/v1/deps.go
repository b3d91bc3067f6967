package v1

import (
	"context"
	"errors"

	"github.com/vmunix/vkine/internal/catalog"
	"github.com/vmunix/vkine/internal/listing"
)

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// Listings is the query surface served by the API. *listing.Service implements it.
type Listings interface {
	MoviesByIDs(ctx context.Context, ids []int) map[int]catalog.Movie
	MoviesByIndexRange(ctx context.Context, start, count int) []catalog.Movie
	SearchMovies(ctx context.Context, query string, limit int) []catalog.Movie
	TotalMovieCount(ctx context.Context) int
	UpcomingSchedulesForMovie(ctx context.Context, movieID int, r listing.DateRange, minTime *catalog.TimeOfDay) []catalog.ScheduleEntry
	VenuesByIDs(ctx context.Context, ids []int) map[int]catalog.Venue
	UpcomingMovieIDs(ctx context.Context, skip, limit int, minTime *catalog.TimeOfDay) []int
	MovieIDsInDateRange(ctx context.Context, from, to catalog.Date, minTime *catalog.TimeOfDay, skip, limit int) []int
	TodaysSchedules(ctx context.Context) []catalog.ScheduleEntry
	SearchTodaysSchedules(ctx context.Context, query string) []catalog.ScheduleEntry
	UpcomingPremieres(ctx context.Context) []catalog.Premiere
	InvalidatePerformanceCache()
	Today() catalog.Date
}

// StoreProbe checks that the backing store is reachable.
type StoreProbe interface {
	Ping(ctx context.Context) error
}

// BreakerStater reports the circuit breaker state in front of the store.
type BreakerStater interface {
	State() string
}

// ServerDeps contains all dependencies for the API server.
type ServerDeps struct {
	// Required
	Listings Listings
	Store    StoreProbe

	// Optional
	Breaker     BreakerStater
	Driver      string
	Version     string
	MaxPageSize int // cap on /movies/page count; 0 uses listing.DefaultMaxPageSize
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Listings == nil {
		return errors.New("listings service is required")
	}
	if d.Store == nil {
		return errors.New("store probe is required")
	}
	return nil
}
