// Package store defines the read-only boundary to the movie, schedule and venue records.
package store

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/vmunix/vkine/internal/store Store

import (
	"context"

	"github.com/vmunix/vkine/internal/catalog"
)

// Store reads catalog records. Implementations never mutate what they return
// after handing it out; callers own the returned slices.
type Store interface {
	// Movies returns movies by id set, or the page [Offset, Offset+Limit) in catalog order
	// when IDs is empty.
	Movies(ctx context.Context, f MovieFilter) ([]catalog.Movie, error)

	// SearchMovies returns up to limit movies where every token occurs in a searchable field.
	// Matching ignores case and diacritics.
	SearchMovies(ctx context.Context, tokens []string, limit int) ([]catalog.Movie, error)

	// CountMovies returns the catalog size.
	CountMovies(ctx context.Context) (int, error)

	// Schedules returns schedule entries matching f. Venues are not resolved.
	Schedules(ctx context.Context, f ScheduleFilter) ([]catalog.ScheduleEntry, error)

	// Venues returns venues by id, or all venues when IDs is empty.
	Venues(ctx context.Context, f VenueFilter) ([]catalog.Venue, error)

	// Premieres returns premieres dated on or after from.
	Premieres(ctx context.Context, from catalog.Date) ([]catalog.Premiere, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// MovieFilter selects movies. IDs takes precedence over Offset/Limit.
type MovieFilter struct {
	IDs    []int
	Offset int
	Limit  int // 0 = no limit
}

// ScheduleFilter selects schedule entries. Nil fields are unbounded.
type ScheduleFilter struct {
	From    *catalog.Date
	To      *catalog.Date
	MovieID *int
}

// Matches reports whether e satisfies f.
func (f ScheduleFilter) Matches(e catalog.ScheduleEntry) bool {
	if f.From != nil && e.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && e.Date.After(*f.To) {
		return false
	}
	if f.MovieID != nil && e.MovieID != *f.MovieID {
		return false
	}
	return true
}

// VenueFilter selects venues.
type VenueFilter struct {
	IDs []int
}
