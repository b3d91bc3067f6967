package listing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/vkine/internal/catalog"
	"github.com/vmunix/vkine/internal/store"
	"github.com/vmunix/vkine/internal/store/sqlite"
)

func TestIntegration_SQLiteStore(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(":memory:", testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(ctx) })

	tx, err := db.Begin(ctx)
	require.NoError(t, err)
	for _, m := range []catalog.Movie{
		{ID: 42, Title: "Alien: Covenant", Cast: []string{"Michael Fassbender"}},
		{ID: 7, Title: "Aliens", Synopsis: "Ripley returns"},
	} {
		require.NoError(t, tx.PutMovie(ctx, m))
	}
	require.NoError(t, tx.PutVenue(ctx, catalog.Venue{ID: 1, Name: "Lucerna", City: "Praha"}))
	for _, e := range []catalog.ScheduleEntry{
		{Date: today, MovieID: 42, MovieTitle: "Alien: Covenant", Performances: []catalog.Performance{
			{VenueID: 1, Showtimes: []catalog.Showtime{{StartAt: catalog.NewTimeOfDay(10, 0)}}},
		}},
		{Date: tomorrow, MovieID: 42, MovieTitle: "Alien: Covenant", Performances: []catalog.Performance{
			{VenueID: 1, Showtimes: []catalog.Showtime{{StartAt: catalog.NewTimeOfDay(20, 0)}}},
		}},
		{Date: today, MovieID: 7, MovieTitle: "Aliens", Performances: []catalog.Performance{
			{VenueID: 1, Showtimes: []catalog.Showtime{{StartAt: catalog.NewTimeOfDay(16, 0)}}},
		}},
	} {
		require.NoError(t, tx.PutSchedule(ctx, e))
	}
	require.NoError(t, tx.Commit())

	svc := New(store.NewBreaker(db, store.DefaultBreakerConfig(), testLogger()), testConfig(), testLogger())

	assert.Equal(t, []int{7, 42}, svc.MovieIDsInDateRange(ctx, today, tomorrow, nil, 0, 0))

	found := svc.SearchMovies(ctx, "alien covenant", 10)
	require.Len(t, found, 1)
	assert.Equal(t, 42, found[0].ID)
	assert.Empty(t, svc.SearchMovies(ctx, "zzzznotfound", 10))

	sched := svc.UpcomingSchedulesForMovie(ctx, 42, DateRange{}, nil)
	require.Len(t, sched, 1, "today's 10:00 showing has passed")
	assert.Equal(t, tomorrow, sched[0].Date)
	assert.Equal(t, "Lucerna", sched[0].Performances[0].Venue.Name)

	todays := svc.TodaysSchedules(ctx)
	require.Len(t, todays, 1)
	assert.Equal(t, 7, todays[0].MovieID)

	page := svc.MoviesByIndexRange(ctx, 0, 5)
	require.Len(t, page, 2)
	assert.Equal(t, 42, page[0].ID)
	assert.Equal(t, 2, svc.TotalMovieCount(ctx))
}
