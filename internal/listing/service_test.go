package listing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/vkine/internal/catalog"
	"github.com/vmunix/vkine/internal/metrics"
	"github.com/vmunix/vkine/internal/store"
	"github.com/vmunix/vkine/internal/store/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var (
	prague   = time.FixedZone("CEST", 2*3600)
	today    = catalog.Date{Year: 2026, Month: time.October, Day: 16}
	tomorrow = today.AddDays(1)
	now      = today.At(catalog.NewTimeOfDay(15, 0), prague)
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Location = prague
	cfg.Now = func() time.Time { return now }
	return cfg
}

func newTestService(t *testing.T) (*Service, *mocks.MockStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	return New(st, testConfig(), testLogger()), st
}

func ptr[T any](v T) *T {
	return &v
}

func TestSearchMovies_AllTokens(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	covenant := catalog.Movie{ID: 1, Title: "Alien: Covenant"}

	st.EXPECT().SearchMovies(gomock.Any(), []string{"alien", "covenant"}, 50).Return([]catalog.Movie{covenant}, nil)
	st.EXPECT().SearchMovies(gomock.Any(), []string{"zzzznotfound"}, 5).Return(nil, nil)

	assert.Equal(t, []catalog.Movie{covenant}, svc.SearchMovies(ctx, "  alien   covenant ", 0))

	got := svc.SearchMovies(ctx, "zzzznotfound", 5)
	assert.Empty(t, got)

	assert.Empty(t, svc.SearchMovies(ctx, "   ", 10), "blank query never reaches the store")
}

func TestSearchMovies_StoreFailureDegrades(t *testing.T) {
	svc, st := newTestService(t)
	st.EXPECT().SearchMovies(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))
	before := testutil.ToFloat64(metrics.Degraded.WithLabelValues("search_movies"))

	got := svc.SearchMovies(context.Background(), "alien", 10)

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.Degraded.WithLabelValues("search_movies")))
}

func TestMoviesByIDs_CachesAndOmitsMissing(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	st.EXPECT().Movies(gomock.Any(), store.MovieFilter{IDs: []int{1, 2, 3}}).
		Return([]catalog.Movie{{ID: 1, Title: "A"}, {ID: 3, Title: "C"}}, nil)

	got := svc.MoviesByIDs(ctx, []int{3, 1, 2, 1, 0, -4})
	assert.Len(t, got, 2)
	assert.Equal(t, "A", got[1].Title)
	assert.Equal(t, "C", got[3].Title)

	st.EXPECT().Movies(gomock.Any(), store.MovieFilter{IDs: []int{2}}).Return(nil, nil)
	again := svc.MoviesByIDs(ctx, []int{1, 2, 3})
	assert.Len(t, again, 2, "1 and 3 from cache, 2 still missing")

	assert.Empty(t, svc.MoviesByIDs(ctx, []int{0, -1}))
}

func TestMoviesByIDs_StoreFailure(t *testing.T) {
	svc, st := newTestService(t)
	st.EXPECT().Movies(gomock.Any(), gomock.Any()).Return(nil, store.ErrUnavailable)

	got := svc.MoviesByIDs(context.Background(), []int{1})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMoviesByIndexRange_CoalescesMisses(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	movie := func(i int) catalog.Movie { return catalog.Movie{ID: 100 + i} }

	st.EXPECT().Movies(gomock.Any(), store.MovieFilter{Offset: 2, Limit: 2}).
		Return([]catalog.Movie{movie(2), movie(3)}, nil)
	first := svc.MoviesByIndexRange(ctx, 2, 2)
	require.Len(t, first, 2)

	gomock.InOrder(
		st.EXPECT().Movies(gomock.Any(), store.MovieFilter{Offset: 0, Limit: 2}).
			Return([]catalog.Movie{movie(0), movie(1)}, nil),
		st.EXPECT().Movies(gomock.Any(), store.MovieFilter{Offset: 4, Limit: 2}).
			Return([]catalog.Movie{movie(4)}, nil), // catalog ends at index 4
	)
	got := svc.MoviesByIndexRange(ctx, 0, 6)

	ids := make([]int, len(got))
	for i, m := range got {
		ids[i] = m.ID
	}
	assert.Equal(t, []int{100, 101, 102, 103, 104}, ids)

	// Fetched movies also populate the id cache.
	assert.Len(t, svc.MoviesByIDs(ctx, []int{100, 104}), 2)
}

func TestMoviesByIndexRange_InvalidArgs(t *testing.T) {
	svc, _ := newTestService(t)
	assert.Empty(t, svc.MoviesByIndexRange(context.Background(), -1, 5))
	assert.Empty(t, svc.MoviesByIndexRange(context.Background(), 0, 0))
}

func TestMoviesByIndexRange_CapsCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	cfg := testConfig()
	cfg.MaxPageSize = 3
	svc := New(st, cfg, testLogger())
	ctx := context.Background()

	st.EXPECT().Movies(gomock.Any(), store.MovieFilter{Offset: 0, Limit: 3}).
		Return([]catalog.Movie{{ID: 1}, {ID: 2}, {ID: 3}}, nil)
	assert.Len(t, svc.MoviesByIndexRange(ctx, 0, 1<<62), 3)

	assert.Empty(t, svc.MoviesByIndexRange(ctx, math.MaxInt-1, 3), "start+count overflows")
}

func TestUpcomingSchedulesForMovie_SingleDayUsesDayCache(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	st.EXPECT().Schedules(gomock.Any(), store.ScheduleFilter{From: &today, To: &today}).Return([]catalog.ScheduleEntry{
		{Date: today, MovieID: 42, Performances: []catalog.Performance{{VenueID: 1, Showtimes: []catalog.Showtime{
			{StartAt: catalog.NewTimeOfDay(10, 0)},
			{StartAt: catalog.NewTimeOfDay(20, 0)},
		}}}},
		{Date: today, MovieID: 7, Performances: []catalog.Performance{{VenueID: 1, Showtimes: []catalog.Showtime{
			{StartAt: catalog.NewTimeOfDay(16, 0)},
		}}}},
	}, nil).Times(1)
	st.EXPECT().Venues(gomock.Any(), store.VenueFilter{}).Return([]catalog.Venue{{ID: 1, Name: "Lucerna"}}, nil).Times(1)

	got := svc.UpcomingSchedulesForMovie(ctx, 42, DateRange{From: today, To: today}, nil)
	require.Len(t, got, 1)
	require.Len(t, got[0].Performances[0].Showtimes, 1)
	assert.Equal(t, catalog.NewTimeOfDay(20, 0), got[0].Performances[0].Showtimes[0].StartAt)
	assert.Equal(t, "Lucerna", got[0].Performances[0].Venue.Name)

	// Second movie on the same day is served from the cached day.
	seven := svc.UpcomingSchedulesForMovie(ctx, 7, DateRange{From: today, To: today}, nil)
	require.Len(t, seven, 1)

	evening := catalog.NewTimeOfDay(18, 0)
	assert.Empty(t, svc.UpcomingSchedulesForMovie(ctx, 7, DateRange{From: today, To: today}, &evening))
}

func TestUpcomingSchedulesForMovie_OpenRangeQueriesStore(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	st.EXPECT().Schedules(gomock.Any(), store.ScheduleFilter{From: &today, MovieID: ptr(42)}).Return([]catalog.ScheduleEntry{
		{Date: tomorrow, MovieID: 42, Performances: []catalog.Performance{
			{VenueID: 2, Showtimes: []catalog.Showtime{{StartAt: catalog.NewTimeOfDay(20, 0)}}},
		}},
		{Date: today, MovieID: 42, Performances: []catalog.Performance{
			{VenueID: 1, Showtimes: []catalog.Showtime{{StartAt: catalog.NewTimeOfDay(9, 0)}}},
			{VenueID: 2, Showtimes: []catalog.Showtime{{StartAt: catalog.NewTimeOfDay(17, 0)}}},
		}},
	}, nil)
	st.EXPECT().Venues(gomock.Any(), store.VenueFilter{IDs: []int{1, 2}}).
		Return([]catalog.Venue{{ID: 1, Name: "Lucerna"}, {ID: 2, Name: "Světozor"}}, nil)

	got := svc.UpcomingSchedulesForMovie(ctx, 42, DateRange{}, nil)

	require.Len(t, got, 2)
	assert.Equal(t, today, got[0].Date)
	require.Len(t, got[0].Performances, 1, "past-only performance pruned")
	assert.Equal(t, "Světozor", got[0].Performances[0].Venue.Name)
	assert.Equal(t, tomorrow, got[1].Date)

	// Venues are now cached.
	assert.Len(t, svc.VenuesByIDs(ctx, []int{2, 1}), 2)
}

func TestUpcomingSchedulesForMovie_Degrades(t *testing.T) {
	svc, st := newTestService(t)
	st.EXPECT().Schedules(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

	got := svc.UpcomingSchedulesForMovie(context.Background(), 42, DateRange{From: today, To: tomorrow}, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, svc.UpcomingSchedulesForMovie(context.Background(), 0, DateRange{}, nil))
}

func TestUpcomingMovieIDs_Paged(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	st.EXPECT().Schedules(gomock.Any(), store.ScheduleFilter{From: &today}).Return([]catalog.ScheduleEntry{
		{Date: today, MovieID: 42, Performances: []catalog.Performance{{Showtimes: []catalog.Showtime{{StartAt: catalog.NewTimeOfDay(10, 0)}}}}},
		{Date: tomorrow, MovieID: 42, Performances: []catalog.Performance{{Showtimes: []catalog.Showtime{{StartAt: catalog.NewTimeOfDay(20, 0)}}}}},
		{Date: today, MovieID: 7, Performances: []catalog.Performance{{Showtimes: []catalog.Showtime{{StartAt: catalog.NewTimeOfDay(16, 0)}}}}},
		{Date: tomorrow, MovieID: 3, Performances: []catalog.Performance{{Showtimes: []catalog.Showtime{{StartAt: catalog.NewTimeOfDay(12, 0)}}}}},
	}, nil).Times(1)

	assert.Equal(t, []int{7, 3}, svc.UpcomingMovieIDs(ctx, 0, 2, nil))
	assert.Equal(t, []int{42}, svc.UpcomingMovieIDs(ctx, 2, 2, nil))
	assert.Equal(t, map[int]struct{}{3: {}, 7: {}, 42: {}}, svc.AllUpcomingMovieIDs(ctx))
}

func TestMovieIDsInDateRange(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	st.EXPECT().Schedules(gomock.Any(), store.ScheduleFilter{From: &today, To: &tomorrow}).Return([]catalog.ScheduleEntry{
		{Date: today, MovieID: 42, Performances: []catalog.Performance{{Showtimes: []catalog.Showtime{{StartAt: catalog.NewTimeOfDay(10, 0)}}}}},
		{Date: tomorrow, MovieID: 42, Performances: []catalog.Performance{{Showtimes: []catalog.Showtime{{StartAt: catalog.NewTimeOfDay(20, 0)}}}}},
		{Date: today, MovieID: 7, Performances: []catalog.Performance{{Showtimes: []catalog.Showtime{{StartAt: catalog.NewTimeOfDay(16, 0)}}}}},
	}, nil)

	assert.Equal(t, []int{7, 42}, svc.MovieIDsInDateRange(ctx, today, tomorrow, nil, 0, 0))
	assert.Empty(t, svc.MovieIDsInDateRange(ctx, tomorrow, today, nil, 0, 10), "inverted range")
}

func TestTodaysSchedules_SortedByTitleAndSearchable(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	show := func(h int) []catalog.Performance {
		return []catalog.Performance{{VenueID: 1, Showtimes: []catalog.Showtime{{StartAt: catalog.NewTimeOfDay(h, 0)}}}}
	}
	st.EXPECT().Schedules(gomock.Any(), gomock.Any()).Return([]catalog.ScheduleEntry{
		{Date: today, MovieID: 1, MovieTitle: "Duna", Performances: show(20)},
		{Date: today, MovieID: 2, MovieTitle: "Čtvrtek", Performances: show(18)},
		{Date: today, MovieID: 3, MovieTitle: "Cesta", Performances: show(21)},
		{Date: today, MovieID: 4, MovieTitle: "Ráno", Performances: show(9)},
	}, nil).Times(1)
	st.EXPECT().Venues(gomock.Any(), gomock.Any()).Return([]catalog.Venue{{ID: 1, Name: "Lucerna"}}, nil).Times(1)

	got := svc.TodaysSchedules(ctx)
	titles := make([]string, len(got))
	for i, e := range got {
		titles[i] = e.MovieTitle
	}
	assert.Equal(t, []string{"Cesta", "Čtvrtek", "Duna"}, titles, "past-only entry dropped")

	assert.Len(t, svc.SearchTodaysSchedules(ctx, "lucerna"), 3)
	assert.Len(t, svc.SearchTodaysSchedules(ctx, "ctvrtek"), 1)
}

func TestInvalidatePerformanceCache(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	st.EXPECT().Schedules(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
	st.EXPECT().Venues(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)

	svc.TodaysSchedules(ctx)
	svc.TodaysSchedules(ctx)
	svc.InvalidatePerformanceCache()
	svc.TodaysSchedules(ctx)
}

func TestUpcomingPremieres_Cached(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	st.EXPECT().Premieres(gomock.Any(), today).Return([]catalog.Premiere{
		{MovieID: 2, Date: today.AddDays(5)},
		{MovieID: 1, Date: today},
	}, nil).Times(1)

	first := svc.UpcomingPremieres(ctx)
	second := svc.UpcomingPremieres(ctx)

	require.Len(t, first, 2)
	assert.Equal(t, 1, first[0].MovieID)
	assert.Equal(t, first, second)
}

func TestTotalMovieCount(t *testing.T) {
	svc, st := newTestService(t)
	st.EXPECT().CountMovies(gomock.Any()).Return(12, nil)
	st.EXPECT().CountMovies(gomock.Any()).Return(0, context.Canceled)

	assert.Equal(t, 12, svc.TotalMovieCount(context.Background()))
	assert.Zero(t, svc.TotalMovieCount(context.Background()))
}
