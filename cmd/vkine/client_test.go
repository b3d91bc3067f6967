package main

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/vkine/internal/catalog"
)

func TestClient_Movies(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/movies").
		ExpectGET().
		ExpectQuery(url.Values{"ids": {"42,7"}}).
		RespondJSON(MoviesResponse{
			Items:   []catalog.Movie{{ID: 42, Title: "Alien: Covenant"}},
			Missing: []int{7},
		}).
		Build()

	resp, err := NewClient(srv.URL + "/").Movies([]int{42, 7})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Alien: Covenant", resp.Items[0].Title)
	assert.Equal(t, []int{7}, resp.Missing)
}

func TestClient_Search(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/movies/search").
		ExpectQuery(url.Values{"q": {"alien covenant"}, "limit": {"5"}}).
		RespondJSON(SearchResponse{Query: "alien covenant", Items: []catalog.Movie{{ID: 42}}}).
		Build()

	resp, err := NewClient(srv.URL).Search("alien covenant", 5)
	require.NoError(t, err)
	assert.Len(t, resp.Items, 1)
}

func TestClient_MovieSchedules(t *testing.T) {
	day := catalog.Date{Year: 2026, Month: time.October, Day: 17}
	srv := newMockServer(t).
		ExpectPath("/api/v1/movies/42/schedules").
		ExpectQuery(url.Values{"from": {"2026-10-17"}, "time_from": {"18:00"}}).
		RespondJSON(SchedulesResponse{MovieID: 42, Items: []catalog.ScheduleEntry{
			{Date: day, MovieID: 42, Performances: []catalog.Performance{
				{VenueID: 2, Showtimes: []catalog.Showtime{{StartAt: catalog.NewTimeOfDay(20, 0)}}},
			}},
		}}).
		Build()

	resp, err := NewClient(srv.URL).MovieSchedules(42, ScheduleQuery{From: "2026-10-17", TimeFrom: "18:00"})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, day, resp.Items[0].Date)
	assert.Equal(t, catalog.NewTimeOfDay(20, 0), resp.Items[0].Performances[0].Showtimes[0].StartAt)
}

func TestClient_Upcoming_ChoosesEndpoint(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/upcoming").
		ExpectQuery(url.Values{"skip": {"10"}, "limit": {"5"}}).
		RespondJSON(UpcomingResponse{IDs: []int{3, 9}}).
		Build()

	resp, err := NewClient(srv.URL).Upcoming(ScheduleQuery{}, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 9}, resp.IDs)

	ranged := newMockServer(t).
		ExpectPath("/api/v1/upcoming/range").
		ExpectQuery(url.Values{"from": {"2026-10-16"}, "to": {"2026-10-17"}}).
		RespondJSON(UpcomingResponse{IDs: []int{7}}).
		Build()

	resp, err = NewClient(ranged.URL).Upcoming(ScheduleQuery{From: "2026-10-16", To: "2026-10-17"}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, resp.IDs)
}

func TestClient_Today(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/schedules/today").
		ExpectQuery(url.Values{"q": {"lucerna"}}).
		RespondJSON(SchedulesResponse{Items: []catalog.ScheduleEntry{{MovieID: 7}}}).
		Build()

	resp, err := NewClient(srv.URL).Today("lucerna")
	require.NoError(t, err)
	assert.Len(t, resp.Items, 1)
}

func TestClient_Status(t *testing.T) {
	var status StatusResponse
	status.Status = "degraded"
	status.Store.Reachable = false
	status.Store.Error = "connection refused"

	srv := newMockServer(t).
		ExpectPath("/api/v1/status").
		RespondJSON(status).
		Build()

	resp, err := NewClient(srv.URL).Status()
	require.NoError(t, err)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "connection refused", resp.Store.Error)
}

func TestClient_InvalidatePerformances(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/cache/performances/invalidate").
		ExpectPOST().
		RespondJSON(map[string]string{"status": "invalidated"}).
		Build()

	require.NoError(t, NewClient(srv.URL).InvalidatePerformances())
}

func TestClient_ServerError(t *testing.T) {
	srv := newMockServer(t).
		RespondError(http.StatusBadRequest, `{"error":"bad date","code":"INVALID_DATE"}`).
		Build()

	_, err := NewClient(srv.URL).Upcoming(ScheduleQuery{From: "x"}, 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server error 400")
	assert.Contains(t, err.Error(), "INVALID_DATE")
}

func TestClient_Titles_FallsBackOnError(t *testing.T) {
	srv := newMockServer(t).RespondError(http.StatusInternalServerError, "boom").Build()
	assert.Empty(t, NewClient(srv.URL).titles([]int{1}))
}
