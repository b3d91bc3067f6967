package v1

import "github.com/vmunix/vkine/internal/catalog"

// moviesResponse is the response for GET /movies. Missing lists requested ids
// that are not in the catalog.
type moviesResponse struct {
	Items   []catalog.Movie `json:"items"`
	Missing []int           `json:"missing,omitempty"`
}

// moviePageResponse is the response for GET /movies/page.
type moviePageResponse struct {
	Items []catalog.Movie `json:"items"`
	Start int             `json:"start"`
	Count int             `json:"count"`
	Total int             `json:"total"`
}

// searchResponse is the response for GET /movies/search.
type searchResponse struct {
	Query string          `json:"query"`
	Items []catalog.Movie `json:"items"`
}

// schedulesResponse is the response for GET /movies/{id}/schedules and /schedules/today.
type schedulesResponse struct {
	MovieID int                     `json:"movie_id,omitempty"`
	Date    *catalog.Date           `json:"date,omitempty"`
	Query   string                  `json:"query,omitempty"`
	Items   []catalog.ScheduleEntry `json:"items"`
}

// upcomingResponse is the response for GET /upcoming and /upcoming/range.
type upcomingResponse struct {
	IDs   []int         `json:"ids"`
	From  *catalog.Date `json:"from,omitempty"`
	To    *catalog.Date `json:"to,omitempty"`
	Skip  int           `json:"skip"`
	Limit int           `json:"limit"`
}

// venuesResponse is the response for GET /venues.
type venuesResponse struct {
	Items []catalog.Venue `json:"items"`
}

// premieresResponse is the response for GET /premieres.
type premieresResponse struct {
	Items []catalog.Premiere `json:"items"`
}

// statusResponse is the response for GET /status.
type statusResponse struct {
	Status  string       `json:"status"` // ok or degraded
	Version string       `json:"version"`
	Today   catalog.Date `json:"today"`
	Store   storeStatus  `json:"store"`
}

type storeStatus struct {
	Driver    string `json:"driver,omitempty"`
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
	Breaker   string `json:"breaker,omitempty"`
}
