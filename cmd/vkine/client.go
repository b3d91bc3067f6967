package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/vkine/internal/catalog"
)

// Client wraps HTTP calls to the vkine server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new vkine API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) get(path string, params url.Values, result any) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	resp, err := c.httpClient.Get(target)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func (c *Client) post(path string, result any) error {
	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// API response types (mirror server types)

type MoviesResponse struct {
	Items   []catalog.Movie `json:"items"`
	Missing []int           `json:"missing,omitempty"`
}

type SearchResponse struct {
	Query string          `json:"query"`
	Items []catalog.Movie `json:"items"`
}

type SchedulesResponse struct {
	MovieID int                     `json:"movie_id,omitempty"`
	Date    *catalog.Date           `json:"date,omitempty"`
	Query   string                  `json:"query,omitempty"`
	Items   []catalog.ScheduleEntry `json:"items"`
}

type UpcomingResponse struct {
	IDs   []int         `json:"ids"`
	From  *catalog.Date `json:"from,omitempty"`
	To    *catalog.Date `json:"to,omitempty"`
	Skip  int           `json:"skip"`
	Limit int           `json:"limit"`
}

type VenuesResponse struct {
	Items []catalog.Venue `json:"items"`
}

type PremieresResponse struct {
	Items []catalog.Premiere `json:"items"`
}

type StatusResponse struct {
	Status  string       `json:"status"`
	Version string       `json:"version"`
	Today   catalog.Date `json:"today"`
	Store   struct {
		Driver    string `json:"driver,omitempty"`
		Reachable bool   `json:"reachable"`
		Error     string `json:"error,omitempty"`
		Breaker   string `json:"breaker,omitempty"`
	} `json:"store"`
}

// ScheduleQuery narrows a movie schedule or upcoming range request.
type ScheduleQuery struct {
	From     string // YYYY-MM-DD
	To       string
	TimeFrom string // HH:MM
}

func (q ScheduleQuery) values() url.Values {
	v := url.Values{}
	if q.From != "" {
		v.Set("from", q.From)
	}
	if q.To != "" {
		v.Set("to", q.To)
	}
	if q.TimeFrom != "" {
		v.Set("time_from", q.TimeFrom)
	}
	return v
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// Movies fetches movies by id.
func (c *Client) Movies(ids []int) (*MoviesResponse, error) {
	var resp MoviesResponse
	if err := c.get("/api/v1/movies", url.Values{"ids": {joinIDs(ids)}}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Search runs a free-text movie search.
func (c *Client) Search(query string, limit int) (*SearchResponse, error) {
	params := url.Values{"q": {query}}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var resp SearchResponse
	if err := c.get("/api/v1/movies/search", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MovieSchedules fetches upcoming showtimes for one movie.
func (c *Client) MovieSchedules(movieID int, q ScheduleQuery) (*SchedulesResponse, error) {
	var resp SchedulesResponse
	path := fmt.Sprintf("/api/v1/movies/%d/schedules", movieID)
	if err := c.get(path, q.values(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Upcoming pages through movies with upcoming showtimes. A query with From or
// To set uses the date-range endpoint.
func (c *Client) Upcoming(q ScheduleQuery, skip, limit int) (*UpcomingResponse, error) {
	path := "/api/v1/upcoming"
	if q.From != "" || q.To != "" {
		path = "/api/v1/upcoming/range"
	}
	params := q.values()
	if skip > 0 {
		params.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var resp UpcomingResponse
	if err := c.get(path, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Today fetches today's remaining showtimes, optionally filtered by query.
func (c *Client) Today(query string) (*SchedulesResponse, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	var resp SchedulesResponse
	if err := c.get("/api/v1/schedules/today", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Venues fetches venues by id.
func (c *Client) Venues(ids []int) (*VenuesResponse, error) {
	var resp VenuesResponse
	if err := c.get("/api/v1/venues", url.Values{"ids": {joinIDs(ids)}}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Premieres fetches upcoming premieres.
func (c *Client) Premieres() (*PremieresResponse, error) {
	var resp PremieresResponse
	if err := c.get("/api/v1/premieres", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status fetches server and store health.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get("/api/v1/status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// InvalidatePerformances drops the server's cached day of showtimes.
func (c *Client) InvalidatePerformances() error {
	return c.post("/api/v1/cache/performances/invalidate", nil)
}

// titles resolves movie titles for display; failures fall back to ids.
func (c *Client) titles(ids []int) map[int]string {
	out := make(map[int]string, len(ids))
	if len(ids) == 0 {
		return out
	}
	resp, err := c.Movies(ids)
	if err != nil {
		return out
	}
	for _, m := range resp.Items {
		out[m.ID] = m.Title
	}
	return out
}
