// Package v1 implements the listings REST API.
package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vmunix/vkine/internal/catalog"
	"github.com/vmunix/vkine/internal/listing"
)

// Server is the v1 API server.
type Server struct {
	deps   ServerDeps
	logger *slog.Logger
}

// New creates a new v1 API server.
func New(deps ServerDeps, logger *slog.Logger) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingDependency, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Version == "" {
		deps.Version = "dev"
	}
	if deps.MaxPageSize <= 0 {
		deps.MaxPageSize = listing.DefaultMaxPageSize
	}
	return &Server{deps: deps, logger: logger.With("component", "api")}, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Movies
	mux.HandleFunc("GET /api/v1/movies", s.listMovies)
	mux.HandleFunc("GET /api/v1/movies/page", s.pageMovies)
	mux.HandleFunc("GET /api/v1/movies/search", s.searchMovies)
	mux.HandleFunc("GET /api/v1/movies/{id}/schedules", s.movieSchedules)

	// Upcoming
	mux.HandleFunc("GET /api/v1/upcoming", s.upcoming)
	mux.HandleFunc("GET /api/v1/upcoming/range", s.upcomingRange)
	mux.HandleFunc("GET /api/v1/premieres", s.premieres)

	// Schedules & venues
	mux.HandleFunc("GET /api/v1/schedules/today", s.todaysSchedules)
	mux.HandleFunc("GET /api/v1/venues", s.listVenues)

	// System
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
	mux.HandleFunc("POST /api/v1/cache/performances/invalidate", s.invalidatePerformances)
	mux.Handle("GET /metrics", promhttp.Handler())
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// pathID extracts a positive integer ID from the URL path.
func pathID(r *http.Request, name string) (int, error) {
	idStr := r.PathValue(name)
	if idStr == "" {
		return 0, fmt.Errorf("missing path parameter: %s", name)
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, idStr)
	}
	return id, nil
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// queryIDs parses a comma-separated id list such as "1,2,3".
func queryIDs(r *http.Request, name string) ([]int, error) {
	val := strings.TrimSpace(r.URL.Query().Get(name))
	if val == "" {
		return nil, nil
	}
	parts := strings.Split(val, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q in %s", p, name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// queryDate parses an optional YYYY-MM-DD date. A missing value yields the zero Date.
func queryDate(r *http.Request, name string) (catalog.Date, error) {
	val := r.URL.Query().Get(name)
	if val == "" {
		return catalog.Date{}, nil
	}
	d, err := catalog.ParseDate(val)
	if err != nil {
		return catalog.Date{}, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

// queryTime parses an optional HH:MM minimum showtime.
func queryTime(r *http.Request, name string) (*catalog.TimeOfDay, error) {
	val := r.URL.Query().Get(name)
	if val == "" {
		return nil, nil
	}
	t, err := catalog.ParseTimeOfDay(val)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &t, nil
}
