package v1

import (
	"net/http"
	"slices"

	"github.com/vmunix/vkine/internal/catalog"
	"github.com/vmunix/vkine/internal/listing"
)

func (s *Server) listMovies(w http.ResponseWriter, r *http.Request) {
	ids, err := queryIDs(r, "ids")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_IDS", err.Error())
		return
	}

	found := s.deps.Listings.MoviesByIDs(r.Context(), ids)

	resp := moviesResponse{Items: make([]catalog.Movie, 0, len(found))}
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if m, ok := found[id]; ok {
			resp.Items = append(resp.Items, m)
		} else {
			resp.Missing = append(resp.Missing, id)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) pageMovies(w http.ResponseWriter, r *http.Request) {
	start := queryInt(r, "start", 0)
	count := queryInt(r, "count", 20)
	if start < 0 || count < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_RANGE", "start and count must not be negative")
		return
	}
	count = min(count, s.deps.MaxPageSize)

	ctx := r.Context()
	writeJSON(w, http.StatusOK, moviePageResponse{
		Items: s.deps.Listings.MoviesByIndexRange(ctx, start, count),
		Start: start,
		Count: count,
		Total: s.deps.Listings.TotalMovieCount(ctx),
	})
}

func (s *Server) searchMovies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit := queryInt(r, "limit", 0)

	writeJSON(w, http.StatusOK, searchResponse{
		Query: q,
		Items: s.deps.Listings.SearchMovies(r.Context(), q, limit),
	})
}

func (s *Server) movieSchedules(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	from, err := queryDate(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_DATE", err.Error())
		return
	}
	to, err := queryDate(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_DATE", err.Error())
		return
	}
	minTime, err := queryTime(r, "time_from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_TIME", err.Error())
		return
	}

	entries := s.deps.Listings.UpcomingSchedulesForMovie(r.Context(), id, listing.DateRange{From: from, To: to}, minTime)
	writeJSON(w, http.StatusOK, schedulesResponse{MovieID: id, Items: entries})
}

func (s *Server) listVenues(w http.ResponseWriter, r *http.Request) {
	ids, err := queryIDs(r, "ids")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_IDS", err.Error())
		return
	}

	found := s.deps.Listings.VenuesByIDs(r.Context(), ids)
	resp := venuesResponse{Items: make([]catalog.Venue, 0, len(found))}
	for _, v := range found {
		resp.Items = append(resp.Items, v)
	}
	slices.SortFunc(resp.Items, func(a, b catalog.Venue) int { return a.ID - b.ID })
	writeJSON(w, http.StatusOK, resp)
}
