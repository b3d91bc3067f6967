package v1

import (
	"net/http"
	"strings"
)

func (s *Server) upcoming(w http.ResponseWriter, r *http.Request) {
	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 0)
	minTime, err := queryTime(r, "time_from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_TIME", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, upcomingResponse{
		IDs:   s.deps.Listings.UpcomingMovieIDs(r.Context(), skip, limit, minTime),
		Skip:  skip,
		Limit: limit,
	})
}

// upcomingRange defaults from to today and to to from.
func (s *Server) upcomingRange(w http.ResponseWriter, r *http.Request) {
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
	if from.IsZero() {
		from = s.deps.Listings.Today()
	}
	if to.IsZero() {
		to = from
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "INVALID_RANGE", "to must not be before from")
		return
	}

	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 0)
	writeJSON(w, http.StatusOK, upcomingResponse{
		IDs:   s.deps.Listings.MovieIDsInDateRange(r.Context(), from, to, minTime, skip, limit),
		From:  &from,
		To:    &to,
		Skip:  skip,
		Limit: limit,
	})
}

func (s *Server) todaysSchedules(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	today := s.deps.Listings.Today()

	resp := schedulesResponse{Date: &today, Query: q}
	if q == "" {
		resp.Items = s.deps.Listings.TodaysSchedules(r.Context())
	} else {
		resp.Items = s.deps.Listings.SearchTodaysSchedules(r.Context(), q)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) premieres(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, premieresResponse{Items: s.deps.Listings.UpcomingPremieres(r.Context())})
}
