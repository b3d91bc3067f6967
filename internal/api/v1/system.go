package v1

import (
	"context"
	"net/http"
	"time"
)

const pingTimeout = 5 * time.Second

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Status:  "ok",
		Version: s.deps.Version,
		Today:   s.deps.Listings.Today(),
		Store:   storeStatus{Driver: s.deps.Driver, Reachable: true},
	}
	if s.deps.Breaker != nil {
		resp.Store.Breaker = s.deps.Breaker.State()
	}

	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()
	if err := s.deps.Store.Ping(ctx); err != nil {
		s.logger.Warn("store ping failed", "error", err)
		resp.Status = "degraded"
		resp.Store.Reachable = false
		resp.Store.Error = err.Error()
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) invalidatePerformances(w http.ResponseWriter, r *http.Request) {
	s.deps.Listings.InvalidatePerformanceCache()
	s.logger.Info("performance cache invalidated", "remote", r.RemoteAddr)
	writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}
