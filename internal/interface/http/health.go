package http

import (
	"net/http"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves basic service information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ok(map[string]any{
		"service": s.config.Service,
		"version": s.config.Version,
	}))
}

// handleHealth reports that the process is serving. It does not call
// dependencies, so peers can use it as a cheap probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ok(map[string]string{
		"status":  "healthy",
		"service": s.config.Service,
	}))
}

// handleReady runs the registered dependency checks.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker == nil {
		writeJSON(w, http.StatusOK, ok(map[string]string{"status": "ready"}))
		return
	}

	status := s.deps.HealthChecker.Check(r.Context())
	if !status.Ready {
		writeJSON(w, http.StatusServiceUnavailable, Response{
			Success: false,
			Data:    status,
			Error:   &APIError{Code: "NOT_READY", Message: status.Message},
		})
		return
	}
	writeJSON(w, http.StatusOK, ok(status))
}

// handleLive handles the liveness probe endpoint.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ok(map[string]string{"status": "alive"}))
}

// handleNotFound answers unmatched paths with the JSON envelope.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSONError(w, http.StatusNotFound, codeNotFound, "no route for "+r.Method+" "+r.URL.Path, nil)
}
