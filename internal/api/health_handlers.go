package api

import "net/http"

// handleHealth is a liveness probe for the UI shell: the companion process
// is up and serving.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
