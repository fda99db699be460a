package server

import (
	"net/http"
)

// handleMorningScan handles GET /api/scan/morning.
func (s *Server) handleMorningScan(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	resp, err := s.app.ScanService.MorningScan(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Morning scan failed")
		WriteError(w, http.StatusInternalServerError, "Morning scan failed")
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}
