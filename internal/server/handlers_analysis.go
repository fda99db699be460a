package server

import (
	"net/http"
	"strings"
)

// handleAnalysis handles GET /api/analysis/{symbol}.
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol = strings.ToUpper(symbol)
	record, err := s.app.AnalysisService.Analyze(r.Context(), symbol)
	if err != nil {
		if strings.Contains(err.Error(), "no data available") {
			WriteError(w, http.StatusNotFound, "No data available for "+symbol)
			return
		}
		s.logger.Error().Str("symbol", symbol).Err(err).Msg("Analysis failed")
		WriteError(w, http.StatusBadGateway, "Analysis failed for "+symbol)
		return
	}

	WriteJSON(w, http.StatusOK, record)
}

// handleAnalysisChart handles GET /api/analysis/{symbol}/chart.png.
func (s *Server) handleAnalysisChart(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol = strings.ToUpper(symbol)
	png, err := s.app.AnalysisService.RenderChart(r.Context(), symbol)
	if err != nil {
		if strings.Contains(err.Error(), "no data available") {
			WriteError(w, http.StatusNotFound, "No data available for "+symbol)
			return
		}
		s.logger.Error().Str("symbol", symbol).Err(err).Msg("Chart render failed")
		WriteError(w, http.StatusBadGateway, "Chart render failed for "+symbol)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
