package server

import (
	"net/http"
	"strings"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)

	// Auth
	mux.HandleFunc("/api/auth/register", s.handleAuthRegister)
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)

	// Analysis
	mux.HandleFunc("/api/analysis/", s.routeAnalysis)

	// Morning scan
	mux.HandleFunc("/api/scan/morning", s.handleMorningScan)

	// Portfolio (authenticated)
	mux.HandleFunc("/api/portfolio/summary", s.requireAuth(s.handlePortfolioSummary))
	mux.HandleFunc("/api/portfolio/", s.requireAuth(s.routePortfolio))
	mux.HandleFunc("/api/portfolio", s.requireAuth(s.handlePortfolioRoot))
}

// routeAnalysis dispatches /api/analysis/{symbol} and
// /api/analysis/{symbol}/chart.png.
func (s *Server) routeAnalysis(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/analysis/")
	if path == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required in path")
		return
	}

	if strings.HasSuffix(path, "/chart.png") {
		s.handleAnalysisChart(w, r, strings.TrimSuffix(path, "/chart.png"))
		return
	}
	if strings.Contains(path, "/") {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	s.handleAnalysis(w, r, path)
}

// routePortfolio dispatches /api/portfolio/{id} and /api/portfolio/{id}/sell.
func (s *Server) routePortfolio(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/portfolio/")
	if path == "" {
		s.handlePortfolioRoot(w, r)
		return
	}

	if strings.HasSuffix(path, "/sell") {
		s.handlePositionSell(w, r, PathParam(r, "/api/portfolio/", "/sell"))
		return
	}
	if strings.Contains(path, "/") {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	s.handlePosition(w, r, path)
}
