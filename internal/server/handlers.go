package server

import (
	"net/http"
	"time"

	"github.com/stockpilot/stockpilot/internal/common"
)

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version": common.GetVersion(),
		"build":   common.Build,
		"commit":  common.GitCommit,
		"uptime":  time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	cfg := s.app.Config
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":     cfg.Environment,
		"storage_path":    cfg.Storage.Path,
		"feed_base_url":   cfg.Feed.BaseURL,
		"portfolio_value": cfg.Analysis.PortfolioValue,
		"watchlist":       cfg.Scan.Watchlist,
		"scan_schedule":   cfg.Scan.Schedule,
		"logging_level":   cfg.Logging.Level,
	})
}
