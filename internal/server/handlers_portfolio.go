package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/stockpilot/stockpilot/internal/interfaces"
	"github.com/stockpilot/stockpilot/internal/models"
	"github.com/stockpilot/stockpilot/internal/services/portfolio"
)

type positionRequest struct {
	Symbol      string     `json:"symbol"`
	Quantity    int        `json:"quantity"`
	BuyingPrice float64    `json:"buying_price"`
	BuyDate     *time.Time `json:"buy_date,omitempty"`
}

func (req *positionRequest) toPosition(userID string) *models.Position {
	position := &models.Position{
		UserID:      userID,
		Symbol:      req.Symbol,
		Quantity:    req.Quantity,
		BuyingPrice: req.BuyingPrice,
	}
	if req.BuyDate != nil {
		position.BuyDate = *req.BuyDate
	}
	return position
}

// writePositionError maps service errors to status codes.
func (s *Server) writePositionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		WriteError(w, http.StatusNotFound, "Position not found")
	case errors.Is(err, portfolio.ErrForbidden):
		WriteError(w, http.StatusForbidden, "Position belongs to another user")
	default:
		WriteError(w, http.StatusBadRequest, err.Error())
	}
}

// handlePortfolioRoot handles GET /api/portfolio (list) and POST /api/portfolio (create).
func (s *Server) handlePortfolioRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handlePortfolioList(w, r)
	case http.MethodPost:
		s.handlePositionCreate(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handlePortfolioList(w http.ResponseWriter, r *http.Request) {
	positions, err := s.app.Storage.PortfolioStore().ListByUser(r.Context(), UserID(r.Context()))
	if err != nil {
		s.logger.Error().Err(err).Msg("Portfolio list failed")
		WriteError(w, http.StatusInternalServerError, "Failed to list positions")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"positions": positions})
}

func (s *Server) handlePositionCreate(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	position, err := s.app.PortfolioService.Create(r.Context(), req.toPosition(UserID(r.Context())))
	if err != nil {
		s.writePositionError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, position)
}

// handlePosition handles GET/PUT/DELETE /api/portfolio/{id}.
func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request, id string) {
	userID := UserID(r.Context())

	switch r.Method {
	case http.MethodGet:
		position, err := s.app.PortfolioService.Get(r.Context(), userID, id)
		if err != nil {
			s.writePositionError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, position)

	case http.MethodPut:
		var req positionRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		update := req.toPosition(userID)
		update.ID = id
		position, err := s.app.PortfolioService.Update(r.Context(), userID, update)
		if err != nil {
			s.writePositionError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, position)

	case http.MethodDelete:
		if err := s.app.PortfolioService.Delete(r.Context(), userID, id); err != nil {
			s.writePositionError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

type sellRequest struct {
	SellingPrice float64 `json:"selling_price"`
}

// handlePositionSell handles POST /api/portfolio/{id}/sell.
func (s *Server) handlePositionSell(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req sellRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	position, err := s.app.PortfolioService.Sell(r.Context(), UserID(r.Context()), id, req.SellingPrice)
	if err != nil {
		s.writePositionError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, position)
}

// handlePortfolioSummary handles GET /api/portfolio/summary.
func (s *Server) handlePortfolioSummary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	summary, err := s.app.PortfolioService.Summary(r.Context(), UserID(r.Context()))
	if err != nil {
		s.logger.Error().Err(err).Msg("Portfolio summary failed")
		WriteError(w, http.StatusInternalServerError, "Failed to build summary")
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}
