// Package portfolio provides portfolio ledger services.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stockpilot/stockpilot/internal/common"
	"github.com/stockpilot/stockpilot/internal/interfaces"
	"github.com/stockpilot/stockpilot/internal/models"
	"github.com/stockpilot/stockpilot/internal/signals"
)

// ErrForbidden is returned when a position belongs to another user.
var ErrForbidden = errors.New("position belongs to another user")

// Service implements PortfolioService
type Service struct {
	storage  interfaces.StorageManager
	analysis interfaces.AnalysisService
	logger   *common.Logger
	now      func() time.Time
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithClock overrides the time source
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new portfolio service. Valuation reuses the analysis
// service so summary calls ride its 4-hour cache instead of hitting the feed
// per position.
func NewService(storage interfaces.StorageManager, analysis interfaces.AnalysisService, logger *common.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		storage:  storage,
		analysis: analysis,
		logger:   logger,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create validates and stores a new holding.
func (s *Service) Create(ctx context.Context, position *models.Position) (*models.Position, error) {
	if err := validate(position); err != nil {
		return nil, err
	}

	now := s.now()
	position.ID = uuid.New().String()
	position.Symbol = strings.ToUpper(strings.TrimSpace(position.Symbol))
	position.Status = models.PositionHold
	position.SellingPrice = 0
	position.SellDate = nil
	if position.BuyDate.IsZero() {
		position.BuyDate = now
	}
	position.CreatedAt = now
	position.UpdatedAt = now

	if err := s.storage.PortfolioStore().Save(ctx, position); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("id", position.ID).
		Str("symbol", position.Symbol).
		Int("quantity", position.Quantity).
		Msg("Position created")

	return position, nil
}

// Get returns a position owned by the user.
func (s *Service) Get(ctx context.Context, userID, id string) (*models.Position, error) {
	position, err := s.storage.PortfolioStore().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if position.UserID != userID {
		return nil, ErrForbidden
	}
	return position, nil
}

// Update replaces the mutable fields of a held position.
func (s *Service) Update(ctx context.Context, userID string, position *models.Position) (*models.Position, error) {
	existing, err := s.Get(ctx, userID, position.ID)
	if err != nil {
		return nil, err
	}
	if existing.Status == models.PositionSold {
		return nil, fmt.Errorf("position %s is already sold", position.ID)
	}
	if err := validate(position); err != nil {
		return nil, err
	}

	existing.Symbol = strings.ToUpper(strings.TrimSpace(position.Symbol))
	existing.Quantity = position.Quantity
	existing.BuyingPrice = position.BuyingPrice
	if !position.BuyDate.IsZero() {
		existing.BuyDate = position.BuyDate
	}

	if err := s.storage.PortfolioStore().Save(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes a position owned by the user.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.storage.PortfolioStore().Delete(ctx, id)
}

// Sell closes a held position at the given price.
func (s *Service) Sell(ctx context.Context, userID, id string, sellingPrice float64) (*models.Position, error) {
	position, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if position.Status == models.PositionSold {
		return nil, fmt.Errorf("position %s is already sold", id)
	}
	if sellingPrice <= 0 {
		return nil, fmt.Errorf("selling price must be positive")
	}

	now := s.now()
	position.Status = models.PositionSold
	position.SellingPrice = sellingPrice
	position.SellDate = &now

	if err := s.storage.PortfolioStore().Save(ctx, position); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("id", id).
		Str("symbol", position.Symbol).
		Float64("selling_price", sellingPrice).
		Msg("Position sold")

	return position, nil
}

// Summary values every position for the user. Held positions are marked to
// the latest analyzed price; sold positions use their selling price. A
// symbol whose analysis fails is valued at cost.
func (s *Service) Summary(ctx context.Context, userID string) (*models.PortfolioSummary, error) {
	positions, err := s.storage.PortfolioStore().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &models.PortfolioSummary{
		Positions: make([]models.PositionValuation, 0, len(positions)),
		AsOf:      s.now(),
	}

	prices := make(map[string]float64)
	for _, position := range positions {
		currentPrice := position.BuyingPrice
		switch position.Status {
		case models.PositionSold:
			currentPrice = position.SellingPrice
		default:
			if cached, ok := prices[position.Symbol]; ok {
				currentPrice = cached
			} else if record, err := s.analysis.Analyze(ctx, position.Symbol); err == nil {
				currentPrice = record.CurrentPrice
				prices[position.Symbol] = currentPrice
			} else {
				s.logger.Warn().
					Str("symbol", position.Symbol).
					Err(err).
					Msg("Valuation fell back to cost basis")
			}
		}

		invested := position.Invested()
		marketValue := signals.Round2(float64(position.Quantity) * currentPrice)
		gainLoss := signals.Round2(marketValue - invested)

		valuation := models.PositionValuation{
			Position:     *position,
			CurrentPrice: currentPrice,
			MarketValue:  marketValue,
			GainLoss:     gainLoss,
		}
		if invested > 0 {
			valuation.GainLossPct = signals.Round2(gainLoss / invested * 100)
		}

		summary.Positions = append(summary.Positions, valuation)
		summary.TotalInvested += invested
		summary.TotalValue += marketValue
	}

	summary.TotalInvested = signals.Round2(summary.TotalInvested)
	summary.TotalValue = signals.Round2(summary.TotalValue)
	summary.TotalGainLoss = signals.Round2(summary.TotalValue - summary.TotalInvested)

	return summary, nil
}

func validate(position *models.Position) error {
	if strings.TrimSpace(position.Symbol) == "" {
		return fmt.Errorf("symbol is required")
	}
	if position.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	if position.BuyingPrice <= 0 {
		return fmt.Errorf("buying price must be positive")
	}
	return nil
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
