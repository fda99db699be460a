package interfaces

import (
	"context"

	"github.com/stockpilot/stockpilot/internal/models"
)

// AnalysisService produces on-demand analysis records.
type AnalysisService interface {
	// Analyze returns the analysis for a symbol, serving a cached record
	// while its freshness window holds.
	Analyze(ctx context.Context, symbol string) (*models.AnalysisRecord, error)

	// RenderChart renders the symbol's recent closing prices as a PNG.
	RenderChart(ctx context.Context, symbol string) ([]byte, error)
}

// ScanService runs the morning scan over the configured watchlist.
type ScanService interface {
	MorningScan(ctx context.Context) (*models.ScanResponse, error)
}

// PortfolioService manages the buy/sell ledger.
type PortfolioService interface {
	Create(ctx context.Context, position *models.Position) (*models.Position, error)
	Get(ctx context.Context, userID, id string) (*models.Position, error)
	Update(ctx context.Context, userID string, position *models.Position) (*models.Position, error)
	Delete(ctx context.Context, userID, id string) error
	Sell(ctx context.Context, userID, id string, sellingPrice float64) (*models.Position, error)
	Summary(ctx context.Context, userID string) (*models.PortfolioSummary, error)
}
