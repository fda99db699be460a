package interfaces

import (
	"context"

	"github.com/stockpilot/stockpilot/internal/models"
)

// PriceFeedClient fetches price history from the upstream market data source.
// Implementations must tolerate missing/partial bars (skip rather than fail).
type PriceFeedClient interface {
	// GetPriceHistory returns the daily bar series (ascending by date) plus
	// the current price and volume for a symbol.
	GetPriceHistory(ctx context.Context, symbol string) (*models.PriceHistory, error)
}
