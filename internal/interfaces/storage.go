// Package interfaces defines service contracts for StockPilot
package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/stockpilot/stockpilot/internal/models"
)

// ErrNotFound is returned by stores when no record exists for the key.
// Callers branch on it with errors.Is.
var ErrNotFound = errors.New("record not found")

// StorageManager coordinates all storage backends
type StorageManager interface {
	MarketDataStore() MarketDataStore
	AnalysisStore() AnalysisStore
	IndicatorStore() IndicatorStore
	PortfolioStore() PortfolioStore
	UserStore() UserStore

	Close() error
}

// MarketDataStore persists the daily bar series per symbol.
type MarketDataStore interface {
	Get(ctx context.Context, symbol string) (*models.MarketData, error)
	Save(ctx context.Context, data *models.MarketData) error
	// UpsertBars merges bars into the stored series, replacing same-date bars.
	UpsertBars(ctx context.Context, symbol, companyName string, bars []models.PriceBar) error
}

// AnalysisStore caches analysis records keyed by symbol with an expiry instant.
type AnalysisStore interface {
	// GetIfFresh returns the stored record when its expiry is after now,
	// ErrNotFound when the record is missing or stale.
	GetIfFresh(ctx context.Context, symbol string, now time.Time) (*models.AnalysisRecord, error)
	Upsert(ctx context.Context, record *models.AnalysisRecord) error
	Delete(ctx context.Context, symbol string) error
}

// IndicatorStore caches the latest indicator snapshot per symbol.
type IndicatorStore interface {
	Get(ctx context.Context, symbol string) (*models.IndicatorSet, error)
	Upsert(ctx context.Context, set *models.IndicatorSet) error
}

// PortfolioStore persists the buy/sell ledger.
type PortfolioStore interface {
	Get(ctx context.Context, id string) (*models.Position, error)
	Save(ctx context.Context, position *models.Position) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]*models.Position, error)
}

// UserStore persists user accounts.
type UserStore interface {
	Get(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
}
