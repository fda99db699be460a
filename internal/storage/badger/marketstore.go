package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/stockpilot/stockpilot/internal/common"
	"github.com/stockpilot/stockpilot/internal/interfaces"
	"github.com/stockpilot/stockpilot/internal/models"
)

type marketDataStorage struct {
	store  *Store
	logger *common.Logger
}

// NewMarketDataStorage creates a MarketDataStore backed by BadgerHold.
func NewMarketDataStorage(store *Store, logger *common.Logger) interfaces.MarketDataStore {
	return &marketDataStorage{store: store, logger: logger}
}

func (s *marketDataStorage) Get(_ context.Context, symbol string) (*models.MarketData, error) {
	var data models.MarketData
	err := s.store.db.Get(symbol, &data)
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get market data for %s: %w", symbol, err)
	}
	return &data, nil
}

func (s *marketDataStorage) Save(_ context.Context, data *models.MarketData) error {
	data.UpdatedAt = time.Now()
	if err := s.store.db.Upsert(data.Symbol, data); err != nil {
		return fmt.Errorf("failed to save market data for %s: %w", data.Symbol, err)
	}
	s.logger.Debug().
		Str("symbol", data.Symbol).
		Int("bars", len(data.Bars)).
		Msg("Market data saved")
	return nil
}

// UpsertBars merges incoming bars into the stored series. Bars sharing a
// calendar date are replaced, so the partial today bar is refreshed on each
// intraday fetch instead of duplicated.
func (s *marketDataStorage) UpsertBars(ctx context.Context, symbol, companyName string, bars []models.PriceBar) error {
	existing, err := s.Get(ctx, symbol)
	if err != nil && !errors.Is(err, interfaces.ErrNotFound) {
		return err
	}

	data := &models.MarketData{Symbol: symbol, CompanyName: companyName}
	if existing != nil {
		data.Bars = existing.Bars
		if companyName == "" {
			data.CompanyName = existing.CompanyName
		}
	}
	data.Bars = models.MergeBars(data.Bars, bars)

	return s.Save(ctx, data)
}
