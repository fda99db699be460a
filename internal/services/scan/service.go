// Package scan provides the morning watchlist scan service.
package scan

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/stockpilot/stockpilot/internal/common"
	"github.com/stockpilot/stockpilot/internal/interfaces"
	"github.com/stockpilot/stockpilot/internal/models"
	"github.com/stockpilot/stockpilot/internal/signals"
)

const (
	maxRecommendations = 10
	volumeSpikeFactor  = 1.2
	volumeAvgDays      = 10
	momentumDays       = 5
)

// Service implements ScanService
type Service struct {
	storage   interfaces.StorageManager
	feed      interfaces.PriceFeedClient
	watchlist []string
	strategy  signals.Strategy
	logger    *common.Logger
	now       func() time.Time
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithStrategy overrides the scan strategy
func WithStrategy(strategy signals.Strategy) ServiceOption {
	return func(s *Service) {
		s.strategy = strategy
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new scan service
func NewService(storage interfaces.StorageManager, feed interfaces.PriceFeedClient, config *common.Config, logger *common.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		storage:   storage,
		feed:      feed,
		watchlist: config.Scan.Watchlist,
		strategy:  signals.FixedStepStrategy{},
		logger:    logger,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// MorningScan analyzes every watchlist symbol concurrently and returns the
// top recommendations by confidence. A symbol whose fetch or analysis fails
// is dropped from the run, never fatal.
func (s *Service) MorningScan(ctx context.Context) (*models.ScanResponse, error) {
	if len(s.watchlist) == 0 {
		return nil, fmt.Errorf("scan watchlist is empty")
	}

	var (
		mu   sync.Mutex
		recs []models.ScanRecommendation
		wg   sync.WaitGroup
	)

	for _, symbol := range s.watchlist {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()

			rec, err := s.scanSymbol(ctx, symbol)
			if err != nil {
				s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Scan skipped symbol")
				return
			}

			mu.Lock()
			recs = append(recs, *rec)
			mu.Unlock()
		}(symbol)
	}
	wg.Wait()

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Confidence != recs[j].Confidence {
			return recs[i].Confidence > recs[j].Confidence
		}
		return recs[i].Symbol < recs[j].Symbol
	})

	analyzed := len(recs)
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}

	s.logger.Info().
		Int("watchlist", len(s.watchlist)).
		Int("analyzed", analyzed).
		Int("returned", len(recs)).
		Msg("Morning scan complete")

	return &models.ScanResponse{
		Success:         true,
		Recommendations: recs,
		GeneratedAt:     s.now(),
		TotalAnalyzed:   analyzed,
	}, nil
}

func (s *Service) scanSymbol(ctx context.Context, symbol string) (*models.ScanRecommendation, error) {
	history, err := s.feed.GetPriceHistory(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	if history.CurrentPrice == 0 || len(history.Bars) == 0 {
		return nil, fmt.Errorf("no data for %s", symbol)
	}

	// Warm the stored series as a side effect; scan output does not depend
	// on it.
	if err := s.storage.MarketDataStore().UpsertBars(ctx, symbol, history.CompanyName, history.Bars); err != nil {
		s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Failed to persist scan bars")
	}

	bars := history.Bars
	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close
	}

	dma20 := signals.SMA(closes, 20)
	dma30 := signals.SMA(closes, 30)

	avgVolume := signals.AverageVolume(bars, volumeAvgDays)
	lastVolume := float64(bars[len(bars)-1].Volume)
	spike := avgVolume > 0 && lastVolume > volumeSpikeFactor*avgVolume

	result := s.strategy.Evaluate(signals.Snapshot{
		CurrentPrice: history.CurrentPrice,
		DMA20:        dma20,
		DMA30:        dma30,
		MomentumPct:  signals.Momentum(closes, momentumDays),
		VolumeSpike:  spike,
	})

	return &models.ScanRecommendation{
		Symbol:       symbol,
		CompanyName:  history.CompanyName,
		Signal:       result.Signal,
		BuyingPrice:  result.EntryPrice,
		SellingPrice: result.Target,
		StopLoss:     result.StopLoss,
		Confidence:   result.Confidence,
		Reasons:      result.Reasons,
		DMA20:        signals.Round2(dma20),
		DMA30:        signals.Round2(dma30),
		Volume:       bars[len(bars)-1].Volume,
	}, nil
}

// Ensure Service implements ScanService
var _ interfaces.ScanService = (*Service)(nil)
