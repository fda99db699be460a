// Package analysis provides the on-demand stock analysis service.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/stockpilot/stockpilot/internal/common"
	"github.com/stockpilot/stockpilot/internal/interfaces"
	"github.com/stockpilot/stockpilot/internal/models"
	"github.com/stockpilot/stockpilot/internal/signals"
)

const (
	chartBarCap = 90
	riskPct     = 0.02
)

// IndicatorComputer derives indicators from a bar series. The concrete
// implementation is signals.Computer; the indirection keeps cache-hit paths
// verifiable (a served cache hit performs no computation).
type IndicatorComputer interface {
	Compute(symbol string, bars []models.PriceBar) *models.IndicatorSet
}

// Service implements AnalysisService
type Service struct {
	storage        interfaces.StorageManager
	feed           interfaces.PriceFeedClient
	computer       IndicatorComputer
	strategy       signals.Strategy
	portfolioValue float64
	logger         *common.Logger
	now            func() time.Time
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithComputer overrides the indicator computer
func WithComputer(computer IndicatorComputer) ServiceOption {
	return func(s *Service) {
		s.computer = computer
	}
}

// WithStrategy overrides the signal strategy
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

// NewService creates a new analysis service
func NewService(storage interfaces.StorageManager, feed interfaces.PriceFeedClient, config *common.Config, logger *common.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		storage:        storage,
		feed:           feed,
		computer:       signals.NewComputer(),
		strategy:       signals.MarginStrategy{},
		portfolioValue: config.Analysis.PortfolioValue,
		logger:         logger,
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Analyze returns the analysis record for a symbol. A cached record inside
// its freshness window is returned as-is with no feed call and no indicator
// computation; otherwise a fresh record is built and cached for 4 hours.
func (s *Service) Analyze(ctx context.Context, symbol string) (*models.AnalysisRecord, error) {
	now := s.now()

	cached, err := s.storage.AnalysisStore().GetIfFresh(ctx, symbol, now)
	if err == nil {
		s.logger.Debug().Str("symbol", symbol).Msg("Serving cached analysis")
		return cached, nil
	}
	if !errors.Is(err, interfaces.ErrNotFound) {
		// A broken cache read degrades to a recompute.
		s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Analysis cache read failed")
	}

	history, bars, err := s.loadHistory(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if history.CurrentPrice == 0 {
		return nil, fmt.Errorf("no data available for %s", symbol)
	}

	indicators := s.computer.Compute(symbol, bars)

	result := s.strategy.Evaluate(signals.Snapshot{
		CurrentPrice: history.CurrentPrice,
		RSI:          indicators.RSI14,
		MACD:         indicators.MACD,
		ReferenceMA:  indicators.DMA50,
		VolumeRatio:  indicators.VolumeRatio,
	})

	record := s.assemble(symbol, history, bars, indicators, result, now)
	s.persist(ctx, symbol, history, bars, indicators, record)

	s.logger.Info().
		Str("symbol", symbol).
		Str("signal", string(record.Signal)).
		Int("confidence", record.Confidence).
		Msg("Analysis generated")

	return record, nil
}

// loadHistory fetches fresh bars from the feed and merges them over the
// stored series. A feed failure falls back to stored bars when any exist.
func (s *Service) loadHistory(ctx context.Context, symbol string) (*models.PriceHistory, []models.PriceBar, error) {
	stored, err := s.storage.MarketDataStore().Get(ctx, symbol)
	if err != nil && !errors.Is(err, interfaces.ErrNotFound) {
		s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Market data read failed")
	}

	history, feedErr := s.feed.GetPriceHistory(ctx, symbol)
	if feedErr != nil {
		if stored == nil || len(stored.Bars) == 0 {
			return nil, nil, fmt.Errorf("no data available for %s: %w", symbol, feedErr)
		}
		s.logger.Warn().Str("symbol", symbol).Err(feedErr).Msg("Feed unavailable, using stored bars")
		last := stored.LatestBar()
		return &models.PriceHistory{
			Symbol:       symbol,
			CompanyName:  stored.CompanyName,
			Bars:         stored.Bars,
			CurrentPrice: last.Close,
			Volume:       last.Volume,
		}, stored.Bars, nil
	}

	bars := history.Bars
	if stored != nil {
		bars = models.MergeBars(stored.Bars, history.Bars)
	}
	return history, bars, nil
}

func (s *Service) assemble(symbol string, history *models.PriceHistory, bars []models.PriceBar, indicators *models.IndicatorSet, result models.SignalResult, now time.Time) *models.AnalysisRecord {
	macdSignal := "Bearish"
	if indicators.MACD.Line > indicators.MACD.Signal {
		macdSignal = "Bullish"
	}

	chartData := bars
	if len(chartData) > chartBarCap {
		chartData = chartData[len(chartData)-chartBarCap:]
	}

	return &models.AnalysisRecord{
		Symbol:       symbol,
		CompanyName:  history.CompanyName,
		Signal:       result.Signal,
		Confidence:   result.Confidence,
		Reasons:      result.Reasons,
		CurrentPrice: history.CurrentPrice,
		EntryPrice:   result.EntryPrice,
		StopLoss:     result.StopLoss,
		Target:       result.Target,
		RiskReward:   result.RiskReward,
		Technicals: models.Technicals{
			Price:       history.CurrentPrice,
			DMA:         signals.Round2(indicators.DMA50),
			RSI14:       signals.Round2(indicators.RSI14),
			MACDSignal:  macdSignal,
			VolumeVsAvg: fmt.Sprintf("%.1fx", indicators.VolumeRatio),
			ATR14:       signals.Round2(indicators.ATR14),
		},
		PositionSizing:    s.positionSizing(result.EntryPrice, result.StopLoss),
		ChartData:         chartData,
		SupportResistance: signals.EstimateSupportResistance(history.CurrentPrice),
		GeneratedAt:       now,
		ExpiresAt:         now.Add(common.FreshnessAnalysis),
	}
}

// positionSizing applies the 2%-risk rule against the configured portfolio
// value.
func (s *Service) positionSizing(entry, stop float64) models.PositionSizing {
	maxRisk := s.portfolioValue * riskPct
	sizing := models.PositionSizing{
		PortfolioValue: s.portfolioValue,
		MaxRisk:        signals.Round2(maxRisk),
	}

	riskPerShare := entry - stop
	if riskPerShare <= 0 {
		return sizing
	}

	sizing.RecommendedShares = int(math.Floor(maxRisk / riskPerShare))
	sizing.Exposure = signals.Round2(float64(sizing.RecommendedShares) * entry)
	return sizing
}

// persist writes the three derived artifacts concurrently. Each write is
// independent; a failure is logged and the in-memory record still serves
// the request.
func (s *Service) persist(ctx context.Context, symbol string, history *models.PriceHistory, bars []models.PriceBar, indicators *models.IndicatorSet, record *models.AnalysisRecord) {
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		if err := s.storage.MarketDataStore().UpsertBars(ctx, symbol, history.CompanyName, bars); err != nil {
			s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Failed to persist bars")
		}
	}()
	go func() {
		defer wg.Done()
		if err := s.storage.IndicatorStore().Upsert(ctx, indicators); err != nil {
			s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Failed to persist indicators")
		}
	}()
	go func() {
		defer wg.Done()
		if err := s.storage.AnalysisStore().Upsert(ctx, record); err != nil {
			s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Failed to cache analysis")
		}
	}()

	wg.Wait()
}

// Ensure Service implements AnalysisService
var _ interfaces.AnalysisService = (*Service)(nil)
