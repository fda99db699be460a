package scan

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpilot/stockpilot/internal/common"
	"github.com/stockpilot/stockpilot/internal/interfaces"
	"github.com/stockpilot/stockpilot/internal/models"
)

// --- Fakes ---

type mapFeed struct {
	histories map[string]*models.PriceHistory
}

func (f *mapFeed) GetPriceHistory(_ context.Context, symbol string) (*models.PriceHistory, error) {
	h, ok := f.histories[symbol]
	if !ok {
		return nil, fmt.Errorf("unknown symbol %s", symbol)
	}
	return h, nil
}

type stubMarketStore struct {
	saved map[string]int
}

func (s *stubMarketStore) Get(context.Context, string) (*models.MarketData, error) {
	return nil, interfaces.ErrNotFound
}
func (s *stubMarketStore) Save(context.Context, *models.MarketData) error { return nil }
func (s *stubMarketStore) UpsertBars(_ context.Context, symbol, _ string, bars []models.PriceBar) error {
	s.saved[symbol] = len(bars)
	return nil
}

type stubStorage struct {
	market *stubMarketStore
}

func newStubStorage() *stubStorage {
	return &stubStorage{market: &stubMarketStore{saved: make(map[string]int)}}
}

func (s *stubStorage) MarketDataStore() interfaces.MarketDataStore { return s.market }
func (s *stubStorage) AnalysisStore() interfaces.AnalysisStore     { return nil }
func (s *stubStorage) IndicatorStore() interfaces.IndicatorStore   { return nil }
func (s *stubStorage) PortfolioStore() interfaces.PortfolioStore   { return nil }
func (s *stubStorage) UserStore() interfaces.UserStore             { return nil }
func (s *stubStorage) Close() error                                { return nil }

// --- Helpers ---

// trendBars builds an ascending daily series ending at lastClose, moving by
// step per day. lastVolume applies to the final bar only.
func trendBars(n int, lastClose, step float64, volume, lastVolume int64) []models.PriceBar {
	base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.PriceBar, n)
	for i := range bars {
		price := lastClose - step*float64(n-1-i)
		vol := volume
		if i == n-1 {
			vol = lastVolume
		}
		bars[i] = models.PriceBar{
			Date:   base.AddDate(0, 0, i),
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: vol,
		}
	}
	return bars
}

func history(symbol, name string, bars []models.PriceBar) *models.PriceHistory {
	return &models.PriceHistory{
		Symbol:       symbol,
		CompanyName:  name,
		Bars:         bars,
		CurrentPrice: bars[len(bars)-1].Close,
		Volume:       bars[len(bars)-1].Volume,
	}
}

func scanConfig(watchlist ...string) *common.Config {
	cfg := common.NewDefaultConfig()
	cfg.Scan.Watchlist = watchlist
	return cfg
}

// --- Tests ---

func TestMorningScan_DropsFailedSymbols(t *testing.T) {
	uptrend := trendBars(60, 500, 3, 1000000, 1000000)
	flat := trendBars(60, 300, 0, 1000000, 1000000)

	feed := &mapFeed{histories: map[string]*models.PriceHistory{
		"RELIANCE.NS": history("RELIANCE.NS", "Reliance Industries", uptrend),
		"TCS.NS":      history("TCS.NS", "Tata Consultancy", flat),
		// "DELISTED.NS" intentionally absent
	}}
	svc := NewService(newStubStorage(), feed,
		scanConfig("RELIANCE.NS", "TCS.NS", "DELISTED.NS"),
		common.NewSilentLogger())

	resp, err := svc.MorningScan(context.Background())
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.TotalAnalyzed, "failed symbol is dropped, not fatal")
	require.Len(t, resp.Recommendations, 2)
	for _, rec := range resp.Recommendations {
		assert.NotEqual(t, "DELISTED.NS", rec.Symbol)
	}
}

func TestMorningScan_BullishUptrendRanksFirst(t *testing.T) {
	// Steady +3/day uptrend: price above both rising averages, 5-day
	// momentum well over 2%
	uptrend := trendBars(60, 500, 3, 1000000, 1000000)
	flat := trendBars(60, 300, 0, 1000000, 1000000)

	feed := &mapFeed{histories: map[string]*models.PriceHistory{
		"UP.NS":   history("UP.NS", "Uptrend Ltd", uptrend),
		"FLAT.NS": history("FLAT.NS", "Flat Ltd", flat),
	}}
	svc := NewService(newStubStorage(), feed, scanConfig("UP.NS", "FLAT.NS"), common.NewSilentLogger())

	resp, err := svc.MorningScan(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Recommendations, 2)

	first := resp.Recommendations[0]
	assert.Equal(t, "UP.NS", first.Symbol)
	assert.Equal(t, models.SignalBuy, first.Signal)
	assert.Equal(t, 75, first.Confidence)
	assert.Equal(t, 500.0, first.BuyingPrice)
	assert.Equal(t, 525.0, first.SellingPrice)
	assert.Equal(t, 485.0, first.StopLoss)

	second := resp.Recommendations[1]
	assert.Equal(t, models.SignalHold, second.Signal)
	assert.Equal(t, 50, second.Confidence)
}

func TestMorningScan_VolumeSpikeBonus(t *testing.T) {
	// Same uptrend, final volume 2x the recent average
	spiked := trendBars(60, 500, 3, 1000000, 2000000)

	feed := &mapFeed{histories: map[string]*models.PriceHistory{
		"SPIKE.NS": history("SPIKE.NS", "Spike Ltd", spiked),
	}}
	svc := NewService(newStubStorage(), feed, scanConfig("SPIKE.NS"), common.NewSilentLogger())

	resp, err := svc.MorningScan(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Recommendations, 1)

	rec := resp.Recommendations[0]
	assert.Equal(t, models.SignalBuy, rec.Signal)
	assert.Equal(t, 85, rec.Confidence)
	assert.Contains(t, rec.Reasons, "Volume spike")
}

func TestMorningScan_ConfidenceInLegalSet(t *testing.T) {
	histories := map[string]*models.PriceHistory{
		"UP.NS":    history("UP.NS", "", trendBars(60, 500, 3, 1000000, 1000000)),
		"SPIKE.NS": history("SPIKE.NS", "", trendBars(60, 500, 3, 1000000, 2500000)),
		"DOWN.NS":  history("DOWN.NS", "", trendBars(60, 500, -3, 1000000, 1000000)),
		"FLAT.NS":  history("FLAT.NS", "", trendBars(60, 300, 0, 1000000, 1000000)),
		"CHOP.NS":  history("CHOP.NS", "", trendBars(60, 300, 0, 1000000, 3000000)),
	}
	symbols := make([]string, 0, len(histories))
	for s := range histories {
		symbols = append(symbols, s)
	}

	feed := &mapFeed{histories: histories}
	svc := NewService(newStubStorage(), feed, scanConfig(symbols...), common.NewSilentLogger())

	resp, err := svc.MorningScan(context.Background())
	require.NoError(t, err)

	legal := map[int]bool{50: true, 60: true, 70: true, 75: true, 85: true}
	for _, rec := range resp.Recommendations {
		assert.True(t, legal[rec.Confidence], "confidence %d for %s outside fixed steps", rec.Confidence, rec.Symbol)
	}

	// Descending by confidence
	for i := 1; i < len(resp.Recommendations); i++ {
		assert.GreaterOrEqual(t,
			resp.Recommendations[i-1].Confidence,
			resp.Recommendations[i].Confidence)
	}
}

func TestMorningScan_CapsAtTen(t *testing.T) {
	histories := make(map[string]*models.PriceHistory)
	symbols := make([]string, 0, 14)
	for i := 0; i < 14; i++ {
		symbol := fmt.Sprintf("SYM%02d.NS", i)
		symbols = append(symbols, symbol)
		histories[symbol] = history(symbol, "", trendBars(60, 300, 0, 1000000, 1000000))
	}

	feed := &mapFeed{histories: histories}
	svc := NewService(newStubStorage(), feed, scanConfig(symbols...), common.NewSilentLogger())

	resp, err := svc.MorningScan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 14, resp.TotalAnalyzed)
	assert.Len(t, resp.Recommendations, 10)
}

func TestMorningScan_EmptyWatchlist(t *testing.T) {
	svc := NewService(newStubStorage(), &mapFeed{}, scanConfig(), common.NewSilentLogger())

	_, err := svc.MorningScan(context.Background())
	require.Error(t, err)
}

func TestMorningScan_PersistsBars(t *testing.T) {
	storage := newStubStorage()
	feed := &mapFeed{histories: map[string]*models.PriceHistory{
		"UP.NS": history("UP.NS", "", trendBars(60, 500, 3, 1000000, 1000000)),
	}}
	svc := NewService(storage, feed, scanConfig("UP.NS"), common.NewSilentLogger())

	_, err := svc.MorningScan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 60, storage.market.saved["UP.NS"])
}
