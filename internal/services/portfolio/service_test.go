package portfolio

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpilot/stockpilot/internal/common"
	"github.com/stockpilot/stockpilot/internal/interfaces"
	"github.com/stockpilot/stockpilot/internal/models"
)

// --- Fakes ---

type memPortfolioStore struct {
	positions map[string]*models.Position
}

func newMemPortfolioStore() *memPortfolioStore {
	return &memPortfolioStore{positions: make(map[string]*models.Position)}
}

func (m *memPortfolioStore) Get(_ context.Context, id string) (*models.Position, error) {
	if p, ok := m.positions[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, interfaces.ErrNotFound
}

func (m *memPortfolioStore) Save(_ context.Context, position *models.Position) error {
	copied := *position
	m.positions[position.ID] = &copied
	return nil
}

func (m *memPortfolioStore) Delete(_ context.Context, id string) error {
	delete(m.positions, id)
	return nil
}

func (m *memPortfolioStore) ListByUser(_ context.Context, userID string) ([]*models.Position, error) {
	var result []*models.Position
	for _, p := range m.positions {
		if p.UserID == userID {
			copied := *p
			result = append(result, &copied)
		}
	}
	return result, nil
}

type stubStorage struct {
	portfolio *memPortfolioStore
}

func (s *stubStorage) MarketDataStore() interfaces.MarketDataStore { return nil }
func (s *stubStorage) AnalysisStore() interfaces.AnalysisStore     { return nil }
func (s *stubStorage) IndicatorStore() interfaces.IndicatorStore   { return nil }
func (s *stubStorage) PortfolioStore() interfaces.PortfolioStore   { return s.portfolio }
func (s *stubStorage) UserStore() interfaces.UserStore             { return nil }
func (s *stubStorage) Close() error                                { return nil }

type fakeAnalysis struct {
	prices map[string]float64
	calls  int
}

func (f *fakeAnalysis) Analyze(_ context.Context, symbol string) (*models.AnalysisRecord, error) {
	f.calls++
	price, ok := f.prices[symbol]
	if !ok {
		return nil, fmt.Errorf("no data available for %s", symbol)
	}
	return &models.AnalysisRecord{Symbol: symbol, CurrentPrice: price}, nil
}

func (f *fakeAnalysis) RenderChart(context.Context, string) ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}

// --- Helpers ---

func newTestService(prices map[string]float64) (*Service, *memPortfolioStore) {
	store := newMemPortfolioStore()
	svc := NewService(&stubStorage{portfolio: store}, &fakeAnalysis{prices: prices}, common.NewSilentLogger())
	return svc, store
}

// --- Tests ---

func TestCreate_SetsDefaults(t *testing.T) {
	svc, store := newTestService(nil)

	position, err := svc.Create(context.Background(), &models.Position{
		UserID:      "user-a",
		Symbol:      " reliance.ns ",
		Quantity:    10,
		BuyingPrice: 2400,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, position.ID)
	assert.Equal(t, "RELIANCE.NS", position.Symbol)
	assert.Equal(t, models.PositionHold, position.Status)
	assert.False(t, position.BuyDate.IsZero())
	assert.Nil(t, position.SellDate)
	assert.Contains(t, store.positions, position.ID)
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newTestService(nil)

	tests := []struct {
		name     string
		position models.Position
	}{
		{"missing symbol", models.Position{UserID: "u", Quantity: 1, BuyingPrice: 100}},
		{"zero quantity", models.Position{UserID: "u", Symbol: "TCS.NS", BuyingPrice: 100}},
		{"negative price", models.Position{UserID: "u", Symbol: "TCS.NS", Quantity: 1, BuyingPrice: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &tt.position)
			assert.Error(t, err)
		})
	}
}

func TestGet_EnforcesOwnership(t *testing.T) {
	svc, _ := newTestService(nil)

	position, err := svc.Create(context.Background(), &models.Position{
		UserID: "user-a", Symbol: "TCS.NS", Quantity: 5, BuyingPrice: 3500,
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "user-b", position.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.Get(context.Background(), "user-a", position.ID)
	require.NoError(t, err)
	assert.Equal(t, position.ID, got.ID)
}

func TestSell_ClosesPosition(t *testing.T) {
	svc, _ := newTestService(nil)

	position, err := svc.Create(context.Background(), &models.Position{
		UserID: "user-a", Symbol: "INFY.NS", Quantity: 20, BuyingPrice: 1500,
	})
	require.NoError(t, err)

	sold, err := svc.Sell(context.Background(), "user-a", position.ID, 1650)
	require.NoError(t, err)

	assert.Equal(t, models.PositionSold, sold.Status)
	assert.Equal(t, 1650.0, sold.SellingPrice)
	require.NotNil(t, sold.SellDate)

	// Double sell is rejected
	_, err = svc.Sell(context.Background(), "user-a", position.ID, 1700)
	assert.Error(t, err)
}

func TestUpdate_RejectsSoldPosition(t *testing.T) {
	svc, _ := newTestService(nil)

	position, err := svc.Create(context.Background(), &models.Position{
		UserID: "user-a", Symbol: "SBIN.NS", Quantity: 50, BuyingPrice: 800,
	})
	require.NoError(t, err)

	_, err = svc.Sell(context.Background(), "user-a", position.ID, 850)
	require.NoError(t, err)

	position.Quantity = 60
	_, err = svc.Update(context.Background(), "user-a", position)
	assert.Error(t, err)
}

func TestDelete_EnforcesOwnership(t *testing.T) {
	svc, store := newTestService(nil)

	position, err := svc.Create(context.Background(), &models.Position{
		UserID: "user-a", Symbol: "WIPRO.NS", Quantity: 15, BuyingPrice: 420,
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "user-b", position.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Delete(context.Background(), "user-a", position.ID)
	require.NoError(t, err)
	assert.NotContains(t, store.positions, position.ID)
}

func TestSummary_ValuesHeldAndSoldPositions(t *testing.T) {
	svc, _ := newTestService(map[string]float64{"RELIANCE.NS": 2500})

	held, err := svc.Create(context.Background(), &models.Position{
		UserID: "user-a", Symbol: "RELIANCE.NS", Quantity: 10, BuyingPrice: 2400,
	})
	require.NoError(t, err)

	soldPos, err := svc.Create(context.Background(), &models.Position{
		UserID: "user-a", Symbol: "TCS.NS", Quantity: 5, BuyingPrice: 3500,
	})
	require.NoError(t, err)
	_, err = svc.Sell(context.Background(), "user-a", soldPos.ID, 3600)
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background(), "user-a")
	require.NoError(t, err)
	require.Len(t, summary.Positions, 2)

	byID := make(map[string]models.PositionValuation)
	for _, v := range summary.Positions {
		byID[v.Position.ID] = v
	}

	heldVal := byID[held.ID]
	assert.Equal(t, 2500.0, heldVal.CurrentPrice)
	assert.Equal(t, 25000.0, heldVal.MarketValue)
	assert.Equal(t, 1000.0, heldVal.GainLoss)
	assert.InDelta(t, 4.17, heldVal.GainLossPct, 0.01)

	soldVal := byID[soldPos.ID]
	assert.Equal(t, 3600.0, soldVal.CurrentPrice)
	assert.Equal(t, 18000.0, soldVal.MarketValue)
	assert.Equal(t, 500.0, soldVal.GainLoss)

	assert.Equal(t, 41500.0, summary.TotalInvested)
	assert.Equal(t, 43000.0, summary.TotalValue)
	assert.Equal(t, 1500.0, summary.TotalGainLoss)
}

func TestSummary_FailedAnalysisFallsBackToCost(t *testing.T) {
	svc, _ := newTestService(nil) // no prices known

	position, err := svc.Create(context.Background(), &models.Position{
		UserID: "user-a", Symbol: "UNKNOWN.NS", Quantity: 10, BuyingPrice: 100,
	})
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background(), "user-a")
	require.NoError(t, err)
	require.Len(t, summary.Positions, 1)

	val := summary.Positions[0]
	assert.Equal(t, position.BuyingPrice, val.CurrentPrice)
	assert.Equal(t, 0.0, val.GainLoss)
	assert.Equal(t, 0.0, summary.TotalGainLoss)
}

func TestSummary_SharedSymbolAnalyzedOnce(t *testing.T) {
	store := newMemPortfolioStore()
	analysis := &fakeAnalysis{prices: map[string]float64{"RELIANCE.NS": 2500}}
	svc := NewService(&stubStorage{portfolio: store}, analysis, common.NewSilentLogger())

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), &models.Position{
			UserID: "user-a", Symbol: "RELIANCE.NS", Quantity: 1, BuyingPrice: 2400,
		})
		require.NoError(t, err)
	}

	_, err := svc.Summary(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Equal(t, 1, analysis.calls, "price lookups are de-duplicated per symbol")
}

func TestGet_MissingPosition(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.Get(context.Background(), "user-a", "missing-id")
	assert.True(t, errors.Is(err, interfaces.ErrNotFound))
}
