// Package storage provides the top-level StorageManager coordinating the
// typed stores over a single BadgerHold database.
package storage

import (
	"fmt"

	"github.com/stockpilot/stockpilot/internal/common"
	"github.com/stockpilot/stockpilot/internal/interfaces"
	"github.com/stockpilot/stockpilot/internal/storage/badger"
)

// Manager implements interfaces.StorageManager over a shared badger store.
type Manager struct {
	store      *badger.Store
	marketData interfaces.MarketDataStore
	analysis   interfaces.AnalysisStore
	indicators interfaces.IndicatorStore
	portfolio  interfaces.PortfolioStore
	users      interfaces.UserStore
	logger     *common.Logger
}

// NewManager opens the badger database and wires the typed stores.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	store, err := badger.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create badger store: %w", err)
	}

	logger.Info().
		Str("path", config.Storage.Path).
		Msg("Storage manager initialized")

	return &Manager{
		store:      store,
		marketData: badger.NewMarketDataStorage(store, logger),
		analysis:   badger.NewAnalysisStorage(store, logger),
		indicators: badger.NewIndicatorStorage(store, logger),
		portfolio:  badger.NewPortfolioStorage(store, logger),
		users:      badger.NewUserStorage(store, logger),
		logger:     logger,
	}, nil
}

func (m *Manager) MarketDataStore() interfaces.MarketDataStore {
	return m.marketData
}

func (m *Manager) AnalysisStore() interfaces.AnalysisStore {
	return m.analysis
}

func (m *Manager) IndicatorStore() interfaces.IndicatorStore {
	return m.indicators
}

func (m *Manager) PortfolioStore() interfaces.PortfolioStore {
	return m.portfolio
}

func (m *Manager) UserStore() interfaces.UserStore {
	return m.users
}

// Close closes the underlying database.
func (m *Manager) Close() error {
	return m.store.Close()
}
