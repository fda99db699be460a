package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/stockpilot/stockpilot/internal/common"
	"github.com/stockpilot/stockpilot/internal/interfaces"
	"github.com/stockpilot/stockpilot/internal/models"
)

type indicatorStorage struct {
	store  *Store
	logger *common.Logger
}

// NewIndicatorStorage creates an IndicatorStore backed by BadgerHold.
func NewIndicatorStorage(store *Store, logger *common.Logger) interfaces.IndicatorStore {
	return &indicatorStorage{store: store, logger: logger}
}

func (s *indicatorStorage) Get(_ context.Context, symbol string) (*models.IndicatorSet, error) {
	var set models.IndicatorSet
	err := s.store.db.Get(symbol, &set)
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get indicators for %s: %w", symbol, err)
	}
	return &set, nil
}

func (s *indicatorStorage) Upsert(_ context.Context, set *models.IndicatorSet) error {
	if err := s.store.db.Upsert(set.Symbol, set); err != nil {
		return fmt.Errorf("failed to save indicators for %s: %w", set.Symbol, err)
	}
	return nil
}
