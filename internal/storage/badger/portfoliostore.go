package badger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/stockpilot/stockpilot/internal/common"
	"github.com/stockpilot/stockpilot/internal/interfaces"
	"github.com/stockpilot/stockpilot/internal/models"
)

type portfolioStorage struct {
	store  *Store
	logger *common.Logger
}

// NewPortfolioStorage creates a PortfolioStore backed by BadgerHold.
func NewPortfolioStorage(store *Store, logger *common.Logger) interfaces.PortfolioStore {
	return &portfolioStorage{store: store, logger: logger}
}

func (s *portfolioStorage) Get(_ context.Context, id string) (*models.Position, error) {
	var position models.Position
	err := s.store.db.Get(id, &position)
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get position %s: %w", id, err)
	}
	return &position, nil
}

func (s *portfolioStorage) Save(_ context.Context, position *models.Position) error {
	position.UpdatedAt = time.Now()
	if position.CreatedAt.IsZero() {
		position.CreatedAt = position.UpdatedAt
	}

	if err := s.store.db.Upsert(position.ID, position); err != nil {
		return fmt.Errorf("failed to save position %s: %w", position.ID, err)
	}
	s.logger.Debug().
		Str("id", position.ID).
		Str("symbol", position.Symbol).
		Str("status", string(position.Status)).
		Msg("Position saved")
	return nil
}

func (s *portfolioStorage) Delete(_ context.Context, id string) error {
	err := s.store.db.Delete(id, models.Position{})
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("failed to delete position %s: %w", id, err)
	}
	s.logger.Debug().Str("id", id).Msg("Position deleted")
	return nil
}

func (s *portfolioStorage) ListByUser(_ context.Context, userID string) ([]*models.Position, error) {
	var positions []models.Position
	if err := s.store.db.Find(&positions, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to list positions for user %s: %w", userID, err)
	}

	sort.Slice(positions, func(i, j int) bool {
		return positions[i].CreatedAt.Before(positions[j].CreatedAt)
	})

	result := make([]*models.Position, len(positions))
	for i := range positions {
		result[i] = &positions[i]
	}
	return result, nil
}
