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

type analysisStorage struct {
	store  *Store
	logger *common.Logger
}

// NewAnalysisStorage creates an AnalysisStore backed by BadgerHold.
func NewAnalysisStorage(store *Store, logger *common.Logger) interfaces.AnalysisStore {
	return &analysisStorage{store: store, logger: logger}
}

// GetIfFresh returns the cached record only while its expiry is in the
// future. A stale record is left in place; the next Upsert replaces it.
func (s *analysisStorage) GetIfFresh(_ context.Context, symbol string, now time.Time) (*models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	err := s.store.db.Get(symbol, &record)
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get analysis for %s: %w", symbol, err)
	}
	if !record.ExpiresAt.After(now) {
		s.logger.Debug().
			Str("symbol", symbol).
			Time("expired_at", record.ExpiresAt).
			Msg("Cached analysis expired")
		return nil, interfaces.ErrNotFound
	}
	return &record, nil
}

func (s *analysisStorage) Upsert(_ context.Context, record *models.AnalysisRecord) error {
	if err := s.store.db.Upsert(record.Symbol, record); err != nil {
		return fmt.Errorf("failed to save analysis for %s: %w", record.Symbol, err)
	}
	s.logger.Debug().
		Str("symbol", record.Symbol).
		Time("expires_at", record.ExpiresAt).
		Msg("Analysis cached")
	return nil
}

func (s *analysisStorage) Delete(_ context.Context, symbol string) error {
	err := s.store.db.Delete(symbol, models.AnalysisRecord{})
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("failed to delete analysis for %s: %w", symbol, err)
	}
	return nil
}
