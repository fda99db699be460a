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

type userStorage struct {
	store  *Store
	logger *common.Logger
}

// NewUserStorage creates a UserStore backed by BadgerHold.
func NewUserStorage(store *Store, logger *common.Logger) interfaces.UserStore {
	return &userStorage{store: store, logger: logger}
}

func (s *userStorage) Get(_ context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.store.db.Get(id, &user)
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return &user, nil
}

func (s *userStorage) GetByUsername(_ context.Context, username string) (*models.User, error) {
	var users []models.User
	if err := s.store.db.Find(&users, badgerhold.Where("Username").Eq(username)); err != nil {
		return nil, fmt.Errorf("failed to find user %s: %w", username, err)
	}
	if len(users) == 0 {
		return nil, interfaces.ErrNotFound
	}
	return &users[0], nil
}

func (s *userStorage) Save(_ context.Context, user *models.User) error {
	if err := s.store.db.Upsert(user.ID, user); err != nil {
		return fmt.Errorf("failed to save user %s: %w", user.Username, err)
	}
	s.logger.Debug().Str("username", user.Username).Msg("User saved")
	return nil
}
