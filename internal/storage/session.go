package storage

import (
	"context"
	"fmt"

	"github.com/eduportal/backend/internal/models"
)

// CurrentUser returns the account stored as the active session, or nil.
func (s *Store) CurrentUser(ctx context.Context) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var user models.User
	found, err := s.readSlot(ctx, KeyCurrentUser, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

// SetCurrentUser stores user as the active session. A nil user clears it.
func (s *Store) SetCurrentUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user == nil {
		if err := s.kv.Delete(ctx, KeyCurrentUser); err != nil {
			return fmt.Errorf("clear %s: %w", KeyCurrentUser, err)
		}
		return nil
	}
	return s.writeSlot(ctx, KeyCurrentUser, normalizeUser(*user))
}
