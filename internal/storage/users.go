package storage

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/eduportal/backend/internal/models"
)

// Users returns every stored account.
func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users(ctx)
}

func (s *Store) users(ctx context.Context) ([]models.User, error) {
	users, found, err := readRows[models.User](ctx, s, KeyUsers)
	if err != nil {
		return nil, err
	}
	if !found {
		return []models.User{}, nil
	}
	return users, nil
}

func (s *Store) saveUsers(ctx context.Context, users []models.User) error {
	maxID := maxUserID(users)
	normalized := make([]models.User, len(users))
	for i, u := range users {
		if u.ID == 0 {
			u.ID = s.nextID(maxID)
			maxID = u.ID
		}
		normalized[i] = normalizeUser(u)
	}
	return s.writeSlot(ctx, KeyUsers, normalized)
}

// normalizeUser trims and lowercases the email and fills in a missing role or status.
func normalizeUser(u models.User) models.User {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = normalizeEmail(u.Email)
	if !u.Role.Valid() {
		u.Role = models.RoleUser
	}
	if !u.Status.Valid() {
		u.Status = models.UserApproved
	}
	return u
}

// UserByEmail looks an account up by normalized email. It returns nil when none matches.
func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return nil, err
	}
	email = normalizeEmail(email)
	for i := range users {
		if normalizeEmail(users[i].Email) == email {
			return &users[i], nil
		}
	}
	return nil, nil
}

// RegisterUser creates an account. A normalized email that already exists is refused.
// The new account is also written to the legacy single-user slot.
func (s *Store) RegisterUser(ctx context.Context, in models.SignupInput) (Result, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return s.validationFailure(err), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users(ctx)
	if err != nil {
		return Result{}, err
	}
	for _, u := range users {
		if normalizeEmail(u.Email) == in.Email {
			return duplicate("This email is already registered. Please login."), nil
		}
	}

	user := normalizeUser(models.User{
		ID:       s.nextID(maxUserID(users)),
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Role:     models.ParseRole(in.Role),
		Status:   models.UserApproved,
	})
	if err := s.saveUsers(ctx, append(users, user)); err != nil {
		return Result{}, err
	}
	if err := s.writeSlot(ctx, KeyLegacyUser, user); err != nil {
		return Result{}, err
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	s.notify(ctx, models.EventUserRegistered, user.Email, user.ToPublic())
	return Result{OK: true, User: &user}, nil
}

// AuthenticateUser returns the account whose normalized email and password match exactly,
// or nil when there is none.
func (s *Store) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return nil, err
	}
	email = normalizeEmail(email)
	for i := range users {
		if normalizeEmail(users[i].Email) == email && users[i].Password == password {
			return &users[i], nil
		}
	}
	return nil, nil
}

// UpdateUserStatus sets the status of the account with the given id.
func (s *Store) UpdateUserStatus(ctx context.Context, id int64, status models.UserStatus) (Result, error) {
	if !status.Valid() {
		return fail("Status must be Approved or Blocked."), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users(ctx)
	if err != nil {
		return Result{}, err
	}
	idx := -1
	for i := range users {
		if users[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return notFound("User not found."), nil
	}

	users[idx].Status = status
	if err := s.saveUsers(ctx, users); err != nil {
		return Result{}, err
	}

	updated := users[idx]
	s.logger.Info("user status changed", zap.Int64("user_id", id), zap.String("status", string(status)))
	s.notify(ctx, models.EventUserStatusChanged, updated.Email, updated.ToPublic())
	return Result{OK: true, User: &updated}, nil
}

func maxUserID(users []models.User) int64 {
	var max int64
	for _, u := range users {
		if u.ID > max {
			max = u.ID
		}
	}
	return max
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
