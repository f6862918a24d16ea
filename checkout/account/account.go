// Package account tracks the signed-in storefront user.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-temporal-storefront/checkout/storage"
)

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrInvalidName  = errors.New("name is required")
	ErrNotSignedIn  = errors.New("not signed in")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User is the session identity
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Sessions is the only writer of storage.KeySession.
type Sessions struct {
	store  storage.Store
	logger *zap.Logger
}

func NewSessions(store storage.Store, logger *zap.Logger) *Sessions {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sessions{store: store, logger: logger}
}

// ValidEmail reports whether email looks like an address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Login stores a new session for name and email.
func (s *Sessions) Login(ctx context.Context, name, email string) (User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return User{}, ErrInvalidName
	}
	if !ValidEmail(email) {
		return User{}, ErrInvalidEmail
	}

	u := User{ID: uuid.NewString(), Name: name, Email: email}
	data, err := json.Marshal(u)
	if err != nil {
		return User{}, fmt.Errorf("encode session: %w", err)
	}
	if err := s.store.Set(ctx, storage.KeySession, string(data)); err != nil {
		return User{}, fmt.Errorf("persist session: %w", err)
	}
	return u, nil
}

// Current returns the signed-in user, or ErrNotSignedIn when there is none
// or the stored session is unreadable.
func (s *Sessions) Current(ctx context.Context) (User, error) {
	raw, ok, err := s.store.Get(ctx, storage.KeySession)
	if err != nil {
		s.logger.Warn("Failed to read session", zap.Error(err))
		return User{}, ErrNotSignedIn
	}
	if !ok || raw == "" || raw == "null" {
		return User{}, ErrNotSignedIn
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.Email == "" {
		s.logger.Warn("Discarding malformed session", zap.Error(err))
		return User{}, ErrNotSignedIn
	}
	return u, nil
}

// Logout forgets the current user.
func (s *Sessions) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, storage.KeySession); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
