package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"go-temporal-storefront/checkout/storage"
)

func TestLoginCurrentLogout(t *testing.T) {
	ctx := context.Background()
	s := NewSessions(storage.NewMemory(), zaptest.NewLogger(t))

	_, err := s.Current(ctx)
	assert.ErrorIs(t, err, ErrNotSignedIn)

	u, err := s.Login(ctx, " Ada ", "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
	assert.NotEmpty(t, u.ID)

	cur, err := s.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, u, cur)

	require.NoError(t, s.Logout(ctx))
	_, err = s.Current(ctx)
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestLogin_Validation(t *testing.T) {
	ctx := context.Background()
	s := NewSessions(storage.NewMemory(), zaptest.NewLogger(t))

	_, err := s.Login(ctx, "", "ada@example.com")
	assert.ErrorIs(t, err, ErrInvalidName)

	for _, email := range []string{"", "ada", "ada@example", "a da@example.com", "@example.com"} {
		_, err := s.Login(ctx, "Ada", email)
		assert.ErrorIs(t, err, ErrInvalidEmail, email)
	}
}

func TestCurrent_Malformed(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	s := NewSessions(store, zaptest.NewLogger(t))

	for _, raw := range []string{"null", "{", `{"name":"no email"}`} {
		require.NoError(t, store.Set(ctx, storage.KeySession, raw))
		_, err := s.Current(ctx)
		assert.ErrorIs(t, err, ErrNotSignedIn, raw)
	}
}
