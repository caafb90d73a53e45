package store

import (
	"context"
	"testing"
	"time"

	"starter-auth/internal/model"

	"github.com/stretchr/testify/require"
)

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	u, err := m.CreateUser(ctx, &model.User{Email: "a@x.com", Auth: model.Credentialed{PasswordDigest: "d"}})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.False(t, u.CreatedAt.IsZero())

	_, err = m.CreateUser(ctx, &model.User{Email: "a@x.com", Auth: model.Credentialed{PasswordDigest: "d"}})
	require.ErrorIs(t, err, ErrDuplicate)

	_, err = m.CreateUser(ctx, &model.User{Email: "b@x.com"})
	require.ErrorIs(t, err, model.ErrNoAuthMethod)

	got, err := m.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	linked, err := m.LinkProviderID(ctx, u.ID, "apple.sub")
	require.NoError(t, err)
	require.Equal(t, model.Both{PasswordDigest: "d", ProviderID: "apple.sub"}, linked.Auth)

	// 已連結後不可覆寫
	_, err = m.LinkProviderID(ctx, u.ID, "other.sub")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = m.CreateUser(ctx, &model.User{Email: "c@x.com", Auth: model.ExternallyLinked{ProviderID: "apple.sub"}})
	require.ErrorIs(t, err, ErrDuplicate)

	_, err = m.GetUserByID(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, 1, m.UserCount())
}

func TestMemorySessionsCascade(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	err := m.CreateSession(ctx, &model.Session{ID: "s0", UserID: "ghost", ExpiresAt: time.Now().Add(time.Hour)})
	require.ErrorIs(t, err, ErrNotFound)

	u, err := m.CreateUser(ctx, &model.User{Email: "a@x.com", Auth: model.ExternallyLinked{ProviderID: "p"}})
	require.NoError(t, err)

	require.NoError(t, m.CreateSession(ctx, &model.Session{ID: "s1", UserID: u.ID, ExpiresAt: time.Now().Add(time.Hour)}))
	require.True(t, m.SetSessionExpiry("s1", time.Now().Add(-time.Hour)))
	s, err := m.GetSession(ctx, "s1")
	require.NoError(t, err)
	require.True(t, s.Expired(time.Now()))

	require.NoError(t, m.DeleteUser(ctx, u.ID))
	_, err = m.GetSession(ctx, "s1")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, m.DeleteSession(ctx, "s1"))
	require.Equal(t, 0, m.SessionCount())
}
