package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCredentialService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a user and returns the public view", func(t *testing.T) {
		env := newTestEnv(t)

		pub, err := env.Sessions.Credentials.Register(ctx, "alice@example.com", "hunter2abc1")
		require.NoError(t, err)
		require.NotEmpty(t, pub.ID)
		require.Equal(t, "alice@example.com", pub.Email)

		u, err := env.Sessions.Credentials.GetUserByID(ctx, pub.ID)
		require.NoError(t, err)
		require.NotEmpty(t, u.PasswordHash)
		require.NotEqual(t, "hunter2abc1", u.PasswordHash)
	})

	t.Run("rejects malformed emails", func(t *testing.T) {
		env := newTestEnv(t)

		for _, email := range []string{"", "plainaddress", "missing@tld", "@example.com"} {
			_, err := env.Sessions.Credentials.Register(ctx, email, "hunter2abc1")
			require.ErrorIs(t, err, ErrInvalidEmail, "email %q", email)
		}
	})

	t.Run("rejects weak passwords", func(t *testing.T) {
		env := newTestEnv(t)

		for _, pw := range []string{"", "short1", "allletters", "12345678"} {
			_, err := env.Sessions.Credentials.Register(ctx, "bob@example.com", pw)
			require.ErrorIs(t, err, ErrInvalidPassword, "password %q", pw)
		}
	})

	t.Run("rejects duplicate emails case-insensitively", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.Sessions.Credentials.Register(ctx, "carol@example.com", "password1")
		require.NoError(t, err)

		_, err = env.Sessions.Credentials.Register(ctx, "Carol@Example.COM", "password2")
		require.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestCredentialService_FindByEmail(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	pub, err := env.Sessions.Credentials.Register(ctx, "Dora@Example.com", "password1")
	require.NoError(t, err)

	t.Run("matches regardless of case", func(t *testing.T) {
		u, err := env.Sessions.Credentials.FindByEmail(ctx, "dora@EXAMPLE.com")
		require.NoError(t, err)
		require.Equal(t, pub.ID, u.ID)
		// Original casing survives.
		require.Equal(t, "Dora@Example.com", u.Email)
	})

	t.Run("verifies the stored password", func(t *testing.T) {
		u, err := env.Sessions.Credentials.FindByEmail(ctx, "dora@example.com")
		require.NoError(t, err)
		require.True(t, env.Sessions.Credentials.VerifyPassword(u, "password1"))
		require.False(t, env.Sessions.Credentials.VerifyPassword(u, "password2"))
	})
}
