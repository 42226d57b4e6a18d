package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tasklight/tasklight/internal/auth/domain"
	"github.com/tasklight/tasklight/internal/auth/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedUser(t *testing.T, st *Store, id, email string) {
	t.Helper()
	require.NoError(t, st.Users().CreateUser(context.Background(), domain.User{
		ID:              id,
		Email:           email,
		EmailNormalized: email,
		PasswordHash:    "$argon2id$stub",
		CreatedAt:       time.Now().UTC(),
	}))
}

func seedToken(t *testing.T, st *Store, hash, userID string) {
	t.Helper()
	require.NoError(t, st.RefreshTokens().CreateRefreshToken(context.Background(), domain.RefreshToken{
		TokenHash: hash,
		UserID:    userID,
		IssuedAt:  time.Now().UTC(),
	}))
}

func TestSqliteUsers(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	seedUser(t, st, "u1", "alice@example.com")

	t.Run("fetch by id and email", func(t *testing.T) {
		byID, err := st.Users().GetUserByID(ctx, "u1")
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", byID.Email)

		byEmail, err := st.Users().GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, "u1", byEmail.ID)
	})

	t.Run("duplicate normalized email conflicts", func(t *testing.T) {
		err := st.Users().CreateUser(ctx, domain.User{
			ID:              "u2",
			Email:           "ALICE@example.com",
			EmailNormalized: "alice@example.com",
			PasswordHash:    "$argon2id$stub",
			CreatedAt:       time.Now().UTC(),
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("missing user maps to ErrNotFound", func(t *testing.T) {
		_, err := st.Users().GetUserByID(ctx, "nope")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("count", func(t *testing.T) {
		n, err := st.Users().CountUsers(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(1), n)
	})
}

func TestSqliteRefreshTokens(t *testing.T) {
	ctx := context.Background()

	t.Run("consume removes the token in one statement", func(t *testing.T) {
		st := newTestStore(t)
		seedUser(t, st, "u1", "alice@example.com")
		seedToken(t, st, "h1", "u1")

		rec, err := st.RefreshTokens().ConsumeRefreshToken(ctx, "h1")
		require.NoError(t, err)
		require.Equal(t, "u1", rec.UserID)
		require.NotZero(t, rec.Seq)

		_, err = st.RefreshTokens().ConsumeRefreshToken(ctx, "h1")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		st := newTestStore(t)
		seedUser(t, st, "u1", "alice@example.com")
		seedToken(t, st, "h1", "u1")

		require.NoError(t, st.RefreshTokens().DeleteRefreshToken(ctx, "h1"))
		require.NoError(t, st.RefreshTokens().DeleteRefreshToken(ctx, "h1"))
		require.NoError(t, st.RefreshTokens().DeleteRefreshToken(ctx, "never-stored"))
	})

	t.Run("prune drops oldest first", func(t *testing.T) {
		st := newTestStore(t)
		seedUser(t, st, "u1", "alice@example.com")
		for i := 1; i <= 7; i++ {
			seedToken(t, st, fmt.Sprintf("h%d", i), "u1")
		}

		require.NoError(t, st.RefreshTokens().PruneUserRefreshTokens(ctx, "u1", 5))

		n, err := st.RefreshTokens().CountUserRefreshTokens(ctx, "u1")
		require.NoError(t, err)
		require.Equal(t, 5, n)

		_, err = st.RefreshTokens().ConsumeRefreshToken(ctx, "h1")
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = st.RefreshTokens().ConsumeRefreshToken(ctx, "h3")
		require.NoError(t, err)
	})

	t.Run("prune only touches the given user", func(t *testing.T) {
		st := newTestStore(t)
		seedUser(t, st, "alice", "alice@example.com")
		seedUser(t, st, "bob", "bob@example.com")
		seedToken(t, st, "a1", "alice")
		for i := 1; i <= 6; i++ {
			seedToken(t, st, fmt.Sprintf("b%d", i), "bob")
		}

		require.NoError(t, st.RefreshTokens().PruneUserRefreshTokens(ctx, "bob", 5))

		n, err := st.RefreshTokens().CountUserRefreshTokens(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, 1, n)
	})

	t.Run("deleting a user cascades to their tokens", func(t *testing.T) {
		st := newTestStore(t)
		seedUser(t, st, "u1", "alice@example.com")
		seedToken(t, st, "h1", "u1")

		_, err := st.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, "u1")
		require.NoError(t, err)

		_, err = st.RefreshTokens().ConsumeRefreshToken(ctx, "h1")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestSqliteWithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commit persists writes", func(t *testing.T) {
		st := newTestStore(t)
		seedUser(t, st, "u1", "alice@example.com")

		err := st.WithTx(ctx, func(tx store.Tx) error {
			return tx.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
				TokenHash: "h1",
				UserID:    "u1",
				IssuedAt:  time.Now().UTC(),
			})
		})
		require.NoError(t, err)

		n, err := st.RefreshTokens().CountUserRefreshTokens(ctx, "u1")
		require.NoError(t, err)
		require.Equal(t, 1, n)
	})

	t.Run("fn error rolls back", func(t *testing.T) {
		st := newTestStore(t)
		seedUser(t, st, "u1", "alice@example.com")
		sentinel := fmt.Errorf("boom")

		err := st.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
				TokenHash: "h1",
				UserID:    "u1",
				IssuedAt:  time.Now().UTC(),
			}); err != nil {
				return err
			}
			return sentinel
		})
		require.ErrorIs(t, err, sentinel)

		n, err := st.RefreshTokens().CountUserRefreshTokens(ctx, "u1")
		require.NoError(t, err)
		require.Equal(t, 0, n)
	})
}
