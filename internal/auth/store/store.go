package store

import (
	"context"
	"errors"

	"github.com/tasklight/tasklight/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (memory, sqlite)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens

	ApplyMigrations() error

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// Multi-step token operations (rotation, issue+prune) MUST run inside
	// WithTx so that concurrent redemptions of the same token serialize and
	// exactly one of them observes the token as present.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backing storage is still reachable.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by app via ULID).
	// Fails with ErrAlreadyExists when the normalized email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks a user up by normalized (lower-cased) email.
	GetUserByEmail(ctx context.Context, emailNormalized string) (domain.User, error)

	// CountUsers returns the total number of registered users.
	CountUsers(ctx context.Context) (int64, error)
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token record. The driver
	// assigns Seq so that issuance order is total within the store.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// ConsumeRefreshToken atomically finds and removes a token by its
	// fingerprint, returning the removed record. ErrNotFound when the token
	// was never issued, already redeemed, revoked, or evicted; callers
	// cannot tell these apart.
	ConsumeRefreshToken(ctx context.Context, hash string) (domain.RefreshToken, error)

	// DeleteRefreshToken removes a token by fingerprint if present.
	// Deleting an unknown token is not an error (logout is idempotent).
	DeleteRefreshToken(ctx context.Context, hash string) error

	// CountUserRefreshTokens returns how many tokens a user has outstanding.
	CountUserRefreshTokens(ctx context.Context, userID string) (int, error)

	// PruneUserRefreshTokens deletes the user's oldest tokens (lowest Seq)
	// until at most keep remain.
	PruneUserRefreshTokens(ctx context.Context, userID string, keep int) error
}
