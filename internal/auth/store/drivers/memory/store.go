// Package memory is the default store driver. It keeps everything in maps
// behind a single mutex, which is also what gives WithTx its atomicity:
// the lock is held for the whole transaction, so concurrent redemptions of
// the same refresh token serialize and exactly one sees it present.
package memory

import (
	"context"
	"sync"

	"github.com/tasklight/tasklight/internal/auth/domain"
	"github.com/tasklight/tasklight/internal/auth/store"
)

type Store struct {
	mu sync.Mutex

	users        map[string]domain.User // id -> user
	usersByEmail map[string]string      // normalized email -> id

	tokens map[string]domain.RefreshToken // fingerprint -> record
	seq    int64
}

func NewStore() *Store {
	return &Store{
		users:        make(map[string]domain.User),
		usersByEmail: make(map[string]string),
		tokens:       make(map[string]domain.RefreshToken),
	}
}

func (s *Store) Users() store.Users                 { return &usersRepo{s: s, locking: true} }
func (s *Store) RefreshTokens() store.RefreshTokens { return &refreshTokensRepo{s: s, locking: true} }

func (s *Store) ApplyMigrations() error { return nil } // nothing to migrate

func (s *Store) Close() error { return nil }

func (s *Store) Ping(ctx context.Context) error { return nil }

// WithTx runs fn while holding the store lock. There is no rollback: the
// driver relies on the service layer's transactional sequences not mixing
// destructive steps with fallible ones, which holds for every caller here
// (consume/create/prune cannot fail after a successful consume).
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&txStore{s: s})
}

// txStore exposes non-locking repos; the outer WithTx already holds the lock.
type txStore struct {
	s *Store
}

func (t *txStore) Users() store.Users                 { return &usersRepo{s: t.s} }
func (t *txStore) RefreshTokens() store.RefreshTokens { return &refreshTokensRepo{s: t.s} }

func (t *txStore) ApplyMigrations() error               { return nil }
func (t *txStore) Close() error                         { return nil }
func (t *txStore) Ping(ctx context.Context) error       { return nil }
func (t *txStore) Commit() error                        { return nil }
func (t *txStore) Rollback() error                      { return nil }
func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	// Nested transactions are not supported; reuse the held lock.
	return fn(t)
}
