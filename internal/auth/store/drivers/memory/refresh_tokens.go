package memory

import (
	"context"
	"sort"

	"github.com/tasklight/tasklight/internal/auth/domain"
	"github.com/tasklight/tasklight/internal/auth/store"
)

type refreshTokensRepo struct {
	s       *Store
	locking bool
}

func (r *refreshTokensRepo) lock() func() {
	if !r.locking {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	defer r.lock()()

	r.s.seq++
	t.Seq = r.s.seq
	r.s.tokens[t.TokenHash] = t
	return nil
}

func (r *refreshTokensRepo) ConsumeRefreshToken(ctx context.Context, hash string) (domain.RefreshToken, error) {
	defer r.lock()()

	t, ok := r.s.tokens[hash]
	if !ok {
		return domain.RefreshToken{}, store.ErrNotFound
	}
	delete(r.s.tokens, hash)
	return t, nil
}

func (r *refreshTokensRepo) DeleteRefreshToken(ctx context.Context, hash string) error {
	defer r.lock()()

	delete(r.s.tokens, hash)
	return nil
}

func (r *refreshTokensRepo) CountUserRefreshTokens(ctx context.Context, userID string) (int, error) {
	defer r.lock()()

	n := 0
	for _, t := range r.s.tokens {
		if t.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *refreshTokensRepo) PruneUserRefreshTokens(ctx context.Context, userID string, keep int) error {
	defer r.lock()()

	if keep < 0 {
		keep = 0
	}

	var mine []domain.RefreshToken
	for _, t := range r.s.tokens {
		if t.UserID == userID {
			mine = append(mine, t)
		}
	}
	if len(mine) <= keep {
		return nil
	}

	// Oldest first by issuance order
	sort.Slice(mine, func(i, j int) bool { return mine[i].Seq < mine[j].Seq })
	for _, t := range mine[:len(mine)-keep] {
		delete(r.s.tokens, t.TokenHash)
	}
	return nil
}
