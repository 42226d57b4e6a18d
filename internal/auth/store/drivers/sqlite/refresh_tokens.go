package sqlite

import (
	"context"

	"github.com/tasklight/tasklight/internal/auth/domain"
)

type refreshTokensRepo struct {
	db querier
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	// seq is assigned by AUTOINCREMENT so issuance order is total.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (token_hash, user_id, issued_at)
		VALUES (?, ?, ?)`,
		t.TokenHash, t.UserID, t.IssuedAt,
	)
	return mapConflict(err)
}

func (r *refreshTokensRepo) ConsumeRefreshToken(ctx context.Context, hash string) (domain.RefreshToken, error) {
	// Single-statement find-and-remove; no window where the token is
	// observable in one place but not the other.
	row := r.db.QueryRowContext(ctx, `
		DELETE FROM refresh_tokens WHERE token_hash = ?
		RETURNING token_hash, user_id, seq, issued_at`, hash)

	var t domain.RefreshToken
	if err := row.Scan(&t.TokenHash, &t.UserID, &t.Seq, &t.IssuedAt); err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *refreshTokensRepo) DeleteRefreshToken(ctx context.Context, hash string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token_hash = ?`, hash)
	return err
}

func (r *refreshTokensRepo) CountUserRefreshTokens(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM refresh_tokens WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

func (r *refreshTokensRepo) PruneUserRefreshTokens(ctx context.Context, userID string, keep int) error {
	if keep < 0 {
		keep = 0
	}
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM refresh_tokens
		WHERE user_id = ?
		  AND seq NOT IN (
			SELECT seq FROM refresh_tokens
			WHERE user_id = ?
			ORDER BY seq DESC
			LIMIT ?
		  )`, userID, userID, keep)
	return err
}
