package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tasklight/tasklight/internal/auth/domain"
	"github.com/tasklight/tasklight/internal/auth/store"
	"github.com/tasklight/tasklight/pkg/cryptox"
	"github.com/tasklight/tasklight/pkg/jwtx"
)

var (
	ErrInvalidAccess  = errors.New("invalid_access_token")
	ErrInvalidRefresh = errors.New("invalid_refresh_token")
)

// DefaultMaxOutstanding caps the number of live refresh tokens per user.
// Issuing beyond the cap evicts the oldest token.
const DefaultMaxOutstanding = 5

// TokenService mints and verifies access tokens and manages the refresh
// token registry. Refresh tokens are stored by fingerprint only; the opaque
// value exists solely in the response that carried it to the client.
type TokenService struct {
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Store    store.Store

	Issuer         string
	AccessTTL      time.Duration
	MaxOutstanding int
}

func (s *TokenService) accessTTL() time.Duration {
	if s.AccessTTL <= 0 {
		return jwtx.DefaultAccessTokenTTL
	}
	return s.AccessTTL
}

func (s *TokenService) maxOutstanding() int {
	if s.MaxOutstanding <= 0 {
		return DefaultMaxOutstanding
	}
	return s.MaxOutstanding
}

// SignAccess mints a short-lived access token for the user.
func (s *TokenService) SignAccess(u domain.User) (string, error) {
	claims := jwtx.NewAccessClaims(u.ID, u.Email, s.accessTTL(), s.Issuer, time.Now().UTC())
	return s.Signer.Sign(claims)
}

// VerifyAccess validates an access token and returns the identity it
// asserts. All verification failures collapse into ErrInvalidAccess; the
// underlying cause is wrapped for logging, never for clients.
func (s *TokenService) VerifyAccess(token string) (domain.Identity, error) {
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrInvalidAccess, err)
	}
	return domain.Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

// IssueRefresh mints a new opaque refresh token for the user, records its
// fingerprint, and prunes the user's oldest tokens down to the cap. The
// insert and the prune share one transaction so a crash between them can't
// leave the user over the cap.
func (s *TokenService) IssueRefresh(ctx context.Context, userID string) (string, error) {
	var opaque string
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var txErr error
		opaque, txErr = s.issueRefreshTx(ctx, tx, userID)
		return txErr
	})
	if err != nil {
		return "", err
	}
	return opaque, nil
}

// issueRefreshTx is the transactional body of IssueRefresh, shared with
// RedeemAndRotate so rotation happens in a single transaction.
func (s *TokenService) issueRefreshTx(ctx context.Context, tx store.Tx, userID string) (string, error) {
	opaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}

	rec := domain.RefreshToken{
		TokenHash: cryptox.FingerprintToken(opaque),
		UserID:    userID,
		IssuedAt:  time.Now().UTC(),
	}
	if err := tx.RefreshTokens().CreateRefreshToken(ctx, rec); err != nil {
		return "", err
	}
	if err := tx.RefreshTokens().PruneUserRefreshTokens(ctx, userID, s.maxOutstanding()); err != nil {
		return "", err
	}
	return opaque, nil
}

// RedeemAndRotate consumes a refresh token and, if it was live, issues a
// fresh access/refresh pair for its user. The consume, the user load, and
// the replacement issue all happen in one transaction: a token is spent
// exactly once, and concurrent redemptions of the same token have a single
// winner. An unknown, already-spent, or orphaned token yields
// ErrInvalidRefresh.
func (s *TokenService) RedeemAndRotate(ctx context.Context, refreshToken string) (domain.TokenPair, string, error) {
	fingerprint := cryptox.FingerprintToken(refreshToken)

	var (
		pair   domain.TokenPair
		userID string
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		rec, err := tx.RefreshTokens().ConsumeRefreshToken(ctx, fingerprint)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}

		u, err := tx.Users().GetUserByID(ctx, rec.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Token outlived its user. Treat it like any other dead token.
				return fmt.Errorf("%w: user %s not found", ErrInvalidRefresh, rec.UserID)
			}
			return err
		}

		access, err := s.SignAccess(u)
		if err != nil {
			return err
		}
		next, err := s.issueRefreshTx(ctx, tx, u.ID)
		if err != nil {
			return err
		}

		pair = domain.TokenPair{
			AccessToken:  access,
			RefreshToken: next,
			ExpiresIn:    s.accessTTL(),
		}
		userID = u.ID
		return nil
	})
	if err != nil {
		return domain.TokenPair{}, "", err
	}
	return pair, userID, nil
}

// Revoke removes a refresh token from the registry. Revoking a token that
// is unknown or already spent is a no-op, not an error.
func (s *TokenService) Revoke(ctx context.Context, refreshToken string) error {
	return s.Store.RefreshTokens().DeleteRefreshToken(ctx, cryptox.FingerprintToken(refreshToken))
}

// OutstandingCount reports how many live refresh tokens the user holds.
func (s *TokenService) OutstandingCount(ctx context.Context, userID string) (int, error) {
	return s.Store.RefreshTokens().CountUserRefreshTokens(ctx, userID)
}
