package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tasklight/tasklight/internal/auth/domain"
	"github.com/tasklight/tasklight/internal/auth/store"
	"github.com/tasklight/tasklight/pkg/slogx"
)

// ErrInvalidCredentials covers both unknown-email and wrong-password logins
// so a caller can't probe which addresses are registered.
var ErrInvalidCredentials = errors.New("invalid_credentials")

// LoginResult is a successful login: the token pair plus the public view of
// the user who logged in.
type LoginResult struct {
	domain.TokenPair
	User domain.PublicUser
}

// SessionService is the facade the transport layer talks to. It composes
// credentials, tokens, and the login limiter into the account lifecycle:
// register, login, refresh, logout, authenticate.
type SessionService struct {
	Credentials *CredentialService
	Tokens      *TokenService
	Limiter     *LoginLimiter
}

// Register creates a new account.
func (s *SessionService) Register(ctx context.Context, email, password string) (domain.PublicUser, error) {
	return s.Credentials.Register(ctx, email, password)
}

// Login authenticates email/password under the origin's rate-limit scope
// and issues a token pair. A blocked scope is rejected before any lookup,
// so hammering a throttled address does no credential work at all. Failed
// attempts count against the scope; a success clears it.
func (s *SessionService) Login(ctx context.Context, origin, email, password string) (LoginResult, error) {
	scope := s.Limiter.Scope(origin, email)
	if scope.Blocked() {
		return LoginResult{}, &RateLimitedError{RetryAfterSeconds: scope.RetryAfterSeconds()}
	}

	u, err := s.Credentials.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			scope.RecordFailure()
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if !s.Credentials.VerifyPassword(u, password) {
		scope.RecordFailure()
		return LoginResult{}, ErrInvalidCredentials
	}
	scope.RecordSuccess()

	access, err := s.Tokens.SignAccess(u)
	if err != nil {
		return LoginResult{}, err
	}
	refresh, err := s.Tokens.IssueRefresh(ctx, u.ID)
	if err != nil {
		return LoginResult{}, err
	}

	slogx.FromContext(ctx).Debug("login succeeded", slog.String("user_id", u.ID))

	return LoginResult{
		TokenPair: domain.TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresIn:    s.Tokens.accessTTL(),
		},
		User: u.Public(),
	}, nil
}

// Refresh rotates a refresh token: the presented token is spent and a new
// pair is issued for its user. Returns the pair and the user's id.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, string, error) {
	return s.Tokens.RedeemAndRotate(ctx, refreshToken)
}

// Logout revokes a refresh token. Idempotent.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) error {
	return s.Tokens.Revoke(ctx, refreshToken)
}

// Authenticate validates a bearer access token and returns the identity it
// asserts.
func (s *SessionService) Authenticate(token string) (domain.Identity, error) {
	return s.Tokens.VerifyAccess(token)
}

// OutstandingTokens reports the user's live refresh token count. Surfaced
// as an advisory header by the transport layer.
func (s *SessionService) OutstandingTokens(ctx context.Context, userID string) (int, error) {
	return s.Tokens.OutstandingCount(ctx, userID)
}
