package domain

import "time"

// TokenPair is what a successful login or refresh returns: the short-lived
// access token (JWT) and the opaque single-use refresh token.
type TokenPair struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	ExpiresIn    time.Duration `json:"-"` // access token lifetime
}

// RefreshToken models a stored refresh token record. Only the SHA-256
// fingerprint of the opaque token is persisted. Seq is a monotonically
// increasing issuance counter per store; "oldest token for a user" is
// derived by ordering on it, so there is no separate queue structure that
// could drift out of sync with the registry.
type RefreshToken struct {
	TokenHash string
	UserID    string
	Seq       int64
	IssuedAt  time.Time
}

// Identity is the verified subject of an access token.
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
}
