package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/tasklight/tasklight/internal/auth/domain"
	"github.com/tasklight/tasklight/internal/auth/store"
	"github.com/tasklight/tasklight/pkg/cryptox"
	"github.com/tasklight/tasklight/pkg/idx"
)

var (
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrInvalidPassword = errors.New("invalid_password")
	ErrEmailTaken      = errors.New("email_taken")
)

// Deliberately loose: local@domain.tld shape only. Anything stricter just
// rejects real addresses.
var emailPattern = regexp.MustCompile(`.+@.+\..+`)

var (
	hasLetter = regexp.MustCompile(`[A-Za-z]`)
	hasDigit  = regexp.MustCompile(`[0-9]`)
)

// CredentialService owns user records: registration, lookup, and password
// verification. Nothing else touches the users repo.
type CredentialService struct {
	Store store.Store
}

// Register validates the email shape and password policy, hashes the
// password, and stores the new user. The returned view never includes the
// hash. Uniqueness is on the normalized (lower-cased) email and is enforced
// by the store, so concurrent duplicate registrations still end with
// exactly one winner.
func (s *CredentialService) Register(ctx context.Context, email, password string) (domain.PublicUser, error) {
	if !emailPattern.MatchString(email) {
		return domain.PublicUser{}, ErrInvalidEmail
	}
	if !validPassword(password) {
		return domain.PublicUser{}, ErrInvalidPassword
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.PublicUser{}, err
	}

	u := domain.User{
		ID:              idx.New().String(),
		Email:           email,
		EmailNormalized: strings.ToLower(email),
		PasswordHash:    hash,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.PublicUser{}, ErrEmailTaken
		}
		return domain.PublicUser{}, err
	}

	return u.Public(), nil
}

// FindByEmail looks a user up by email, case-insensitively. Pure lookup.
func (s *CredentialService) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.Store.Users().GetUserByEmail(ctx, strings.ToLower(email))
}

// GetUserByID fetches a user by id.
func (s *CredentialService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// VerifyPassword reports whether password matches the user's stored hash.
// Comparison happens inside cryptox in constant time.
func (s *CredentialService) VerifyPassword(u domain.User, password string) bool {
	return cryptox.VerifyPassword(password, u.PasswordHash) == nil
}

// validPassword enforces the registration policy: at least 8 characters
// with at least one letter and one digit.
func validPassword(pw string) bool {
	if len(pw) < 8 {
		return false
	}
	return hasLetter.MatchString(pw) && hasDigit.MatchString(pw)
}
