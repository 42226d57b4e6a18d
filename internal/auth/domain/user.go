package domain

import "time"

// User is a registered account. EmailNormalized is the lower-cased form and
// is the uniqueness key; Email keeps whatever casing the user typed.
// Users are never mutated or deleted by this service.
type User struct {
	ID              string
	Email           string
	EmailNormalized string
	PasswordHash    string // argon2id encoded
	CreatedAt       time.Time
}

// Public strips the user down to the view that is allowed to leave the
// service. The password hash never crosses this boundary.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email}
}

// PublicUser is the externally visible user record.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
