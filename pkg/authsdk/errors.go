package authsdk

import (
	"fmt"
	"net/http"

	"github.com/tasklight/tasklight/pkg/httpx"
)

// APIError is a client-visible API failure: an HTTP status paired with the
// message carried in the {"error": ...} body. It is used on both ends: the
// server writes it, the client reconstructs it from responses.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`

	// RetryAfterSeconds is set on rate-limited errors only, mirroring the
	// Retry-After header.
	RetryAfterSeconds int `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// WriteError writes the error to w with the uniform JSON body.
func (e *APIError) WriteError(w http.ResponseWriter) {
	if e.RetryAfterSeconds > 0 {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", e.RetryAfterSeconds))
	}
	httpx.WriteError(w, e.StatusCode, e.Message)
}

var (
	ErrInvalidBody = &APIError{
		StatusCode: http.StatusBadRequest,
		Message:    "Invalid request",
	}
	ErrInvalidEmail = &APIError{
		StatusCode: http.StatusBadRequest,
		Message:    "Invalid email format",
	}
	ErrWeakPassword = &APIError{
		StatusCode: http.StatusBadRequest,
		Message:    "Password must be at least 8 characters and include letters and numbers",
	}
	ErrEmailInUse = &APIError{
		StatusCode: http.StatusBadRequest,
		Message:    "Email already registered",
	}
	// ErrInvalidCredentials deliberately reads the same for unknown email
	// and wrong password.
	ErrInvalidCredentials = &APIError{
		StatusCode: http.StatusUnauthorized,
		Message:    "Invalid credentials",
	}
	ErrInvalidRefreshToken = &APIError{
		StatusCode: http.StatusUnauthorized,
		Message:    "Invalid refresh token",
	}
	ErrMissingAuthHeader = &APIError{
		StatusCode: http.StatusUnauthorized,
		Message:    "Missing or invalid Authorization header",
	}
	ErrInvalidAccessToken = &APIError{
		StatusCode: http.StatusUnauthorized,
		Message:    "Invalid or expired token",
	}
	ErrServerError = &APIError{
		StatusCode: http.StatusInternalServerError,
		Message:    "Internal server error",
	}
)

// ErrTooManyAttempts builds the rate-limit error for the given retry delay.
// A fresh value each time since RetryAfterSeconds varies per response.
func ErrTooManyAttempts(retryAfterSeconds int) *APIError {
	return &APIError{
		StatusCode:        http.StatusTooManyRequests,
		Message:           "Too many login attempts. Please try again later.",
		RetryAfterSeconds: retryAfterSeconds,
	}
}
