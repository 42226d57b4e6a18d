package service

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultLoginWindow is the fixed window over which login failures are
	// counted for a given origin|email scope.
	DefaultLoginWindow = time.Minute

	// DefaultMaxLoginFailures is the number of failed attempts tolerated
	// inside a window before further attempts are rejected.
	DefaultMaxLoginFailures = 5
)

// RateLimitedError is returned when a login scope has exhausted its failure
// budget for the current window. RetryAfterSeconds is always >= 1.
type RateLimitedError struct {
	RetryAfterSeconds int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate_limited: retry in %ds", e.RetryAfterSeconds)
}

// LoginLimiter counts failed login attempts per origin|email scope over a
// fixed window. It never expires successes, only failures: a successful
// login clears the scope outright, and an expired window is re-initialised
// on the next failure. State is in-process only.
type LoginLimiter struct {
	Window      time.Duration
	MaxFailures int

	// now is swappable in tests.
	now func() time.Time

	mu     sync.Mutex
	scopes map[string]*loginWindow
}

type loginWindow struct {
	fails   int
	resetAt time.Time
}

func NewLoginLimiter(window time.Duration, maxFailures int) *LoginLimiter {
	if window <= 0 {
		window = DefaultLoginWindow
	}
	if maxFailures <= 0 {
		maxFailures = DefaultMaxLoginFailures
	}
	return &LoginLimiter{
		Window:      window,
		MaxFailures: maxFailures,
		now:         time.Now,
		scopes:      make(map[string]*loginWindow),
	}
}

// LoginScope is a handle on one origin|email scope for the duration of a
// single login attempt.
type LoginScope struct {
	limiter *LoginLimiter
	key     string
}

// Scope returns the handle for the given origin and email. The email part
// of the key is lower-cased so that case variants of the same address share
// a budget.
func (l *LoginLimiter) Scope(origin, email string) LoginScope {
	return LoginScope{
		limiter: l,
		key:     origin + "|" + strings.ToLower(email),
	}
}

// Blocked reports whether the scope has already spent its failure budget
// for the current window.
func (s LoginScope) Blocked() bool {
	l := s.limiter
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.scopes[s.key]
	if !ok || !l.now().Before(w.resetAt) {
		return false
	}
	return w.fails >= l.MaxFailures
}

// RetryAfterSeconds returns the whole seconds until the scope's window
// resets, rounded up and never less than 1.
func (s LoginScope) RetryAfterSeconds() int {
	l := s.limiter
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.scopes[s.key]
	if !ok {
		return 1
	}
	remaining := w.resetAt.Sub(l.now())
	if remaining <= 0 {
		return 1
	}
	secs := int((remaining + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// RecordFailure counts one failed attempt. If the scope's window has
// expired (or the scope is new) a fresh window starts with this failure as
// its first.
func (s LoginScope) RecordFailure() {
	l := s.limiter
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.scopes[s.key]
	if !ok || !now.Before(w.resetAt) {
		l.scopes[s.key] = &loginWindow{fails: 1, resetAt: now.Add(l.Window)}
		return
	}
	w.fails++
}

// RecordSuccess clears the scope's failure count entirely.
func (s LoginScope) RecordSuccess() {
	l := s.limiter
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.scopes, s.key)
}
