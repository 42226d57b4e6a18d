package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tasklight/tasklight/internal/auth/service"
	"github.com/tasklight/tasklight/pkg/authsdk"
	"github.com/tasklight/tasklight/pkg/httpx"
	"github.com/tasklight/tasklight/pkg/slogx"
)

// LoginHandler serves POST /auth/login. Throttling is per origin|email via
// the service's failure-counting limiter; the origin is the client IP.
type LoginHandler struct {
	Sessions *service.SessionService
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidBody.WriteError(w)
		return
	}

	origin := httpx.IPKeyExtractor(r)

	res, err := h.Sessions.Login(ctx, origin, req.Email, req.Password)
	if err != nil {
		var rl *service.RateLimitedError
		switch {
		case errors.As(err, &rl):
			authsdk.ErrTooManyAttempts(rl.RetryAfterSeconds).WriteError(w)
		case errors.Is(err, service.ErrInvalidCredentials):
			authsdk.ErrInvalidCredentials.WriteError(w)
		default:
			slogx.FromContext(ctx).Error("login failed", slog.Any("error", err))
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	if count, err := h.Sessions.OutstandingTokens(ctx, res.User.ID); err == nil {
		w.Header().Set("X-Refresh-Token-Count", strconv.Itoa(count))
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User: authsdk.UserResponse{
			ID:    res.User.ID,
			Email: res.User.Email,
		},
	})
}
