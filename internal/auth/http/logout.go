package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tasklight/tasklight/internal/auth/service"
	"github.com/tasklight/tasklight/pkg/authsdk"
	"github.com/tasklight/tasklight/pkg/slogx"
)

// LogoutHandler serves POST /auth/logout. Revocation is idempotent, so the
// response is 204 whether or not the token was live.
type LogoutHandler struct {
	Sessions *service.SessionService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authsdk.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidBody.WriteError(w)
		return
	}

	if err := h.Sessions.Logout(ctx, req.RefreshToken); err != nil {
		slogx.FromContext(ctx).Error("logout failed", slog.Any("error", err))
		authsdk.ErrServerError.WriteError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
