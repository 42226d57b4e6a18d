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

// RefreshHandler serves POST /auth/refresh. The presented refresh token is
// always spent; on success the response carries its replacement.
type RefreshHandler struct {
	Sessions *service.SessionService
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authsdk.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidBody.WriteError(w)
		return
	}

	pair, userID, err := h.Sessions.Refresh(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			authsdk.ErrInvalidRefreshToken.WriteError(w)
			return
		}
		slogx.FromContext(ctx).Error("refresh failed", slog.Any("error", err))
		authsdk.ErrServerError.WriteError(w)
		return
	}

	if count, err := h.Sessions.OutstandingTokens(ctx, userID); err == nil {
		w.Header().Set("X-Refresh-Token-Count", strconv.Itoa(count))
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.RefreshResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		UserID:       userID,
	})
}
