package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tasklight/tasklight/internal/auth/service"
	"github.com/tasklight/tasklight/pkg/authsdk"
	"github.com/tasklight/tasklight/pkg/httpx"
	"github.com/tasklight/tasklight/pkg/slogx"
)

// RegisterHandler serves POST /auth/register.
type RegisterHandler struct {
	Sessions *service.SessionService
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authsdk.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidBody.WriteError(w)
		return
	}

	user, err := h.Sessions.Register(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			authsdk.ErrInvalidEmail.WriteError(w)
		case errors.Is(err, service.ErrInvalidPassword):
			authsdk.ErrWeakPassword.WriteError(w)
		case errors.Is(err, service.ErrEmailTaken):
			authsdk.ErrEmailInUse.WriteError(w)
		default:
			slogx.FromContext(ctx).Error("register failed", slog.Any("error", err))
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.UserResponse{
		ID:    user.ID,
		Email: user.Email,
	})
}
