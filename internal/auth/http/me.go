package http

import (
	"net/http"

	"github.com/tasklight/tasklight/pkg/authsdk"
	"github.com/tasklight/tasklight/pkg/httpx"
)

// MeHandler serves GET /auth/me. It runs behind RequireAuth, which put the
// caller's identity on the context.
type MeHandler struct{}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, email, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		authsdk.ErrMissingAuthHeader.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.UserResponse{
		ID:    userID,
		Email: email,
	})
}
