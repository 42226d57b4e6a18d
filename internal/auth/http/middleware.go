package http

import (
	"net/http"
	"strings"

	"github.com/tasklight/tasklight/internal/auth/service"
	"github.com/tasklight/tasklight/pkg/authsdk"
	"github.com/tasklight/tasklight/pkg/httpx"
)

// RequireAuth guards a route behind a bearer access token. On success the
// caller's identity is placed on the request context for the handler.
func RequireAuth(sessions *service.SessionService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
			if !found || scheme != "Bearer" || token == "" {
				authsdk.ErrMissingAuthHeader.WriteError(w)
				return
			}

			id, err := sessions.Authenticate(token)
			if err != nil {
				authsdk.ErrInvalidAccessToken.WriteError(w)
				return
			}

			ctx := httpx.WithIdentity(r.Context(), id.UserID, id.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
