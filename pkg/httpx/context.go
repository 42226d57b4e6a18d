package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyEmail  ctxKey = "email"
)

// WithIdentity stores the verified bearer subject in the request context.
func WithIdentity(ctx context.Context, userID, email string) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, userID)
	return context.WithValue(ctx, CtxKeyEmail, email)
}

// IdentityFromContext returns the verified subject, or ok=false when the
// request never passed the bearer guard.
func IdentityFromContext(ctx context.Context) (userID, email string, ok bool) {
	userID, ok = ctx.Value(CtxKeyUserID).(string)
	if !ok || userID == "" {
		return "", "", false
	}
	email, _ = ctx.Value(CtxKeyEmail).(string)
	return userID, email, true
}
