package httpx

import "context"

type ctxKey string

// CtxKeyUserID holds the authenticated user's id once the session
// middleware has verified the cookie.
const CtxKeyUserID ctxKey = "user_id"

// UserIDFromContext returns the authenticated user id, or "" when the
// request carried no valid session.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}
