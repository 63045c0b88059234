package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/Madjob23/ngo-reports/pkg/jwtx"
	"github.com/Madjob23/ngo-reports/pkg/slogx"
)

const (
	// SessionCookieName is the cookie the session token travels in.
	SessionCookieName = "auth-token"

	// LoginPath is where unauthenticated browser requests are sent.
	LoginPath = "/login"
)

// SessionMiddleware verifies the session cookie and injects the user id
// into the request context. Requests without a valid session are turned
// away: browser-style requests (Accept: text/html) get a redirect to
// the login page carrying a "from" return path, API requests get a 401
// envelope. Expired, malformed and tampered tokens are all treated the
// same way.
func SessionMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				rejectUnauthenticated(w, r)
				return
			}

			claims, err := v.Verify(cookie.Value)
			if err != nil {
				log.Warn("session verify failed", "err", err)
				rejectUnauthenticated(w, r)
				return
			}
			if claims.Subject == "" {
				rejectUnauthenticated(w, r)
				return
			}

			ctx = context.WithValue(ctx, CtxKeyUserID, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func rejectUnauthenticated(w http.ResponseWriter, r *http.Request) {
	if wantsHTML(r) {
		to := LoginPath + "?from=" + url.QueryEscape(r.URL.Path)
		http.Redirect(w, r, to, http.StatusFound)
		return
	}

	WriteJSON(w, http.StatusUnauthorized, map[string]any{
		"success": false,
		"message": "Not authenticated",
	})
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
