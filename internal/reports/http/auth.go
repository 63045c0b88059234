package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Madjob23/ngo-reports/internal/reports/service"
	"github.com/Madjob23/ngo-reports/pkg/httpx"
	"github.com/Madjob23/ngo-reports/pkg/jwtx"
	"github.com/Madjob23/ngo-reports/pkg/slogx"
)

type AuthHandler struct {
	Sessions *service.SessionService
	Users    *service.UserService

	// SecureCookies marks the session cookie Secure; set in production
	// where the service sits behind TLS.
	SecureCookies bool
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin validates credentials, issues a session token and sets
// the auth cookie. Accepts a JSON body or a classic form post.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Malformed request body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeMessage(w, http.StatusBadRequest, "Malformed form body")
			return
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
	}

	user, err := h.Users.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	token, err := h.Sessions.Issue(user.ID)
	if err != nil {
		log.Error("failed to issue session token", "err", err)
		writeMessage(w, http.StatusInternalServerError, genericFailure)
		return
	}

	ttl := h.Sessions.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}
	http.SetCookie(w, &http.Cookie{
		Name:     httpx.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Token:   token,
		User:    toUserPayload(user.Sanitized()),
	})
}

// HandleLogout clears the session cookie with an expiry in the past.
// Tokens are self-contained, so there is nothing server-side to revoke.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     httpx.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	writeMessage(w, http.StatusOK, "Logged out")
}

// HandleMe returns the sanitized current user.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.Users)
	if !ok {
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userResponse{
		Success: true,
		User:    toUserPayload(user.Sanitized()),
	})
}

type changePasswordRequest struct {
	Password string `json:"password"`
}

// HandleChangePassword rewrites the caller's own password.
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.Users)
	if !ok {
		return
	}

	var req changePasswordRequest
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Malformed request body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeMessage(w, http.StatusBadRequest, "Malformed form body")
			return
		}
		req.Password = r.PostFormValue("password")
	}

	if err := h.Users.ChangePassword(r.Context(), user, req.Password); err != nil {
		writeServiceError(r, w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Password changed")
}

func isJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
