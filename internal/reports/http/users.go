package http

import (
	"encoding/json"
	"net/http"

	"github.com/Madjob23/ngo-reports/internal/reports/domain"
	"github.com/Madjob23/ngo-reports/internal/reports/service"
	"github.com/Madjob23/ngo-reports/pkg/httpx"
)

type UsersHandler struct {
	Users *service.UserService
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	OrgID    string `json:"orgId"`
	Name     string `json:"name"`
}

// HandleCreate registers a new account. Admin only.
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actingUser, ok := requireUser(w, r, h.Users)
	if !ok {
		return
	}

	var req registerRequest
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
		req.Role = r.PostFormValue("role")
		req.OrgID = r.PostFormValue("orgId")
		req.Name = r.PostFormValue("name")
	}

	user, err := h.Users.Register(r.Context(), actingUser,
		req.Username, req.Password, domain.Role(req.Role), req.OrgID, req.Name)
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, userResponse{
		Success: true,
		User:    toUserPayload(user),
	})
}

// HandleList returns every account except the caller's. Admin only.
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actingUser, ok := requireUser(w, r, h.Users)
	if !ok {
		return
	}

	users, err := h.Users.ListAll(r.Context(), actingUser)
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	payloads := make([]userPayload, 0, len(users))
	for _, u := range users {
		payloads = append(payloads, toUserPayload(u))
	}

	httpx.WriteJSON(w, http.StatusOK, usersResponse{
		Success: true,
		Users:   payloads,
	})
}

// HandleDelete removes an account and, for org members, every report
// their organisation owns. Admin only; self-deletion is refused.
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actingUser, ok := requireUser(w, r, h.Users)
	if !ok {
		return
	}

	if err := h.Users.Delete(r.Context(), actingUser, r.PathValue("id")); err != nil {
		writeServiceError(r, w, err)
		return
	}

	writeMessage(w, http.StatusOK, "User deleted")
}
