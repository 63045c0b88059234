package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Madjob23/ngo-reports/internal/reports/domain"
	"github.com/Madjob23/ngo-reports/internal/reports/service"
	"github.com/Madjob23/ngo-reports/pkg/httpx"
	"github.com/Madjob23/ngo-reports/pkg/slogx"
	"github.com/shopspring/decimal"
)

// genericFailure is what callers see when the backing store misbehaves.
// Internal detail stays in the logs.
const genericFailure = "Something went wrong. Please try again."

type userPayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	OrgID    string `json:"orgId,omitempty"`
	Name     string `json:"name"`
}

type reportPayload struct {
	ID              string          `json:"id"`
	OrgID           string          `json:"orgId"`
	Month           string          `json:"month"`
	PeopleHelped    int64           `json:"peopleHelped"`
	EventsConducted int64           `json:"eventsConducted"`
	FundsUtilized   decimal.Decimal `json:"fundsUtilized"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type summaryPayload struct {
	Month                string          `json:"month"`
	TotalOrgs            int64           `json:"totalOrgs"`
	TotalPeopleHelped    int64           `json:"totalPeopleHelped"`
	TotalEventsConducted int64           `json:"totalEventsConducted"`
	TotalFundsUtilized   decimal.Decimal `json:"totalFundsUtilized"`
}

func toUserPayload(u domain.User) userPayload {
	return userPayload{
		ID:       u.ID,
		Username: u.Username,
		Role:     string(u.Role),
		OrgID:    u.OrgID,
		Name:     u.Name,
	}
}

func toReportPayload(r domain.Report) reportPayload {
	return reportPayload{
		ID:              r.ID,
		OrgID:           r.OrgID,
		Month:           r.Month,
		PeopleHelped:    r.PeopleHelped,
		EventsConducted: r.EventsConducted,
		FundsUtilized:   r.FundsUtilized,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toReportPayloads(reports []domain.Report) []reportPayload {
	out := make([]reportPayload, 0, len(reports))
	for _, r := range reports {
		out = append(out, toReportPayload(r))
	}
	return out
}

func toSummaryPayload(s domain.MonthlySummary) summaryPayload {
	return summaryPayload{
		Month:                s.Month,
		TotalOrgs:            s.TotalOrgs,
		TotalPeopleHelped:    s.TotalPeopleHelped,
		TotalEventsConducted: s.TotalEventsConducted,
		TotalFundsUtilized:   s.TotalFundsUtilized,
	}
}

type loginResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    userPayload `json:"user"`
}

type userResponse struct {
	Success bool        `json:"success"`
	User    userPayload `json:"user"`
}

type usersResponse struct {
	Success bool          `json:"success"`
	Users   []userPayload `json:"users"`
}

type reportResponse struct {
	Success bool          `json:"success"`
	Report  reportPayload `json:"report"`
}

type reportListResponse struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Reports []reportPayload `json:"reports"`
}

type dashboardResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeMessage(w http.ResponseWriter, code int, message string) {
	httpx.WriteJSON(w, code, messageResponse{Success: code < 400, Message: message})
}

// writeServiceError maps the service failure taxonomy onto status codes
// and the uniform envelope. Anything outside the taxonomy is a storage
// or programming error: logged, reported generically.
func writeServiceError(r *http.Request, w http.ResponseWriter, err error) {
	var verr *service.ValidationError

	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, service.ErrSelfDeletion):
		writeMessage(w, http.StatusForbidden, "You cannot delete your own account")
	case errors.Is(err, service.ErrForbidden):
		writeMessage(w, http.StatusForbidden, "You are not allowed to do that")
	case errors.Is(err, service.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Not found")
	case errors.Is(err, service.ErrDuplicateReport),
		errors.Is(err, service.ErrDuplicateUser):
		writeMessage(w, http.StatusConflict, err.Error())
	case errors.As(err, &verr):
		writeMessage(w, http.StatusBadRequest, verr.Error())
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error",
			slog.Any("error", err),
		)
		writeMessage(w, http.StatusInternalServerError, genericFailure)
	}
}

// requireUser resolves the session user id set by the cookie middleware
// into a full user record. A session pointing at a deleted user counts
// as not authenticated, not as a server error.
func requireUser(w http.ResponseWriter, r *http.Request, users *service.UserService) (domain.User, bool) {
	ctx := r.Context()

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
		return domain.User{}, false
	}

	u, err := users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeMessage(w, http.StatusUnauthorized, "Not authenticated")
			return domain.User{}, false
		}
		writeServiceError(r, w, err)
		return domain.User{}, false
	}
	return u, true
}
