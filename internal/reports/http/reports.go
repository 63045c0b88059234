package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Madjob23/ngo-reports/internal/reports/domain"
	"github.com/Madjob23/ngo-reports/internal/reports/service"
	"github.com/Madjob23/ngo-reports/pkg/httpx"
	"github.com/shopspring/decimal"
)

type ReportsHandler struct {
	Reports *service.ReportService
	Users   *service.UserService
}

type reportRequest struct {
	OrgID           string          `json:"orgId"`
	Month           string          `json:"month"`
	PeopleHelped    int64           `json:"peopleHelped"`
	EventsConducted int64           `json:"eventsConducted"`
	FundsUtilized   decimal.Decimal `json:"fundsUtilized"`
}

// parseReportRequest reads a submission or edit body. JSON and
// form-encoded posts are both accepted; decimal amounts survive either
// path without a float detour.
func parseReportRequest(r *http.Request) (reportRequest, error) {
	var req reportRequest

	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return reportRequest{}, err
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return reportRequest{}, err
	}
	req.OrgID = r.PostFormValue("orgId")
	req.Month = r.PostFormValue("month")

	var err error
	if v := r.PostFormValue("peopleHelped"); v != "" {
		if req.PeopleHelped, err = strconv.ParseInt(v, 10, 64); err != nil {
			return reportRequest{}, err
		}
	}
	if v := r.PostFormValue("eventsConducted"); v != "" {
		if req.EventsConducted, err = strconv.ParseInt(v, 10, 64); err != nil {
			return reportRequest{}, err
		}
	}
	if v := r.PostFormValue("fundsUtilized"); v != "" {
		if req.FundsUtilized, err = decimal.NewFromString(v); err != nil {
			return reportRequest{}, err
		}
	}
	return req, nil
}

// HandleCreate submits a new monthly report.
func (h *ReportsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.Users)
	if !ok {
		return
	}

	req, err := parseReportRequest(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	// Org members may omit orgId; it can only ever be their own.
	if req.OrgID == "" && user.Role == domain.RoleOrgMember {
		req.OrgID = user.OrgID
	}

	report, err := h.Reports.Submit(r.Context(), user, req.OrgID, req.Month, service.ReportMetrics{
		PeopleHelped:    req.PeopleHelped,
		EventsConducted: req.EventsConducted,
		FundsUtilized:   req.FundsUtilized,
	})
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, reportResponse{
		Success: true,
		Report:  toReportPayload(report),
	})
}

// HandleList returns reports matching the month/orgId query filters.
// Org members always get their own organisation's reports, whatever
// they asked for.
func (h *ReportsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.Users)
	if !ok {
		return
	}

	filter := domain.ReportFilter{
		Month: r.URL.Query().Get("month"),
		OrgID: r.URL.Query().Get("orgId"),
	}

	reports, err := h.Reports.List(r.Context(), user, filter)
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, reportListResponse{
		Success: true,
		Count:   len(reports),
		Reports: toReportPayloads(reports),
	})
}

// HandleGet returns one report by id.
func (h *ReportsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.Users)
	if !ok {
		return
	}

	report, err := h.Reports.GetByID(r.Context(), user, r.PathValue("id"))
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, reportResponse{
		Success: true,
		Report:  toReportPayload(report),
	})
}

// HandleUpdate rewrites the metric fields of a report.
func (h *ReportsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.Users)
	if !ok {
		return
	}

	req, err := parseReportRequest(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	report, err := h.Reports.Update(r.Context(), user, r.PathValue("id"), service.ReportMetrics{
		PeopleHelped:    req.PeopleHelped,
		EventsConducted: req.EventsConducted,
		FundsUtilized:   req.FundsUtilized,
	})
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, reportResponse{
		Success: true,
		Report:  toReportPayload(report),
	})
}

// HandleDelete removes a report. Admin only.
func (h *ReportsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.Users)
	if !ok {
		return
	}

	if err := h.Reports.Delete(r.Context(), user, r.PathValue("id")); err != nil {
		writeServiceError(r, w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Report deleted")
}
