package http

import (
	"net/http"

	"github.com/Madjob23/ngo-reports/internal/reports/service"
	"github.com/Madjob23/ngo-reports/pkg/httpx"
)

type DashboardHandler struct {
	Summaries *service.SummaryService
	Users     *service.UserService
}

// ServeHTTP returns aggregated report metrics. With ?month=YYYY-MM the
// data field is a single summary object, always present even when the
// month is empty of reports. Without the filter it is a list with one
// entry per month that has at least one report.
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.Users)
	if !ok {
		return
	}

	month := r.URL.Query().Get("month")

	summaries, err := h.Summaries.Summarize(r.Context(), user, month)
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	var data any
	if month != "" {
		data = toSummaryPayload(summaries[0])
	} else {
		all := make([]summaryPayload, 0, len(summaries))
		for _, s := range summaries {
			all = append(all, toSummaryPayload(s))
		}
		data = all
	}

	httpx.WriteJSON(w, http.StatusOK, dashboardResponse{
		Success: true,
		Data:    data,
	})
}
