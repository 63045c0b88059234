package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"

	"github.com/Madjob23/ngo-reports/internal/reports/domain"
	"github.com/Madjob23/ngo-reports/internal/reports/store"
	"github.com/Madjob23/ngo-reports/pkg/idx"
	"github.com/Madjob23/ngo-reports/pkg/slogx"
	"github.com/shopspring/decimal"
)

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ReportMetrics are the mutable fields of a report. Identity (org id
// and month) is fixed at submission time.
type ReportMetrics struct {
	PeopleHelped    int64
	EventsConducted int64
	FundsUtilized   decimal.Decimal
}

type ReportService struct {
	Store store.Store
}

// Submit creates a report for (orgID, month). Org members may only
// submit for their own organisation. A second submission for the same
// pair fails with ErrDuplicateReport; the store constraint resolves
// the race, there is no read-then-write window.
func (s *ReportService) Submit(
	ctx context.Context,
	actingUser domain.User,
	orgID string,
	month string,
	metrics ReportMetrics,
) (domain.Report, error) {
	log := slogx.FromContext(ctx)

	if actingUser.ID == "" {
		return domain.Report{}, ErrNotAuthenticated
	}
	if !Can(actingUser, ActionSubmitReport, Resource{OrgID: orgID}) {
		log.Warn("report submission denied",
			slog.String("user_id", actingUser.ID),
			slog.String("org_id", orgID),
		)
		return domain.Report{}, ErrForbidden
	}

	if err := validateMonth(month); err != nil {
		return domain.Report{}, err
	}
	if err := validateMetrics(metrics); err != nil {
		return domain.Report{}, err
	}

	now := time.Now().UTC()
	report := domain.Report{
		ID:              idx.New().String(),
		OrgID:           orgID,
		Month:           month,
		PeopleHelped:    metrics.PeopleHelped,
		EventsConducted: metrics.EventsConducted,
		FundsUtilized:   metrics.FundsUtilized,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.Store.Reports().CreateReport(ctx, report); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("duplicate report submission",
				slog.String("org_id", orgID),
				slog.String("month", month),
			)
			return domain.Report{}, ErrDuplicateReport
		}
		log.Error("failed to create report", slog.Any("error", err))
		return domain.Report{}, err
	}

	log.Info("report submitted",
		slog.String("report_id", report.ID),
		slog.String("org_id", orgID),
		slog.String("month", month),
	)
	return report, nil
}

// List returns reports matching the filter, newest month first. For
// org members the org filter is forcibly narrowed to their own
// organisation no matter what was requested, so cross-org data can
// never leak through a crafted query.
func (s *ReportService) List(
	ctx context.Context,
	actingUser domain.User,
	filter domain.ReportFilter,
) ([]domain.Report, error) {
	log := slogx.FromContext(ctx)

	if actingUser.ID == "" {
		return nil, ErrNotAuthenticated
	}
	if actingUser.Role == domain.RoleOrgMember {
		filter.OrgID = actingUser.OrgID
	}
	if filter.Month != "" {
		if err := validateMonth(filter.Month); err != nil {
			return nil, err
		}
	}

	reports, err := s.Store.Reports().ListReports(ctx, filter)
	if err != nil {
		log.Error("failed to list reports", slog.Any("error", err))
		return nil, err
	}
	return reports, nil
}

// GetByID fetches one report. Org members get ErrForbidden for another
// organisation's report, not ErrNotFound: the id was valid, the caller
// just isn't allowed to see it.
func (s *ReportService) GetByID(ctx context.Context, actingUser domain.User, id string) (domain.Report, error) {
	log := slogx.FromContext(ctx)

	if actingUser.ID == "" {
		return domain.Report{}, ErrNotAuthenticated
	}

	report, err := s.Store.Reports().GetReportByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Report{}, ErrNotFound
		}
		log.Error("failed to fetch report", slog.Any("error", err))
		return domain.Report{}, err
	}

	if !Can(actingUser, ActionViewReport, Resource{OrgID: report.OrgID}) {
		log.Warn("cross-org report access denied",
			slog.String("user_id", actingUser.ID),
			slog.String("report_id", id),
		)
		return domain.Report{}, ErrForbidden
	}
	return report, nil
}

// Update rewrites the metric fields of an existing report. Allowed for
// admins and for the owning organisation's member; (orgID, month) is
// immutable.
func (s *ReportService) Update(
	ctx context.Context,
	actingUser domain.User,
	id string,
	metrics ReportMetrics,
) (domain.Report, error) {
	log := slogx.FromContext(ctx)

	if actingUser.ID == "" {
		return domain.Report{}, ErrNotAuthenticated
	}
	if err := validateMetrics(metrics); err != nil {
		return domain.Report{}, err
	}

	report, err := s.Store.Reports().GetReportByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Report{}, ErrNotFound
		}
		log.Error("failed to fetch report", slog.Any("error", err))
		return domain.Report{}, err
	}

	if !Can(actingUser, ActionEditReport, Resource{OrgID: report.OrgID}) {
		log.Warn("report edit denied",
			slog.String("user_id", actingUser.ID),
			slog.String("report_id", id),
		)
		return domain.Report{}, ErrForbidden
	}

	report.PeopleHelped = metrics.PeopleHelped
	report.EventsConducted = metrics.EventsConducted
	report.FundsUtilized = metrics.FundsUtilized
	report.UpdatedAt = time.Now().UTC()

	if err := s.Store.Reports().UpdateReportMetrics(ctx, id, report); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Report{}, ErrNotFound
		}
		log.Error("failed to update report", slog.Any("error", err))
		return domain.Report{}, err
	}

	log.Info("report updated",
		slog.String("report_id", id),
		slog.String("user_id", actingUser.ID),
	)
	return report, nil
}

// Delete removes a report. Admin only; a missing id is ErrNotFound.
func (s *ReportService) Delete(ctx context.Context, actingUser domain.User, id string) error {
	log := slogx.FromContext(ctx)

	if actingUser.ID == "" {
		return ErrNotAuthenticated
	}
	if !Can(actingUser, ActionDeleteReport, Resource{}) {
		log.Warn("report deletion denied",
			slog.String("user_id", actingUser.ID),
			slog.String("report_id", id),
		)
		return ErrForbidden
	}

	if err := s.Store.Reports().DeleteReport(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		log.Error("failed to delete report", slog.Any("error", err))
		return err
	}

	log.Info("report deleted",
		slog.String("report_id", id),
		slog.String("user_id", actingUser.ID),
	)
	return nil
}

func validateMonth(month string) error {
	if !monthPattern.MatchString(month) {
		return invalidf("month", "must match YYYY-MM")
	}
	return nil
}

func validateMetrics(m ReportMetrics) error {
	if m.PeopleHelped < 0 {
		return invalidf("peopleHelped", "must not be negative")
	}
	if m.EventsConducted < 0 {
		return invalidf("eventsConducted", "must not be negative")
	}
	if m.FundsUtilized.IsNegative() {
		return invalidf("fundsUtilized", "must not be negative")
	}
	if !m.FundsUtilized.Equal(m.FundsUtilized.Truncate(2)) {
		return invalidf("fundsUtilized", "at most two decimal places")
	}
	return nil
}
