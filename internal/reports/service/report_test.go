package service

import (
	"context"
	"testing"

	"github.com/Madjob23/ngo-reports/internal/reports/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestReportSubmit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newTestStore(t)
	svc := &ReportService{Store: s}

	member := seedUser(t, s, "ngo1-user", "pw", domain.RoleOrgMember, "ngo1")
	admin := seedUser(t, s, "boss", "pw", domain.RoleAdmin, "")

	metrics := ReportMetrics{
		PeopleHelped:    100,
		EventsConducted: 5,
		FundsUtilized:   decimal.RequireFromString("250.50"),
	}

	t.Run("member submits for own org", func(t *testing.T) {
		report, err := svc.Submit(ctx, member, "ngo1", "2025-03", metrics)
		require.NoError(t, err)
		require.NotEmpty(t, report.ID)
		require.Equal(t, "ngo1", report.OrgID)
		require.Equal(t, "2025-03", report.Month)
		require.Equal(t, int64(100), report.PeopleHelped)
		require.Equal(t, int64(5), report.EventsConducted)
		require.True(t, report.FundsUtilized.Equal(decimal.RequireFromString("250.50")))
	})

	t.Run("second submission for same org and month is a duplicate", func(t *testing.T) {
		_, err := svc.Submit(ctx, member, "ngo1", "2025-03", metrics)
		require.ErrorIs(t, err, ErrDuplicateReport)

		// The first report survived untouched.
		reports, err := svc.List(ctx, member, domain.ReportFilter{Month: "2025-03"})
		require.NoError(t, err)
		require.Len(t, reports, 1)
		require.Equal(t, int64(100), reports[0].PeopleHelped)
	})

	t.Run("member cannot submit for another org", func(t *testing.T) {
		_, err := svc.Submit(ctx, member, "ngo2", "2025-03", metrics)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin cannot submit", func(t *testing.T) {
		_, err := svc.Submit(ctx, admin, "ngo1", "2025-04", metrics)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("month format is validated", func(t *testing.T) {
		var verr *ValidationError
		for _, month := range []string{"2025-3", "202503", "2025/03", "march", ""} {
			_, err := svc.Submit(ctx, member, "ngo1", month, metrics)
			require.ErrorAs(t, err, &verr, "month %q", month)
		}
	})

	t.Run("metrics must be non-negative", func(t *testing.T) {
		var verr *ValidationError

		bad := metrics
		bad.PeopleHelped = -1
		_, err := svc.Submit(ctx, member, "ngo1", "2025-05", bad)
		require.ErrorAs(t, err, &verr)

		bad = metrics
		bad.EventsConducted = -1
		_, err = svc.Submit(ctx, member, "ngo1", "2025-05", bad)
		require.ErrorAs(t, err, &verr)

		bad = metrics
		bad.FundsUtilized = decimal.RequireFromString("-0.01")
		_, err = svc.Submit(ctx, member, "ngo1", "2025-05", bad)
		require.ErrorAs(t, err, &verr)
	})

	t.Run("funds beyond cents are rejected", func(t *testing.T) {
		var verr *ValidationError
		bad := metrics
		bad.FundsUtilized = decimal.RequireFromString("10.001")
		_, err := svc.Submit(ctx, member, "ngo1", "2025-05", bad)
		require.ErrorAs(t, err, &verr)
	})
}

func TestReportList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newTestStore(t)
	svc := &ReportService{Store: s}

	member := seedUser(t, s, "ngo1-user", "pw", domain.RoleOrgMember, "ngo1")
	admin := seedUser(t, s, "boss", "pw", domain.RoleAdmin, "")

	seedReport(t, s, "ngo1", "2025-01", 10, 1, "100.00")
	seedReport(t, s, "ngo1", "2025-02", 20, 2, "200.00")
	seedReport(t, s, "ngo2", "2025-01", 30, 3, "300.00")

	t.Run("admin sees everything, month descending", func(t *testing.T) {
		reports, err := svc.List(ctx, admin, domain.ReportFilter{})
		require.NoError(t, err)
		require.Len(t, reports, 3)
		require.Equal(t, "2025-02", reports[0].Month)
	})

	t.Run("admin can filter by org and month", func(t *testing.T) {
		reports, err := svc.List(ctx, admin, domain.ReportFilter{OrgID: "ngo2"})
		require.NoError(t, err)
		require.Len(t, reports, 1)
		require.Equal(t, "ngo2", reports[0].OrgID)

		reports, err = svc.List(ctx, admin, domain.ReportFilter{Month: "2025-01"})
		require.NoError(t, err)
		require.Len(t, reports, 2)
	})

	t.Run("member filter is forced to own org", func(t *testing.T) {
		// Asking for ngo2 explicitly must not leak ngo2's data.
		reports, err := svc.List(ctx, member, domain.ReportFilter{OrgID: "ngo2"})
		require.NoError(t, err)
		require.Len(t, reports, 2)
		for _, r := range reports {
			require.Equal(t, "ngo1", r.OrgID)
		}
	})

	t.Run("invalid month filter is rejected", func(t *testing.T) {
		var verr *ValidationError
		_, err := svc.List(ctx, admin, domain.ReportFilter{Month: "nope"})
		require.ErrorAs(t, err, &verr)
	})
}

func TestReportGetByID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newTestStore(t)
	svc := &ReportService{Store: s}

	member := seedUser(t, s, "ngo1-user", "pw", domain.RoleOrgMember, "ngo1")
	admin := seedUser(t, s, "boss", "pw", domain.RoleAdmin, "")

	mine := seedReport(t, s, "ngo1", "2025-01", 10, 1, "100.00")
	theirs := seedReport(t, s, "ngo2", "2025-01", 30, 3, "300.00")

	t.Run("member reads own report", func(t *testing.T) {
		report, err := svc.GetByID(ctx, member, mine.ID)
		require.NoError(t, err)
		require.Equal(t, mine.ID, report.ID)
	})

	t.Run("member is forbidden from another org's report", func(t *testing.T) {
		_, err := svc.GetByID(ctx, member, theirs.ID)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin reads any report", func(t *testing.T) {
		report, err := svc.GetByID(ctx, admin, theirs.ID)
		require.NoError(t, err)
		require.Equal(t, "ngo2", report.OrgID)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := svc.GetByID(ctx, admin, "01J00000000000000000000000")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestReportUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newTestStore(t)
	svc := &ReportService{Store: s}

	member := seedUser(t, s, "ngo1-user", "pw", domain.RoleOrgMember, "ngo1")
	admin := seedUser(t, s, "boss", "pw", domain.RoleAdmin, "")

	report := seedReport(t, s, "ngo1", "2025-01", 10, 1, "100.00")
	foreign := seedReport(t, s, "ngo2", "2025-01", 30, 3, "300.00")

	newMetrics := ReportMetrics{
		PeopleHelped:    42,
		EventsConducted: 7,
		FundsUtilized:   decimal.RequireFromString("99.99"),
	}

	t.Run("owner edits metrics, identity stays", func(t *testing.T) {
		updated, err := svc.Update(ctx, member, report.ID, newMetrics)
		require.NoError(t, err)
		require.Equal(t, int64(42), updated.PeopleHelped)
		require.Equal(t, "ngo1", updated.OrgID)
		require.Equal(t, "2025-01", updated.Month)
	})

	t.Run("admin edits any report", func(t *testing.T) {
		updated, err := svc.Update(ctx, admin, foreign.ID, newMetrics)
		require.NoError(t, err)
		require.Equal(t, int64(42), updated.PeopleHelped)
	})

	t.Run("member cannot edit another org's report", func(t *testing.T) {
		_, err := svc.Update(ctx, member, foreign.ID, newMetrics)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := svc.Update(ctx, admin, "01J00000000000000000000000", newMetrics)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestReportDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newTestStore(t)
	svc := &ReportService{Store: s}

	member := seedUser(t, s, "ngo1-user", "pw", domain.RoleOrgMember, "ngo1")
	admin := seedUser(t, s, "boss", "pw", domain.RoleAdmin, "")

	report := seedReport(t, s, "ngo1", "2025-01", 10, 1, "100.00")

	t.Run("member cannot delete even own report", func(t *testing.T) {
		err := svc.Delete(ctx, member, report.ID)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin deletes", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, admin, report.ID))

		_, err := svc.GetByID(ctx, admin, report.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("deleting a missing report is not found", func(t *testing.T) {
		err := svc.Delete(ctx, admin, report.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})
}
