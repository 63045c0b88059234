package sqlite

import (
	"context"
	"database/sql"

	"github.com/Madjob23/ngo-reports/internal/reports/domain"
	"github.com/Madjob23/ngo-reports/internal/reports/store"
)

type reportsRepo struct {
	db dbtx
}

const reportColumns = `id, org_id, month, people_helped, events_conducted, funds_utilized_cents, created_at, updated_at`

func (r *reportsRepo) CreateReport(ctx context.Context, rep domain.Report) error {
	ts := now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reports (id, org_id, month, people_helped, events_conducted, funds_utilized_cents, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.ID, rep.OrgID, rep.Month, rep.PeopleHelped, rep.EventsConducted,
		centsFromDecimal(rep.FundsUtilized), ts, ts)
	return mapConstraint(err)
}

func (r *reportsRepo) GetReportByID(ctx context.Context, id string) (domain.Report, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)
	rep, err := mapReportRow(row.Scan)
	if err != nil {
		return domain.Report{}, mapNotFound(err)
	}
	return rep, nil
}

func (r *reportsRepo) ListReports(ctx context.Context, f domain.ReportFilter) ([]domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE 1=1`
	var args []any
	if f.Month != "" {
		query += ` AND month = ?`
		args = append(args, f.Month)
	}
	if f.OrgID != "" {
		query += ` AND org_id = ?`
		args = append(args, f.OrgID)
	}
	query += ` ORDER BY month DESC, org_id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		rep, err := mapReportRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

func (r *reportsRepo) UpdateReportMetrics(ctx context.Context, id string, rep domain.Report) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reports
		 SET people_helped = ?, events_conducted = ?, funds_utilized_cents = ?, updated_at = ?
		 WHERE id = ?`,
		rep.PeopleHelped, rep.EventsConducted, centsFromDecimal(rep.FundsUtilized), now(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *reportsRepo) DeleteReport(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *reportsRepo) DeleteReportsByOrg(ctx context.Context, orgID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE org_id = ?`, orgID)
	return err
}

func (r *reportsRepo) SummarizeByMonth(ctx context.Context, month string) ([]domain.MonthlySummary, error) {
	query := `SELECT month, COUNT(DISTINCT org_id), SUM(people_helped), SUM(events_conducted), SUM(funds_utilized_cents)
	          FROM reports`
	var args []any
	if month != "" {
		query += ` WHERE month = ?`
		args = append(args, month)
	}
	query += ` GROUP BY month ORDER BY month DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []domain.MonthlySummary
	for rows.Next() {
		var (
			s     domain.MonthlySummary
			cents int64
		)
		if err := rows.Scan(&s.Month, &s.TotalOrgs, &s.TotalPeopleHelped, &s.TotalEventsConducted, &cents); err != nil {
			return nil, err
		}
		s.TotalFundsUtilized = decimalFromCents(cents)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// requireAffected turns a zero-row write into ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
