package service

import (
	"context"
	"log/slog"

	"github.com/Madjob23/ngo-reports/internal/reports/domain"
	"github.com/Madjob23/ngo-reports/internal/reports/store"
	"github.com/Madjob23/ngo-reports/pkg/slogx"
)

type SummaryService struct {
	Store store.Store
}

// Summarize aggregates reports per month, newest month first. Admin
// only. With an empty month every month with at least one report gets
// a row, and no reports at all means an empty list. With a specific
// month the result is always exactly one row: a zero-filled summary
// stands in when that month has no reports. Callers rely on that
// difference, keep it.
func (s *SummaryService) Summarize(
	ctx context.Context,
	actingUser domain.User,
	month string,
) ([]domain.MonthlySummary, error) {
	log := slogx.FromContext(ctx)

	if actingUser.ID == "" {
		return nil, ErrNotAuthenticated
	}
	if !Can(actingUser, ActionViewSummary, Resource{}) {
		log.Warn("summary access denied",
			slog.String("user_id", actingUser.ID),
			slog.String("role", string(actingUser.Role)),
		)
		return nil, ErrForbidden
	}
	if month != "" {
		if err := validateMonth(month); err != nil {
			return nil, err
		}
	}

	summaries, err := s.Store.Reports().SummarizeByMonth(ctx, month)
	if err != nil {
		log.Error("failed to summarize reports", slog.Any("error", err))
		return nil, err
	}

	if month != "" && len(summaries) == 0 {
		return []domain.MonthlySummary{domain.ZeroSummary(month)}, nil
	}
	return summaries, nil
}
