package domain

import "github.com/shopspring/decimal"

// MonthlySummary is the derived per-month aggregate over all reports.
// It is computed on demand and never persisted.
type MonthlySummary struct {
	Month                string
	TotalOrgs            int64
	TotalPeopleHelped    int64
	TotalEventsConducted int64
	TotalFundsUtilized   decimal.Decimal
}

// ZeroSummary returns a summary for a month that has no reports. A
// requested month always yields a record, even when empty.
func ZeroSummary(month string) MonthlySummary {
	return MonthlySummary{
		Month:              month,
		TotalFundsUtilized: decimal.Zero,
	}
}
