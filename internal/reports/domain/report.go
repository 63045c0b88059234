package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Report is one organisation's impact numbers for one calendar month.
// The (OrgID, Month) pair is unique; identity is immutable after
// creation, only the three metric fields may change.
type Report struct {
	ID              string
	OrgID           string
	Month           string // fixed YYYY-MM format
	PeopleHelped    int64
	EventsConducted int64
	FundsUtilized   decimal.Decimal // currency amount, exact to the cent
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ReportFilter narrows a report query. Empty fields match everything.
type ReportFilter struct {
	Month string
	OrgID string
}
