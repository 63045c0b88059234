package store

import (
	"context"
	"errors"

	"github.com/Madjob23/ngo-reports/internal/reports/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for
// now) implement this. Uniqueness of (org_id, month) on reports and of
// usernames is enforced by the driver's schema, not in application code:
// a race between two identical submissions is resolved by the store
// rejecting the second write with ErrAlreadyExists.
type Store interface {
	Users() Users
	Reports() Reports

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back if fn
	// returns an error and committing otherwise. Prefer this over Tx.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login and duplicate checks.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists on a username or org-id collision.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// DeleteUser removes a user record. Report cleanup is the caller's
	// responsibility (see UserService cascade).
	DeleteUser(ctx context.Context, userID string) error

	// ListUsersExcept returns every user except the given one, newest
	// first.
	ListUsersExcept(ctx context.Context, userID string) ([]domain.User, error)
}

type Reports interface {
	// CreateReport inserts a new report. Returns ErrAlreadyExists when a
	// report for the same (org_id, month) is already present.
	CreateReport(ctx context.Context, r domain.Report) error

	// GetReportByID returns a report by id.
	GetReportByID(ctx context.Context, id string) (domain.Report, error)

	// ListReports returns reports matching the filter, ordered by month
	// descending.
	ListReports(ctx context.Context, f domain.ReportFilter) ([]domain.Report, error)

	// UpdateReportMetrics rewrites the three metric fields and bumps
	// updated_at. Identity (org_id, month) is immutable.
	UpdateReportMetrics(ctx context.Context, id string, r domain.Report) error

	// DeleteReport removes a report, ErrNotFound if absent.
	DeleteReport(ctx context.Context, id string) error

	// DeleteReportsByOrg removes every report owned by the organisation.
	DeleteReportsByOrg(ctx context.Context, orgID string) error

	// SummarizeByMonth aggregates reports grouped by month, newest month
	// first. An empty month aggregates everything; otherwise only the
	// given month is considered (zero or one row back).
	SummarizeByMonth(ctx context.Context, month string) ([]domain.MonthlySummary, error)
}
