package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Madjob23/ngo-reports/internal/reports/domain"
	"github.com/Madjob23/ngo-reports/internal/reports/store"
	"github.com/Madjob23/ngo-reports/internal/reports/store/drivers/sqlite"
	"github.com/Madjob23/ngo-reports/pkg/cryptox"
	"github.com/Madjob23/ngo-reports/pkg/idx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// newTestStore builds a migrated sqlite store backed by a temp file.
// File-backed rather than :memory: because database/sql pools
// connections and each in-memory connection gets its own database.
func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "reports.db")
	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s store.Store, username, password string, role domain.Role, orgID string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		OrgID:        orgID,
		Name:         username,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func seedReport(t *testing.T, s store.Store, orgID, month string, people, events int64, funds string) domain.Report {
	t.Helper()

	now := time.Now().UTC()
	r := domain.Report{
		ID:              idx.New().String(),
		OrgID:           orgID,
		Month:           month,
		PeopleHelped:    people,
		EventsConducted: events,
		FundsUtilized:   decimal.RequireFromString(funds),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, s.Reports().CreateReport(context.Background(), r))
	return r
}
