package service

import (
	"context"
	"testing"

	"github.com/Madjob23/ngo-reports/internal/reports/domain"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newTestStore(t)
	svc := &UserService{Store: s}

	seedUser(t, s, "alice", "correct-horse", domain.RoleOrgMember, "ngo1")

	t.Run("valid credentials", func(t *testing.T) {
		u, err := svc.Authenticate(ctx, "alice", "correct-horse")
		require.NoError(t, err)
		require.Equal(t, "alice", u.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "alice", "battery-staple")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown username fails the same way", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "mallory", "whatever")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("empty fields", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newTestStore(t)
	svc := &UserService{Store: s}

	admin := seedUser(t, s, "boss", "pw", domain.RoleAdmin, "")
	member := seedUser(t, s, "ngo1-user", "pw", domain.RoleOrgMember, "ngo1")

	t.Run("admin registers an org member", func(t *testing.T) {
		u, err := svc.Register(ctx, admin, "ngo2-user", "secret", domain.RoleOrgMember, "ngo2", "NGO Two")
		require.NoError(t, err)
		require.Equal(t, "ngo2-user", u.Username)
		require.Equal(t, domain.RoleOrgMember, u.Role)
		require.Equal(t, "ngo2", u.OrgID)
		require.Empty(t, u.PasswordHash, "hash must never be returned")

		// The new account can actually log in.
		_, err = svc.Authenticate(ctx, "ngo2-user", "secret")
		require.NoError(t, err)
	})

	t.Run("members are denied", func(t *testing.T) {
		_, err := svc.Register(ctx, member, "x", "y", domain.RoleOrgMember, "ngo9", "X")
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Register(ctx, admin, "ngo2-user", "secret", domain.RoleOrgMember, "ngo3", "Other")
		require.ErrorIs(t, err, ErrDuplicateUser)
	})

	t.Run("duplicate org id among members", func(t *testing.T) {
		_, err := svc.Register(ctx, admin, "ngo2-second", "secret", domain.RoleOrgMember, "ngo2", "Two Again")
		require.ErrorIs(t, err, ErrDuplicateUser)
	})

	t.Run("org id required for members", func(t *testing.T) {
		var verr *ValidationError
		_, err := svc.Register(ctx, admin, "no-org", "secret", domain.RoleOrgMember, "", "No Org")
		require.ErrorAs(t, err, &verr)
	})

	t.Run("admins never carry an org id", func(t *testing.T) {
		u, err := svc.Register(ctx, admin, "boss2", "secret", domain.RoleAdmin, "ngo9", "Second Boss")
		require.NoError(t, err)
		require.Empty(t, u.OrgID)
	})

	t.Run("missing fields", func(t *testing.T) {
		var verr *ValidationError
		_, err := svc.Register(ctx, admin, "", "secret", domain.RoleAdmin, "", "X")
		require.ErrorAs(t, err, &verr)
		_, err = svc.Register(ctx, admin, "u", "", domain.RoleAdmin, "", "X")
		require.ErrorAs(t, err, &verr)
		_, err = svc.Register(ctx, admin, "u", "secret", domain.RoleAdmin, "", "")
		require.ErrorAs(t, err, &verr)
		_, err = svc.Register(ctx, admin, "u", "secret", domain.Role("owner"), "", "X")
		require.ErrorAs(t, err, &verr)
	})
}

func TestListAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newTestStore(t)
	svc := &UserService{Store: s}

	admin := seedUser(t, s, "boss", "pw", domain.RoleAdmin, "")
	member := seedUser(t, s, "ngo1-user", "pw", domain.RoleOrgMember, "ngo1")
	seedUser(t, s, "ngo2-user", "pw", domain.RoleOrgMember, "ngo2")

	t.Run("admin sees everyone but themselves, without hashes", func(t *testing.T) {
		users, err := svc.ListAll(ctx, admin)
		require.NoError(t, err)
		require.Len(t, users, 2)
		for _, u := range users {
			require.NotEqual(t, admin.ID, u.ID)
			require.Empty(t, u.PasswordHash)
		}
	})

	t.Run("members are denied", func(t *testing.T) {
		_, err := svc.ListAll(ctx, member)
		require.ErrorIs(t, err, ErrForbidden)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newTestStore(t)
	users := &UserService{Store: s}
	reports := &ReportService{Store: s}

	admin := seedUser(t, s, "boss", "pw", domain.RoleAdmin, "")
	member1 := seedUser(t, s, "ngo1-user", "pw", domain.RoleOrgMember, "ngo1")
	member2 := seedUser(t, s, "ngo2-user", "pw", domain.RoleOrgMember, "ngo2")

	seedReport(t, s, "ngo1", "2025-01", 10, 1, "100.00")
	seedReport(t, s, "ngo1", "2025-02", 20, 2, "200.00")
	keeper := seedReport(t, s, "ngo2", "2025-01", 30, 3, "300.00")

	t.Run("self deletion is always denied", func(t *testing.T) {
		err := users.Delete(ctx, admin, admin.ID)
		require.ErrorIs(t, err, ErrSelfDeletion)
	})

	t.Run("members are denied", func(t *testing.T) {
		err := users.Delete(ctx, member1, member2.ID)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("deleting a member cascades to their org's reports only", func(t *testing.T) {
		require.NoError(t, users.Delete(ctx, admin, member1.ID))

		_, err := users.GetByID(ctx, member1.ID)
		require.ErrorIs(t, err, ErrNotFound)

		all, err := reports.List(ctx, admin, domain.ReportFilter{})
		require.NoError(t, err)
		require.Len(t, all, 1)
		require.Equal(t, keeper.ID, all[0].ID)
	})

	t.Run("deleting a missing user is not found", func(t *testing.T) {
		err := users.Delete(ctx, admin, member1.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestChangePassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newTestStore(t)
	svc := &UserService{Store: s}

	alice := seedUser(t, s, "alice", "old-password", domain.RoleOrgMember, "ngo1")

	require.NoError(t, svc.ChangePassword(ctx, alice, "new-password"))

	_, err := svc.Authenticate(ctx, "alice", "old-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "alice", "new-password")
	require.NoError(t, err)
}

func TestBootstrapAdmin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newTestStore(t)
	svc := &UserService{Store: s}

	require.NoError(t, svc.BootstrapAdmin(ctx, "admin123"))

	admin, err := svc.Authenticate(ctx, "admin", "admin123")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, admin.Role)

	t.Run("second bootstrap is a no-op", func(t *testing.T) {
		require.NoError(t, svc.BootstrapAdmin(ctx, "different-password"))

		// The original password still works; nothing was overwritten.
		_, err := svc.Authenticate(ctx, "admin", "admin123")
		require.NoError(t, err)
	})
}
