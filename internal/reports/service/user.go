package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Madjob23/ngo-reports/internal/reports/domain"
	"github.com/Madjob23/ngo-reports/internal/reports/store"
	"github.com/Madjob23/ngo-reports/pkg/cryptox"
	"github.com/Madjob23/ngo-reports/pkg/idx"
	"github.com/Madjob23/ngo-reports/pkg/slogx"
)

// BootstrapUsername is the fixed username seeded at first startup.
const BootstrapUsername = "admin"

type UserService struct {
	Store store.Store
}

// GetByID fetches a user by id. Used by the session-resolution
// middleware to turn a verified token subject into a full user.
func (s *UserService) GetByID(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

// Authenticate checks a username/password pair. Unknown usernames and
// wrong passwords both come back as ErrInvalidCredentials so callers
// can't probe which usernames exist.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if username == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("login attempt for unknown username",
				slog.String("username", username),
			)
			return domain.User{}, ErrInvalidCredentials
		}
		log.Error("failed to fetch user for login", slog.Any("error", err))
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		log.Warn("login attempt with wrong password",
			slog.String("username", username),
		)
		return domain.User{}, ErrInvalidCredentials
	}

	log.Info("user authenticated",
		slog.String("user_id", u.ID),
		slog.String("username", u.Username),
	)
	return u, nil
}

// Register creates a new account. Admin only. Org members must name
// the organisation they belong to; admins never carry one. The
// password is hashed before it touches the store, plaintext is not
// retained anywhere.
func (s *UserService) Register(
	ctx context.Context,
	actingUser domain.User,
	username, password string,
	role domain.Role,
	orgID, name string,
) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if actingUser.ID == "" {
		return domain.User{}, ErrNotAuthenticated
	}
	if !Can(actingUser, ActionManageUsers, Resource{}) {
		log.Warn("user registration denied",
			slog.String("acting_user_id", actingUser.ID),
		)
		return domain.User{}, ErrForbidden
	}

	if username == "" {
		return domain.User{}, invalidf("username", "is required")
	}
	if password == "" {
		return domain.User{}, invalidf("password", "is required")
	}
	if name == "" {
		return domain.User{}, invalidf("name", "is required")
	}
	if !role.Valid() {
		return domain.User{}, invalidf("role", "must be admin or org_member")
	}
	if role == domain.RoleOrgMember && orgID == "" {
		return domain.User{}, invalidf("orgId", "is required for org members")
	}
	if role == domain.RoleAdmin {
		orgID = ""
	}

	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	now := time.Now().UTC()
	newUser := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		OrgID:        orgID,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, newUser); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("registration with taken username or org id",
				slog.String("username", username),
				slog.String("org_id", orgID),
			)
			return domain.User{}, ErrDuplicateUser
		}
		log.Error("failed to create user", slog.Any("error", err))
		return domain.User{}, err
	}

	log.Info("user registered",
		slog.String("user_id", newUser.ID),
		slog.String("username", username),
		slog.String("role", string(role)),
	)
	return newUser.Sanitized(), nil
}

// ListAll returns every account except the caller's own, newest first,
// with password hashes stripped. Admin only.
func (s *UserService) ListAll(ctx context.Context, actingUser domain.User) ([]domain.User, error) {
	log := slogx.FromContext(ctx)

	if actingUser.ID == "" {
		return nil, ErrNotAuthenticated
	}
	if !Can(actingUser, ActionManageUsers, Resource{}) {
		return nil, ErrForbidden
	}

	users, err := s.Store.Users().ListUsersExcept(ctx, actingUser.ID)
	if err != nil {
		log.Error("failed to list users", slog.Any("error", err))
		return nil, err
	}

	for i := range users {
		users[i] = users[i].Sanitized()
	}
	return users, nil
}

// Delete removes an account. Admin only, and never your own. Deleting
// an org member also deletes every report owned by that member's
// organisation, atomically with the user row.
func (s *UserService) Delete(ctx context.Context, actingUser domain.User, userID string) error {
	log := slogx.FromContext(ctx)

	if actingUser.ID == "" {
		return ErrNotAuthenticated
	}
	if actingUser.ID == userID {
		log.Warn("self-deletion denied",
			slog.String("user_id", actingUser.ID),
		)
		return ErrSelfDeletion
	}
	if !Can(actingUser, ActionDeleteUser, Resource{UserID: userID}) {
		log.Warn("user deletion denied",
			slog.String("acting_user_id", actingUser.ID),
			slog.String("target_user_id", userID),
		)
		return ErrForbidden
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		target, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}

		if target.Role == domain.RoleOrgMember && target.OrgID != "" {
			if err := tx.Reports().DeleteReportsByOrg(ctx, target.OrgID); err != nil {
				return err
			}
		}

		return tx.Users().DeleteUser(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		log.Error("failed to delete user", slog.Any("error", err))
		return err
	}

	log.Info("user deleted",
		slog.String("target_user_id", userID),
		slog.String("acting_user_id", actingUser.ID),
	)
	return nil
}

// ChangePassword rewrites the caller's own password hash. The hash is
// computed here, on write, only when a new plaintext actually arrives.
func (s *UserService) ChangePassword(ctx context.Context, actingUser domain.User, newPassword string) error {
	log := slogx.FromContext(ctx)

	if actingUser.ID == "" {
		return ErrNotAuthenticated
	}
	if newPassword == "" {
		return invalidf("password", "is required")
	}

	newHash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return err
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, actingUser.ID, newHash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		log.Error("failed to update password", slog.Any("error", err))
		return err
	}

	log.Info("password changed", slog.String("user_id", actingUser.ID))
	return nil
}

// BootstrapAdmin seeds the fixed admin account at startup. Idempotent:
// if a user named "admin" already exists, nothing happens, even when
// the password differs. The default password is meant to be changed
// after first login.
func (s *UserService) BootstrapAdmin(ctx context.Context, password string) error {
	log := slogx.FromContext(ctx)

	_, err := s.Store.Users().GetUserByUsername(ctx, BootstrapUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check for bootstrap admin", slog.Any("error", err))
		return err
	}

	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash bootstrap password", slog.Any("error", err))
		return err
	}

	now := time.Now().UTC()
	admin := domain.User{
		ID:           idx.New().String(),
		Username:     BootstrapUsername,
		PasswordHash: passwordHash,
		Role:         domain.RoleAdmin,
		Name:         "Administrator",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, admin); err != nil {
		// A concurrent replica may have won the race; that's still a
		// successful bootstrap.
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil
		}
		log.Error("failed to create bootstrap admin", slog.Any("error", err))
		return err
	}

	log.Info("bootstrap admin created", slog.String("user_id", admin.ID))
	return nil
}
