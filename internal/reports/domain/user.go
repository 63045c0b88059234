package domain

import "time"

// Role determines what a user may do. Admins manage users and see
// everything; org members are scoped to their own organisation.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleOrgMember Role = "org_member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleOrgMember
}

type User struct {
	ID           string
	Username     string
	PasswordHash string // argon2 encoded, never serialised outward
	Role         Role
	OrgID        string // set only when Role == RoleOrgMember
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Sanitized returns a copy safe to hand to callers: the password hash
// is stripped.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
