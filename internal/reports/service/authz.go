package service

import "github.com/Madjob23/ngo-reports/internal/reports/domain"

// Action is something a caller wants to do. Role logic lives in Can and
// nowhere else; handlers and services never compare roles inline.
type Action string

const (
	ActionSubmitReport Action = "report:submit"
	ActionViewReport   Action = "report:view"
	ActionEditReport   Action = "report:edit"
	ActionDeleteReport Action = "report:delete"
	ActionViewSummary  Action = "summary:view"
	ActionManageUsers  Action = "user:manage"
	ActionDeleteUser   Action = "user:delete"
)

// Resource identifies what the action targets. Zero-value fields mean
// the action has no target of that kind.
type Resource struct {
	OrgID  string // organisation owning the report in question
	UserID string // target user for user administration actions
}

// Can decides allow/deny for a user, an action and its target. Rules
// are evaluated in order and the first match wins:
//
//  1. An unauthenticated caller is denied everything.
//  2. Deleting your own account is denied, even for admins.
//  3. Admins may do anything else, except submit a report: they have
//     no organisation to report for. Viewing, editing and deleting any
//     report is allowed.
//  4. Org members may submit, view and edit reports of their own
//     organisation only. Everything else is denied.
func Can(u domain.User, action Action, res Resource) bool {
	if u.ID == "" {
		return false
	}

	if action == ActionDeleteUser && res.UserID == u.ID {
		return false
	}

	switch u.Role {
	case domain.RoleAdmin:
		// Admins have no organisation, so there is nothing they could
		// truthfully submit a report for.
		return action != ActionSubmitReport

	case domain.RoleOrgMember:
		switch action {
		case ActionSubmitReport, ActionViewReport, ActionEditReport:
			return res.OrgID != "" && res.OrgID == u.OrgID
		}
		return false
	}

	return false
}
