// internal/authz/authz.go
package authz

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/henrylimaSaas/ArchFlow-master/internal/models"
)

// Action names one guarded operation. The set below is closed: every mutating
// route and every tenant-scoped read is annotated with exactly one Action.
type Action string

const (
	ActionViewTasks  Action = "task.view"
	ActionCreateTask Action = "task.create"
	ActionUpdateTask Action = "task.update"
	ActionMoveTask   Action = "task.move"
	ActionDeleteTask Action = "task.delete"

	ActionViewStatuses    Action = "status.view"
	ActionCreateStatus    Action = "status.create"
	ActionUpdateStatus    Action = "status.update"
	ActionReorderStatuses Action = "status.reorder"
	ActionDeleteStatus    Action = "status.delete"

	ActionViewProjects  Action = "project.view"
	ActionCreateProject Action = "project.create"
	ActionUpdateProject Action = "project.update"
	ActionDeleteProject Action = "project.delete"

	ActionViewClients  Action = "client.view"
	ActionCreateClient Action = "client.create"
	ActionUpdateClient Action = "client.update"
	ActionDeleteClient Action = "client.delete"

	ActionViewUsers      Action = "user.view"
	ActionChangeUserRole Action = "user.change_role"
	ActionDeleteUser     Action = "user.delete"
)

// Reason explains a Deny decision.
type Reason string

const (
	ReasonCrossTenantAccess Reason = "CrossTenantAccess"
	ReasonInsufficientRole  Reason = "InsufficientRole"
)

// DeniedError is returned for every Deny decision. Callers treat it as
// terminal: no part of the guarded operation may have run.
type DeniedError struct {
	Action Action
	Role   models.Role
	Reason Reason
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("authz: %s denied for role %q: %s", e.Action, e.Role, e.Reason)
}

// permissions is the single source of truth for role gating. Roles absent
// from an action's set are denied; superadmin never consults the table.
var permissions = map[Action][]models.Role{
	ActionViewTasks:  {models.RoleAdmin, models.RoleArchitect, models.RoleIntern, models.RoleFinancial, models.RoleMarketing},
	ActionCreateTask: {models.RoleAdmin, models.RoleArchitect, models.RoleIntern},
	ActionUpdateTask: {models.RoleAdmin, models.RoleArchitect, models.RoleIntern},
	ActionMoveTask:   {models.RoleAdmin, models.RoleArchitect, models.RoleIntern},
	ActionDeleteTask: {models.RoleAdmin, models.RoleArchitect},

	ActionViewStatuses:    {models.RoleAdmin, models.RoleArchitect, models.RoleIntern, models.RoleFinancial, models.RoleMarketing},
	ActionCreateStatus:    {models.RoleAdmin, models.RoleArchitect},
	ActionUpdateStatus:    {models.RoleAdmin, models.RoleArchitect},
	ActionReorderStatuses: {models.RoleAdmin, models.RoleArchitect},
	ActionDeleteStatus:    {models.RoleAdmin, models.RoleArchitect},

	ActionViewProjects:  {models.RoleAdmin, models.RoleArchitect, models.RoleIntern, models.RoleFinancial, models.RoleMarketing},
	ActionCreateProject: {models.RoleAdmin, models.RoleArchitect},
	ActionUpdateProject: {models.RoleAdmin, models.RoleArchitect},
	ActionDeleteProject: {models.RoleAdmin},

	ActionViewClients:  {models.RoleAdmin, models.RoleArchitect, models.RoleFinancial, models.RoleMarketing},
	ActionCreateClient: {models.RoleAdmin, models.RoleArchitect, models.RoleMarketing},
	ActionUpdateClient: {models.RoleAdmin, models.RoleArchitect, models.RoleMarketing},
	ActionDeleteClient: {models.RoleAdmin},

	ActionViewUsers:      {models.RoleAdmin, models.RoleArchitect, models.RoleFinancial},
	ActionChangeUserRole: {models.RoleAdmin},
	ActionDeleteUser:     {models.RoleAdmin},
}

// Authorize decides allow/deny for one principal, action and optional
// resource office. The tenant check runs before the role lookup so a
// misconfigured table can never grant cross-tenant access. Pure: no side
// effects, no I/O.
func Authorize(p models.Principal, action Action, resourceOfficeID *uuid.UUID) error {
	if p.IsSuperAdmin {
		return nil
	}
	if resourceOfficeID != nil {
		if p.OfficeID == nil || *p.OfficeID != *resourceOfficeID {
			return &DeniedError{Action: action, Role: p.Role, Reason: ReasonCrossTenantAccess}
		}
	}
	for _, r := range permissions[action] {
		if r == p.Role {
			return nil
		}
	}
	return &DeniedError{Action: action, Role: p.Role, Reason: ReasonInsufficientRole}
}

// AllowedRoles exposes the table row for an action. Used by tests and by the
// CLI's "whoami" output; the returned slice must not be mutated.
func AllowedRoles(action Action) []models.Role {
	return permissions[action]
}

// Actions returns the closed list of guarded actions.
func Actions() []Action {
	out := make([]Action, 0, len(permissions))
	for a := range permissions {
		out = append(out, a)
	}
	return out
}
