// internal/models/types.go
package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleArchitect  Role = "architect"
	RoleIntern     Role = "intern"
	RoleFinancial  Role = "financial"
	RoleMarketing  Role = "marketing"
	RoleSuperAdmin Role = "superadmin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleArchitect, RoleIntern, RoleFinancial, RoleMarketing, RoleSuperAdmin:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

var (
	ErrNotFound            = errors.New("not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrOfficeNotFound      = errors.New("office not found")
	ErrNoOffice            = errors.New("principal has no office association")
	ErrDuplicateStatusName = errors.New("status name already exists in office")
	ErrInvalidStatus       = errors.New("status does not exist in office")
	ErrNoStatusConfigured  = errors.New("office has no workflow statuses configured")
	ErrInvalidPriority     = errors.New("invalid priority")
	ErrInvalidColor        = errors.New("invalid color code")
	ErrSubtaskDepth        = errors.New("subtask nesting is limited to one level")
	ErrEmailTaken          = errors.New("email already registered")
	ErrEmptyName           = errors.New("name is required")
	ErrEmptyTitle          = errors.New("title is required")
)

// Principal is the authenticated actor for one request. It is built by the
// auth middleware and never mutated afterwards. Superadmins carry no office
// and bypass tenant scoping.
type Principal struct {
	ID           uuid.UUID
	Role         Role
	OfficeID     *uuid.UUID
	IsSuperAdmin bool
}

type Office struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID        uuid.UUID  `json:"id"`
	OfficeID  *uuid.UUID `json:"office_id,omitempty"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

// WorkflowStatus is one Kanban column. Position gives the total order per
// office (ties broken by id); Name is unique per office.
type WorkflowStatus struct {
	ID        uuid.UUID `json:"id"`
	OfficeID  uuid.UUID `json:"office_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// Task weakly references its status, assignee, project and parent: deleting
// any of those clears the reference, it never deletes the task.
type Task struct {
	ID           uuid.UUID  `json:"id"`
	OfficeID     uuid.UUID  `json:"office_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	StatusID     *uuid.UUID `json:"status_id,omitempty"`
	Priority     Priority   `json:"priority"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	AssigneeID   *uuid.UUID `json:"assignee_id,omitempty"`
	ProjectID    *uuid.UUID `json:"project_id,omitempty"`
	ParentTaskID *uuid.UUID `json:"parent_task_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type Client struct {
	ID        uuid.UUID `json:"id"`
	OfficeID  uuid.UUID `json:"office_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Project struct {
	ID          uuid.UUID  `json:"id"`
	OfficeID    uuid.UUID  `json:"office_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ClientID    *uuid.UUID `json:"client_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
