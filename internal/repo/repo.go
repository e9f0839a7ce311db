// internal/repo/repo.go
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/henrylimaSaas/ArchFlow-master/internal/models"
)

// StatusPatch carries optional field updates for a workflow status. Nil
// means "leave unchanged".
type StatusPatch struct {
	Name     *string
	Color    *string
	Position *int
}

// TaskPatch carries optional field updates for a task. StatusID uses a
// double pointer so callers can distinguish "unchanged" (nil) from
// "clear" (*nil).
type TaskPatch struct {
	Title        *string
	Description  *string
	StatusID     **uuid.UUID
	Priority     *models.Priority
	DueDate      **time.Time
	AssigneeID   **uuid.UUID
	ProjectID    **uuid.UUID
	ParentTaskID **uuid.UUID
}

type ClientPatch struct {
	Name  *string
	Email *string
	Phone *string
}

type ProjectPatch struct {
	Name        *string
	Description *string
	ClientID    **uuid.UUID
}

// TaskFilter narrows ListTasks. Zero value lists everything in the office.
type TaskFilter struct {
	ProjectID  *uuid.UUID
	StatusID   *uuid.UUID
	AssigneeID *uuid.UUID
	ParentID   *uuid.UUID
}

// Store defines the persistence methods the rest of the app uses. Every
// office-scoped method takes the officeID as part of its lookup predicate:
// a row outside the office behaves exactly like a row that does not exist.
type Store interface {
	// Offices & users
	CreateOffice(ctx context.Context, name string) (models.Office, error)
	GetOffice(ctx context.Context, id uuid.UUID) (models.Office, error)
	CreateUser(ctx context.Context, u models.User, passwordHash string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, string, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error)
	ListUsers(ctx context.Context, officeID uuid.UUID) ([]models.User, error)
	UpdateUserRole(ctx context.Context, officeID, userID uuid.UUID, role models.Role) (models.User, error)
	DeleteUser(ctx context.Context, officeID, userID uuid.UUID) error

	// Workflow statuses
	CreateStatus(ctx context.Context, s models.WorkflowStatus) (models.WorkflowStatus, error)
	GetStatus(ctx context.Context, officeID, id uuid.UUID) (models.WorkflowStatus, error)
	ListStatuses(ctx context.Context, officeID uuid.UUID) ([]models.WorkflowStatus, error)
	UpdateStatus(ctx context.Context, officeID, id uuid.UUID, patch StatusPatch) (models.WorkflowStatus, error)
	ReorderStatuses(ctx context.Context, officeID uuid.UUID, ids []uuid.UUID) ([]models.WorkflowStatus, error)
	// DeleteStatus clears StatusID on every referencing task in the same
	// transaction as the delete (cascade-to-null).
	DeleteStatus(ctx context.Context, officeID, id uuid.UUID) error

	// Tasks
	CreateTask(ctx context.Context, t models.Task) (models.Task, error)
	GetTask(ctx context.Context, officeID, id uuid.UUID) (models.Task, error)
	ListTasks(ctx context.Context, officeID uuid.UUID, f TaskFilter) ([]models.Task, error)
	UpdateTask(ctx context.Context, officeID, id uuid.UUID, patch TaskPatch) (models.Task, error)
	SetTaskStatus(ctx context.Context, officeID, id uuid.UUID, statusID *uuid.UUID) (models.Task, error)
	// DeleteTask clears ParentTaskID on direct subtasks (cascade-to-null).
	DeleteTask(ctx context.Context, officeID, id uuid.UUID) error

	// Clients & projects (thin scoped CRUD)
	CreateClient(ctx context.Context, c models.Client) (models.Client, error)
	GetClient(ctx context.Context, officeID, id uuid.UUID) (models.Client, error)
	ListClients(ctx context.Context, officeID uuid.UUID) ([]models.Client, error)
	UpdateClient(ctx context.Context, officeID, id uuid.UUID, patch ClientPatch) (models.Client, error)
	// DeleteClient clears ClientID on referencing projects.
	DeleteClient(ctx context.Context, officeID, id uuid.UUID) error
	CreateProject(ctx context.Context, p models.Project) (models.Project, error)
	GetProject(ctx context.Context, officeID, id uuid.UUID) (models.Project, error)
	ListProjects(ctx context.Context, officeID uuid.UUID) ([]models.Project, error)
	UpdateProject(ctx context.Context, officeID, id uuid.UUID, patch ProjectPatch) (models.Project, error)
	// DeleteProject deletes the project's tasks with it.
	DeleteProject(ctx context.Context, officeID, id uuid.UUID) error
}
