// internal/repo/scope.go
package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/henrylimaSaas/ArchFlow-master/internal/models"
)

// Scoped is a data-access handle bound to one office. Every call made
// through it carries the bound officeID in its lookup predicate or write
// payload, so a handler cannot reach another tenant's rows even when it is
// handed a foreign id. The office predicate is always AND-composed with any
// other filter, never OR.
type Scoped struct {
	store    Store
	officeID uuid.UUID
}

// Scope binds a store to the principal's office. Non-superadmin principals
// without an office get ErrNoOffice. Superadmins must name the office they
// act on via ScopeTo.
func Scope(s Store, p models.Principal) (*Scoped, error) {
	if p.OfficeID == nil {
		return nil, models.ErrNoOffice
	}
	return &Scoped{store: s, officeID: *p.OfficeID}, nil
}

// ScopeTo binds a store to an explicit office. Reserved for superadmin
// callers, whose principal carries no office of its own.
func ScopeTo(s Store, officeID uuid.UUID) *Scoped {
	return &Scoped{store: s, officeID: officeID}
}

// OfficeID returns the office this handle is bound to.
func (s *Scoped) OfficeID() uuid.UUID { return s.officeID }

func (s *Scoped) Office(ctx context.Context) (models.Office, error) {
	return s.store.GetOffice(ctx, s.officeID)
}

func (s *Scoped) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsers(ctx, s.officeID)
}

func (s *Scoped) UpdateUserRole(ctx context.Context, userID uuid.UUID, role models.Role) (models.User, error) {
	return s.store.UpdateUserRole(ctx, s.officeID, userID, role)
}

func (s *Scoped) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return s.store.DeleteUser(ctx, s.officeID, userID)
}

func (s *Scoped) CreateStatus(ctx context.Context, st models.WorkflowStatus) (models.WorkflowStatus, error) {
	st.OfficeID = s.officeID
	return s.store.CreateStatus(ctx, st)
}

func (s *Scoped) GetStatus(ctx context.Context, id uuid.UUID) (models.WorkflowStatus, error) {
	return s.store.GetStatus(ctx, s.officeID, id)
}

func (s *Scoped) ListStatuses(ctx context.Context) ([]models.WorkflowStatus, error) {
	return s.store.ListStatuses(ctx, s.officeID)
}

func (s *Scoped) UpdateStatus(ctx context.Context, id uuid.UUID, patch StatusPatch) (models.WorkflowStatus, error) {
	return s.store.UpdateStatus(ctx, s.officeID, id, patch)
}

func (s *Scoped) ReorderStatuses(ctx context.Context, ids []uuid.UUID) ([]models.WorkflowStatus, error) {
	return s.store.ReorderStatuses(ctx, s.officeID, ids)
}

func (s *Scoped) DeleteStatus(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteStatus(ctx, s.officeID, id)
}

func (s *Scoped) CreateTask(ctx context.Context, t models.Task) (models.Task, error) {
	t.OfficeID = s.officeID
	return s.store.CreateTask(ctx, t)
}

func (s *Scoped) GetTask(ctx context.Context, id uuid.UUID) (models.Task, error) {
	return s.store.GetTask(ctx, s.officeID, id)
}

func (s *Scoped) ListTasks(ctx context.Context, f TaskFilter) ([]models.Task, error) {
	return s.store.ListTasks(ctx, s.officeID, f)
}

func (s *Scoped) UpdateTask(ctx context.Context, id uuid.UUID, patch TaskPatch) (models.Task, error) {
	return s.store.UpdateTask(ctx, s.officeID, id, patch)
}

func (s *Scoped) SetTaskStatus(ctx context.Context, id uuid.UUID, statusID *uuid.UUID) (models.Task, error) {
	return s.store.SetTaskStatus(ctx, s.officeID, id, statusID)
}

func (s *Scoped) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteTask(ctx, s.officeID, id)
}

func (s *Scoped) CreateClient(ctx context.Context, c models.Client) (models.Client, error) {
	c.OfficeID = s.officeID
	return s.store.CreateClient(ctx, c)
}

func (s *Scoped) GetClient(ctx context.Context, id uuid.UUID) (models.Client, error) {
	return s.store.GetClient(ctx, s.officeID, id)
}

func (s *Scoped) ListClients(ctx context.Context) ([]models.Client, error) {
	return s.store.ListClients(ctx, s.officeID)
}

func (s *Scoped) UpdateClient(ctx context.Context, id uuid.UUID, patch ClientPatch) (models.Client, error) {
	return s.store.UpdateClient(ctx, s.officeID, id, patch)
}

func (s *Scoped) DeleteClient(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteClient(ctx, s.officeID, id)
}

func (s *Scoped) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	p.OfficeID = s.officeID
	return s.store.CreateProject(ctx, p)
}

func (s *Scoped) GetProject(ctx context.Context, id uuid.UUID) (models.Project, error) {
	return s.store.GetProject(ctx, s.officeID, id)
}

func (s *Scoped) ListProjects(ctx context.Context) ([]models.Project, error) {
	return s.store.ListProjects(ctx, s.officeID)
}

func (s *Scoped) UpdateProject(ctx context.Context, id uuid.UUID, patch ProjectPatch) (models.Project, error) {
	return s.store.UpdateProject(ctx, s.officeID, id, patch)
}

func (s *Scoped) DeleteProject(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteProject(ctx, s.officeID, id)
}
