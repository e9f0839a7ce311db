// internal/repo/memory.go
package repo

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/henrylimaSaas/ArchFlow-master/internal/models"
)

// memStore is an in-process Store with the same semantics as the Postgres
// implementation: per-office predicates on every lookup, case-insensitive
// status-name uniqueness, transactional cascades under one lock. Used by
// tests and by local development without a database.
type memStore struct {
	mu       sync.RWMutex
	offices  map[uuid.UUID]models.Office
	users    map[uuid.UUID]models.User
	hashes   map[uuid.UUID]string
	statuses map[uuid.UUID]models.WorkflowStatus
	tasks    map[uuid.UUID]models.Task
	clients  map[uuid.UUID]models.Client
	projects map[uuid.UUID]models.Project
}

func NewMemory() Store {
	return &memStore{
		offices:  map[uuid.UUID]models.Office{},
		users:    map[uuid.UUID]models.User{},
		hashes:   map[uuid.UUID]string{},
		statuses: map[uuid.UUID]models.WorkflowStatus{},
		tasks:    map[uuid.UUID]models.Task{},
		clients:  map[uuid.UUID]models.Client{},
		projects: map[uuid.UUID]models.Project{},
	}
}

func lessUUID(a, b uuid.UUID) bool { return bytes.Compare(a[:], b[:]) < 0 }

// ---------------- Offices & users ----------------

func (m *memStore) CreateOffice(_ context.Context, name string) (models.Office, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := models.Office{ID: uuid.New(), Name: name, CreatedAt: time.Now().UTC()}
	m.offices[o.ID] = o
	return o, nil
}

func (m *memStore) GetOffice(_ context.Context, id uuid.UUID) (models.Office, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.offices[id]
	if !ok {
		return models.Office{}, models.ErrNotFound
	}
	return o, nil
}

func (m *memStore) CreateUser(_ context.Context, u models.User, passwordHash string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Email = strings.ToLower(u.Email)
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return models.User{}, models.ErrEmailTaken
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = time.Now().UTC()
	m.users[u.ID] = u
	m.hashes[u.ID] = passwordHash
	return u, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (models.User, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	email = strings.ToLower(email)
	for _, u := range m.users {
		if u.Email == email {
			return u, m.hashes[u.ID], nil
		}
	}
	return models.User{}, "", models.ErrUserNotFound
}

func (m *memStore) GetUserByID(_ context.Context, id uuid.UUID) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, models.ErrUserNotFound
	}
	return u, nil
}

func (m *memStore) ListUsers(_ context.Context, officeID uuid.UUID) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.User{}
	for _, u := range m.users {
		if u.OfficeID != nil && *u.OfficeID == officeID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return lessUUID(out[i].ID, out[j].ID)
	})
	return out, nil
}

func (m *memStore) UpdateUserRole(_ context.Context, officeID, userID uuid.UUID, role models.Role) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok || u.OfficeID == nil || *u.OfficeID != officeID {
		return models.User{}, models.ErrNotFound
	}
	u.Role = role
	m.users[userID] = u
	return u, nil
}

func (m *memStore) DeleteUser(_ context.Context, officeID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok || u.OfficeID == nil || *u.OfficeID != officeID {
		return models.ErrNotFound
	}
	for id, t := range m.tasks {
		if t.OfficeID == officeID && t.AssigneeID != nil && *t.AssigneeID == userID {
			t.AssigneeID = nil
			m.tasks[id] = t
		}
	}
	delete(m.users, userID)
	delete(m.hashes, userID)
	return nil
}

// ---------------- Workflow statuses ----------------

func (m *memStore) CreateStatus(_ context.Context, s models.WorkflowStatus) (models.WorkflowStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	maxPos := -1
	for _, existing := range m.statuses {
		if existing.OfficeID != s.OfficeID {
			continue
		}
		if strings.EqualFold(existing.Name, s.Name) {
			return models.WorkflowStatus{}, models.ErrDuplicateStatusName
		}
		if existing.Position > maxPos {
			maxPos = existing.Position
		}
	}
	if s.Position < 0 {
		s.Position = maxPos + 1
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now().UTC()
	m.statuses[s.ID] = s
	return s, nil
}

func (m *memStore) GetStatus(_ context.Context, officeID, id uuid.UUID) (models.WorkflowStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.statuses[id]
	if !ok || s.OfficeID != officeID {
		return models.WorkflowStatus{}, models.ErrNotFound
	}
	return s, nil
}

func (m *memStore) listStatusesLocked(officeID uuid.UUID) []models.WorkflowStatus {
	out := []models.WorkflowStatus{}
	for _, s := range m.statuses {
		if s.OfficeID == officeID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return lessUUID(out[i].ID, out[j].ID)
	})
	return out
}

func (m *memStore) ListStatuses(_ context.Context, officeID uuid.UUID) ([]models.WorkflowStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listStatusesLocked(officeID), nil
}

func (m *memStore) UpdateStatus(_ context.Context, officeID, id uuid.UUID, patch StatusPatch) (models.WorkflowStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.statuses[id]
	if !ok || s.OfficeID != officeID {
		return models.WorkflowStatus{}, models.ErrNotFound
	}
	if patch.Name != nil {
		for _, other := range m.statuses {
			if other.ID != id && other.OfficeID == officeID && strings.EqualFold(other.Name, *patch.Name) {
				return models.WorkflowStatus{}, models.ErrDuplicateStatusName
			}
		}
		s.Name = *patch.Name
	}
	if patch.Color != nil {
		s.Color = *patch.Color
	}
	if patch.Position != nil {
		s.Position = *patch.Position
	}
	m.statuses[id] = s
	return s, nil
}

func (m *memStore) ReorderStatuses(_ context.Context, officeID uuid.UUID, ids []uuid.UUID) ([]models.WorkflowStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Validate the whole batch before touching anything.
	for _, id := range ids {
		s, ok := m.statuses[id]
		if !ok || s.OfficeID != officeID {
			return nil, models.ErrInvalidStatus
		}
	}
	for i, id := range ids {
		s := m.statuses[id]
		s.Position = i
		m.statuses[id] = s
	}
	return m.listStatusesLocked(officeID), nil
}

func (m *memStore) DeleteStatus(_ context.Context, officeID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.statuses[id]
	if !ok || s.OfficeID != officeID {
		return models.ErrNotFound
	}
	for tid, t := range m.tasks {
		if t.OfficeID == officeID && t.StatusID != nil && *t.StatusID == id {
			t.StatusID = nil
			t.UpdatedAt = time.Now().UTC()
			m.tasks[tid] = t
		}
	}
	delete(m.statuses, id)
	return nil
}

// ---------------- Tasks ----------------

func (m *memStore) CreateTask(_ context.Context, t models.Task) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	m.tasks[t.ID] = t
	return t, nil
}

func (m *memStore) GetTask(_ context.Context, officeID, id uuid.UUID) (models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	if !ok || t.OfficeID != officeID {
		return models.Task{}, models.ErrNotFound
	}
	return t, nil
}

func matchOpt(ref *uuid.UUID, want *uuid.UUID) bool {
	if want == nil {
		return true
	}
	return ref != nil && *ref == *want
}

func (m *memStore) ListTasks(_ context.Context, officeID uuid.UUID, f TaskFilter) ([]models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Task{}
	for _, t := range m.tasks {
		if t.OfficeID != officeID {
			continue
		}
		if !matchOpt(t.ProjectID, f.ProjectID) || !matchOpt(t.StatusID, f.StatusID) ||
			!matchOpt(t.AssigneeID, f.AssigneeID) || !matchOpt(t.ParentTaskID, f.ParentID) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return lessUUID(out[i].ID, out[j].ID)
	})
	return out, nil
}

func (m *memStore) UpdateTask(_ context.Context, officeID, id uuid.UUID, patch TaskPatch) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.OfficeID != officeID {
		return models.Task{}, models.ErrNotFound
	}
	ApplyTaskPatch(&t, patch)
	t.UpdatedAt = time.Now().UTC()
	m.tasks[id] = t
	return t, nil
}

func (m *memStore) SetTaskStatus(_ context.Context, officeID, id uuid.UUID, statusID *uuid.UUID) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.OfficeID != officeID {
		return models.Task{}, models.ErrNotFound
	}
	t.StatusID = statusID
	t.UpdatedAt = time.Now().UTC()
	m.tasks[id] = t
	return t, nil
}

func (m *memStore) DeleteTask(_ context.Context, officeID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.OfficeID != officeID {
		return models.ErrNotFound
	}
	for cid, child := range m.tasks {
		if child.OfficeID == officeID && child.ParentTaskID != nil && *child.ParentTaskID == id {
			child.ParentTaskID = nil
			m.tasks[cid] = child
		}
	}
	delete(m.tasks, id)
	return nil
}

// ---------------- Clients & projects ----------------

func (m *memStore) CreateClient(_ context.Context, c models.Client) (models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now().UTC()
	m.clients[c.ID] = c
	return c, nil
}

func (m *memStore) GetClient(_ context.Context, officeID, id uuid.UUID) (models.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clients[id]
	if !ok || c.OfficeID != officeID {
		return models.Client{}, models.ErrNotFound
	}
	return c, nil
}

func (m *memStore) ListClients(_ context.Context, officeID uuid.UUID) ([]models.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Client{}
	for _, c := range m.clients {
		if c.OfficeID == officeID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return lessUUID(out[i].ID, out[j].ID)
	})
	return out, nil
}

func (m *memStore) UpdateClient(_ context.Context, officeID, id uuid.UUID, patch ClientPatch) (models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[id]
	if !ok || c.OfficeID != officeID {
		return models.Client{}, models.ErrNotFound
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Email != nil {
		c.Email = *patch.Email
	}
	if patch.Phone != nil {
		c.Phone = *patch.Phone
	}
	m.clients[id] = c
	return c, nil
}

func (m *memStore) DeleteClient(_ context.Context, officeID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[id]
	if !ok || c.OfficeID != officeID {
		return models.ErrNotFound
	}
	for pid, p := range m.projects {
		if p.OfficeID == officeID && p.ClientID != nil && *p.ClientID == id {
			p.ClientID = nil
			m.projects[pid] = p
		}
	}
	delete(m.clients, id)
	return nil
}

func (m *memStore) CreateProject(_ context.Context, p models.Project) (models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now().UTC()
	m.projects[p.ID] = p
	return p, nil
}

func (m *memStore) GetProject(_ context.Context, officeID, id uuid.UUID) (models.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[id]
	if !ok || p.OfficeID != officeID {
		return models.Project{}, models.ErrNotFound
	}
	return p, nil
}

func (m *memStore) ListProjects(_ context.Context, officeID uuid.UUID) ([]models.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Project{}
	for _, p := range m.projects {
		if p.OfficeID == officeID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return lessUUID(out[i].ID, out[j].ID)
	})
	return out, nil
}

func (m *memStore) UpdateProject(_ context.Context, officeID, id uuid.UUID, patch ProjectPatch) (models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok || p.OfficeID != officeID {
		return models.Project{}, models.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.ClientID != nil {
		p.ClientID = *patch.ClientID
	}
	m.projects[id] = p
	return p, nil
}

func (m *memStore) DeleteProject(_ context.Context, officeID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok || p.OfficeID != officeID {
		return models.ErrNotFound
	}
	for tid, t := range m.tasks {
		if t.OfficeID == officeID && t.ProjectID != nil && *t.ProjectID == id {
			delete(m.tasks, tid)
		}
	}
	delete(m.projects, id)
	return nil
}
