// internal/handlers/tasks/tasks.go
package tasks

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/henrylimaSaas/ArchFlow-master/internal/authz"
	"github.com/henrylimaSaas/ArchFlow-master/internal/httpx"
	"github.com/henrylimaSaas/ArchFlow-master/internal/middleware"
	"github.com/henrylimaSaas/ArchFlow-master/internal/models"
	"github.com/henrylimaSaas/ArchFlow-master/internal/repo"
	"github.com/henrylimaSaas/ArchFlow-master/internal/workflow"
)

type Handler struct {
	store repo.Store
}

func New(store repo.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request, action authz.Action) (*workflow.Engine, bool) {
	scope, p, err := middleware.ScopeFromRequest(h.store, r)
	if err != nil {
		httpx.Error(w, err)
		return nil, false
	}
	officeID := scope.OfficeID()
	if err := authz.Authorize(p, action, &officeID); err != nil {
		httpx.Error(w, err)
		return nil, false
	}
	return workflow.NewEngine(scope), true
}

func taskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid task ID"})
		return uuid.Nil, false
	}
	return id, true
}

// POST /tasks
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	eng, ok := h.open(w, r, authz.ActionCreateTask)
	if !ok {
		return
	}
	defer r.Body.Close()
	var in workflow.CreateTaskInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&in); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	t, err := eng.Create(r.Context(), in)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, t)
}

// GET /tasks
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	eng, ok := h.open(w, r, authz.ActionViewTasks)
	if !ok {
		return
	}
	var f repo.TaskFilter
	q := r.URL.Query()
	if v := q.Get("project"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid project filter"})
			return
		}
		f.ProjectID = &id
	}
	if v := q.Get("status"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status filter"})
			return
		}
		f.StatusID = &id
	}
	if v := q.Get("assignee"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid assignee filter"})
			return
		}
		f.AssigneeID = &id
	}
	list, err := eng.List(r.Context(), f)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

// GET /tasks/{taskID}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	eng, ok := h.open(w, r, authz.ActionViewTasks)
	if !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	t, err := eng.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

// taskPatchBody distinguishes absent fields (unchanged) from explicit nulls
// (clear) for the nullable references.
type taskPatchBody struct {
	Title        *string          `json:"title"`
	Description  *string          `json:"description"`
	StatusID     json.RawMessage  `json:"status_id"`
	Priority     *models.Priority `json:"priority"`
	DueDate      json.RawMessage  `json:"due_date"`
	AssigneeID   json.RawMessage  `json:"assignee_id"`
	ProjectID    json.RawMessage  `json:"project_id"`
	ParentTaskID json.RawMessage  `json:"parent_task_id"`
}

func optUUIDField(raw json.RawMessage) (**uuid.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	var v *uuid.UUID
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func optTimeField(raw json.RawMessage) (**time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	var v *time.Time
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (b taskPatchBody) toPatch() (repo.TaskPatch, error) {
	patch := repo.TaskPatch{
		Title:       b.Title,
		Description: b.Description,
		Priority:    b.Priority,
	}
	var err error
	if patch.StatusID, err = optUUIDField(b.StatusID); err != nil {
		return repo.TaskPatch{}, err
	}
	if patch.DueDate, err = optTimeField(b.DueDate); err != nil {
		return repo.TaskPatch{}, err
	}
	if patch.AssigneeID, err = optUUIDField(b.AssigneeID); err != nil {
		return repo.TaskPatch{}, err
	}
	if patch.ProjectID, err = optUUIDField(b.ProjectID); err != nil {
		return repo.TaskPatch{}, err
	}
	if patch.ParentTaskID, err = optUUIDField(b.ParentTaskID); err != nil {
		return repo.TaskPatch{}, err
	}
	return patch, nil
}

// PUT /tasks/{taskID}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	eng, ok := h.open(w, r, authz.ActionUpdateTask)
	if !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	var body taskPatchBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&body); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	patch, err := body.toPatch()
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	t, err := eng.Update(r.Context(), id, patch)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

// PUT /tasks/{taskID}/move { "status_id": "..." }
func (h *Handler) Move(w http.ResponseWriter, r *http.Request) {
	eng, ok := h.open(w, r, authz.ActionMoveTask)
	if !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	var body struct {
		StatusID uuid.UUID `json:"status_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.StatusID == uuid.Nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "status_id is required"})
		return
	}
	t, err := eng.Move(r.Context(), id, body.StatusID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

// DELETE /tasks/{taskID}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	eng, ok := h.open(w, r, authz.ActionDeleteTask)
	if !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	if err := eng.Delete(r.Context(), id); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "task deleted"})
}

// GET /board
func (h *Handler) Board(w http.ResponseWriter, r *http.Request) {
	eng, ok := h.open(w, r, authz.ActionViewTasks)
	if !ok {
		return
	}
	board, err := eng.BuildBoard(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, board)
}
