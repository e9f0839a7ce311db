// internal/handlers/statuses/statuses.go
package statuses

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/henrylimaSaas/ArchFlow-master/internal/authz"
	"github.com/henrylimaSaas/ArchFlow-master/internal/httpx"
	"github.com/henrylimaSaas/ArchFlow-master/internal/middleware"
	"github.com/henrylimaSaas/ArchFlow-master/internal/repo"
	"github.com/henrylimaSaas/ArchFlow-master/internal/workflow"
)

type Handler struct {
	store repo.Store
}

func New(store repo.Store) *Handler {
	return &Handler{store: store}
}

// open resolves scope and guard in one step; every route below starts here.
func (h *Handler) open(w http.ResponseWriter, r *http.Request, action authz.Action) (*workflow.Statuses, bool) {
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
	return workflow.NewStatuses(scope), true
}

// POST /workflow-statuses
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.open(w, r, authz.ActionCreateStatus)
	if !ok {
		return
	}
	var in workflow.CreateStatusInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&in); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s, err := svc.Create(r.Context(), in)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, s)
}

// GET /workflow-statuses
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.open(w, r, authz.ActionViewStatuses)
	if !ok {
		return
	}
	list, err := svc.List(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

// PUT /workflow-statuses/{statusID}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.open(w, r, authz.ActionUpdateStatus)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "statusID"))
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status ID"})
		return
	}
	var patch struct {
		Name     *string `json:"name"`
		Color    *string `json:"color"`
		Position *int    `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	s, err := svc.Update(r.Context(), id, repo.StatusPatch{
		Name: patch.Name, Color: patch.Color, Position: patch.Position,
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

// PUT /workflow-statuses/reorder { "ids": ["...", "..."] }
func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.open(w, r, authz.ActionReorderStatuses)
	if !ok {
		return
	}
	var body struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	list, err := svc.Reorder(r.Context(), body.IDs)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

// DELETE /workflow-statuses/{statusID}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.open(w, r, authz.ActionDeleteStatus)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "statusID"))
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status ID"})
		return
	}
	if err := svc.Delete(r.Context(), id); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "status deleted"})
}
