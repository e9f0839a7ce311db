// internal/handlers/projects/projects.go
package projects

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/henrylimaSaas/ArchFlow-master/internal/authz"
	"github.com/henrylimaSaas/ArchFlow-master/internal/httpx"
	"github.com/henrylimaSaas/ArchFlow-master/internal/middleware"
	"github.com/henrylimaSaas/ArchFlow-master/internal/models"
	"github.com/henrylimaSaas/ArchFlow-master/internal/repo"
)

type Handler struct {
	store repo.Store
}

func New(store repo.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request, action authz.Action) (*repo.Scoped, bool) {
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
	return scope, true
}

func projectID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid project ID"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.open(w, r, authz.ActionCreateProject)
	if !ok {
		return
	}
	var body struct {
		Name        string     `json:"name"`
		Description string     `json:"description"`
		ClientID    *uuid.UUID `json:"client_id"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&body); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		httpx.Error(w, models.ErrEmptyName)
		return
	}
	if body.ClientID != nil {
		if _, err := scope.GetClient(r.Context(), *body.ClientID); err != nil {
			httpx.Error(w, err)
			return
		}
	}
	p, err := scope.CreateProject(r.Context(), models.Project{
		Name:        strings.TrimSpace(body.Name),
		Description: body.Description,
		ClientID:    body.ClientID,
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.open(w, r, authz.ActionViewProjects)
	if !ok {
		return
	}
	list, err := scope.ListProjects(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.open(w, r, authz.ActionViewProjects)
	if !ok {
		return
	}
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	p, err := scope.GetProject(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.open(w, r, authz.ActionUpdateProject)
	if !ok {
		return
	}
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	var body struct {
		Name        *string         `json:"name"`
		Description *string         `json:"description"`
		ClientID    json.RawMessage `json:"client_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	patch := repo.ProjectPatch{Name: body.Name, Description: body.Description}
	if body.ClientID != nil {
		var v *uuid.UUID
		if err := json.Unmarshal(body.ClientID, &v); err != nil {
			httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid client_id"})
			return
		}
		if v != nil {
			if _, err := scope.GetClient(r.Context(), *v); err != nil {
				httpx.Error(w, err)
				return
			}
		}
		patch.ClientID = &v
	}
	p, err := scope.UpdateProject(r.Context(), id, patch)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// Delete removes the project and its tasks with it.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.open(w, r, authz.ActionDeleteProject)
	if !ok {
		return
	}
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	if err := scope.DeleteProject(r.Context(), id); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "project deleted"})
}
