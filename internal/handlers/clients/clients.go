// internal/handlers/clients/clients.go
package clients

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

// Plain scoped CRUD: no workflow semantics, just the guard and the office
// scope applied uniformly.
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

func clientID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "clientID"))
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid client ID"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.open(w, r, authz.ActionCreateClient)
	if !ok {
		return
	}
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&body); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		httpx.Error(w, models.ErrEmptyName)
		return
	}
	c, err := scope.CreateClient(r.Context(), models.Client{
		Name: strings.TrimSpace(body.Name), Email: body.Email, Phone: body.Phone,
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.open(w, r, authz.ActionViewClients)
	if !ok {
		return
	}
	list, err := scope.ListClients(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.open(w, r, authz.ActionViewClients)
	if !ok {
		return
	}
	id, ok := clientID(w, r)
	if !ok {
		return
	}
	c, err := scope.GetClient(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.open(w, r, authz.ActionUpdateClient)
	if !ok {
		return
	}
	id, ok := clientID(w, r)
	if !ok {
		return
	}
	var patch struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
		Phone *string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	c, err := scope.UpdateClient(r.Context(), id, repo.ClientPatch{
		Name: patch.Name, Email: patch.Email, Phone: patch.Phone,
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.open(w, r, authz.ActionDeleteClient)
	if !ok {
		return
	}
	id, ok := clientID(w, r)
	if !ok {
		return
	}
	if err := scope.DeleteClient(r.Context(), id); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "client deleted"})
}
