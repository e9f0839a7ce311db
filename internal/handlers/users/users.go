// internal/handlers/users/users.go
package users

import (
	"encoding/json"
	"net/http"

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

func userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user ID"})
		return uuid.Nil, false
	}
	return id, true
}

// GET /users
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.open(w, r, authz.ActionViewUsers)
	if !ok {
		return
	}
	list, err := scope.ListUsers(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

// PUT /users/{userID}/role { "role": "architect" }
func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.open(w, r, authz.ActionChangeUserRole)
	if !ok {
		return
	}
	id, ok := userID(w, r)
	if !ok {
		return
	}
	var body struct {
		Role models.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	// Superadmin is not grantable through the office surface.
	if !body.Role.Valid() || body.Role == models.RoleSuperAdmin {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid role"})
		return
	}
	u, err := scope.UpdateUserRole(r.Context(), id, body.Role)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}

// DELETE /users/{userID}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.open(w, r, authz.ActionDeleteUser)
	if !ok {
		return
	}
	id, ok := userID(w, r)
	if !ok {
		return
	}
	p, _ := middleware.PrincipalFromContext(r.Context())
	if p.ID == id {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "cannot delete yourself"})
		return
	}
	if err := scope.DeleteUser(r.Context(), id); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

// GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	u, err := h.store.GetUserByID(r.Context(), p.ID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}
