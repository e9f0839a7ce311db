// internal/auth/handlers.go
package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/henrylimaSaas/ArchFlow-master/internal/httpx"
	"github.com/henrylimaSaas/ArchFlow-master/internal/models"
	"github.com/henrylimaSaas/ArchFlow-master/internal/repo"
)

// SignupHandler creates an office and its first admin user, then issues a
// bearer token.
// POST /auth/signup { "office": "...", "name": "...", "email": "...", "password": "..." }
func SignupHandler(store repo.Store, tokens *Tokens) http.HandlerFunc {
	type bodyT struct {
		Office   string `json:"office"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	return func(w http.ResponseWriter, req *http.Request) {
		var b bodyT
		if err := json.NewDecoder(req.Body).Decode(&b); err != nil ||
			strings.TrimSpace(b.Office) == "" || strings.TrimSpace(b.Email) == "" {
			httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
			return
		}
		if len(b.Password) < 8 {
			httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "weak password"})
			return
		}
		phc, err := HashPassword(b.Password, defaultArgonParams())
		if err != nil {
			httpx.JSON(w, http.StatusInternalServerError, map[string]string{"error": "hash error"})
			return
		}
		office, err := store.CreateOffice(req.Context(), strings.TrimSpace(b.Office))
		if err != nil {
			httpx.Error(w, err)
			return
		}
		u, err := store.CreateUser(req.Context(), models.User{
			OfficeID: &office.ID,
			Name:     strings.TrimSpace(b.Name),
			Email:    strings.TrimSpace(b.Email),
			Role:     models.RoleAdmin,
		}, phc)
		if err != nil {
			httpx.Error(w, err)
			return
		}
		tok, err := tokens.Issue(u.ID)
		if err != nil {
			httpx.JSON(w, http.StatusInternalServerError, map[string]string{"error": "token error"})
			return
		}
		httpx.JSON(w, http.StatusCreated, map[string]any{
			"token":  tok,
			"user":   u,
			"office": office,
		})
	}
}

// LoginHandler verifies the password and issues a bearer token.
// POST /auth/login { "email": "...", "password": "..." }
func LoginHandler(store repo.Store, tokens *Tokens) http.HandlerFunc {
	type bodyT struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	return func(w http.ResponseWriter, req *http.Request) {
		var b bodyT
		if err := json.NewDecoder(req.Body).Decode(&b); err != nil || b.Email == "" {
			httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
			return
		}
		u, phc, err := store.GetUserByEmail(req.Context(), b.Email)
		if err != nil {
			// Same answer for unknown user and wrong password.
			httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		ok, err := VerifyPassword(b.Password, phc)
		if err != nil || !ok {
			httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		tok, err := tokens.Issue(u.ID)
		if err != nil {
			httpx.JSON(w, http.StatusInternalServerError, map[string]string{"error": "token error"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"token": tok, "user": u})
	}
}
