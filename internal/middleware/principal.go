// internal/middleware/principal.go
package middleware

import (
	"context"
	"net/http"

	"github.com/henrylimaSaas/ArchFlow-master/internal/auth"
	"github.com/henrylimaSaas/ArchFlow-master/internal/httpx"
	"github.com/henrylimaSaas/ArchFlow-master/internal/models"
	"github.com/henrylimaSaas/ArchFlow-master/internal/repo"
)

type ctxKeyPrincipal struct{}

func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal{}, p)
}

func PrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal{}).(models.Principal)
	return p, ok
}

// RequirePrincipal resolves the bearer token into a Principal and injects it
// into the context. The user row is loaded fresh on every request so a role
// change or deletion takes effect immediately; the token only proves
// identity. The principal is immutable for the request lifetime.
func RequirePrincipal(tokens *auth.Tokens, store repo.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			tok, ok := auth.BearerToken(req.Header.Get("Authorization"))
			if !ok {
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
				return
			}
			claims, err := tokens.Verify(tok)
			if err != nil {
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
				return
			}
			u, err := store.GetUserByID(req.Context(), claims.UserID)
			if err != nil {
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "unknown principal"})
				return
			}
			p := models.Principal{
				ID:           u.ID,
				Role:         u.Role,
				OfficeID:     u.OfficeID,
				IsSuperAdmin: u.Role == models.RoleSuperAdmin,
			}
			next.ServeHTTP(w, req.WithContext(WithPrincipal(req.Context(), p)))
		})
	}
}
