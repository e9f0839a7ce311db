// internal/middleware/scope.go
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/henrylimaSaas/ArchFlow-master/internal/models"
	"github.com/henrylimaSaas/ArchFlow-master/internal/repo"
)

// ScopeFromRequest binds the store to the requesting principal's office.
// Regular principals are bound to their own office, full stop. A superadmin
// carries no office and must name the one it acts on with ?office=<uuid>.
func ScopeFromRequest(store repo.Store, r *http.Request) (*repo.Scoped, models.Principal, error) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		return nil, models.Principal{}, models.ErrNoOffice
	}
	if p.IsSuperAdmin {
		id, err := uuid.Parse(r.URL.Query().Get("office"))
		if err != nil {
			return nil, p, models.ErrNoOffice
		}
		return repo.ScopeTo(store, id), p, nil
	}
	scope, err := repo.Scope(store, p)
	if err != nil {
		return nil, p, err
	}
	return scope, p, nil
}
