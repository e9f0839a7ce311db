// internal/middleware/middleware_test.go
package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/henrylimaSaas/ArchFlow-master/internal/auth"
	"github.com/henrylimaSaas/ArchFlow-master/internal/models"
	"github.com/henrylimaSaas/ArchFlow-master/internal/repo"
)

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid, ok := RequestIDFromContext(r.Context())
		require.True(t, ok)
		seen = rid
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDPropagatedFromHeader(t *testing.T) {
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid, _ := RequestIDFromContext(r.Context())
		assert.Equal(t, "upstream-id", rid)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "upstream-id", rec.Header().Get("X-Request-ID"))
}

// The principal is rebuilt from the user row on every request; a token for a
// deleted user stops working immediately.
func TestRequirePrincipalLoadsFreshUser(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemory()
	tokens := auth.NewTokens("middleware-test", time.Hour)

	office, err := store.CreateOffice(ctx, "A")
	require.NoError(t, err)
	u, err := store.CreateUser(ctx, models.User{
		OfficeID: &office.ID, Name: "Ana", Email: "ana@a.test", Role: models.RoleAdmin,
	}, "hash")
	require.NoError(t, err)
	tok, err := tokens.Issue(u.ID)
	require.NoError(t, err)

	var got models.Principal
	h := RequirePrincipal(tokens, store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = PrincipalFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, models.RoleAdmin, got.Role)

	require.NoError(t, repo.ScopeTo(store, office.ID).DeleteUser(ctx, u.ID))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequirePrincipalRejectsBadTokens(t *testing.T) {
	store := repo.NewMemory()
	tokens := auth.NewTokens("middleware-test", time.Hour)
	h := RequirePrincipal(tokens, store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	for _, header := range []string{"", "Bearer ", "Bearer garbage", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}

	// Valid signature, unknown user.
	tok, err := tokens.Issue(uuid.New())
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestScopeFromRequestBindsOwnOffice(t *testing.T) {
	store := repo.NewMemory()
	officeID := uuid.New()
	p := models.Principal{ID: uuid.New(), Role: models.RoleArchitect, OfficeID: &officeID}

	req := httptest.NewRequest(http.MethodGet, "/board", nil)
	req = req.WithContext(WithPrincipal(req.Context(), p))

	scope, got, err := ScopeFromRequest(store, req)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, officeID, scope.OfficeID())
}

func TestScopeFromRequestSuperadminNeedsOfficeParam(t *testing.T) {
	store := repo.NewMemory()
	p := models.Principal{ID: uuid.New(), Role: models.RoleSuperAdmin, IsSuperAdmin: true}

	req := httptest.NewRequest(http.MethodGet, "/board", nil)
	req = req.WithContext(WithPrincipal(req.Context(), p))
	_, _, err := ScopeFromRequest(store, req)
	assert.ErrorIs(t, err, models.ErrNoOffice)

	officeID := uuid.New()
	req = httptest.NewRequest(http.MethodGet, "/board?office="+officeID.String(), nil)
	req = req.WithContext(WithPrincipal(req.Context(), p))
	scope, _, err := ScopeFromRequest(store, req)
	require.NoError(t, err)
	assert.Equal(t, officeID, scope.OfficeID())
}
