// internal/httpx/httpx.go
package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/henrylimaSaas/ArchFlow-master/internal/authz"
	"github.com/henrylimaSaas/ArchFlow-master/internal/models"
)

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

// Error maps a domain error onto the HTTP surface. Cross-tenant denials and
// out-of-office lookups both answer 404 so existence is never confirmed
// across tenants; role denials answer 403 with the reason.
func Error(w http.ResponseWriter, err error) {
	var denied *authz.DeniedError
	if errors.As(err, &denied) {
		if denied.Reason == authz.ReasonCrossTenantAccess {
			JSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		JSON(w, http.StatusForbidden, map[string]string{
			"error":  "forbidden",
			"reason": string(denied.Reason),
		})
		return
	}

	switch {
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrOfficeNotFound):
		JSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, models.ErrNoOffice):
		JSON(w, http.StatusForbidden, map[string]string{"error": err.Error(), "reason": "NoTenantAssociation"})
	case errors.Is(err, models.ErrDuplicateStatusName),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrNoStatusConfigured),
		errors.Is(err, models.ErrInvalidPriority),
		errors.Is(err, models.ErrInvalidColor),
		errors.Is(err, models.ErrSubtaskDepth),
		errors.Is(err, models.ErrEmptyName),
		errors.Is(err, models.ErrEmptyTitle),
		errors.Is(err, models.ErrEmailTaken):
		JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		slog.Error("internal error", "err", err)
		JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
