package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/folio/backend/pkg/auth"
)

// AdminHandler exposes the admin-access probe used by the admin panel to
// decide between its "Access Denied" and moderation views.
type AdminHandler struct {
	gate *auth.AdminGate
}

// NewAdminHandler creates an AdminHandler with the given gate.
func NewAdminHandler(gate *auth.AdminGate) *AdminHandler {
	return &AdminHandler{gate: gate}
}

// checkAccessResponse is the JSON response for GET /api/admin/check-access.
type checkAccessResponse struct {
	IsAdmin bool   `json:"is_admin"`
	UserID  string `json:"user_id"`
}

// CheckAccess handles GET /api/admin/check-access (authenticated callers).
// Returns 200 with the caller's id when they are an admin, 403 otherwise.
func (h *AdminHandler) CheckAccess(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.gate.Authorize(r.Context()); err != nil {
		switch {
		case errors.Is(err, auth.ErrUnauthorized):
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		case errors.Is(err, auth.ErrNotConfigured):
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "admin_not_configured"})
		default:
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "forbidden"})
		}
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	_ = json.NewEncoder(w).Encode(checkAccessResponse{IsAdmin: true, UserID: userID})
}
