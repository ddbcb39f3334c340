package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// Admin gate failure modes, checked in order: identity first, configuration
// second, membership last.
var (
	// ErrUnauthorized is returned when no caller identity is present.
	ErrUnauthorized = errors.New("auth: no identity")
	// ErrNotConfigured is returned when the admin allow-list is empty.
	// Startup validation should make this unreachable in practice.
	ErrNotConfigured = errors.New("auth: admin allow-list not configured")
	// ErrForbidden is returned when the caller's identity subject is not
	// in the allow-list.
	ErrForbidden = errors.New("auth: not an admin")
)

// AdminGate decides whether an authenticated caller may invoke admin-only
// operations. It is the single authorization policy shared by every
// moderation endpoint.
type AdminGate struct {
	subjects map[string]bool
}

// NewAdminGate creates an AdminGate from the configured allow-list of
// identity subjects. Membership is exact-match only.
func NewAdminGate(subjects []string) *AdminGate {
	set := make(map[string]bool, len(subjects))
	for _, s := range subjects {
		if s != "" {
			set[s] = true
		}
	}
	return &AdminGate{subjects: set}
}

// Authorize checks the caller in ctx against the allow-list. It is a pure
// check with no side effects.
func (g *AdminGate) Authorize(ctx context.Context) error {
	subject, ok := UserIDFromContext(ctx)
	if !ok || subject == "" {
		return ErrUnauthorized
	}
	if len(g.subjects) == 0 {
		return ErrNotConfigured
	}
	if !g.subjects[subject] {
		return ErrForbidden
	}
	return nil
}

// IsAdmin reports whether the given identity subject is in the allow-list.
func (g *AdminGate) IsAdmin(subject string) bool {
	return g.subjects[subject]
}

// RequireAdmin wraps a handler so it only runs when the gate authorizes the
// caller. Gate failures map to 401 / 500 / 403 respectively.
func (g *AdminGate) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := g.Authorize(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			switch {
			case errors.Is(err, ErrUnauthorized):
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			case errors.Is(err, ErrNotConfigured):
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "admin_not_configured"})
			default:
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "forbidden"})
			}
			return
		}
		next.ServeHTTP(w, r)
	})
}
