package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
)

type contextKey string

const roleKey contextKey = "role"

// Authenticate resolves HTTP Basic credentials into a Role and stores it in
// the request context. Requests without credentials continue as guests;
// requests with wrong credentials are rejected.
func Authenticate(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleGuest
			if username, password, ok := r.BasicAuth(); ok {
				verified, err := verifier.Verify(username, password)
				if err != nil {
					log.Warn("Rejected credentials", "username", username, "error", err)
					w.Header().Set("WWW-Authenticate", `Basic realm="seven-a-side"`)
					writeError(w, http.StatusUnauthorized, "invalid credentials")
					return
				}
				role = verified
			}
			next.ServeHTTP(w, r.WithContext(WithRole(r.Context(), role)))
		})
	}
}

// RequireRole only lets requests with the given role through. A guest that
// sent no credentials gets 401, any other role mismatch gets 403.
func RequireRole(role Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current := RoleFromContext(r.Context())
			if current == role {
				next.ServeHTTP(w, r)
				return
			}
			if _, _, ok := r.BasicAuth(); !ok {
				w.Header().Set("WWW-Authenticate", `Basic realm="seven-a-side"`)
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			writeError(w, http.StatusForbidden, "forbidden")
		})
	}
}

// WithRole returns a copy of ctx carrying role.
func WithRole(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, roleKey, role)
}

// RoleFromContext returns the role stored by Authenticate, or RoleGuest.
func RoleFromContext(ctx context.Context) Role {
	role, ok := ctx.Value(roleKey).(Role)
	if !ok {
		return RoleGuest
	}
	return role
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		log.Error("Failed to write error response", "error", err)
	}
}
