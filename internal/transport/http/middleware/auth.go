package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/petcarehq/petcare/internal/auth"
	"github.com/petcarehq/petcare/internal/domain"
)

type contextKey string

const principalKey contextKey = "principal"

// Authenticate validates the bearer token (signature + expiry only, no
// store lookup) and puts the caller's principal on the context.
func Authenticate(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "Missing or invalid bearer token.")
				return
			}

			claims, err := auth.ParseToken(jwtSecret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token.")
				return
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "Invalid subject in token.")
				return
			}

			roles := make([]domain.Role, 0, len(claims.Roles))
			for _, r := range claims.Roles {
				if role, ok := domain.ParseRole(r); ok {
					roles = append(roles, role)
				}
			}

			principal := domain.Principal{
				UserID:   userID,
				Email:    claims.Email,
				FullName: claims.FullName,
				Roles:    roles,
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a route on the Admin role claim. It runs after
// Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := GetPrincipal(r.Context())
		if !ok {
			writeProblem(w, http.StatusUnauthorized, "Unauthorized", "Missing or invalid bearer token.")
			return
		}
		if !principal.IsAdmin() {
			writeProblem(w, http.StatusForbidden, "Forbidden", "Admin role required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetPrincipal(ctx context.Context) (domain.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(domain.Principal)
	return principal, ok
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"title":  title,
		"detail": detail,
		"status": status,
	})
}
