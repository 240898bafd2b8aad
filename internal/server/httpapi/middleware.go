package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mpfc/securebanking/internal/server/auth"
	"github.com/mpfc/securebanking/internal/server/models"
	"github.com/mpfc/securebanking/internal/server/services"
)

type contextKey int

const claimsContextKey contextKey = iota

// ClaimsFromContext returns the authenticated claims stored by the
// Authenticator middleware.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims, ok
}

// Authenticator verifies the Bearer token on every request and stores its
// claims in the request context. Requests without a valid token get 401.
func Authenticator(secretKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := auth.ParseToken(token, secretKey)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route group to one role. A valid token with the wrong
// role gets 403 and raises an UNAUTHORIZED_ACCESS incident naming the caller
// and the path it tried.
func RequireRole(role string, incidents *services.IncidentService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if claims.Role != role {
				incidents.Record(r.Context(), claims.Username, models.IncidentUnauthorizedAccess,
					fmt.Sprintf("role %s attempted %s %s", claims.Role, r.Method, r.URL.Path))
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
