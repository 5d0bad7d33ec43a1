package middleware

import (
	"net/http"

	"github.com/staffhub/staffhub/internal/auth"
)

// RequirePermission checks the permission table for (role, resource, action)
// before the handler runs, so no store access happens on a denied request.
// Must be chained after Auth, which stores the principal in context.
//
// Returns 401 when no principal is present and 403 when the table denies
// the combination.
func RequirePermission(resource, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok || principal == nil {
				http.Error(w, `{"title":"Unauthorized","status":401,"detail":"authentication required"}`, http.StatusUnauthorized)
				return
			}

			if !auth.Allowed(principal.Role, resource, action) {
				http.Error(w, `{"title":"Forbidden","status":403,"detail":"insufficient permissions"}`, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
