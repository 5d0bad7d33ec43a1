package middleware

import (
	"net/http"
	"strings"

	"github.com/staffhub/staffhub/internal/auth"
)

// Auth resolves the bearer token into a principal and stores it in the
// request context. A missing, malformed, badly signed or expired token is
// rejected with 401; resolution itself never raises.
func Auth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := auth.Resolve(jwtSecret, extractBearer(r))
			if principal == nil {
				http.Error(w, `{"title":"Unauthorized","status":401,"detail":"missing or invalid credentials"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

func extractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return header[7:]
	}
	return ""
}
