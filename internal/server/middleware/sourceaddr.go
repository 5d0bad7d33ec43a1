package middleware

import (
	"context"
	"net/http"
)

// ContextKeySourceAddr stores the client address for audit records.
const ContextKeySourceAddr contextKey = "source_addr"

// SourceAddr stores the request's remote address in the context so handlers
// can stamp audit records. Chain after chi's RealIP so proxies are unwound.
func SourceAddr() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), ContextKeySourceAddr, r.RemoteAddr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SourceAddrFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextKeySourceAddr).(string)
	return v, ok
}
