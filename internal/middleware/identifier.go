package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

const IdentifierKey contextKey = "userIdentifier"

// UserIdentifier derives a per-client identifier for anonymous actions such
// as like toggles. The first X-Forwarded-For hop wins, falling back to the
// connection's remote address.
func UserIdentifier(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := identifierFromRequest(r)
		ctx := context.WithValue(r.Context(), IdentifierKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func identifierFromRequest(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// GetIdentifier extracts the client identifier from context.
func GetIdentifier(ctx context.Context) string {
	id, ok := ctx.Value(IdentifierKey).(string)
	if !ok {
		return ""
	}
	return id
}
