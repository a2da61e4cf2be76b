package daemon

import (
	"net/http"
	"strings"
)

// authMiddleware guards a handler with the configured API token. An empty
// token disables authentication; otherwise the request must present a
// matching "Authorization: Bearer" header.
func authMiddleware(token string, next http.HandlerFunc) http.HandlerFunc {
	if token == "" {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		presented, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || presented != token {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
