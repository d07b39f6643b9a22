package middleware

import (
	"net/http"
	"strings"
)

// Auth returns middleware enforcing token authentication in the notebook
// server style: an Authorization header using the "token" or "Bearer"
// scheme, or a token query parameter. An empty expected token disables
// the check entirely.
func Auth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requestToken(r) != token {
				w.Header().Set("WWW-Authenticate", "token")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"status":"error","message":"unauthorized"}` + "\n"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestToken extracts the credential from the Authorization header,
// falling back to the token query parameter. A header with an unknown
// scheme yields "" rather than falling through to the query parameter.
func requestToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 {
			return ""
		}
		switch strings.ToLower(parts[0]) {
		case "token", "bearer":
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return r.URL.Query().Get("token")
}
