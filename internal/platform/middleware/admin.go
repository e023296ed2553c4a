package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"passport/pkg/secrets"
)

// RequireAdminToken guards administrative endpoints (revocation) with a
// bearer token checked against a bcrypt hash. An empty hash disables the
// guard, which keeps local development and tests friction-free.
func RequireAdminToken(tokenHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenHash == "" {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || token == "" {
				unauthorized(w)
				return
			}

			if err := secrets.Verify(token, tokenHash); err != nil {
				logger.Warn("admin token rejected",
					"request_id", GetRequestID(r.Context()),
					"path", r.URL.Path,
				)
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized","error_description":"valid admin token required"}`))
}
