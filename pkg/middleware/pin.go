package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/Luckywi/admin-balzac/pkg/logger"
)

const PINHeader = "X-Admin-Pin"

// PINGate rejects requests whose X-Admin-Pin header does not match the
// configured salon PIN. Comparison is constant-time.
func PINGate(pin string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(PINHeader)

			if subtle.ConstantTimeCompare([]byte(provided), []byte(pin)) != 1 {
				log.Warn("Rejected request with invalid PIN",
					"request_id", RequestID(r.Context()),
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Invalid or missing PIN"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
