package middleware

import (
	"log/slog"
	"net/http"

	dErrors "cardwallet/pkg/domain-errors"
	"cardwallet/pkg/platform/httputil"
	"cardwallet/pkg/requestcontext"
)

// Recover converts downstream panics into a 500 response instead of tearing
// down the connection.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "panic recovered",
						"request_id", requestcontext.RequestID(r.Context()),
						"panic", rec,
					)
					httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "internal error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
