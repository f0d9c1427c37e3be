// Package middleware holds the HTTP middleware chain shared by every route:
// request IDs, access logging, and panic recovery.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"cardwallet/pkg/requestcontext"
)

const requestIDHeader = "X-Request-Id"

// RequestID assigns each request a UUID, honoring an inbound X-Request-Id
// when present, and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
