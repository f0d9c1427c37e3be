package middleware

import (
	"net/http"
	"strings"

	dErrors "cardwallet/pkg/domain-errors"
	"cardwallet/pkg/platform/httputil"
)

// RequireJSON rejects bodied requests that do not declare a JSON content
// type. GETs and other body-less methods pass through.
func RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if !strings.HasPrefix(ct, "application/json") {
				httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Content-Type must be application/json"))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
