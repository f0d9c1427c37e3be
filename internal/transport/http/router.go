// Package httptransport is the thin HTTP layer. Handlers decode, delegate to
// domain services, and encode; no business logic lives here.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cardwallet/internal/platform/middleware"
)

// Registrar mounts a handler group on the router.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter wires the shared middleware chain, operational endpoints, and
// every handler group passed in.
func NewRouter(logger *slog.Logger, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(logger))
	r.Use(middleware.AccessLog(logger))
	r.Use(middleware.Timeout(10 * time.Second))
	r.Use(middleware.RequireJSON)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, h := range handlers {
		h.Register(r)
	}
	return r
}
