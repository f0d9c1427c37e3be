package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cardwallet/internal/manifest"
	dErrors "cardwallet/pkg/domain-errors"
	"cardwallet/pkg/platform/httputil"
)

// CredentialSource lists the holder's stored credentials.
type CredentialSource interface {
	Snapshot(ctx context.Context) ([]manifest.Entry, error)
}

// CredentialsHandler exposes a read-only view of the manifest. The signed
// payloads stay server-side; only matching metadata is listed.
type CredentialsHandler struct {
	manifests CredentialSource
	logger    *slog.Logger
}

func NewCredentialsHandler(manifests CredentialSource, logger *slog.Logger) *CredentialsHandler {
	return &CredentialsHandler{manifests: manifests, logger: logger}
}

func (h *CredentialsHandler) Register(r chi.Router) {
	r.Get("/credentials", h.HandleList)
}

// CredentialSummary is one manifest entry without its signed payload.
type CredentialSummary struct {
	FHIRVersion        string                `json:"fhirVersion"`
	FHIRBundleContains []manifest.BundleItem `json:"fhirBundleContains,omitempty"`
}

// HandleList handles GET /credentials.
func (h *CredentialsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entries, err := h.manifests.Snapshot(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "manifest snapshot failed", "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "load manifest"))
		return
	}

	summaries := make([]CredentialSummary, len(entries))
	for i, entry := range entries {
		summaries[i] = CredentialSummary{
			FHIRVersion:        entry.FHIRVersion,
			FHIRBundleContains: entry.FHIRBundleContains,
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"count":       len(summaries),
		"credentials": summaries,
	})
}
