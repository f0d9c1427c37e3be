package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"cardwallet/internal/audit"
	"cardwallet/internal/exchange"
	"cardwallet/internal/holder"
	dErrors "cardwallet/pkg/domain-errors"
	"cardwallet/pkg/platform/httputil"
	"cardwallet/pkg/requestcontext"
)

// RequestBuilder builds outbound authorization requests.
type RequestBuilder interface {
	Build(providerEndpoint string, scopes []string) (exchange.AuthorizationRequest, string, error)
}

// Presenter runs one inbound authorization request through the wallet.
type Presenter interface {
	Present(ctx context.Context, query string) (*holder.Result, error)
}

// ScopeLister reports the scope keys this wallet can answer.
type ScopeLister interface {
	Scopes() []string
}

// AuditPublisher records exchange outcomes.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// ExchangeHandler exposes the presentation exchange over HTTP: building
// outbound requests and answering inbound ones.
type ExchangeHandler struct {
	builder RequestBuilder
	holder  Presenter
	scopes  ScopeLister
	auditor AuditPublisher
	logger  *slog.Logger
}

func NewExchangeHandler(builder RequestBuilder, holder Presenter, scopes ScopeLister, auditor AuditPublisher, logger *slog.Logger) *ExchangeHandler {
	return &ExchangeHandler{
		builder: builder,
		holder:  holder,
		scopes:  scopes,
		auditor: auditor,
		logger:  logger,
	}
}

// Register mounts exchange endpoints on the router.
func (h *ExchangeHandler) Register(r chi.Router) {
	r.Post("/exchange/requests", h.HandleBuildRequest)
	r.Get("/authorize", h.HandleAuthorize)
	r.Get("/exchange/scopes", h.HandleListScopes)
}

// BuildRequestInput is the JSON body of POST /exchange/requests.
type BuildRequestInput struct {
	ProviderEndpoint string   `json:"provider_endpoint"`
	Scopes           []string `json:"scopes"`
}

// BuildRequestOutput returns the constructed request plus its transport URL.
type BuildRequestOutput struct {
	RequestURL string `json:"request_url"`
	Nonce      string `json:"nonce"`
	ClientID   string `json:"client_id"`
	Scope      string `json:"scope"`
}

// HandleBuildRequest handles POST /exchange/requests.
func (h *ExchangeHandler) HandleBuildRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input BuildRequestInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	for _, scope := range input.Scopes {
		if strings.TrimSpace(scope) == "" {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "scopes contain empty value"))
			return
		}
	}

	req, requestURL, err := h.builder.Build(input.ProviderEndpoint, input.Scopes)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "authorization request built",
		"request_id", requestcontext.RequestID(ctx),
		"scope", req.Scope,
	)
	if err := h.auditor.Emit(ctx, audit.Event{
		Type:     audit.EventRequestBuilt,
		ClientID: req.ClientID,
		Scope:    req.Scope,
	}); err != nil {
		h.logger.ErrorContext(ctx, "failed to emit audit event",
			"event_type", string(audit.EventRequestBuilt),
			"error", err.Error(),
		)
	}
	httputil.WriteJSON(w, http.StatusCreated, BuildRequestOutput{
		RequestURL: requestURL,
		Nonce:      req.Nonce,
		ClientID:   req.ClientID,
		Scope:      req.Scope,
	})
}

// AuthorizeOutput is the response of GET /authorize. When no stored
// credential qualifies, VPToken is empty and Matched is zero; that is a
// successful response, not an error.
type AuthorizeOutput struct {
	VPToken string `json:"vp_token,omitempty"`
	Matched int    `json:"matched"`
}

// HandleAuthorize handles GET /authorize: the verifier-facing entry point
// carrying the encoded authorization request in the query string.
func (h *ExchangeHandler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.holder.Present(ctx, r.URL.RawQuery)
	if err != nil {
		h.logger.WarnContext(ctx, "authorization request failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, AuthorizeOutput{
		VPToken: result.VPToken,
		Matched: result.Matched,
	})
}

// HandleListScopes handles GET /exchange/scopes.
func (h *ExchangeHandler) HandleListScopes(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string][]string{
		"scopes": h.scopes.Scopes(),
	})
}
