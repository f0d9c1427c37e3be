package exchange

import (
	"strings"

	"cardwallet/internal/definition"
	dErrors "cardwallet/pkg/domain-errors"
)

// Builder constructs outbound authorization requests. The wallet acts as a
// self-issued client: its identity is used for both client_id and
// redirect_uri, with no separate registration.
type Builder struct {
	clientID string
	metadata ClientMetadata
}

// NewBuilder wires the wallet's client identity and its fixed declared
// format support into a request builder.
func NewBuilder(clientID string) *Builder {
	return &Builder{
		clientID: clientID,
		metadata: ClientMetadata{
			VPFormats: definition.Format{
				"jwt_vp": {Alg: []string{"ES256"}},
				"jwt_vc": {Alg: []string{"ES256"}},
			},
		},
	}
}

// Build assembles a request for the given provider endpoint and scope set,
// with a freshly generated nonce, and returns the request together with the
// fully qualified URL carrying its transport encoding.
func (b *Builder) Build(providerEndpoint string, requestedScopes []string) (AuthorizationRequest, string, error) {
	if providerEndpoint == "" {
		return AuthorizationRequest{}, "", dErrors.New(dErrors.CodeBadRequest, "provider endpoint is required")
	}
	if len(requestedScopes) == 0 {
		return AuthorizationRequest{}, "", dErrors.New(dErrors.CodeBadRequest, "at least one scope is required")
	}

	nonce, err := NewNonce()
	if err != nil {
		return AuthorizationRequest{}, "", err
	}

	req := AuthorizationRequest{
		Scope:          strings.Join(requestedScopes, " "),
		Nonce:          nonce,
		ClientID:       b.clientID,
		RedirectURI:    b.clientID,
		ClientMetadata: b.metadata,
		ResponseType:   ResponseTypeVPToken,
	}

	query, err := req.EncodeQuery()
	if err != nil {
		return AuthorizationRequest{}, "", err
	}
	return req, providerEndpoint + "?" + query, nil
}
