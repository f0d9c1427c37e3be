// Package exchange implements the authorization-request protocol between a
// verifier and this wallet: constructing the outbound request with its
// transport encoding, and the inverse parse with the client-binding check.
package exchange

import (
	"encoding/json"
	"net/url"
	"strings"

	"cardwallet/internal/definition"
	dErrors "cardwallet/pkg/domain-errors"
)

// ResponseTypeVPToken is the only response type this exchange speaks.
const ResponseTypeVPToken = "vp_token"

// AuthorizationRequest carries a verifier's ask across the wire. Exactly one
// of PresentationDefinition, PresentationDefinitionURI, or Scope resolves
// the effective definition.
type AuthorizationRequest struct {
	PresentationDefinition    *definition.PresentationDefinition `json:"presentation_definition,omitempty"`
	PresentationDefinitionURI string                             `json:"presentation_definition_uri,omitempty"`
	Scope                     string                             `json:"scope,omitempty"`
	Nonce                     string                             `json:"nonce"`
	ClientID                  string                             `json:"client_id"`
	RedirectURI               string                             `json:"redirect_uri"`
	ClientMetadata            ClientMetadata                     `json:"client_metadata"`
	ResponseType              string                             `json:"response_type"`
}

// ClientMetadata declares the presentation formats the requesting party
// supports, keyed by format with the accepted algorithms.
type ClientMetadata struct {
	VPFormats definition.Format `json:"vp_formats"`
}

// EncodeQuery serializes the request into its transport form: object-valued
// fields are JSON-encoded to a string and percent-encoded, scalar fields are
// percent-encoded as-is, and pairs are joined with `&`. Field order is fixed
// so encoded requests are reproducible.
func (r AuthorizationRequest) EncodeQuery() (string, error) {
	metadata, err := json.Marshal(r.ClientMetadata)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "encode client_metadata")
	}

	pairs := make([]string, 0, 8)
	add := func(key, value string) {
		if value == "" {
			return
		}
		pairs = append(pairs, key+"="+url.QueryEscape(value))
	}

	add("response_type", r.ResponseType)
	add("client_id", r.ClientID)
	add("redirect_uri", r.RedirectURI)
	add("scope", r.Scope)
	add("nonce", r.Nonce)
	if r.PresentationDefinition != nil {
		inline, err := json.Marshal(r.PresentationDefinition)
		if err != nil {
			return "", dErrors.Wrap(err, dErrors.CodeInternal, "encode presentation_definition")
		}
		add("presentation_definition", string(inline))
	}
	add("presentation_definition_uri", r.PresentationDefinitionURI)
	add("client_metadata", string(metadata))

	return strings.Join(pairs, "&"), nil
}

// splitQuery breaks a transport string into its field map without any JSON
// decoding. Duplicate keys are rejected outright.
func splitQuery(query string) (map[string]string, error) {
	fields := make(map[string]string)
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		key, rawValue, found := strings.Cut(pair, "=")
		if !found {
			return nil, dErrors.New(dErrors.CodeMalformedRequest, "field without value: "+pair)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeMalformedRequest, "undecodable field: "+key)
		}
		if _, dup := fields[key]; dup {
			return nil, dErrors.New(dErrors.CodeMalformedRequest, "duplicate field: "+key)
		}
		fields[key] = value
	}
	return fields, nil
}
