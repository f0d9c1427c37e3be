package exchange

import (
	"encoding/json"

	"cardwallet/internal/definition"
	dErrors "cardwallet/pkg/domain-errors"
)

// DefinitionResolver looks up registered definitions by their exact key.
// Satisfied by the scope registry.
type DefinitionResolver interface {
	Resolve(scope string) (definition.PresentationDefinition, error)
}

// ParsedRequest is the validated result of one inbound authorization
// request: the decoded request plus the effective definition it resolved to.
type ParsedRequest struct {
	Request    AuthorizationRequest
	Definition definition.PresentationDefinition
}

// Parser decodes and validates inbound authorization requests. It fails
// closed: any violation rejects the request before scope resolution or
// matching can run.
type Parser struct {
	resolver DefinitionResolver
}

func NewParser(resolver DefinitionResolver) *Parser {
	return &Parser{resolver: resolver}
}

// Parse decodes the transport string, enforces the client-binding invariant,
// and resolves the effective presentation definition. Exactly one of the
// inline definition, the definition URI, or the scope must be present.
func (p *Parser) Parse(query string) (*ParsedRequest, error) {
	fields, err := splitQuery(query)
	if err != nil {
		return nil, err
	}

	req := AuthorizationRequest{
		PresentationDefinitionURI: fields["presentation_definition_uri"],
		Scope:                     fields["scope"],
		Nonce:                     fields["nonce"],
		ClientID:                  fields["client_id"],
		RedirectURI:               fields["redirect_uri"],
		ResponseType:              fields["response_type"],
	}

	// Client binding comes before anything else. A mismatch is fatal and
	// nothing downstream may run.
	if req.ClientID == "" || req.ClientID != req.RedirectURI {
		return nil, dErrors.New(dErrors.CodeClientBinding, "client_id must equal redirect_uri")
	}

	if req.Nonce == "" {
		return nil, dErrors.New(dErrors.CodeMalformedRequest, "nonce is required")
	}
	if req.ResponseType != ResponseTypeVPToken {
		return nil, dErrors.New(dErrors.CodeMalformedRequest, "unsupported response_type: "+req.ResponseType)
	}

	rawMetadata, ok := fields["client_metadata"]
	if !ok {
		return nil, dErrors.New(dErrors.CodeMalformedRequest, "client_metadata is required")
	}
	if err := json.Unmarshal([]byte(rawMetadata), &req.ClientMetadata); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeMalformedRequest, "undecodable client_metadata")
	}

	if rawDefinition, ok := fields["presentation_definition"]; ok {
		var def definition.PresentationDefinition
		if err := json.Unmarshal([]byte(rawDefinition), &def); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeMalformedRequest, "undecodable presentation_definition")
		}
		req.PresentationDefinition = &def
	}

	def, err := p.effectiveDefinition(req)
	if err != nil {
		return nil, err
	}
	return &ParsedRequest{Request: req, Definition: def}, nil
}

// effectiveDefinition enforces the exactly-one-of invariant across the three
// definition sources. Both the definition URI and the scope resolve through
// the registry by exact key; an unregistered key is fatal.
func (p *Parser) effectiveDefinition(req AuthorizationRequest) (definition.PresentationDefinition, error) {
	sources := 0
	if req.PresentationDefinition != nil {
		sources++
	}
	if req.PresentationDefinitionURI != "" {
		sources++
	}
	if req.Scope != "" {
		sources++
	}
	if sources != 1 {
		return definition.PresentationDefinition{}, dErrors.New(dErrors.CodeMalformedRequest,
			"exactly one of presentation_definition, presentation_definition_uri, or scope is required")
	}

	switch {
	case req.PresentationDefinition != nil:
		return *req.PresentationDefinition, nil
	case req.PresentationDefinitionURI != "":
		return p.resolver.Resolve(req.PresentationDefinitionURI)
	default:
		return p.resolver.Resolve(req.Scope)
	}
}
