// Package registry maps scope URIs to their registered presentation
// definitions. All registration happens during startup wiring; afterwards
// the registry is read-only and safe for concurrent lookups.
package registry

import (
	"cardwallet/internal/definition"
	"cardwallet/internal/matcher"
	dErrors "cardwallet/pkg/domain-errors"
)

// Registry resolves scope identifiers to immutable presentation definitions.
type Registry struct {
	definitions map[string]definition.PresentationDefinition
}

func New() *Registry {
	return &Registry{definitions: make(map[string]definition.PresentationDefinition)}
}

// Register validates and stores a definition under its ID. Compilation
// problems surface here, never during per-entry matching.
func (r *Registry) Register(def definition.PresentationDefinition) error {
	if def.ID == "" {
		return dErrors.New(dErrors.CodeValidation, "presentation definition requires an id")
	}
	if _, exists := r.definitions[def.ID]; exists {
		return dErrors.New(dErrors.CodeConflict, "scope already registered: "+def.ID)
	}
	if _, err := matcher.Compile(def); err != nil {
		return err
	}
	r.definitions[def.ID] = def
	return nil
}

// Resolve returns the definition registered under the exact scope string.
// There is no partial or fuzzy matching of scope identifiers.
func (r *Registry) Resolve(scope string) (definition.PresentationDefinition, error) {
	def, ok := r.definitions[scope]
	if !ok {
		return definition.PresentationDefinition{}, dErrors.New(dErrors.CodeUnknownScope, "scope not registered: "+scope)
	}
	return def, nil
}

// Scopes lists every registered scope URI.
func (r *Registry) Scopes() []string {
	scopes := make([]string, 0, len(r.definitions))
	for scope := range r.definitions {
		scopes = append(scopes, scope)
	}
	return scopes
}
