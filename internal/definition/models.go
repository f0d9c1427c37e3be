// Package definition holds the verifier-facing data model: the shapes of
// credentials a verifier declares it will accept. Definitions are built at
// startup, registered under their scope URI, and never mutated afterwards.
package definition

import "encoding/json"

// PresentationDefinition is a verifier's declared requirements for the
// credential(s) it will accept. ID doubles as the scope URI the definition
// is registered under.
type PresentationDefinition struct {
	ID               string            `json:"id"`
	InputDescriptors []InputDescriptor `json:"input_descriptors"`
}

// InputDescriptor is one named requirement within a definition.
type InputDescriptor struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Purpose     string     `json:"purpose,omitempty"`
	Format      Format     `json:"format"`
	Constraints Constraint `json:"constraints"`
}

// Format declares the credential encodings the verifier accepts, keyed by
// format name with the allowed algorithms per format.
type Format map[string]AlgorithmSet

// AlgorithmSet lists acceptable signing algorithms for one format.
type AlgorithmSet struct {
	Alg []string `json:"alg"`
}

// Constraint restricts the clinical content of a credential. FHIRVersion
// holds one or more wildcard patterns over the version string; an entry
// qualifies when it matches any of them.
type Constraint struct {
	FHIRVersion        VersionPatterns     `json:"fhirVersion"`
	FHIRBundleContains []BundleContentSpec `json:"fhirBundleContains,omitempty"`
	Optional           bool                `json:"optional,omitempty"`
}

// BundleContentSpec requires the credential's embedded bundle to contain a
// resource of the given type. When Profile is non-empty, at least one of the
// listed profile URIs must also appear on that resource.
type BundleContentSpec struct {
	ResourceType string   `json:"resourceType"`
	Profile      []string `json:"profile,omitempty"`
}

// VersionPatterns accepts both the single-string and array wire forms used
// by registered definitions.
type VersionPatterns []string

func (v *VersionPatterns) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*v = VersionPatterns{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*v = VersionPatterns(many)
	return nil
}

func (v VersionPatterns) MarshalJSON() ([]byte, error) {
	if len(v) == 1 {
		return json.Marshal(v[0])
	}
	return json.Marshal([]string(v))
}
