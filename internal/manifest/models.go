// Package manifest models the holder's stored credentials as seen by the
// matcher: an opaque signed payload plus the semantic metadata extracted at
// storage time. The payload itself is never parsed during matching.
package manifest

// Entry is one stored credential with its matching metadata.
type Entry struct {
	// Credential is the compact signed payload, embedded verbatim into
	// presentations and never re-parsed by the core.
	Credential string `json:"credential"`

	// FHIRVersion is the concrete version string of the embedded bundle.
	FHIRVersion string `json:"fhirVersion"`

	// FHIRBundleContains summarizes the bundle's resources for matching.
	FHIRBundleContains []BundleItem `json:"fhirBundleContains"`
}

// BundleItem describes one resource present in a credential's bundle.
type BundleItem struct {
	ResourceType string   `json:"resourceType"`
	Profile      []string `json:"profile,omitempty"`
}
