// Package matcher decides which stored credentials satisfy a presentation
// definition. Matching is pure computation over an immutable compiled form:
// no I/O, no locking, safe to run concurrently across independent snapshots.
package matcher

import (
	"regexp"
	"strings"

	"cardwallet/internal/definition"
	"cardwallet/internal/manifest"
	dErrors "cardwallet/pkg/domain-errors"
)

// CompiledDefinition is an immutable, match-ready form of a presentation
// definition. Compile validates every version pattern up front so matching
// itself has no failure mode.
type CompiledDefinition struct {
	definition  definition.PresentationDefinition
	descriptors []compiledDescriptor
}

type compiledDescriptor struct {
	optional bool
	versions []*regexp.Regexp
	contains []definition.BundleContentSpec
}

// Compile translates each descriptor's version patterns into anchored
// regexps. A `*` matches any character sequence at its position. Remaining
// characters, dots included, keep their regexp meaning, so `4.*` also
// matches versions like `4x0`; the registered demo scopes rely only on the
// wildcard.
func Compile(def definition.PresentationDefinition) (*CompiledDefinition, error) {
	compiled := &CompiledDefinition{
		definition:  def,
		descriptors: make([]compiledDescriptor, 0, len(def.InputDescriptors)),
	}
	for _, desc := range def.InputDescriptors {
		cd := compiledDescriptor{
			optional: desc.Constraints.Optional,
			contains: desc.Constraints.FHIRBundleContains,
		}
		for _, pattern := range desc.Constraints.FHIRVersion {
			re, err := regexp.Compile("^" + strings.ReplaceAll(pattern, "*", ".*") + "$")
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeDefinitionCompile,
					"invalid version pattern in descriptor "+desc.ID)
			}
			cd.versions = append(cd.versions, re)
		}
		compiled.descriptors = append(compiled.descriptors, cd)
	}
	return compiled, nil
}

// Definition returns the source definition this compiled form was built from.
func (c *CompiledDefinition) Definition() definition.PresentationDefinition {
	return c.definition
}

// Match filters entries down to those satisfying every descriptor in the
// definition. The result is an order-preserving subset of entries; an empty
// result is a valid outcome, not an error. Each descriptor is evaluated
// independently against the same entry; there is no per-descriptor
// assignment of different entries.
func (c *CompiledDefinition) Match(entries []manifest.Entry) []manifest.Entry {
	matched := make([]manifest.Entry, 0, len(entries))
	for _, entry := range entries {
		if c.satisfiesAll(entry) {
			matched = append(matched, entry)
		}
	}
	return matched
}

func (c *CompiledDefinition) satisfiesAll(entry manifest.Entry) bool {
	for _, desc := range c.descriptors {
		if !desc.satisfiedBy(entry) {
			return false
		}
	}
	return true
}

// satisfiedBy applies the per-descriptor rule. An optional descriptor counts
// as satisfied regardless of the entry's content.
func (d compiledDescriptor) satisfiedBy(entry manifest.Entry) bool {
	if d.optional {
		return true
	}
	if !d.versionMatches(entry.FHIRVersion) {
		return false
	}
	for _, spec := range d.contains {
		if !bundleCovers(entry.FHIRBundleContains, spec) {
			return false
		}
	}
	return true
}

func (d compiledDescriptor) versionMatches(version string) bool {
	for _, re := range d.versions {
		if re.MatchString(version) {
			return true
		}
	}
	return false
}

// bundleCovers reports whether any bundle item provides the required
// resource type, intersecting profiles only when the spec lists them.
func bundleCovers(items []manifest.BundleItem, spec definition.BundleContentSpec) bool {
	for _, item := range items {
		if item.ResourceType != spec.ResourceType {
			continue
		}
		if len(spec.Profile) == 0 {
			return true
		}
		for _, required := range spec.Profile {
			for _, have := range item.Profile {
				if required == have {
					return true
				}
			}
		}
	}
	return false
}
