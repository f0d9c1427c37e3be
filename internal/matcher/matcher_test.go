package matcher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cardwallet/internal/definition"
	"cardwallet/internal/manifest"
	dErrors "cardwallet/pkg/domain-errors"
)

func insuranceDefinition() definition.PresentationDefinition {
	return definition.PresentationDefinition{
		ID: "https://smarthealth.cards/scope#insurance",
		InputDescriptors: []definition.InputDescriptor{{
			ID: "insurance-card",
			Constraints: definition.Constraint{
				FHIRVersion: definition.VersionPatterns{"4.*"},
				FHIRBundleContains: []definition.BundleContentSpec{
					{ResourceType: "Patient"},
					{ResourceType: "Coverage"},
				},
			},
		}},
	}
}

func entry(credential, version string, items ...manifest.BundleItem) manifest.Entry {
	return manifest.Entry{
		Credential:         credential,
		FHIRVersion:        version,
		FHIRBundleContains: items,
	}
}

func TestMatchIncludesQualifyingEntry(t *testing.T) {
	compiled, err := Compile(insuranceDefinition())
	require.NoError(t, err)

	matched := compiled.Match([]manifest.Entry{
		entry("shcA", "4.0.1",
			manifest.BundleItem{ResourceType: "Patient"},
			manifest.BundleItem{ResourceType: "Coverage"},
		),
	})
	require.Len(t, matched, 1)
	require.Equal(t, "shcA", matched[0].Credential)
}

func TestMatchExcludesWrongVersion(t *testing.T) {
	compiled, err := Compile(insuranceDefinition())
	require.NoError(t, err)

	matched := compiled.Match([]manifest.Entry{
		entry("shcA", "5.0.0",
			manifest.BundleItem{ResourceType: "Patient"},
			manifest.BundleItem{ResourceType: "Coverage"},
		),
	})
	require.Empty(t, matched)
}

func TestMatchExcludesMissingBundleResource(t *testing.T) {
	compiled, err := Compile(insuranceDefinition())
	require.NoError(t, err)

	matched := compiled.Match([]manifest.Entry{
		entry("shcA", "4.0.1", manifest.BundleItem{ResourceType: "Patient"}),
	})
	require.Empty(t, matched)
}

// An optional descriptor counts as satisfied no matter what the entry holds.
func TestOptionalDescriptorAlwaysSatisfied(t *testing.T) {
	def := insuranceDefinition()
	def.InputDescriptors[0].Constraints.Optional = true

	compiled, err := Compile(def)
	require.NoError(t, err)

	matched := compiled.Match([]manifest.Entry{
		entry("shcA", "9.9.9", manifest.BundleItem{ResourceType: "AllergyIntolerance"}),
	})
	require.Len(t, matched, 1)
}

func TestProfileIntersectionRequired(t *testing.T) {
	def := definition.PresentationDefinition{
		ID: "https://smarthealth.cards/scope#covid-vaccine",
		InputDescriptors: []definition.InputDescriptor{{
			ID: "covid-vaccination",
			Constraints: definition.Constraint{
				FHIRVersion: definition.VersionPatterns{"4.*"},
				FHIRBundleContains: []definition.BundleContentSpec{
					{ResourceType: "Observation", Profile: []string{"https://smarthealth.cards/profiles#covid19-immunization"}},
				},
			},
		}},
	}
	compiled, err := Compile(def)
	require.NoError(t, err)

	withProfile := entry("vaccinated", "4.0.1", manifest.BundleItem{
		ResourceType: "Observation",
		Profile:      []string{"https://smarthealth.cards/profiles#covid19-immunization"},
	})
	withoutProfile := entry("unprofiled", "4.0.1", manifest.BundleItem{
		ResourceType: "Observation",
	})

	matched := compiled.Match([]manifest.Entry{withoutProfile, withProfile})
	require.Len(t, matched, 1)
	require.Equal(t, "vaccinated", matched[0].Credential)
}

// Entries must satisfy every descriptor of a multi-descriptor definition;
// there is no per-descriptor assignment of different entries.
func TestAllDescriptorsMustBeSatisfiedByOneEntry(t *testing.T) {
	def := insuranceDefinition()
	def.InputDescriptors = append(def.InputDescriptors, definition.InputDescriptor{
		ID: "lab-result",
		Constraints: definition.Constraint{
			FHIRVersion:        definition.VersionPatterns{"4.*"},
			FHIRBundleContains: []definition.BundleContentSpec{{ResourceType: "Observation"}},
		},
	})
	compiled, err := Compile(def)
	require.NoError(t, err)

	insuranceOnly := entry("insurance", "4.0.1",
		manifest.BundleItem{ResourceType: "Patient"},
		manifest.BundleItem{ResourceType: "Coverage"},
	)
	labOnly := entry("lab", "4.0.1", manifest.BundleItem{ResourceType: "Observation"})

	matched := compiled.Match([]manifest.Entry{insuranceOnly, labOnly})
	require.Empty(t, matched)

	both := entry("combined", "4.0.1",
		manifest.BundleItem{ResourceType: "Patient"},
		manifest.BundleItem{ResourceType: "Coverage"},
		manifest.BundleItem{ResourceType: "Observation"},
	)
	matched = compiled.Match([]manifest.Entry{insuranceOnly, both, labOnly})
	require.Len(t, matched, 1)
	require.Equal(t, "combined", matched[0].Credential)
}

func TestMatchPreservesEntryOrder(t *testing.T) {
	compiled, err := Compile(insuranceDefinition())
	require.NoError(t, err)

	qualifying := func(name string) manifest.Entry {
		return entry(name, "4.0.1",
			manifest.BundleItem{ResourceType: "Patient"},
			manifest.BundleItem{ResourceType: "Coverage"},
		)
	}
	matched := compiled.Match([]manifest.Entry{
		qualifying("first"),
		entry("skipped", "3.0.1", manifest.BundleItem{ResourceType: "Patient"}),
		qualifying("second"),
		qualifying("third"),
	})
	require.Len(t, matched, 3)
	require.Equal(t, "first", matched[0].Credential)
	require.Equal(t, "second", matched[1].Credential)
	require.Equal(t, "third", matched[2].Credential)
}

// Literal dots in version patterns keep their regexp meaning, so a dot
// position matches any single character. Documented lenient behavior.
func TestVersionPatternDotIsLenient(t *testing.T) {
	def := insuranceDefinition()
	def.InputDescriptors[0].Constraints.FHIRVersion = definition.VersionPatterns{"4.0.*"}
	compiled, err := Compile(def)
	require.NoError(t, err)

	matched := compiled.Match([]manifest.Entry{
		entry("dotted", "4.0.1",
			manifest.BundleItem{ResourceType: "Patient"},
			manifest.BundleItem{ResourceType: "Coverage"},
		),
		entry("lenient", "4x0x1",
			manifest.BundleItem{ResourceType: "Patient"},
			manifest.BundleItem{ResourceType: "Coverage"},
		),
	})
	require.Len(t, matched, 2)
}

func TestCompileRejectsMalformedPattern(t *testing.T) {
	def := insuranceDefinition()
	def.InputDescriptors[0].Constraints.FHIRVersion = definition.VersionPatterns{"4.["}

	_, err := Compile(def)
	require.Error(t, err)
	require.True(t, dErrors.HasCode(err, dErrors.CodeDefinitionCompile))
}

func TestMatchEmptySnapshot(t *testing.T) {
	compiled, err := Compile(insuranceDefinition())
	require.NoError(t, err)

	matched := compiled.Match(nil)
	require.NotNil(t, matched)
	require.Empty(t, matched)
}
