package registry

import "cardwallet/internal/definition"

// Well-known demo scopes served by this wallet.
const (
	ScopeInsurance    = "https://smarthealth.cards/scope#insurance"
	ScopeCovidVaccine = "https://smarthealth.cards/scope#covid-vaccine"

	covidImmunizationProfile = "https://smarthealth.cards/profiles#covid19-immunization"
)

// SeedWellKnownScopes registers the demo scope set: an insurance scope
// requiring Patient and Coverage resources, and a covid-vaccine scope
// requiring Patient plus an Observation carrying the immunization profile.
func SeedWellKnownScopes(r *Registry) error {
	insurance := definition.PresentationDefinition{
		ID: ScopeInsurance,
		InputDescriptors: []definition.InputDescriptor{{
			ID:     "insurance-card",
			Name:   "Insurance coverage card",
			Format: definition.Format{"jwt_vc": {Alg: []string{"ES256"}}},
			Constraints: definition.Constraint{
				FHIRVersion: definition.VersionPatterns{"4.*"},
				FHIRBundleContains: []definition.BundleContentSpec{
					{ResourceType: "Patient"},
					{ResourceType: "Coverage"},
				},
			},
		}},
	}

	covidVaccine := definition.PresentationDefinition{
		ID: ScopeCovidVaccine,
		InputDescriptors: []definition.InputDescriptor{{
			ID:     "covid-vaccination",
			Name:   "COVID-19 vaccination record",
			Format: definition.Format{"jwt_vc": {Alg: []string{"ES256"}}},
			Constraints: definition.Constraint{
				FHIRVersion: definition.VersionPatterns{"4.*"},
				FHIRBundleContains: []definition.BundleContentSpec{
					{ResourceType: "Patient"},
					{ResourceType: "Observation", Profile: []string{covidImmunizationProfile}},
				},
			},
		}},
	}

	for _, def := range []definition.PresentationDefinition{insurance, covidVaccine} {
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}
