package subscription

import (
	"fmt"
	"slices"
)

// PlanSpec describes one tier's resource limits and feature flags.
type PlanSpec struct {
	Limits   map[Resource]int64 `yaml:"limits"`   // -1 represents unlimited
	Features []Feature          `yaml:"features"` // capabilities enabled on this tier
}

// HasFeature reports whether the spec enables a feature.
func (s PlanSpec) HasFeature(f Feature) bool {
	return slices.Contains(s.Features, f)
}

// Catalog is the process-wide plan -> spec mapping. It is immutable after
// construction; deployments needing different numbers load a new catalog at
// startup, never mutate a live one.
type Catalog struct {
	specs map[Plan]PlanSpec
}

// NewCatalog validates the given specs and returns an immutable catalog.
// Validation fails fast on: a missing tier, a limit missing for any
// countable resource, a limit below -1, or numeric limits that shrink when
// moving up a tier. Higher tiers must never offer less than lower ones.
func NewCatalog(specs map[Plan]PlanSpec) (*Catalog, error) {
	for _, plan := range tiers {
		spec, ok := specs[plan]
		if !ok {
			return nil, fmt.Errorf("%w: plan %q is not defined", ErrInvalidPlanConfiguration, plan)
		}
		for _, res := range Resources {
			limit, ok := spec.Limits[res]
			if !ok {
				return nil, fmt.Errorf("%w: plan %q has no limit for %q", ErrInvalidPlanConfiguration, plan, res)
			}
			if limit < Unlimited {
				return nil, fmt.Errorf("%w: plan %q has invalid limit %d for %q", ErrInvalidPlanConfiguration, plan, limit, res)
			}
		}
	}

	for i := 1; i < len(tiers); i++ {
		lower, higher := specs[tiers[i-1]], specs[tiers[i]]
		for _, res := range Resources {
			lo, hi := lower.Limits[res], higher.Limits[res]
			if hi == Unlimited {
				continue
			}
			if lo == Unlimited || hi < lo {
				return nil, fmt.Errorf("%w: plan %q limit for %q (%d) is below plan %q (%d)",
					ErrInvalidPlanConfiguration, tiers[i], res, hi, tiers[i-1], lo)
			}
		}
	}

	copied := make(map[Plan]PlanSpec, len(specs))
	for plan, spec := range specs {
		copied[plan] = PlanSpec{
			Limits:   cloneLimits(spec.Limits),
			Features: slices.Clone(spec.Features),
		}
	}

	return &Catalog{specs: copied}, nil
}

// MustNewCatalog is NewCatalog that panics on invalid configuration.
func MustNewCatalog(specs map[Plan]PlanSpec) *Catalog {
	c, err := NewCatalog(specs)
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns the spec for a plan, or ErrUnknownPlan for identifiers outside
// the recognized set. The returned spec is a copy; mutating it does not
// affect the catalog.
func (c *Catalog) Get(plan Plan) (PlanSpec, error) {
	spec, ok := c.specs[plan]
	if !ok {
		return PlanSpec{}, fmt.Errorf("%w: %q", ErrUnknownPlan, plan)
	}
	return PlanSpec{Limits: cloneLimits(spec.Limits), Features: slices.Clone(spec.Features)}, nil
}

// Has reports whether the plan identifier is recognized.
func (c *Catalog) Has(plan Plan) bool {
	_, ok := c.specs[plan]
	return ok
}

func cloneLimits(limits map[Resource]int64) map[Resource]int64 {
	copied := make(map[Resource]int64, len(limits))
	for res, limit := range limits {
		copied[res] = limit
	}
	return copied
}

// DefaultCatalog returns the built-in plan catalog.
func DefaultCatalog() *Catalog {
	return MustNewCatalog(map[Plan]PlanSpec{
		PlanFree: {
			Limits: map[Resource]int64{
				ResourceRecipes:   3,
				ResourceOrders:    25,
				ResourceCustomers: 25,
				ResourceProducts:  10,
			},
		},
		PlanStarter: {
			Limits: map[Resource]int64{
				ResourceRecipes:   25,
				ResourceOrders:    250,
				ResourceCustomers: 250,
				ResourceProducts:  100,
			},
		},
		PlanPro: {
			Limits: map[Resource]int64{
				ResourceRecipes:   100,
				ResourceOrders:    2000,
				ResourceCustomers: 2000,
				ResourceProducts:  500,
			},
			Features: []Feature{
				FeatureAI,
				FeatureAdvancedAnalytics,
				FeaturePrioritySupport,
			},
		},
		PlanBusiness: {
			Limits: map[Resource]int64{
				ResourceRecipes:   Unlimited,
				ResourceOrders:    Unlimited,
				ResourceCustomers: Unlimited,
				ResourceProducts:  Unlimited,
			},
			Features: []Feature{
				FeatureAI,
				FeatureAdvancedAnalytics,
				FeatureMultipleUsers,
				FeaturePrioritySupport,
				FeatureAPIAccess,
			},
		},
	})
}
