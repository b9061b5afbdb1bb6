package subscription_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wickandflame/wickandflame/pkg/subscription"
)

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()

	catalog := subscription.DefaultCatalog()

	t.Run("free tier limits", func(t *testing.T) {
		t.Parallel()
		spec, err := catalog.Get(subscription.PlanFree)
		require.NoError(t, err)
		assert.Equal(t, int64(3), spec.Limits[subscription.ResourceRecipes])
		assert.Equal(t, int64(25), spec.Limits[subscription.ResourceOrders])
		assert.Equal(t, int64(25), spec.Limits[subscription.ResourceCustomers])
		assert.Equal(t, int64(10), spec.Limits[subscription.ResourceProducts])
		assert.Empty(t, spec.Features)
	})

	t.Run("business tier is unlimited", func(t *testing.T) {
		t.Parallel()
		spec, err := catalog.Get(subscription.PlanBusiness)
		require.NoError(t, err)
		for _, res := range subscription.Resources {
			assert.Equal(t, subscription.Unlimited, spec.Limits[res], res)
		}
		assert.True(t, spec.HasFeature(subscription.FeatureAPIAccess))
	})

	t.Run("limits never shrink moving up a tier", func(t *testing.T) {
		t.Parallel()
		order := []subscription.Plan{
			subscription.PlanFree,
			subscription.PlanStarter,
			subscription.PlanPro,
			subscription.PlanBusiness,
		}
		for i := 1; i < len(order); i++ {
			lower, err := catalog.Get(order[i-1])
			require.NoError(t, err)
			higher, err := catalog.Get(order[i])
			require.NoError(t, err)
			for _, res := range subscription.Resources {
				if higher.Limits[res] == subscription.Unlimited {
					continue
				}
				assert.GreaterOrEqual(t, higher.Limits[res], lower.Limits[res],
					"%s: %s", order[i], res)
			}
		}
	})

	t.Run("unknown plan", func(t *testing.T) {
		t.Parallel()
		_, err := catalog.Get(subscription.Plan("enterprise"))
		assert.ErrorIs(t, err, subscription.ErrUnknownPlan)
	})
}

func TestNewCatalog(t *testing.T) {
	t.Parallel()

	validSpecs := func() map[subscription.Plan]subscription.PlanSpec {
		specs := make(map[subscription.Plan]subscription.PlanSpec)
		for i, plan := range []subscription.Plan{
			subscription.PlanFree,
			subscription.PlanStarter,
			subscription.PlanPro,
			subscription.PlanBusiness,
		} {
			limits := make(map[subscription.Resource]int64)
			for _, res := range subscription.Resources {
				limits[res] = int64((i + 1) * 10)
			}
			specs[plan] = subscription.PlanSpec{Limits: limits}
		}
		return specs
	}

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		_, err := subscription.NewCatalog(validSpecs())
		require.NoError(t, err)
	})

	t.Run("missing tier", func(t *testing.T) {
		t.Parallel()
		specs := validSpecs()
		delete(specs, subscription.PlanPro)
		_, err := subscription.NewCatalog(specs)
		assert.ErrorIs(t, err, subscription.ErrInvalidPlanConfiguration)
	})

	t.Run("missing resource limit", func(t *testing.T) {
		t.Parallel()
		specs := validSpecs()
		delete(specs[subscription.PlanStarter].Limits, subscription.ResourceOrders)
		_, err := subscription.NewCatalog(specs)
		assert.ErrorIs(t, err, subscription.ErrInvalidPlanConfiguration)
	})

	t.Run("limit below unlimited sentinel", func(t *testing.T) {
		t.Parallel()
		specs := validSpecs()
		specs[subscription.PlanFree].Limits[subscription.ResourceRecipes] = -2
		_, err := subscription.NewCatalog(specs)
		assert.ErrorIs(t, err, subscription.ErrInvalidPlanConfiguration)
	})

	t.Run("higher tier offering less is rejected", func(t *testing.T) {
		t.Parallel()
		specs := validSpecs()
		specs[subscription.PlanPro].Limits[subscription.ResourceRecipes] = 1
		_, err := subscription.NewCatalog(specs)
		assert.ErrorIs(t, err, subscription.ErrInvalidPlanConfiguration)
	})

	t.Run("finite limit above an unlimited lower tier is rejected", func(t *testing.T) {
		t.Parallel()
		specs := validSpecs()
		specs[subscription.PlanStarter].Limits[subscription.ResourceRecipes] = subscription.Unlimited
		_, err := subscription.NewCatalog(specs)
		assert.ErrorIs(t, err, subscription.ErrInvalidPlanConfiguration)
	})
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	t.Run("valid yaml", func(t *testing.T) {
		t.Parallel()
		doc := `
plans:
  free:
    limits: {recipes: 1, orders: 1, customers: 1, products: 1}
  starter:
    limits: {recipes: 2, orders: 2, customers: 2, products: 2}
  pro:
    limits: {recipes: 3, orders: 3, customers: 3, products: 3}
    features: [ai_features]
  business:
    limits: {recipes: -1, orders: -1, customers: -1, products: -1}
    features: [ai_features, api_access]
`
		catalog, err := subscription.LoadCatalog(strings.NewReader(doc))
		require.NoError(t, err)

		spec, err := catalog.Get(subscription.PlanPro)
		require.NoError(t, err)
		assert.Equal(t, int64(3), spec.Limits[subscription.ResourceRecipes])
		assert.True(t, spec.HasFeature(subscription.FeatureAI))
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := subscription.LoadCatalog(strings.NewReader("plans:\n  free:\n    limitz: {}\n"))
		assert.ErrorIs(t, err, subscription.ErrInvalidPlanConfiguration)
	})

	t.Run("invalid catalog in valid yaml", func(t *testing.T) {
		t.Parallel()
		_, err := subscription.LoadCatalog(strings.NewReader("plans:\n  free:\n    limits: {recipes: 1}\n"))
		assert.ErrorIs(t, err, subscription.ErrInvalidPlanConfiguration)
	})
}

func TestNewUsageStat(t *testing.T) {
	t.Parallel()

	t.Run("regular percentage", func(t *testing.T) {
		t.Parallel()
		stat := subscription.NewUsageStat(5, 10)
		assert.InDelta(t, 50.0, stat.Percentage, 0.001)
	})

	t.Run("unlimited is always zero percent", func(t *testing.T) {
		t.Parallel()
		stat := subscription.NewUsageStat(1_000_000, subscription.Unlimited)
		assert.Zero(t, stat.Percentage)
	})

	t.Run("zero limit with usage is fully consumed", func(t *testing.T) {
		t.Parallel()
		stat := subscription.NewUsageStat(1, 0)
		assert.InDelta(t, 100.0, stat.Percentage, 0.001)
	})

	t.Run("zero limit without usage", func(t *testing.T) {
		t.Parallel()
		stat := subscription.NewUsageStat(0, 0)
		assert.Zero(t, stat.Percentage)
	})

	t.Run("over the limit exceeds one hundred", func(t *testing.T) {
		t.Parallel()
		stat := subscription.NewUsageStat(12, 10)
		assert.InDelta(t, 120.0, stat.Percentage, 0.001)
	})
}

func TestNormalizeProviderStatus(t *testing.T) {
	t.Parallel()

	cases := map[string]subscription.Status{
		"active":             subscription.StatusActive,
		"trialing":           subscription.StatusActive,
		"past_due":           subscription.StatusPastDue,
		"unpaid":             subscription.StatusPastDue,
		"incomplete":         subscription.StatusPastDue,
		"canceled":           subscription.StatusCanceled,
		"incomplete_expired": subscription.StatusCanceled,
	}
	for raw, want := range cases {
		status, ok := subscription.NormalizeProviderStatus(raw)
		require.True(t, ok, raw)
		assert.Equal(t, want, status, raw)
	}

	_, ok := subscription.NormalizeProviderStatus("paused")
	assert.False(t, ok)
}
