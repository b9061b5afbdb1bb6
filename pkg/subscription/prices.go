package subscription

import (
	"fmt"
	"strings"
)

// PriceConfig maps each paid plan and billing cycle to a Stripe price ID.
// The values come from the environment; deploys against a fresh Stripe
// account must create the prices first and export the IDs.
type PriceConfig struct {
	StarterMonthly  string `env:"STRIPE_PRICE_STARTER_MONTHLY,required"`
	StarterYearly   string `env:"STRIPE_PRICE_STARTER_YEARLY,required"`
	ProMonthly      string `env:"STRIPE_PRICE_PRO_MONTHLY,required"`
	ProYearly       string `env:"STRIPE_PRICE_PRO_YEARLY,required"`
	BusinessMonthly string `env:"STRIPE_PRICE_BUSINESS_MONTHLY,required"`
	BusinessYearly  string `env:"STRIPE_PRICE_BUSINESS_YEARLY,required"`
}

// PriceTable resolves (plan, cycle) to a provider price ID. Construction
// fails fast on missing or placeholder values so misconfiguration surfaces
// at startup, not mid-checkout.
type PriceTable struct {
	prices map[Plan]map[BillingCycle]string
}

// NewPriceTable validates the config and builds the lookup table.
func NewPriceTable(cfg PriceConfig) (*PriceTable, error) {
	prices := map[Plan]map[BillingCycle]string{
		PlanStarter: {
			CycleMonthly: cfg.StarterMonthly,
			CycleYearly:  cfg.StarterYearly,
		},
		PlanPro: {
			CycleMonthly: cfg.ProMonthly,
			CycleYearly:  cfg.ProYearly,
		},
		PlanBusiness: {
			CycleMonthly: cfg.BusinessMonthly,
			CycleYearly:  cfg.BusinessYearly,
		},
	}

	for plan, cycles := range prices {
		for cycle, id := range cycles {
			if err := validatePriceID(id); err != nil {
				return nil, fmt.Errorf("%w: %s/%s: %w", ErrInvalidPriceConfig, plan, cycle, err)
			}
		}
	}

	return &PriceTable{prices: prices}, nil
}

// For returns the price ID for a paid plan and cycle. The free plan has no
// price and returns ErrInvalidPriceConfig.
func (t *PriceTable) For(plan Plan, cycle BillingCycle) (string, error) {
	if cycle != CycleMonthly && cycle != CycleYearly {
		return "", fmt.Errorf("%w: %q", ErrInvalidBillingCycle, cycle)
	}
	cycles, ok := t.prices[plan]
	if !ok {
		return "", fmt.Errorf("%w: no prices for plan %q", ErrInvalidPriceConfig, plan)
	}
	return cycles[cycle], nil
}

// PlanForPrice reverse-maps a provider price ID to its plan. Used during
// webhook reconciliation when an event carries a price but no plan metadata.
func (t *PriceTable) PlanForPrice(priceID string) (Plan, bool) {
	for plan, cycles := range t.prices {
		for _, id := range cycles {
			if id == priceID {
				return plan, true
			}
		}
	}
	return "", false
}

func validatePriceID(id string) error {
	switch {
	case id == "":
		return fmt.Errorf("price ID is empty")
	case !strings.HasPrefix(id, "price_"):
		return fmt.Errorf("price ID %q does not look like a Stripe price", id)
	case strings.Contains(strings.ToUpper(id), "CHANGEME"),
		strings.Contains(strings.ToUpper(id), "REPLACE"),
		strings.HasSuffix(id, "_xxx"):
		return fmt.Errorf("price ID %q is a placeholder", id)
	}
	return nil
}
