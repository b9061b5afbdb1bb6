package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
)

func TestProviderSubFromStripe(t *testing.T) {
	t.Parallel()

	t.Run("maps a full subscription", func(t *testing.T) {
		t.Parallel()
		periodEnd := time.Date(2026, 9, 28, 12, 0, 0, 0, time.UTC)
		sub := &stripe.Subscription{
			ID:       "sub_test_456",
			Status:   stripe.SubscriptionStatusActive,
			Customer: &stripe.Customer{ID: "cus_test_123"},
			Items: &stripe.SubscriptionItemList{
				Data: []*stripe.SubscriptionItem{
					{Price: &stripe.Price{ID: "price_pro_m"}},
				},
			},
			CurrentPeriodEnd: periodEnd.Unix(),
		}

		got := providerSubFromStripe(sub)
		assert.Equal(t, "sub_test_456", got.ID)
		assert.Equal(t, "active", got.Status)
		assert.Equal(t, "cus_test_123", got.CustomerID)
		assert.Equal(t, "price_pro_m", got.PriceID)
		require.NotNil(t, got.CurrentPeriodEnd)
		assert.True(t, got.CurrentPeriodEnd.Equal(periodEnd))
	})

	t.Run("tolerates missing expansions", func(t *testing.T) {
		t.Parallel()
		got := providerSubFromStripe(&stripe.Subscription{
			ID:     "sub_bare",
			Status: stripe.SubscriptionStatusPastDue,
		})
		assert.Equal(t, "sub_bare", got.ID)
		assert.Equal(t, "past_due", got.Status)
		assert.Empty(t, got.CustomerID)
		assert.Empty(t, got.PriceID)
		assert.Nil(t, got.CurrentPeriodEnd)
	})
}
