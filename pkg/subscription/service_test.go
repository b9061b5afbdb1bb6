package subscription_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wickandflame/wickandflame/pkg/subscription"
)

// fakeProvider is an in-memory BillingProvider that records calls and serves
// canned responses.
type fakeProvider struct {
	createdCustomers  int
	checkoutRequests  []subscription.CheckoutRequest
	updatedPrices     []string
	canceledSubs      []string
	subscriptionByID  map[string]*subscription.ProviderSubscription
	parsedEvent       *subscription.Event
	parseErr          error
	createCustomerErr error
	createCheckoutErr error
	updatePriceErr    error
	cancelErr         error
}

func (f *fakeProvider) CreateCustomer(_ context.Context, _, _ string, _ map[string]string) (string, error) {
	if f.createCustomerErr != nil {
		return "", f.createCustomerErr
	}
	f.createdCustomers++
	return "cus_test_123", nil
}

func (f *fakeProvider) CreateCheckoutSession(_ context.Context, req subscription.CheckoutRequest) (*subscription.CheckoutSession, error) {
	if f.createCheckoutErr != nil {
		return nil, f.createCheckoutErr
	}
	f.checkoutRequests = append(f.checkoutRequests, req)
	return &subscription.CheckoutSession{
		ID:  "cs_test_123",
		URL: "https://checkout.stripe.test/cs_test_123",
	}, nil
}

func (f *fakeProvider) GetSubscription(_ context.Context, id string) (*subscription.ProviderSubscription, error) {
	if sub, ok := f.subscriptionByID[id]; ok {
		return sub, nil
	}
	return nil, subscription.ErrProviderCall
}

func (f *fakeProvider) UpdateSubscriptionPrice(_ context.Context, subscriptionID, priceID string) (*subscription.ProviderSubscription, error) {
	if f.updatePriceErr != nil {
		return nil, f.updatePriceErr
	}
	f.updatedPrices = append(f.updatedPrices, priceID)
	end := time.Now().Add(30 * 24 * time.Hour)
	return &subscription.ProviderSubscription{
		ID:               subscriptionID,
		PriceID:          priceID,
		Status:           "active",
		CurrentPeriodEnd: &end,
	}, nil
}

func (f *fakeProvider) CancelSubscription(_ context.Context, subscriptionID string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.canceledSubs = append(f.canceledSubs, subscriptionID)
	return nil
}

func (f *fakeProvider) ParseWebhook(_ []byte, _ string) (*subscription.Event, error) {
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return f.parsedEvent, nil
}

func testPriceTable(t *testing.T) *subscription.PriceTable {
	t.Helper()
	table, err := subscription.NewPriceTable(subscription.PriceConfig{
		StarterMonthly:  "price_starter_m",
		StarterYearly:   "price_starter_y",
		ProMonthly:      "price_pro_m",
		ProYearly:       "price_pro_y",
		BusinessMonthly: "price_business_m",
		BusinessYearly:  "price_business_y",
	})
	require.NoError(t, err)
	return table
}

func newService(t *testing.T, store *subscription.MemoryStore, provider *fakeProvider) *subscription.Service {
	t.Helper()
	return subscription.NewService(
		subscription.DefaultCatalog(),
		testPriceTable(t),
		provider,
		store, store,
		nil,
		subscription.ServiceConfig{
			CheckoutSuccessURL: "https://app.wickandflame.test/billing/success",
			CheckoutCancelURL:  "https://app.wickandflame.test/billing/cancel",
		},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestServiceUpgrade(t *testing.T) {
	t.Parallel()

	t.Run("free business gets a checkout URL and no local change", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		userID, businessID := seedBusiness(store, subscription.PlanFree)
		provider := &fakeProvider{}
		svc := newService(t, store, provider)

		result, err := svc.Upgrade(context.Background(), userID, subscription.PlanPro, subscription.CycleMonthly)
		require.NoError(t, err)

		assert.Equal(t, "https://checkout.stripe.test/cs_test_123", result.CheckoutURL)
		assert.Nil(t, result.Subscription)

		// Metadata must round-trip so the webhook can find the business.
		require.Len(t, provider.checkoutRequests, 1)
		req := provider.checkoutRequests[0]
		assert.Equal(t, "price_pro_m", req.PriceID)
		assert.Equal(t, businessID.String(), req.Metadata[subscription.MetadataBusinessID])
		assert.Equal(t, userID.String(), req.Metadata[subscription.MetadataUserID])
		assert.Equal(t, "pro", req.Metadata[subscription.MetadataPlan])

		// Plan stays free until the webhook lands.
		sub, err := store.ByBusinessID(context.Background(), businessID)
		require.NoError(t, err)
		assert.Equal(t, subscription.PlanFree, sub.Plan)
		assert.Empty(t, sub.ProviderSubscriptionID)
		assert.Equal(t, "cus_test_123", sub.ProviderCustomerID)
	})

	t.Run("retry reuses the persisted customer", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		userID, _ := seedBusiness(store, subscription.PlanFree)
		provider := &fakeProvider{}
		svc := newService(t, store, provider)

		_, err := svc.Upgrade(context.Background(), userID, subscription.PlanPro, subscription.CycleMonthly)
		require.NoError(t, err)
		_, err = svc.Upgrade(context.Background(), userID, subscription.PlanStarter, subscription.CycleYearly)
		require.NoError(t, err)

		assert.Equal(t, 1, provider.createdCustomers)
		assert.Len(t, provider.checkoutRequests, 2)
	})

	t.Run("paid business switches price in place", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		userID, businessID := seedBusiness(store, subscription.PlanStarter)

		sub, err := store.ByBusinessID(context.Background(), businessID)
		require.NoError(t, err)
		sub.ProviderCustomerID = "cus_test_123"
		sub.ProviderSubscriptionID = "sub_test_456"
		sub.ProviderPriceID = "price_starter_m"
		require.NoError(t, store.Save(context.Background(), sub))

		provider := &fakeProvider{}
		svc := newService(t, store, provider)

		result, err := svc.Upgrade(context.Background(), userID, subscription.PlanPro, subscription.CycleMonthly)
		require.NoError(t, err)

		assert.Empty(t, result.CheckoutURL)
		require.NotNil(t, result.Subscription)
		assert.Equal(t, subscription.PlanPro, result.Subscription.Plan)
		assert.Equal(t, []string{"price_pro_m"}, provider.updatedPrices)

		stored, err := store.ByBusinessID(context.Background(), businessID)
		require.NoError(t, err)
		assert.Equal(t, subscription.PlanPro, stored.Plan)
		assert.Equal(t, "price_pro_m", stored.ProviderPriceID)
		assert.NotNil(t, stored.CurrentPeriodEnd)
	})

	t.Run("upgrade to free is rejected", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		userID, _ := seedBusiness(store, subscription.PlanPro)
		svc := newService(t, store, &fakeProvider{})

		_, err := svc.Upgrade(context.Background(), userID, subscription.PlanFree, subscription.CycleMonthly)
		assert.ErrorIs(t, err, subscription.ErrFreePlanUpgrade)
	})

	t.Run("unknown plan is rejected", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		userID, _ := seedBusiness(store, subscription.PlanFree)
		svc := newService(t, store, &fakeProvider{})

		_, err := svc.Upgrade(context.Background(), userID, subscription.Plan("enterprise"), subscription.CycleMonthly)
		assert.ErrorIs(t, err, subscription.ErrUnknownPlan)
	})

	t.Run("invalid cycle is rejected", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		userID, _ := seedBusiness(store, subscription.PlanFree)
		svc := newService(t, store, &fakeProvider{})

		_, err := svc.Upgrade(context.Background(), userID, subscription.PlanPro, subscription.BillingCycle("weekly"))
		assert.ErrorIs(t, err, subscription.ErrInvalidBillingCycle)
	})
}

func TestServiceCancel(t *testing.T) {
	t.Parallel()

	t.Run("paid subscription cancels at provider and clears ids", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		userID, businessID := seedBusiness(store, subscription.PlanPro)

		sub, err := store.ByBusinessID(context.Background(), businessID)
		require.NoError(t, err)
		sub.ProviderCustomerID = "cus_test_123"
		sub.ProviderSubscriptionID = "sub_test_456"
		sub.ProviderPriceID = "price_pro_m"
		require.NoError(t, store.Save(context.Background(), sub))

		provider := &fakeProvider{}
		svc := newService(t, store, provider)

		canceled, err := svc.Cancel(context.Background(), userID)
		require.NoError(t, err)

		assert.Equal(t, []string{"sub_test_456"}, provider.canceledSubs)
		assert.Equal(t, subscription.PlanFree, canceled.Plan)
		assert.Equal(t, subscription.StatusCanceled, canceled.Status)
		assert.Empty(t, canceled.ProviderCustomerID)
		assert.Empty(t, canceled.ProviderSubscriptionID)
		assert.Empty(t, canceled.ProviderPriceID)
		assert.Nil(t, canceled.CurrentPeriodEnd)
	})

	t.Run("free subscription cancels without provider call", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		userID, _ := seedBusiness(store, subscription.PlanFree)
		provider := &fakeProvider{}
		svc := newService(t, store, provider)

		canceled, err := svc.Cancel(context.Background(), userID)
		require.NoError(t, err)

		assert.Empty(t, provider.canceledSubs)
		assert.Equal(t, subscription.PlanFree, canceled.Plan)
		assert.Equal(t, subscription.StatusActive, canceled.Status)
	})
}

func TestPriceTable(t *testing.T) {
	t.Parallel()

	t.Run("placeholder values are rejected", func(t *testing.T) {
		t.Parallel()
		_, err := subscription.NewPriceTable(subscription.PriceConfig{
			StarterMonthly:  "price_CHANGEME",
			StarterYearly:   "price_starter_y",
			ProMonthly:      "price_pro_m",
			ProYearly:       "price_pro_y",
			BusinessMonthly: "price_business_m",
			BusinessYearly:  "price_business_y",
		})
		assert.ErrorIs(t, err, subscription.ErrInvalidPriceConfig)
	})

	t.Run("empty value is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := subscription.NewPriceTable(subscription.PriceConfig{})
		assert.ErrorIs(t, err, subscription.ErrInvalidPriceConfig)
	})

	t.Run("non price id is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := subscription.NewPriceTable(subscription.PriceConfig{
			StarterMonthly:  "prod_12345",
			StarterYearly:   "price_starter_y",
			ProMonthly:      "price_pro_m",
			ProYearly:       "price_pro_y",
			BusinessMonthly: "price_business_m",
			BusinessYearly:  "price_business_y",
		})
		assert.ErrorIs(t, err, subscription.ErrInvalidPriceConfig)
	})

	t.Run("reverse lookup", func(t *testing.T) {
		t.Parallel()
		table := testPriceTable(t)
		plan, ok := table.PlanForPrice("price_pro_y")
		require.True(t, ok)
		assert.Equal(t, subscription.PlanPro, plan)

		_, ok = table.PlanForPrice("price_unknown")
		assert.False(t, ok)
	})

	t.Run("free plan has no price", func(t *testing.T) {
		t.Parallel()
		table := testPriceTable(t)
		_, err := table.For(subscription.PlanFree, subscription.CycleMonthly)
		assert.ErrorIs(t, err, subscription.ErrInvalidPriceConfig)
	})
}
