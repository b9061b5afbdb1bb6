package subscription_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wickandflame/wickandflame/pkg/subscription"
)

func seedBusiness(store *subscription.MemoryStore, plan subscription.Plan) (userID, businessID uuid.UUID) {
	userID = uuid.New()
	businessID = uuid.New()

	store.PutBusiness(subscription.Business{
		ID:     businessID,
		UserID: userID,
		Name:   "Moonlit Wicks",
		Email:  "owner@moonlitwicks.test",
	})

	sub := subscription.NewFreeSubscription(businessID)
	sub.Plan = plan
	_ = store.Save(context.Background(), sub)

	return userID, businessID
}

func newEntitlements(store *subscription.MemoryStore) *subscription.Entitlements {
	return subscription.NewEntitlements(
		subscription.DefaultCatalog(), store, store, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestEntitlementsResolve(t *testing.T) {
	t.Parallel()

	t.Run("free plan with usage", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		userID, businessID := seedBusiness(store, subscription.PlanFree)
		store.SetCount(businessID, subscription.ResourceRecipes, 2)
		store.SetCount(businessID, subscription.ResourceOrders, 25)

		report, err := newEntitlements(store).Resolve(context.Background(), userID)
		require.NoError(t, err)

		assert.Equal(t, subscription.PlanFree, report.Plan)
		assert.Equal(t, subscription.StatusActive, report.Status)

		recipes := report.Usage[subscription.ResourceRecipes]
		assert.Equal(t, int64(2), recipes.Current)
		assert.Equal(t, int64(3), recipes.Limit)
		assert.InDelta(t, 66.66, recipes.Percentage, 0.1)

		orders := report.Usage[subscription.ResourceOrders]
		assert.InDelta(t, 100.0, orders.Percentage, 0.001)
	})

	t.Run("business plan reports zero percent", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		userID, businessID := seedBusiness(store, subscription.PlanBusiness)
		store.SetCount(businessID, subscription.ResourceProducts, 40_000)

		report, err := newEntitlements(store).Resolve(context.Background(), userID)
		require.NoError(t, err)

		products := report.Usage[subscription.ResourceProducts]
		assert.Equal(t, int64(40_000), products.Current)
		assert.Equal(t, subscription.Unlimited, products.Limit)
		assert.Zero(t, products.Percentage)
	})

	t.Run("missing business is an error, not an implicit free plan", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		_, err := newEntitlements(store).Resolve(context.Background(), uuid.New())
		assert.ErrorIs(t, err, subscription.ErrBusinessNotFound)
	})

	t.Run("missing subscription row is an error", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		userID := uuid.New()
		store.PutBusiness(subscription.Business{ID: uuid.New(), UserID: userID})

		_, err := newEntitlements(store).Resolve(context.Background(), userID)
		assert.ErrorIs(t, err, subscription.ErrSubscriptionNotFound)
	})
}

func TestEntitlementsCheckLimit(t *testing.T) {
	t.Parallel()

	t.Run("under the limit admits", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		userID, businessID := seedBusiness(store, subscription.PlanFree)
		store.SetCount(businessID, subscription.ResourceRecipes, 2)

		adm, err := newEntitlements(store).CheckLimit(context.Background(), userID, subscription.ResourceRecipes)
		require.NoError(t, err)
		assert.True(t, adm.Allowed)
		assert.Equal(t, int64(2), adm.Current)
		assert.Equal(t, int64(3), adm.Limit)
	})

	t.Run("at the limit rejects with numbers", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		userID, businessID := seedBusiness(store, subscription.PlanFree)
		store.SetCount(businessID, subscription.ResourceRecipes, 3)

		adm, err := newEntitlements(store).CheckLimit(context.Background(), userID, subscription.ResourceRecipes)
		require.Error(t, err)
		assert.False(t, adm.Allowed)
		assert.ErrorIs(t, err, subscription.ErrLimitExceeded)

		var limitErr *subscription.LimitExceededError
		require.ErrorAs(t, err, &limitErr)
		assert.Equal(t, subscription.ResourceRecipes, limitErr.Resource)
		assert.Equal(t, int64(3), limitErr.Current)
		assert.Equal(t, int64(3), limitErr.Limit)
	})

	t.Run("unlimited always admits", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		userID, businessID := seedBusiness(store, subscription.PlanBusiness)
		store.SetCount(businessID, subscription.ResourceOrders, 1_000_000)

		adm, err := newEntitlements(store).CheckLimit(context.Background(), userID, subscription.ResourceOrders)
		require.NoError(t, err)
		assert.True(t, adm.Allowed)
		assert.Equal(t, subscription.Unlimited, adm.Limit)
	})

	t.Run("plan change reflects on the next call", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		userID, businessID := seedBusiness(store, subscription.PlanFree)
		store.SetCount(businessID, subscription.ResourceRecipes, 3)

		ents := newEntitlements(store)
		_, err := ents.CheckLimit(context.Background(), userID, subscription.ResourceRecipes)
		require.ErrorIs(t, err, subscription.ErrLimitExceeded)

		sub, err := store.ByBusinessID(context.Background(), businessID)
		require.NoError(t, err)
		sub.Plan = subscription.PlanStarter
		sub.UpdatedAt = time.Now()
		require.NoError(t, store.Save(context.Background(), sub))

		adm, err := ents.CheckLimit(context.Background(), userID, subscription.ResourceRecipes)
		require.NoError(t, err)
		assert.True(t, adm.Allowed)
		assert.Equal(t, int64(25), adm.Limit)
	})

	t.Run("unknown resource", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		userID, _ := seedBusiness(store, subscription.PlanFree)

		_, err := newEntitlements(store).CheckLimit(context.Background(), userID, subscription.Resource("widgets"))
		assert.ErrorIs(t, err, subscription.ErrInvalidResource)
	})
}

func TestEntitlementsHasFeature(t *testing.T) {
	t.Parallel()

	store := subscription.NewMemoryStore()
	userID, _ := seedBusiness(store, subscription.PlanPro)
	ents := newEntitlements(store)

	has, err := ents.HasFeature(context.Background(), userID, subscription.FeatureAI)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = ents.HasFeature(context.Background(), userID, subscription.FeatureAPIAccess)
	require.NoError(t, err)
	assert.False(t, has)
}
