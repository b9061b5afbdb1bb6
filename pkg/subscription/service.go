package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wickandflame/wickandflame/pkg/email"
)

// ServiceConfig carries the checkout redirect targets.
type ServiceConfig struct {
	CheckoutSuccessURL string `env:"CHECKOUT_SUCCESS_URL,required"`
	CheckoutCancelURL  string `env:"CHECKOUT_CANCEL_URL,required"`
}

// UpgradeResult is what a plan change returns to the caller. Exactly one of
// CheckoutURL or Subscription is set: a checkout URL when the user must pay
// through the provider's hosted page first, the updated subscription when
// the change was applied in place.
type UpgradeResult struct {
	CheckoutURL  string
	Subscription *Subscription
}

// Service orchestrates user-initiated plan changes and hands webhook events
// to the reconciler. It never talks to Stripe types directly; everything
// goes through the BillingProvider interface.
type Service struct {
	catalog    *Catalog
	prices     *PriceTable
	provider   BillingProvider
	businesses BusinessStore
	subs       SubscriptionStore
	mailer     email.Sender
	cfg        ServiceConfig
	log        *slog.Logger
}

// NewService wires the billing orchestrator. The mailer is optional; without
// it payment-failure notifications are skipped.
func NewService(
	catalog *Catalog,
	prices *PriceTable,
	provider BillingProvider,
	businesses BusinessStore,
	subs SubscriptionStore,
	mailer email.Sender,
	cfg ServiceConfig,
	log *slog.Logger,
) *Service {
	if catalog == nil || prices == nil || provider == nil || businesses == nil || subs == nil {
		panic("subscription: NewService requires catalog, prices, provider, and stores")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		catalog:    catalog,
		prices:     prices,
		provider:   provider,
		businesses: businesses,
		subs:       subs,
		mailer:     mailer,
		cfg:        cfg,
		log:        log,
	}
}

// Subscription returns the stored subscription for the user's business.
func (s *Service) Subscription(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	biz, err := s.businesses.ByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.subs.ByBusinessID(ctx, biz.ID)
}

// Upgrade moves the user's business to the target paid plan.
//
// Without a live provider subscription this is a two-phase flow: the method
// returns a hosted checkout URL and changes nothing locally. The local row
// flips only when the checkout.completed webhook arrives, so an abandoned
// payment page leaves no trace.
//
// With a live provider subscription the price is switched in place with
// proration, and the local row updates synchronously: the provider API call
// returning success is itself the confirmation, no webhook round trip needed.
func (s *Service) Upgrade(ctx context.Context, userID uuid.UUID, plan Plan, cycle BillingCycle) (*UpgradeResult, error) {
	if plan == PlanFree {
		return nil, ErrFreePlanUpgrade
	}
	if !s.catalog.Has(plan) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlan, plan)
	}

	priceID, err := s.prices.For(plan, cycle)
	if err != nil {
		return nil, err
	}

	biz, err := s.businesses.ByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	sub, err := s.subs.ByBusinessID(ctx, biz.ID)
	if err != nil {
		return nil, err
	}

	if !sub.IsPaid() {
		return s.startCheckout(ctx, biz, sub, plan, priceID)
	}
	return s.switchPrice(ctx, sub, plan, priceID)
}

func (s *Service) startCheckout(ctx context.Context, biz *Business, sub *Subscription, plan Plan, priceID string) (*UpgradeResult, error) {
	customerID := sub.ProviderCustomerID
	if customerID == "" {
		var err error
		customerID, err = s.provider.CreateCustomer(ctx, biz.Email, biz.Name, map[string]string{
			MetadataBusinessID: biz.ID.String(),
			MetadataUserID:     biz.UserID.String(),
		})
		if err != nil {
			return nil, err
		}
		// Persist the customer ID now so a retry after an abandoned checkout
		// reuses the same Stripe customer instead of minting another.
		sub.ProviderCustomerID = customerID
		sub.UpdatedAt = time.Now()
		if err := s.subs.Save(ctx, sub); err != nil {
			return nil, err
		}
	}

	session, err := s.provider.CreateCheckoutSession(ctx, CheckoutRequest{
		CustomerID: customerID,
		PriceID:    priceID,
		SuccessURL: s.cfg.CheckoutSuccessURL,
		CancelURL:  s.cfg.CheckoutCancelURL,
		Metadata: map[string]string{
			MetadataBusinessID: biz.ID.String(),
			MetadataUserID:     biz.UserID.String(),
			MetadataPlan:       string(plan),
		},
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "checkout session created",
		slog.String("business_id", biz.ID.String()),
		slog.String("plan", string(plan)),
		slog.String("session_id", session.ID))

	return &UpgradeResult{CheckoutURL: session.URL}, nil
}

func (s *Service) switchPrice(ctx context.Context, sub *Subscription, plan Plan, priceID string) (*UpgradeResult, error) {
	updated, err := s.provider.UpdateSubscriptionPrice(ctx, sub.ProviderSubscriptionID, priceID)
	if err != nil {
		return nil, err
	}

	sub.Plan = plan
	sub.ProviderPriceID = updated.PriceID
	if status, ok := NormalizeProviderStatus(updated.Status); ok {
		sub.Status = status
	}
	sub.CurrentPeriodEnd = updated.CurrentPeriodEnd
	sub.UpdatedAt = time.Now()
	if err := s.subs.Save(ctx, sub); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "subscription price switched",
		slog.String("business_id", sub.BusinessID.String()),
		slog.String("plan", string(plan)))

	return &UpgradeResult{Subscription: sub}, nil
}

// Cancel ends the paid subscription and drops the business back to the free
// plan. The provider cancellation happens synchronously; the local row is
// updated in the same call rather than waiting for the deletion webhook,
// which will later find nothing left to change.
func (s *Service) Cancel(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	biz, err := s.businesses.ByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	sub, err := s.subs.ByBusinessID(ctx, biz.ID)
	if err != nil {
		return nil, err
	}

	if !sub.IsPaid() {
		// Already on free. Normalize the row and report success; cancel is
		// idempotent from the caller's point of view.
		sub.Plan = PlanFree
		sub.Status = StatusActive
		sub.UpdatedAt = time.Now()
		if err := s.subs.Save(ctx, sub); err != nil {
			return nil, err
		}
		return sub, nil
	}

	if err := s.provider.CancelSubscription(ctx, sub.ProviderSubscriptionID); err != nil {
		return nil, err
	}

	sub.ClearProvider()
	sub.Status = StatusCanceled
	sub.UpdatedAt = time.Now()
	if err := s.subs.Save(ctx, sub); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "subscription canceled",
		slog.String("business_id", sub.BusinessID.String()))

	return sub, nil
}
