package subscription

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// StripeConfig holds the Stripe credentials.
type StripeConfig struct {
	SecretKey     string `env:"STRIPE_SECRET_KEY,required"`
	WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET,required"`
}

// StripeProvider implements BillingProvider against the Stripe API.
type StripeProvider struct {
	api           *client.API
	webhookSecret string
}

// NewStripeProvider builds the provider from config. Panics on missing
// credentials since this runs once at startup.
func NewStripeProvider(cfg StripeConfig) *StripeProvider {
	if cfg.SecretKey == "" || cfg.WebhookSecret == "" {
		panic("subscription: stripe secret key and webhook secret are required")
	}
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &StripeProvider{api: api, webhookSecret: cfg.WebhookSecret}
}

func (p *StripeProvider) CreateCustomer(ctx context.Context, email, name string, metadata map[string]string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	cust, err := p.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: create customer: %w", ErrProviderCall, err)
	}
	return cust.ID, nil
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(req.CustomerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		// Copy metadata onto the subscription too, so that later
		// subscription.* events carry it even though they originate from a
		// different object than the checkout session.
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: req.Metadata,
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: create checkout session: %w", ErrProviderCall, err)
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (p *StripeProvider) GetSubscription(ctx context.Context, subscriptionID string) (*ProviderSubscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := p.api.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("%w: get subscription: %w", ErrProviderCall, err)
	}
	return providerSubFromStripe(sub), nil
}

func (p *StripeProvider) UpdateSubscriptionPrice(ctx context.Context, subscriptionID, priceID string) (*ProviderSubscription, error) {
	getParams := &stripe.SubscriptionParams{}
	getParams.Context = ctx
	current, err := p.api.Subscriptions.Get(subscriptionID, getParams)
	if err != nil {
		return nil, fmt.Errorf("%w: get subscription for update: %w", ErrProviderCall, err)
	}
	if current.Items == nil || len(current.Items.Data) == 0 {
		return nil, fmt.Errorf("%w: subscription %s has no items", ErrProviderCall, subscriptionID)
	}

	params := &stripe.SubscriptionParams{
		Items: []*stripe.SubscriptionItemsParams{
			{
				ID:    stripe.String(current.Items.Data[0].ID),
				Price: stripe.String(priceID),
			},
		},
		ProrationBehavior: stripe.String("create_prorations"),
	}
	params.Context = ctx

	updated, err := p.api.Subscriptions.Update(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("%w: update subscription price: %w", ErrProviderCall, err)
	}
	return providerSubFromStripe(updated), nil
}

// providerSubFromStripe reduces a Stripe subscription to the fields the
// service layer consumes. Stripe subscriptions carry exactly one item in this
// integration (checkout sessions are created with a single line item).
func providerSubFromStripe(sub *stripe.Subscription) *ProviderSubscription {
	out := &ProviderSubscription{
		ID:     sub.ID,
		Status: string(sub.Status),
	}
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		out.PriceID = sub.Items.Data[0].Price.ID
	}
	if sub.CurrentPeriodEnd > 0 {
		end := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
		out.CurrentPeriodEnd = &end
	}
	return out
}

func (p *StripeProvider) CancelSubscription(ctx context.Context, subscriptionID string) error {
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx

	if _, err := p.api.Subscriptions.Cancel(subscriptionID, params); err != nil {
		return fmt.Errorf("%w: cancel subscription: %w", ErrProviderCall, err)
	}
	return nil
}

// ParseWebhook verifies the Stripe-Signature header against the endpoint
// secret and reduces the event to the fields reconciliation needs. Event
// types outside the handled set come back as EventUnhandled with only the
// ID set; the caller acknowledges and ignores them.
func (p *StripeProvider) ParseWebhook(payload []byte, signature string) (*Event, error) {
	stripeEvent, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	event := &Event{ID: stripeEvent.ID, Type: EventUnhandled}

	switch stripeEvent.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(stripeEvent.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("%w: checkout session: %w", ErrMalformedEvent, err)
		}
		event.Type = EventCheckoutCompleted
		event.Metadata = sess.Metadata
		if sess.Customer != nil {
			event.CustomerID = sess.Customer.ID
		}
		if sess.Subscription != nil {
			event.SubscriptionID = sess.Subscription.ID
		}

	case "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(stripeEvent.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("%w: subscription: %w", ErrMalformedEvent, err)
		}
		event.Type = EventSubscriptionUpdated
		if stripeEvent.Type == "customer.subscription.deleted" {
			event.Type = EventSubscriptionDeleted
		}
		event.Metadata = sub.Metadata
		event.SubscriptionID = sub.ID
		event.ProviderStatus = string(sub.Status)
		if sub.Customer != nil {
			event.CustomerID = sub.Customer.ID
		}
		if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
			event.PriceID = sub.Items.Data[0].Price.ID
		}
		if sub.CurrentPeriodEnd > 0 {
			end := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
			event.CurrentPeriodEnd = &end
		}

	case "invoice.paid", "invoice.payment_failed":
		var inv stripe.Invoice
		if err := json.Unmarshal(stripeEvent.Data.Raw, &inv); err != nil {
			return nil, fmt.Errorf("%w: invoice: %w", ErrMalformedEvent, err)
		}
		event.Type = EventInvoicePaid
		if stripeEvent.Type == "invoice.payment_failed" {
			event.Type = EventInvoicePaymentFailed
		}
		if inv.Customer != nil {
			event.CustomerID = inv.Customer.ID
		}
		if inv.Subscription != nil {
			event.SubscriptionID = inv.Subscription.ID
		}
	}

	return event, nil
}
