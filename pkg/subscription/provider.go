package subscription

import (
	"context"
	"time"
)

// EventType classifies the provider webhook events reconciliation handles.
type EventType string

const (
	EventCheckoutCompleted    EventType = "checkout.completed"
	EventSubscriptionUpdated  EventType = "subscription.updated"
	EventSubscriptionDeleted  EventType = "subscription.deleted"
	EventInvoicePaid          EventType = "invoice.paid"
	EventInvoicePaymentFailed EventType = "invoice.payment_failed"
	EventUnhandled            EventType = "unhandled"
)

// Metadata keys attached to checkout sessions and echoed back on webhook
// events. They tie a provider-side object back to local rows.
const (
	MetadataBusinessID = "business_id"
	MetadataUserID     = "user_id"
	MetadataPlan       = "plan"
)

// Event is a provider webhook event after signature verification, reduced to
// the fields reconciliation needs.
type Event struct {
	Type     EventType
	ID       string
	Metadata map[string]string

	// Provider-side identifiers, populated per event type.
	CustomerID     string
	SubscriptionID string
	PriceID        string

	// Subscription state carried by the event, when present.
	ProviderStatus   string
	CurrentPeriodEnd *time.Time
}

// CheckoutRequest describes a hosted checkout session to create.
type CheckoutRequest struct {
	CustomerID string
	PriceID    string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// CheckoutSession is the provider's hosted payment page.
type CheckoutSession struct {
	ID  string
	URL string
}

// ProviderSubscription is the provider's view of a live subscription.
type ProviderSubscription struct {
	ID               string
	CustomerID       string
	PriceID          string
	Status           string
	CurrentPeriodEnd *time.Time
}

// BillingProvider abstracts the payment provider. The subscription service
// depends on this interface so billing flows stay testable with fakes; the
// Stripe implementation lives in stripe.go.
type BillingProvider interface {
	// CreateCustomer registers the business with the provider and returns the
	// provider-side customer ID.
	CreateCustomer(ctx context.Context, email, name string, metadata map[string]string) (string, error)

	// CreateCheckoutSession builds a hosted checkout page for a new paid
	// subscription.
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)

	// GetSubscription fetches the provider's current view of a subscription.
	GetSubscription(ctx context.Context, subscriptionID string) (*ProviderSubscription, error)

	// UpdateSubscriptionPrice switches an existing subscription to a new
	// price in place, with proration.
	UpdateSubscriptionPrice(ctx context.Context, subscriptionID, priceID string) (*ProviderSubscription, error)

	// CancelSubscription cancels the subscription immediately.
	CancelSubscription(ctx context.Context, subscriptionID string) error

	// ParseWebhook verifies the payload signature and decodes the event.
	// Returns ErrInvalidSignature when verification fails.
	ParseWebhook(payload []byte, signature string) (*Event, error)
}
