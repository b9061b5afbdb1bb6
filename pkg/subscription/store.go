package subscription

import (
	"context"

	"github.com/google/uuid"
)

// BusinessStore loads the tenant record entitlement resolution starts from.
type BusinessStore interface {
	// ByUserID returns the business owned by the user, or ErrBusinessNotFound.
	ByUserID(ctx context.Context, userID uuid.UUID) (*Business, error)
	// ByID returns the business, or ErrBusinessNotFound.
	ByID(ctx context.Context, id uuid.UUID) (*Business, error)
}

// SubscriptionStore persists the locally materialized subscription state.
type SubscriptionStore interface {
	// ByBusinessID returns the business's subscription, or
	// ErrSubscriptionNotFound when none exists.
	ByBusinessID(ctx context.Context, businessID uuid.UUID) (*Subscription, error)
	// ByProviderSubscriptionID looks a subscription up by the provider-side
	// identifier, or ErrSubscriptionNotFound.
	ByProviderSubscriptionID(ctx context.Context, providerSubID string) (*Subscription, error)
	// Save inserts or updates the subscription row.
	Save(ctx context.Context, sub *Subscription) error
}

// ResourceCounter counts live rows per resource type for a business. The
// entitlement layer always asks for fresh counts rather than maintaining
// incremental tallies, so the counts cannot drift from the actual data.
type ResourceCounter interface {
	CountResource(ctx context.Context, businessID uuid.UUID, res Resource) (int64, error)
}
