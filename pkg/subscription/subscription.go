package subscription

import (
	"time"

	"github.com/google/uuid"
)

// Business is the tenant boundary. Every countable resource and the
// subscription itself hang off a business, not a user.
type Business struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subscription is the locally stored billing state for one business. It is a
// materialized view of the provider's records; webhook reconciliation and
// synchronous plan changes are the only writers.
type Subscription struct {
	ID         uuid.UUID
	BusinessID uuid.UUID
	Plan       Plan
	Status     Status

	// Provider-side identifiers. All empty for businesses that never went
	// through checkout; cleared together when the provider subscription ends.
	ProviderCustomerID     string
	ProviderSubscriptionID string
	ProviderPriceID        string

	CurrentPeriodEnd *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsPaid reports whether the business has a live provider subscription.
func (s *Subscription) IsPaid() bool {
	return s.ProviderSubscriptionID != ""
}

// ClearProvider resets the subscription to the free plan and removes every
// provider identifier. Used on cancellation and on subscription.deleted
// events; calling it twice yields the same row, which is what makes webhook
// replays harmless.
func (s *Subscription) ClearProvider() {
	s.Plan = PlanFree
	s.ProviderCustomerID = ""
	s.ProviderSubscriptionID = ""
	s.ProviderPriceID = ""
	s.CurrentPeriodEnd = nil
}

// NewFreeSubscription builds the default subscription row created alongside a
// business.
func NewFreeSubscription(businessID uuid.UUID) *Subscription {
	now := time.Now()
	return &Subscription{
		ID:         uuid.New(),
		BusinessID: businessID,
		Plan:       PlanFree,
		Status:     StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
