package subscription

import "errors"

var (
	ErrUnknownPlan              = errors.New("subscription: unknown plan")
	ErrInvalidPlanConfiguration = errors.New("subscription: invalid plan configuration")
	ErrInvalidBillingCycle      = errors.New("subscription: invalid billing cycle")
	ErrInvalidPriceConfig       = errors.New("subscription: invalid price configuration")

	ErrBusinessNotFound     = errors.New("subscription: business not found")
	ErrSubscriptionNotFound = errors.New("subscription: subscription not found")

	ErrLimitExceeded   = errors.New("subscription: resource limit exceeded")
	ErrInvalidResource = errors.New("subscription: invalid resource")

	ErrFreePlanUpgrade = errors.New("subscription: cannot upgrade to the free plan, use cancel")

	ErrInvalidSignature = errors.New("subscription: webhook signature verification failed")
	ErrMalformedEvent   = errors.New("subscription: malformed webhook event payload")
	ErrMissingMetadata  = errors.New("subscription: webhook event missing required metadata")
	ErrProviderCall     = errors.New("subscription: billing provider call failed")

	ErrFailedToCountUsage = errors.New("subscription: failed to count resource usage")
)

// LimitExceededError is the admission gate's structured rejection. It carries
// the numbers the UI needs to render an accurate upgrade prompt.
type LimitExceededError struct {
	Resource Resource
	Current  int64
	Limit    int64
}

func (e *LimitExceededError) Error() string {
	return "subscription: " + string(e.Resource) + " limit reached"
}

// Unwrap lets errors.Is(err, ErrLimitExceeded) match the sentinel.
func (e *LimitExceededError) Unwrap() error {
	return ErrLimitExceeded
}
