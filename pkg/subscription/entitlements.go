package subscription

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/wickandflame/wickandflame/pkg/async"
)

// Entitlements resolves a user's plan and live usage, and decides whether a
// business may create another resource of a given type.
//
// Every resolution reads fresh state: the business row, its subscription row,
// and a count per resource. Nothing is cached; a plan change or a deleted row
// is reflected by the very next call.
type Entitlements struct {
	catalog    *Catalog
	businesses BusinessStore
	subs       SubscriptionStore
	counter    ResourceCounter
	log        *slog.Logger
}

// NewEntitlements wires the resolver. Panics on nil dependencies since this
// is a startup-time constructor.
func NewEntitlements(catalog *Catalog, businesses BusinessStore, subs SubscriptionStore, counter ResourceCounter, log *slog.Logger) *Entitlements {
	if catalog == nil || businesses == nil || subs == nil || counter == nil {
		panic("subscription: NewEntitlements requires catalog, stores, and counter")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Entitlements{
		catalog:    catalog,
		businesses: businesses,
		subs:       subs,
		counter:    counter,
		log:        log,
	}
}

// Resolve builds the full entitlement report for the user's business. Counts
// for all resource types are gathered concurrently.
//
// A missing business or subscription row is an error, not an implicit free
// plan. Defaulting would silently grant free-tier capacity to broken state.
func (e *Entitlements) Resolve(ctx context.Context, userID uuid.UUID) (*Report, error) {
	biz, err := e.businesses.ByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	sub, err := e.subs.ByBusinessID(ctx, biz.ID)
	if err != nil {
		return nil, err
	}

	spec, err := e.catalog.Get(sub.Plan)
	if err != nil {
		return nil, err
	}

	usage, err := e.countAll(ctx, biz.ID, spec)
	if err != nil {
		return nil, err
	}

	return &Report{
		Plan:         sub.Plan,
		Status:       sub.Status,
		Spec:         spec,
		Usage:        usage,
		Subscription: sub,
	}, nil
}

func (e *Entitlements) countAll(ctx context.Context, businessID uuid.UUID, spec PlanSpec) (Usage, error) {
	futures := make([]*async.Future[int64], len(Resources))
	for i, res := range Resources {
		futures[i] = async.Async(ctx, res, func(ctx context.Context, res Resource) (int64, error) {
			return e.counter.CountResource(ctx, businessID, res)
		})
	}

	counts, err := async.WaitAll(futures...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToCountUsage, err)
	}

	usage := make(Usage, len(Resources))
	for i, res := range Resources {
		usage[res] = NewUsageStat(counts[i], spec.Limits[res])
	}
	return usage, nil
}

// CheckLimit is the admission gate: may the user's business create one more
// resource of the given type right now?
//
// The check is advisory. It counts, compares, and returns; it does not hold
// any lock through the caller's subsequent insert, so two requests racing at
// the boundary can both pass. Unlimited (-1) always admits without counting
// shortcuts; the count is still taken so the verdict carries real numbers.
//
// When the limit is reached the returned error is a *LimitExceededError,
// which also matches errors.Is(err, ErrLimitExceeded).
func (e *Entitlements) CheckLimit(ctx context.Context, userID uuid.UUID, res Resource) (Admission, error) {
	if !isKnownResource(res) {
		return Admission{}, fmt.Errorf("%w: %q", ErrInvalidResource, res)
	}

	biz, err := e.businesses.ByUserID(ctx, userID)
	if err != nil {
		return Admission{}, err
	}

	sub, err := e.subs.ByBusinessID(ctx, biz.ID)
	if err != nil {
		return Admission{}, err
	}

	spec, err := e.catalog.Get(sub.Plan)
	if err != nil {
		return Admission{}, err
	}
	limit := spec.Limits[res]

	current, err := e.counter.CountResource(ctx, biz.ID, res)
	if err != nil {
		return Admission{}, fmt.Errorf("%w: %w", ErrFailedToCountUsage, err)
	}

	adm := Admission{
		Resource: res,
		Current:  current,
		Limit:    limit,
		Allowed:  limit == Unlimited || current < limit,
	}
	if !adm.Allowed {
		e.log.InfoContext(ctx, "resource limit reached",
			slog.String("business_id", biz.ID.String()),
			slog.String("resource", string(res)),
			slog.Int64("current", current),
			slog.Int64("limit", limit))
		return adm, &LimitExceededError{Resource: res, Current: current, Limit: limit}
	}
	return adm, nil
}

// HasFeature reports whether the user's current plan enables a feature.
func (e *Entitlements) HasFeature(ctx context.Context, userID uuid.UUID, f Feature) (bool, error) {
	biz, err := e.businesses.ByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	sub, err := e.subs.ByBusinessID(ctx, biz.ID)
	if err != nil {
		return false, err
	}
	spec, err := e.catalog.Get(sub.Plan)
	if err != nil {
		return false, err
	}
	return spec.HasFeature(f), nil
}

func isKnownResource(res Resource) bool {
	for _, known := range Resources {
		if res == known {
			return true
		}
	}
	return false
}
