// Package subscription implements plan entitlements and Stripe billing for
// the workshop: plan catalog, live usage counting, admission checks on
// resource creation, checkout/upgrade orchestration, and reconciliation of
// Stripe webhook events into the stored subscription state.
//
// # Architecture
//
//   - Catalog: immutable plan -> limits/features mapping, validated at startup
//   - Entitlements: resolves a user's plan + live usage into a report, and
//     answers "may this business create another X?" (the admission gate)
//   - Service: user-initiated plan changes (checkout, in-place upgrade,
//     cancel) and webhook reconciliation
//   - BillingProvider: minimal Stripe abstraction so that billing logic stays
//     testable with fakes
//   - BusinessStore / SubscriptionStore / ResourceCounter: persistence
//     interfaces, with postgres and in-memory implementations in-package
//
// The admission check is advisory: it re-resolves usage on every call but
// does not hold a lock across the subsequent insert, so two concurrent
// requests at the limit boundary can jointly exceed it by one. That race is
// accepted for the target usage pattern of a single owner per business.
//
// The local subscription row is a materialized view of Stripe's state. New
// checkouts update it only when the corresponding webhook arrives; in-place
// plan changes and cancellations update it synchronously because the API
// call itself is confirmation.
package subscription
