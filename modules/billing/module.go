// Package billing exposes the subscription HTTP surface: the entitlement
// report, plan upgrades and cancellation, and the Stripe webhook endpoint.
package billing

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wickandflame/wickandflame/pkg/subscription"
)

// Module bundles the billing handlers behind a mountable router.
type Module struct {
	svc  *subscription.Service
	ents *subscription.Entitlements
}

// NewModule wires the billing HTTP module.
func NewModule(svc *subscription.Service, ents *subscription.Entitlements) *Module {
	if svc == nil || ents == nil {
		panic("billing: NewModule requires service and entitlements")
	}
	return &Module{svc: svc, ents: ents}
}

// Handle returns the module router. Mount it under the path of your choice:
//
//	r.Mount("/billing", billingModule.Handle())
//
// The webhook route is unauthenticated; Stripe signs the payload instead.
// Everything else expects an authenticated user in the request context.
func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/subscription", m.getSubscription)
	r.Post("/subscription/upgrade", m.upgrade)
	r.Post("/subscription/cancel", m.cancel)
	r.Post("/stripe/webhook", m.webhook)

	return r
}
