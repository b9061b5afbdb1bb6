// Package workshop exposes the tenant-facing resource endpoints: recipes,
// products, customers, and orders. Every creating route passes through the
// subscription admission gate, so plan limits are enforced here and nowhere
// else in the HTTP stack.
package workshop

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wickandflame/wickandflame/pkg/subscription"
)

// Config holds the workshop module settings.
type Config struct {
	// LabelBaseURL is the public URL prefix encoded into product QR labels,
	// e.g. https://shop.example.com/p. The product ID is appended.
	LabelBaseURL string `env:"LABEL_BASE_URL" envDefault:"https://wickandflame.app/p"`
}

// Module bundles the workshop handlers behind a mountable router.
type Module struct {
	store      Store
	businesses subscription.BusinessStore
	ents       *subscription.Entitlements
	cfg        Config
}

// NewModule wires the workshop HTTP module.
func NewModule(store Store, businesses subscription.BusinessStore, ents *subscription.Entitlements, cfg Config) *Module {
	if store == nil || businesses == nil || ents == nil {
		panic("workshop: NewModule requires store, businesses, and entitlements")
	}
	return &Module{store: store, businesses: businesses, ents: ents, cfg: cfg}
}

// Handle returns the module router. All routes expect an authenticated user
// in the request context.
func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()

	gate := func(res subscription.Resource) func(http.Handler) http.Handler {
		return subscription.RequireCapacity(m.ents, res)
	}

	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", m.listRecipes)
		r.With(gate(subscription.ResourceRecipes)).Post("/", m.createRecipe)
	})
	r.Route("/products", func(r chi.Router) {
		r.Get("/", m.listProducts)
		r.With(gate(subscription.ResourceProducts)).Post("/", m.createProduct)
		r.Get("/{id}/label", m.productLabel)
	})
	r.Route("/customers", func(r chi.Router) {
		r.Get("/", m.listCustomers)
		r.With(gate(subscription.ResourceCustomers)).Post("/", m.createCustomer)
	})
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", m.listOrders)
		r.With(gate(subscription.ResourceOrders)).Post("/", m.createOrder)
	})

	return r
}
