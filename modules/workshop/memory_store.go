package workshop

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/wickandflame/wickandflame/pkg/subscription"
)

// MemoryStore is an in-memory Store for tests and local development. It also
// implements subscription.ResourceCounter so the admission gate counts the
// same records the handlers create.
type MemoryStore struct {
	mu        sync.RWMutex
	recipes   []Recipe
	products  []Product
	customers []Customer
	orders    []Order
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) CreateRecipe(_ context.Context, recipe *Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recipes = append(m.recipes, *recipe)
	return nil
}

func (m *MemoryStore) ListRecipes(_ context.Context, businessID uuid.UUID) ([]Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Recipe{}
	for _, rec := range m.recipes {
		if rec.BusinessID == businessID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *MemoryStore) CreateProduct(_ context.Context, product *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = append(m.products, *product)
	return nil
}

func (m *MemoryStore) GetProduct(_ context.Context, businessID, id uuid.UUID) (*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.products {
		if p.BusinessID == businessID && p.ID == id {
			copied := p
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) ListProducts(_ context.Context, businessID uuid.UUID) ([]Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Product{}
	for _, p := range m.products {
		if p.BusinessID == businessID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MemoryStore) CreateCustomer(_ context.Context, customer *Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers = append(m.customers, *customer)
	return nil
}

func (m *MemoryStore) ListCustomers(_ context.Context, businessID uuid.UUID) ([]Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Customer{}
	for _, c := range m.customers {
		if c.BusinessID == businessID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MemoryStore) CreateOrder(_ context.Context, order *Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, *order)
	return nil
}

func (m *MemoryStore) ListOrders(_ context.Context, businessID uuid.UUID) ([]Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Order{}
	for _, o := range m.orders {
		if o.BusinessID == businessID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *MemoryStore) CountResource(_ context.Context, businessID uuid.UUID, res subscription.Resource) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	switch res {
	case subscription.ResourceRecipes:
		for _, rec := range m.recipes {
			if rec.BusinessID == businessID {
				count++
			}
		}
	case subscription.ResourceProducts:
		for _, p := range m.products {
			if p.BusinessID == businessID {
				count++
			}
		}
	case subscription.ResourceCustomers:
		for _, c := range m.customers {
			if c.BusinessID == businessID {
				count++
			}
		}
	case subscription.ResourceOrders:
		for _, o := range m.orders {
			if o.BusinessID == businessID {
				count++
			}
		}
	}
	return count, nil
}
