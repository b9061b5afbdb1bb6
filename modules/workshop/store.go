package workshop

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("workshop: record not found")

// Store persists workshop records. Every method is scoped by business ID;
// nothing in this package can read across tenants.
type Store interface {
	CreateRecipe(ctx context.Context, recipe *Recipe) error
	ListRecipes(ctx context.Context, businessID uuid.UUID) ([]Recipe, error)

	CreateProduct(ctx context.Context, product *Product) error
	GetProduct(ctx context.Context, businessID, id uuid.UUID) (*Product, error)
	ListProducts(ctx context.Context, businessID uuid.UUID) ([]Product, error)

	CreateCustomer(ctx context.Context, customer *Customer) error
	ListCustomers(ctx context.Context, businessID uuid.UUID) ([]Customer, error)

	CreateOrder(ctx context.Context, order *Order) error
	ListOrders(ctx context.Context, businessID uuid.UUID) ([]Order, error)
}
