package workshop

import (
	"time"

	"github.com/google/uuid"
)

// Recipe is a candle formulation: wax, fragrance load, wick sizing notes.
type Recipe struct {
	ID            uuid.UUID `json:"id"`
	BusinessID    uuid.UUID `json:"-"`
	Name          string    `json:"name"`
	WaxType       string    `json:"wax_type"`
	FragranceLoad float64   `json:"fragrance_load"` // percent of wax weight
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Product is a sellable item, usually poured from a recipe.
type Product struct {
	ID         uuid.UUID  `json:"id"`
	BusinessID uuid.UUID  `json:"-"`
	RecipeID   *uuid.UUID `json:"recipe_id,omitempty"`
	Name       string     `json:"name"`
	SKU        string     `json:"sku"`
	PriceCents int64      `json:"price_cents"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Customer is a buyer record scoped to one business.
type Customer struct {
	ID         uuid.UUID `json:"id"`
	BusinessID uuid.UUID `json:"-"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Order records a sale of one product to one customer.
type Order struct {
	ID         uuid.UUID `json:"id"`
	BusinessID uuid.UUID `json:"-"`
	CustomerID uuid.UUID `json:"customer_id"`
	ProductID  uuid.UUID `json:"product_id"`
	Quantity   int64     `json:"quantity"`
	TotalCents int64     `json:"total_cents"`
	CreatedAt  time.Time `json:"created_at"`
}
