package workshop

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps the pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("workshop: NewPostgresStore requires a pool")
	}
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) CreateRecipe(ctx context.Context, recipe *Recipe) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO recipes (id, business_id, name, wax_type, fragrance_load, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		recipe.ID, recipe.BusinessID, recipe.Name, recipe.WaxType, recipe.FragranceLoad, recipe.Notes, recipe.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListRecipes(ctx context.Context, businessID uuid.UUID) ([]Recipe, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, business_id, name, wax_type, fragrance_load, notes, created_at
		FROM recipes WHERE business_id = $1 ORDER BY created_at DESC`, businessID)
	if err != nil {
		return nil, fmt.Errorf("select recipes: %w", err)
	}
	defer rows.Close()

	out := []Recipe{}
	for rows.Next() {
		var rec Recipe
		if err := rows.Scan(&rec.ID, &rec.BusinessID, &rec.Name, &rec.WaxType, &rec.FragranceLoad, &rec.Notes, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateProduct(ctx context.Context, product *Product) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO products (id, business_id, recipe_id, name, sku, price_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		product.ID, product.BusinessID, product.RecipeID, product.Name, product.SKU, product.PriceCents, product.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetProduct(ctx context.Context, businessID, id uuid.UUID) (*Product, error) {
	var p Product
	err := s.pool.QueryRow(ctx, `
		SELECT id, business_id, recipe_id, name, sku, price_cents, created_at
		FROM products WHERE business_id = $1 AND id = $2`, businessID, id).
		Scan(&p.ID, &p.BusinessID, &p.RecipeID, &p.Name, &p.SKU, &p.PriceCents, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select product: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) ListProducts(ctx context.Context, businessID uuid.UUID) ([]Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, business_id, recipe_id, name, sku, price_cents, created_at
		FROM products WHERE business_id = $1 ORDER BY created_at DESC`, businessID)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.BusinessID, &p.RecipeID, &p.Name, &p.SKU, &p.PriceCents, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateCustomer(ctx context.Context, customer *Customer) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO customers (id, business_id, name, email, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		customer.ID, customer.BusinessID, customer.Name, customer.Email, customer.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListCustomers(ctx context.Context, businessID uuid.UUID) ([]Customer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, business_id, name, email, created_at
		FROM customers WHERE business_id = $1 ORDER BY created_at DESC`, businessID)
	if err != nil {
		return nil, fmt.Errorf("select customers: %w", err)
	}
	defer rows.Close()

	out := []Customer{}
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.BusinessID, &c.Name, &c.Email, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateOrder(ctx context.Context, order *Order) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO orders (id, business_id, customer_id, product_id, quantity, total_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		order.ID, order.BusinessID, order.CustomerID, order.ProductID, order.Quantity, order.TotalCents, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListOrders(ctx context.Context, businessID uuid.UUID) ([]Order, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, business_id, customer_id, product_id, quantity, total_cents, created_at
		FROM orders WHERE business_id = $1 ORDER BY created_at DESC`, businessID)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.BusinessID, &o.CustomerID, &o.ProductID, &o.Quantity, &o.TotalCents, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
