package subscription

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements BusinessStore, SubscriptionStore, and
// ResourceCounter on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps the pool. Panics on nil since this is a
// startup-time constructor.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("subscription: NewPostgresStore requires a pool")
	}
	return &PostgresStore{pool: pool}
}

const businessColumns = `id, user_id, name, email, created_at, updated_at`

func (s *PostgresStore) ByUserID(ctx context.Context, userID uuid.UUID) (*Business, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+businessColumns+` FROM businesses WHERE user_id = $1`, userID)
	return scanBusiness(row)
}

func (s *PostgresStore) ByID(ctx context.Context, id uuid.UUID) (*Business, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+businessColumns+` FROM businesses WHERE id = $1`, id)
	return scanBusiness(row)
}

func scanBusiness(row pgx.Row) (*Business, error) {
	var biz Business
	err := row.Scan(&biz.ID, &biz.UserID, &biz.Name, &biz.Email, &biz.CreatedAt, &biz.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select business: %w", err)
	}
	return &biz, nil
}

const subscriptionColumns = `id, business_id, plan, status,
	provider_customer_id, provider_subscription_id, provider_price_id,
	current_period_end, created_at, updated_at`

func (s *PostgresStore) ByBusinessID(ctx context.Context, businessID uuid.UUID) (*Subscription, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE business_id = $1`, businessID)
	return scanSubscription(row)
}

func (s *PostgresStore) ByProviderSubscriptionID(ctx context.Context, providerSubID string) (*Subscription, error) {
	if providerSubID == "" {
		return nil, ErrSubscriptionNotFound
	}
	row := s.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE provider_subscription_id = $1`, providerSubID)
	return scanSubscription(row)
}

func scanSubscription(row pgx.Row) (*Subscription, error) {
	var sub Subscription
	err := row.Scan(
		&sub.ID, &sub.BusinessID, &sub.Plan, &sub.Status,
		&sub.ProviderCustomerID, &sub.ProviderSubscriptionID, &sub.ProviderPriceID,
		&sub.CurrentPeriodEnd, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select subscription: %w", err)
	}
	return &sub, nil
}

func (s *PostgresStore) Save(ctx context.Context, sub *Subscription) error {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO subscriptions (
			id, business_id, plan, status,
			provider_customer_id, provider_subscription_id, provider_price_id,
			current_period_end, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (business_id) DO UPDATE SET
			plan = EXCLUDED.plan,
			status = EXCLUDED.status,
			provider_customer_id = EXCLUDED.provider_customer_id,
			provider_subscription_id = EXCLUDED.provider_subscription_id,
			provider_price_id = EXCLUDED.provider_price_id,
			current_period_end = EXCLUDED.current_period_end,
			updated_at = EXCLUDED.updated_at`,
		sub.ID, sub.BusinessID, sub.Plan, sub.Status,
		sub.ProviderCustomerID, sub.ProviderSubscriptionID, sub.ProviderPriceID,
		sub.CurrentPeriodEnd, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save subscription: %w", err)
	}
	return nil
}

// resourceTables maps resource types to the tables counted live. Counting
// identifiers against a fixed map keeps the query free of interpolated
// caller input.
var resourceTables = map[Resource]string{
	ResourceRecipes:   "recipes",
	ResourceOrders:    "orders",
	ResourceCustomers: "customers",
	ResourceProducts:  "products",
}

func (s *PostgresStore) CountResource(ctx context.Context, businessID uuid.UUID, res Resource) (int64, error) {
	table, ok := resourceTables[res]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidResource, res)
	}

	var count int64
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM `+table+` WHERE business_id = $1`, businessID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return count, nil
}
