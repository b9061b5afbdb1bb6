package subscription

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of BusinessStore,
// SubscriptionStore, and ResourceCounter. It backs tests and local
// development without postgres.
type MemoryStore struct {
	mu         sync.RWMutex
	businesses map[uuid.UUID]Business
	subs       map[uuid.UUID]Subscription
	counts     map[uuid.UUID]map[Resource]int64
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		businesses: make(map[uuid.UUID]Business),
		subs:       make(map[uuid.UUID]Subscription),
		counts:     make(map[uuid.UUID]map[Resource]int64),
	}
}

// PutBusiness inserts or replaces a business record.
func (m *MemoryStore) PutBusiness(biz Business) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.businesses[biz.ID] = biz
}

func (m *MemoryStore) ByUserID(_ context.Context, userID uuid.UUID) (*Business, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, biz := range m.businesses {
		if biz.UserID == userID {
			copied := biz
			return &copied, nil
		}
	}
	return nil, ErrBusinessNotFound
}

func (m *MemoryStore) ByID(_ context.Context, id uuid.UUID) (*Business, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	biz, ok := m.businesses[id]
	if !ok {
		return nil, ErrBusinessNotFound
	}
	copied := biz
	return &copied, nil
}

func (m *MemoryStore) ByBusinessID(_ context.Context, businessID uuid.UUID) (*Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sub := range m.subs {
		if sub.BusinessID == businessID {
			copied := sub
			return &copied, nil
		}
	}
	return nil, ErrSubscriptionNotFound
}

func (m *MemoryStore) ByProviderSubscriptionID(_ context.Context, providerSubID string) (*Subscription, error) {
	if providerSubID == "" {
		return nil, ErrSubscriptionNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sub := range m.subs {
		if sub.ProviderSubscriptionID == providerSubID {
			copied := sub
			return &copied, nil
		}
	}
	return nil, ErrSubscriptionNotFound
}

func (m *MemoryStore) Save(_ context.Context, sub *Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	m.subs[sub.ID] = *sub
	return nil
}

// SetCount fixes the live count for a resource, standing in for real rows.
func (m *MemoryStore) SetCount(businessID uuid.UUID, res Resource, count int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts[businessID] == nil {
		m.counts[businessID] = make(map[Resource]int64)
	}
	m.counts[businessID][res] = count
}

func (m *MemoryStore) CountResource(_ context.Context, businessID uuid.UUID, res Resource) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counts[businessID][res], nil
}
