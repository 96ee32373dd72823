package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory ShipmentStore and PickupAddressStore used in
// tests and mock mode.
type MemoryStore struct {
	mu        sync.RWMutex
	shipments map[string]*Shipment
	pickups   map[string]*Address
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		shipments: make(map[string]*Shipment),
		pickups:   make(map[string]*Address),
	}
}

// Create persists a new shipment and returns its assigned id.
func (s *MemoryStore) Create(ctx context.Context, sh *Shipment) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := sh.ID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now()

	cp := *sh
	cp.ID = id
	cp.CreatedAt = now
	cp.UpdatedAt = now
	s.shipments[id] = &cp

	sh.ID = id
	sh.CreatedAt = now
	sh.UpdatedAt = now
	return id, nil
}

// Update merges partial data into an existing shipment.
func (s *MemoryStore) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, ok := s.shipments[id]
	if !ok {
		return ErrNotFound
	}

	for k, v := range fields {
		switch k {
		case "status":
			if st, ok := v.(string); ok {
				sh.Status = Status(st)
			} else if st, ok := v.(Status); ok {
				sh.Status = st
			}
		case "courier":
			sh.Courier, _ = v.(string)
		case "courierTrackingId":
			sh.CourierTrackingID, _ = v.(string)
		case "courierChargedWeight":
			sh.CourierChargedWeight, _ = v.(float64)
		case "serviceType":
			sh.ServiceType, _ = v.(string)
		case "weight":
			sh.Weight, _ = v.(float64)
		case "shopifyFulfillmentStatus":
			sh.ShopifyFulfillmentStatus, _ = v.(string)
		}
	}
	sh.UpdatedAt = time.Now()
	return nil
}

// GetByID returns a shipment, or ErrNotFound.
func (s *MemoryStore) GetByID(ctx context.Context, id string) (*Shipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sh, ok := s.shipments[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *sh
	return &cp, nil
}

// List returns shipments matching the filter, newest first.
func (s *MemoryStore) List(ctx context.Context, f Filter) ([]*Shipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Shipment
	for _, sh := range s.shipments {
		if f.ClientID != "" && sh.ClientID != f.ClientID {
			continue
		}
		if f.Courier != "" && sh.Courier != f.Courier {
			continue
		}
		if f.Status != "" && sh.Status != f.Status {
			continue
		}
		if !f.From.IsZero() && sh.CreatedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && sh.CreatedAt.After(f.To) {
			continue
		}
		if f.Search != "" && !matchesSearch(sh, f.Search) {
			continue
		}
		cp := *sh
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// UpdateStatus transitions the shipment's lifecycle status.
func (s *MemoryStore) UpdateStatus(ctx context.Context, id string, st Status) error {
	return s.Update(ctx, id, map[string]interface{}{"status": string(st)})
}

// Get returns the client's default pickup address, or nil when none is saved.
func (s *MemoryStore) Get(ctx context.Context, clientID string) (*Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	addr, ok := s.pickups[clientID]
	if !ok {
		return nil, nil
	}
	cp := *addr
	return &cp, nil
}

// Save stores the client's default pickup address.
func (s *MemoryStore) Save(ctx context.Context, clientID string, addr Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pickups[clientID] = &addr
	return nil
}

// FindByShopifyOrderID returns the shipment imported for a Shopify order id,
// or nil. Used by the importer to keep ingestion idempotent.
func (s *MemoryStore) FindByShopifyOrderID(ctx context.Context, orderID string) (*Shipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sh := range s.shipments {
		if sh.ShopifyOrderID == orderID {
			cp := *sh
			return &cp, nil
		}
	}
	return nil, nil
}

var (
	_ ShipmentStore      = (*MemoryStore)(nil)
	_ PickupAddressStore = (*MemoryStore)(nil)
)
