package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Filter narrows a shipment listing.
type Filter struct {
	ClientID string
	Courier  string
	Status   Status
	From     time.Time
	To       time.Time
	// Search matches reference number, tracking id, or destination name.
	Search string
}

// ShipmentStore is the persistence boundary for shipment records.
type ShipmentStore interface {
	// Create persists a new shipment and returns its assigned id.
	Create(ctx context.Context, sh *Shipment) (string, error)

	// Update merges partial data into an existing shipment.
	Update(ctx context.Context, id string, fields map[string]interface{}) error

	// GetByID returns a shipment, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*Shipment, error)

	// List returns shipments matching the filter, newest first.
	List(ctx context.Context, f Filter) ([]*Shipment, error)

	// UpdateStatus transitions the shipment's lifecycle status.
	UpdateStatus(ctx context.Context, id string, status Status) error

	// FindByShopifyOrderID returns the shipment imported for a Shopify
	// order, or nil when the order has not been imported yet.
	FindByShopifyOrderID(ctx context.Context, orderID string) (*Shipment, error)
}

// PickupAddressStore holds each client's default pickup address.
type PickupAddressStore interface {
	// Get returns the client's default pickup address, or nil when none is
	// saved. A missing pickup address is a validation concern, not an error.
	Get(ctx context.Context, clientID string) (*Address, error)

	// Save stores the client's default pickup address.
	Save(ctx context.Context, clientID string, addr Address) error
}
