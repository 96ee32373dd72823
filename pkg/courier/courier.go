// Package courier provides an abstraction layer over third-party courier APIs.
package courier

import (
	"context"
)

// Courier defines the interface that all courier integrations must implement.
type Courier interface {
	// Name returns the courier identifier (e.g., "Blue Dart", "DTDC").
	Name() string

	// BookShipment books a shipment with the courier and returns the
	// assigned AWB / tracking reference.
	BookShipment(ctx context.Context, req *BookingRequest) (*BookingResult, error)

	// CancelShipment cancels a previously booked shipment by tracking id.
	CancelShipment(ctx context.Context, req *CancelRequest) error
}
