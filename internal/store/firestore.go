package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	shipmentsCollection = "shipments"
	pickupCollection    = "pickup_addresses"
)

// NewFirestoreClient connects to Firestore using a service-account
// credentials file, or application-default credentials when the path is empty.
func NewFirestoreClient(ctx context.Context, credentialsPath string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("connecting to firestore: %w", err)
	}
	return client, nil
}

// FirestoreStore implements ShipmentStore and PickupAddressStore on Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore wraps an existing Firestore client.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// Close releases the underlying client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

// Create persists a new shipment and returns its assigned document id.
func (s *FirestoreStore) Create(ctx context.Context, sh *Shipment) (string, error) {
	doc := s.client.Collection(shipmentsCollection).NewDoc()
	now := time.Now()
	sh.ID = doc.ID
	sh.CreatedAt = now
	sh.UpdatedAt = now

	if _, err := doc.Set(ctx, sh); err != nil {
		return "", fmt.Errorf("creating shipment: %w", err)
	}
	return doc.ID, nil
}

// Update merges partial data into an existing shipment document.
func (s *FirestoreStore) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	fields["updatedAt"] = time.Now()
	_, err := s.client.Collection(shipmentsCollection).Doc(id).Set(ctx, fields, firestore.MergeAll)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("updating shipment %s: %w", id, err)
	}
	return nil
}

// GetByID returns a shipment by document id.
func (s *FirestoreStore) GetByID(ctx context.Context, id string) (*Shipment, error) {
	snap, err := s.client.Collection(shipmentsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetching shipment %s: %w", id, err)
	}

	var sh Shipment
	if err := snap.DataTo(&sh); err != nil {
		return nil, fmt.Errorf("decoding shipment %s: %w", id, err)
	}
	sh.ID = snap.Ref.ID
	return &sh, nil
}

// List returns shipments matching the filter, newest first. Free-text search
// is applied client-side; Firestore has no substring queries.
func (s *FirestoreStore) List(ctx context.Context, f Filter) ([]*Shipment, error) {
	q := s.client.Collection(shipmentsCollection).Query
	if f.ClientID != "" {
		q = q.Where("clientId", "==", f.ClientID)
	}
	if f.Courier != "" {
		q = q.Where("courier", "==", f.Courier)
	}
	if f.Status != "" {
		q = q.Where("status", "==", string(f.Status))
	}
	if !f.From.IsZero() {
		q = q.Where("createdAt", ">=", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("createdAt", "<=", f.To)
	}
	q = q.OrderBy("createdAt", firestore.Desc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*Shipment
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing shipments: %w", err)
		}

		var sh Shipment
		if err := snap.DataTo(&sh); err != nil {
			return nil, fmt.Errorf("decoding shipment %s: %w", snap.Ref.ID, err)
		}
		sh.ID = snap.Ref.ID

		if f.Search != "" && !matchesSearch(&sh, f.Search) {
			continue
		}
		out = append(out, &sh)
	}
	return out, nil
}

// UpdateStatus transitions the shipment's lifecycle status.
func (s *FirestoreStore) UpdateStatus(ctx context.Context, id string, st Status) error {
	return s.Update(ctx, id, map[string]interface{}{"status": string(st)})
}

// FindByShopifyOrderID returns the shipment imported for a Shopify order id,
// or nil when the order has not been imported yet.
func (s *FirestoreStore) FindByShopifyOrderID(ctx context.Context, orderID string) (*Shipment, error) {
	iter := s.client.Collection(shipmentsCollection).
		Where("shopifyOrderId", "==", orderID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up shopify order %s: %w", orderID, err)
	}

	var sh Shipment
	if err := snap.DataTo(&sh); err != nil {
		return nil, fmt.Errorf("decoding shipment %s: %w", snap.Ref.ID, err)
	}
	sh.ID = snap.Ref.ID
	return &sh, nil
}

// Get returns the client's default pickup address, or nil when none is saved.
func (s *FirestoreStore) Get(ctx context.Context, clientID string) (*Address, error) {
	snap, err := s.client.Collection(pickupCollection).Doc(clientID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching pickup address for %s: %w", clientID, err)
	}

	var addr Address
	if err := snap.DataTo(&addr); err != nil {
		return nil, fmt.Errorf("decoding pickup address for %s: %w", clientID, err)
	}
	return &addr, nil
}

// Save stores the client's default pickup address.
func (s *FirestoreStore) Save(ctx context.Context, clientID string, addr Address) error {
	_, err := s.client.Collection(pickupCollection).Doc(clientID).Set(ctx, addr)
	if err != nil {
		return fmt.Errorf("saving pickup address for %s: %w", clientID, err)
	}
	return nil
}

func matchesSearch(sh *Shipment, term string) bool {
	term = strings.ToLower(term)
	for _, field := range []string{sh.ReferenceNo, sh.CourierTrackingID, sh.Destination.Name, sh.ShopifyOrderNumber} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

var (
	_ ShipmentStore      = (*FirestoreStore)(nil)
	_ PickupAddressStore = (*FirestoreStore)(nil)
)
