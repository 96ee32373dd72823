package booking_test

import (
	"context"
	"errors"
	"testing"

	"github.com/parceldesk/courier/internal/booking"
	"github.com/parceldesk/courier/internal/store"
	"github.com/parceldesk/courier/pkg/courier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importedShipment(orderNumber string) *store.Shipment {
	return &store.Shipment{
		ClientID:   "client-1",
		ClientType: store.ClientShopify,
		Destination: store.Address{
			Name:    "Asha Nair",
			Phone:   "9876543210",
			Pincode: "400001",
			Line:    "14 Marine Drive",
			City:    "Mumbai",
		},
		Weight:             1.2,
		ReferenceNo:        orderNumber,
		ShopifyOrderNumber: orderNumber,
		Status:             store.StatusShopifyPending,
	}
}

func savePickup(t *testing.T, f *fixture) {
	t.Helper()
	err := f.store.Save(context.Background(), "client-1", store.Address{
		Name:    "Warehouse",
		Phone:   "9812345678",
		Pincode: "110001",
		Line:    "Plot 7 Okhla",
		City:    "New Delhi",
	})
	require.NoError(t, err)
}

func TestValidateForBulkShip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	savePickup(t, f)

	goodID, err := f.store.Create(ctx, importedShipment("#1001"))
	require.NoError(t, err)

	bad := importedShipment("#1002")
	bad.Destination.Pincode = "40001"
	badID, err := f.store.Create(ctx, bad)
	require.NoError(t, err)

	results, err := f.engine.ValidateForBulkShip(ctx, []string{goodID, badID, "missing-id"})

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.True(t, results[0].IsValid())
	assert.False(t, results[1].IsValid())
	assert.Contains(t, results[1].Errors, "receiver pincode must be exactly 6 digits")
	assert.Equal(t, []string{"order not found"}, results[2].Errors)
}

func TestValidateForBulkShip_MissingPickupFailsEveryItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id1, err := f.store.Create(ctx, importedShipment("#1001"))
	require.NoError(t, err)
	id2, err := f.store.Create(ctx, importedShipment("#1002"))
	require.NoError(t, err)

	results, err := f.engine.ValidateForBulkShip(ctx, []string{id1, id2})

	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Contains(t, r.Errors, "no default pickup address is saved for this client")
	}
}

func TestBulkShip_MixedBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	savePickup(t, f)

	goodID, err := f.store.Create(ctx, importedShipment("#1001"))
	require.NoError(t, err)

	invalid := importedShipment("#1002")
	invalid.Destination.Phone = "12345"
	invalidID, err := f.store.Create(ctx, invalid)
	require.NoError(t, err)

	good2ID, err := f.store.Create(ctx, importedShipment("#1003"))
	require.NoError(t, err)

	var progressCalls int
	progress := func(completed, total int, result booking.BulkShipResult) {
		progressCalls++
		assert.Equal(t, progressCalls, completed)
		assert.Equal(t, 3, total)
	}

	results, err := f.engine.BulkShip(ctx, booking.BulkRequest{
		IDs:     []string{goodID, invalidID, good2ID},
		Courier: "Blue Dart",
		Service: courier.ServiceSurface,
	}, progress)

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 3, progressCalls)

	assert.True(t, results[0].Success)
	assert.Equal(t, "AWB-0001", results[0].AWB)
	assert.Equal(t, "#1001", results[0].OrderNumber)

	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].Error, "at least 10 digits")

	assert.True(t, results[2].Success)

	// The invalid item must never reach the adapter.
	assert.Equal(t, 2, f.adapter.bookCalls)

	booked, _ := f.store.GetByID(ctx, goodID)
	assert.Equal(t, store.StatusPending, booked.Status)
	assert.Equal(t, "AWB-0001", booked.CourierTrackingID)
	assert.Equal(t, string(courier.ServiceSurface), booked.ServiceType)

	skipped, _ := f.store.GetByID(ctx, invalidID)
	assert.Equal(t, store.StatusShopifyPending, skipped.Status, "invalid items stay shopify_pending")
}

func TestBulkShip_AdapterFailureIsolated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	savePickup(t, f)

	id1, err := f.store.Create(ctx, importedShipment("#1001"))
	require.NoError(t, err)
	id2, err := f.store.Create(ctx, importedShipment("#1002"))
	require.NoError(t, err)

	f.adapter.bookErr = courier.NewCourierError("Blue Dart", courier.CodeBooking, "Pincode not serviceable")

	results, err := f.engine.BulkShip(ctx, booking.BulkRequest{
		IDs:     []string{id1, id2},
		Courier: "Blue Dart",
	}, nil)

	require.NoError(t, err, "one item's failure must not abort the batch")
	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "Pincode not serviceable")
	assert.False(t, results[1].Success, "both calls fail under the scripted error")

	failed, _ := f.store.GetByID(ctx, id1)
	assert.Equal(t, store.StatusShopifyPending, failed.Status, "failed items keep their status")
	assert.Empty(t, failed.CourierTrackingID)
}

func TestBulkShip_UnknownCourier(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.BulkShip(context.Background(), booking.BulkRequest{
		IDs:     []string{"any"},
		Courier: "Delhivery",
	}, nil)

	assert.ErrorIs(t, err, courier.ErrCourierNotFound)
}

func TestBulkShip_NotifierFailureDoesNotFailItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	savePickup(t, f)
	f.notifier.err = errors.New("portal unavailable")

	id, err := f.store.Create(ctx, importedShipment("#1001"))
	require.NoError(t, err)

	results, err := f.engine.BulkShip(ctx, booking.BulkRequest{
		IDs:     []string{id},
		Courier: "Blue Dart",
	}, nil)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success, "fulfillment failure is a warning, not an item failure")

	sh, _ := f.store.GetByID(ctx, id)
	assert.Equal(t, "AWB-0001", sh.CourierTrackingID)
}

func TestBulkShip_ChargedWeightRecorded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	savePickup(t, f)
	f.adapter.result = &courier.BookingResult{
		Courier:       "Blue Dart",
		TrackingID:    "AWB-0009",
		ChargedWeight: 3.2,
	}

	id, err := f.store.Create(ctx, importedShipment("#1001"))
	require.NoError(t, err)

	results, err := f.engine.BulkShip(ctx, booking.BulkRequest{
		IDs:     []string{id},
		Courier: "Blue Dart",
	}, nil)

	require.NoError(t, err)
	assert.True(t, results[0].Success)

	sh, _ := f.store.GetByID(ctx, id)
	assert.Equal(t, 3.2, sh.CourierChargedWeight)
	assert.Equal(t, 1.2, sh.Weight, "local billable weight is never reconciled")
}
