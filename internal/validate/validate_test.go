package validate_test

import (
	"testing"

	"github.com/parceldesk/courier/internal/store"
	"github.com/parceldesk/courier/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanPhone(t *testing.T) {
	assert.Equal(t, "919876543210", validate.CleanPhone("+91-98765 43210"))
	assert.Equal(t, "9876543210", validate.CleanPhone("(987) 654-3210"))
	assert.Equal(t, "", validate.CleanPhone("call me"))
}

func TestValidPhone(t *testing.T) {
	assert.True(t, validate.ValidPhone("9876543210"))
	assert.True(t, validate.ValidPhone("+91-98765 43210"))
	assert.False(t, validate.ValidPhone("12345"))
	assert.False(t, validate.ValidPhone("1234567890123456"))
	assert.False(t, validate.ValidPhone(""))
}

func TestValidPincode(t *testing.T) {
	assert.True(t, validate.ValidPincode("400001"))
	assert.True(t, validate.ValidPincode("400 001"))
	assert.False(t, validate.ValidPincode("40001"))
	assert.False(t, validate.ValidPincode("4000011"))
	assert.False(t, validate.ValidPincode("abcdef"))
	assert.False(t, validate.ValidPincode(""))
}

func validShipment() *store.Shipment {
	return &store.Shipment{
		ID: "sh-1",
		Destination: store.Address{
			Name:    "Asha Nair",
			Phone:   "9876543210",
			Pincode: "400001",
			Line:    "14 Marine Drive",
			City:    "Mumbai",
		},
		Weight:      1.5,
		ReferenceNo: "PD-A1B2C3D4",
	}
}

func pickupAddress() *store.Address {
	return &store.Address{
		Name:    "Warehouse",
		Phone:   "9812345678",
		Pincode: "110001",
		Line:    "Plot 7 Okhla",
		City:    "New Delhi",
	}
}

func TestForBooking_Valid(t *testing.T) {
	r := validate.ForBooking(validShipment(), pickupAddress())

	assert.True(t, r.IsValid())
	assert.Equal(t, "sh-1", r.ShipmentID)
	assert.Equal(t, "PD-A1B2C3D4", r.OrderNumber)
}

func TestForBooking_AccumulatesAllFailures(t *testing.T) {
	sh := &store.Shipment{
		ID: "sh-2",
		Destination: store.Address{
			Phone:   "12345",
			Pincode: "40001",
		},
	}

	r := validate.ForBooking(sh, nil)

	require.False(t, r.IsValid())
	assert.Len(t, r.Errors, 7)
	assert.Contains(t, r.Errors, "receiver name is missing")
	assert.Contains(t, r.Errors, "receiver phone must have at least 10 digits")
	assert.Contains(t, r.Errors, "receiver pincode must be exactly 6 digits")
	assert.Contains(t, r.Errors, "receiver address is missing")
	assert.Contains(t, r.Errors, "receiver city is missing")
	assert.Contains(t, r.Errors, "package weight must be greater than zero")
	assert.Contains(t, r.Errors, "no default pickup address is saved for this client")
}

func TestForBooking_MissingPickupOnly(t *testing.T) {
	r := validate.ForBooking(validShipment(), nil)

	require.False(t, r.IsValid())
	assert.Equal(t, []string{"no default pickup address is saved for this client"}, r.Errors)
}

func TestForBooking_ActualWeightSatisfiesWeightCheck(t *testing.T) {
	sh := validShipment()
	sh.Weight = 0
	sh.ActualWeight = 0.8

	r := validate.ForBooking(sh, pickupAddress())

	assert.True(t, r.IsValid())
}

func TestForBooking_PrefersShopifyOrderNumber(t *testing.T) {
	sh := validShipment()
	sh.ShopifyOrderNumber = "#1042"

	r := validate.ForBooking(sh, pickupAddress())

	assert.Equal(t, "#1042", r.OrderNumber)
}
