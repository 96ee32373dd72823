// Package store holds the canonical shipment record and its persistence
// interfaces.
package store

import (
	"time"
)

// Status represents the lifecycle state of a shipment.
type Status string

const (
	// StatusShopifyPending marks an imported-but-unbooked Shopify order.
	StatusShopifyPending Status = "shopify_pending"
	StatusPending        Status = "pending"
	StatusTransit        Status = "transit"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
	StatusDeclined       Status = "declined"
)

// Terminal reports whether a status admits no further transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusDeclined:
		return true
	}
	return false
}

// ClientType distinguishes franchise merchants from Shopify-connected ones.
type ClientType string

const (
	ClientFranchise ClientType = "franchise"
	ClientShopify   ClientType = "shopify"
)

// Address is a stored party address. Pincode is a 6-digit string.
type Address struct {
	Name    string `firestore:"name" json:"name"`
	Phone   string `firestore:"phone" json:"phone"`
	Pincode string `firestore:"pincode" json:"pincode"`
	Line    string `firestore:"address" json:"address"`
	City    string `firestore:"city" json:"city"`
	State   string `firestore:"state" json:"state"`
	Country string `firestore:"country" json:"country"`
}

// Dimensions are package dimensions in centimetres.
type Dimensions struct {
	Length float64 `firestore:"length" json:"length"`
	Width  float64 `firestore:"width" json:"width"`
	Height float64 `firestore:"height" json:"height"`
}

// Product is one line item in the shipment.
type Product struct {
	SKU      string  `firestore:"sku" json:"sku"`
	Name     string  `firestore:"name" json:"name"`
	Quantity int     `firestore:"quantity" json:"quantity"`
	Price    float64 `firestore:"price" json:"price"`
}

// Shipment is the central entity of the booking engine.
type Shipment struct {
	ID string `firestore:"-" json:"id"`

	ClientID   string     `firestore:"clientId" json:"clientId"`
	ClientName string     `firestore:"clientName" json:"clientName"`
	ClientType ClientType `firestore:"clientType" json:"clientType"`

	Origin      Address `firestore:"origin" json:"origin"`
	Destination Address `firestore:"destination" json:"destination"`

	Dimensions   Dimensions `firestore:"dimensions" json:"dimensions"`
	ActualWeight float64    `firestore:"actualWeight" json:"actualWeight"`
	// Weight is the billable weight: max(volumetric, actual), always.
	Weight float64 `firestore:"weight" json:"weight"`

	Products      []Product `firestore:"products" json:"products"`
	DeclaredValue float64   `firestore:"declaredValue" json:"declaredValue"`
	ReferenceNo   string    `firestore:"referenceNo" json:"referenceNo"`

	// Shopify linkage, set only for imported orders.
	ShopifyOrderID           string   `firestore:"shopifyOrderId,omitempty" json:"shopifyOrderId,omitempty"`
	ShopifyOrderNumber       string   `firestore:"shopifyOrderNumber,omitempty" json:"shopifyOrderNumber,omitempty"`
	ShopifyLineItems         []string `firestore:"shopifyLineItems,omitempty" json:"shopifyLineItems,omitempty"`
	ShopifyFulfillmentStatus string   `firestore:"shopifyFulfillmentStatus,omitempty" json:"shopifyFulfillmentStatus,omitempty"`

	// Courier state. CourierTrackingID is empty until booking succeeds.
	Courier           string  `firestore:"courier" json:"courier"`
	CourierTrackingID string  `firestore:"courierTrackingId" json:"courierTrackingId"`
	ServiceType       string  `firestore:"serviceType,omitempty" json:"serviceType,omitempty"`
	ServiceCode       string  `firestore:"serviceCode,omitempty" json:"serviceCode,omitempty"`
	PackType          string  `firestore:"packType,omitempty" json:"packType,omitempty"`
	COD               bool    `firestore:"cod" json:"cod"`
	CODAmount         float64 `firestore:"codAmount,omitempty" json:"codAmount,omitempty"`

	// CourierChargedWeight is the weight the courier reported it will bill
	// for (DTDC). Stored alongside the local billable weight, never
	// reconciled with it.
	CourierChargedWeight float64 `firestore:"courierChargedWeight,omitempty" json:"courierChargedWeight,omitempty"`

	Status Status `firestore:"status" json:"status"`

	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// Booked reports whether the shipment carries a courier tracking id.
func (s *Shipment) Booked() bool {
	return s.CourierTrackingID != ""
}
