// Package booking orchestrates shipment booking across courier adapters and
// reconciles results into the shipment store.
package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/parceldesk/courier/internal/billing"
	"github.com/parceldesk/courier/internal/fulfillment"
	"github.com/parceldesk/courier/internal/store"
	"github.com/parceldesk/courier/internal/telemetry"
	"github.com/parceldesk/courier/internal/validate"
	"github.com/parceldesk/courier/pkg/courier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Engine is the booking orchestrator. It validates orders, dispatches them to
// courier adapters, and reconciles results into the shipment store.
type Engine struct {
	shipments store.ShipmentStore
	pickups   store.PickupAddressStore
	couriers  *courier.Registry
	notifier  fulfillment.Notifier
	logger    *otelzap.Logger
	metrics   *telemetry.Metrics
}

// New creates a booking engine.
func New(
	shipments store.ShipmentStore,
	pickups store.PickupAddressStore,
	couriers *courier.Registry,
	notifier fulfillment.Notifier,
	logger *otelzap.Logger,
	metrics *telemetry.Metrics,
) *Engine {
	return &Engine{
		shipments: shipments,
		pickups:   pickups,
		couriers:  couriers,
		notifier:  notifier,
		logger:    logger,
		metrics:   metrics,
	}
}

// BookingForm is the single-booking input assembled by the interactive flow.
type BookingForm struct {
	ClientID   string           `json:"clientId"`
	ClientName string           `json:"clientName"`
	ClientType store.ClientType `json:"clientType"`

	Pickup   validate.PartyForm     `json:"pickup"`
	Delivery validate.PartyForm     `json:"delivery"`
	Package  validate.PackageStep   `json:"package"`
	Products []validate.ProductForm `json:"products"`

	Courier   string              `json:"courier"`
	Service   courier.ServiceType `json:"service"`
	PackType  courier.PackType    `json:"packType"`
	COD       bool                `json:"cod"`
	CODAmount float64             `json:"codAmount"`

	// DeclaredValue is optional; when zero it is derived from the products.
	DeclaredValue float64 `json:"declaredValue"`
	ReferenceNo   string  `json:"referenceNo"`
	Commodity     string  `json:"commodity"`

	// ShopifyShipmentID is set when booking an imported shopify_pending
	// record; the existing record is then updated in place.
	ShopifyShipmentID string `json:"shopifyShipmentId"`
}

// BookingOutcome is the result of a successful single booking.
type BookingOutcome struct {
	ShipmentID  string `json:"shipmentId"`
	TrackingID  string `json:"trackingId"`
	ReferenceNo string `json:"referenceNo"`
	// Warning carries a non-blocking follow-up failure, e.g. a fulfillment
	// sync rejection after an otherwise successful booking.
	Warning string `json:"warning,omitempty"`
}

// BookShipment runs the full single-booking flow: wizard gates, shared
// validation, adapter dispatch, store reconciliation, fulfillment sync.
// No shipment record is written or updated unless the adapter reports
// success.
func (e *Engine) BookShipment(ctx context.Context, form BookingForm) (*BookingOutcome, error) {
	if errs := e.checkWizardSteps(form); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	sh := e.buildShipment(form)
	pickup := formAddress(form.Pickup)

	if result := validate.ForBooking(sh, &pickup); !result.IsValid() {
		return nil, NewValidationError(result.Errors)
	}

	adapter, err := e.couriers.Get(form.Courier)
	if err != nil {
		return nil, err
	}

	req := buildRequest(sh, pickup, form)

	start := time.Now()
	result, err := adapter.BookShipment(ctx, req)
	e.metrics.RecordBooking(form.Courier, outcomeLabel(err), time.Since(start).Seconds())
	if err != nil {
		e.logger.Error("Booking failed",
			zap.String("courier", form.Courier),
			zap.String("reference", req.ReferenceNo),
			zap.Error(err),
		)
		return nil, err
	}

	shipmentID, err := e.reconcileSuccess(ctx, sh, form.ShopifyShipmentID, result)
	if err != nil {
		return nil, err
	}

	outcome := &BookingOutcome{
		ShipmentID:  shipmentID,
		TrackingID:  result.TrackingID,
		ReferenceNo: sh.ReferenceNo,
	}

	// Fulfillment sync is best-effort: a failure is surfaced as a warning
	// and never rolls back the booking.
	if form.ShopifyShipmentID != "" {
		if err := e.notifier.NotifyFulfillment(ctx, shipmentID); err != nil {
			e.metrics.RecordSyncFailure()
			outcome.Warning = fmt.Sprintf("booked, but fulfillment sync failed: %v", err)
		}
	}

	e.logger.Info("Shipment booked",
		zap.String("shipment_id", shipmentID),
		zap.String("courier", result.Courier),
		zap.String("awb", result.TrackingID),
	)
	return outcome, nil
}

// checkWizardSteps enforces the per-step gates of the interactive flow:
// Addresses -> Package -> Products -> CourierSelection. Failures accumulate
// across steps so the caller sees everything at once.
func (e *Engine) checkWizardSteps(form BookingForm) []string {
	var errs []string
	errs = append(errs, validate.CheckStep(validate.AddressStep{
		Pickup:   form.Pickup,
		Delivery: form.Delivery,
	})...)
	errs = append(errs, validate.CheckPackage(form.Package)...)
	errs = append(errs, validate.CheckStep(validate.ProductsStep{Products: form.Products})...)
	if form.Courier == "" {
		errs = append(errs, "courier selection is required")
	}
	if form.COD && form.CODAmount <= 0 {
		errs = append(errs, "cod amount must be greater than zero")
	}
	return errs
}

func (e *Engine) buildShipment(form BookingForm) *store.Shipment {
	weights := billing.ComputeWeights(billing.Dimensions{
		Length: form.Package.Length,
		Width:  form.Package.Width,
		Height: form.Package.Height,
	}, form.Package.ActualWeight)

	products := make([]store.Product, len(form.Products))
	declared := form.DeclaredValue
	for i, p := range form.Products {
		products[i] = store.Product{
			SKU:      p.SKU,
			Name:     p.Name,
			Quantity: p.Quantity,
			Price:    p.Price,
		}
	}
	if declared == 0 {
		for _, p := range form.Products {
			declared += p.Price * float64(p.Quantity)
		}
	}

	ref := form.ReferenceNo
	if ref == "" {
		ref = "PD-" + strings.ToUpper(uuid.New().String()[:8])
	}

	clientType := form.ClientType
	if clientType == "" {
		clientType = store.ClientFranchise
	}

	return &store.Shipment{
		ID:         form.ShopifyShipmentID,
		ClientID:   form.ClientID,
		ClientName: form.ClientName,
		ClientType: clientType,
		Origin:     formAddress(form.Pickup),
		Destination: store.Address{
			Name:    form.Delivery.Name,
			Phone:   validate.CleanPhone(form.Delivery.Phone),
			Pincode: validate.CleanPincode(form.Delivery.Pincode),
			Line:    form.Delivery.Address,
			City:    form.Delivery.City,
			State:   form.Delivery.State,
			Country: "India",
		},
		Dimensions: store.Dimensions{
			Length: form.Package.Length,
			Width:  form.Package.Width,
			Height: form.Package.Height,
		},
		ActualWeight:  weights.Actual,
		Weight:        weights.Billable,
		Products:      products,
		DeclaredValue: declared,
		ReferenceNo:   ref,
		Courier:       form.Courier,
		ServiceType:   string(form.Service),
		PackType:      string(form.PackType),
		COD:           form.COD,
		CODAmount:     form.CODAmount,
		Status:        store.StatusPending,
	}
}

// reconcileSuccess writes the booking result to the store. A Shopify-sourced
// booking updates the existing shopify_pending record in place; a direct
// booking creates a new record. Nothing is persisted before this point.
func (e *Engine) reconcileSuccess(ctx context.Context, sh *store.Shipment, shopifyShipmentID string, result *courier.BookingResult) (string, error) {
	sh.CourierTrackingID = result.TrackingID
	sh.CourierChargedWeight = result.ChargedWeight
	sh.Status = store.StatusPending

	if shopifyShipmentID != "" {
		fields := map[string]interface{}{
			"courier":           result.Courier,
			"courierTrackingId": result.TrackingID,
			"status":            string(store.StatusPending),
			"weight":            sh.Weight,
			"serviceType":       sh.ServiceType,
		}
		if result.ChargedWeight > 0 {
			fields["courierChargedWeight"] = result.ChargedWeight
		}
		if err := e.shipments.Update(ctx, shopifyShipmentID, fields); err != nil {
			return "", fmt.Errorf("reconciling booked shipment %s: %w", shopifyShipmentID, err)
		}
		return shopifyShipmentID, nil
	}

	id, err := e.shipments.Create(ctx, sh)
	if err != nil {
		return "", fmt.Errorf("persisting booked shipment: %w", err)
	}
	return id, nil
}

// buildRequest maps a shipment onto the canonical courier-agnostic booking
// request. Phones and pincodes are normalized here; adapters never see raw
// form input.
func buildRequest(sh *store.Shipment, pickup store.Address, form BookingForm) *courier.BookingRequest {
	commodity := form.Commodity
	if commodity == "" && len(sh.Products) > 0 {
		commodity = sh.Products[0].Name
	}

	return &courier.BookingRequest{
		Consignee: courier.Address{
			Name:    sh.Destination.Name,
			Phone:   validate.CleanPhone(sh.Destination.Phone),
			Pincode: validate.CleanPincode(sh.Destination.Pincode),
			Line:    sh.Destination.Line,
			City:    sh.Destination.City,
			State:   sh.Destination.State,
			Country: "India",
		},
		Shipper: courier.Address{
			Name:    pickup.Name,
			Phone:   validate.CleanPhone(pickup.Phone),
			Pincode: validate.CleanPincode(pickup.Pincode),
			Line:    pickup.Line,
			City:    pickup.City,
			State:   pickup.State,
			Country: "India",
		},
		Service:        form.Service,
		PackType:       form.PackType,
		BillableWeight: sh.Weight,
		ActualWeight:   sh.ActualWeight,
		Dimensions: courier.Dimensions{
			Length: sh.Dimensions.Length,
			Width:  sh.Dimensions.Width,
			Height: sh.Dimensions.Height,
		},
		DeclaredValue: sh.DeclaredValue,
		COD:           sh.COD,
		CODAmount:     sh.CODAmount,
		ReferenceNo:   sh.ReferenceNo,
		Commodity:     commodity,
		Pieces:        1,
		B2C:           sh.ClientType == store.ClientShopify,
	}
}

func formAddress(p validate.PartyForm) store.Address {
	return store.Address{
		Name:    p.Name,
		Phone:   validate.CleanPhone(p.Phone),
		Pincode: validate.CleanPincode(p.Pincode),
		Line:    p.Address,
		City:    p.City,
		State:   p.State,
		Country: "India",
	}
}

func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}
	if courier.IsValidation(err) {
		return "rejected"
	}
	return "error"
}
