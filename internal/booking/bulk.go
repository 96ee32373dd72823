package booking

import (
	"context"
	"strings"
	"time"

	"github.com/parceldesk/courier/internal/store"
	"github.com/parceldesk/courier/internal/validate"
	"github.com/parceldesk/courier/pkg/courier"
	"go.uber.org/zap"
)

// BulkShipResult is the per-item outcome of a bulk booking run. It is
// surfaced to the caller and not persisted beyond the session.
type BulkShipResult struct {
	ID          string `json:"id"`
	OrderNumber string `json:"orderNumber"`
	Success     bool   `json:"success"`
	AWB         string `json:"awb,omitempty"`
	Error       string `json:"error,omitempty"`
}

// BulkRequest selects a batch of imported orders for booking with one
// courier and service.
type BulkRequest struct {
	IDs     []string            `json:"ids"`
	Courier string              `json:"courier"`
	Service courier.ServiceType `json:"service"`
}

// ProgressFunc receives incremental progress after each item completes.
type ProgressFunc func(completed, total int, result BulkShipResult)

// ValidateForBulkShip validates every selected order against the client's
// single resolved pickup address. The pickup address is fetched once and
// reused for all items; when it is absent every item fails validation
// uniformly.
func (e *Engine) ValidateForBulkShip(ctx context.Context, ids []string) ([]validate.ValidationResult, error) {
	results := make([]validate.ValidationResult, 0, len(ids))

	var pickup *store.Address
	pickupResolved := false

	for _, id := range ids {
		sh, err := e.shipments.GetByID(ctx, id)
		if err != nil {
			results = append(results, validate.ValidationResult{
				ShipmentID: id,
				Errors:     []string{"order not found"},
			})
			continue
		}

		if !pickupResolved {
			pickup, err = e.pickups.Get(ctx, sh.ClientID)
			if err != nil {
				return nil, err
			}
			pickupResolved = true
		}

		results = append(results, validate.ForBooking(sh, pickup))
	}
	return results, nil
}

// BulkShip books the selected orders strictly sequentially: order i+1 is not
// dispatched until order i's adapter call has resolved and its result is
// recorded. Sequential execution respects courier rate limits and keeps
// partial-failure attribution unambiguous. One item's failure never aborts
// the rest of the batch.
func (e *Engine) BulkShip(ctx context.Context, req BulkRequest, progress ProgressFunc) ([]BulkShipResult, error) {
	adapter, err := e.couriers.Get(req.Courier)
	if err != nil {
		return nil, err
	}

	total := len(req.IDs)
	results := make([]BulkShipResult, 0, total)

	var pickup *store.Address
	pickupResolved := false

	for i, id := range req.IDs {
		result := e.bulkShipOne(ctx, adapter, req, id, &pickup, &pickupResolved)
		results = append(results, result)
		if progress != nil {
			progress(i+1, total, result)
		}
	}

	return results, nil
}

// bulkShipOne processes a single batch item in isolation. Validation failures
// never reach the adapter; adapter failures leave the record in
// shopify_pending with the error captured for operator follow-up.
func (e *Engine) bulkShipOne(ctx context.Context, adapter courier.Courier, req BulkRequest, id string, pickup **store.Address, pickupResolved *bool) BulkShipResult {
	sh, err := e.shipments.GetByID(ctx, id)
	if err != nil {
		return BulkShipResult{ID: id, Success: false, Error: "order not found"}
	}

	result := BulkShipResult{ID: id, OrderNumber: sh.ShopifyOrderNumber}
	if result.OrderNumber == "" {
		result.OrderNumber = sh.ReferenceNo
	}

	if !*pickupResolved {
		p, err := e.pickups.Get(ctx, sh.ClientID)
		if err != nil {
			result.Error = "failed to resolve pickup address"
			return result
		}
		*pickup = p
		*pickupResolved = true
	}

	if vr := validate.ForBooking(sh, *pickup); !vr.IsValid() {
		result.Error = strings.Join(vr.Errors, "; ")
		return result
	}

	bookReq := bulkRequestFor(sh, **pickup, req)

	start := time.Now()
	booked, err := adapter.BookShipment(ctx, bookReq)
	e.metrics.RecordBooking(req.Courier, outcomeLabel(err), time.Since(start).Seconds())
	if err != nil {
		e.logger.Warn("Bulk item failed",
			zap.String("shipment_id", id),
			zap.String("courier", req.Courier),
			zap.Error(err),
		)
		result.Error = err.Error()
		return result
	}

	fields := map[string]interface{}{
		"courier":           booked.Courier,
		"courierTrackingId": booked.TrackingID,
		"status":            string(store.StatusPending),
		"serviceType":       string(req.Service),
	}
	if booked.ChargedWeight > 0 {
		fields["courierChargedWeight"] = booked.ChargedWeight
	}
	if err := e.shipments.Update(ctx, id, fields); err != nil {
		// Booked with the courier but not reconciled locally; surface the
		// AWB so the operator can fix the record by hand.
		result.AWB = booked.TrackingID
		result.Error = "booked (AWB " + booked.TrackingID + ") but record update failed: " + err.Error()
		return result
	}

	if err := e.notifier.NotifyFulfillment(ctx, id); err != nil {
		e.metrics.RecordSyncFailure()
		e.logger.Warn("Fulfillment sync failed after bulk booking",
			zap.String("shipment_id", id),
			zap.Error(err),
		)
	}

	result.Success = true
	result.AWB = booked.TrackingID
	return result
}

// bulkRequestFor maps a stored shopify_pending order onto the canonical
// booking request using the shared pickup address.
func bulkRequestFor(sh *store.Shipment, pickup store.Address, req BulkRequest) *courier.BookingRequest {
	commodity := "merchandise"
	if len(sh.Products) > 0 {
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
		Service:        req.Service,
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
