package booking

import (
	"context"
	"fmt"

	"github.com/parceldesk/courier/internal/store"
	"github.com/parceldesk/courier/pkg/courier"
	"go.uber.org/zap"
)

// CancelShipment cancels a booked shipment with its courier. The status
// transitions to cancelled only when the adapter explicitly confirms; on
// failure the status is left untouched and the error surfaced.
func (e *Engine) CancelShipment(ctx context.Context, shipmentID string) error {
	sh, err := e.shipments.GetByID(ctx, shipmentID)
	if err != nil {
		return err
	}

	if sh.CourierTrackingID == "" {
		return fmt.Errorf("shipment %s: %w", shipmentID, courier.ErrNotBooked)
	}
	if sh.Status.Terminal() {
		return fmt.Errorf("shipment %s is already %s", shipmentID, sh.Status)
	}

	adapter, err := e.couriers.Get(sh.Courier)
	if err != nil {
		return err
	}

	err = adapter.CancelShipment(ctx, &courier.CancelRequest{
		TrackingID:  sh.CourierTrackingID,
		ReferenceNo: sh.ReferenceNo,
	})
	e.metrics.RecordCancellation(sh.Courier, outcomeLabel(err))
	if err != nil {
		e.logger.Error("Cancellation failed",
			zap.String("shipment_id", shipmentID),
			zap.String("awb", sh.CourierTrackingID),
			zap.Error(err),
		)
		return err
	}

	if err := e.shipments.UpdateStatus(ctx, shipmentID, store.StatusCancelled); err != nil {
		return fmt.Errorf("recording cancellation for %s: %w", shipmentID, err)
	}

	e.logger.Info("Shipment cancelled",
		zap.String("shipment_id", shipmentID),
		zap.String("awb", sh.CourierTrackingID),
	)
	return nil
}
