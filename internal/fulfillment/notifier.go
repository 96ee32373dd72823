// Package fulfillment notifies the order platform that a tracking number has
// been assigned.
package fulfillment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Notifier pushes a fulfillment notification for a booked shipment. The call
// is best-effort: errors are surfaced as warnings, never retried here, and
// never roll back a booking.
type Notifier interface {
	NotifyFulfillment(ctx context.Context, shipmentID string) error
}

// SyncError is a best-effort notification failure.
type SyncError struct {
	ShipmentID string
	StatusCode int
	Message    string
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("fulfillment sync failed for shipment %s: %s", e.ShipmentID, e.Message)
}

// HTTPNotifier calls the portal backend's Shopify fulfillment hook.
type HTTPNotifier struct {
	baseURL    string
	httpClient *http.Client
	logger     *otelzap.Logger
}

// NewHTTPNotifier creates a notifier against the portal base URL.
func NewHTTPNotifier(baseURL string, logger *otelzap.Logger) *HTTPNotifier {
	return &HTTPNotifier{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// NotifyFulfillment posts the shipment id to the fulfillment hook. Non-2xx
// responses are returned as SyncErrors and logged; nothing is retried.
func (n *HTTPNotifier) NotifyFulfillment(ctx context.Context, shipmentID string) error {
	payload, err := json.Marshal(map[string]string{"shipmentId": shipmentID})
	if err != nil {
		return fmt.Errorf("marshaling fulfillment payload: %w", err)
	}

	url := n.baseURL + "/api/integrations/shopify/fulfill"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating fulfillment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Warn("Fulfillment sync transport error",
			zap.String("shipment_id", shipmentID),
			zap.Error(err),
		)
		return &SyncError{ShipmentID: shipmentID, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		n.logger.Warn("Fulfillment sync rejected",
			zap.String("shipment_id", shipmentID),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return &SyncError{
			ShipmentID: shipmentID,
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}
	return nil
}

// NopNotifier is used in tests and when fulfillment sync is disabled.
type NopNotifier struct{}

// NotifyFulfillment does nothing.
func (NopNotifier) NotifyFulfillment(ctx context.Context, shipmentID string) error {
	return nil
}

var (
	_ Notifier = (*HTTPNotifier)(nil)
	_ Notifier = NopNotifier{}
)
