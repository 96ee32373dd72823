package shopify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/parceldesk/courier/internal/store"
	"github.com/parceldesk/courier/internal/telemetry"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Importer pulls open Shopify orders into the shipment store as
// shopify_pending records the bulk-booking flow can pick up.
type Importer struct {
	api       API
	shipments store.ShipmentStore
	logger    *otelzap.Logger
	metrics   *telemetry.Metrics
}

// NewImporter creates a Shopify order importer.
func NewImporter(api API, shipments store.ShipmentStore, logger *otelzap.Logger, metrics *telemetry.Metrics) *Importer {
	return &Importer{
		api:       api,
		shipments: shipments,
		logger:    logger,
		metrics:   metrics,
	}
}

// SyncResult summarizes one import run.
type SyncResult struct {
	Fetched  int
	Imported int
	Skipped  int
}

// Sync fetches open orders and creates a shopify_pending shipment for each
// order not already imported. Ingestion is idempotent on the Shopify order id.
func (im *Importer) Sync(ctx context.Context, clientID, clientName string) (*SyncResult, error) {
	orders, err := im.api.ListOpenOrders(ctx)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{Fetched: len(orders)}
	im.metrics.ShopifyOrdersFetched.Add(float64(len(orders)))

	for _, order := range orders {
		orderID := strconv.FormatInt(order.ID, 10)

		existing, err := im.shipments.FindByShopifyOrderID(ctx, orderID)
		if err != nil {
			return result, fmt.Errorf("checking shopify order %s: %w", orderID, err)
		}
		if existing != nil {
			result.Skipped++
			continue
		}

		sh := im.toShipment(order, clientID, clientName)
		if _, err := im.shipments.Create(ctx, sh); err != nil {
			return result, fmt.Errorf("importing shopify order %s: %w", orderID, err)
		}
		result.Imported++
	}

	im.logger.Info("Shopify sync finished",
		zap.Int("fetched", result.Fetched),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// toShipment maps a Shopify order onto an unbooked shipment record. Weight
// stays zero until the operator fills package details; validation keeps such
// orders out of the bulk flow until then.
func (im *Importer) toShipment(order Order, clientID, clientName string) *store.Shipment {
	products := make([]store.Product, len(order.LineItems))
	lineItems := make([]string, len(order.LineItems))
	var grams int
	for i, li := range order.LineItems {
		products[i] = store.Product{
			SKU:      li.SKU,
			Name:     li.Title,
			Quantity: li.Quantity,
			Price:    parsePrice(li.Price),
		}
		lineItems[i] = li.Title
		grams += li.Grams * li.Quantity
	}

	phone := order.ShippingAddress.Phone
	if phone == "" {
		phone = order.Customer.Phone
	}

	name := order.ShippingAddress.Name
	if name == "" {
		name = strings.TrimSpace(order.Customer.FirstName + " " + order.Customer.LastName)
	}

	return &store.Shipment{
		ClientID:   clientID,
		ClientName: clientName,
		ClientType: store.ClientShopify,
		Destination: store.Address{
			Name:    name,
			Phone:   phone,
			Pincode: order.ShippingAddress.Zip,
			Line:    strings.TrimSpace(order.ShippingAddress.Address1 + " " + order.ShippingAddress.Address2),
			City:    order.ShippingAddress.City,
			State:   order.ShippingAddress.Province,
			Country: order.ShippingAddress.Country,
		},
		ActualWeight:  float64(grams) / 1000,
		Weight:        float64(grams) / 1000,
		Products:      products,
		DeclaredValue: parsePrice(order.TotalPrice),
		ReferenceNo:   fmt.Sprintf("#%d", order.OrderNumber),

		ShopifyOrderID:           strconv.FormatInt(order.ID, 10),
		ShopifyOrderNumber:       fmt.Sprintf("#%d", order.OrderNumber),
		ShopifyLineItems:         lineItems,
		ShopifyFulfillmentStatus: order.FulfillmentStatus,

		Status: store.StatusShopifyPending,
	}
}

func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
