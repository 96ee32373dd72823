// Package dtdc provides integration with the DTDC shipping API.
package dtdc

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/parceldesk/courier/pkg/courier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const carrierName = "DTDC"

// Config holds DTDC configuration.
type Config struct {
	APIKey       string
	CustomerCode string
	BaseURL      string
	UseMock      bool
}

// Client is the DTDC courier client.
// It implements the courier.Courier interface and delegates
// API calls to the underlying APIClient (mock or HTTP).
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new DTDC client.
// If cfg.UseMock is true, it uses a mock API client for testing.
// Otherwise, it uses the real HTTP API client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Timeout: 30 * time.Second,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// NewWithAPIClient creates a new DTDC client with a custom API client.
// This is useful for injecting mock clients in tests.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// Name returns the courier name.
func (c *Client) Name() string {
	return carrierName
}

// BookShipment books a consignment with DTDC.
func (c *Client) BookShipment(ctx context.Context, req *courier.BookingRequest) (*courier.BookingResult, error) {
	c.logger.Info("Booking DTDC consignment",
		zap.String("reference", req.ReferenceNo),
		zap.String("destination_pincode", req.Consignee.Pincode),
		zap.Bool("cod", req.COD),
	)

	apiReq := c.buildConsignmentRequest(req)

	apiResp, err := c.apiClient.CreateConsignment(ctx, apiReq)
	if err != nil {
		c.logger.Error("DTDC API error", zap.Error(err))
		return nil, wrapAPIError(err, courier.CodeBooking)
	}

	result, err := parseConsignmentResult(apiResp)
	if err != nil {
		return nil, err
	}

	// DTDC computes its own chargeable weight, which may differ from the
	// billable weight computed locally. Both are kept; neither is reconciled
	// against the other.
	if result.ChargeableWeight > 0 && result.ChargeableWeight != req.BillableWeight {
		c.logger.Debug("DTDC chargeable weight differs from local billable weight",
			zap.Float64("chargeable", result.ChargeableWeight),
			zap.Float64("billable", req.BillableWeight),
		)
	}

	return &courier.BookingResult{
		Courier:       carrierName,
		TrackingID:    result.ReferenceNumber,
		RawStatus:     result.Message,
		ChargedWeight: result.ChargeableWeight,
	}, nil
}

// CancelShipment cancels a booked consignment with DTDC.
func (c *Client) CancelShipment(ctx context.Context, req *courier.CancelRequest) error {
	c.logger.Info("Cancelling DTDC consignment",
		zap.String("reference", req.TrackingID),
	)

	apiReq := &CancelConsignmentRequest{
		AWBNumbers:   []string{req.TrackingID},
		CustomerCode: c.config.CustomerCode,
	}

	apiResp, err := c.apiClient.CancelConsignment(ctx, apiReq)
	if err != nil {
		c.logger.Error("DTDC API error", zap.Error(err))
		return wrapAPIError(err, courier.CodeCancellation)
	}

	return parseCancelResult(apiResp, req.TrackingID)
}

// ============================================================================
// Request building
// ============================================================================

func (c *Client) buildConsignmentRequest(req *courier.BookingRequest) *ConsignmentRequest {
	pieces := req.Pieces
	if pieces == 0 {
		pieces = 1
	}

	cons := Consignment{
		CustomerCode:        c.config.CustomerCode,
		ServiceTypeID:       serviceTypeID(req.Service),
		LoadType:            "NON-DOCUMENT",
		ConsignmentType:     "Forward",
		DeclaredValue:       formatAmount(req.DeclaredValue),
		NumPieces:           strconv.Itoa(pieces),
		Weight:              formatAmount(req.BillableWeight),
		Length:              formatAmount(req.Dimensions.Length),
		Width:               formatAmount(req.Dimensions.Width),
		Height:              formatAmount(req.Dimensions.Height),
		CommodityName:       req.Commodity,
		CustomerReferenceNo: req.ReferenceNo,
		OriginDetails: Party{
			Name:         req.Shipper.Name,
			Phone:        req.Shipper.Phone,
			AddressLine1: req.Shipper.Line,
			Pincode:      req.Shipper.Pincode,
			City:         req.Shipper.City,
			State:        req.Shipper.State,
		},
		DestinationDetails: Party{
			Name:         req.Consignee.Name,
			Phone:        req.Consignee.Phone,
			AddressLine1: req.Consignee.Line,
			Pincode:      req.Consignee.Pincode,
			City:         req.Consignee.City,
			State:        req.Consignee.State,
		},
	}

	if req.COD {
		cons.CODCollectionMode = "cash"
		cons.CODAmount = formatAmount(req.CODAmount)
	}

	return &ConsignmentRequest{Consignments: []Consignment{cons}}
}

func serviceTypeID(service courier.ServiceType) string {
	switch service {
	case courier.ServiceAir, courier.ServiceExpress, courier.ServicePriority:
		return "B2C SMART EXPRESS"
	default:
		return "B2C GROUND EXPRESS"
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ============================================================================
// Result parsing
// ============================================================================

// parseConsignmentResult centralizes DTDC's success policy: success requires
// BOTH a top-level "OK" status AND data[0].success == true. A top-level OK
// with a per-item failure is still a failure.
func parseConsignmentResult(resp *ConsignmentResponse) (*ConsignmentResult, error) {
	if resp == nil || resp.Status != "OK" {
		msg := "unrecognized consignment response"
		if resp != nil && resp.Status != "" {
			msg = "consignment request failed with status " + resp.Status
		}
		return nil, courier.NewCourierError(carrierName, courier.CodeBooking, msg)
	}

	if len(resp.Data) == 0 {
		return nil, courier.NewCourierError(carrierName, courier.CodeBooking,
			"consignment response carried no data")
	}

	item := resp.Data[0]
	if !item.Success {
		msg := item.Message
		if msg == "" {
			msg = "unknown consignment error"
		}
		return nil, courier.NewCourierError(carrierName, courier.CodeBooking, msg).
			WithDetail(item.Message)
	}

	if item.ReferenceNumber == "" {
		return nil, courier.NewCourierError(carrierName, courier.CodeBooking,
			"consignment response carried no reference number")
	}

	return &item, nil
}

func parseCancelResult(resp *CancelConsignmentResponse, trackingID string) error {
	if resp == nil || resp.Status != "OK" {
		return courier.NewCourierError(carrierName, courier.CodeCancellation,
			"unrecognized cancellation response")
	}

	for _, awb := range resp.Data.SuccessAWBs {
		if awb == trackingID {
			return nil
		}
	}

	msg := resp.Data.Message
	if msg == "" {
		msg = "consignment could not be cancelled"
	}
	return courier.NewCourierError(carrierName, courier.CodeCancellation, msg).
		WithCause(courier.ErrCancellationRejected)
}

// wrapAPIError normalizes transport/HTTP failures into CourierErrors,
// preferring the structured API error body over the transport message.
func wrapAPIError(err error, code string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return courier.NewCourierError(carrierName, code, apiErr.Description).
			WithDetail(apiErr.Code).
			WithCause(err)
	}
	return courier.NewCourierError(carrierName, courier.CodeAPI, err.Error()).WithCause(err)
}

var _ courier.Courier = (*Client)(nil)
