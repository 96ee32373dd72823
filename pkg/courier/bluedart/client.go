// Package bluedart provides integration with the Blue Dart shipping API.
package bluedart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/parceldesk/courier/pkg/courier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const carrierName = "Blue Dart"

// Blue Dart address fields are fixed width; lines longer than this are split.
const addressSegmentLen = 30

// Config holds Blue Dart configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	LoginID      string
	LicenceKey   string
	BaseURL      string
	B2CAccount   bool // COD on Domestic Priority requires a B2C profile
	UseMock      bool
}

// Client is the Blue Dart courier client.
// It implements the courier.Courier interface and delegates
// API calls to the underlying APIClient (mock or HTTP).
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new Blue Dart client.
// If cfg.UseMock is true, it uses a mock API client for testing.
// Otherwise, it uses the real HTTP API client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL:      cfg.BaseURL,
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Timeout:      30 * time.Second,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// NewWithAPIClient creates a new Blue Dart client with a custom API client.
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

// BookShipment books a shipment with Blue Dart.
func (c *Client) BookShipment(ctx context.Context, req *courier.BookingRequest) (*courier.BookingResult, error) {
	c.logger.Info("Booking Blue Dart shipment",
		zap.String("reference", req.ReferenceNo),
		zap.String("destination_pincode", req.Consignee.Pincode),
		zap.Bool("cod", req.COD),
	)

	product := productCode(req.Service)

	// COD on Domestic Priority is rejected by Blue Dart for non-B2C
	// accounts; enforce it locally rather than leaving the remote API to
	// reject the waybill.
	if req.COD && product == "D" && !c.config.B2CAccount {
		return nil, courier.NewCourierError(carrierName, courier.CodeValidation,
			"COD is not available on Domestic Priority for this account").
			WithCause(courier.ErrCODNotAllowed)
	}

	apiReq := c.buildWaybillRequest(req, product)

	apiResp, err := c.apiClient.GenerateWaybill(ctx, apiReq)
	if err != nil {
		c.logger.Error("Blue Dart API error", zap.Error(err))
		return nil, wrapAPIError(err, courier.CodeBooking)
	}

	trackingID, rawStatus, err := parseWaybillResult(apiResp)
	if err != nil {
		return nil, err
	}

	return &courier.BookingResult{
		Courier:    carrierName,
		TrackingID: trackingID,
		RawStatus:  rawStatus,
	}, nil
}

// CancelShipment cancels a booked waybill with Blue Dart.
func (c *Client) CancelShipment(ctx context.Context, req *courier.CancelRequest) error {
	c.logger.Info("Cancelling Blue Dart waybill",
		zap.String("awb", req.TrackingID),
	)

	apiReq := &CancelWaybillRequest{
		Request: CancelBody{AWBNo: req.TrackingID},
		Profile: c.profile(),
	}

	apiResp, err := c.apiClient.CancelWaybill(ctx, apiReq)
	if err != nil {
		c.logger.Error("Blue Dart API error", zap.Error(err))
		return wrapAPIError(err, courier.CodeCancellation)
	}

	return parseCancelResult(apiResp)
}

// ============================================================================
// Request building
// ============================================================================

func (c *Client) profile() Profile {
	return Profile{
		LoginID:    c.config.LoginID,
		LicenceKey: c.config.LicenceKey,
		APIType:    "S",
	}
}

func (c *Client) buildWaybillRequest(req *courier.BookingRequest, product string) *WaybillRequest {
	consAddr1, consAddr2 := splitAddress(req.Consignee.Line)
	shipAddr1, shipAddr2 := splitAddress(req.Shipper.Line)

	subProduct := "P"
	var collectable float64
	if req.COD {
		subProduct = "C"
		collectable = req.CODAmount
	}

	pieces := req.Pieces
	if pieces == 0 {
		pieces = 1
	}

	services := Services{
		ProductCode:       product,
		SubProductCode:    subProduct,
		ProductType:       2, // dutiables
		PieceCount:        pieces,
		ActualWeight:      req.BillableWeight,
		DeclaredValue:     req.DeclaredValue,
		CollectableAmount: collectable,
		CreditReferenceNo: req.ReferenceNo,
		Commodity:         Commodity{CommodityDetail1: req.Commodity},
		PickupDate:        encodePickupDate(time.Now().Add(24 * time.Hour)),
		PickupTime:        "1400",
		RegisterPickup:    true,
	}

	if req.Dimensions.Length > 0 {
		services.Dimensions = []Dimension{{
			Length:  req.Dimensions.Length,
			Breadth: req.Dimensions.Width,
			Height:  req.Dimensions.Height,
			Count:   pieces,
		}}
	}

	return &WaybillRequest{
		Request: WaybillBody{
			Consignee: Consignee{
				ConsigneeName:      req.Consignee.Name,
				ConsigneeAddress1:  consAddr1,
				ConsigneeAddress2:  consAddr2,
				ConsigneeAddress3:  req.Consignee.City,
				ConsigneePincode:   req.Consignee.Pincode,
				ConsigneeMobile:    req.Consignee.Phone,
				ConsigneeAttention: req.Consignee.Name,
			},
			Shipper: Shipper{
				CustomerName:     req.Shipper.Name,
				CustomerAddress1: shipAddr1,
				CustomerAddress2: shipAddr2,
				CustomerAddress3: req.Shipper.City,
				CustomerPincode:  req.Shipper.Pincode,
				CustomerMobile:   req.Shipper.Phone,
				OriginArea:       originArea(req.Shipper.Pincode),
				Sender:           req.Shipper.Name,
			},
			Services: services,
		},
		Profile: c.profile(),
	}
}

// splitAddress breaks an address line into two fixed-width segments,
// address[0:30] and address[30:60].
func splitAddress(line string) (string, string) {
	line = strings.TrimSpace(line)
	if len(line) <= addressSegmentLen {
		return line, ""
	}
	end := 2 * addressSegmentLen
	if len(line) < end {
		end = len(line)
	}
	return line[:addressSegmentLen], strings.TrimSpace(line[addressSegmentLen:end])
}

// encodePickupDate wraps an epoch-milliseconds timestamp in Blue Dart's
// proprietary /Date(ms)/ format.
func encodePickupDate(t time.Time) string {
	return fmt.Sprintf("/Date(%d)/", t.UnixMilli())
}

// originArea derives the Blue Dart origin area code. The first two pincode
// digits identify the postal circle, which is what the sandbox accepts.
func originArea(pincode string) string {
	if len(pincode) >= 2 {
		return pincode[:2]
	}
	return pincode
}

func productCode(service courier.ServiceType) string {
	switch service {
	case courier.ServicePriority:
		return "D" // Domestic Priority
	case courier.ServiceAir, courier.ServiceExpress:
		return "A" // Apex
	default:
		return "E" // Ground / surface
	}
}

// ============================================================================
// Result parsing
// ============================================================================

// parseWaybillResult centralizes Blue Dart's success policy: success iff the
// response carries IsError == false and a non-empty AWB. A response missing
// the IsError flag or the status array is an unknown failure, never a success.
func parseWaybillResult(resp *WaybillResponse) (trackingID, rawStatus string, err error) {
	if resp == nil || resp.GenerateWayBillResult == nil || resp.GenerateWayBillResult.IsError == nil {
		return "", "", courier.NewCourierError(carrierName, courier.CodeBooking,
			"unrecognized waybill response")
	}

	result := resp.GenerateWayBillResult
	if *result.IsError {
		msg := statusMessage(result.Status)
		if msg == "" {
			msg = "unknown booking error"
		}
		return "", "", courier.NewCourierError(carrierName, courier.CodeBooking, msg).
			WithDetail(statusDetail(result.Status))
	}

	if result.AWBNo == "" {
		return "", "", courier.NewCourierError(carrierName, courier.CodeBooking,
			"waybill response carried no AWB")
	}

	return result.AWBNo, statusMessage(result.Status), nil
}

func parseCancelResult(resp *CancelWaybillResponse) error {
	if resp == nil || resp.CancelWaybillResult == nil || resp.CancelWaybillResult.IsError == nil {
		return courier.NewCourierError(carrierName, courier.CodeCancellation,
			"unrecognized cancellation response")
	}

	result := resp.CancelWaybillResult
	if *result.IsError {
		msg := statusMessage(result.Status)
		if msg == "" {
			msg = "unknown cancellation error"
		}
		return courier.NewCourierError(carrierName, courier.CodeCancellation, msg).
			WithCause(courier.ErrCancellationRejected)
	}
	return nil
}

func statusMessage(status []StatusInfo) string {
	if len(status) == 0 {
		return ""
	}
	return status[0].StatusInformation
}

func statusDetail(status []StatusInfo) string {
	parts := make([]string, 0, len(status))
	for _, s := range status {
		parts = append(parts, s.StatusCode+": "+s.StatusInformation)
	}
	return strings.Join(parts, "; ")
}

// wrapAPIError normalizes transport/HTTP failures into CourierErrors,
// preferring the structured API error body over the transport message.
func wrapAPIError(err error, code string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		errCode := code
		if strings.HasPrefix(apiErr.Code, "AUTH_") {
			errCode = courier.CodeAuth
		}
		return courier.NewCourierError(carrierName, errCode, apiErr.Description).
			WithDetail(apiErr.Code).
			WithCause(err)
	}
	return courier.NewCourierError(carrierName, courier.CodeAPI, err.Error()).WithCause(err)
}

var _ courier.Courier = (*Client)(nil)
