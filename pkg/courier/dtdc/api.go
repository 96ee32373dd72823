package dtdc

import (
	"context"
)

// APIClient defines the interface for DTDC API operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// CreateConsignment books a shipment (softdata upload) and returns the
	// assigned reference number.
	CreateConsignment(ctx context.Context, req *ConsignmentRequest) (*ConsignmentResponse, error)

	// CancelConsignment cancels a booked consignment by reference number.
	CancelConsignment(ctx context.Context, req *CancelConsignmentRequest) (*CancelConsignmentResponse, error)
}

// ============================================================================
// API Request/Response Types (match DTDC REST API structure)
// ============================================================================

// ConsignmentRequest is the softdata booking envelope. DTDC accepts a batch
// of consignments; the engine always sends exactly one.
type ConsignmentRequest struct {
	Consignments []Consignment `json:"consignments"`
}

// Consignment is DTDC's flat booking shape. There is no nested
// consignee/shipper split; origin and destination fields sit side by side.
type Consignment struct {
	CustomerCode        string  `json:"customer_code"`
	ServiceTypeID       string  `json:"service_type_id"` // e.g. "B2C SMART EXPRESS"
	LoadType            string  `json:"load_type"`       // "NON-DOCUMENT" / "DOCUMENT"
	ConsignmentType     string  `json:"consignment_type"`
	CODCollectionMode   string  `json:"cod_collection_mode,omitempty"`
	CODAmount           string  `json:"cod_amount,omitempty"`
	DeclaredValue       string  `json:"declared_value"`
	NumPieces           string  `json:"num_pieces"`
	Weight              string  `json:"weight"`
	Length              string  `json:"length"`
	Width               string  `json:"width"`
	Height              string  `json:"height"`
	CommodityName       string  `json:"commodity_name"`
	CustomerReferenceNo string  `json:"customer_reference_number"`
	OriginDetails       Party   `json:"origin_details"`
	DestinationDetails  Party   `json:"destination_details"`
	PiecesDetail        []Piece `json:"pieces_detail,omitempty"`
}

// Party is a flat origin/destination block.
type Party struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	Pincode      string `json:"pincode"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// Piece carries per-piece dimensions for multi-piece consignments.
type Piece struct {
	Description   string `json:"description"`
	DeclaredValue string `json:"declared_value"`
	Weight        string `json:"weight"`
	Length        string `json:"length"`
	Width         string `json:"width"`
	Height        string `json:"height"`
}

// ConsignmentResponse is the booking response. A top-level "OK" status does
// not imply success; each data entry carries its own success flag.
type ConsignmentResponse struct {
	Status string              `json:"status"`
	Data   []ConsignmentResult `json:"data"`
}

// ConsignmentResult is the per-consignment outcome.
type ConsignmentResult struct {
	Success          bool    `json:"success"`
	ReferenceNumber  string  `json:"reference_number"`
	ChargeableWeight float64 `json:"chargeable_weight"`
	Message          string  `json:"message"`
	CustomerRefNo    string  `json:"customer_reference_number"`
}

// CancelConsignmentRequest cancels consignments by reference number.
type CancelConsignmentRequest struct {
	AWBNumbers   []string `json:"AWBNo"`
	CustomerCode string   `json:"customer_code"`
}

// CancelConsignmentResponse is the cancellation response.
type CancelConsignmentResponse struct {
	Status string       `json:"status"`
	Data   CancelDetail `json:"data"`
}

// CancelDetail partitions the cancellation batch.
type CancelDetail struct {
	SuccessAWBs []string `json:"successfully_cancelled"`
	FailedAWBs  []string `json:"failed_to_cancel"`
	Message     string   `json:"message"`
}

// APIError represents a transport/HTTP-level error from the DTDC API.
type APIError struct {
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Description
}
