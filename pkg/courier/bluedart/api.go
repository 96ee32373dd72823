package bluedart

import (
	"context"
)

// APIClient defines the interface for Blue Dart API operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// GenerateWaybill books a shipment and returns the AWB.
	GenerateWaybill(ctx context.Context, req *WaybillRequest) (*WaybillResponse, error)

	// CancelWaybill cancels a booked shipment by AWB.
	CancelWaybill(ctx context.Context, req *CancelWaybillRequest) (*CancelWaybillResponse, error)
}

// ============================================================================
// API Request/Response Types (match Blue Dart REST API structure)
// ============================================================================

// LoginResponse is the token endpoint response. Authenticated calls carry the
// token in a "JWTToken" header, not an Authorization bearer scheme.
type LoginResponse struct {
	JWTToken string `json:"JWTToken"`
}

// WaybillRequest is the GenerateWayBill request envelope.
type WaybillRequest struct {
	Request WaybillBody `json:"Request"`
	Profile Profile     `json:"Profile"`
}

// Profile carries the licensed account identity on every waybill call.
type Profile struct {
	LoginID    string `json:"LoginID"`
	LicenceKey string `json:"LicenceKey"`
	APIType    string `json:"Api_type"`
}

// WaybillBody is the nested Consignee/Shipper/Services booking body.
type WaybillBody struct {
	Consignee Consignee `json:"Consignee"`
	Shipper   Shipper   `json:"Shipper"`
	Services  Services  `json:"Services"`
}

// Consignee is the delivery recipient. Blue Dart address fields are fixed
// width; each line holds at most 30 characters.
type Consignee struct {
	ConsigneeName      string `json:"ConsigneeName"`
	ConsigneeAddress1  string `json:"ConsigneeAddress1"`
	ConsigneeAddress2  string `json:"ConsigneeAddress2,omitempty"`
	ConsigneeAddress3  string `json:"ConsigneeAddress3,omitempty"`
	ConsigneePincode   string `json:"ConsigneePincode"`
	ConsigneeMobile    string `json:"ConsigneeMobile"`
	ConsigneeTelephone string `json:"ConsigneeTelephone,omitempty"`
	ConsigneeAttention string `json:"ConsigneeAttention,omitempty"`
}

// Shipper is the pickup/origin party.
type Shipper struct {
	CustomerName     string `json:"CustomerName"`
	CustomerAddress1 string `json:"CustomerAddress1"`
	CustomerAddress2 string `json:"CustomerAddress2,omitempty"`
	CustomerAddress3 string `json:"CustomerAddress3,omitempty"`
	CustomerPincode  string `json:"CustomerPincode"`
	CustomerMobile   string `json:"CustomerMobile"`
	OriginArea       string `json:"OriginArea"`
	Sender           string `json:"Sender"`
}

// Services holds the product selection and parcel characteristics.
type Services struct {
	ProductCode       string      `json:"ProductCode"`    // "D" Domestic Priority, "A" Apex, "E" Ground
	SubProductCode    string      `json:"SubProductCode"` // "C" COD, "P" prepaid
	ProductType       int         `json:"ProductType"`    // 1 docs, 2 dutiables
	PieceCount        int         `json:"PieceCount"`
	ActualWeight      float64     `json:"ActualWeight"`
	DeclaredValue     float64     `json:"DeclaredValue"`
	CollectableAmount float64     `json:"CollectableAmount,omitempty"`
	CreditReferenceNo string      `json:"CreditReferenceNo"`
	Commodity         Commodity   `json:"Commodity"`
	Dimensions        []Dimension `json:"Dimensions,omitempty"`
	PickupDate        string      `json:"PickupDate"` // proprietary /Date(epoch-ms)/ wrapper
	PickupTime        string      `json:"PickupTime"`
	RegisterPickup    bool        `json:"RegisterPickup"`
}

// Commodity describes the consignment contents.
type Commodity struct {
	CommodityDetail1 string `json:"CommodityDetail1"`
}

// Dimension is one piece's dimensions in centimetres.
type Dimension struct {
	Length  float64 `json:"Length"`
	Breadth float64 `json:"Breadth"`
	Height  float64 `json:"Height"`
	Count   int     `json:"Count"`
}

// WaybillResponse is the GenerateWayBill response. IsError is a pointer: a
// response missing the flag is an unknown failure, never a success.
type WaybillResponse struct {
	GenerateWayBillResult *WaybillResult `json:"GenerateWayBillResult"`
}

// WaybillResult is the inner booking result.
type WaybillResult struct {
	IsError             *bool        `json:"IsError"`
	AWBNo               string       `json:"AWBNo"`
	DestinationArea     string       `json:"DestinationArea"`
	DestinationLocation string       `json:"DestinationLocation"`
	Status              []StatusInfo `json:"Status"`
}

// StatusInfo carries per-call status/error detail.
type StatusInfo struct {
	StatusCode        string `json:"StatusCode"`
	StatusInformation string `json:"StatusInformation"`
}

// CancelWaybillRequest is the CancelWaybill request envelope.
type CancelWaybillRequest struct {
	Request CancelBody `json:"Request"`
	Profile Profile    `json:"Profile"`
}

// CancelBody identifies the waybill to cancel.
type CancelBody struct {
	AWBNo string `json:"AWBNo"`
}

// CancelWaybillResponse is the CancelWaybill response.
type CancelWaybillResponse struct {
	CancelWaybillResult *CancelResult `json:"CancelWaybillResult"`
}

// CancelResult is the inner cancellation result.
type CancelResult struct {
	IsError *bool        `json:"IsError"`
	Status  []StatusInfo `json:"Status"`
}

// APIError represents a transport/HTTP-level error from the Blue Dart API.
type APIError struct {
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Description
}
