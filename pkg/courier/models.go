package courier

// ServiceType represents the courier service selected for a booking.
type ServiceType string

const (
	ServiceSurface  ServiceType = "surface"
	ServiceAir      ServiceType = "air"
	ServicePriority ServiceType = "priority" // Blue Dart "Domestic Priority"
	ServiceExpress  ServiceType = "express"
)

// PackType represents how the consignment is packed.
type PackType string

const (
	PackBox      PackType = "box"
	PackEnvelope PackType = "envelope"
	PackFlyer    PackType = "flyer"
)

// Address is the canonical address shape handed to adapters.
// Phone must already be normalized to digits only (10-15 characters) and
// Pincode to exactly 6 digits before an adapter sees it.
type Address struct {
	Name    string
	Phone   string
	Pincode string
	Line    string
	City    string
	State   string
	Country string
}

// Dimensions are package dimensions in centimetres.
type Dimensions struct {
	Length float64
	Width  float64
	Height float64
}

// BookingRequest is the canonical, courier-agnostic booking shape built from
// a shipment immediately before dispatch. It is transient and never persisted.
type BookingRequest struct {
	Consignee Address // delivery recipient
	Shipper   Address // pickup / origin

	Service     ServiceType
	ServiceCode string // courier-specific product/service code, adapter default when empty
	PackType    PackType

	BillableWeight float64 // kg, max(volumetric, actual)
	ActualWeight   float64 // kg
	Dimensions     Dimensions

	DeclaredValue float64
	COD           bool
	CODAmount     float64

	ReferenceNo string
	Commodity   string
	Pieces      int

	// B2C marks the client account profile; some courier product codes
	// restrict COD to B2C accounts.
	B2C bool
}

// BookingResult is the normalized outcome of a successful booking.
type BookingResult struct {
	Courier    string
	TrackingID string // AWB / reference number
	RawStatus  string

	// ChargedWeight is the weight the courier says it will bill for, when
	// the courier reports one (DTDC does, Blue Dart does not). It is stored
	// alongside the locally computed billable weight and deliberately never
	// reconciled with it.
	ChargedWeight float64
}

// CancelRequest identifies a booked shipment to cancel.
type CancelRequest struct {
	TrackingID  string
	ReferenceNo string
	Reason      string
}
