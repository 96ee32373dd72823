// Package validate gates shipment data before any courier adapter is invoked.
package validate

import (
	"regexp"
	"strings"

	"github.com/parceldesk/courier/internal/store"
)

var nonDigits = regexp.MustCompile(`\D`)

// CleanPhone strips all non-digit characters from a phone number.
func CleanPhone(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// ValidPhone reports whether a cleaned phone number has 10-15 digits, the
// range every courier accepts.
func ValidPhone(s string) bool {
	n := len(CleanPhone(s))
	return n >= 10 && n <= 15
}

// CleanPincode strips all non-digit characters from a pincode.
func CleanPincode(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// ValidPincode reports whether a pincode is exactly 6 digits after cleaning.
func ValidPincode(s string) bool {
	return len(CleanPincode(s)) == 6
}

// ValidationResult collects every admission failure for one shipment. It is
// transient and never persisted.
type ValidationResult struct {
	ShipmentID  string   `json:"shipmentId"`
	OrderNumber string   `json:"orderNumber,omitempty"`
	Errors      []string `json:"errors"`
}

// IsValid reports whether the shipment passed every check.
func (r ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// ForBooking validates a shipment against courier preconditions, accumulating
// all failures rather than short-circuiting. It is the sole admission gate
// before any adapter call; adapters must never see an order that fails here.
// A missing pickup address is itself a validation error, not a fatal one.
func ForBooking(sh *store.Shipment, pickup *store.Address) ValidationResult {
	r := ValidationResult{
		ShipmentID:  sh.ID,
		OrderNumber: sh.ShopifyOrderNumber,
	}
	if r.OrderNumber == "" {
		r.OrderNumber = sh.ReferenceNo
	}

	if strings.TrimSpace(sh.Destination.Name) == "" {
		r.Errors = append(r.Errors, "receiver name is missing")
	}
	if len(CleanPhone(sh.Destination.Phone)) < 10 {
		r.Errors = append(r.Errors, "receiver phone must have at least 10 digits")
	}
	if len(CleanPincode(sh.Destination.Pincode)) != 6 {
		r.Errors = append(r.Errors, "receiver pincode must be exactly 6 digits")
	}
	if strings.TrimSpace(sh.Destination.Line) == "" {
		r.Errors = append(r.Errors, "receiver address is missing")
	}
	if strings.TrimSpace(sh.Destination.City) == "" {
		r.Errors = append(r.Errors, "receiver city is missing")
	}
	if sh.Weight <= 0 && sh.ActualWeight <= 0 {
		r.Errors = append(r.Errors, "package weight must be greater than zero")
	}
	if pickup == nil {
		r.Errors = append(r.Errors, "no default pickup address is saved for this client")
	}

	return r
}
