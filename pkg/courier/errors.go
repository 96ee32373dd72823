package courier

import (
	"errors"
	"fmt"
)

// Error codes classify courier failures. Bulk booking relies on the code to
// decide whether an item was rejected locally or by the remote API.
const (
	CodeValidation   = "validation"
	CodeAuth         = "auth"
	CodeBooking      = "booking"
	CodeCancellation = "cancellation"
	CodeAPI          = "api"
)

// CourierError represents an error from a courier integration. Message holds
// the richest available detail: the structured API error body when present,
// otherwise the transport-level message.
type CourierError struct {
	Courier string
	Code    string
	Message string
	Detail  string // raw response fragment, for operator follow-up
	Cause   error
}

// Error implements the error interface.
func (e *CourierError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error (%s): %s: %v", e.Courier, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error (%s): %s", e.Courier, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *CourierError) Unwrap() error {
	return e.Cause
}

// Is matches CourierErrors by code.
func (e *CourierError) Is(target error) bool {
	t, ok := target.(*CourierError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewCourierError creates a new CourierError.
func NewCourierError(courier, code, message string) *CourierError {
	return &CourierError{
		Courier: courier,
		Code:    code,
		Message: message,
	}
}

// WithDetail attaches the raw response fragment.
func (e *CourierError) WithDetail(detail string) *CourierError {
	e.Detail = detail
	return e
}

// WithCause adds a cause to the error.
func (e *CourierError) WithCause(err error) *CourierError {
	e.Cause = err
	return e
}

// Sentinel errors for common courier scenarios.
var (
	// ErrCourierNotFound indicates the requested courier is not registered.
	ErrCourierNotFound = errors.New("courier not found")

	// ErrAuthFailed indicates token/credential acquisition failed.
	ErrAuthFailed = errors.New("courier authentication failed")

	// ErrNotBooked indicates a cancellation was attempted for a shipment
	// without a tracking id.
	ErrNotBooked = errors.New("shipment has no tracking id")

	// ErrCancellationRejected indicates the courier refused the cancellation,
	// e.g. the consignment is already in transit.
	ErrCancellationRejected = errors.New("cancellation rejected by courier")

	// ErrCODNotAllowed indicates COD is not permitted for the selected
	// service/account combination.
	ErrCODNotAllowed = errors.New("cod not allowed for selected service")
)

// IsValidation reports whether the error is a local pre-dispatch rejection.
func IsValidation(err error) bool {
	var ce *CourierError
	if errors.As(err, &ce) {
		return ce.Code == CodeValidation
	}
	return false
}

// IsAuth reports whether the error is a credential/token failure.
func IsAuth(err error) bool {
	var ce *CourierError
	if errors.As(err, &ce) {
		return ce.Code == CodeAuth
	}
	return errors.Is(err, ErrAuthFailed)
}
