package validate

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Wizard step forms. The single-booking flow advances
// Addresses -> Package -> Products -> CourierSelection, and each transition
// is gated on its step validating cleanly. These checks gate UI progression;
// batch admission goes through ForBooking instead.

// PartyForm is one side of the address step (pickup or delivery).
type PartyForm struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required,phone"`
	Pincode string `json:"pincode" validate:"required,pincode"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city"`
	State   string `json:"state"`
}

// AddressStep is the first wizard step.
type AddressStep struct {
	Pickup   PartyForm `json:"pickup" validate:"required"`
	Delivery PartyForm `json:"delivery" validate:"required"`
}

// PackageStep is the second wizard step.
type PackageStep struct {
	Length       float64 `json:"length" validate:"gte=0"`
	Width        float64 `json:"width" validate:"gte=0"`
	Height       float64 `json:"height" validate:"gte=0"`
	ActualWeight float64 `json:"actualWeight" validate:"gte=0"`
}

// ProductForm is one line item on the products step.
type ProductForm struct {
	SKU      string  `json:"sku"`
	Name     string  `json:"name" validate:"required"`
	Quantity int     `json:"quantity" validate:"gte=1"`
	Price    float64 `json:"price" validate:"gte=0"`
}

// ProductsStep is the third wizard step.
type ProductsStep struct {
	Products []ProductForm `json:"products" validate:"min=1,dive"`
}

var (
	stepValidator *validator.Validate
	stepOnce      sync.Once
)

func stepValidate() *validator.Validate {
	stepOnce.Do(func() {
		stepValidator = validator.New(validator.WithRequiredStructEnabled())
		stepValidator.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return ValidPhone(fl.Field().String())
		})
		stepValidator.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
			return ValidPincode(fl.Field().String())
		})
	})
	return stepValidator
}

// CheckStep validates one wizard step form and returns every failure as a
// user-facing message. An empty slice means the step may advance.
func CheckStep(form interface{}) []string {
	err := stepValidate().Struct(form)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, stepMessage(fe))
	}
	return msgs
}

func stepMessage(fe validator.FieldError) string {
	field := strings.ToLower(strings.ReplaceAll(fe.Namespace(), ".", " "))
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "phone":
		return fmt.Sprintf("%s must have 10-15 digits", field)
	case "pincode":
		return fmt.Sprintf("%s must be exactly 6 digits", field)
	case "min":
		return fmt.Sprintf("%s needs at least %s entry", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// CheckPackage applies the package step's cross-field rule: either the
// dimensions or the actual weight must produce a positive billable weight.
func CheckPackage(step PackageStep) []string {
	msgs := CheckStep(step)
	if step.ActualWeight <= 0 && (step.Length <= 0 || step.Width <= 0 || step.Height <= 0) {
		msgs = append(msgs, "package needs either an actual weight or full dimensions")
	}
	return msgs
}
