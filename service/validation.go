package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"repair-shop-quotes/models"
)

// FieldError is one failed field check. Field uses the JSON name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every failed field of a rejected cart or item
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err carries field errors
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateItem checks one sale item before it is added to a cart.
// An empty result means the item may be added.
func ValidateItem(item models.SaleItem) []FieldError {
	fields := structErrors(item, "")

	if !models.IsCustomBuild(item.DeviceType) {
		switch {
		case !item.Price.Valid:
			fields = append(fields, FieldError{Field: "price", Message: "This field is required"})
		case item.Price.Decimal.IsNegative():
			fields = append(fields, FieldError{Field: "price", Message: msgNonNegative})
		}
	}
	return fields
}

// ValidateCart checks a whole cart before it is saved or rendered. Missing
// fields are allowed; a partially filled cart still renders with blanks.
// Only what cannot be rendered or stored is rejected.
func ValidateCart(cart models.Cart) error {
	var fields []FieldError

	if cart.Type != "" && cart.Type != models.QuoteTypeSales && cart.Type != models.QuoteTypeRepairs {
		fields = append(fields, FieldError{Field: "type", Message: "Must be one of: sales repairs"})
	}

	switch cart.Kind() {
	case models.QuoteTypeRepairs:
		for i, line := range cart.Lines {
			prefix := fmt.Sprintf("lines[%d].", i)
			if line.PartPrice.Amount().IsNegative() {
				fields = append(fields, FieldError{Field: prefix + "partPrice", Message: msgNonNegative})
			}
			if line.LaborPrice.Amount().IsNegative() {
				fields = append(fields, FieldError{Field: prefix + "laborPrice", Message: msgNonNegative})
			}
		}
	default:
		builds := 0
		for i, item := range cart.Items {
			if models.IsCustomBuild(item.DeviceType) {
				builds++
			}
			prefix := fmt.Sprintf("items[%d].", i)
			if item.Price.Amount().IsNegative() {
				fields = append(fields, FieldError{Field: prefix + "price", Message: msgNonNegative})
			}
			fields = append(fields, imageErrors(item.Images, prefix)...)
		}
		if builds > 0 && len(cart.Items) > 1 {
			fields = append(fields, FieldError{Field: "items", Message: "A custom build quote holds exactly one build"})
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

const msgNonNegative = "Must be greater than or equal to 0"

func imageErrors(images []string, prefix string) []FieldError {
	var fields []FieldError
	if len(images) > models.MaxItemImages {
		fields = append(fields, FieldError{Field: prefix + "images", Message: fmt.Sprintf("Must be at most %d", models.MaxItemImages)})
	}
	for j, img := range images {
		if !strings.HasPrefix(img, "data:image/") {
			fields = append(fields, FieldError{Field: fmt.Sprintf("%simages[%d]", prefix, j), Message: "Must be a data:image/ data URI"})
		}
	}
	return fields
}

func structErrors(v any, prefix string) []FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: strings.TrimSuffix(prefix, "."), Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, FieldError{Field: prefix + e.Field(), Message: validationMessage(e)})
	}
	return out
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "max":
		return "Must be at most " + e.Param()
	case "startswith":
		return "Must be a " + e.Param() + " data URI"
	default:
		return "Invalid value"
	}
}
