package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/pauljones0/dealflow-hub/internal/models"
)

// Validator is a wrapper around the validator library that reports failures
// as *models.ValidationError keyed by JSON field name.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// New creates a new Validator instance.
func New() *Validator {
	return NewWithClock(time.Now)
}

// NewWithClock creates a Validator that judges "in the future" against now.
func NewWithClock(now func() time.Time) *Validator {
	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      now,
	}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Compare prices as numbers so gt/lt tags work on decimal fields.
	v.validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	v.validate.RegisterStructValidation(v.submissionLevel, models.DealSubmission{})
	v.validate.RegisterStructValidation(dealLevel, models.Deal{})
	return v
}

// ValidateStruct validates a struct based on its tags.
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validation failed: %w", err)
	}

	out := &models.ValidationError{}
	for _, fe := range fieldErrs {
		out.Add(fe.Field(), message(fe))
	}
	return out
}

// ValidateSubmission checks a public deal submission, including that the
// expiry date lies in the future.
func (v *Validator) ValidateSubmission(s models.DealSubmission) error {
	return v.ValidateStruct(s)
}

func (v *Validator) submissionLevel(sl validator.StructLevel) {
	s := sl.Current().Interface().(models.DealSubmission)
	checkPrices(sl, s.OriginalPrice, s.DealPrice)
	if !s.ExpiryDate.IsZero() && !s.ExpiryDate.After(v.now()) {
		sl.ReportError(s.ExpiryDate, "expiryDate", "ExpiryDate", "future", "")
	}
}

func dealLevel(sl validator.StructLevel) {
	d := sl.Current().Interface().(models.Deal)
	checkPrices(sl, d.OriginalPrice, d.DealPrice)
}

func checkPrices(sl validator.StructLevel, original, price decimal.Decimal) {
	if original.IsPositive() && price.IsPositive() && !price.LessThan(original) {
		sl.ReportError(price, "dealPrice", "DealPrice", "ltoriginal", "")
	}
}

var labels = map[string]string{
	"title":         "Title",
	"description":   "Description",
	"category":      "Category",
	"imageUrl":      "Image URL",
	"affiliateLink": "Affiliate link",
	"originalPrice": "Original price",
	"dealPrice":     "Deal price",
	"expiryDate":    "Expiry date",
	"status":        "Status",
	"username":      "Username",
	"content":       "Content",
	"dealId":        "Deal",
	"position":      "Position",
	"link":          "Link",
}

func label(field string) string {
	if l, ok := labels[field]; ok {
		return l
	}
	return field
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return label(fe.Field()) + " is required"
	case "url":
		return "Please enter a valid URL"
	case "gt":
		return "Valid " + strings.ToLower(label(fe.Field())) + " is required"
	case "gte":
		return label(fe.Field()) + " must not be negative"
	case "oneof":
		return label(fe.Field()) + " must be one of: " + fe.Param()
	case "ltoriginal":
		return "Deal price must be less than original price"
	case "future":
		return "Expiry date must be in the future"
	default:
		return label(fe.Field()) + " is invalid"
	}
}
