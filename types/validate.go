package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// MenuItemInput is the admin form payload for creating or editing a dish
type MenuItemInput struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"gte=0"`
	Image       string   `json:"image" validate:"omitempty,url"`
	Category    Category `json:"category" validate:"omitempty,oneof=appetizers main beverages desserts"`
}

// SpecialOfferInput is the admin form payload for an offer
type SpecialOfferInput struct {
	MenuItemID    int     `json:"menu_item_id" validate:"required,gt=0"`
	OriginalPrice float64 `json:"original_price" validate:"required,gt=0"`
	DiscountPrice float64 `json:"discount_price" validate:"required,gt=0,ltefield=OriginalPrice"`
	Description   string  `json:"description"`
}

// GalleryImageInput is the admin payload for adding a gallery image by URL
type GalleryImageInput struct {
	ImageURL string `json:"image_url" validate:"required,url"`
	Caption  string `json:"caption"`
}

// ValidationError carries one message per offending field
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Fields, "; ")
}

// Validate checks a form payload before any network call is made.
// It returns a *ValidationError describing every failing field.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, describeFieldError(fe))
	}
	return out
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "datetime":
		return fmt.Sprintf("%s must match %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "ltefield":
		return fmt.Sprintf("%s must not exceed %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
