package httpserver

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator plugs go-playground/validator into echo's c.Validate.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

func (cv *Validator) Validate(i any) error {
	return cv.v.Struct(i)
}

// fieldMessages is keyed by the struct namespace without slice indexes plus
// the failed tag. A %v verb receives the rejected value.
var fieldMessages = map[string]string{
	"RegisterRequest.Name.max":           "Your name cannot exceed 30 characters",
	"RegisterRequest.Email.email":        "Please enter valid email address",
	"UpdateProfileRequest.Name.max":      "Your name cannot exceed 30 characters",
	"UpdateProfileRequest.Email.email":   "Please enter valid email address",
	"AdminUpdateUserRequest.Name.max":    "Your name cannot exceed 30 characters",
	"AdminUpdateUserRequest.Email.email": "Please enter valid email address",
	"AdminUpdateUserRequest.Role.oneof":  "Role (%v) is not valid",

	"CreateProductRequest.Name.required":        "Please enter product name",
	"CreateProductRequest.Name.max":             "Product name cannot exceed 100 characters",
	"CreateProductRequest.Price.gte":            "Product price cannot be negative",
	"CreateProductRequest.Description.required": "Please enter product description",
	"CreateProductRequest.Category.required":    "Please select category for this product",
	"CreateProductRequest.Seller.required":      "Please enter product seller",
	"CreateProductRequest.Stock.gte":            "Product stock cannot be negative",
	"UpdateProductRequest.Name.max":             "Product name cannot exceed 100 characters",
	"UpdateProductRequest.Price.gte":            "Product price cannot be negative",
	"UpdateProductRequest.Stock.gte":            "Product stock cannot be negative",

	"ReviewRequest.ProductID.required": "Please provide the product id",
	"ReviewRequest.Rating.required":    "Rating must be between 1 and 5",
	"ReviewRequest.Rating.min":         "Rating must be between 1 and 5",
	"ReviewRequest.Rating.max":         "Rating must be between 1 and 5",

	"CreateOrderRequest.OrderItems.required":         "Please add at least one order item",
	"CreateOrderRequest.OrderItems.min":              "Please add at least one order item",
	"CreateOrderRequest.OrderItems.Name.required":    "Order item must have a name",
	"CreateOrderRequest.OrderItems.Quantity.min":     "Order item quantity must be at least 1",
	"CreateOrderRequest.OrderItems.Price.gte":        "Order item price cannot be negative",
	"CreateOrderRequest.OrderItems.Product.required": "Order item must reference a product",
	"UpdateOrderRequest.Status.required":             "Please provide the order status",
}

func validationMessage(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	seen := make(map[string]bool, len(errs))
	for _, fe := range errs {
		msg := fieldMessage(fe)
		if seen[msg] {
			continue
		}
		seen[msg] = true
		msgs = append(msgs, msg)
	}
	return strings.Join(msgs, ", ")
}

func fieldMessage(fe validator.FieldError) string {
	key := stripIndexes(fe.StructNamespace()) + "." + fe.Tag()
	if tmpl, ok := fieldMessages[key]; ok {
		if strings.Contains(tmpl, "%v") {
			return fmt.Sprintf(tmpl, fe.Value())
		}
		return tmpl
	}
	return fmt.Sprintf("Invalid value for %s", fe.Field())
}

// stripIndexes turns "A.Items[2].Qty" into "A.Items.Qty".
func stripIndexes(ns string) string {
	var b strings.Builder
	depth := 0
	for _, r := range ns {
		switch {
		case r == '[':
			depth++
		case r == ']':
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
