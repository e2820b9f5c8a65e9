package transport

import "github.com/Skotchmaster/shopit/internal/models"

type RegisterRequest struct {
	Name     string `json:"name"     validate:"max=30"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotPasswordRequest is not format-checked: any address without an
// account is answered with 404.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type UpdatePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	Password    string `json:"password"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name"  validate:"max=30"`
	Email string `json:"email" validate:"omitempty,email"`
}

type AdminUpdateUserRequest struct {
	Name  string `json:"name"  validate:"max=30"`
	Email string `json:"email" validate:"omitempty,email"`
	Role  string `json:"role"  validate:"omitempty,oneof=user admin"`
}

type CreateProductRequest struct {
	Name        string         `json:"name"        validate:"required,max=100"`
	Price       float64        `json:"price"       validate:"gte=0"`
	Description string         `json:"description" validate:"required"`
	Category    string         `json:"category"    validate:"required"`
	Seller      string         `json:"seller"      validate:"required"`
	Stock       int            `json:"stock"       validate:"gte=0"`
	Images      []models.Image `json:"images"`
}

type UpdateProductRequest struct {
	Name        *string         `json:"name"        validate:"omitempty,max=100"`
	Price       *float64        `json:"price"       validate:"omitempty,gte=0"`
	Description *string         `json:"description"`
	Category    *string         `json:"category"`
	Seller      *string         `json:"seller"`
	Stock       *int            `json:"stock"       validate:"omitempty,gte=0"`
	Images      *[]models.Image `json:"images"`
}

type ReviewRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	Rating    float64 `json:"rating"    validate:"required,min=1,max=5"`
	Comment   string  `json:"comment"`
}

type OrderItemRequest struct {
	Name     string  `json:"name"     validate:"required"`
	Quantity int     `json:"quantity" validate:"min=1"`
	Image    string  `json:"image"`
	Price    float64 `json:"price"    validate:"gte=0"`
	Product  string  `json:"product"  validate:"required"`
}

type CreateOrderRequest struct {
	ShippingInfo  models.ShippingInfo `json:"shippingInfo"`
	OrderItems    []OrderItemRequest  `json:"orderItems"    validate:"required,min=1,dive"`
	PaymentInfo   models.PaymentInfo  `json:"paymentInfo"`
	ItemsPrice    float64             `json:"itemsPrice"    validate:"gte=0"`
	TaxPrice      float64             `json:"taxPrice"      validate:"gte=0"`
	ShippingPrice float64             `json:"shippingPrice" validate:"gte=0"`
	TotalPrice    float64             `json:"totalPrice"    validate:"gte=0"`
}

type UpdateOrderRequest struct {
	Status string `json:"status" validate:"required"`
}

type ProductsResponse struct {
	Success               bool             `json:"success"`
	Count                 int              `json:"count"`
	ProductCount          int64            `json:"productCount"`
	FilteredProductsCount int64            `json:"filteredProductsCount"`
	ResPerPage            int              `json:"resPerPage"`
	Products              []models.Product `json:"products"`
}
