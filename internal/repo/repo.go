package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/shopit/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
	ErrInvalidID = errors.New("invalid id")
)

// DuplicateError reports which unique field was violated. It matches
// ErrDuplicate with errors.Is.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string { return "duplicate " + e.Field }

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

type readOptions struct {
	withPassword bool
}

type ReadOption func(*readOptions)

// WithPassword includes the password digest in the loaded user. It is left
// out of every read that does not ask for it.
func WithPassword() ReadOption {
	return func(o *readOptions) { o.withPassword = true }
}

func collectReadOptions(opts []ReadOption) readOptions {
	var o readOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// UpdateUserParams holds optional changes; nil fields are left untouched.
type UpdateUserParams struct {
	Name         *string
	Email        *string
	Role         *string
	PasswordHash *string
	ClearReset   bool
}

type UpdateProductParams struct {
	Name        *string
	Price       *float64
	Description *string
	Category    *string
	Seller      *string
	Stock       *int
	Images      *[]models.Image
}

type ProductFilter struct {
	Keyword    string
	Category   string
	PriceGTE   *float64
	PriceLTE   *float64
	RatingsGTE *float64
	Offset     int
	Limit      int
}

type UserRepository interface {
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	GetUser(ctx context.Context, id string, opts ...ReadOption) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string, opts ...ReadOption) (*models.User, error)
	FindUserByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	SetResetToken(ctx context.Context, id string, tokenHash *string, expiresAt *time.Time) error
	UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, int64, error)
	CountProducts(ctx context.Context) (int64, error)
	UpdateProduct(ctx context.Context, id string, params UpdateProductParams) (*models.Product, error)
	SetReviews(ctx context.Context, id string, reviews []models.Review, ratings float64) (*models.Product, error)
	AdjustStock(ctx context.Context, id string, delta int) error
	DeleteProduct(ctx context.Context, id string) error
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id, status string, deliveredAt *time.Time) (*models.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

type Store interface {
	UserRepository
	ProductRepository
	OrderRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

func newID() string { return uuid.NewString() }
