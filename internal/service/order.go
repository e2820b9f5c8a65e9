package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/shopit/internal/apperr"
	"github.com/Skotchmaster/shopit/internal/events"
	"github.com/Skotchmaster/shopit/internal/logging"
	"github.com/Skotchmaster/shopit/internal/models"
	"github.com/Skotchmaster/shopit/internal/repo"
)

const (
	MsgOrderNotFound    = "No Order found with this ID"
	MsgAlreadyDelivered = "You have already delivered this order"
)

type OrderService struct {
	orders   repo.OrderRepository
	products repo.ProductRepository
	users    repo.UserRepository
	events   events.Publisher
	now      func() time.Time
}

func NewOrderService(orders repo.OrderRepository, products repo.ProductRepository, users repo.UserRepository, pub events.Publisher) *OrderService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &OrderService{orders: orders, products: products, users: users, events: pub, now: time.Now}
}

// OrderInput carries client computed totals; they are stored as given.
type OrderInput struct {
	ShippingInfo  models.ShippingInfo
	OrderItems    []models.OrderItem
	PaymentInfo   models.PaymentInfo
	ItemsPrice    float64
	TaxPrice      float64
	ShippingPrice float64
	TotalPrice    float64
}

type OrderUser struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderDetails is an order with its buyer's name and email filled in.
type OrderDetails struct {
	models.Order
	User OrderUser `json:"user"`
}

func (s *OrderService) Create(ctx context.Context, userID string, in OrderInput) (*models.Order, error) {
	if len(in.OrderItems) == 0 {
		return nil, apperr.Validation("Please add at least one order item")
	}
	for _, it := range in.OrderItems {
		if it.Quantity < 1 {
			return nil, apperr.Validation("Order item quantity must be at least 1")
		}
	}

	paidAt := s.now().UTC()
	o, err := s.orders.CreateOrder(ctx, &models.Order{
		ShippingInfo:  in.ShippingInfo,
		User:          userID,
		OrderItems:    in.OrderItems,
		PaymentInfo:   in.PaymentInfo,
		PaidAt:        &paidAt,
		ItemsPrice:    in.ItemsPrice,
		TaxPrice:      in.TaxPrice,
		ShippingPrice: in.ShippingPrice,
		TotalPrice:    in.TotalPrice,
		OrderStatus:   models.StatusProcessing,
	})
	if err != nil {
		return nil, err
	}

	events.Emit(ctx, s.events, events.TopicOrders, "order.created", o.ID, map[string]any{"user": userID, "totalPrice": o.TotalPrice})
	return o, nil
}

// Get returns the order to its owner or to an admin. Anyone else gets the
// same not found answer as for a missing order.
func (s *OrderService) Get(ctx context.Context, requester *models.User, id string) (*OrderDetails, error) {
	o, err := s.orders.GetOrder(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperr.NotFound(MsgOrderNotFound)
	}
	if err != nil {
		return nil, err
	}
	if o.User != requester.ID && requester.Role != models.RoleAdmin {
		return nil, apperr.NotFound(MsgOrderNotFound)
	}

	details := &OrderDetails{Order: *o, User: OrderUser{ID: o.User}}
	u, err := s.users.GetUser(ctx, o.User)
	switch {
	case err == nil:
		details.User.Name = u.Name
		details.User.Email = u.Email
	case errors.Is(err, repo.ErrNotFound), errors.Is(err, repo.ErrInvalidID):
	default:
		return nil, err
	}
	return details, nil
}

func (s *OrderService) Mine(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orders.ListOrdersByUser(ctx, userID)
}

func (s *OrderService) All(ctx context.Context) ([]models.Order, float64, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, 0, err
	}
	var total float64
	for _, o := range orders {
		total += o.TotalPrice
	}
	return orders, total, nil
}

// UpdateStatus moves an order forward. Stock is taken out of the products
// once, when the order first leaves Processing.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.update_status", "order_id", id)

	switch status {
	case models.StatusProcessing, models.StatusShipped, models.StatusDelivered:
	default:
		return nil, apperr.Validation(fmt.Sprintf("Order status (%s) is not valid", status))
	}

	o, err := s.orders.GetOrder(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperr.NotFound(MsgOrderNotFound)
	}
	if err != nil {
		return nil, err
	}
	if o.OrderStatus == models.StatusDelivered {
		return nil, apperr.Validation(MsgAlreadyDelivered)
	}

	if o.OrderStatus == models.StatusProcessing && status != models.StatusProcessing {
		for _, item := range o.OrderItems {
			err := s.products.AdjustStock(ctx, item.Product, -item.Quantity)
			if errors.Is(err, repo.ErrNotFound) || errors.Is(err, repo.ErrInvalidID) {
				l.Warn("stock_update_skipped", "product_id", item.Product, "reason", "product missing")
				continue
			}
			if err != nil {
				return nil, err
			}
		}
	}

	var deliveredAt *time.Time
	if status == models.StatusDelivered {
		now := s.now().UTC()
		deliveredAt = &now
	}

	updated, err := s.orders.UpdateOrderStatus(ctx, id, status, deliveredAt)
	if err != nil {
		return nil, err
	}
	events.Emit(ctx, s.events, events.TopicOrders, "order.status_changed", id, map[string]any{"status": status})
	return updated, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	err := s.orders.DeleteOrder(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.NotFound(MsgOrderNotFound)
	}
	if err != nil {
		return err
	}
	events.Emit(ctx, s.events, events.TopicOrders, "order.deleted", id, nil)
	return nil
}
