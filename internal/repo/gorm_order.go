package repo

import (
	"context"
	"time"

	"github.com/Skotchmaster/shopit/internal/models"
)

func (r *GormRepo) CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	if o.ID == "" {
		o.ID = newID()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	if o.OrderStatus == "" {
		o.OrderStatus = models.StatusProcessing
	}
	if err := r.DB.WithContext(ctx).Create(o).Error; err != nil {
		return nil, err
	}
	return o, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var order models.Order
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, translateGormErr(err, "")
	}
	return &order, nil
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	if err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id, status string, deliveredAt *time.Time) (*models.Order, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	updates := map[string]any{"order_status": status}
	if deliveredAt != nil {
		updates["delivered_at"] = deliveredAt.UTC()
	}

	res := r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetOrder(ctx, id)
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res := r.DB.WithContext(ctx).Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
