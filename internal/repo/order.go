package repo

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/order_ledger/internal/models"
)

const creationOrder = "created_at ASC, id ASC"

func (r *GormRepo) OrderNumberExists(ctx context.Context, number string) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Where("order_number = ?", number).Count(&n).Error; err != nil {
		return false, translate(err, "check order number")
	}
	return n > 0, nil
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return translate(r.DB.WithContext(ctx).Create(order).Error, "create order")
}

func (r *GormRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return translate(r.DB.WithContext(ctx).Create(&items).Error, "create order items")
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order := models.Order{}
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("order %d", id))
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Order(creationOrder).Find(&orders).Error; err != nil {
		return nil, translate(err, "list orders")
	}
	return orders, nil
}

func (r *GormRepo) ListOrdersPage(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return 0, nil, translate(err, "count orders")
	}

	var orders []models.Order
	if err := r.DB.WithContext(ctx).Order(creationOrder).Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return 0, nil, translate(err, "list orders")
	}
	return total, orders, nil
}

// ListOrderItems returns the items of the given orders grouped by order, in insertion order.
func (r *GormRepo) ListOrderItems(ctx context.Context, orderIDs ...uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if len(orderIDs) == 0 {
		return items, nil
	}
	if err := r.DB.WithContext(ctx).Where("order_id IN ?", orderIDs).Order("order_id ASC, id ASC").Find(&items).Error; err != nil {
		return nil, translate(err, "list order items")
	}
	return items, nil
}
