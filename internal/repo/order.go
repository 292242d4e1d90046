package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Skotchmaster/altazaj/internal/domain"
	"github.com/Skotchmaster/altazaj/internal/models"
)

func itemsByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return errors.Wrap(r.DB.WithContext(ctx).Create(order).Error, "create order")
}

// ListOrders returns orders newest first. A non-positive limit returns all.
func (r *GormRepo) ListOrders(ctx context.Context, limit int) ([]models.Order, error) {
	q := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Items", itemsByPosition).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	orders := make([]models.Order, 0)
	if err := q.Find(&orders).Error; err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return orders, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items", itemsByPosition).
		First(&order, "id = ?", id).Error; err != nil {
		return nil, errors.Wrap(err, "get order")
	}
	return &order, nil
}

// UpdateOrderStatus moves the order from one status to another only if it is
// still in from, and records the change in the status log.
func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to domain.Status, at time.Time) (*models.Order, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", id, from).
			Updates(map[string]any{"status": to, "updated_at": at})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}

		return tx.Create(&models.OrderStatusLog{
			OrderID:    id,
			FromStatus: from,
			ToStatus:   to,
			CreatedAt:  at,
		}).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, "update order status")
	}

	return r.GetOrder(ctx, id)
}

func (r *GormRepo) OrderHistory(ctx context.Context, id uuid.UUID) ([]models.OrderStatusLog, error) {
	logs := make([]models.OrderStatusLog, 0)
	if err := r.DB.WithContext(ctx).
		Where("order_id = ?", id).
		Order("created_at ASC").
		Order("id ASC").
		Find(&logs).Error; err != nil {
		return nil, errors.Wrap(err, "order history")
	}
	return logs, nil
}
