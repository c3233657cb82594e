package repositories

import (
	"context"

	"github.com/Rakhulsr/go-perfumery/app/models"
	"gorm.io/gorm"
)

type OrderItemRepository interface {
	Create(ctx context.Context, tx *gorm.DB, item *models.OrderItem) error
	ListByOrderID(ctx context.Context, tx *gorm.DB, orderID uint) ([]models.OrderItem, error)
}

type gormOrderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &gormOrderItemRepository{db: db}
}

func (r *gormOrderItemRepository) Create(ctx context.Context, tx *gorm.DB, item *models.OrderItem) error {
	return tx.WithContext(ctx).Omit("Perfume").Create(item).Error
}

func (r *gormOrderItemRepository) ListByOrderID(ctx context.Context, tx *gorm.DB, orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := tx.WithContext(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error
	return items, err
}
