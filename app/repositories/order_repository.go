package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Rakhulsr/go-perfumery/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderFilter struct {
	Status *models.OrderStatus
	Start  *time.Time
	End    *time.Time // exclusive
	Limit  int
	Offset int
}

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *models.Order) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, orderID uint, status models.OrderStatus) error
	LockByID(ctx context.Context, tx *gorm.DB, orderID uint) (*models.Order, error)
	GetByID(ctx context.Context, orderID uint) (*models.Order, error)
	FindByUserID(ctx context.Context, userID uint, limit int) ([]models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error)
}

type gormOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: db}
}

// order items keep pointing at perfumes that were deleted later
func preloadItems(q *gorm.DB) *gorm.DB {
	return q.
		Preload("OrderItems", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Preload("OrderItems.Perfume", func(db *gorm.DB) *gorm.DB { return db.Unscoped().Omit("photo") })
}

func (r *gormOrderRepository) Create(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	return tx.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *gormOrderRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, orderID uint, status models.OrderStatus) error {
	return tx.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Update("status", status).Error
}

func (r *gormOrderRepository) LockByID(ctx context.Context, tx *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) GetByID(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := preloadItems(r.db.WithContext(ctx)).Preload("PaymentDetail").First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) FindByUserID(ctx context.Context, userID uint, limit int) ([]models.Order, error) {
	q := preloadItems(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *gormOrderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Start != nil {
		q = q.Where("created_at >= ?", *filter.Start)
	}
	if filter.End != nil {
		q = q.Where("created_at < ?", *filter.End)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := preloadItems(q.Session(&gorm.Session{})).
		Preload("User").
		Order("created_at DESC").
		Order("id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
