package repositories

import (
	"context"
	"errors"

	"github.com/Rakhulsr/go-perfumery/app/models"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, detail *models.PaymentDetail) error
	FindByOrderID(ctx context.Context, orderID uint) (*models.PaymentDetail, error)
}

type gormPaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &gormPaymentRepository{db: db}
}

func (r *gormPaymentRepository) Create(ctx context.Context, tx *gorm.DB, detail *models.PaymentDetail) error {
	return tx.WithContext(ctx).Create(detail).Error
}

func (r *gormPaymentRepository) FindByOrderID(ctx context.Context, orderID uint) (*models.PaymentDetail, error) {
	var detail models.PaymentDetail
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&detail).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &detail, nil
}
