package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DiscountPatch struct {
	DiscountPercentage *decimal.Decimal `patch:"discount_percentage"`
	EndDate            *time.Time       `patch:"end_date"`
}

// ActiveOffer is a perfume joined with its running discount.
type ActiveOffer struct {
	ID                 uint
	Name               string
	Description        string
	Price              decimal.Decimal
	Quantity           int
	Category           string
	Sizes              models.SizeList `gorm:"column:size"`
	TopNotes           string
	HeartNotes         string
	BaseNotes          string
	IsBestSeller       bool
	DiscountID         uint
	DiscountPercentage decimal.Decimal
	StartDate          time.Time
	EndDate            time.Time
}

type DiscountRepository interface {
	Create(ctx context.Context, tx *gorm.DB, discount *models.Discount) error
	FindActive(ctx context.Context, tx *gorm.DB, perfumeID uint, today time.Time) (*models.Discount, error)
	Update(ctx context.Context, tx *gorm.DB, id uint, patch DiscountPatch) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	DeleteByPerfume(ctx context.Context, tx *gorm.DB, perfumeID uint) error
	ListActiveOffers(ctx context.Context, today time.Time) ([]ActiveOffer, error)
}

type gormDiscountRepository struct {
	db *gorm.DB
}

func NewDiscountRepository(db *gorm.DB) DiscountRepository {
	return &gormDiscountRepository{db: db}
}

func (r *gormDiscountRepository) Create(ctx context.Context, tx *gorm.DB, discount *models.Discount) error {
	return tx.WithContext(ctx).Create(discount).Error
}

func (r *gormDiscountRepository) FindActive(ctx context.Context, tx *gorm.DB, perfumeID uint, today time.Time) (*models.Discount, error) {
	var discount models.Discount
	err := tx.WithContext(ctx).
		Where("perfume_id = ? AND end_date >= ?", perfumeID, today).
		Order("end_date DESC").
		First(&discount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &discount, nil
}

func (r *gormDiscountRepository) Update(ctx context.Context, tx *gorm.DB, id uint, patch DiscountPatch) (int64, error) {
	return applyPatch(tx.WithContext(ctx).Model(&models.Discount{}).Where("id = ?", id), patch)
}

func (r *gormDiscountRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).Delete(&models.Discount{}, id).Error
}

func (r *gormDiscountRepository) DeleteByPerfume(ctx context.Context, tx *gorm.DB, perfumeID uint) error {
	return tx.WithContext(ctx).Where("perfume_id = ?", perfumeID).Delete(&models.Discount{}).Error
}

func (r *gormDiscountRepository) ListActiveOffers(ctx context.Context, today time.Time) ([]ActiveOffer, error) {
	var offers []ActiveOffer
	err := r.db.WithContext(ctx).
		Table("discounts AS d").
		Select(`p.id, p.name, p.description, p.price, p.quantity, p.category, p.size,
			p.top_notes, p.heart_notes, p.base_notes, p.is_best_seller,
			d.id AS discount_id, d.discount_percentage, d.start_date, d.end_date`).
		Joins("JOIN perfumes AS p ON p.id = d.perfume_id AND p.deleted_at IS NULL").
		Where("d.end_date >= ? AND p.available = ?", today, true).
		Order("d.discount_percentage DESC").
		Order("p.id ASC").
		Scan(&offers).Error
	return offers, err
}
