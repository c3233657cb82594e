package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PerfumeFilter struct {
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	InStockOnly bool
}

type PerfumePatch struct {
	Name         *string          `patch:"name"`
	Price        *decimal.Decimal `patch:"price"`
	Description  *string          `patch:"description"`
	Category     *string          `patch:"category"`
	Quantity     *int             `patch:"quantity"`
	Available    *bool            `patch:"available"`
	Sizes        models.SizeList  `patch:"size"`
	TopNotes     *string          `patch:"top_notes"`
	HeartNotes   *string          `patch:"heart_notes"`
	BaseNotes    *string          `patch:"base_notes"`
	Photo        []byte           `patch:"photo"`
	PhotoType    *string          `patch:"photo_type"`
	IsBestSeller *bool            `patch:"is_best_seller"`
}

type PerfumeRepository interface {
	Create(ctx context.Context, perfume *models.Perfume) error
	FindByID(ctx context.Context, id uint) (*models.Perfume, error)
	FindAvailableByID(ctx context.Context, id uint) (*models.Perfume, error)
	FindWithPhoto(ctx context.Context, id uint) (*models.Perfume, error)
	FindUnscoped(ctx context.Context, id uint) (*models.Perfume, error)
	ListAll(ctx context.Context) ([]models.Perfume, error)
	ListAvailable(ctx context.Context, filter PerfumeFilter) ([]models.Perfume, error)
	BestSellers(ctx context.Context, limit int) ([]models.Perfume, error)
	NewArrivals(ctx context.Context, since time.Time, limit int) ([]models.Perfume, error)
	Update(ctx context.Context, id uint, patch PerfumePatch) (int64, error)
	LockByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Perfume, error)
	LockAvailableByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Perfume, error)
	DecrementStock(ctx context.Context, tx *gorm.DB, id uint, qty int) error
	IncrementStock(ctx context.Context, tx *gorm.DB, id uint, qty int) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type gormPerfumeRepository struct {
	db *gorm.DB
}

func NewPerfumeRepository(db *gorm.DB) PerfumeRepository {
	return &gormPerfumeRepository{db: db}
}

// listing queries never pull the photo blob
func withoutPhoto(q *gorm.DB) *gorm.DB {
	return q.Omit("photo")
}

func firstPerfume(q *gorm.DB) (*models.Perfume, error) {
	var perfume models.Perfume
	if err := q.First(&perfume).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &perfume, nil
}

func (r *gormPerfumeRepository) Create(ctx context.Context, perfume *models.Perfume) error {
	return r.db.WithContext(ctx).Create(perfume).Error
}

func (r *gormPerfumeRepository) FindByID(ctx context.Context, id uint) (*models.Perfume, error) {
	return firstPerfume(withoutPhoto(r.db.WithContext(ctx)).Where("id = ?", id))
}

func (r *gormPerfumeRepository) FindAvailableByID(ctx context.Context, id uint) (*models.Perfume, error) {
	return firstPerfume(withoutPhoto(r.db.WithContext(ctx)).Where("id = ? AND available = ?", id, true))
}

func (r *gormPerfumeRepository) FindWithPhoto(ctx context.Context, id uint) (*models.Perfume, error) {
	return firstPerfume(r.db.WithContext(ctx).Select("id", "photo", "photo_type").Where("id = ?", id))
}

// FindUnscoped also returns soft-deleted perfumes, for order history and reports.
func (r *gormPerfumeRepository) FindUnscoped(ctx context.Context, id uint) (*models.Perfume, error) {
	return firstPerfume(withoutPhoto(r.db.WithContext(ctx).Unscoped()).Where("id = ?", id))
}

func (r *gormPerfumeRepository) ListAll(ctx context.Context) ([]models.Perfume, error) {
	var perfumes []models.Perfume
	err := withoutPhoto(r.db.WithContext(ctx)).Order("id DESC").Find(&perfumes).Error
	return perfumes, err
}

func (r *gormPerfumeRepository) ListAvailable(ctx context.Context, filter PerfumeFilter) ([]models.Perfume, error) {
	q := withoutPhoto(r.db.WithContext(ctx)).Where("available = ?", true)
	if filter.InStockOnly {
		q = q.Where("quantity > 0")
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}

	var perfumes []models.Perfume
	err := q.Order("id DESC").Find(&perfumes).Error
	return perfumes, err
}

func (r *gormPerfumeRepository) BestSellers(ctx context.Context, limit int) ([]models.Perfume, error) {
	var perfumes []models.Perfume
	err := withoutPhoto(r.db.WithContext(ctx)).
		Where("available = ? AND is_best_seller = ?", true, true).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&perfumes).Error
	return perfumes, err
}

func (r *gormPerfumeRepository) NewArrivals(ctx context.Context, since time.Time, limit int) ([]models.Perfume, error) {
	var perfumes []models.Perfume
	err := withoutPhoto(r.db.WithContext(ctx)).
		Where("available = ? AND created_at >= ?", true, since).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&perfumes).Error
	return perfumes, err
}

func (r *gormPerfumeRepository) Update(ctx context.Context, id uint, patch PerfumePatch) (int64, error) {
	return applyPatch(r.db.WithContext(ctx).Model(&models.Perfume{}).Where("id = ?", id), patch)
}

func (r *gormPerfumeRepository) LockByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Perfume, error) {
	return firstPerfume(withoutPhoto(tx.WithContext(ctx)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

// LockAvailableByID reads the row with SELECT ... FOR UPDATE so the stock
// check and the decrement that follows cannot interleave with another order.
func (r *gormPerfumeRepository) LockAvailableByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Perfume, error) {
	return firstPerfume(withoutPhoto(tx.WithContext(ctx)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND available = ?", id, true))
}

func (r *gormPerfumeRepository) DecrementStock(ctx context.Context, tx *gorm.DB, id uint, qty int) error {
	res := tx.WithContext(ctx).Model(&models.Perfume{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Updates(map[string]any{"quantity": gorm.Expr("quantity - ?", qty)})
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock of perfume %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *gormPerfumeRepository) IncrementStock(ctx context.Context, tx *gorm.DB, id uint, qty int) error {
	// restocking a since-deleted perfume is still tracked
	return tx.WithContext(ctx).Unscoped().Model(&models.Perfume{}).
		Where("id = ?", id).
		Updates(map[string]any{"quantity": gorm.Expr("quantity + ?", qty)}).Error
}

func (r *gormPerfumeRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).Delete(&models.Perfume{}, id).Error
}
