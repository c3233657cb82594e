package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartLine is a cart row with the live perfume data it points at.
type CartLine struct {
	ID        uint
	PerfumeID uint
	Name      string
	Price     decimal.Decimal
	Quantity  int
	Size      string
	Stock     int
	Available bool
	AddedAt   time.Time
}

type CartItemRepository interface {
	FindByKey(ctx context.Context, tx *gorm.DB, userID, perfumeID uint, size string) (*models.CartItem, error)
	Upsert(ctx context.Context, tx *gorm.DB, item *models.CartItem) error
	ListLines(ctx context.Context, userID uint) ([]CartLine, error)
	DeleteByPerfume(ctx context.Context, userID, perfumeID uint) (int64, error)
	ClearCartItems(ctx context.Context, tx *gorm.DB, userID uint) error
	DeleteAllForPerfume(ctx context.Context, tx *gorm.DB, perfumeID uint) error
}

type gormCartItemRepository struct {
	db *gorm.DB
}

func NewCartItemRepository(db *gorm.DB) CartItemRepository {
	return &gormCartItemRepository{db: db}
}

func (r *gormCartItemRepository) FindByKey(ctx context.Context, tx *gorm.DB, userID, perfumeID uint, size string) (*models.CartItem, error) {
	var item models.CartItem
	err := tx.WithContext(ctx).
		Where("user_id = ? AND perfume_id = ? AND size = ?", userID, perfumeID, size).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Upsert inserts the row or, on a (user, perfume, size) clash, overwrites
// the quantity with item.Quantity. added_at keeps its first value.
func (r *gormCartItemRepository) Upsert(ctx context.Context, tx *gorm.DB, item *models.CartItem) error {
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "perfume_id"}, {Name: "size"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity"}),
	}).Create(item).Error
}

func (r *gormCartItemRepository) ListLines(ctx context.Context, userID uint) ([]CartLine, error) {
	var lines []CartLine
	err := r.db.WithContext(ctx).
		Table("cart_items AS c").
		Select("c.id, c.perfume_id, p.name, p.price, c.quantity, c.size, p.quantity AS stock, p.available, c.added_at").
		Joins("JOIN perfumes AS p ON p.id = c.perfume_id AND p.deleted_at IS NULL").
		Where("c.user_id = ?", userID).
		Order("c.added_at DESC").
		Order("c.id DESC").
		Scan(&lines).Error
	return lines, err
}

func (r *gormCartItemRepository) DeleteByPerfume(ctx context.Context, userID, perfumeID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND perfume_id = ?", userID, perfumeID).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

func (r *gormCartItemRepository) ClearCartItems(ctx context.Context, tx *gorm.DB, userID uint) error {
	return tx.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}

func (r *gormCartItemRepository) DeleteAllForPerfume(ctx context.Context, tx *gorm.DB, perfumeID uint) error {
	return tx.WithContext(ctx).Where("perfume_id = ?", perfumeID).Delete(&models.CartItem{}).Error
}
