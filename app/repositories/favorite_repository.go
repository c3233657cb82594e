package repositories

import (
	"context"
	"time"

	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteLine struct {
	ID        uint
	PerfumeID uint
	Name      string
	Price     decimal.Decimal
	Sizes     models.SizeList `gorm:"column:size"`
	AddedAt   time.Time
}

type FavoriteRepository interface {
	Add(ctx context.Context, userID, perfumeID uint) (bool, error)
	ListLines(ctx context.Context, userID uint) ([]FavoriteLine, error)
	FindPerfumeIDs(ctx context.Context, userID uint, perfumeIDs []uint) ([]uint, error)
	Remove(ctx context.Context, userID uint, perfumeIDs []uint) (int64, error)
	DeleteAllForPerfume(ctx context.Context, tx *gorm.DB, perfumeID uint) error
}

type gormFavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &gormFavoriteRepository{db: db}
}

// Add behaves like INSERT IGNORE; false means the pair already existed.
func (r *gormFavoriteRepository) Add(ctx context.Context, userID, perfumeID uint) (bool, error) {
	fav := &models.Favorite{UserID: userID, PerfumeID: perfumeID, AddedAt: time.Now()}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "perfume_id"}},
		DoNothing: true,
	}).Create(fav)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormFavoriteRepository) ListLines(ctx context.Context, userID uint) ([]FavoriteLine, error) {
	var lines []FavoriteLine
	err := r.db.WithContext(ctx).
		Table("favorites AS f").
		Select("f.id, f.perfume_id, p.name, p.price, p.size, f.added_at").
		Joins("JOIN perfumes AS p ON p.id = f.perfume_id AND p.deleted_at IS NULL").
		Where("f.user_id = ? AND p.available = ?", userID, true).
		Order("f.added_at DESC").
		Order("f.id DESC").
		Scan(&lines).Error
	return lines, err
}

func (r *gormFavoriteRepository) FindPerfumeIDs(ctx context.Context, userID uint, perfumeIDs []uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND perfume_id IN ?", userID, perfumeIDs).
		Order("perfume_id ASC").
		Pluck("perfume_id", &ids).Error
	return ids, err
}

func (r *gormFavoriteRepository) Remove(ctx context.Context, userID uint, perfumeIDs []uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND perfume_id IN ?", userID, perfumeIDs).
		Delete(&models.Favorite{})
	return res.RowsAffected, res.Error
}

func (r *gormFavoriteRepository) DeleteAllForPerfume(ctx context.Context, tx *gorm.DB, perfumeID uint) error {
	return tx.WithContext(ctx).Where("perfume_id = ?", perfumeID).Delete(&models.Favorite{}).Error
}
