package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Rakhulsr/go-perfumery/app/models"
	"gorm.io/gorm"
)

type ReviewLine struct {
	ID          uint
	PerfumeID   uint
	PerfumeName string
	UserID      uint
	Username    string
	Rating      int
	Comment     string
	CreatedAt   time.Time
}

type RatingStats struct {
	PerfumeID     uint
	PerfumeName   string
	AverageRating float64
	TotalReviews  int64
}

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id uint) (*models.Review, error)
	Exists(ctx context.Context, perfumeID, userID uint) (bool, error)
	Delete(ctx context.Context, id uint) (int64, error)
	DeleteAllForPerfume(ctx context.Context, tx *gorm.DB, perfumeID uint) error
	ListByPerfume(ctx context.Context, perfumeID uint) ([]ReviewLine, error)
	ListByUser(ctx context.Context, userID uint) ([]ReviewLine, error)
	ListAll(ctx context.Context) ([]ReviewLine, error)
	StatsForPerfume(ctx context.Context, perfumeID uint) (RatingStats, error)
	StatsByPerfume(ctx context.Context) ([]RatingStats, error)
	GlobalStats(ctx context.Context) (RatingStats, error)
}

type gormReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &gormReviewRepository{db: db}
}

func (r *gormReviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Omit("Perfume", "User").Create(review).Error
}

func (r *gormReviewRepository) FindByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Preload("Perfume", func(db *gorm.DB) *gorm.DB { return db.Unscoped().Select("id", "name") }).
		First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *gormReviewRepository) Exists(ctx context.Context, perfumeID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("perfume_id = ? AND user_id = ?", perfumeID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *gormReviewRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	return res.RowsAffected, res.Error
}

func (r *gormReviewRepository) DeleteAllForPerfume(ctx context.Context, tx *gorm.DB, perfumeID uint) error {
	return tx.WithContext(ctx).Where("perfume_id = ?", perfumeID).Delete(&models.Review{}).Error
}

func (r *gormReviewRepository) lines(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("reviews AS r").
		Select("r.id, r.perfume_id, p.name AS perfume_name, r.user_id, u.username, r.rating, r.comment, r.created_at").
		Joins("JOIN users AS u ON u.id = r.user_id").
		Joins("JOIN perfumes AS p ON p.id = r.perfume_id AND p.deleted_at IS NULL").
		Order("r.created_at DESC").
		Order("r.id DESC")
}

func (r *gormReviewRepository) ListByPerfume(ctx context.Context, perfumeID uint) ([]ReviewLine, error) {
	var lines []ReviewLine
	err := r.lines(ctx).Where("r.perfume_id = ?", perfumeID).Scan(&lines).Error
	return lines, err
}

func (r *gormReviewRepository) ListByUser(ctx context.Context, userID uint) ([]ReviewLine, error) {
	var lines []ReviewLine
	err := r.lines(ctx).Where("r.user_id = ?", userID).Scan(&lines).Error
	return lines, err
}

func (r *gormReviewRepository) ListAll(ctx context.Context) ([]ReviewLine, error) {
	var lines []ReviewLine
	err := r.lines(ctx).Scan(&lines).Error
	return lines, err
}

func (r *gormReviewRepository) StatsForPerfume(ctx context.Context, perfumeID uint) (RatingStats, error) {
	stats := RatingStats{PerfumeID: perfumeID}
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS total_reviews").
		Where("perfume_id = ?", perfumeID).
		Scan(&stats).Error
	return stats, err
}

func (r *gormReviewRepository) StatsByPerfume(ctx context.Context) ([]RatingStats, error) {
	var stats []RatingStats
	err := r.db.WithContext(ctx).
		Table("reviews AS r").
		Select("r.perfume_id, p.name AS perfume_name, AVG(r.rating) AS average_rating, COUNT(*) AS total_reviews").
		Joins("JOIN perfumes AS p ON p.id = r.perfume_id AND p.deleted_at IS NULL").
		Group("r.perfume_id, p.name").
		Order("average_rating DESC").
		Order("r.perfume_id ASC").
		Scan(&stats).Error
	return stats, err
}

func (r *gormReviewRepository) GlobalStats(ctx context.Context) (RatingStats, error) {
	var stats RatingStats
	err := r.db.WithContext(ctx).
		Table("reviews AS r").
		Select("COALESCE(AVG(r.rating), 0) AS average_rating, COUNT(*) AS total_reviews").
		Joins("JOIN perfumes AS p ON p.id = r.perfume_id AND p.deleted_at IS NULL").
		Scan(&stats).Error
	return stats, err
}
