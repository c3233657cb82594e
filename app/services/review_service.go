package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/Rakhulsr/go-perfumery/app/repositories"
	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/Rakhulsr/go-perfumery/app/utils/calc"
	"github.com/Rakhulsr/go-perfumery/app/utils/token"
	"go.uber.org/zap"
)

type PerfumeReviews struct {
	Perfume       *models.Perfume
	AverageRating float64
	TotalReviews  int64
	Reviews       []repositories.ReviewLine
}

type PerfumeReviewGroup struct {
	PerfumeID     uint
	PerfumeName   string
	AverageRating float64
	Reviews       []repositories.ReviewLine
}

type ReviewOverview struct {
	GlobalAverage float64
	TotalReviews  int64
	PerPerfume    []repositories.RatingStats
	Reviews       []repositories.ReviewLine
}

type ReviewService struct {
	reviewRepo  repositories.ReviewRepository
	perfumeRepo repositories.PerfumeRepository
	logger      *zap.Logger
}

func NewReviewService(reviewRepo repositories.ReviewRepository, perfumeRepo repositories.PerfumeRepository, logger *zap.Logger) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, perfumeRepo: perfumeRepo, logger: logger.Named("reviews")}
}

func validateReview(rawRating, comment string) (int, string, error) {
	rating, err := strconv.Atoi(strings.TrimSpace(rawRating))
	if err != nil {
		return 0, "", apperror.Validation("Rating must be a valid number between 1 and 5")
	}
	if rating < models.MinRating || rating > models.MaxRating {
		return 0, "", apperror.Validation("Rating must be between 1 and 5")
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return 0, "", apperror.Validation("Comment is required")
	}
	if len([]rune(comment)) > models.MaxCommentLength {
		return 0, "", apperror.Validation("Comment too long (max 500 characters)")
	}
	return rating, comment, nil
}

func (s *ReviewService) Create(ctx context.Context, claims *token.Claims, perfumeID uint, rawRating, comment string) (*models.Review, error) {
	perfume, err := s.perfumeRepo.FindByID(ctx, perfumeID)
	if err != nil {
		return nil, apperror.Internal("Database error", err)
	}
	if perfume == nil {
		return nil, apperror.NotFound("Perfume not found")
	}

	exists, err := s.reviewRepo.Exists(ctx, perfumeID, claims.UserID)
	if err != nil {
		return nil, apperror.Internal("Database error", err)
	}
	if exists {
		return nil, apperror.Conflict("You have already reviewed this perfume")
	}

	rating, comment, err := validateReview(rawRating, comment)
	if err != nil {
		return nil, err
	}

	review := &models.Review{PerfumeID: perfumeID, UserID: claims.UserID, Rating: rating, Comment: comment}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if _, dup := repositories.DuplicateKey(err); dup {
			return nil, apperror.Conflict("You have already reviewed this perfume")
		}
		s.logger.Error("Create: failed to insert review", zap.Uint("perfume_id", perfumeID), zap.Error(err))
		return nil, apperror.Internal("Database error", err)
	}
	s.logger.Info("review added", zap.Uint("review_id", review.ID), zap.Uint("user_id", claims.UserID), zap.Uint("perfume_id", perfumeID))
	return review, nil
}

func (s *ReviewService) ForPerfume(ctx context.Context, perfumeID uint) (*PerfumeReviews, error) {
	perfume, err := s.perfumeRepo.FindByID(ctx, perfumeID)
	if err != nil {
		return nil, apperror.Internal("Failed to retrieve reviews", err)
	}
	if perfume == nil {
		return nil, apperror.NotFound("Perfume not found")
	}
	reviews, err := s.reviewRepo.ListByPerfume(ctx, perfumeID)
	if err != nil {
		return nil, apperror.Internal("Failed to retrieve reviews", err)
	}
	stats, err := s.reviewRepo.StatsForPerfume(ctx, perfumeID)
	if err != nil {
		return nil, apperror.Internal("Failed to retrieve reviews", err)
	}
	return &PerfumeReviews{
		Perfume:       perfume,
		AverageRating: calc.AverageRating(stats.AverageRating),
		TotalReviews:  stats.TotalReviews,
		Reviews:       reviews,
	}, nil
}

// Delete lets admins remove any review and customers only their own.
// perfumeID of zero skips the perfume match.
func (s *ReviewService) Delete(ctx context.Context, claims *token.Claims, perfumeID, reviewID uint) (*models.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, apperror.Internal("Database error", err)
	}
	if review == nil || (perfumeID != 0 && review.PerfumeID != perfumeID) {
		return nil, apperror.NotFound("Review not found")
	}
	if claims.RoleID != models.RoleAdmin && review.UserID != claims.UserID {
		return nil, apperror.Forbidden("You can only delete your own reviews")
	}

	rows, err := s.reviewRepo.Delete(ctx, reviewID)
	if err != nil {
		s.logger.Error("Delete: failed to delete review", zap.Uint("review_id", reviewID), zap.Error(err))
		return nil, apperror.Internal("Database error", err)
	}
	if rows == 0 {
		return nil, apperror.NotFound("Review not found or already deleted")
	}
	s.logger.Info("review deleted", zap.Uint("review_id", reviewID), zap.Uint("by_user", claims.UserID), zap.String("role", models.RoleName(claims.RoleID)))
	return review, nil
}

// GroupedByPerfume keeps the newest-first order of reviews inside each
// group and orders groups by their newest review.
func (s *ReviewService) GroupedByPerfume(ctx context.Context) ([]PerfumeReviewGroup, int, error) {
	reviews, err := s.reviewRepo.ListAll(ctx)
	if err != nil {
		return nil, 0, apperror.Internal("Failed to retrieve reviews", err)
	}

	index := map[uint]int{}
	var groups []PerfumeReviewGroup
	sums := map[uint]int{}
	for _, r := range reviews {
		i, ok := index[r.PerfumeID]
		if !ok {
			i = len(groups)
			index[r.PerfumeID] = i
			groups = append(groups, PerfumeReviewGroup{PerfumeID: r.PerfumeID, PerfumeName: r.PerfumeName})
		}
		groups[i].Reviews = append(groups[i].Reviews, r)
		sums[r.PerfumeID] += r.Rating
	}
	for i := range groups {
		avg := float64(sums[groups[i].PerfumeID]) / float64(len(groups[i].Reviews))
		groups[i].AverageRating = calc.AverageRating(avg)
	}
	return groups, len(reviews), nil
}

func (s *ReviewService) ForUser(ctx context.Context, claims *token.Claims, userID uint) ([]repositories.ReviewLine, error) {
	if claims.UserID != userID {
		return nil, apperror.Forbidden("You can only view your own reviews")
	}
	reviews, err := s.reviewRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("Failed to retrieve reviews", err)
	}
	return reviews, nil
}

func (s *ReviewService) Overview(ctx context.Context) (*ReviewOverview, error) {
	reviews, err := s.reviewRepo.ListAll(ctx)
	if err != nil {
		return nil, apperror.Internal("Failed to retrieve reviews", err)
	}
	perPerfume, err := s.reviewRepo.StatsByPerfume(ctx)
	if err != nil {
		return nil, apperror.Internal("Failed to retrieve reviews", err)
	}
	global, err := s.reviewRepo.GlobalStats(ctx)
	if err != nil {
		return nil, apperror.Internal("Failed to retrieve reviews", err)
	}
	for i := range perPerfume {
		perPerfume[i].AverageRating = calc.AverageRating(perPerfume[i].AverageRating)
	}
	return &ReviewOverview{
		GlobalAverage: calc.AverageRating(global.AverageRating),
		TotalReviews:  global.TotalReviews,
		PerPerfume:    perPerfume,
		Reviews:       reviews,
	}, nil
}
