package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/Rakhulsr/go-perfumery/app/repositories"
	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/Rakhulsr/go-perfumery/app/utils/calc"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// SpecialOffer is an active discount with its computed price.
type SpecialOffer struct {
	repositories.ActiveOffer
	DiscountedPrice decimal.Decimal
}

type OfferService struct {
	db           *gorm.DB
	perfumeRepo  repositories.PerfumeRepository
	discountRepo repositories.DiscountRepository
	logger       *zap.Logger
	now          func() time.Time
}

func NewOfferService(db *gorm.DB, perfumeRepo repositories.PerfumeRepository, discountRepo repositories.DiscountRepository, logger *zap.Logger) *OfferService {
	return &OfferService{
		db:           db,
		perfumeRepo:  perfumeRepo,
		discountRepo: discountRepo,
		logger:       logger.Named("offers"),
		now:          time.Now,
	}
}

func parsePercentage(raw string) (decimal.Decimal, error) {
	pct, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, apperror.Validation("Invalid discount percentage")
	}
	if !calc.ValidDiscountPercentage(pct) {
		return decimal.Zero, apperror.Validation("Discount percentage must be between 0 and 100")
	}
	return pct, nil
}

func (s *OfferService) parseEndDate(raw string) (time.Time, error) {
	end, err := time.ParseInLocation(dateLayout, strings.TrimSpace(raw), time.Local)
	if err != nil {
		return time.Time{}, apperror.Validation("End date must be in YYYY-MM-DD format")
	}
	if end.Before(models.Today(s.now())) {
		return time.Time{}, apperror.Validation("End date cannot be in the past")
	}
	return end, nil
}

// Create starts a discount today. The active-offer check and the insert run
// under the perfume's row lock so two admins cannot both create one.
func (s *OfferService) Create(ctx context.Context, perfumeID uint, rawPercentage, rawEndDate string) (*models.Discount, error) {
	if perfumeID == 0 || strings.TrimSpace(rawPercentage) == "" || strings.TrimSpace(rawEndDate) == "" {
		return nil, apperror.Validation("Perfume ID, discount percentage, and end date are required")
	}
	pct, err := parsePercentage(rawPercentage)
	if err != nil {
		return nil, err
	}
	end, err := s.parseEndDate(rawEndDate)
	if err != nil {
		return nil, err
	}

	today := models.Today(s.now())
	discount := &models.Discount{
		PerfumeID:          perfumeID,
		DiscountPercentage: pct,
		StartDate:          today,
		EndDate:            end,
	}

	err = inTransaction(ctx, s.db, s.logger, func(tx *gorm.DB) error {
		perfume, err := s.perfumeRepo.LockByID(ctx, tx, perfumeID)
		if err != nil {
			return fmt.Errorf("lock perfume: %w", err)
		}
		if perfume == nil {
			return apperror.NotFound("Perfume not found")
		}
		active, err := s.discountRepo.FindActive(ctx, tx, perfumeID, today)
		if err != nil {
			return fmt.Errorf("find active discount: %w", err)
		}
		if active != nil {
			return apperror.Conflict("Perfume already has an active special offer")
		}
		return s.discountRepo.Create(ctx, tx, discount)
	})
	if err != nil {
		return nil, s.wrap("Create", perfumeID, err)
	}
	s.logger.Info("special offer created", zap.Uint("perfume_id", perfumeID), zap.String("discount", pct.String()))
	return discount, nil
}

func (s *OfferService) Update(ctx context.Context, perfumeID uint, rawPercentage, rawEndDate string) error {
	rawPercentage, rawEndDate = strings.TrimSpace(rawPercentage), strings.TrimSpace(rawEndDate)
	if rawPercentage == "" && rawEndDate == "" {
		return apperror.Validation("Discount percentage or end date is required")
	}

	var patch repositories.DiscountPatch
	if rawPercentage != "" {
		pct, err := parsePercentage(rawPercentage)
		if err != nil {
			return err
		}
		patch.DiscountPercentage = &pct
	}
	if rawEndDate != "" {
		end, err := s.parseEndDate(rawEndDate)
		if err != nil {
			return err
		}
		patch.EndDate = &end
	}

	err := inTransaction(ctx, s.db, s.logger, func(tx *gorm.DB) error {
		active, err := s.discountRepo.FindActive(ctx, tx, perfumeID, models.Today(s.now()))
		if err != nil {
			return fmt.Errorf("find active discount: %w", err)
		}
		if active == nil {
			return apperror.NotFound("No active special offer found for this perfume")
		}
		_, err = s.discountRepo.Update(ctx, tx, active.ID, patch)
		return err
	})
	if err != nil {
		return s.wrap("Update", perfumeID, err)
	}
	return nil
}

func (s *OfferService) Delete(ctx context.Context, perfumeID uint) error {
	err := inTransaction(ctx, s.db, s.logger, func(tx *gorm.DB) error {
		active, err := s.discountRepo.FindActive(ctx, tx, perfumeID, models.Today(s.now()))
		if err != nil {
			return fmt.Errorf("find active discount: %w", err)
		}
		if active == nil {
			return apperror.NotFound("No active special offer found for this perfume")
		}
		return s.discountRepo.Delete(ctx, tx, active.ID)
	})
	if err != nil {
		return s.wrap("Delete", perfumeID, err)
	}
	return nil
}

func (s *OfferService) ListActive(ctx context.Context) ([]SpecialOffer, error) {
	rows, err := s.discountRepo.ListActiveOffers(ctx, models.Today(s.now()))
	if err != nil {
		return nil, apperror.Internal("Failed to retrieve special offers", err)
	}
	offers := make([]SpecialOffer, 0, len(rows))
	for _, row := range rows {
		offers = append(offers, SpecialOffer{
			ActiveOffer:     row,
			DiscountedPrice: calc.DiscountedPrice(row.Price, row.DiscountPercentage),
		})
	}
	return offers, nil
}

func (s *OfferService) wrap(op string, perfumeID uint, err error) error {
	if appErr, ok := asAppError(err); ok {
		return appErr
	}
	s.logger.Error(op+": special offer failed", zap.Uint("perfume_id", perfumeID), zap.Error(err))
	return apperror.Internal("Database error", err)
}
