package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Rakhulsr/go-perfumery/app/helpers"
	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/Rakhulsr/go-perfumery/app/repositories"
	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/Rakhulsr/go-perfumery/app/utils/calc"
	"github.com/gabriel-vasile/mimetype"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultStockQuantity = 100
	maxDescriptionLength = 1000
	maxNotesLength       = 500
	featuredLimit        = 10
	newArrivalWindow     = 30 * 24 * time.Hour
)

var (
	createPhotoTypes = map[string]string{".jpg": "image/jpeg", ".jpeg": "image/jpeg", ".png": "image/png"}
	updatePhotoTypes = map[string]string{".jpg": "image/jpeg", ".jpeg": "image/jpeg", ".png": "image/png", ".gif": "image/gif"}
)

type PhotoUpload struct {
	Filename string
	Data     []byte
}

// PerfumeForm holds raw form values; nil means the field was not sent.
type PerfumeForm struct {
	Name        *string
	Price       *string
	Description *string
	Category    *string
	Quantity    *string
	TopNotes    *string
	HeartNotes  *string
	BaseNotes   *string
	Sizes       []string
	Photo       *PhotoUpload
}

type CatalogService struct {
	db            *gorm.DB
	perfumeRepo   repositories.PerfumeRepository
	cartItemRepo  repositories.CartItemRepository
	favoriteRepo  repositories.FavoriteRepository
	reviewRepo    repositories.ReviewRepository
	discountRepo  repositories.DiscountRepository
	maxPhotoBytes int64
	logger        *zap.Logger
	now           func() time.Time
}

func NewCatalogService(
	db *gorm.DB,
	perfumeRepo repositories.PerfumeRepository,
	cartItemRepo repositories.CartItemRepository,
	favoriteRepo repositories.FavoriteRepository,
	reviewRepo repositories.ReviewRepository,
	discountRepo repositories.DiscountRepository,
	maxPhotoBytes int64,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		db:            db,
		perfumeRepo:   perfumeRepo,
		cartItemRepo:  cartItemRepo,
		favoriteRepo:  favoriteRepo,
		reviewRepo:    reviewRepo,
		discountRepo:  discountRepo,
		maxPhotoBytes: maxPhotoBytes,
		logger:        logger.Named("catalog"),
		now:           time.Now,
	}
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < 2 {
		return "", apperror.Validation("Name must be at least 2 characters long")
	}
	return name, nil
}

func validatePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, apperror.Validation("Price must be a valid number")
	}
	if !price.IsPositive() {
		return decimal.Zero, apperror.Validation("Price must be greater than 0")
	}
	if !calc.HasAtMostTwoDecimals(price) {
		return decimal.Zero, apperror.Validation("Price can have maximum 2 decimal places")
	}
	return price.Round(2), nil
}

func validateCategory(raw string) (string, error) {
	category := strings.ToLower(strings.TrimSpace(raw))
	switch category {
	case models.CategoryMen, models.CategoryWomen, models.CategoryUnisex:
		return category, nil
	}
	return "", apperror.Validation("Category must be 'men', 'women', or 'unisex'")
}

func validateSizes(raw []string) (models.SizeList, error) {
	sizes := models.SizeList{}
	for _, s := range raw {
		s = strings.ToLower(strings.TrimSpace(s))
		if !helpers.IsValidSize(s) {
			return nil, apperror.Validation("Size must be a valid format (e.g., '30ml', '50ml', '100ml')")
		}
		sizes = append(sizes, s)
	}
	if len(sizes) == 0 {
		return nil, apperror.Validation("Size must be a valid format (e.g., '30ml', '50ml', '100ml')")
	}
	return sizes, nil
}

func validateQuantity(raw string) (int, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, apperror.Validation("Quantity must be a valid number")
	}
	if qty < 0 {
		return 0, apperror.Validation("Quantity cannot be negative")
	}
	return qty, nil
}

func validateLength(value string, max int, label string) error {
	if len([]rune(value)) > max {
		return apperror.Validation("%s too long (maximum %d characters)", label, max)
	}
	return nil
}

func (s *CatalogService) validatePhoto(upload *PhotoUpload, allowed map[string]string) ([]byte, string, error) {
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	declared, ok := allowed[ext]
	if !ok {
		return nil, "", apperror.Validation("Invalid file type")
	}
	if int64(len(upload.Data)) > s.maxPhotoBytes {
		return nil, "", apperror.Validation("File too large (maximum %d MB)", s.maxPhotoBytes>>20)
	}
	detected := mimetype.Detect(upload.Data)
	if !detected.Is(declared) {
		return nil, "", apperror.Validation("Invalid file type")
	}
	return upload.Data, declared, nil
}

func optionalText(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func (s *CatalogService) Create(ctx context.Context, form PerfumeForm) (*models.Perfume, error) {
	if optionalText(form.Name) == "" || optionalText(form.Price) == "" || optionalText(form.Category) == "" || len(form.Sizes) == 0 {
		return nil, apperror.Validation("Name, price, category, and size(s) required")
	}

	name, err := validateName(*form.Name)
	if err != nil {
		return nil, err
	}
	price, err := validatePrice(*form.Price)
	if err != nil {
		return nil, err
	}
	category, err := validateCategory(*form.Category)
	if err != nil {
		return nil, err
	}
	sizes, err := validateSizes(form.Sizes)
	if err != nil {
		return nil, err
	}
	qty := defaultStockQuantity
	if raw := optionalText(form.Quantity); raw != "" {
		if qty, err = validateQuantity(raw); err != nil {
			return nil, err
		}
	}

	perfume := &models.Perfume{
		Name:        name,
		Price:       price,
		Description: optionalText(form.Description),
		Category:    category,
		Quantity:    qty,
		Available:   qty > 0,
		Sizes:       sizes,
		TopNotes:    optionalText(form.TopNotes),
		HeartNotes:  optionalText(form.HeartNotes),
		BaseNotes:   optionalText(form.BaseNotes),
	}
	if err := validateLength(perfume.Description, maxDescriptionLength, "Description"); err != nil {
		return nil, err
	}
	for label, notes := range map[string]string{"Top notes": perfume.TopNotes, "Heart notes": perfume.HeartNotes, "Base notes": perfume.BaseNotes} {
		if err := validateLength(notes, maxNotesLength, label); err != nil {
			return nil, err
		}
	}

	if form.Photo != nil && form.Photo.Filename != "" {
		data, mime, err := s.validatePhoto(form.Photo, createPhotoTypes)
		if err != nil {
			return nil, err
		}
		perfume.Photo, perfume.PhotoType = data, mime
	}

	if err := s.perfumeRepo.Create(ctx, perfume); err != nil {
		s.logger.Error("Create: failed to insert perfume", zap.String("name", name), zap.Error(err))
		return nil, apperror.Internal("Database error", err)
	}
	s.logger.Info("perfume created", zap.Uint("perfume_id", perfume.ID), zap.Strings("sizes", perfume.Sizes))
	return perfume, nil
}

func (s *CatalogService) ListAll(ctx context.Context) ([]models.Perfume, error) {
	perfumes, err := s.perfumeRepo.ListAll(ctx)
	if err != nil {
		return nil, apperror.Internal("Failed to retrieve perfumes", err)
	}
	return perfumes, nil
}

// Update applies only the fields present in form. Each present field is
// validated on its own.
func (s *CatalogService) Update(ctx context.Context, id uint, form PerfumeForm) error {
	existing, err := s.perfumeRepo.FindByID(ctx, id)
	if err != nil {
		return apperror.Internal("Database error", err)
	}
	if existing == nil {
		return apperror.NotFound("Perfume not found")
	}

	var patch repositories.PerfumePatch
	changed := false

	if form.Name != nil {
		name, err := validateName(*form.Name)
		if err != nil {
			return err
		}
		patch.Name, changed = &name, true
	}
	if form.Description != nil {
		if err := validateLength(*form.Description, maxDescriptionLength, "Description"); err != nil {
			return err
		}
		patch.Description, changed = form.Description, true
	}
	if form.Price != nil {
		price, err := validatePrice(*form.Price)
		if err != nil {
			return err
		}
		patch.Price, changed = &price, true
	}
	newQty := existing.Quantity
	if form.Quantity != nil {
		if newQty, err = validateQuantity(*form.Quantity); err != nil {
			return err
		}
		patch.Quantity, changed = &newQty, true
	}
	if form.Category != nil {
		category, err := validateCategory(*form.Category)
		if err != nil {
			return err
		}
		patch.Category, changed = &category, true
	}
	if form.Sizes != nil {
		sizes, err := validateSizes(form.Sizes)
		if err != nil {
			return err
		}
		patch.Sizes, changed = sizes, true
	}
	notes := []struct {
		value *string
		label string
		dest  **string
	}{
		{form.TopNotes, "Top notes", &patch.TopNotes},
		{form.HeartNotes, "Heart notes", &patch.HeartNotes},
		{form.BaseNotes, "Base notes", &patch.BaseNotes},
	}
	for _, n := range notes {
		if n.value == nil {
			continue
		}
		if err := validateLength(*n.value, maxNotesLength, n.label); err != nil {
			return err
		}
		*n.dest, changed = n.value, true
	}
	if form.Photo != nil && form.Photo.Filename != "" {
		data, mime, err := s.validatePhoto(form.Photo, updatePhotoTypes)
		if err != nil {
			return err
		}
		patch.Photo, patch.PhotoType, changed = data, &mime, true
	}

	if !changed {
		return apperror.Validation("No fields provided to update")
	}

	available := newQty > 0
	patch.Available = &available

	rows, err := s.perfumeRepo.Update(ctx, id, patch)
	if err != nil {
		s.logger.Error("Update: failed to update perfume", zap.Uint("perfume_id", id), zap.Error(err))
		return apperror.Internal("Database error", err)
	}
	if rows == 0 {
		return apperror.NotFound("Perfume not found")
	}
	return nil
}

func (s *CatalogService) SetBestSeller(ctx context.Context, id uint, isBestSeller bool) error {
	rows, err := s.perfumeRepo.Update(ctx, id, repositories.PerfumePatch{IsBestSeller: &isBestSeller})
	if err != nil {
		return apperror.Internal("Database error", err)
	}
	if rows == 0 {
		return apperror.NotFound("Perfume not found")
	}
	return nil
}

// Delete soft-deletes the perfume and drops everything that only made sense
// while it was for sale. Order items are history and stay.
func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	err := inTransaction(ctx, s.db, s.logger, func(tx *gorm.DB) error {
		perfume, err := s.perfumeRepo.LockByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("lock perfume: %w", err)
		}
		if perfume == nil {
			return apperror.NotFound("Perfume not found")
		}
		if err := s.cartItemRepo.DeleteAllForPerfume(ctx, tx, id); err != nil {
			return fmt.Errorf("delete cart items: %w", err)
		}
		if err := s.favoriteRepo.DeleteAllForPerfume(ctx, tx, id); err != nil {
			return fmt.Errorf("delete favorites: %w", err)
		}
		if err := s.reviewRepo.DeleteAllForPerfume(ctx, tx, id); err != nil {
			return fmt.Errorf("delete reviews: %w", err)
		}
		if err := s.discountRepo.DeleteByPerfume(ctx, tx, id); err != nil {
			return fmt.Errorf("delete discounts: %w", err)
		}
		return s.perfumeRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return err
		}
		s.logger.Error("Delete: failed to delete perfume", zap.Uint("perfume_id", id), zap.Error(err))
		return apperror.Internal("Database error", err)
	}
	s.logger.Info("perfume deleted", zap.Uint("perfume_id", id))
	return nil
}

func (s *CatalogService) ListAvailable(ctx context.Context, filter repositories.PerfumeFilter) ([]models.Perfume, error) {
	perfumes, err := s.perfumeRepo.ListAvailable(ctx, filter)
	if err != nil {
		return nil, apperror.Internal("Failed to retrieve perfumes", err)
	}
	return perfumes, nil
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Perfume, error) {
	perfume, err := s.perfumeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal("Failed to retrieve perfume", err)
	}
	if perfume == nil {
		return nil, apperror.NotFound("Perfume not found")
	}
	return perfume, nil
}

func (s *CatalogService) BestSellers(ctx context.Context) ([]models.Perfume, error) {
	perfumes, err := s.perfumeRepo.BestSellers(ctx, featuredLimit)
	if err != nil {
		return nil, apperror.Internal("Failed to retrieve best sellers", err)
	}
	return perfumes, nil
}

func (s *CatalogService) NewArrivals(ctx context.Context) ([]models.Perfume, error) {
	perfumes, err := s.perfumeRepo.NewArrivals(ctx, s.now().Add(-newArrivalWindow), featuredLimit)
	if err != nil {
		return nil, apperror.Internal("Failed to retrieve new arrivals", err)
	}
	return perfumes, nil
}

func (s *CatalogService) Photo(ctx context.Context, id uint) ([]byte, string, error) {
	perfume, err := s.perfumeRepo.FindWithPhoto(ctx, id)
	if err != nil {
		return nil, "", apperror.Internal("Failed to retrieve photo", err)
	}
	if perfume == nil || !perfume.HasPhoto() {
		return nil, "", apperror.NotFound("Photo not found")
	}
	contentType := perfume.PhotoType
	if contentType == "" {
		contentType = mimetype.Detect(perfume.Photo).String()
	}
	return perfume.Photo, contentType, nil
}
