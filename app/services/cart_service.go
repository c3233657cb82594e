package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Rakhulsr/go-perfumery/app/helpers"
	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/Rakhulsr/go-perfumery/app/repositories"
	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/Rakhulsr/go-perfumery/app/utils/token"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CartItemInput keeps every field raw so a bad value fails only its own
// item instead of the whole batch.
type CartItemInput struct {
	PerfumeID json.RawMessage `json:"perfume_id"`
	Quantity  json.RawMessage `json:"quantity"`
	Size      json.RawMessage `json:"size"`

	malformed bool
}

// UnmarshalJSON never fails; an element that is not an object is marked
// malformed and rejected per item.
func (in *CartItemInput) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		*in = CartItemInput{malformed: true}
		return nil
	}
	*in = CartItemInput{PerfumeID: fields["perfume_id"], Quantity: fields["quantity"], Size: fields["size"]}
	return nil
}

type CartAdded struct {
	PerfumeID   uint   `json:"perfume_id"`
	TotalInCart int    `json:"total_in_cart"`
	Size        string `json:"size"`
}

type CartItemError struct {
	PerfumeID any    `json:"perfume_id"`
	Error     string `json:"error"`
}

type CartAddResult struct {
	Added  []CartAdded
	Errors []CartItemError
}

type CartService struct {
	db           *gorm.DB
	cartItemRepo repositories.CartItemRepository
	perfumeRepo  repositories.PerfumeRepository
	logger       *zap.Logger
}

func NewCartService(db *gorm.DB, cartItemRepo repositories.CartItemRepository, perfumeRepo repositories.PerfumeRepository, logger *zap.Logger) *CartService {
	return &CartService{
		db:           db,
		cartItemRepo: cartItemRepo,
		perfumeRepo:  perfumeRepo,
		logger:       logger.Named("cart"),
	}
}

func rawIDValue(raw json.RawMessage) any {
	if helpers.IsNull(raw) {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// AddItems adds every item it can in one transaction. Quantities are
// additive per (perfume, size) and the running total may not exceed stock.
func (s *CartService) AddItems(ctx context.Context, claims *token.Claims, items []CartItemInput) (*CartAddResult, error) {
	if len(items) == 0 {
		return nil, apperror.Validation("No items provided")
	}

	result := &CartAddResult{Added: []CartAdded{}, Errors: []CartItemError{}}
	err := inTransaction(ctx, s.db, s.logger, func(tx *gorm.DB) error {
		for _, item := range items {
			added, itemErr, err := s.addOne(ctx, tx, claims.UserID, item)
			if err != nil {
				return err
			}
			if itemErr != nil {
				result.Errors = append(result.Errors, *itemErr)
				continue
			}
			result.Added = append(result.Added, *added)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("AddItems: cart update failed", zap.Uint("user_id", claims.UserID), zap.Error(err))
		return nil, apperror.Internal("Database error", err)
	}
	return result, nil
}

func (s *CartService) addOne(ctx context.Context, tx *gorm.DB, userID uint, item CartItemInput) (*CartAdded, *CartItemError, error) {
	if item.malformed {
		return nil, &CartItemError{Error: "Invalid data"}, nil
	}
	pid, err := helpers.ParseJSONInt(item.PerfumeID)
	if err != nil || pid <= 0 {
		return nil, &CartItemError{PerfumeID: rawIDValue(item.PerfumeID), Error: "Invalid data"}, nil
	}
	qty := int64(1)
	if !helpers.IsNull(item.Quantity) {
		if qty, err = helpers.ParseJSONInt(item.Quantity); err != nil || qty <= 0 {
			return nil, &CartItemError{PerfumeID: pid, Error: "Invalid data"}, nil
		}
	}
	var rawSize string
	if !helpers.IsNull(item.Size) {
		var ok bool
		if rawSize, ok = helpers.ParseJSONString(item.Size); !ok {
			return nil, &CartItemError{PerfumeID: pid, Error: "Invalid data"}, nil
		}
	}
	perfumeID := uint(pid)

	perfume, err := s.perfumeRepo.LockAvailableByID(ctx, tx, perfumeID)
	if err != nil {
		return nil, nil, fmt.Errorf("lock perfume %d: %w", perfumeID, err)
	}
	if perfume == nil {
		return nil, &CartItemError{PerfumeID: perfumeID, Error: "Perfume not available"}, nil
	}

	size := perfume.DefaultSize()
	if strings.TrimSpace(rawSize) != "" {
		size = strings.ToLower(strings.TrimSpace(rawSize))
		if !perfume.HasSize(size) {
			return nil, &CartItemError{PerfumeID: perfumeID, Error: "Invalid size"}, nil
		}
	}

	current, err := s.cartItemRepo.FindByKey(ctx, tx, userID, perfumeID, size)
	if err != nil {
		return nil, nil, fmt.Errorf("find cart item: %w", err)
	}
	currentQty := 0
	if current != nil {
		currentQty = current.Quantity
	}
	newTotal := currentQty + int(qty)
	if newTotal > perfume.Quantity {
		return nil, &CartItemError{
			PerfumeID: perfumeID,
			Error:     fmt.Sprintf("Only %d in stock (you have %d)", perfume.Quantity, currentQty),
		}, nil
	}

	row := &models.CartItem{UserID: userID, PerfumeID: perfumeID, Size: size, Quantity: newTotal}
	if err := s.cartItemRepo.Upsert(ctx, tx, row); err != nil {
		return nil, nil, fmt.Errorf("upsert cart item: %w", err)
	}
	return &CartAdded{PerfumeID: perfumeID, TotalInCart: newTotal, Size: size}, nil, nil
}

func (s *CartService) View(ctx context.Context, claims *token.Claims) ([]repositories.CartLine, error) {
	lines, err := s.cartItemRepo.ListLines(ctx, claims.UserID)
	if err != nil {
		s.logger.Error("View: failed to load cart", zap.Uint("user_id", claims.UserID), zap.Error(err))
		return nil, apperror.Internal("Failed to load cart", err)
	}
	return lines, nil
}

// Remove drops every size of the perfume from the cart.
func (s *CartService) Remove(ctx context.Context, claims *token.Claims, perfumeID uint) error {
	rows, err := s.cartItemRepo.DeleteByPerfume(ctx, claims.UserID, perfumeID)
	if err != nil {
		s.logger.Error("Remove: delete failed", zap.Uint("user_id", claims.UserID), zap.Uint("perfume_id", perfumeID), zap.Error(err))
		return apperror.Internal("Database error", err)
	}
	if rows == 0 {
		return apperror.NotFound("Item not in your cart")
	}
	return nil
}
