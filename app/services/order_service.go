package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/Rakhulsr/go-perfumery/app/repositories"
	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/Rakhulsr/go-perfumery/app/utils/token"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultRecentOrders = 5
	maxRecentOrders     = 20
	defaultPageSize     = 20
	maxPageSize         = 100
)

type AdminOrderQuery struct {
	Page   int
	Limit  int
	Status string
	Start  string
	End    string
}

type PageMeta struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int64 `json:"pages"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}

type OrderService struct {
	db            *gorm.DB
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
	perfumeRepo   repositories.PerfumeRepository
	logger        *zap.Logger
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repositories.OrderRepository,
	orderItemRepo repositories.OrderItemRepository,
	perfumeRepo repositories.PerfumeRepository,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		db:            db,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		perfumeRepo:   perfumeRepo,
		logger:        logger.Named("orders"),
	}
}

func (s *OrderService) History(ctx context.Context, claims *token.Claims) ([]models.Order, error) {
	orders, err := s.orderRepo.FindByUserID(ctx, claims.UserID, 0)
	if err != nil {
		s.logger.Error("History: failed to load orders", zap.Uint("user_id", claims.UserID), zap.Error(err))
		return nil, apperror.Internal("Failed to load orders", err)
	}
	return orders, nil
}

func ClampRecentLimit(limit int) int {
	switch {
	case limit < 1:
		return 1
	case limit > maxRecentOrders:
		return maxRecentOrders
	}
	return limit
}

func (s *OrderService) Recent(ctx context.Context, claims *token.Claims, limit int) ([]models.Order, error) {
	orders, err := s.orderRepo.FindByUserID(ctx, claims.UserID, ClampRecentLimit(limit))
	if err != nil {
		s.logger.Error("Recent: failed to load orders", zap.Uint("user_id", claims.UserID), zap.Error(err))
		return nil, apperror.Internal("Failed to load orders", err)
	}
	return orders, nil
}

// AdminList pages through every order. Unparseable dates are ignored; end
// is inclusive of the whole day.
func (s *OrderService) AdminList(ctx context.Context, q AdminOrderQuery) ([]models.Order, PageMeta, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageSize
	}
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}

	filter := repositories.OrderFilter{Limit: q.Limit, Offset: (q.Page - 1) * q.Limit}
	if status := models.OrderStatus(strings.ToLower(strings.TrimSpace(q.Status))); status != "" {
		if !status.Valid() {
			return nil, PageMeta{}, apperror.Validation("Invalid status filter")
		}
		filter.Status = &status
	}
	if start, err := time.ParseInLocation(dateLayout, q.Start, time.Local); err == nil {
		filter.Start = &start
	}
	if end, err := time.ParseInLocation(dateLayout, q.End, time.Local); err == nil {
		next := end.AddDate(0, 0, 1)
		filter.End = &next
	}

	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("AdminList: failed to load orders", zap.Error(err))
		return nil, PageMeta{}, apperror.Internal("Failed to load orders", err)
	}

	limit := int64(q.Limit)
	meta := PageMeta{
		Page:    q.Page,
		Limit:   q.Limit,
		Total:   total,
		Pages:   (total + limit - 1) / limit,
		HasNext: int64(q.Page)*limit < total,
		HasPrev: q.Page > 1,
	}
	return orders, meta, nil
}

// Cancel moves an order to cancelled and puts its items back in stock.
func (s *OrderService) Cancel(ctx context.Context, orderID uint) (*models.Order, error) {
	var order *models.Order
	err := inTransaction(ctx, s.db, s.logger, func(tx *gorm.DB) error {
		var err error
		order, err = s.orderRepo.LockByID(ctx, tx, orderID)
		if err != nil {
			return fmt.Errorf("lock order: %w", err)
		}
		if order == nil {
			return apperror.NotFound("Order not found")
		}
		if order.Status == models.OrderStatusCancelled {
			return apperror.Conflict("Order is already cancelled")
		}
		if !models.CanTransition(order.Status, models.OrderStatusCancelled) {
			return apperror.Conflict(fmt.Sprintf("Order cannot be cancelled from status %s", order.Status))
		}

		items, err := s.orderItemRepo.ListByOrderID(ctx, tx, orderID)
		if err != nil {
			return fmt.Errorf("list order items: %w", err)
		}
		for _, item := range items {
			if err := s.perfumeRepo.IncrementStock(ctx, tx, item.PerfumeID, item.Quantity); err != nil {
				return fmt.Errorf("restock perfume %d: %w", item.PerfumeID, err)
			}
		}
		if err := s.orderRepo.UpdateStatus(ctx, tx, orderID, models.OrderStatusCancelled); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		order.Status = models.OrderStatusCancelled
		return nil
	})
	if err != nil {
		if appErr, ok := asAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("Cancel: failed to cancel order", zap.Uint("order_id", orderID), zap.Error(err))
		return nil, apperror.Internal("Database error", err)
	}
	s.logger.Info("order cancelled", zap.Uint("order_id", orderID))
	return order, nil
}
