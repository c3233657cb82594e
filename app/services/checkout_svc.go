package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Rakhulsr/go-perfumery/app/helpers"
	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/Rakhulsr/go-perfumery/app/repositories"
	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/Rakhulsr/go-perfumery/app/utils/calc"
	"github.com/Rakhulsr/go-perfumery/app/utils/metrics"
	"github.com/Rakhulsr/go-perfumery/app/utils/token"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	shippingKeys = []string{"firstName", "lastName", "email", "phone", "address", "city", "state", "zip"}
	cardKeys     = []string{"cardName", "cardNumber", "expiry", "cvv"}

	digitsOnly = regexp.MustCompile(`^\d+$`)
)

// CheckoutRequest keeps every field raw: presence, type and value are all
// part of the validation contract.
type CheckoutRequest struct {
	Shipping      json.RawMessage `json:"shipping"`
	PaymentMethod json.RawMessage `json:"payment_method"`
	Items         json.RawMessage `json:"items"`
	TotalPrice    json.RawMessage `json:"totalPrice"`
	Tax           json.RawMessage `json:"tax"`
	ShippingCost  json.RawMessage `json:"shippingCost"`
	CardDetails   json.RawMessage `json:"card_details"`
}

func (r *CheckoutRequest) field(name string) json.RawMessage {
	switch name {
	case "shipping":
		return r.Shipping
	case "payment_method":
		return r.PaymentMethod
	case "items":
		return r.Items
	case "totalPrice":
		return r.TotalPrice
	case "tax":
		return r.Tax
	case "shippingCost":
		return r.ShippingCost
	}
	return nil
}

type CheckoutResult struct {
	OrderID       uint               `json:"order_id"`
	OrderCode     string             `json:"order_code"`
	Status        models.OrderStatus `json:"status"`
	PaymentMethod string             `json:"payment_method"`
	Total         decimal.Decimal    `json:"total"`
}

type card struct {
	name   string
	number string
	expiry string
}

type checkout struct {
	shipping      map[string]string
	paymentMethod string
	items         []json.RawMessage
	totalPrice    decimal.Decimal
	tax           decimal.Decimal
	shippingCost  decimal.Decimal
	card          *card
}

type CheckoutService struct {
	db            *gorm.DB
	perfumeRepo   repositories.PerfumeRepository
	cartItemRepo  repositories.CartItemRepository
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
	paymentRepo   repositories.PaymentRepository
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

func NewCheckoutService(
	db *gorm.DB,
	perfumeRepo repositories.PerfumeRepository,
	cartItemRepo repositories.CartItemRepository,
	orderRepo repositories.OrderRepository,
	orderItemRepo repositories.OrderItemRepository,
	paymentRepo repositories.PaymentRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		db:            db,
		perfumeRepo:   perfumeRepo,
		cartItemRepo:  cartItemRepo,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		paymentRepo:   paymentRepo,
		metrics:       m,
		logger:        logger.Named("checkout"),
	}
}

// validateCheckout checks the request fail-fast: top-level fields, shipping,
// payment method, items list, card, then the three amounts.
func validateCheckout(req *CheckoutRequest) (*checkout, error) {
	for _, name := range []string{"shipping", "payment_method", "items", "totalPrice", "tax", "shippingCost"} {
		if helpers.IsNull(req.field(name)) {
			return nil, apperror.Validation("Missing required field: %s", name)
		}
	}

	var rawShipping map[string]json.RawMessage
	if err := json.Unmarshal(req.Shipping, &rawShipping); err != nil {
		return nil, apperror.Validation("Shipping %s is required and cannot be empty", shippingKeys[0])
	}
	c := &checkout{shipping: make(map[string]string, len(shippingKeys))}
	for _, key := range shippingKeys {
		value, ok := helpers.ParseJSONString(rawShipping[key])
		value = strings.TrimSpace(value)
		if !ok || value == "" {
			return nil, apperror.Validation("Shipping %s is required and cannot be empty", key)
		}
		c.shipping[key] = value
	}
	c.shipping["email"] = strings.ToLower(c.shipping["email"])

	method, _ := helpers.ParseJSONString(req.PaymentMethod)
	c.paymentMethod = strings.ToLower(strings.TrimSpace(method))
	if c.paymentMethod != models.PaymentMethodCard && c.paymentMethod != models.PaymentMethodCOD {
		return nil, apperror.Validation("payment_method must be 'card' or 'cod'")
	}

	if err := json.Unmarshal(req.Items, &c.items); err != nil || len(c.items) == 0 {
		return nil, apperror.Validation("Items must be a non-empty list")
	}

	if c.paymentMethod == models.PaymentMethodCard {
		cd, err := validateCard(req.CardDetails)
		if err != nil {
			return nil, err
		}
		c.card = cd
	}

	amounts := []struct {
		name string
		raw  json.RawMessage
		dest *decimal.Decimal
	}{
		{"totalPrice", req.TotalPrice, &c.totalPrice},
		{"tax", req.Tax, &c.tax},
		{"shippingCost", req.ShippingCost, &c.shippingCost},
	}
	for _, a := range amounts {
		v, err := helpers.ParseJSONDecimal(a.raw)
		if err != nil {
			return nil, apperror.Validation("Invalid amount for %s", a.name)
		}
		*a.dest = v
	}
	return c, nil
}

func validateCard(raw json.RawMessage) (*card, error) {
	var details map[string]json.RawMessage
	if !helpers.IsNull(raw) {
		if err := json.Unmarshal(raw, &details); err != nil {
			details = nil
		}
	}

	values := make(map[string]string, len(cardKeys))
	for _, key := range cardKeys {
		value, ok := helpers.ParseJSONString(details[key])
		if !ok || strings.TrimSpace(value) == "" {
			return nil, apperror.Validation("Card %s is required", key)
		}
		switch key {
		case "cardNumber":
			value = strings.ReplaceAll(value, " ", "")
			if len(value) < 13 || len(value) > 19 || !digitsOnly.MatchString(value) {
				return nil, apperror.Validation("Invalid card number")
			}
		case "cvv":
			value = strings.TrimSpace(value)
			if (len(value) != 3 && len(value) != 4) || !digitsOnly.MatchString(value) {
				return nil, apperror.Validation("CVV must be 3 or 4 digits")
			}
		default:
			value = strings.TrimSpace(value)
		}
		values[key] = value
	}
	return &card{name: values["cardName"], number: values["cardNumber"], expiry: values["expiry"]}, nil
}

type checkoutItem struct {
	perfumeID uint
	quantity  int
	size      *string
	unitPrice decimal.Decimal
}

func parseCheckoutItem(raw json.RawMessage) (*checkoutItem, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, apperror.Validation("Invalid item data format")
	}
	pid, err := helpers.ParseJSONInt(fields["perfume_id"])
	if err != nil || pid <= 0 {
		return nil, apperror.Validation("Invalid item data format")
	}
	qty, err := helpers.ParseJSONInt(fields["quantity"])
	if err != nil {
		return nil, apperror.Validation("Invalid item data format")
	}
	price, err := helpers.ParseJSONDecimal(fields["price"])
	if err != nil {
		return nil, apperror.Validation("Invalid item data format")
	}
	item := &checkoutItem{perfumeID: uint(pid), quantity: int(qty), unitPrice: price}
	if size, ok := helpers.ParseJSONString(fields["selectedSize"]); ok && strings.TrimSpace(size) != "" {
		size = strings.TrimSpace(size)
		item.size = &size
	}
	return item, nil
}

func insufficientStock(perfume *models.Perfume) error {
	return &apperror.Error{
		Kind:    apperror.KindValidation,
		Message: fmt.Sprintf("Only %d left of %s", perfume.Quantity, perfume.Name),
		Err:     repositories.ErrInsufficientStock,
	}
}

// PlaceOrder turns a checkout request into an order. Everything from the
// order header to the cart wipe commits together or not at all.
func (s *CheckoutService) PlaceOrder(ctx context.Context, claims *token.Claims, req *CheckoutRequest) (*CheckoutResult, error) {
	c, err := validateCheckout(req)
	if err != nil {
		s.metrics.CheckoutFailed("validation")
		return nil, err
	}

	order := &models.Order{
		UserID:        claims.UserID,
		TotalAmount:   c.totalPrice,
		ShippingCost:  c.shippingCost,
		TaxAmount:     c.tax,
		FirstName:     c.shipping["firstName"],
		LastName:      c.shipping["lastName"],
		Email:         c.shipping["email"],
		Phone:         c.shipping["phone"],
		Address:       c.shipping["address"],
		City:          c.shipping["city"],
		State:         c.shipping["state"],
		Zip:           c.shipping["zip"],
		PaymentMethod: c.paymentMethod,
		Status:        models.OrderStatusPending,
	}

	err = inTransaction(ctx, s.db, s.logger, func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, raw := range c.items {
			if err := s.placeItem(ctx, tx, order.ID, raw); err != nil {
				return err
			}
		}

		if c.card != nil {
			detail := &models.PaymentDetail{
				OrderID:       order.ID,
				PaymentMethod: models.PaymentMethodCard,
				CardLast4:     c.card.number[len(c.card.number)-4:],
				CardName:      c.card.name,
				Expiry:        c.card.expiry,
			}
			if err := s.paymentRepo.Create(ctx, tx, detail); err != nil {
				return fmt.Errorf("failed to create payment detail: %w", err)
			}
		}

		if err := s.cartItemRepo.ClearCartItems(ctx, tx, claims.UserID); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}

		final := models.StatusAfterPayment(c.paymentMethod)
		if !models.CanTransition(order.Status, final) {
			return fmt.Errorf("order %d cannot move from %s to %s", order.ID, order.Status, final)
		}
		if err := s.orderRepo.UpdateStatus(ctx, tx, order.ID, final); err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		order.Status = final
		return nil
	})
	if err != nil {
		return nil, s.fail(claims.UserID, err)
	}

	s.metrics.OrderPlaced(c.paymentMethod)
	s.logger.Info("order placed",
		zap.Uint("order_id", order.ID),
		zap.String("order_code", order.OrderCode),
		zap.Uint("user_id", claims.UserID),
		zap.String("payment_method", c.paymentMethod),
		zap.Int("items", len(c.items)),
	)

	return &CheckoutResult{
		OrderID:       order.ID,
		OrderCode:     order.OrderCode,
		Status:        order.Status,
		PaymentMethod: c.paymentMethod,
		Total:         calc.CalculateGrandTotal(c.totalPrice, c.shippingCost, c.tax),
	}, nil
}

func (s *CheckoutService) placeItem(ctx context.Context, tx *gorm.DB, orderID uint, raw json.RawMessage) error {
	item, err := parseCheckoutItem(raw)
	if err != nil {
		return err
	}
	if item.quantity <= 0 {
		return apperror.Validation("Quantity must be positive")
	}

	perfume, err := s.perfumeRepo.LockAvailableByID(ctx, tx, item.perfumeID)
	if err != nil {
		return fmt.Errorf("failed to lock perfume %d: %w", item.perfumeID, err)
	}
	if perfume == nil {
		return apperror.NotFound("Perfume ID %d not found or unavailable", item.perfumeID)
	}
	if perfume.Quantity < item.quantity {
		return insufficientStock(perfume)
	}

	if !item.unitPrice.Equal(perfume.Price) {
		// the client price is stored as sent
		s.logger.Warn("client unit price differs from catalog price",
			zap.Uint("order_id", orderID),
			zap.Uint("perfume_id", perfume.ID),
			zap.String("client_price", item.unitPrice.String()),
			zap.String("catalog_price", perfume.Price.String()),
		)
	}

	orderItem := &models.OrderItem{
		OrderID:   orderID,
		PerfumeID: perfume.ID,
		Quantity:  item.quantity,
		Size:      item.size,
		UnitPrice: item.unitPrice,
	}
	if err := s.orderItemRepo.Create(ctx, tx, orderItem); err != nil {
		return fmt.Errorf("failed to create order item: %w", err)
	}

	if err := s.perfumeRepo.DecrementStock(ctx, tx, perfume.ID, item.quantity); err != nil {
		if errors.Is(err, repositories.ErrInsufficientStock) {
			return insufficientStock(perfume)
		}
		return err
	}
	return nil
}

func (s *CheckoutService) fail(userID uint, err error) error {
	if appErr, ok := asAppError(err); ok {
		switch {
		case errors.Is(err, repositories.ErrInsufficientStock):
			s.metrics.CheckoutFailed("insufficient_stock")
		case appErr.Kind == apperror.KindNotFound:
			s.metrics.CheckoutFailed("not_found")
		default:
			s.metrics.CheckoutFailed("validation")
		}
		return appErr
	}

	s.metrics.CheckoutFailed("internal")
	s.logger.Error("Checkout failed", zap.Uint("user_id", userID), zap.Error(err))
	return apperror.Internal("Order failed. Please try again later.", err)
}
