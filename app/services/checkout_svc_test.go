package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrderCard(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	claims := e.user(t, "ada", models.RoleCustomer)
	rose := e.perfume(t, "Rose Noir", "45.00", 10, "50ml", "100ml")
	musk := e.perfume(t, "White Musk", "18.00", 6)

	_, err := e.cart.AddItems(ctx, claims, []CartItemInput{
		{PerfumeID: raw(rose.ID), Quantity: raw(2)},
		{PerfumeID: raw(musk.ID), Quantity: raw(1)},
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, e.count(t, &models.CartItem{}))

	res, err := e.checkout.PlaceOrder(ctx, claims, checkoutRequest(models.PaymentMethodCard,
		item{PerfumeID: rose.ID, Quantity: 2, Price: "45.00", Size: "100ml"},
	))
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPaid, res.Status)
	assert.Equal(t, models.PaymentMethodCard, res.PaymentMethod)
	assert.True(t, decimal.RequireFromString("115").Equal(res.Total), res.Total.String())
	assert.Regexp(t, `^INV-\d{8}-[0-9A-F]{8}$`, res.OrderCode)

	assert.Equal(t, 8, e.stock(t, rose.ID))
	assert.Equal(t, 6, e.stock(t, musk.ID))
	assert.EqualValues(t, 0, e.count(t, &models.CartItem{}))

	var order models.Order
	require.NoError(t, e.db.Preload("OrderItems").Preload("PaymentDetail").First(&order, res.OrderID).Error)
	assert.Equal(t, "ada@example.com", order.Email)
	require.Len(t, order.OrderItems, 1)
	require.NotNil(t, order.OrderItems[0].Size)
	assert.Equal(t, "100ml", *order.OrderItems[0].Size)
	require.NotNil(t, order.PaymentDetail)
	assert.Equal(t, "1234", order.PaymentDetail.CardLast4)
	assert.Equal(t, "Ada Lovelace", order.PaymentDetail.CardName)

	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.OrdersPlaced.WithLabelValues(models.PaymentMethodCard)))
}

func TestPlaceOrderCOD(t *testing.T) {
	e := newEnv(t)
	claims := e.user(t, "bob", models.RoleCustomer)
	oud := e.perfume(t, "Oud Wood", "80.00", 3)

	res, err := e.checkout.PlaceOrder(context.Background(), claims, checkoutRequest(models.PaymentMethodCOD,
		item{PerfumeID: oud.ID, Quantity: 3, Price: "80.00"},
	))
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCODPending, res.Status)
	assert.Equal(t, 0, e.stock(t, oud.ID))
	assert.EqualValues(t, 0, e.count(t, &models.PaymentDetail{}))

	var item models.OrderItem
	require.NoError(t, e.db.First(&item, "order_id = ?", res.OrderID).Error)
	assert.Nil(t, item.Size)
}

func TestPlaceOrderClientPriceIsStored(t *testing.T) {
	e := newEnv(t)
	claims := e.user(t, "carol", models.RoleCustomer)
	p := e.perfume(t, "Vetiver", "30.00", 5)

	res, err := e.checkout.PlaceOrder(context.Background(), claims, checkoutRequest(models.PaymentMethodCOD,
		item{PerfumeID: p.ID, Quantity: 1, Price: "25.50"},
	))
	require.NoError(t, err)

	var item models.OrderItem
	require.NoError(t, e.db.First(&item, "order_id = ?", res.OrderID).Error)
	assert.True(t, decimal.RequireFromString("25.50").Equal(item.UnitPrice))
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	claims := e.user(t, "dave", models.RoleCustomer)
	plenty := e.perfume(t, "Amber", "20.00", 10)
	scarce := e.perfume(t, "Iris", "60.00", 1)

	_, err := e.cart.AddItems(ctx, claims, []CartItemInput{{PerfumeID: raw(plenty.ID), Quantity: raw(1)}})
	require.NoError(t, err)

	_, err = e.checkout.PlaceOrder(ctx, claims, checkoutRequest(models.PaymentMethodCard,
		item{PerfumeID: plenty.ID, Quantity: 4, Price: "20.00"},
		item{PerfumeID: scarce.ID, Quantity: 2, Price: "60.00"},
	))
	require.Error(t, err)

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Equal(t, "Only 1 left of Iris", appErr.Message)

	assert.Equal(t, 10, e.stock(t, plenty.ID))
	assert.Equal(t, 1, e.stock(t, scarce.ID))
	assert.EqualValues(t, 0, e.count(t, &models.Order{}))
	assert.EqualValues(t, 0, e.count(t, &models.OrderItem{}))
	assert.EqualValues(t, 0, e.count(t, &models.PaymentDetail{}))
	assert.EqualValues(t, 1, e.count(t, &models.CartItem{}))

	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.CheckoutFailures.WithLabelValues("insufficient_stock")))
}

func TestPlaceOrderUnknownPerfume(t *testing.T) {
	e := newEnv(t)
	claims := e.user(t, "erin", models.RoleCustomer)

	_, err := e.checkout.PlaceOrder(context.Background(), claims, checkoutRequest(models.PaymentMethodCOD,
		item{PerfumeID: 999, Quantity: 1, Price: "10"},
	))
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	assert.Equal(t, "Perfume ID 999 not found or unavailable", apperror.From(err).Message)
	assert.EqualValues(t, 0, e.count(t, &models.Order{}))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.CheckoutFailures.WithLabelValues("not_found")))
}

func TestPlaceOrderValidation(t *testing.T) {
	e := newEnv(t)
	claims := e.user(t, "frank", models.RoleCustomer)
	p := e.perfume(t, "Neroli", "15.00", 5)
	line := item{PerfumeID: p.ID, Quantity: 1, Price: "15.00"}

	tests := []struct {
		name   string
		mutate func(r *CheckoutRequest)
		want   string
	}{
		{"missing shippingCost", func(r *CheckoutRequest) { r.ShippingCost = nil }, "Missing required field: shippingCost"},
		{"null tax", func(r *CheckoutRequest) { r.Tax = json.RawMessage("null") }, "Missing required field: tax"},
		{"blank city", func(r *CheckoutRequest) {
			s := map[string]string{}
			for k, v := range validShipping {
				s[k] = v
			}
			s["city"] = "   "
			r.Shipping = raw(s)
		}, "Shipping city is required and cannot be empty"},
		{"bad method", func(r *CheckoutRequest) { r.PaymentMethod = raw("paypal") }, "payment_method must be 'card' or 'cod'"},
		{"empty items", func(r *CheckoutRequest) { r.Items = raw([]item{}) }, "Items must be a non-empty list"},
		{"bad amount", func(r *CheckoutRequest) { r.TotalPrice = raw("abc") }, "Invalid amount for totalPrice"},
		{"zero quantity", func(r *CheckoutRequest) {
			r.Items = raw([]item{{PerfumeID: p.ID, Quantity: 0, Price: "15.00"}})
		}, "Quantity must be positive"},
		{"bad item", func(r *CheckoutRequest) { r.Items = raw([]any{"nope"}) }, "Invalid item data format"},
		{"quantity past int64", func(r *CheckoutRequest) {
			r.Items = json.RawMessage(fmt.Sprintf(`[{"perfume_id":%d,"quantity":18446744073709551617,"price":"15.00"}]`, p.ID))
		}, "Invalid item data format"},
		{"perfume id past int64", func(r *CheckoutRequest) {
			r.Items = json.RawMessage(`[{"perfume_id":"18446744073709551617","quantity":1,"price":"15.00"}]`)
		}, "Invalid item data format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := checkoutRequest(models.PaymentMethodCOD, line)
			tt.mutate(req)
			_, err := e.checkout.PlaceOrder(context.Background(), claims, req)
			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, apperror.KindValidation))
			assert.Equal(t, tt.want, apperror.From(err).Message)
		})
	}
	assert.Equal(t, 5, e.stock(t, p.ID))
	assert.EqualValues(t, 0, e.count(t, &models.Order{}))
}

func TestValidateCard(t *testing.T) {
	tests := []struct {
		name    string
		details map[string]string
		want    string
	}{
		{"missing", nil, "Card cardName is required"},
		{"short number", map[string]string{"cardName": "A", "cardNumber": "4111", "expiry": "1/30", "cvv": "123"}, "Invalid card number"},
		{"letters", map[string]string{"cardName": "A", "cardNumber": "4111x11111111111", "expiry": "1/30", "cvv": "123"}, "Invalid card number"},
		{"bad cvv", map[string]string{"cardName": "A", "cardNumber": "4111111111111111", "expiry": "1/30", "cvv": "12"}, "CVV must be 3 or 4 digits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rawDetails json.RawMessage
			if tt.details != nil {
				rawDetails = raw(tt.details)
			}
			_, err := validateCard(rawDetails)
			require.Error(t, err)
			assert.Equal(t, tt.want, apperror.From(err).Message)
		})
	}

	c, err := validateCard(raw(map[string]string{"cardName": " Ada ", "cardNumber": "4111 1111 1111 1111", "expiry": "12/30", "cvv": "1234"}))
	require.NoError(t, err)
	assert.Equal(t, "Ada", c.name)
	assert.Equal(t, "4111111111111111", c.number)
}
