package models

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionOnlyMovesForward(t *testing.T) {
	assert.True(t, CanTransition(OrderStatusPending, OrderStatusPaid))
	assert.True(t, CanTransition(OrderStatusPending, OrderStatusCODPending))
	assert.True(t, CanTransition(OrderStatusPaid, OrderStatusCancelled))
	assert.True(t, CanTransition(OrderStatusCODPending, OrderStatusCancelled))

	assert.False(t, CanTransition(OrderStatusPaid, OrderStatusPending))
	assert.False(t, CanTransition(OrderStatusCancelled, OrderStatusPending))
	assert.False(t, CanTransition(OrderStatusCancelled, OrderStatusCancelled))
	assert.False(t, CanTransition(OrderStatusPaid, OrderStatusCODPending))
}

func TestStatusAfterPayment(t *testing.T) {
	assert.Equal(t, OrderStatusPaid, StatusAfterPayment(PaymentMethodCard))
	assert.Equal(t, OrderStatusCODPending, StatusAfterPayment(PaymentMethodCOD))
}

func TestOrderCodeShape(t *testing.T) {
	code := NewOrderCode(time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC))
	assert.Regexp(t, regexp.MustCompile(`^INV-20261014-[0-9A-F]{8}$`), code)
}

func TestOrderGrandTotal(t *testing.T) {
	o := Order{
		TotalAmount:  decimal.RequireFromString("100.00"),
		ShippingCost: decimal.RequireFromString("5.50"),
		TaxAmount:    decimal.RequireFromString("8.25"),
	}
	assert.Equal(t, "113.75", o.GrandTotal().StringFixed(2))
}

func TestPerfumeStock(t *testing.T) {
	p := Perfume{Available: true, Quantity: 5, Sizes: SizeList{"50ml", "100ml"}}
	assert.True(t, p.InStock())
	assert.Equal(t, "low", p.StockLevel())
	assert.Equal(t, "50ml", p.DefaultSize())
	assert.True(t, p.HasSize("100ml"))
	assert.False(t, p.HasSize("30ml"))

	p.Quantity = 6
	assert.Equal(t, "available", p.StockLevel())

	p.Quantity = 0
	assert.False(t, p.InStock())
}

func TestSizeListRoundTrip(t *testing.T) {
	v, err := SizeList{"50ml", "100ml"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["50ml","100ml"]`, v)

	var s SizeList
	require.NoError(t, s.Scan([]byte(`["30ml"]`)))
	assert.Equal(t, SizeList{"30ml"}, s)

	require.NoError(t, s.Scan("100ml"))
	assert.Equal(t, SizeList{"100ml"}, s)

	require.NoError(t, s.Scan(nil))
	assert.Empty(t, s)
}

func TestDiscountIsActive(t *testing.T) {
	now := time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)
	d := Discount{EndDate: time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)}
	assert.True(t, d.IsActive(now))

	d.EndDate = time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC)
	assert.False(t, d.IsActive(now))
}
