package services

import (
	"context"
	"testing"

	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancelRestocks(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	claims := e.user(t, "ada", models.RoleCustomer)
	p := e.perfume(t, "Rose", "10.00", 5)

	res, err := e.checkout.PlaceOrder(ctx, claims, checkoutRequest(models.PaymentMethodCOD,
		item{PerfumeID: p.ID, Quantity: 3, Price: "10.00"},
	))
	require.NoError(t, err)
	assert.Equal(t, 2, e.stock(t, p.ID))

	order, err := e.order.Cancel(ctx, res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
	assert.Equal(t, 5, e.stock(t, p.ID))

	_, err = e.order.Cancel(ctx, res.OrderID)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindConflict, appErr.Kind)
	assert.Equal(t, "Order is already cancelled", appErr.Message)
	assert.Equal(t, 5, e.stock(t, p.ID))

	_, err = e.order.Cancel(ctx, 12345)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestHistoryAndRecent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ada := e.user(t, "ada", models.RoleCustomer)
	bob := e.user(t, "bob", models.RoleCustomer)
	p := e.perfume(t, "Rose", "10.00", 50)

	for i := 0; i < 3; i++ {
		_, err := e.checkout.PlaceOrder(ctx, ada, checkoutRequest(models.PaymentMethodCOD,
			item{PerfumeID: p.ID, Quantity: 1, Price: "10.00"},
		))
		require.NoError(t, err)
	}

	history, err := e.order.History(ctx, ada)
	require.NoError(t, err)
	assert.Len(t, history, 3)
	require.Len(t, history[0].OrderItems, 1)
	require.NotNil(t, history[0].OrderItems[0].Perfume)
	assert.Equal(t, "Rose", history[0].OrderItems[0].Perfume.Name)

	recent, err := e.order.Recent(ctx, ada, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	none, err := e.order.History(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAdminList(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ada := e.user(t, "ada", models.RoleCustomer)
	p := e.perfume(t, "Rose", "10.00", 50)

	for _, method := range []string{models.PaymentMethodCOD, models.PaymentMethodCard, models.PaymentMethodCOD} {
		_, err := e.checkout.PlaceOrder(ctx, ada, checkoutRequest(method,
			item{PerfumeID: p.ID, Quantity: 1, Price: "10.00"},
		))
		require.NoError(t, err)
	}

	orders, meta, err := e.order.AdminList(ctx, AdminOrderQuery{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.EqualValues(t, 3, meta.Total)
	assert.EqualValues(t, 2, meta.Pages)
	assert.True(t, meta.HasNext)
	assert.False(t, meta.HasPrev)

	orders, meta, err = e.order.AdminList(ctx, AdminOrderQuery{Status: "COD_PENDING"})
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, 20, meta.Limit)

	_, _, err = e.order.AdminList(ctx, AdminOrderQuery{Status: "shipped"})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestClampRecentLimit(t *testing.T) {
	assert.Equal(t, 1, ClampRecentLimit(0))
	assert.Equal(t, 7, ClampRecentLimit(7))
	assert.Equal(t, 20, ClampRecentLimit(50))
}
