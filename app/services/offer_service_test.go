package services

import (
	"context"
	"testing"
	"time"

	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inDays(n int) string {
	return time.Now().AddDate(0, 0, n).Format(dateLayout)
}

func TestOfferLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.perfume(t, "Rose", "80.00", 5, "50ml")

	discount, err := e.offers.Create(ctx, p.ID, "25", inDays(7))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(25).Equal(discount.DiscountPercentage))

	_, err = e.offers.Create(ctx, p.ID, "10", inDays(3))
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	offers, err := e.offers.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.True(t, decimal.NewFromInt(60).Equal(offers[0].DiscountedPrice), offers[0].DiscountedPrice.String())

	require.NoError(t, e.offers.Update(ctx, p.ID, "50", ""))
	offers, err = e.offers.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.True(t, decimal.NewFromInt(40).Equal(offers[0].DiscountedPrice))

	require.NoError(t, e.offers.Delete(ctx, p.ID))
	err = e.offers.Delete(ctx, p.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestOfferValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.perfume(t, "Rose", "80.00", 5)

	tests := []struct {
		name      string
		perfumeID uint
		pct, end  string
		want      string
		kind      apperror.Kind
	}{
		{"missing", p.ID, "", inDays(1), "Perfume ID, discount percentage, and end date are required", apperror.KindValidation},
		{"percentage", p.ID, "abc", inDays(1), "Invalid discount percentage", apperror.KindValidation},
		{"range", p.ID, "100", inDays(1), "Discount percentage must be between 0 and 100", apperror.KindValidation},
		{"format", p.ID, "10", "07/01/2030", "End date must be in YYYY-MM-DD format", apperror.KindValidation},
		{"past", p.ID, "10", inDays(-1), "End date cannot be in the past", apperror.KindValidation},
		{"unknown perfume", 9999, "10", inDays(1), "Perfume not found", apperror.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.offers.Create(ctx, tt.perfumeID, tt.pct, tt.end)
			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, tt.kind))
			assert.Equal(t, tt.want, apperror.From(err).Message)
		})
	}

	err := e.offers.Update(ctx, p.ID, "", "")
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	err = e.offers.Update(ctx, p.ID, "10", "")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	assert.EqualValues(t, 0, e.count(t, &models.Discount{}))
}
