package calc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDiscountedPrice(t *testing.T) {
	assert.True(t, d("80").Equal(DiscountedPrice(d("100"), d("20"))))
	assert.True(t, d("66.66").Equal(DiscountedPrice(d("99.99"), d("33.33"))))
	assert.True(t, d("8.99").Equal(DiscountedPrice(d("9.99"), d("10"))))
}

func TestValidDiscountPercentage(t *testing.T) {
	assert.False(t, ValidDiscountPercentage(d("0")))
	assert.False(t, ValidDiscountPercentage(d("100")))
	assert.False(t, ValidDiscountPercentage(d("-5")))
	assert.True(t, ValidDiscountPercentage(d("0.5")))
	assert.True(t, ValidDiscountPercentage(d("99.99")))
}

func TestCalculateGrandTotal(t *testing.T) {
	got := CalculateGrandTotal(d("120.50"), d("10"), d("9.64"))
	assert.Equal(t, "140.14", got.StringFixed(2))
}

func TestHasAtMostTwoDecimals(t *testing.T) {
	assert.True(t, HasAtMostTwoDecimals(d("10")))
	assert.True(t, HasAtMostTwoDecimals(d("10.5")))
	assert.True(t, HasAtMostTwoDecimals(d("10.50")))
	assert.True(t, HasAtMostTwoDecimals(d("10.500")))
	assert.False(t, HasAtMostTwoDecimals(d("10.505")))
}

func TestAverageRating(t *testing.T) {
	assert.Equal(t, 4.3, AverageRating(13.0/3.0))
	assert.Equal(t, 5.0, AverageRating(5))
}
