package calc

import "github.com/shopspring/decimal"

func CalculateGrandTotal(baseTotal, shippingCost, taxAmount decimal.Decimal) decimal.Decimal {
	return baseTotal.Add(shippingCost).Add(taxAmount)
}

func LineSubtotal(unitPrice decimal.Decimal, qty int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(qty)))
}

// HasAtMostTwoDecimals rejects amounts with sub-cent precision.
func HasAtMostTwoDecimals(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// AverageRating rounds a mean rating to one decimal place.
func AverageRating(avg float64) float64 {
	return decimal.NewFromFloat(avg).Round(1).InexactFloat64()
}
