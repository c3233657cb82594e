package calc

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

func CalculateDiscount(baseTotal, discountPercent decimal.Decimal) decimal.Decimal {
	return baseTotal.Mul(discountPercent).Div(hundred)
}

// DiscountedPrice applies a percentage discount and rounds to cents.
func DiscountedPrice(price, discountPercent decimal.Decimal) decimal.Decimal {
	return price.Sub(CalculateDiscount(price, discountPercent)).Round(2)
}

// ValidDiscountPercentage is true for values strictly between 0 and 100.
func ValidDiscountPercentage(p decimal.Decimal) bool {
	return p.GreaterThan(decimal.Zero) && p.LessThan(hundred)
}
