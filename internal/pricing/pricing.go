package pricing

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Line is a cart line reduced to the fields that affect price.
type Line struct {
	ProductID       string
	SalePrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	Quantity        int
}

// UnitPrice applies the per-product discount to the sale price.
// Negative prices clamp to zero and the discount clamps to [0,100].
func UnitPrice(salePrice, discountPercent decimal.Decimal) decimal.Decimal {
	price := nonNegative(salePrice)
	pct := clampPercent(discountPercent)
	return price.Sub(price.Mul(pct).Div(hundred))
}

// LineTotal is the discounted unit price times quantity.
func LineTotal(line Line) decimal.Decimal {
	qty := line.Quantity
	if qty < 0 {
		qty = 0
	}
	return UnitPrice(line.SalePrice, line.DiscountPercent).Mul(decimal.NewFromInt(int64(qty)))
}

// Subtotal sums every line total.
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(LineTotal(line))
	}
	return total
}

func nonNegative(value decimal.Decimal) decimal.Decimal {
	if value.IsNegative() {
		return decimal.Zero
	}
	return value
}

func clampPercent(value decimal.Decimal) decimal.Decimal {
	if value.IsNegative() {
		return decimal.Zero
	}
	if value.GreaterThan(hundred) {
		return hundred
	}
	return value
}
