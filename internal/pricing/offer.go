package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultCurrencySymbol prefixes amounts in shopper-facing messages.
const DefaultCurrencySymbol = "₹"

// Offer carries the terms of a promotional code that matter for pricing.
type Offer struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Description  string          `json:"description,omitempty"`
	Discount     decimal.Decimal `json:"discount"`
	MaxDiscount  decimal.Decimal `json:"max_discount"`
	MinimumOrder decimal.Decimal `json:"minimum_order"`
}

// SameAs reports whether both values identify the same promotional code.
func (o Offer) SameAs(other Offer) bool {
	if o.ID != "" && other.ID != "" {
		return o.ID == other.ID
	}
	return o.Code == other.Code
}

// Eligibility is the outcome of checking one offer against a subtotal.
type Eligibility struct {
	Eligible    bool
	RawDiscount decimal.Decimal
	Discount    decimal.Decimal
	Capped      bool
	Shortfall   decimal.Decimal
}

// Evaluate checks offer against subtotal. The max discount cap always wins
// over the percentage.
func Evaluate(offer Offer, subtotal decimal.Decimal) Eligibility {
	sub := nonNegative(subtotal)
	minimum := nonNegative(offer.MinimumOrder)
	if sub.LessThan(minimum) {
		return Eligibility{
			Eligible:    false,
			RawDiscount: decimal.Zero,
			Discount:    decimal.Zero,
			Shortfall:   minimum.Sub(sub),
		}
	}

	raw := sub.Mul(clampPercent(offer.Discount)).Div(hundred)
	applied := raw
	capped := false
	if maxDiscount := nonNegative(offer.MaxDiscount); applied.GreaterThan(maxDiscount) {
		applied = maxDiscount
		capped = true
	}

	return Eligibility{
		Eligible:    true,
		RawDiscount: raw,
		Discount:    applied,
		Capped:      capped,
		Shortfall:   decimal.Zero,
	}
}

// MinimumPurchaseMessage is the notification shown when an offer does not apply.
func MinimumPurchaseMessage(symbol string, offer Offer) string {
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}
	return fmt.Sprintf("This offer requires a minimum purchase of %s%s", symbol, nonNegative(offer.MinimumOrder).String())
}
