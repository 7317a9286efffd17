package pricing

import (
	"github.com/shopspring/decimal"
)

// Summary is the derived checkout breakdown. It is never stored.
type Summary struct {
	Subtotal     decimal.Decimal
	Discount     decimal.Decimal
	Shipping     decimal.Decimal
	Total        decimal.Decimal
	AppliedOffer *Offer
	Eligibility  *Eligibility
	ItemCount    int
	Empty        bool
}

// Engine computes summaries with a fixed flat shipping charge.
type Engine struct {
	shipping decimal.Decimal
	symbol   string
}

func NewEngine(shipping decimal.Decimal, currencySymbol string) *Engine {
	if currencySymbol == "" {
		currencySymbol = DefaultCurrencySymbol
	}
	return &Engine{shipping: nonNegative(shipping), symbol: currencySymbol}
}

// Shipping returns the flat shipping charge.
func (e *Engine) Shipping() decimal.Decimal {
	return e.shipping
}

func (e *Engine) CurrencySymbol() string {
	return e.symbol
}

// IneligibleMessage formats the minimum-purchase notification for offer.
func (e *Engine) IneligibleMessage(offer Offer) string {
	return MinimumPurchaseMessage(e.symbol, offer)
}

// Summarize prices lines and applies offer when it is still eligible at the
// resulting subtotal. An ineligible offer is dropped from the summary.
func (e *Engine) Summarize(lines []Line, offer *Offer) Summary {
	subtotal := Subtotal(lines)
	summary := Summary{
		Subtotal:  subtotal,
		Discount:  decimal.Zero,
		Shipping:  e.shipping,
		ItemCount: len(lines),
		Empty:     len(lines) == 0,
	}

	if offer != nil {
		result := Evaluate(*offer, subtotal)
		summary.Eligibility = &result
		if result.Eligible {
			applied := *offer
			summary.AppliedOffer = &applied
			summary.Discount = result.Discount
		}
	}

	// total must never go negative, whatever the offer terms say
	if ceiling := subtotal.Add(e.shipping); summary.Discount.GreaterThan(ceiling) {
		summary.Discount = ceiling
	}
	summary.Total = subtotal.Sub(summary.Discount).Add(e.shipping)
	return summary
}

// Rounded returns a copy rounded to two places for display. The total is
// recomputed from the rounded parts so the breakdown still adds up.
func (s Summary) Rounded() Summary {
	out := s
	out.Subtotal = s.Subtotal.Round(2)
	out.Discount = s.Discount.Round(2)
	out.Shipping = s.Shipping.Round(2)
	out.Total = out.Subtotal.Sub(out.Discount).Add(out.Shipping)
	if out.Total.IsNegative() {
		out.Discount = out.Subtotal.Add(out.Shipping)
		out.Total = decimal.Zero
	}
	return out
}
