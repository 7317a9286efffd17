package cart

import (
	"github.com/freshfind/storefront/internal/pricing"
	"github.com/freshfind/storefront/pkg/backend"
	"github.com/shopspring/decimal"
)

// Line is one cart line as views render it.
type Line struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"productName"`
	Image     string          `json:"productImage,omitempty"`
	SalePrice decimal.Decimal `json:"salePrice"`
	Discount  decimal.Decimal `json:"discount"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// SummaryView is the rounded price breakdown.
type SummaryView struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discountAmount"`
	Shipping     decimal.Decimal `json:"shippingCharge"`
	Total        decimal.Decimal `json:"total"`
	AppliedOffer *pricing.Offer  `json:"appliedOffer"`
	Empty        bool            `json:"empty"`
}

// View is the cart page.
type View struct {
	Items   []Line          `json:"items"`
	Offers  []backend.Offer `json:"offers"`
	Summary SummaryView     `json:"summary"`
	Count   int             `json:"count"`
	Stale   bool            `json:"stale"`
}

// Lines converts backend cart items into pricing lines.
func Lines(items []backend.CartItem) []pricing.Line {
	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, pricing.Line{
			ProductID:       item.Product.ID,
			SalePrice:       item.Product.SalePrice.Value(),
			DiscountPercent: item.Product.Discount.Value(),
			Quantity:        item.Quantity,
		})
	}
	return lines
}

// LineViews enriches cart items for display.
func LineViews(items []backend.CartItem) []Line {
	out := make([]Line, 0, len(items))
	for _, item := range items {
		p := item.Product
		unit := pricing.UnitPrice(p.SalePrice.Value(), p.Discount.Value())
		out = append(out, Line{
			ProductID: p.ID,
			Name:      p.Name,
			Image:     p.Image,
			SalePrice: p.SalePrice.Value(),
			Discount:  p.Discount.Value(),
			UnitPrice: unit.Round(2),
			Quantity:  item.Quantity,
			LineTotal: pricing.LineTotal(pricing.Line{SalePrice: p.SalePrice.Value(), DiscountPercent: p.Discount.Value(), Quantity: item.Quantity}).Round(2),
		})
	}
	return out
}

// SummaryFrom rounds a pricing summary for display.
func SummaryFrom(summary pricing.Summary) SummaryView {
	rounded := summary.Rounded()
	return SummaryView{
		Subtotal:     rounded.Subtotal,
		Discount:     rounded.Discount,
		Shipping:     rounded.Shipping,
		Total:        rounded.Total,
		AppliedOffer: rounded.AppliedOffer,
		Empty:        rounded.Empty,
	}
}
