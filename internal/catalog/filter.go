package catalog

import (
	"sort"
	"strings"

	"github.com/freshfind/storefront/internal/pricing"
	"github.com/freshfind/storefront/pkg/backend"
	pkgerrors "github.com/freshfind/storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

// Price range bucket keys, matched on the discounted unit price. The ranges
// are contiguous so every price lands in exactly one bucket.
const (
	PriceUnder50   = "lt50"
	Price51To100   = "51to100"
	Price101To200  = "101to200"
	Price201To500  = "201to500"
	PriceOver500   = "gt500"
	DiscountUnder5 = "lt5"
	Discount5To15  = "5to15"
	Discount15To25 = "15to25"
	DiscountOver25 = "gt25"
)

const (
	minRatingFilter = 1
	maxRatingFilter = 4
)

// Filters holds the shop page criteria. Empty fields do not constrain.
type Filters struct {
	Ratings    string `json:"ratings"`
	PriceRange string `json:"priceRange"`
	Discount   string `json:"discount"`
}

type bound struct {
	min, max           decimal.Decimal
	hasMin, hasMax     bool
	minOpen, maxClosed bool
}

func (b bound) contains(v decimal.Decimal) bool {
	if b.hasMin {
		if b.minOpen && !v.GreaterThan(b.min) {
			return false
		}
		if !b.minOpen && v.LessThan(b.min) {
			return false
		}
	}
	if b.hasMax {
		if b.maxClosed && v.GreaterThan(b.max) {
			return false
		}
		if !b.maxClosed && !v.LessThan(b.max) {
			return false
		}
	}
	return true
}

func below(max int64) bound {
	return bound{max: decimal.NewFromInt(max), hasMax: true}
}

func between(min, max int64) bound {
	return bound{min: decimal.NewFromInt(min), max: decimal.NewFromInt(max), hasMin: true, hasMax: true, maxClosed: true}
}

// over is (min, max]: it picks up where the previous closed bucket ends.
func over(min, max int64) bound {
	b := between(min, max)
	b.minOpen = true
	return b
}

func above(min int64) bound {
	return bound{min: decimal.NewFromInt(min), hasMin: true, minOpen: true}
}

var priceBuckets = map[string]bound{
	PriceUnder50:  below(50),
	Price51To100:  between(50, 100),
	Price101To200: over(100, 200),
	Price201To500: over(200, 500),
	PriceOver500:  above(500),
}

var discountBuckets = map[string]bound{
	DiscountUnder5: below(5),
	Discount5To15:  between(5, 15),
	Discount15To25: between(15, 25),
	DiscountOver25: above(25),
}

// PriceRangeKeys lists the price buckets in display order.
func PriceRangeKeys() []string {
	return []string{PriceUnder50, Price51To100, Price101To200, Price201To500, PriceOver500}
}

func DiscountKeys() []string {
	return []string{DiscountUnder5, Discount5To15, Discount15To25, DiscountOver25}
}

// Normalize trims every field.
func (f Filters) Normalize() Filters {
	return Filters{
		Ratings:    strings.TrimSpace(f.Ratings),
		PriceRange: strings.TrimSpace(f.PriceRange),
		Discount:   strings.TrimSpace(f.Discount),
	}
}

// IsEmpty reports whether no criterion is active.
func (f Filters) IsEmpty() bool {
	n := f.Normalize()
	return n.Ratings == "" && n.PriceRange == "" && n.Discount == ""
}

// Validate rejects unknown bucket keys with per-field details.
func (f Filters) Validate() error {
	n := f.Normalize()
	invalid := map[string]string{}
	if n.Ratings != "" {
		if _, ok := ratingThreshold(n.Ratings); !ok {
			invalid["ratings"] = "must be one of 1, 2, 3, 4"
		}
	}
	if n.PriceRange != "" {
		if _, ok := priceBuckets[n.PriceRange]; !ok {
			invalid["priceRange"] = "must be one of " + strings.Join(PriceRangeKeys(), ", ")
		}
	}
	if n.Discount != "" {
		if _, ok := discountBuckets[n.Discount]; !ok {
			invalid["discount"] = "must be one of " + strings.Join(DiscountKeys(), ", ")
		}
	}
	if len(invalid) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product filters").WithDetails(invalid)
	}
	return nil
}

func ratingThreshold(raw string) (decimal.Decimal, bool) {
	value, err := decimal.NewFromString(raw)
	if err != nil || !value.IsInteger() {
		return decimal.Zero, false
	}
	if value.LessThan(decimal.NewFromInt(minRatingFilter)) || value.GreaterThan(decimal.NewFromInt(maxRatingFilter)) {
		return decimal.Zero, false
	}
	return value, true
}

// Matches reports whether product satisfies every active criterion. Unknown
// keys match nothing so a bad filter never widens the result.
func (f Filters) Matches(product backend.Product) bool {
	n := f.Normalize()
	if n.Ratings != "" {
		threshold, ok := ratingThreshold(n.Ratings)
		if !ok || product.AverageRating.Value().LessThan(threshold) {
			return false
		}
	}
	if n.PriceRange != "" {
		b, ok := priceBuckets[n.PriceRange]
		if !ok || !b.contains(DiscountedPrice(product)) {
			return false
		}
	}
	if n.Discount != "" {
		b, ok := discountBuckets[n.Discount]
		if !ok || !b.contains(product.Discount.Value()) {
			return false
		}
	}
	return true
}

// DiscountedPrice is the per-unit price after the product's own discount.
func DiscountedPrice(product backend.Product) decimal.Decimal {
	return pricing.UnitPrice(product.SalePrice.Value(), product.Discount.Value())
}

// Apply returns the products matching filters, in input order.
func Apply(products []backend.Product, filters Filters) []backend.Product {
	out := make([]backend.Product, 0, len(products))
	for _, product := range products {
		if filters.Matches(product) {
			out = append(out, product)
		}
	}
	return out
}

// MatchesQuery is a case-insensitive substring match on name, description and
// category name. An empty query matches everything.
func MatchesQuery(product backend.Product, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{product.Name, product.Description, product.Category.Name} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Search combines the text query with filters.
func Search(products []backend.Product, query string, filters Filters) []backend.Product {
	out := make([]backend.Product, 0, len(products))
	for _, product := range products {
		if MatchesQuery(product, query) && filters.Matches(product) {
			out = append(out, product)
		}
	}
	return out
}

const (
	SortDefault   = ""
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortRating    = "rating"
	SortName      = "name"
)

// SortProducts returns a sorted copy. Unknown keys keep the input order.
func SortProducts(products []backend.Product, key string) []backend.Product {
	out := append([]backend.Product(nil), products...)
	var less func(a, b backend.Product) bool
	switch key {
	case SortPriceAsc:
		less = func(a, b backend.Product) bool { return DiscountedPrice(a).LessThan(DiscountedPrice(b)) }
	case SortPriceDesc:
		less = func(a, b backend.Product) bool { return DiscountedPrice(a).GreaterThan(DiscountedPrice(b)) }
	case SortRating:
		less = func(a, b backend.Product) bool { return a.AverageRating.Value().GreaterThan(b.AverageRating.Value()) }
	case SortName:
		less = func(a, b backend.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	default:
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
