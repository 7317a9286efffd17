package pagination

const (
	// DefaultPerPage matches the product grid of the storefront.
	DefaultPerPage = 8
	// MaxPerPage caps how many rows any page can request.
	MaxPerPage = 100
)

// Params holds 1-based page inputs from controllers or services.
type Params struct {
	Page    int
	PerPage int
}

// Page is one slice of a larger list plus the numbers a pager needs.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// NormalizePerPage enforces the default and maximum page sizes.
func NormalizePerPage(perPage int) int {
	if perPage <= 0 {
		return DefaultPerPage
	}
	if perPage > MaxPerPage {
		return MaxPerPage
	}
	return perPage
}

// Slice returns the requested page of items. Pages past the end are empty
// but still report the totals.
func Slice[T any](items []T, params Params) Page[T] {
	perPage := NormalizePerPage(params.PerPage)
	page := params.Page
	if page < 1 {
		page = 1
	}

	total := len(items)
	totalPages := (total + perPage - 1) / perPage

	start := (page - 1) * perPage
	out := make([]T, 0, perPage)
	if start < total {
		end := start + perPage
		if end > total {
			end = total
		}
		out = append(out, items[start:end]...)
	}

	return Page[T]{
		Items:      out,
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
