package offers

import (
	"strings"
	"time"

	"github.com/freshfind/storefront/pkg/backend"
	"github.com/freshfind/storefront/pkg/types"
	"github.com/freshfind/storefront/pkg/validate"
	"github.com/shopspring/decimal"
)

// Input is the admin offer form.
type Input struct {
	Description  string    `json:"offerDescription" validate:"required,min=5,max=100"`
	Code         string    `json:"offerCode" validate:"required,offercode,min=3,max=10"`
	Discount     float64   `json:"discount" validate:"required,gte=1,lte=100"`
	MaxDiscount  float64   `json:"maxDiscount" validate:"required,gt=0"`
	MinimumOrder float64   `json:"minimumOrder" validate:"required,gt=0"`
	StartDate    time.Time `json:"startDate" validate:"required"`
	EndDate      time.Time `json:"endDate" validate:"required,gtfield=StartDate"`
	Active       *bool     `json:"activeStatus,omitempty"`
}

// Normalize trims text fields.
func (in Input) Normalize() Input {
	out := in
	out.Description = strings.TrimSpace(in.Description)
	out.Code = strings.TrimSpace(in.Code)
	return out
}

// Validate applies the admin form rules.
func Validate(in Input) error {
	return validate.Struct(in.Normalize())
}

// ToBackend builds the create/update payload. New offers default to active.
func (in Input) ToBackend() backend.OfferInput {
	n := in.Normalize()
	active := true
	if n.Active != nil {
		active = *n.Active
	}
	return backend.OfferInput{
		Description:  n.Description,
		Code:         n.Code,
		Discount:     types.NewDecimal(decimal.NewFromFloat(n.Discount)),
		MaxDiscount:  types.NewDecimal(decimal.NewFromFloat(n.MaxDiscount)),
		MinimumOrder: types.NewDecimal(decimal.NewFromFloat(n.MinimumOrder)),
		StartDate:    n.StartDate.UTC().Format(time.RFC3339),
		EndDate:      n.EndDate.UTC().Format(time.RFC3339),
		Active:       active,
	}
}
