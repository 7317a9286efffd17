package offers

import (
	"testing"
	"time"

	"github.com/freshfind/storefront/pkg/backend"
	pkgerrors "github.com/freshfind/storefront/pkg/errors"
	"github.com/freshfind/storefront/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func offerAt(code string, active bool, start, end string) backend.Offer {
	return backend.Offer{
		ID:           "id-" + code,
		Code:         code,
		Discount:     types.DecimalFromInt(10),
		MaxDiscount:  types.DecimalFromInt(40),
		MinimumOrder: types.DecimalFromInt(400),
		StartDate:    types.NewTimestamp(types.ParseTimestamp(start)),
		EndDate:      types.NewTimestamp(types.ParseTimestamp(end)),
		Active:       active,
	}
}

func TestIsActiveWindow(t *testing.T) {
	assert.True(t, IsActive(offerAt("A", true, "2026-03-01", "2026-03-31"), now))
	assert.False(t, IsActive(offerAt("B", false, "2026-03-01", "2026-03-31"), now), "inactive flag")
	assert.False(t, IsActive(offerAt("C", true, "2026-03-16", "2026-03-31"), now), "not started")
	assert.False(t, IsActive(offerAt("D", true, "2026-02-01", "2026-03-14"), now), "ended")
	assert.True(t, IsActive(offerAt("E", true, "", ""), now), "open window")
	assert.True(t, IsActive(offerAt("F", true, "2026-03-01", "2026-03-15"), now), "end date covers its whole day")
	assert.False(t, IsActive(offerAt("G", true, "2026-03-01", "2026-03-15T09:00:00Z"), now), "explicit end time")
}

func TestActiveKeepsOrder(t *testing.T) {
	list := []backend.Offer{
		offerAt("ONE", true, "", ""),
		offerAt("TWO", false, "", ""),
		offerAt("THREE", true, "2026-01-01", "2026-12-31"),
	}
	got := Active(list, now)
	require.Len(t, got, 2)
	assert.Equal(t, "ONE", got[0].Code)
	assert.Equal(t, "THREE", got[1].Code)
}

func TestFindByCode(t *testing.T) {
	list := []backend.Offer{offerAt("FRESH10", true, "", "")}
	offer, ok := FindByCode(list, " fresh10 ")
	require.True(t, ok)
	assert.Equal(t, "id-FRESH10", offer.ID)

	_, ok = FindByCode(list, "")
	assert.False(t, ok)

	byID, ok := FindByID(list, "id-FRESH10")
	require.True(t, ok)
	assert.Equal(t, "FRESH10", byID.Code)
}

func TestToPricing(t *testing.T) {
	p := ToPricing(offerAt("FRESH10", true, "", ""))
	assert.Equal(t, "FRESH10", p.Code)
	assert.True(t, p.MaxDiscount.Equal(types.ParseDecimal("40")))
	assert.True(t, p.MinimumOrder.Equal(types.ParseDecimal("400")))
}

func validInput() Input {
	return Input{
		Description:  "Ten percent off fresh produce",
		Code:         "FRESH10",
		Discount:     10,
		MaxDiscount:  40,
		MinimumOrder: 400,
		StartDate:    now,
		EndDate:      now.Add(48 * time.Hour),
	}
}

func TestValidateAcceptsGoodInput(t *testing.T) {
	require.NoError(t, Validate(validInput()))
}

func TestValidateRejectsBadFields(t *testing.T) {
	cases := map[string]func(*Input){
		"offerDescription": func(in *Input) { in.Description = "abc" },
		"offerCode":        func(in *Input) { in.Code = "fresh10" },
		"discount":         func(in *Input) { in.Discount = 120 },
		"maxDiscount":      func(in *Input) { in.MaxDiscount = -1 },
		"minimumOrder":     func(in *Input) { in.MinimumOrder = 0 },
		"endDate":          func(in *Input) { in.EndDate = in.StartDate },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			err := Validate(in)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
			details, ok := typed.Details().(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, field)
		})
	}
}

func TestValidateCodeLength(t *testing.T) {
	in := validInput()
	in.Code = "AB"
	assert.Error(t, Validate(in))
	in.Code = "ABCDEFGHIJK"
	assert.Error(t, Validate(in))
}

func TestInputToBackendDefaultsActive(t *testing.T) {
	payload := validInput().ToBackend()
	assert.True(t, payload.Active)
	assert.Equal(t, "FRESH10", payload.Code)
	assert.Equal(t, "2026-03-15T10:00:00Z", payload.StartDate)

	inactive := false
	in := validInput()
	in.Active = &inactive
	assert.False(t, in.ToBackend().Active)
}
