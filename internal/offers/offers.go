// Package offers lists the promotional codes shoppers may apply and lets
// admins maintain them.
package offers

import (
	"strings"
	"time"

	"github.com/freshfind/storefront/internal/pricing"
	"github.com/freshfind/storefront/pkg/backend"
)

// IsActive reports whether offer can be applied at now: the active flag is
// set and now falls inside [start, end]. Unset dates do not constrain. An end
// date without a time of day covers that whole day.
func IsActive(offer backend.Offer, now time.Time) bool {
	if !offer.Active {
		return false
	}
	if start := offer.StartDate.Time; !start.IsZero() && now.Before(start) {
		return false
	}
	if end := offer.EndDate.Time; !end.IsZero() && now.After(inclusiveEnd(end)) {
		return false
	}
	return true
}

func inclusiveEnd(end time.Time) time.Time {
	if end.Hour() == 0 && end.Minute() == 0 && end.Second() == 0 && end.Nanosecond() == 0 {
		return end.Add(24*time.Hour - time.Nanosecond)
	}
	return end
}

// Active keeps the offers that are active at now, in input order.
func Active(list []backend.Offer, now time.Time) []backend.Offer {
	out := make([]backend.Offer, 0, len(list))
	for _, offer := range list {
		if IsActive(offer, now) {
			out = append(out, offer)
		}
	}
	return out
}

// FindByCode matches codes case-insensitively.
func FindByCode(list []backend.Offer, code string) (backend.Offer, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return backend.Offer{}, false
	}
	for _, offer := range list {
		if strings.EqualFold(offer.Code, code) {
			return offer, true
		}
	}
	return backend.Offer{}, false
}

func FindByID(list []backend.Offer, id string) (backend.Offer, bool) {
	for _, offer := range list {
		if offer.ID == id {
			return offer, true
		}
	}
	return backend.Offer{}, false
}

// ToPricing extracts the pricing terms of a backend offer.
func ToPricing(offer backend.Offer) pricing.Offer {
	return pricing.Offer{
		ID:           offer.ID,
		Code:         offer.Code,
		Description:  offer.Description,
		Discount:     offer.Discount.Value(),
		MaxDiscount:  offer.MaxDiscount.Value(),
		MinimumOrder: offer.MinimumOrder.Value(),
	}
}
