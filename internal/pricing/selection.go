package pricing

import (
	pkgerrors "github.com/freshfind/storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

// Transition names what a Selection call did to the applied offer.
type Transition string

const (
	TransitionNone       Transition = "none"
	TransitionApplied    Transition = "applied"
	TransitionReplaced   Transition = "replaced"
	TransitionRecomputed Transition = "recomputed"
	TransitionRemoved    Transition = "removed"
)

// Selection tracks the single applied offer of one cart session.
// It is not safe for concurrent use; owners serialize access.
type Selection struct {
	offer    *Offer
	discount decimal.Decimal
}

// NewSelection starts in the no-offer state.
func NewSelection() *Selection {
	return &Selection{discount: decimal.Zero}
}

// Current returns the applied offer, if any.
func (s *Selection) Current() (Offer, bool) {
	if s.offer == nil {
		return Offer{}, false
	}
	return *s.offer, true
}

// Discount returns the discount computed at the last transition.
func (s *Selection) Discount() decimal.Decimal {
	return s.discount
}

// Apply makes offer the applied offer when it is eligible at subtotal,
// replacing any prior one. An ineligible offer clears the selection and
// returns a state-conflict error carrying the shortfall.
func (s *Selection) Apply(offer Offer, subtotal decimal.Decimal) (Eligibility, Transition, error) {
	result := Evaluate(offer, subtotal)
	if !result.Eligible {
		transition := TransitionNone
		if s.offer != nil {
			transition = TransitionRemoved
		}
		s.Clear()
		return result, transition, pkgerrors.New(pkgerrors.CodeOfferIneligible, "offer minimum order not met").
			WithDetails(map[string]any{
				"code":          offer.Code,
				"minimum_order": offer.MinimumOrder.String(),
				"shortfall":     result.Shortfall.String(),
			})
	}

	transition := TransitionApplied
	if s.offer != nil {
		if s.offer.SameAs(offer) {
			transition = TransitionRecomputed
		} else {
			transition = TransitionReplaced
		}
	}
	applied := offer
	s.offer = &applied
	s.discount = result.Discount
	return result, transition, nil
}

// Reevaluate re-checks the applied offer after the cart changed.
func (s *Selection) Reevaluate(subtotal decimal.Decimal) (Eligibility, Transition) {
	if s.offer == nil {
		return Eligibility{Discount: decimal.Zero}, TransitionNone
	}
	result := Evaluate(*s.offer, subtotal)
	if !result.Eligible {
		s.Clear()
		return result, TransitionRemoved
	}
	s.discount = result.Discount
	return result, TransitionRecomputed
}

// Clear drops the applied offer.
func (s *Selection) Clear() {
	s.offer = nil
	s.discount = decimal.Zero
}
