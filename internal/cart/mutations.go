package cart

import (
	"context"
	"strings"

	"github.com/freshfind/storefront/internal/offers"
	"github.com/freshfind/storefront/internal/pricing"
	"github.com/freshfind/storefront/pkg/backend"
	pkgerrors "github.com/freshfind/storefront/pkg/errors"
	"github.com/freshfind/storefront/pkg/storage/tab"
)

type mutation struct {
	operation string
	productID string
	success   string
	failure   string
	call      func(ctx context.Context, userID, productID string) (*backend.Cart, error)
	// local applies the confirmed change when the backend did not echo the
	// cart and the follow-up fetch failed too.
	local func(items []backend.CartItem, productID string) []backend.CartItem
}

// mutate runs one cart change: guard, backend call, apply the confirmed
// response, update the count, then re-price and re-check the offer.
func (s *service) mutate(ctx context.Context, m mutation) (*View, error) {
	userID, err := s.requireUser(ctx, true)
	if err != nil {
		s.metrics.IncMutation(m.operation, outcomeRejected)
		return nil, err
	}
	productID := strings.TrimSpace(m.productID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.begin(productID); err != nil {
		s.metrics.IncMutation(m.operation, outcomeRejected)
		return nil, err
	}
	defer s.end(productID)

	ctx = s.logg.WithFields(ctx, map[string]any{"cart_operation": m.operation, "product_id": productID})
	gen := s.session.Generation()

	echoed, err := m.call(ctx, userID, productID)
	if err != nil {
		s.metrics.IncMutation(m.operation, outcomeFailure)
		s.logg.Warn(ctx, "cart mutation failed: "+err.Error())
		s.notify.Error(ctx, backend.UserMessage(err, m.failure))
		return nil, err
	}

	stale := false
	if echoed == nil {
		refetched, err := s.api.Cart(ctx, userID)
		if err != nil {
			s.logg.Warn(ctx, "cart refetch after mutation failed: "+err.Error())
			stale = true
		} else {
			echoed = refetched
		}
	}

	if s.session.Generation() != gen {
		return nil, s.discard(ctx, m.operation)
	}

	s.mu.Lock()
	s.resetLocked(gen)
	if echoed != nil {
		s.items = echoed.Items
	} else {
		s.items = m.local(append([]backend.CartItem(nil), s.items...), productID)
	}
	s.stale = stale
	count := len(s.items)
	var previous *backend.Offer
	if s.applied != nil {
		offer := *s.applied
		previous = &offer
	}
	_, transition := s.selection.Reevaluate(pricing.Subtotal(Lines(s.items)))
	if transition == pricing.TransitionRemoved {
		s.applied = nil
	}
	view := s.viewLocked()
	s.mu.Unlock()

	s.session.UpdateCartCount(count)
	if transition == pricing.TransitionRemoved && previous != nil {
		s.persistOffer(ctx, transition, nil)
		s.metrics.IncOfferTransition(string(transition))
		s.notify.Info(ctx, MsgOfferDeapplied+s.engine.IneligibleMessage(offers.ToPricing(*previous)))
	}
	s.metrics.IncMutation(m.operation, outcomeSuccess)
	s.notify.Success(ctx, m.success)
	return &view, nil
}

func (s *service) begin(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[productID]; busy {
		return pkgerrors.New(pkgerrors.CodeConflict, "an update for this product is already in progress").
			WithDetails(map[string]any{"productId": productID})
	}
	s.inflight[productID] = struct{}{}
	return nil
}

func (s *service) end(productID string) {
	s.mu.Lock()
	delete(s.inflight, productID)
	s.mu.Unlock()
}

// ApplyOffer applies an active offer by code. An ineligible offer leaves no
// offer applied, clearing any earlier one.
func (s *service) ApplyOffer(ctx context.Context, code string) (*View, error) {
	if _, err := s.requireUser(ctx, false); err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer code is required")
	}

	s.mu.Lock()
	s.syncGenerationLocked()
	loaded := s.loaded
	s.mu.Unlock()
	if !loaded {
		if _, err := s.Load(ctx); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.syncGenerationLocked()
	offer, ok := offers.FindByCode(s.offers, code)
	if !ok {
		s.mu.Unlock()
		s.notify.Error(ctx, MsgOfferNotFound)
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found or not active").
			WithDetails(map[string]any{"code": strings.ToUpper(code)})
	}
	subtotal := pricing.Subtotal(Lines(s.items))
	_, transition, applyErr := s.selection.Apply(offers.ToPricing(offer), subtotal)
	if applyErr != nil {
		s.applied = nil
	} else {
		applied := offer
		s.applied = &applied
	}
	view := s.viewLocked()
	s.mu.Unlock()

	s.metrics.IncOfferTransition(string(transition))
	if applyErr != nil {
		s.metrics.IncMutation(operationOffer, outcomeRejected)
		if transition == pricing.TransitionRemoved {
			s.persistOffer(ctx, transition, nil)
		}
		s.notify.Error(ctx, s.engine.IneligibleMessage(offers.ToPricing(offer)))
		return &view, applyErr
	}

	s.persistOffer(ctx, transition, &offer)
	s.metrics.IncMutation(operationOffer, outcomeSuccess)
	s.notify.Success(ctx, MsgOfferApplied)
	return &view, nil
}

func (s *service) ClearOffer(ctx context.Context) (*View, error) {
	s.mu.Lock()
	s.syncGenerationLocked()
	_, had := s.selection.Current()
	s.selection.Clear()
	s.applied = nil
	view := s.viewLocked()
	s.mu.Unlock()

	s.persistOffer(ctx, pricing.TransitionRemoved, nil)
	if had {
		s.metrics.IncOfferTransition(string(pricing.TransitionRemoved))
		s.notify.Info(ctx, MsgOfferRemoved)
	}
	return &view, nil
}

// DropOffer clears the applied offer without telling the shopper, for
// callers that settle the cart themselves (an order was placed, or checkout
// found the offer no longer applies).
func (s *service) DropOffer(ctx context.Context) {
	s.mu.Lock()
	s.syncGenerationLocked()
	_, had := s.selection.Current()
	s.selection.Clear()
	s.applied = nil
	s.mu.Unlock()

	s.persistOffer(ctx, pricing.TransitionRemoved, nil)
	if had {
		s.metrics.IncOfferTransition(string(pricing.TransitionRemoved))
	}
}

// Replace installs a cart the backend confirmed outside the cart's own
// mutations, then updates the count and re-checks the applied offer.
func (s *service) Replace(ctx context.Context, confirmed *backend.Cart) {
	if confirmed == nil {
		return
	}
	gen := s.session.Generation()
	s.mu.Lock()
	s.resetLocked(gen)
	s.items = append([]backend.CartItem(nil), confirmed.Items...)
	s.stale = false
	_, transition := s.selection.Reevaluate(pricing.Subtotal(Lines(s.items)))
	if transition == pricing.TransitionRemoved {
		s.applied = nil
	}
	count := len(s.items)
	s.mu.Unlock()

	s.session.UpdateCartCount(count)
	if transition == pricing.TransitionRemoved {
		s.persistOffer(ctx, transition, nil)
		s.metrics.IncOfferTransition(string(transition))
	}
}

// persistOffer mirrors the applied offer into tab storage. Failures are
// logged; the next Load trusts storage again once it can be read.
func (s *service) persistOffer(ctx context.Context, transition pricing.Transition, offer *backend.Offer) {
	var err error
	switch {
	case transition == pricing.TransitionRemoved:
		err = s.store.Delete(ctx, tab.KeyAppliedOffer)
	case offer != nil:
		err = s.store.SetJSON(ctx, tab.KeyAppliedOffer, offer)
	default:
		return
	}
	if err != nil {
		s.logg.Error(ctx, "persisting applied offer failed", err)
	}
}

// LoadAppliedOffer reads the offer persisted by the cart, if any.
func LoadAppliedOffer(ctx context.Context, store OfferStore) (*backend.Offer, error) {
	var offer backend.Offer
	found, err := store.GetJSON(ctx, tab.KeyAppliedOffer, &offer)
	if err != nil || !found {
		return nil, err
	}
	return &offer, nil
}
