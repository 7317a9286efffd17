// Package cart keeps the shopper's cart in step with the backend and prices
// it. Local state only ever reflects server-confirmed responses; prices and
// the applied offer are recomputed after each confirmed change.
package cart

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/freshfind/storefront/internal/notifications"
	"github.com/freshfind/storefront/internal/offers"
	"github.com/freshfind/storefront/internal/pricing"
	"github.com/freshfind/storefront/pkg/backend"
	pkgerrors "github.com/freshfind/storefront/pkg/errors"
	"github.com/freshfind/storefront/pkg/logger"
	"github.com/freshfind/storefront/pkg/storage/tab"
	"golang.org/x/sync/errgroup"
)

// Shopper-facing messages.
const (
	MsgLoginRequired  = "Please log in to add items to your cart."
	MsgAdded          = "Product added to cart successfully!"
	MsgAddFailed      = "Failed to add product to cart."
	MsgUpdated        = "Cart updated successfully"
	MsgUpdateFailed   = "Failed to update cart"
	MsgRemoved        = "Product removed from cart!"
	MsgRemoveFailed   = "Failed to remove product"
	MsgLoadFailed     = "Failed to fetch cart or offers"
	MsgOfferApplied   = "Offer applied successfully!"
	MsgOfferRemoved   = "Offer removed."
	MsgOfferNotFound  = "This offer is not available."
	MsgOfferDeapplied = "Your offer no longer applies: "
)

const (
	operationAdd    = "add"
	operationSet    = "set_quantity"
	operationRemove = "remove"
	operationOffer  = "apply_offer"

	outcomeSuccess   = "success"
	outcomeFailure   = "failure"
	outcomeDiscarded = "discarded"
	outcomeRejected  = "rejected"

	defaultAddQuantity = 1
)

// Service is the cart of the current session.
type Service interface {
	Load(ctx context.Context) (*View, error)
	Add(ctx context.Context, productID string, quantity int) (*View, error)
	SetQuantity(ctx context.Context, productID string, quantity int) (*View, error)
	ChangeQuantity(ctx context.Context, productID string, delta int) (*View, error)
	Remove(ctx context.Context, productID string) (*View, error)
	ApplyOffer(ctx context.Context, code string) (*View, error)
	ClearOffer(ctx context.Context) (*View, error)
	DropOffer(ctx context.Context)
	Replace(ctx context.Context, confirmed *backend.Cart)
	Summary() pricing.Summary
	View() View
}

// Params wires the cart service.
type Params struct {
	Backend  Backend
	Session  Session
	Offers   OfferStore
	Engine   *pricing.Engine
	Notifier notifications.Notifier
	Metrics  Metrics
	Logger   *logger.Logger
}

type service struct {
	api     Backend
	session Session
	store   OfferStore
	engine  *pricing.Engine
	notify  notifications.Notifier
	metrics Metrics
	logg    *logger.Logger
	now     func() time.Time

	mu         sync.Mutex
	generation uint64
	loaded     bool
	stale      bool
	items      []backend.CartItem
	offers     []backend.Offer
	selection  *pricing.Selection
	applied    *backend.Offer
	inflight   map[string]struct{}
}

// NewService constructs the cart service.
func NewService(params Params) (Service, error) {
	if params.Backend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart backend required")
	}
	if params.Session == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session required")
	}
	if params.Offers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "offer store required")
	}
	if params.Engine == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "pricing engine required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	notify := params.Notifier
	if notify == nil {
		notify = notifications.Discard{}
	}
	metrics := params.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &service{
		api:       params.Backend,
		session:   params.Session,
		store:     params.Offers,
		engine:    params.Engine,
		notify:    notify,
		metrics:   metrics,
		logg:      params.Logger,
		now:       time.Now,
		selection: pricing.NewSelection(),
		inflight:  map[string]struct{}{},
	}, nil
}

// Load fetches the cart and offers together, then restores the applied offer
// from tab storage and re-checks it against the fresh subtotal.
func (s *service) Load(ctx context.Context) (*View, error) {
	userID, err := s.requireUser(ctx, false)
	if err != nil {
		return nil, err
	}
	gen := s.session.Generation()

	var (
		cart    *backend.Cart
		offered []backend.Offer
	)
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		cart, err = s.api.Cart(gctx, userID)
		return err
	})
	group.Go(func() error {
		var err error
		offered, err = s.api.Offers(gctx)
		return err
	})
	if err := group.Wait(); err != nil {
		s.notify.Error(ctx, backend.UserMessage(err, MsgLoadFailed))
		return nil, err
	}

	var stored backend.Offer
	found, readErr := s.store.GetJSON(ctx, tab.KeyAppliedOffer, &stored)
	if readErr != nil {
		s.logg.Warn(ctx, "reading applied offer failed: "+readErr.Error())
		found = false
	}

	if s.session.Generation() != gen {
		return nil, s.discard(ctx, "load")
	}

	active := offers.Active(offered, s.now())
	s.mu.Lock()
	s.resetLocked(gen)
	s.items = cart.Items
	s.offers = active
	s.loaded = true
	s.stale = false
	// tab storage decides which offer is applied; memory only stands in
	// when storage could not be read.
	transition := pricing.TransitionNone
	switch {
	case found:
		transition = s.restoreOfferLocked(stored)
	case readErr != nil && s.applied != nil:
		transition = s.restoreOfferLocked(*s.applied)
	default:
		s.selection.Clear()
		s.applied = nil
	}
	count := len(s.items)
	applied := s.applied
	view := s.viewLocked()
	s.mu.Unlock()

	s.session.UpdateCartCount(count)
	s.persistOffer(ctx, transition, applied)
	return &view, nil
}

// restoreOfferLocked re-applies a stored offer using the latest terms of the
// matching active offer. Offers that ended or fell below minimum are dropped
// without a notification.
func (s *service) restoreOfferLocked(stored backend.Offer) pricing.Transition {
	current, ok := offers.FindByID(s.offers, stored.ID)
	if !ok {
		current, ok = offers.FindByCode(s.offers, stored.Code)
	}
	if !ok {
		s.selection.Clear()
		s.applied = nil
		return pricing.TransitionRemoved
	}
	subtotal := pricing.Subtotal(Lines(s.items))
	if _, _, err := s.selection.Apply(offers.ToPricing(current), subtotal); err != nil {
		s.applied = nil
		return pricing.TransitionRemoved
	}
	s.applied = &current
	return pricing.TransitionApplied
}

func (s *service) Add(ctx context.Context, productID string, quantity int) (*View, error) {
	if quantity == 0 {
		quantity = defaultAddQuantity
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	return s.mutate(ctx, mutation{
		operation: operationAdd,
		productID: productID,
		success:   MsgAdded,
		failure:   MsgAddFailed,
		call: func(ctx context.Context, userID, productID string) (*backend.Cart, error) {
			return s.api.AddToCart(ctx, userID, productID, quantity)
		},
		local: func(items []backend.CartItem, productID string) []backend.CartItem {
			for i, item := range items {
				if item.Product.ID == productID {
					items[i].Quantity += quantity
					return items
				}
			}
			return append(items, backend.CartItem{Product: backend.Product{ID: productID}, Quantity: quantity})
		},
	})
}

func (s *service) SetQuantity(ctx context.Context, productID string, quantity int) (*View, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	return s.mutate(ctx, mutation{
		operation: operationSet,
		productID: productID,
		success:   MsgUpdated,
		failure:   MsgUpdateFailed,
		call: func(ctx context.Context, userID, productID string) (*backend.Cart, error) {
			return s.api.UpdateCartItem(ctx, userID, productID, quantity)
		},
		local: func(items []backend.CartItem, productID string) []backend.CartItem {
			for i, item := range items {
				if item.Product.ID == productID {
					items[i].Quantity = quantity
				}
			}
			return items
		},
	})
}

// ChangeQuantity moves the quantity by delta from the confirmed value; the
// result never drops below one.
func (s *service) ChangeQuantity(ctx context.Context, productID string, delta int) (*View, error) {
	productID = strings.TrimSpace(productID)
	s.mu.Lock()
	current := 0
	if s.generation == s.session.Generation() {
		for _, item := range s.items {
			if item.Product.ID == productID {
				current = item.Quantity
				break
			}
		}
	}
	s.mu.Unlock()
	if current == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart").
			WithDetails(map[string]any{"productId": productID})
	}
	next := current + delta
	if next < 1 {
		next = 1
	}
	return s.SetQuantity(ctx, productID, next)
}

func (s *service) Remove(ctx context.Context, productID string) (*View, error) {
	return s.mutate(ctx, mutation{
		operation: operationRemove,
		productID: productID,
		success:   MsgRemoved,
		failure:   MsgRemoveFailed,
		call: func(ctx context.Context, userID, productID string) (*backend.Cart, error) {
			return s.api.RemoveFromCart(ctx, userID, productID)
		},
		local: func(items []backend.CartItem, productID string) []backend.CartItem {
			out := items[:0]
			for _, item := range items {
				if item.Product.ID != productID {
					out = append(out, item)
				}
			}
			return out
		},
	})
}

func (s *service) Summary() pricing.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncGenerationLocked()
	return s.summaryLocked()
}

func (s *service) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncGenerationLocked()
	return s.viewLocked()
}

func (s *service) summaryLocked() pricing.Summary {
	var offer *pricing.Offer
	if current, ok := s.selection.Current(); ok {
		offer = &current
	}
	return s.engine.Summarize(Lines(s.items), offer)
}

func (s *service) viewLocked() View {
	offered := append([]backend.Offer{}, s.offers...)
	return View{
		Items:   LineViews(s.items),
		Offers:  offered,
		Summary: SummaryFrom(s.summaryLocked()),
		Count:   len(s.items),
		Stale:   s.stale,
	}
}

// syncGenerationLocked drops state that belongs to a previous session.
func (s *service) syncGenerationLocked() {
	if gen := s.session.Generation(); gen != s.generation {
		s.resetLocked(gen)
	}
}

func (s *service) resetLocked(gen uint64) {
	if s.generation == gen {
		return
	}
	s.generation = gen
	s.items = nil
	s.loaded = false
	s.stale = false
	s.applied = nil
	s.selection.Clear()
}

func (s *service) requireUser(ctx context.Context, notify bool) (string, error) {
	userID := s.session.UserID()
	if userID == "" {
		if notify {
			s.notify.Error(ctx, MsgLoginRequired)
		}
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	return userID, nil
}

func (s *service) discard(ctx context.Context, operation string) error {
	s.metrics.IncMutation(operation, outcomeDiscarded)
	s.logg.Info(ctx, "session changed during cart request, response discarded")
	return pkgerrors.New(pkgerrors.CodeSessionChanged, "session changed while the request was in flight")
}
