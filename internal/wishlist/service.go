// Package wishlist mirrors the shopper's saved products.
package wishlist

import (
	"context"
	"strings"
	"sync"

	"github.com/freshfind/storefront/internal/notifications"
	"github.com/freshfind/storefront/pkg/backend"
	pkgerrors "github.com/freshfind/storefront/pkg/errors"
	"github.com/freshfind/storefront/pkg/logger"
)

const (
	MsgLoginRequired = "Please log in to use wishlist."
	MsgAdded         = "Product added to wishlist."
	MsgRemoved       = "Product removed from wishlist."
	MsgUpdateFailed  = "Wishlist update failed."
	MsgLoadFailed    = "Failed to load wishlist."
)

type Service interface {
	Load(ctx context.Context) (*View, error)
	Toggle(ctx context.Context, productID string) (*View, error)
	Remove(ctx context.Context, productID string) (*View, error)
	MoveToCart(ctx context.Context, productID string) (*View, error)
	View() View
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	Backend  Backend
	Session  Session
	Cart     CartAdder
	Notifier notifications.Notifier
	Logger   *logger.Logger
}

type service struct {
	api     Backend
	session Session
	cart    CartAdder
	notify  notifications.Notifier
	logg    *logger.Logger

	mu         sync.Mutex
	generation uint64
	loaded     bool
	stale      bool
	products   []backend.Product
	inflight   map[string]struct{}
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Backend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "wishlist backend is required")
	}
	if params.Session == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session is required")
	}
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart service is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger is required")
	}
	notify := params.Notifier
	if notify == nil {
		notify = notifications.Discard{}
	}
	return &service{
		api:      params.Backend,
		session:  params.Session,
		cart:     params.Cart,
		notify:   notify,
		logg:     params.Logger,
		inflight: map[string]struct{}{},
	}, nil
}

func (s *service) Load(ctx context.Context) (*View, error) {
	userID := s.session.UserID()
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	gen := s.session.Generation()
	list, err := s.api.Wishlist(ctx, userID)
	if err != nil {
		s.notify.Error(ctx, backend.UserMessage(err, MsgLoadFailed))
		return nil, err
	}
	if s.session.Generation() != gen {
		return nil, discarded()
	}

	s.mu.Lock()
	s.resetLocked(gen)
	s.products = list.Products
	s.loaded = true
	s.stale = false
	view := s.viewLocked()
	s.mu.Unlock()

	s.session.UpdateWishlistCount(view.Count)
	return &view, nil
}

// Toggle adds productID when it is not saved yet and removes it otherwise.
func (s *service) Toggle(ctx context.Context, productID string) (*View, error) {
	if s.session.UserID() == "" {
		s.notify.Error(ctx, MsgLoginRequired)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
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
	if s.View().Contains(strings.TrimSpace(productID)) {
		return s.Remove(ctx, productID)
	}
	return s.mutate(ctx, productID, true)
}

func (s *service) Remove(ctx context.Context, productID string) (*View, error) {
	return s.mutate(ctx, productID, false)
}

// MoveToCart adds the product to the cart and, once the cart confirmed it,
// drops it from the wishlist.
func (s *service) MoveToCart(ctx context.Context, productID string) (*View, error) {
	if _, err := s.cart.Add(ctx, productID, 1); err != nil {
		return nil, err
	}
	return s.mutate(ctx, productID, false)
}

func (s *service) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncGenerationLocked()
	return s.viewLocked()
}

func (s *service) mutate(ctx context.Context, productID string, add bool) (*View, error) {
	userID := s.session.UserID()
	if userID == "" {
		s.notify.Error(ctx, MsgLoginRequired)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.begin(productID); err != nil {
		return nil, err
	}
	defer s.end(productID)

	ctx = s.logg.WithFields(ctx, map[string]any{"product_id": productID, "wishlist_add": add})
	gen := s.session.Generation()

	var (
		list *backend.Wishlist
		err  error
	)
	success := MsgRemoved
	if add {
		success = MsgAdded
		list, err = s.api.AddToWishlist(ctx, userID, productID)
	} else {
		list, err = s.api.RemoveFromWishlist(ctx, userID, productID)
	}
	if err != nil {
		s.logg.Warn(ctx, "wishlist mutation failed: "+err.Error())
		s.notify.Error(ctx, backend.UserMessage(err, MsgUpdateFailed))
		return nil, err
	}
	if list == nil {
		if list, err = s.api.Wishlist(ctx, userID); err != nil {
			s.logg.Warn(ctx, "wishlist refetch after mutation failed: "+err.Error())
			list = nil
		}
	}
	if s.session.Generation() != gen {
		return nil, discarded()
	}

	s.mu.Lock()
	s.resetLocked(gen)
	confirmed := list != nil
	if confirmed {
		s.products = list.Products
	} else {
		s.products = applyLocal(s.products, productID, add)
	}
	s.stale = !confirmed
	view := s.viewLocked()
	s.mu.Unlock()

	// the badge only follows lengths the backend reported
	if confirmed {
		s.session.UpdateWishlistCount(view.Count)
	}
	s.notify.Success(ctx, success)
	return &view, nil
}

func applyLocal(products []backend.Product, productID string, add bool) []backend.Product {
	out := make([]backend.Product, 0, len(products)+1)
	for _, product := range products {
		if product.ID != productID {
			out = append(out, product)
		}
	}
	if add {
		out = append(out, backend.Product{ID: productID})
	}
	return out
}

func (s *service) begin(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[productID]; busy {
		return pkgerrors.New(pkgerrors.CodeConflict, "a wishlist update for this product is already in progress").
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

func (s *service) viewLocked() View {
	products := append([]backend.Product{}, s.products...)
	return View{Products: products, Count: len(products), Stale: s.stale}
}

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
	s.products = nil
	s.loaded = false
	s.stale = false
}

func discarded() error {
	return pkgerrors.New(pkgerrors.CodeSessionChanged, "session changed while the request was in flight")
}
