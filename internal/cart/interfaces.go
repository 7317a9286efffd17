package cart

import (
	"context"

	"github.com/freshfind/storefront/pkg/backend"
)

// Backend is the remote surface the cart service calls.
type Backend interface {
	Cart(ctx context.Context, userID string) (*backend.Cart, error)
	AddToCart(ctx context.Context, userID, productID string, quantity int) (*backend.Cart, error)
	UpdateCartItem(ctx context.Context, userID, productID string, quantity int) (*backend.Cart, error)
	RemoveFromCart(ctx context.Context, userID, productID string) (*backend.Cart, error)
	Offers(ctx context.Context) ([]backend.Offer, error)
}

// Session is the slice of the session context the cart reads and updates.
type Session interface {
	UserID() string
	Generation() uint64
	UpdateCartCount(n int)
}

// OfferStore persists the applied offer for the lifetime of the tab.
type OfferStore interface {
	SetJSON(ctx context.Context, name string, value any) error
	GetJSON(ctx context.Context, name string, dest any) (bool, error)
	Delete(ctx context.Context, name string) error
}

// Metrics records cart outcomes.
type Metrics interface {
	IncMutation(operation, outcome string)
	IncOfferTransition(transition string)
}

type noopMetrics struct{}

func (noopMetrics) IncMutation(string, string) {}
func (noopMetrics) IncOfferTransition(string)  {}
