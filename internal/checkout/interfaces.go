package checkout

import (
	"context"

	"github.com/freshfind/storefront/pkg/backend"
)

// Backend is the remote surface checkout and order history use.
type Backend interface {
	Cart(ctx context.Context, userID string) (*backend.Cart, error)
	Offers(ctx context.Context) ([]backend.Offer, error)
	Addresses(ctx context.Context, userID string) ([]backend.Address, error)
	CreateAddress(ctx context.Context, input backend.AddressInput) (*backend.Address, error)
	CreateOrder(ctx context.Context, input backend.OrderInput) (*backend.Order, error)
	UserOrders(ctx context.Context, userID string) ([]backend.Order, error)
	Orders(ctx context.Context) ([]backend.Order, error)
	Order(ctx context.Context, id string) (*backend.OrderDetail, error)
	UpdateOrder(ctx context.Context, id string, input backend.OrderUpdate) error
	DeleteOrder(ctx context.Context, id string) error
}

type Session interface {
	UserID() string
	IsAdmin() bool
}

// CartState is the shopper's in-memory cart, settled by checkout when the
// applied offer lapses or an order empties the cart.
type CartState interface {
	DropOffer(ctx context.Context)
	Replace(ctx context.Context, confirmed *backend.Cart)
}

// Metrics counts order placements.
type Metrics interface {
	IncOrder(outcome string)
}

type noopMetrics struct{}

func (noopMetrics) IncOrder(string) {}
