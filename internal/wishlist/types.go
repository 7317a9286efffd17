package wishlist

import (
	"context"

	"github.com/freshfind/storefront/internal/cart"
	"github.com/freshfind/storefront/pkg/backend"
)

// Backend is the remote wishlist surface.
type Backend interface {
	Wishlist(ctx context.Context, userID string) (*backend.Wishlist, error)
	AddToWishlist(ctx context.Context, userID, productID string) (*backend.Wishlist, error)
	RemoveFromWishlist(ctx context.Context, userID, productID string) (*backend.Wishlist, error)
}

type Session interface {
	UserID() string
	Generation() uint64
	UpdateWishlistCount(n int)
}

// CartAdder moves products into the cart.
type CartAdder interface {
	Add(ctx context.Context, productID string, quantity int) (*cart.View, error)
}

// View is the wishlist as last confirmed by the backend.
type View struct {
	Products []backend.Product `json:"products"`
	Count    int               `json:"count"`
	Stale    bool              `json:"stale"`
}

// Contains reports whether productID is on the list.
func (v View) Contains(productID string) bool {
	for _, product := range v.Products {
		if product.ID == productID {
			return true
		}
	}
	return false
}
