package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

const (
	resourceCart     = "cart"
	resourceWishlist = "wishlist"
)

func (c *Client) Cart(ctx context.Context, userID string) (*Cart, error) {
	var out Cart
	if err := c.do(ctx, call{resource: resourceCart, method: http.MethodGet, path: "/cart/" + url.PathEscape(userID), out: &out}); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []CartItem{}
	}
	return &out, nil
}

// AddToCart adds quantity of productID. The returned cart is nil when the
// backend acknowledged the write without echoing the cart.
func (c *Client) AddToCart(ctx context.Context, userID, productID string, quantity int) (*Cart, error) {
	body := map[string]any{"userId": userID, "productId": productID, "quantity": quantity}
	return c.cartMutation(ctx, http.MethodPost, "/cart", body)
}

func (c *Client) UpdateCartItem(ctx context.Context, userID, productID string, quantity int) (*Cart, error) {
	body := map[string]any{"productId": productID, "quantity": quantity}
	return c.cartMutation(ctx, http.MethodPut, "/cart/"+url.PathEscape(userID), body)
}

func (c *Client) RemoveFromCart(ctx context.Context, userID, productID string) (*Cart, error) {
	body := map[string]any{"productId": productID}
	return c.cartMutation(ctx, http.MethodDelete, "/cart/"+url.PathEscape(userID), body)
}

func (c *Client) cartMutation(ctx context.Context, method, path string, body any) (*Cart, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{resource: resourceCart, method: method, path: path, body: body, out: &raw}); err != nil {
		return nil, err
	}
	return echoedCart(raw), nil
}

// echoedCart accepts {"items": [...]} or {"cart": {"items": [...]}}.
func echoedCart(raw json.RawMessage) *Cart {
	if len(raw) == 0 {
		return nil
	}
	var shape struct {
		Items *entries[CartItem] `json:"items"`
		Cart  *struct {
			Items *entries[CartItem] `json:"items"`
		} `json:"cart"`
	}
	if err := json.Unmarshal(raw, &shape); err != nil {
		return nil
	}
	switch {
	case shape.Items != nil:
		return &Cart{Items: *shape.Items}
	case shape.Cart != nil && shape.Cart.Items != nil:
		return &Cart{Items: *shape.Cart.Items}
	default:
		return nil
	}
}

func (c *Client) Wishlist(ctx context.Context, userID string) (*Wishlist, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{resource: resourceWishlist, method: http.MethodGet, path: "/wishlist/" + url.PathEscape(userID), out: &raw}); err != nil {
		return nil, err
	}
	if list := echoedWishlist(raw); list != nil {
		return list, nil
	}
	return &Wishlist{Products: []Product{}}, nil
}

// AddToWishlist returns nil when the backend did not echo the wishlist.
func (c *Client) AddToWishlist(ctx context.Context, userID, productID string) (*Wishlist, error) {
	return c.wishlistMutation(ctx, http.MethodPost, "/wishlist/"+url.PathEscape(userID)+"/add", productID)
}

func (c *Client) RemoveFromWishlist(ctx context.Context, userID, productID string) (*Wishlist, error) {
	return c.wishlistMutation(ctx, http.MethodDelete, "/wishlist/"+url.PathEscape(userID)+"/remove", productID)
}

func (c *Client) wishlistMutation(ctx context.Context, method, path, productID string) (*Wishlist, error) {
	var raw json.RawMessage
	body := map[string]string{"productId": productID}
	if err := c.do(ctx, call{resource: resourceWishlist, method: method, path: path, body: body, out: &raw}); err != nil {
		return nil, err
	}
	return echoedWishlist(raw), nil
}

// echoedWishlist accepts {"wishlist": {"productIds": [...]}} or {"productIds": [...]}.
func echoedWishlist(raw json.RawMessage) *Wishlist {
	if len(raw) == 0 {
		return nil
	}
	var shape struct {
		Wishlist *struct {
			Products *entries[Product] `json:"productIds"`
		} `json:"wishlist"`
		Products *entries[Product] `json:"productIds"`
	}
	if err := json.Unmarshal(raw, &shape); err != nil {
		return nil
	}
	switch {
	case shape.Wishlist != nil && shape.Wishlist.Products != nil:
		return &Wishlist{Products: *shape.Wishlist.Products}
	case shape.Products != nil:
		return &Wishlist{Products: *shape.Products}
	default:
		return nil
	}
}
