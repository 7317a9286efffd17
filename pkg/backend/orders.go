package backend

import (
	"context"
	"net/http"
	"net/url"
)

const (
	resourceOffers    = "offers"
	resourceOrders    = "orders"
	resourceAddresses = "addresses"
)

func (c *Client) Offers(ctx context.Context) ([]Offer, error) {
	var out entries[Offer]
	if err := c.do(ctx, call{resource: resourceOffers, method: http.MethodGet, path: "/offers", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Offer(ctx context.Context, id string) (*Offer, error) {
	var out Offer
	if err := c.do(ctx, call{resource: resourceOffers, method: http.MethodGet, path: "/offers/" + url.PathEscape(id), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateOffer(ctx context.Context, input OfferInput) (*Offer, error) {
	var out Offer
	if err := c.do(ctx, call{resource: resourceOffers, method: http.MethodPost, path: "/offers", body: input, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateOffer(ctx context.Context, id string, input OfferInput) (*Offer, error) {
	var out Offer
	if err := c.do(ctx, call{resource: resourceOffers, method: http.MethodPut, path: "/offers/" + url.PathEscape(id), body: input, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteOffer(ctx context.Context, id string) error {
	return c.do(ctx, call{resource: resourceOffers, method: http.MethodDelete, path: "/offers/" + url.PathEscape(id)})
}

// Orders lists every order visible to the caller (all orders for admins).
func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var out entries[Order]
	if err := c.do(ctx, call{resource: resourceOrders, method: http.MethodGet, path: "/orders", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UserOrders(ctx context.Context, userID string) ([]Order, error) {
	var out struct {
		Orders entries[Order] `json:"orders"`
	}
	if err := c.do(ctx, call{resource: resourceOrders, method: http.MethodGet, path: "/orders/user/" + url.PathEscape(userID), out: &out}); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

func (c *Client) Order(ctx context.Context, id string) (*OrderDetail, error) {
	var out OrderDetail
	if err := c.do(ctx, call{resource: resourceOrders, method: http.MethodGet, path: "/orders/" + url.PathEscape(id), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateOrder(ctx context.Context, input OrderInput) (*Order, error) {
	var out Order
	if err := c.do(ctx, call{resource: resourceOrders, method: http.MethodPost, path: "/orders", body: input, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateOrder(ctx context.Context, id string, input OrderUpdate) error {
	return c.do(ctx, call{resource: resourceOrders, method: http.MethodPut, path: "/orders/" + url.PathEscape(id), body: input})
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.do(ctx, call{resource: resourceOrders, method: http.MethodDelete, path: "/orders/" + url.PathEscape(id)})
}

// HasPurchased reports whether userID has ordered productID; it gates reviews.
func (c *Client) HasPurchased(ctx context.Context, userID, productID string) (bool, error) {
	var out struct {
		Purchased bool `json:"purchased"`
	}
	path := "/orders/has-purchased/" + url.PathEscape(userID) + "/" + url.PathEscape(productID)
	if err := c.do(ctx, call{resource: resourceOrders, method: http.MethodGet, path: path, out: &out}); err != nil {
		return false, err
	}
	return out.Purchased, nil
}

func (c *Client) Addresses(ctx context.Context, userID string) ([]Address, error) {
	var out entries[Address]
	if err := c.do(ctx, call{resource: resourceAddresses, method: http.MethodGet, path: "/addresses/user/" + url.PathEscape(userID), out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateAddress(ctx context.Context, input AddressInput) (*Address, error) {
	var out Address
	if err := c.do(ctx, call{resource: resourceAddresses, method: http.MethodPost, path: "/addresses", body: input, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}
