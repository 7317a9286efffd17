package backend

import (
	"context"
	"net/http"
	"net/url"
)

const (
	resourceProducts   = "products"
	resourceCategories = "categories"
	resourceBanners    = "banners"
	resourceReviews    = "reviews"
	resourceContent    = "content"
)

func (c *Client) Products(ctx context.Context) ([]Product, error) {
	return c.productList(ctx, "/products")
}

func (c *Client) TrendingProducts(ctx context.Context) ([]Product, error) {
	return c.productList(ctx, "/products/trending")
}

func (c *Client) LatestProducts(ctx context.Context) ([]Product, error) {
	return c.productList(ctx, "/products/latest")
}

func (c *Client) productList(ctx context.Context, path string) ([]Product, error) {
	var out entries[Product]
	if err := c.do(ctx, call{resource: resourceProducts, method: http.MethodGet, path: path, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Product(ctx context.Context, id string) (*Product, error) {
	var out Product
	if err := c.do(ctx, call{resource: resourceProducts, method: http.MethodGet, path: "/products/" + url.PathEscape(id), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out entries[Category]
	if err := c.do(ctx, call{resource: resourceCategories, method: http.MethodGet, path: "/categories", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Banners(ctx context.Context) ([]Banner, error) {
	var out entries[Banner]
	if err := c.do(ctx, call{resource: resourceBanners, method: http.MethodGet, path: "/banners", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

// Reviews lists reviews for a product, optionally narrowed to one author.
func (c *Client) Reviews(ctx context.Context, productID, userID string) ([]Review, error) {
	query := map[string]string{"productId": productID}
	if userID != "" {
		query["userId"] = userID
	}
	var out entries[Review]
	if err := c.do(ctx, call{resource: resourceReviews, method: http.MethodGet, path: "/reviews", query: query, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateReview(ctx context.Context, input ReviewInput) error {
	return c.do(ctx, call{resource: resourceReviews, method: http.MethodPost, path: "/reviews", body: input})
}

func (c *Client) About(ctx context.Context) (*AboutPage, error) {
	var out struct {
		Data AboutPage `json:"data"`
	}
	if err := c.do(ctx, call{resource: resourceContent, method: http.MethodGet, path: "/about-page", out: &out}); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) Contact(ctx context.Context) (*ContactInfo, error) {
	var out ContactInfo
	if err := c.do(ctx, call{resource: resourceContent, method: http.MethodGet, path: "/contact", out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendContactMessage posts the contact form to the admin inbox.
func (c *Client) SendContactMessage(ctx context.Context, msg ContactMessage) error {
	return c.do(ctx, call{resource: resourceContent, method: http.MethodPost, path: "/responses", body: msg})
}
