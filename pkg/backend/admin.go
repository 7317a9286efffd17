package backend

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

const resourceResponses = "responses"

// Upload is an image sent with a multipart admin form.
type Upload struct {
	Field  string
	Name   string
	Reader io.Reader
}

// ProductForm is the admin product payload. Values travel as multipart
// fields next to the optional productImage upload.
type ProductForm struct {
	Name        string
	Description string
	Discount    string
	CostPrice   string
	SalePrice   string
	Stock       string
	CategoryID  string
}

func (f ProductForm) fields() map[string]string {
	return map[string]string{
		"productName": f.Name,
		"description": f.Description,
		"discount":    f.Discount,
		"costPrice":   f.CostPrice,
		"salePrice":   f.SalePrice,
		"stock":       f.Stock,
		"categoryId":  f.CategoryID,
	}
}

type CategoryForm struct {
	Name  string
	Color string
}

func (f CategoryForm) fields() map[string]string {
	return map[string]string{"name": f.Name, "color": f.Color}
}

// BannerForm edits a banner's slot and visibility.
type BannerForm struct {
	ViewOrder string
	Active    string
}

func (f BannerForm) fields() map[string]string {
	return map[string]string{"viewOrder": f.ViewOrder, "activeStatus": f.Active}
}

// UserForm is the admin user edit.
type UserForm struct {
	FirstName string
	LastName  string
	Email     string
	Mobile    string
	Password  string
}

func (f UserForm) fields() map[string]string {
	return map[string]string{
		"firstName": f.FirstName,
		"lastName":  f.LastName,
		"email":     f.Email,
		"mobile":    f.Mobile,
		"password":  f.Password,
	}
}

type ReviewUpdate struct {
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

func idPath(prefix, id string) string {
	return prefix + "/" + url.PathEscape(id)
}

func (c *Client) CreateProduct(ctx context.Context, form ProductForm, image *Upload) (*Product, error) {
	var out Product
	req := call{resource: resourceProducts, method: http.MethodPost, path: "/products", form: form.fields(), upload: image, out: &out}
	if err := c.do(ctx, req); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, form ProductForm, image *Upload) (*Product, error) {
	var out Product
	req := call{resource: resourceProducts, method: http.MethodPut, path: idPath("/products", id), form: form.fields(), upload: image, out: &out}
	if err := c.do(ctx, req); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, call{resource: resourceProducts, method: http.MethodDelete, path: idPath("/products", id)})
}

func (c *Client) Category(ctx context.Context, id string) (*Category, error) {
	var out Category
	if err := c.do(ctx, call{resource: resourceCategories, method: http.MethodGet, path: idPath("/categories", id), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCategory(ctx context.Context, form CategoryForm, image *Upload) (*Category, error) {
	var out Category
	req := call{resource: resourceCategories, method: http.MethodPost, path: "/categories", form: form.fields(), upload: image, out: &out}
	if err := c.do(ctx, req); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id string, form CategoryForm, image *Upload) (*Category, error) {
	var out Category
	req := call{resource: resourceCategories, method: http.MethodPut, path: idPath("/categories", id), form: form.fields(), upload: image, out: &out}
	if err := c.do(ctx, req); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, call{resource: resourceCategories, method: http.MethodDelete, path: idPath("/categories", id)})
}

func (c *Client) Banner(ctx context.Context, id string) (*Banner, error) {
	var out Banner
	if err := c.do(ctx, call{resource: resourceBanners, method: http.MethodGet, path: idPath("/banners", id), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBanner(ctx context.Context, id string, form BannerForm, image *Upload) (*Banner, error) {
	var out Banner
	req := call{resource: resourceBanners, method: http.MethodPut, path: idPath("/banners", id), form: form.fields(), upload: image, out: &out}
	if err := c.do(ctx, req); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBanner(ctx context.Context, id string) error {
	return c.do(ctx, call{resource: resourceBanners, method: http.MethodDelete, path: idPath("/banners", id)})
}

func (c *Client) Users(ctx context.Context) ([]User, error) {
	var out entries[User]
	if err := c.do(ctx, call{resource: resourceUsers, method: http.MethodGet, path: "/users", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceUser is the admin edit; unlike UpdateUser it may change the email
// and password and carries an optional profilePicture upload.
func (c *Client) ReplaceUser(ctx context.Context, id string, form UserForm, picture *Upload) (*User, error) {
	var out User
	req := call{resource: resourceUsers, method: http.MethodPut, path: idPath("/users", id), form: form.fields(), upload: picture, out: &out}
	if err := c.do(ctx, req); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, call{resource: resourceUsers, method: http.MethodDelete, path: idPath("/users", id)})
}

// AllReviews lists every review across products for moderation.
func (c *Client) AllReviews(ctx context.Context) ([]Review, error) {
	var out entries[Review]
	if err := c.do(ctx, call{resource: resourceReviews, method: http.MethodGet, path: "/reviews", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Review(ctx context.Context, id string) (*Review, error) {
	var out Review
	if err := c.do(ctx, call{resource: resourceReviews, method: http.MethodGet, path: idPath("/reviews", id), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateReview(ctx context.Context, id string, input ReviewUpdate) (*Review, error) {
	var out Review
	if err := c.do(ctx, call{resource: resourceReviews, method: http.MethodPut, path: idPath("/reviews", id), body: input, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ReplyToReview(ctx context.Context, id, reply string) (*Review, error) {
	var out Review
	body := map[string]string{"reply": reply}
	if err := c.do(ctx, call{resource: resourceReviews, method: http.MethodPut, path: idPath("/reviews", id) + "/reply", body: body, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteReview(ctx context.Context, id string) error {
	return c.do(ctx, call{resource: resourceReviews, method: http.MethodDelete, path: idPath("/reviews", id)})
}

func (c *Client) UpdateAbout(ctx context.Context, content string) error {
	body := AboutPage{Content: content}
	return c.do(ctx, call{resource: resourceContent, method: http.MethodPut, path: "/about-page", body: body})
}

func (c *Client) UpdateContact(ctx context.Context, info ContactInfo) error {
	return c.do(ctx, call{resource: resourceContent, method: http.MethodPut, path: "/contact", body: info})
}

// ContactResponses lists the contact inbox.
func (c *Client) ContactResponses(ctx context.Context) ([]ContactResponse, error) {
	var out entries[ContactResponse]
	if err := c.do(ctx, call{resource: resourceResponses, method: http.MethodGet, path: "/responses", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ReplyToResponse(ctx context.Context, id, reply string) (*ContactResponse, error) {
	var out ContactResponse
	body := map[string]string{"reply": reply}
	if err := c.do(ctx, call{resource: resourceResponses, method: http.MethodPut, path: idPath("/responses", id) + "/reply", body: body, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteResponse(ctx context.Context, id string) error {
	return c.do(ctx, call{resource: resourceResponses, method: http.MethodDelete, path: idPath("/responses", id)})
}
