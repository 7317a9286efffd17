package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshfind/storefront/internal/cart"
	"github.com/freshfind/storefront/internal/catalog"
	"github.com/freshfind/storefront/internal/checkout"
	pkgerrors "github.com/freshfind/storefront/pkg/errors"
)

type recordingCatalog struct {
	catalog.Service
	got catalog.ProductQuery
}

func (c *recordingCatalog) Products(_ context.Context, query catalog.ProductQuery) (*catalog.ProductPage, error) {
	c.got = query
	return &catalog.ProductPage{}, nil
}

type recordingCart struct {
	cart.Service
	op       string
	quantity int
}

func (c *recordingCart) Add(_ context.Context, _ string, quantity int) (*cart.View, error) {
	c.op, c.quantity = "add", quantity
	return &cart.View{}, nil
}

func (c *recordingCart) SetQuantity(_ context.Context, _ string, quantity int) (*cart.View, error) {
	c.op, c.quantity = "set", quantity
	return &cart.View{}, nil
}

func (c *recordingCart) ChangeQuantity(_ context.Context, _ string, delta int) (*cart.View, error) {
	c.op, c.quantity = "change", delta
	return &cart.View{}, nil
}

func (c *recordingCart) ApplyOffer(_ context.Context, code string) (*cart.View, error) {
	return nil, pkgerrors.New(pkgerrors.CodeOfferIneligible, "offer minimum order not met").
		WithDetails(map[string]string{"code": code})
}

type recordingCheckout struct {
	checkout.Service
	id, status string
}

func (c *recordingCheckout) UpdateOrderStatus(_ context.Context, id, status string) error {
	c.id, c.status = id, status
	return nil
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestCatalogProductsParsesQuery(t *testing.T) {
	svc := &recordingCatalog{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?q=%20apple%20&category=fruit&sort=price_asc&page=2&perPage=12&priceRange=lt50", nil)
	resp := httptest.NewRecorder()
	CatalogProducts(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "apple", svc.got.Query)
	assert.Equal(t, "fruit", svc.got.Category)
	assert.Equal(t, "price_asc", svc.got.Sort)
	assert.Equal(t, 2, svc.got.Page.Page)
	assert.Equal(t, 12, svc.got.Page.PerPage)
	require.NotNil(t, svc.got.Filters)
	assert.Equal(t, catalog.PriceUnder50, svc.got.Filters.PriceRange)
}

func TestCatalogProductsUsesSessionFiltersWithoutParams(t *testing.T) {
	svc := &recordingCatalog{}
	resp := httptest.NewRecorder()
	CatalogProducts(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Nil(t, svc.got.Filters)
	assert.Equal(t, 1, svc.got.Page.Page)
}

func TestCatalogProductsRejectsBadPage(t *testing.T) {
	resp := httptest.NewRecorder()
	CatalogProducts(&recordingCatalog{}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?page=zero", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCartAddDefaultsQuantity(t *testing.T) {
	svc := &recordingCart{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"productId":"p1"}`))
	resp := httptest.NewRecorder()
	CartAdd(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "add", svc.op)
	assert.Equal(t, 1, svc.quantity)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"quantity":2}`))
	resp = httptest.NewRecorder()
	CartAdd(svc, nil).ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCartUpdateQuantityRoutesSetOrDelta(t *testing.T) {
	svc := &recordingCart{}

	req := withURLParam(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"quantity":4}`)), "productId", "p1")
	resp := httptest.NewRecorder()
	CartUpdateQuantity(svc, nil).ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "set", svc.op)
	assert.Equal(t, 4, svc.quantity)

	req = withURLParam(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"delta":-1}`)), "productId", "p1")
	resp = httptest.NewRecorder()
	CartUpdateQuantity(svc, nil).ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "change", svc.op)
	assert.Equal(t, -1, svc.quantity)

	req = withURLParam(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"quantity":1,"delta":1}`)), "productId", "p1")
	resp = httptest.NewRecorder()
	CartUpdateQuantity(svc, nil).ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCartApplyOfferReportsShortfall(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/offer", strings.NewReader(`{"code":"FRESH10"}`))
	resp := httptest.NewRecorder()
	CartApplyOffer(&recordingCart{}, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	var envelope struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, string(pkgerrors.CodeOfferIneligible), envelope.Error.Code)
	assert.Equal(t, "FRESH10", envelope.Error.Details["code"])
}

func TestAdminOrderStatus(t *testing.T) {
	svc := &recordingCheckout{}
	req := withURLParam(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"orderStatus":"Shipped"}`)), "orderId", "o-1")
	resp := httptest.NewRecorder()
	AdminOrderStatus(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "o-1", svc.id)
	assert.Equal(t, "Shipped", svc.status)
}

func TestOrderGetRequiresID(t *testing.T) {
	resp := httptest.NewRecorder()
	OrderGet(&recordingCheckout{}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
