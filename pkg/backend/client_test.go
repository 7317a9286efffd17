package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	pkgerrors "github.com/freshfind/storefront/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

type recordingObserver struct {
	mu       sync.Mutex
	observed []string
	errors   []string
}

func (r *recordingObserver) ObserveBackend(resource, method string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observed = append(r.observed, resource+" "+method)
}

func (r *recordingObserver) IncBackendError(resource, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, resource+" "+code)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL, opts...)
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient("  ")
	require.ErrorIs(t, err, errBaseURLRequired)
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `[]`)
	}, WithTokenSource(staticToken("tok-123")))

	_, err := client.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClientOmitsAuthorizationWithoutToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `[]`)
	}, WithTokenSource(staticToken("")))

	_, err := client.Banners(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClientMapsStatusCodes(t *testing.T) {
	cases := []struct {
		status int
		code   pkgerrors.Code
	}{
		{http.StatusBadRequest, pkgerrors.CodeValidation},
		{http.StatusUnprocessableEntity, pkgerrors.CodeValidation},
		{http.StatusUnauthorized, pkgerrors.CodeUnauthorized},
		{http.StatusForbidden, pkgerrors.CodeForbidden},
		{http.StatusNotFound, pkgerrors.CodeNotFound},
		{http.StatusConflict, pkgerrors.CodeConflict},
		{http.StatusTooManyRequests, pkgerrors.CodeRateLimit},
		{http.StatusInternalServerError, pkgerrors.CodeDependency},
		{http.StatusBadGateway, pkgerrors.CodeDependency},
	}

	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, `{"message":"backend says no"}`)
			})
			_, err := client.Offers(context.Background())
			require.Error(t, err)
			assert.True(t, pkgerrors.IsCode(err, tc.code), "got %v", err)

			details, ok := Details(err)
			require.True(t, ok)
			assert.Equal(t, tc.status, details.Status)
			assert.Equal(t, "offers", details.Resource)
			assert.Equal(t, "backend says no", UserMessage(err, "fallback"))
		})
	}
}

func TestClientSurfacesErrorFieldAndIgnoresHTMLBodies(t *testing.T) {
	assert.Equal(t, "Invalid credentials", backendMessage([]byte(`{"error":"Invalid credentials"}`)))
	assert.Equal(t, "", backendMessage([]byte(`<html><body>502</body></html>`)))
	assert.Equal(t, "plain text failure", backendMessage([]byte(`plain text failure`)))
	assert.Equal(t, "", backendMessage(nil))
}

func TestClientInvokesUnauthorizedHandler(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, WithUnauthorizedHandler(func(context.Context) { calls++ }))

	_, err := client.Cart(context.Background(), "u1")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "fallback", UserMessage(err, "fallback"))
}

func TestClientTransportFailureIsDependencyError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	observer := &recordingObserver{}
	client, err := NewClient(url, WithObserver(observer), WithTimeout(time.Second))
	require.NoError(t, err)

	_, err = client.Products(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Equal(t, []string{"products GET"}, observer.observed)
	assert.Equal(t, []string{"products DEPENDENCY_ERROR"}, observer.errors)
}

func TestClientDecodesDecimalWrappersAndPopulatedRefs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/o1", r.URL.Path)
		_, _ = io.WriteString(w, `{
			"order": {
				"_id": "o1",
				"userId": {"_id": "u1", "firstName": "Asha"},
				"delAddressId": "a1",
				"orderStatus": "Pending",
				"total": {"$numberDecimal": "460.00"},
				"shippingCharge": {"$numberDecimal": "50"}
			},
			"orderItems": [
				{"productId": {"_id": "p1", "productName": "Mango"}, "quantity": 2, "price": {"$numberDecimal": "225"}},
				{"productId": "p2", "quantity": 1, "price": "oops"}
			]
		}`)
	})

	detail, err := client.Order(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, "u1", detail.Order.User.ID)
	assert.Equal(t, "Asha", detail.Order.User.FirstName)
	assert.Equal(t, "a1", detail.Order.Address.ID)
	assert.True(t, detail.Order.Total.Value().Equal(decimal.RequireFromString("460")))
	assert.True(t, detail.Order.ShippingCharge.Value().Equal(decimal.NewFromInt(50)))
	require.Len(t, detail.Items, 2)
	assert.Equal(t, "Mango", detail.Items[0].Product.Name)
	assert.Equal(t, "p2", detail.Items[1].Product.ID)
	assert.True(t, detail.Items[1].Price.IsZero())
}

func TestCartMutationsReturnEchoedCartOrNil(t *testing.T) {
	var gotBody map[string]any
	var gotMethod string
	responses := []string{
		`{"items":[{"productId":{"_id":"p1","salePrice":"100"},"quantity":2}]}`,
		`{"message":"Cart updated"}`,
		`{"cart":{"items":[]}}`,
	}
	idx := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotBody = map[string]any{}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = io.WriteString(w, responses[idx])
		idx++
	})
	ctx := context.Background()

	cart, err := client.AddToCart(ctx, "u1", "p1", 2)
	require.NoError(t, err)
	require.NotNil(t, cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "u1", gotBody["userId"])
	assert.Equal(t, float64(2), gotBody["quantity"])

	cart, err = client.UpdateCartItem(ctx, "u1", "p1", 3)
	require.NoError(t, err)
	assert.Nil(t, cart)
	assert.Equal(t, http.MethodPut, gotMethod)

	cart, err = client.RemoveFromCart(ctx, "u1", "p1")
	require.NoError(t, err)
	require.NotNil(t, cart)
	assert.Empty(t, cart.Items)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "p1", gotBody["productId"])
}

func TestWishlistShapes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/wishlist/u1":
			_, _ = io.WriteString(w, `{"wishlist":{"productIds":[{"_id":"p1"},{"_id":"p2"}]}}`)
		case "/wishlist/u1/add":
			_, _ = io.WriteString(w, `{"message":"added"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	list, err := client.Wishlist(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list.Products, 2)

	echoed, err := client.AddToWishlist(ctx, "u1", "p3")
	require.NoError(t, err)
	assert.Nil(t, echoed)
}

func TestLoginRequiresTokenAndUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"message":"ok"}`)
	})
	_, err := client.Login(context.Background(), LoginInput{Email: "a@b.co", Password: "secret1"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestReviewsQueryAndAbout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/reviews":
			assert.Equal(t, "p1", r.URL.Query().Get("productId"))
			assert.Equal(t, "u1", r.URL.Query().Get("userId"))
			_, _ = io.WriteString(w, `[{"_id":"r1","rating":"4","review":"fresh","userId":"u1"}]`)
		case "/about-page":
			_, _ = io.WriteString(w, `{"data":{"content":"<p>Hello</p>"}}`)
		}
	})
	ctx := context.Background()

	reviews, err := client.Reviews(ctx, "p1", "u1")
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.True(t, reviews[0].Rating.Value().Equal(decimal.NewFromInt(4)))

	about, err := client.About(ctx)
	require.NoError(t, err)
	assert.Equal(t, "<p>Hello</p>", about.Content)
}

func TestClientKeepsListWhenOneEntryIsMalformed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[
			{"_id": "a", "productName": "Apple", "salePrice": "40"},
			{"_id": 123, "productName": "Berry", "categoryId": 7},
			{"_id": "c", "productName": ["not", "a", "name"]},
			"d"
		]`)
	})

	products, err := client.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3, "the entry with a non-string name is dropped")
	assert.Equal(t, "a", products[0].ID)
	assert.Equal(t, "123", products[1].ID)
	assert.Equal(t, "7", products[1].Category.ID)
	assert.Equal(t, "d", products[2].ID)
}

func TestClientDecodesLenientCartQuantities(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"_id": {"$oid": "cart-1"}, "items": [
			{"productId": {"_id": "p1", "salePrice": "100"}, "quantity": "2"},
			{"productId": 99, "quantity": null},
			{"productId": "p3", "quantity": 1, "_id": 5}
		]}`)
	})

	cart, err := client.Cart(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "cart-1", cart.ID)
	require.Len(t, cart.Items, 3)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "99", cart.Items[1].Product.ID)
	assert.Zero(t, cart.Items[1].Quantity)
	assert.Equal(t, "5", cart.Items[2].ID)
}
