package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/freshfind/storefront/internal/cart"
	"github.com/freshfind/storefront/internal/notifications"
	"github.com/freshfind/storefront/internal/pricing"
	"github.com/freshfind/storefront/pkg/backend"
	pkgerrors "github.com/freshfind/storefront/pkg/errors"
	"github.com/freshfind/storefront/pkg/logger"
	"github.com/freshfind/storefront/pkg/storage/tab"
	"github.com/freshfind/storefront/pkg/types"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	catalog    map[string]backend.Product
	items      []backend.CartItem
	offers     []backend.Offer
	addresses  []backend.Address
	cartErr    error
	createErr  error
	created    []backend.OrderInput
	newAddress []backend.AddressInput
	detail     *backend.OrderDetail
	updated    map[string]string
	deleted    []string
	cartCalls  int
}

func (f *fakeBackend) Cart(context.Context, string) (*backend.Cart, error) {
	f.cartCalls++
	if f.cartErr != nil {
		return nil, f.cartErr
	}
	return &backend.Cart{Items: append([]backend.CartItem{}, f.items...)}, nil
}

func (f *fakeBackend) Offers(context.Context) ([]backend.Offer, error) { return f.offers, nil }

func (f *fakeBackend) AddToCart(_ context.Context, _ string, productID string, quantity int) (*backend.Cart, error) {
	for i := range f.items {
		if f.items[i].Product.ID == productID {
			f.items[i].Quantity += quantity
			return &backend.Cart{Items: append([]backend.CartItem{}, f.items...)}, nil
		}
	}
	f.items = append(f.items, backend.CartItem{Product: f.catalog[productID], Quantity: quantity})
	return &backend.Cart{Items: append([]backend.CartItem{}, f.items...)}, nil
}

func (f *fakeBackend) UpdateCartItem(_ context.Context, _ string, productID string, quantity int) (*backend.Cart, error) {
	for i := range f.items {
		if f.items[i].Product.ID == productID {
			f.items[i].Quantity = quantity
		}
	}
	return &backend.Cart{Items: append([]backend.CartItem{}, f.items...)}, nil
}

func (f *fakeBackend) RemoveFromCart(_ context.Context, _ string, productID string) (*backend.Cart, error) {
	out := []backend.CartItem{}
	for _, item := range f.items {
		if item.Product.ID != productID {
			out = append(out, item)
		}
	}
	f.items = out
	return &backend.Cart{Items: append([]backend.CartItem{}, f.items...)}, nil
}

func (f *fakeBackend) Addresses(context.Context, string) ([]backend.Address, error) {
	return f.addresses, nil
}

func (f *fakeBackend) CreateAddress(_ context.Context, input backend.AddressInput) (*backend.Address, error) {
	f.newAddress = append(f.newAddress, input)
	return &backend.Address{ID: "addr-new", FullName: input.FullName}, nil
}

func (f *fakeBackend) CreateOrder(_ context.Context, input backend.OrderInput) (*backend.Order, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, input)
	f.items = nil
	return &backend.Order{ID: "ord-1", Status: input.OrderStatus}, nil
}

func (f *fakeBackend) UserOrders(context.Context, string) ([]backend.Order, error) {
	return []backend.Order{{ID: "ord-1"}}, nil
}

func (f *fakeBackend) Orders(context.Context) ([]backend.Order, error) {
	return []backend.Order{{ID: "ord-1"}, {ID: "ord-2"}}, nil
}

func (f *fakeBackend) Order(context.Context, string) (*backend.OrderDetail, error) {
	if f.detail == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return f.detail, nil
}

func (f *fakeBackend) UpdateOrder(_ context.Context, id string, input backend.OrderUpdate) error {
	if f.updated == nil {
		f.updated = map[string]string{}
	}
	f.updated[id] = input.OrderStatus
	return nil
}

func (f *fakeBackend) DeleteOrder(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeSession struct {
	userID string
	admin  bool
	count  int
}

func (s *fakeSession) UserID() string        { return s.userID }
func (s *fakeSession) IsAdmin() bool         { return s.admin }
func (s *fakeSession) UpdateCartCount(n int) { s.count = n }
func (s *fakeSession) Generation() uint64    { return 1 }

type mapStore map[string]string

func (m mapStore) SetJSON(_ context.Context, name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m[name] = string(raw)
	return nil
}

func (m mapStore) GetJSON(_ context.Context, name string, dest any) (bool, error) {
	raw, ok := m[name]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal([]byte(raw), dest)
}

func (m mapStore) Delete(_ context.Context, name string) error {
	delete(m, name)
	return nil
}

type countingOrders map[string]int

func (c countingOrders) IncOrder(outcome string) { c[outcome]++ }

func fresh10() backend.Offer {
	return backend.Offer{
		ID:           "off-1",
		Code:         "FRESH10",
		Discount:     types.DecimalFromInt(10),
		MaxDiscount:  types.DecimalFromInt(40),
		MinimumOrder: types.DecimalFromInt(400),
		Active:       true,
	}
}

func item(id string, sale, discount int64, qty int) backend.CartItem {
	return backend.CartItem{
		Product:  backend.Product{ID: id, Name: id, SalePrice: types.DecimalFromInt(sale), Discount: types.DecimalFromInt(discount)},
		Quantity: qty,
	}
}

type fixture struct {
	svc     Service
	cart    cart.Service
	api     *fakeBackend
	session *fakeSession
	store   mapStore
	feed    *notifications.Feed
	metrics countingOrders
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		api: &fakeBackend{
			items:     []backend.CartItem{item("p1", 500, 10, 1)},
			offers:    []backend.Offer{fresh10()},
			addresses: []backend.Address{{ID: "addr-1", FullName: "Asha Rao"}},
		},
		session: &fakeSession{userID: "u-1"},
		store:   mapStore{},
		feed:    notifications.NewFeed(20, nil),
		metrics: countingOrders{},
	}
	engine := pricing.NewEngine(decimal.NewFromInt(50), "")
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.DebugLevel, Output: &bytes.Buffer{}})
	cartSvc, err := cart.NewService(cart.Params{
		Backend:  f.api,
		Session:  f.session,
		Offers:   f.store,
		Engine:   engine,
		Notifier: f.feed,
		Logger:   logg,
	})
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{
		Backend:  f.api,
		Session:  f.session,
		Cart:     cartSvc,
		Offers:   f.store,
		Engine:   engine,
		Notifier: f.feed,
		Metrics:  f.metrics,
		Logger:   logg,
	})
	require.NoError(t, err)
	impl := svc.(*service)
	impl.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	f.svc = svc
	f.cart = cartSvc
	return f
}

func (f *fixture) applyStored(t *testing.T) {
	t.Helper()
	require.NoError(t, f.store.SetJSON(context.Background(), tab.KeyAppliedOffer, fresh10()))
}

func (f *fixture) messages() []string {
	out := []string{}
	for _, n := range f.feed.Drain() {
		out = append(out, n.Message)
	}
	return out
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func TestSummaryAppliesStoredOffer(t *testing.T) {
	f := newFixture(t)
	f.applyStored(t)

	summary, err := f.svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Len(t, summary.Addresses, 1)
	require.Len(t, summary.Items, 1)
	assert.True(t, summary.Items[0].UnitPrice.Equal(dec("450")))
	require.NotNil(t, summary.Pricing.AppliedOffer)
	assert.True(t, summary.Pricing.Subtotal.Equal(dec("450")))
	assert.True(t, summary.Pricing.Discount.Equal(dec("40")))
	assert.True(t, summary.Pricing.Total.Equal(dec("460")))
	assert.Empty(t, f.messages())
}

func TestSummaryDropsOfferBelowMinimum(t *testing.T) {
	f := newFixture(t)
	f.api.items = []backend.CartItem{item("p1", 150, 0, 2)}
	f.applyStored(t)

	summary, err := f.svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Nil(t, summary.Pricing.AppliedOffer)
	assert.True(t, summary.Pricing.Total.Equal(dec("350")))
	assert.NotContains(t, f.store, tab.KeyAppliedOffer)
	assert.Equal(t, []string{MsgOfferDropped + "This offer requires a minimum purchase of ₹400"}, f.messages())
}

func TestSummaryDropsEndedOffer(t *testing.T) {
	f := newFixture(t)
	ended := fresh10()
	ended.EndDate = types.NewTimestamp(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	f.api.offers = []backend.Offer{ended}
	f.applyStored(t)

	summary, err := f.svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Nil(t, summary.Pricing.AppliedOffer)
	assert.True(t, summary.Pricing.Total.Equal(dec("500")))
	assert.NotContains(t, f.store, tab.KeyAppliedOffer)
}

func TestSummaryRequiresLogin(t *testing.T) {
	f := newFixture(t)
	f.session.userID = ""
	_, err := f.svc.Summary(context.Background())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestPlaceOrderRequiresAddress(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.PlaceOrder(context.Background(), "  ")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, []string{MsgSelectAddress}, f.messages())
	assert.Zero(t, f.api.cartCalls)
}

func TestPlaceOrderCreatesPendingOrderAndClearsOffer(t *testing.T) {
	f := newFixture(t)
	f.session.count = 1
	f.applyStored(t)

	order, err := f.svc.PlaceOrder(context.Background(), "addr-1")
	require.NoError(t, err)
	assert.Equal(t, "ord-1", order.ID)

	require.Len(t, f.api.created, 1)
	input := f.api.created[0]
	assert.Equal(t, "addr-1", input.AddressID)
	assert.Equal(t, StatusPending, input.OrderStatus)
	assert.Equal(t, "COD", input.PaymentMode)
	assert.Equal(t, "FRESH10", input.OfferCode)
	assert.True(t, input.Total.Value().Equal(dec("460")))
	assert.True(t, input.Discount.Value().Equal(dec("40")))
	assert.True(t, input.ShippingCharge.Value().Equal(dec("50")))
	assert.Equal(t, []backend.OrderLineInput{{ProductID: "p1", Quantity: 1}}, input.Products)

	assert.NotContains(t, f.store, tab.KeyAppliedOffer)
	assert.Zero(t, f.session.count)
	assert.Equal(t, 2, f.api.cartCalls)
	assert.Equal(t, 1, f.metrics["success"])
	assert.Equal(t, []string{MsgOrderPlaced}, f.messages())
}

func TestPlaceOrderClearsOfferHeldByTheCart(t *testing.T) {
	f := newFixture(t)
	f.api.catalog = map[string]backend.Product{"p1": item("p1", 500, 10, 1).Product}
	f.api.offers = []backend.Offer{fresh10()}
	ctx := context.Background()

	view, err := f.cart.ApplyOffer(ctx, "FRESH10")
	require.NoError(t, err)
	require.NotNil(t, view.Summary.AppliedOffer)
	f.feed.Drain()

	_, err = f.svc.PlaceOrder(ctx, "addr-1")
	require.NoError(t, err)
	assert.Empty(t, f.cart.View().Items)
	assert.Nil(t, f.cart.Summary().AppliedOffer)

	view, err = f.cart.Add(ctx, "p1", 1)
	require.NoError(t, err)
	assert.Nil(t, view.Summary.AppliedOffer)
	assert.True(t, view.Summary.Discount.IsZero())
	assert.True(t, view.Summary.Total.Equal(dec("500")))

	view, err = f.cart.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, view.Summary.AppliedOffer)
	assert.NotContains(t, f.store, tab.KeyAppliedOffer)
}

func TestSummaryDropsOfferFromTheCartToo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.cart.ApplyOffer(ctx, "FRESH10")
	require.NoError(t, err)

	f.api.items = []backend.CartItem{item("p1", 150, 0, 2)}
	_, err = f.svc.Summary(ctx)
	require.NoError(t, err)
	assert.Nil(t, f.cart.Summary().AppliedOffer)
	assert.NotContains(t, f.store, tab.KeyAppliedOffer)
}

func TestPlaceOrderPricesTheRefetchedCart(t *testing.T) {
	f := newFixture(t)
	f.applyStored(t)
	f.api.items = []backend.CartItem{item("p2", 100, 0, 3)}

	_, err := f.svc.PlaceOrder(context.Background(), "addr-1")
	require.NoError(t, err)
	input := f.api.created[0]
	assert.Empty(t, input.OfferCode)
	assert.True(t, input.Discount.Value().IsZero())
	assert.True(t, input.Total.Value().Equal(dec("350")))
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newFixture(t)
	f.api.items = nil
	_, err := f.svc.PlaceOrder(context.Background(), "addr-1")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeEmptyCart))
	assert.Empty(t, f.api.created)
	assert.Equal(t, []string{MsgEmptyCart}, f.messages())
}

func TestPlaceOrderFailureKeepsOffer(t *testing.T) {
	f := newFixture(t)
	f.applyStored(t)
	f.api.createErr = errors.New("backend down")

	_, err := f.svc.PlaceOrder(context.Background(), "addr-1")
	require.Error(t, err)
	assert.Contains(t, f.store, tab.KeyAppliedOffer)
	assert.Equal(t, 1, f.metrics["failure"])
	assert.Equal(t, []string{MsgOrderFailed}, f.messages())
}

func TestAddAddressValidatesBeforeCalling(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.AddAddress(context.Background(), AddressInput{
		FullName: "Asha Rao", Phone: "12345", Address: "12 Market Road", City: "Pune", State: "MH", Pincode: "411001",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "phone")
	assert.Empty(t, f.api.newAddress)

	address, err := f.svc.AddAddress(context.Background(), AddressInput{
		FullName: " Asha Rao ", Phone: "9876543210", Address: "12 Market Road", City: "Pune", State: "MH", Pincode: "411001",
	})
	require.NoError(t, err)
	assert.Equal(t, "addr-new", address.ID)
	require.Len(t, f.api.newAddress, 1)
	assert.Equal(t, 411001, f.api.newAddress[0].Pincode)
	assert.Equal(t, "Asha Rao", f.api.newAddress[0].FullName)
	assert.Equal(t, "u-1", f.api.newAddress[0].UserID)
}

func TestValidateAddressRejectsBadPincodeAndName(t *testing.T) {
	err := ValidateAddress(AddressInput{
		FullName: "A1", Phone: "9876543210", Address: "12 Market Road", City: "Pune", State: "MH", Pincode: "4110",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details := typed.Details().(map[string]string)
	assert.Contains(t, details, "fullName")
	assert.Contains(t, details, "pincode")
}

func TestNewOrderViewDerivesDiscount(t *testing.T) {
	view := NewOrderView(backend.OrderDetail{
		Order: backend.Order{ID: "ord-1", Total: types.DecimalFromInt(460), ShippingCharge: types.DecimalFromInt(50)},
		Items: []backend.OrderItem{
			{Product: backend.Product{ID: "p1"}, Quantity: 2, Price: types.DecimalFromInt(100)},
			{Product: backend.Product{ID: "p2"}, Quantity: 1, Price: types.DecimalFromInt(250)},
		},
	})
	assert.True(t, view.ItemsSubtotal.Equal(dec("450")))
	assert.True(t, view.Discount.Equal(dec("40")))
	assert.True(t, view.Total.Equal(dec("460")))

	noDiscount := NewOrderView(backend.OrderDetail{
		Order: backend.Order{Total: types.DecimalFromInt(600), ShippingCharge: types.DecimalFromInt(50)},
		Items: []backend.OrderItem{{Quantity: 1, Price: types.DecimalFromInt(500)}},
	})
	assert.True(t, noDiscount.Discount.IsZero())
}

func TestOrderHidesOtherUsersOrders(t *testing.T) {
	f := newFixture(t)
	f.api.detail = &backend.OrderDetail{Order: backend.Order{ID: "ord-9", User: backend.User{ID: "someone-else"}}}

	_, err := f.svc.Order(context.Background(), "ord-9")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	f.session.admin = true
	view, err := f.svc.Order(context.Background(), "ord-9")
	require.NoError(t, err)
	assert.Equal(t, "ord-9", view.Order.ID)
}

func TestAdminOrderOperations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.UpdateOrderStatus(ctx, "ord-1", "Shipped")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	_, err = f.svc.AllOrders(ctx)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	f.session.admin = true
	err = f.svc.UpdateOrderStatus(ctx, "ord-1", "lost")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	require.NoError(t, f.svc.UpdateOrderStatus(ctx, "ord-1", "shipped"))
	assert.Equal(t, StatusShipped, f.api.updated["ord-1"])

	require.NoError(t, f.svc.DeleteOrder(ctx, "ord-2"))
	assert.Equal(t, []string{"ord-2"}, f.api.deleted)

	all, err := f.svc.AllOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, []string{MsgOrderUpdated, MsgOrderDeleted}, f.messages())
}

func TestStatusesAreOrdered(t *testing.T) {
	assert.Equal(t, []string{"Pending", "Processing", "Shipped", "Delivered", "Cancelled"}, Statuses())
	status, ok := NormalizeStatus(" delivered ")
	assert.True(t, ok)
	assert.Equal(t, StatusDelivered, status)
}
