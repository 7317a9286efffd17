// Package checkout turns the confirmed cart into an order.
package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/freshfind/storefront/internal/cart"
	"github.com/freshfind/storefront/internal/notifications"
	"github.com/freshfind/storefront/internal/offers"
	"github.com/freshfind/storefront/internal/pricing"
	"github.com/freshfind/storefront/pkg/backend"
	pkgerrors "github.com/freshfind/storefront/pkg/errors"
	"github.com/freshfind/storefront/pkg/logger"
	"github.com/freshfind/storefront/pkg/types"
	"golang.org/x/sync/errgroup"
)

const (
	MsgSelectAddress = "Please select an address."
	MsgEmptyCart     = "Your cart is empty."
	MsgOrderPlaced   = "Order placed successfully!"
	MsgOrderFailed   = "Failed to place order."
	MsgAddressAdded  = "Address added successfully!"
	MsgAddressFailed = "Failed to add address."
	MsgSummaryFailed = "Failed to load checkout details."
	MsgOrdersFailed  = "Failed to fetch orders."
	MsgOrderUpdated  = "Order updated successfully!"
	MsgUpdateFailed  = "Failed to update order."
	MsgOrderDeleted  = "Order deleted successfully"
	MsgDeleteFailed  = "Failed to delete order"
	MsgOfferDropped  = "Your offer no longer applies: "
)

// Payment is not collected here; orders are created cash-on-delivery.
const defaultPaymentMode = "COD"

// Summary is the checkout page: the cart lines, the saved addresses and the
// price breakdown with the applied offer re-checked.
type Summary struct {
	Items     []cart.Line       `json:"items"`
	Addresses []backend.Address `json:"addresses"`
	Pricing   cart.SummaryView  `json:"summary"`
}

type Service interface {
	Summary(ctx context.Context) (*Summary, error)
	AddAddress(ctx context.Context, input AddressInput) (*backend.Address, error)
	PlaceOrder(ctx context.Context, addressID string) (*backend.Order, error)
	Orders(ctx context.Context) ([]backend.Order, error)
	AllOrders(ctx context.Context) ([]backend.Order, error)
	Order(ctx context.Context, id string) (*OrderView, error)
	UpdateOrderStatus(ctx context.Context, id, status string) error
	DeleteOrder(ctx context.Context, id string) error
}

// ServiceParams wires the checkout service.
type ServiceParams struct {
	Backend  Backend
	Session  Session
	Cart     CartState
	Offers   cart.OfferStore
	Engine   *pricing.Engine
	Notifier notifications.Notifier
	Metrics  Metrics
	Logger   *logger.Logger
}

type service struct {
	api     Backend
	session Session
	cart    CartState
	store   cart.OfferStore
	engine  *pricing.Engine
	notify  notifications.Notifier
	metrics Metrics
	logg    *logger.Logger
	now     func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Backend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "checkout backend required")
	}
	if params.Session == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session required")
	}
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart required")
	}
	if params.Offers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "offer store required")
	}
	if params.Engine == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "pricing engine required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	notify := params.Notifier
	if notify == nil {
		notify = notifications.Discard{}
	}
	metrics := params.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &service{
		api:     params.Backend,
		session: params.Session,
		cart:    params.Cart,
		store:   params.Offers,
		engine:  params.Engine,
		notify:  notify,
		metrics: metrics,
		logg:    params.Logger,
		now:     time.Now,
	}, nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	userID, err := s.requireUser()
	if err != nil {
		return nil, err
	}

	var (
		addresses []backend.Address
		current   *backend.Cart
		offered   []backend.Offer
	)
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		addresses, err = s.api.Addresses(gctx, userID)
		return err
	})
	group.Go(func() error {
		var err error
		current, err = s.api.Cart(gctx, userID)
		return err
	})
	group.Go(func() error {
		var err error
		offered, err = s.api.Offers(gctx)
		return err
	})
	if err := group.Wait(); err != nil {
		s.notify.Error(ctx, backend.UserMessage(err, MsgSummaryFailed))
		return nil, err
	}

	summary := s.price(ctx, current.Items, offered)
	if addresses == nil {
		addresses = []backend.Address{}
	}
	return &Summary{
		Items:     cart.LineViews(current.Items),
		Addresses: addresses,
		Pricing:   cart.SummaryFrom(summary),
	}, nil
}

// price summarizes items with the stored offer. The stored copy only names
// the offer; terms come from the current active list, and an offer that
// ended or no longer meets its minimum is dropped from the cart and tab
// storage.
func (s *service) price(ctx context.Context, items []backend.CartItem, offered []backend.Offer) pricing.Summary {
	lines := cart.Lines(items)
	stored, err := cart.LoadAppliedOffer(ctx, s.store)
	if err != nil {
		s.logg.Warn(ctx, "reading applied offer failed: "+err.Error())
	}
	if stored == nil {
		return s.engine.Summarize(lines, nil)
	}

	active := offers.Active(offered, s.now())
	current, ok := offers.FindByID(active, stored.ID)
	if !ok {
		current, ok = offers.FindByCode(active, stored.Code)
	}
	if !ok {
		s.dropOffer(ctx)
		return s.engine.Summarize(lines, nil)
	}
	terms := offers.ToPricing(current)
	summary := s.engine.Summarize(lines, &terms)
	if summary.AppliedOffer == nil {
		s.dropOffer(ctx)
		s.notify.Info(ctx, MsgOfferDropped+s.engine.IneligibleMessage(terms))
	}
	return summary
}

func (s *service) dropOffer(ctx context.Context) {
	s.cart.DropOffer(ctx)
}

func (s *service) AddAddress(ctx context.Context, input AddressInput) (*backend.Address, error) {
	userID, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	if err := ValidateAddress(input); err != nil {
		return nil, err
	}
	address, err := s.api.CreateAddress(ctx, input.toBackend(userID))
	if err != nil {
		s.notify.Error(ctx, backend.UserMessage(err, MsgAddressFailed))
		return nil, err
	}
	s.notify.Success(ctx, MsgAddressAdded)
	return address, nil
}

// PlaceOrder re-fetches the cart, prices it again and creates a pending
// order. The applied offer is cleared once the order exists.
func (s *service) PlaceOrder(ctx context.Context, addressID string) (*backend.Order, error) {
	userID, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	addressID = strings.TrimSpace(addressID)
	if addressID == "" {
		s.notify.Error(ctx, MsgSelectAddress)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MsgSelectAddress).
			WithDetails(map[string]string{"addressId": "is required"})
	}
	ctx = s.logg.WithField(ctx, "address_id", addressID)

	var (
		current *backend.Cart
		offered []backend.Offer
	)
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		current, err = s.api.Cart(gctx, userID)
		return err
	})
	group.Go(func() error {
		var err error
		offered, err = s.api.Offers(gctx)
		return err
	})
	if err := group.Wait(); err != nil {
		s.metrics.IncOrder("failure")
		s.notify.Error(ctx, backend.UserMessage(err, MsgOrderFailed))
		return nil, err
	}
	if len(current.Items) == 0 {
		s.notify.Error(ctx, MsgEmptyCart)
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	summary := s.price(ctx, current.Items, offered).Rounded()
	input := backend.OrderInput{
		UserID:         userID,
		AddressID:      addressID,
		Products:       orderLines(current.Items),
		ShippingCharge: types.NewDecimal(summary.Shipping),
		Discount:       types.NewDecimal(summary.Discount),
		Total:          types.NewDecimal(summary.Total),
		PaymentMode:    defaultPaymentMode,
		OrderStatus:    StatusPending,
		OrderDate:      s.now().UTC().Format(time.RFC3339),
	}
	if summary.AppliedOffer != nil {
		input.OfferCode = summary.AppliedOffer.Code
	}

	order, err := s.api.CreateOrder(ctx, input)
	if err != nil {
		s.metrics.IncOrder("failure")
		s.logg.Error(ctx, "create order failed", err)
		s.notify.Error(ctx, backend.UserMessage(err, MsgOrderFailed))
		return nil, err
	}

	s.dropOffer(ctx)
	if after, err := s.api.Cart(ctx, userID); err != nil {
		s.logg.Warn(ctx, "cart refetch after order failed: "+err.Error())
	} else {
		s.cart.Replace(ctx, after)
	}
	s.metrics.IncOrder("success")
	s.logg.Info(s.logg.WithField(ctx, "order_id", order.ID), "order placed")
	s.notify.Success(ctx, MsgOrderPlaced)
	return order, nil
}

func orderLines(items []backend.CartItem) []backend.OrderLineInput {
	out := make([]backend.OrderLineInput, 0, len(items))
	for _, item := range items {
		out = append(out, backend.OrderLineInput{ProductID: item.Product.ID, Quantity: item.Quantity})
	}
	return out
}

func (s *service) requireUser() (string, error) {
	userID := s.session.UserID()
	if userID == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	return userID, nil
}
