package checkout

import (
	"context"
	"strings"

	"github.com/freshfind/storefront/pkg/backend"
	pkgerrors "github.com/freshfind/storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

// Order statuses the admin console can set.
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

var statuses = []string{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

// Statuses lists the valid order statuses in lifecycle order.
func Statuses() []string {
	return append([]string(nil), statuses...)
}

// NormalizeStatus maps status onto its canonical spelling.
func NormalizeStatus(status string) (string, bool) {
	status = strings.TrimSpace(status)
	for _, candidate := range statuses {
		if strings.EqualFold(candidate, status) {
			return candidate, true
		}
	}
	return "", false
}

// OrderView is one order with its breakdown reconstructed from the lines.
// The backend stores only the grand total, so the discount is whatever the
// lines were reduced by.
type OrderView struct {
	Order         backend.Order       `json:"order"`
	Items         []backend.OrderItem `json:"items"`
	ItemsSubtotal decimal.Decimal     `json:"itemsSubtotal"`
	Discount      decimal.Decimal     `json:"discount"`
	Shipping      decimal.Decimal     `json:"shippingCharge"`
	Total         decimal.Decimal     `json:"total"`
}

// NewOrderView derives the breakdown of detail.
func NewOrderView(detail backend.OrderDetail) OrderView {
	subtotal := decimal.Zero
	for _, item := range detail.Items {
		subtotal = subtotal.Add(item.Price.Value().Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	shipping := detail.Order.ShippingCharge.Value()
	total := detail.Order.Total.Value()
	discount := subtotal.Sub(total.Sub(shipping))
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	items := detail.Items
	if items == nil {
		items = []backend.OrderItem{}
	}
	return OrderView{
		Order:         detail.Order,
		Items:         items,
		ItemsSubtotal: subtotal.Round(2),
		Discount:      discount.Round(2),
		Shipping:      shipping.Round(2),
		Total:         total.Round(2),
	}
}

// Orders lists the orders of the logged-in shopper.
func (s *service) Orders(ctx context.Context) ([]backend.Order, error) {
	userID, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	list, err := s.api.UserOrders(ctx, userID)
	if err != nil {
		s.notify.Error(ctx, backend.UserMessage(err, MsgOrdersFailed))
		return nil, err
	}
	if list == nil {
		list = []backend.Order{}
	}
	return list, nil
}

func (s *service) AllOrders(ctx context.Context) ([]backend.Order, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	list, err := s.api.Orders(ctx)
	if err != nil {
		s.notify.Error(ctx, backend.UserMessage(err, MsgOrdersFailed))
		return nil, err
	}
	if list == nil {
		list = []backend.Order{}
	}
	return list, nil
}

// Order returns one order. Shoppers only see their own orders.
func (s *service) Order(ctx context.Context, id string) (*OrderView, error) {
	userID, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	detail, err := s.api.Order(ctx, id)
	if err != nil {
		return nil, err
	}
	owner := detail.Order.User.ID
	if owner != "" && owner != userID && !s.session.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}
	view := NewOrderView(*detail)
	return &view, nil
}

func (s *service) UpdateOrderStatus(ctx context.Context, id, status string) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	canonical, ok := NormalizeStatus(status)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").
			WithDetails(map[string]string{"orderStatus": "must be one of " + strings.Join(statuses, ", ")})
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if err := s.api.UpdateOrder(ctx, id, backend.OrderUpdate{OrderStatus: canonical}); err != nil {
		s.notify.Error(ctx, backend.UserMessage(err, MsgUpdateFailed))
		return err
	}
	s.notify.Success(ctx, MsgOrderUpdated)
	return nil
}

func (s *service) DeleteOrder(ctx context.Context, id string) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if err := s.api.DeleteOrder(ctx, id); err != nil {
		s.notify.Error(ctx, backend.UserMessage(err, MsgDeleteFailed))
		return err
	}
	s.notify.Success(ctx, MsgOrderDeleted)
	return nil
}

func (s *service) requireAdmin() error {
	if s.session.UserID() == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	if !s.session.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	return nil
}
