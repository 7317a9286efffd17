package backend

import (
	"encoding/json"

	"github.com/freshfind/storefront/pkg/types"
)

// The backend populates references inconsistently: the same field may hold
// a bare id or the full document. Every referenced type below decodes both
// shapes. Ids and counts decode leniently, and lists drop entries that still
// fail, so one malformed document never fails a whole page.

// User is the identity returned by login and profile endpoints.
type User struct {
	ID             string `json:"_id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Mobile         string `json:"mobile"`
	Role           string `json:"role"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	if id, ok := types.ParseJSONID(data); ok {
		*u = User{ID: id}
		return nil
	}
	type alias User
	var out struct {
		alias
		ID types.ID `json:"_id"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*u = User(out.alias)
	u.ID = out.ID.String()
	return nil
}

// Category groups products.
type Category struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
	Image string `json:"image,omitempty"`
}

func (c *Category) UnmarshalJSON(data []byte) error {
	if id, ok := types.ParseJSONID(data); ok {
		*c = Category{ID: id}
		return nil
	}
	type alias Category
	var out struct {
		alias
		ID types.ID `json:"_id"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*c = Category(out.alias)
	c.ID = out.ID.String()
	return nil
}

// Product is a catalog entry. Monetary and rating fields decode leniently.
type Product struct {
	ID            string        `json:"_id"`
	Name          string        `json:"productName"`
	Description   string        `json:"description,omitempty"`
	Image         string        `json:"productImage,omitempty"`
	Category      Category      `json:"categoryId"`
	Price         types.Decimal `json:"price"`
	SalePrice     types.Decimal `json:"salePrice"`
	Discount      types.Decimal `json:"discount"`
	Stock         types.Decimal `json:"stock"`
	AverageRating types.Decimal `json:"averageRating"`
	TotalReviews  types.Decimal `json:"totalReviews"`
}

func (p *Product) UnmarshalJSON(data []byte) error {
	if id, ok := types.ParseJSONID(data); ok {
		*p = Product{ID: id}
		return nil
	}
	type alias Product
	var out struct {
		alias
		ID types.ID `json:"_id"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*p = Product(out.alias)
	p.ID = out.ID.String()
	return nil
}

// CartItem is one cart line with its product populated.
type CartItem struct {
	ID       string  `json:"_id,omitempty"`
	Product  Product `json:"productId"`
	Quantity int     `json:"quantity"`
}

func (c *CartItem) UnmarshalJSON(data []byte) error {
	type alias CartItem
	var out struct {
		alias
		ID       types.ID  `json:"_id"`
		Quantity types.Int `json:"quantity"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*c = CartItem(out.alias)
	c.ID = out.ID.String()
	c.Quantity = out.Quantity.Value()
	return nil
}

type Cart struct {
	ID    string     `json:"_id,omitempty"`
	Items []CartItem `json:"items"`
}

func (c *Cart) UnmarshalJSON(data []byte) error {
	var out struct {
		ID    types.ID          `json:"_id"`
		Items entries[CartItem] `json:"items"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*c = Cart{ID: out.ID.String(), Items: out.Items}
	return nil
}

type Wishlist struct {
	Products []Product `json:"productIds"`
}

func (w *Wishlist) UnmarshalJSON(data []byte) error {
	var out struct {
		Products entries[Product] `json:"productIds"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*w = Wishlist{Products: out.Products}
	return nil
}

// Offer mirrors the backend offer document.
type Offer struct {
	ID           string          `json:"_id"`
	Description  string          `json:"offerDescription"`
	Code         string          `json:"offerCode"`
	Discount     types.Decimal   `json:"discount"`
	MaxDiscount  types.Decimal   `json:"maxDiscount"`
	MinimumOrder types.Decimal   `json:"minimumOrder"`
	StartDate    types.Timestamp `json:"startDate"`
	EndDate      types.Timestamp `json:"endDate"`
	Active       bool            `json:"activeStatus"`
}

func (o *Offer) UnmarshalJSON(data []byte) error {
	type alias Offer
	var out struct {
		alias
		ID types.ID `json:"_id"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*o = Offer(out.alias)
	o.ID = out.ID.String()
	return nil
}

// OfferInput is the admin create/update payload.
type OfferInput struct {
	Description  string        `json:"offerDescription"`
	Code         string        `json:"offerCode"`
	Discount     types.Decimal `json:"discount"`
	MaxDiscount  types.Decimal `json:"maxDiscount"`
	MinimumOrder types.Decimal `json:"minimumOrder"`
	StartDate    string        `json:"startDate"`
	EndDate      string        `json:"endDate"`
	Active       bool          `json:"activeStatus"`
}

// Address is a saved shipping address.
type Address struct {
	ID       string        `json:"_id"`
	UserID   string        `json:"userId,omitempty"`
	FullName string        `json:"fullName"`
	Phone    string        `json:"phone"`
	Address  string        `json:"address"`
	City     string        `json:"city"`
	State    string        `json:"state"`
	Pincode  types.Decimal `json:"pincode"`
}

func (a *Address) UnmarshalJSON(data []byte) error {
	if id, ok := types.ParseJSONID(data); ok {
		*a = Address{ID: id}
		return nil
	}
	type alias Address
	var out struct {
		alias
		ID     types.ID `json:"_id"`
		UserID types.ID `json:"userId"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*a = Address(out.alias)
	a.ID = out.ID.String()
	a.UserID = out.UserID.String()
	return nil
}

type AddressInput struct {
	UserID   string `json:"userId"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  int    `json:"pincode"`
}

// Order is an order header. Totals arrive as decimal wrappers.
type Order struct {
	ID             string          `json:"_id"`
	User           User            `json:"userId"`
	Address        Address         `json:"delAddressId"`
	OrderDate      types.Timestamp `json:"orderDate"`
	Status         string          `json:"orderStatus"`
	PaymentStatus  string          `json:"paymentStatus,omitempty"`
	PaymentMode    string          `json:"paymentMode,omitempty"`
	Total          types.Decimal   `json:"total"`
	ShippingCharge types.Decimal   `json:"shippingCharge"`
	CreatedAt      types.Timestamp `json:"createdAt"`
}

func (o *Order) UnmarshalJSON(data []byte) error {
	type alias Order
	var out struct {
		alias
		ID types.ID `json:"_id"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*o = Order(out.alias)
	o.ID = out.ID.String()
	return nil
}

type OrderItem struct {
	Product  Product       `json:"productId"`
	Quantity int           `json:"quantity"`
	Price    types.Decimal `json:"price"`
}

func (i *OrderItem) UnmarshalJSON(data []byte) error {
	type alias OrderItem
	var out struct {
		alias
		Quantity types.Int `json:"quantity"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*i = OrderItem(out.alias)
	i.Quantity = out.Quantity.Value()
	return nil
}

// OrderDetail is the single-order view.
type OrderDetail struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"orderItems"`
}

func (d *OrderDetail) UnmarshalJSON(data []byte) error {
	var out struct {
		Order Order              `json:"order"`
		Items entries[OrderItem] `json:"orderItems"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*d = OrderDetail{Order: out.Order, Items: out.Items}
	return nil
}

type OrderLineInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderInput creates an order from the current cart.
type OrderInput struct {
	UserID         string           `json:"userId"`
	AddressID      string           `json:"delAddressId"`
	Products       []OrderLineInput `json:"products"`
	ShippingCharge types.Decimal    `json:"shippingCharge"`
	Discount       types.Decimal    `json:"discount"`
	Total          types.Decimal    `json:"total"`
	OfferCode      string           `json:"offerCode,omitempty"`
	PaymentMode    string           `json:"paymentMode"`
	OrderStatus    string           `json:"orderStatus"`
	OrderDate      string           `json:"orderDate"`
}

// OrderUpdate is the admin status/shipping edit.
type OrderUpdate struct {
	OrderStatus    string         `json:"orderStatus,omitempty"`
	ShippingCharge *types.Decimal `json:"shippingCharge,omitempty"`
	AddressID      string         `json:"delAddressId,omitempty"`
}

type Review struct {
	ID        string          `json:"_id"`
	ProductID string          `json:"productId"`
	User      User            `json:"userId"`
	Rating    types.Decimal   `json:"rating"`
	Review    string          `json:"review"`
	Reply     string          `json:"reply,omitempty"`
	CreatedAt types.Timestamp `json:"createdAt"`
}

func (r *Review) UnmarshalJSON(data []byte) error {
	type alias Review
	var out struct {
		alias
		ID        types.ID `json:"_id"`
		ProductID types.ID `json:"productId"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*r = Review(out.alias)
	r.ID = out.ID.String()
	r.ProductID = out.ProductID.String()
	return nil
}

type ReviewInput struct {
	ProductID string `json:"productId"`
	UserID    string `json:"userId"`
	Rating    int    `json:"rating"`
	Review    string `json:"review"`
}

// Banner is a home page banner; Type "slider" goes to the carousel.
type Banner struct {
	ID         string `json:"_id"`
	Type       string `json:"type"`
	Heading    string `json:"heading,omitempty"`
	Content    string `json:"content,omitempty"`
	Label      string `json:"label,omitempty"`
	ButtonText string `json:"buttonText,omitempty"`
	Image      string `json:"bannerImage,omitempty"`
	ViewOrder  int    `json:"viewOrder,omitempty"`
	Active     bool   `json:"activeStatus"`
}

func (b *Banner) UnmarshalJSON(data []byte) error {
	type alias Banner
	var out struct {
		alias
		ID        types.ID  `json:"_id"`
		ViewOrder types.Int `json:"viewOrder"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*b = Banner(out.alias)
	b.ID = out.ID.String()
	b.ViewOrder = out.ViewOrder.Value()
	return nil
}

type ContactInfo struct {
	ContactNumber string `json:"contactNumber"`
	ContactEmail  string `json:"contactEmail"`
	Address       string `json:"address,omitempty"`
}

// ContactMessage is the contact form as stored in the admin responses inbox.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// ContactResponse is a contact form message in the admin inbox.
type ContactResponse struct {
	ID        string          `json:"_id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone,omitempty"`
	Message   string          `json:"message"`
	Reply     string          `json:"reply,omitempty"`
	CreatedAt types.Timestamp `json:"createdAt"`
}

func (r *ContactResponse) UnmarshalJSON(data []byte) error {
	type alias ContactResponse
	var out struct {
		alias
		ID types.ID `json:"_id"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*r = ContactResponse(out.alias)
	r.ID = out.ID.String()
	return nil
}

type AboutPage struct {
	Content string `json:"content"`
}

// Message is the generic {"message": "..."} acknowledgement.
type Message struct {
	Message string `json:"message"`
}

// entries decodes a JSON array one element at a time. Elements that do not
// decode are dropped; a value that is not an array decodes to no entries.
type entries[T any] []T

func (e *entries[T]) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*e = nil
		return nil
	}
	out := make([]T, 0, len(raw))
	for _, item := range raw {
		var value T
		if err := json.Unmarshal(item, &value); err != nil {
			continue
		}
		out = append(out, value)
	}
	*e = out
	return nil
}
