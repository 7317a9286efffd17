package admin

import (
	"strconv"
	"strings"

	"github.com/freshfind/storefront/pkg/backend"
	"github.com/freshfind/storefront/pkg/validate"
	"github.com/shopspring/decimal"
)

// ProductInput is the product form. Stock may be zero.
type ProductInput struct {
	Name        string  `json:"productName" validate:"required,min=3,max=100,notdigits"`
	Description string  `json:"description" validate:"required,max=2000"`
	Discount    float64 `json:"discount" validate:"gte=1,lte=100"`
	CostPrice   float64 `json:"costPrice" validate:"gt=0"`
	SalePrice   float64 `json:"salePrice" validate:"gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	CategoryID  string  `json:"categoryId" validate:"required"`
}

func (in ProductInput) normalize() ProductInput {
	out := in
	out.Name = strings.TrimSpace(in.Name)
	out.Description = strings.TrimSpace(in.Description)
	out.CategoryID = strings.TrimSpace(in.CategoryID)
	return out
}

func (in ProductInput) toBackend() backend.ProductForm {
	return backend.ProductForm{
		Name:        in.Name,
		Description: in.Description,
		Discount:    formatNumber(in.Discount),
		CostPrice:   formatNumber(in.CostPrice),
		SalePrice:   formatNumber(in.SalePrice),
		Stock:       strconv.Itoa(in.Stock),
		CategoryID:  in.CategoryID,
	}
}

type CategoryInput struct {
	Name  string `json:"name" validate:"required,min=3,max=50"`
	Color string `json:"color" validate:"required,hexcolor"`
}

func (in CategoryInput) normalize() CategoryInput {
	return CategoryInput{Name: strings.TrimSpace(in.Name), Color: strings.TrimSpace(in.Color)}
}

// BannerInput sets where a banner shows and whether it shows at all.
type BannerInput struct {
	ViewOrder int   `json:"viewOrder" validate:"gte=1"`
	Active    *bool `json:"activeStatus" validate:"required"`
}

func (in BannerInput) toBackend() backend.BannerForm {
	return backend.BannerForm{
		ViewOrder: strconv.Itoa(in.ViewOrder),
		Active:    strconv.FormatBool(in.Active != nil && *in.Active),
	}
}

type UserInput struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=50"`
	LastName  string `json:"lastName" validate:"required,min=2,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Mobile    string `json:"mobile" validate:"required,phone10"`
	Password  string `json:"password" validate:"required,min=6"`
}

func (in UserInput) normalize() UserInput {
	return UserInput{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Mobile:    strings.TrimSpace(in.Mobile),
		Password:  in.Password,
	}
}

func (in UserInput) toBackend() backend.UserForm {
	return backend.UserForm{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Mobile:    in.Mobile,
		Password:  in.Password,
	}
}

type ReviewInput struct {
	Rating int    `json:"rating" validate:"gte=1,lte=5"`
	Review string `json:"review" validate:"required,min=10,max=500"`
}

type ReplyInput struct {
	Reply string `json:"reply" validate:"required,max=1000"`
}

// ContactSettings is the contact block shown on the contact page.
type ContactSettings struct {
	Email  string `json:"contactEmail" validate:"required,email"`
	Number string `json:"contactNumber" validate:"required,phone10"`
}

type AboutInput struct {
	Content string `json:"content" validate:"required,max=20000"`
}

func formatNumber(v float64) string {
	return decimal.NewFromFloat(v).String()
}

func check(in any) error {
	return validate.Struct(in)
}
