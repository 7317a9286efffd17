// Package admin is the back-office: catalog upkeep, user and review
// moderation, site content and the contact inbox. Offers and orders have
// their own services.
package admin

import (
	"bytes"
	"context"
	"strings"

	"github.com/freshfind/storefront/internal/notifications"
	"github.com/freshfind/storefront/pkg/backend"
	pkgerrors "github.com/freshfind/storefront/pkg/errors"
	"github.com/freshfind/storefront/pkg/logger"
	"github.com/freshfind/storefront/pkg/validate"
	"github.com/gabriel-vasile/mimetype"
)

// MaxImageBytes caps one uploaded image.
const MaxImageBytes = 5 << 20

// Backend is the subset of the backend client used by the back-office.
type Backend interface {
	Products(ctx context.Context) ([]backend.Product, error)
	Product(ctx context.Context, id string) (*backend.Product, error)
	CreateProduct(ctx context.Context, form backend.ProductForm, image *backend.Upload) (*backend.Product, error)
	UpdateProduct(ctx context.Context, id string, form backend.ProductForm, image *backend.Upload) (*backend.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	Categories(ctx context.Context) ([]backend.Category, error)
	Category(ctx context.Context, id string) (*backend.Category, error)
	CreateCategory(ctx context.Context, form backend.CategoryForm, image *backend.Upload) (*backend.Category, error)
	UpdateCategory(ctx context.Context, id string, form backend.CategoryForm, image *backend.Upload) (*backend.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	Banners(ctx context.Context) ([]backend.Banner, error)
	Banner(ctx context.Context, id string) (*backend.Banner, error)
	UpdateBanner(ctx context.Context, id string, form backend.BannerForm, image *backend.Upload) (*backend.Banner, error)
	DeleteBanner(ctx context.Context, id string) error

	Users(ctx context.Context) ([]backend.User, error)
	User(ctx context.Context, id string) (*backend.User, error)
	ReplaceUser(ctx context.Context, id string, form backend.UserForm, picture *backend.Upload) (*backend.User, error)
	DeleteUser(ctx context.Context, id string) error

	AllReviews(ctx context.Context) ([]backend.Review, error)
	Review(ctx context.Context, id string) (*backend.Review, error)
	UpdateReview(ctx context.Context, id string, input backend.ReviewUpdate) (*backend.Review, error)
	ReplyToReview(ctx context.Context, id, reply string) (*backend.Review, error)
	DeleteReview(ctx context.Context, id string) error

	About(ctx context.Context) (*backend.AboutPage, error)
	Contact(ctx context.Context) (*backend.ContactInfo, error)
	UpdateAbout(ctx context.Context, content string) error
	UpdateContact(ctx context.Context, info backend.ContactInfo) error

	ContactResponses(ctx context.Context) ([]backend.ContactResponse, error)
	ReplyToResponse(ctx context.Context, id, reply string) (*backend.ContactResponse, error)
	DeleteResponse(ctx context.Context, id string) error
}

// Actor is the signed-in admin.
type Actor interface {
	IsAdmin() bool
	UserID() string
}

// Image is an uploaded file as received from the admin form.
type Image struct {
	Name string
	Data []byte
}

// SiteContent is what the site settings page edits.
type SiteContent struct {
	About   string          `json:"about"`
	Contact ContactSettings `json:"contact"`
}

type Service interface {
	Products(ctx context.Context) ([]backend.Product, error)
	Product(ctx context.Context, id string) (*backend.Product, error)
	CreateProduct(ctx context.Context, input ProductInput, image *Image) (*backend.Product, error)
	UpdateProduct(ctx context.Context, id string, input ProductInput, image *Image) (*backend.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	Categories(ctx context.Context) ([]backend.Category, error)
	Category(ctx context.Context, id string) (*backend.Category, error)
	CreateCategory(ctx context.Context, input CategoryInput, image *Image) (*backend.Category, error)
	UpdateCategory(ctx context.Context, id string, input CategoryInput, image *Image) (*backend.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	Banners(ctx context.Context) ([]backend.Banner, error)
	Banner(ctx context.Context, id string) (*backend.Banner, error)
	UpdateBanner(ctx context.Context, id string, input BannerInput, image *Image) (*backend.Banner, error)
	DeleteBanner(ctx context.Context, id string) error

	Users(ctx context.Context) ([]backend.User, error)
	User(ctx context.Context, id string) (*backend.User, error)
	UpdateUser(ctx context.Context, id string, input UserInput, picture *Image) (*backend.User, error)
	DeleteUser(ctx context.Context, id string) error

	Reviews(ctx context.Context) ([]backend.Review, error)
	Review(ctx context.Context, id string) (*backend.Review, error)
	UpdateReview(ctx context.Context, id string, input ReviewInput) (*backend.Review, error)
	ReplyToReview(ctx context.Context, id string, input ReplyInput) (*backend.Review, error)
	DeleteReview(ctx context.Context, id string) error

	SiteContent(ctx context.Context) (*SiteContent, error)
	UpdateAbout(ctx context.Context, input AboutInput) error
	UpdateContact(ctx context.Context, input ContactSettings) error

	Responses(ctx context.Context) ([]backend.ContactResponse, error)
	ReplyToResponse(ctx context.Context, id string, input ReplyInput) (*backend.ContactResponse, error)
	DeleteResponse(ctx context.Context, id string) error
}

type Params struct {
	Backend  Backend
	Actor    Actor
	Notifier notifications.Notifier
	Logger   *logger.Logger
}

type service struct {
	api    Backend
	actor  Actor
	notify notifications.Notifier
	logg   *logger.Logger
}

func NewService(params Params) (Service, error) {
	if params.Backend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "admin backend required")
	}
	if params.Actor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	notify := params.Notifier
	if notify == nil {
		notify = notifications.Discard{}
	}
	return &service{api: params.Backend, actor: params.Actor, notify: notify, logg: params.Logger}, nil
}

func (s *service) requireAdmin() error {
	if !s.actor.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	return nil
}

// target checks the role and trims the path id in one step.
func (s *service) target(id, label string) (string, error) {
	if err := s.requireAdmin(); err != nil {
		return "", err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, label+" is required")
	}
	return id, nil
}

// upload sniffs the image content and wraps it for the backend form. A nil
// image is allowed unless required is set.
func upload(field string, image *Image, required bool) (*backend.Upload, error) {
	if image == nil || len(image.Data) == 0 {
		if required {
			return nil, validate.Field(field, "is required")
		}
		return nil, nil
	}
	if len(image.Data) > MaxImageBytes {
		return nil, validate.Field(field, "must be at most 5 MB")
	}
	kind := mimetype.Detect(image.Data)
	if !strings.HasPrefix(kind.String(), "image/") {
		return nil, validate.Field(field, "must be an image")
	}
	name := strings.TrimSpace(image.Name)
	if name == "" {
		name = field + kind.Extension()
	}
	return &backend.Upload{Field: field, Name: name, Reader: bytes.NewReader(image.Data)}, nil
}

// failed logs a backend failure and shows the shopper-safe message.
func (s *service) failed(ctx context.Context, err error, msg string) error {
	s.logg.Warn(ctx, "admin request failed: "+err.Error())
	s.notify.Error(ctx, backend.UserMessage(err, msg))
	return err
}
