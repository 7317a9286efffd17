package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/freshfind/storefront/internal/notifications"
	"github.com/freshfind/storefront/internal/offers"
	"github.com/freshfind/storefront/pkg/backend"
	pkgerrors "github.com/freshfind/storefront/pkg/errors"
	"github.com/freshfind/storefront/pkg/logger"
	"github.com/freshfind/storefront/pkg/pagination"
	"github.com/freshfind/storefront/pkg/validate"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const bannerTypeSlider = "slider"

// Service exposes the read side of the storefront.
type Service interface {
	Home(ctx context.Context) (*Home, error)
	Products(ctx context.Context, query ProductQuery) (*ProductPage, error)
	Search(ctx context.Context, query ProductQuery) (*ProductPage, error)
	Product(ctx context.Context, id string) (*ProductDetail, error)
	Categories(ctx context.Context) ([]backend.Category, error)
	About(ctx context.Context) (*backend.AboutPage, error)
	Contact(ctx context.Context) (*backend.ContactInfo, error)
	SendMessage(ctx context.Context, input ContactInput) error
	CreateReview(ctx context.Context, input ReviewInput) error
}

// Backend is the subset of the backend client the catalog reads from.
type Backend interface {
	Products(ctx context.Context) ([]backend.Product, error)
	TrendingProducts(ctx context.Context) ([]backend.Product, error)
	LatestProducts(ctx context.Context) ([]backend.Product, error)
	Product(ctx context.Context, id string) (*backend.Product, error)
	Categories(ctx context.Context) ([]backend.Category, error)
	Banners(ctx context.Context) ([]backend.Banner, error)
	Offers(ctx context.Context) ([]backend.Offer, error)
	Reviews(ctx context.Context, productID, userID string) ([]backend.Review, error)
	CreateReview(ctx context.Context, input backend.ReviewInput) error
	HasPurchased(ctx context.Context, userID, productID string) (bool, error)
	About(ctx context.Context) (*backend.AboutPage, error)
	Contact(ctx context.Context) (*backend.ContactInfo, error)
	SendContactMessage(ctx context.Context, msg backend.ContactMessage) error
}

// Session is the part of the session context the catalog feeds.
type Session interface {
	UserID() string
	SetProducts(products []backend.Product)
	Filters() Filters
	SearchQuery() string
}

// Home is everything the landing page shows.
type Home struct {
	Sliders    []backend.Banner   `json:"sliders"`
	Promos     []backend.Banner   `json:"promos"`
	Offers     []backend.Offer    `json:"offers"`
	Trending   []backend.Product  `json:"trending"`
	Latest     []backend.Product  `json:"latest"`
	Categories []backend.Category `json:"categories"`
}

// ProductQuery narrows a product listing. Nil Filters fall back to the
// session's criteria.
type ProductQuery struct {
	Query    string
	Filters  *Filters
	Category string
	Sort     string
	Page     pagination.Params
}

type ProductPage struct {
	pagination.Page[backend.Product]
	Filters Filters `json:"filters"`
	Query   string  `json:"query,omitempty"`
}

// ProductDetail is the product page with its reviews and review eligibility.
type ProductDetail struct {
	Product      backend.Product  `json:"product"`
	FinalPrice   decimal.Decimal  `json:"finalPrice"`
	Reviews      []backend.Review `json:"reviews"`
	HasPurchased bool             `json:"hasPurchased"`
	HasReviewed  bool             `json:"hasReviewed"`
	CanReview    bool             `json:"canReview"`
}

type ContactInput struct {
	Name    string `json:"contactName" validate:"required"`
	Email   string `json:"contactEmail" validate:"required,email"`
	Phone   string `json:"contactPhone" validate:"required,phone10"`
	Message string `json:"contactMessage" validate:"required"`
}

type ReviewInput struct {
	ProductID string `json:"productId" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Review    string `json:"review" validate:"required"`
}

type service struct {
	api     Backend
	session Session
	notify  notifications.Notifier
	logg    *logger.Logger
	perPage int
	now     func() time.Time
}

// NewService constructs the catalog service.
func NewService(api Backend, session Session, notify notifications.Notifier, logg *logger.Logger, perPage int) (Service, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog backend required")
	}
	if session == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	if notify == nil {
		notify = notifications.Discard{}
	}
	return &service{
		api:     api,
		session: session,
		notify:  notify,
		logg:    logg,
		perPage: pagination.NormalizePerPage(perPage),
		now:     time.Now,
	}, nil
}

// Home loads every landing page section concurrently. A failing section is
// logged and left empty; the call fails only when every section failed.
func (s *service) Home(ctx context.Context) (*Home, error) {
	home := &Home{}
	var (
		mu       sync.Mutex
		errs     error
		sections int
	)
	record := func(section string, err error) {
		s.logg.Warn(s.logg.WithField(ctx, "section", section), "home section failed: "+err.Error())
		mu.Lock()
		errs = multierr.Append(errs, err)
		mu.Unlock()
	}

	group, gctx := errgroup.WithContext(ctx)
	run := func(section string, fn func(context.Context) error) {
		sections++
		group.Go(func() error {
			if err := fn(gctx); err != nil {
				record(section, err)
			}
			return nil
		})
	}

	run("banners", func(ctx context.Context) error {
		banners, err := s.api.Banners(ctx)
		if err != nil {
			return err
		}
		home.Sliders, home.Promos = SplitBanners(banners)
		return nil
	})
	run("offers", func(ctx context.Context) error {
		list, err := s.api.Offers(ctx)
		if err != nil {
			return err
		}
		home.Offers = offers.Active(list, s.now())
		return nil
	})
	run("trending", func(ctx context.Context) error {
		list, err := s.api.TrendingProducts(ctx)
		home.Trending = list
		return err
	})
	run("latest", func(ctx context.Context) error {
		list, err := s.api.LatestProducts(ctx)
		home.Latest = list
		return err
	})
	run("categories", func(ctx context.Context) error {
		list, err := s.api.Categories(ctx)
		home.Categories = list
		return err
	})
	_ = group.Wait()

	if failed := len(multierr.Errors(errs)); failed > 0 && failed == sections {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "home page unavailable")
	}
	return home, nil
}

// SplitBanners separates carousel banners from promotional ones.
func SplitBanners(banners []backend.Banner) (sliders, promos []backend.Banner) {
	sliders = []backend.Banner{}
	promos = []backend.Banner{}
	for _, banner := range banners {
		if strings.EqualFold(banner.Type, bannerTypeSlider) {
			sliders = append(sliders, banner)
		} else {
			promos = append(promos, banner)
		}
	}
	return sliders, promos
}

// Products fetches the full list, hands it to the session so the derived
// filtered view stays current, then returns the requested page.
func (s *service) Products(ctx context.Context, query ProductQuery) (*ProductPage, error) {
	list, err := s.api.Products(ctx)
	if err != nil {
		return nil, err
	}
	s.session.SetProducts(list)

	filters := s.session.Filters()
	if query.Filters != nil {
		if err := query.Filters.Validate(); err != nil {
			return nil, err
		}
		filters = query.Filters.Normalize()
	}
	matched := Search(byCategory(list, query.Category), query.Query, filters)
	return s.page(SortProducts(matched, query.Sort), query, filters), nil
}

// Search is Products with the session's search query as the default text.
func (s *service) Search(ctx context.Context, query ProductQuery) (*ProductPage, error) {
	if strings.TrimSpace(query.Query) == "" {
		query.Query = s.session.SearchQuery()
	}
	return s.Products(ctx, query)
}

func (s *service) page(list []backend.Product, query ProductQuery, filters Filters) *ProductPage {
	params := query.Page
	if params.PerPage <= 0 {
		params.PerPage = s.perPage
	}
	return &ProductPage{
		Page:    pagination.Slice(list, params),
		Filters: filters,
		Query:   strings.TrimSpace(query.Query),
	}
}

func byCategory(list []backend.Product, categoryID string) []backend.Product {
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		return list
	}
	out := make([]backend.Product, 0, len(list))
	for _, product := range list {
		if product.Category.ID == categoryID {
			out = append(out, product)
		}
	}
	return out
}

// Product loads the detail page. Review eligibility lookups are best effort.
func (s *service) Product(ctx context.Context, id string) (*ProductDetail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	userID := s.session.UserID()

	detail := &ProductDetail{Reviews: []backend.Review{}}
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		product, err := s.api.Product(gctx, id)
		if err != nil {
			return err
		}
		detail.Product = *product
		detail.FinalPrice = DiscountedPrice(*product).Round(2)
		return nil
	})
	group.Go(func() error {
		reviews, err := s.api.Reviews(gctx, id, "")
		if err != nil {
			s.logg.Warn(gctx, "loading reviews failed: "+err.Error())
			return nil
		}
		if reviews != nil {
			detail.Reviews = reviews
		}
		return nil
	})
	if userID != "" {
		group.Go(func() error {
			purchased, err := s.api.HasPurchased(gctx, userID, id)
			if err != nil {
				s.logg.Warn(gctx, "checking purchase history failed: "+err.Error())
				return nil
			}
			detail.HasPurchased = purchased
			return nil
		})
		group.Go(func() error {
			mine, err := s.api.Reviews(gctx, id, userID)
			if err != nil {
				s.logg.Warn(gctx, "checking own review failed: "+err.Error())
				return nil
			}
			detail.HasReviewed = len(mine) > 0
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	detail.CanReview = userID != "" && detail.HasPurchased && !detail.HasReviewed
	return detail, nil
}

func (s *service) Categories(ctx context.Context) ([]backend.Category, error) {
	return s.api.Categories(ctx)
}

func (s *service) About(ctx context.Context) (*backend.AboutPage, error) {
	return s.api.About(ctx)
}

func (s *service) Contact(ctx context.Context) (*backend.ContactInfo, error) {
	info, err := s.api.Contact(ctx)
	if err != nil {
		s.notify.Error(ctx, "Unable to load contact details.")
		return nil, err
	}
	return info, nil
}

func (s *service) SendMessage(ctx context.Context, input ContactInput) error {
	if err := validate.Struct(input); err != nil {
		return err
	}
	err := s.api.SendContactMessage(ctx, backend.ContactMessage{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Phone:   strings.TrimSpace(input.Phone),
		Message: strings.TrimSpace(input.Message),
	})
	if err != nil {
		s.notify.Error(ctx, "Failed to send message. Please try again later.")
		return err
	}
	s.notify.Success(ctx, "Message sent successfully!")
	return nil
}

func (s *service) CreateReview(ctx context.Context, input ReviewInput) error {
	userID := s.session.UserID()
	if userID == "" {
		s.notify.Error(ctx, "You must be logged in to submit a review.")
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	input.Review = strings.TrimSpace(input.Review)
	if err := validate.Struct(input); err != nil {
		return err
	}
	err := s.api.CreateReview(ctx, backend.ReviewInput{
		ProductID: input.ProductID,
		UserID:    userID,
		Rating:    input.Rating,
		Review:    input.Review,
	})
	if err != nil {
		s.notify.Error(ctx, "Failed to submit review")
		return err
	}
	s.notify.Success(ctx, "Review submitted!")
	return nil
}
