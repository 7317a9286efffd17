package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/freshfind/storefront/api/controllers"
	"github.com/freshfind/storefront/api/middleware"
	"github.com/freshfind/storefront/internal/account"
	"github.com/freshfind/storefront/internal/admin"
	"github.com/freshfind/storefront/internal/cart"
	"github.com/freshfind/storefront/internal/catalog"
	"github.com/freshfind/storefront/internal/checkout"
	"github.com/freshfind/storefront/internal/offers"
	"github.com/freshfind/storefront/internal/wishlist"
	"github.com/freshfind/storefront/pkg/config"
	"github.com/freshfind/storefront/pkg/logger"
)

// Session is what the router needs from the session context.
type Session interface {
	middleware.Session
	controllers.SessionState
}

// Deps wires the view API.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	TabID    string
	Pingers  map[string]controllers.Pinger
	Gatherer prometheus.Gatherer

	Session       Session
	Notifications controllers.Drainer
	Account       account.Service
	Catalog       catalog.Service
	Offers        offers.Service
	Cart          cart.Service
	Wishlist      wishlist.Service
	Checkout      checkout.Service
	Admin         admin.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg, logg, sess := deps.Config, deps.Logger, deps.Session

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Tab(deps.TabID, logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg.App.Env))
		r.Get("/ready", controllers.HealthReady(cfg.App.Env, deps.Pingers, logg))
	})

	if cfg.Metrics.Enabled && deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	requireLogin := middleware.RequireLogin(sess, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/session", func(r chi.Router) {
			r.Get("/", controllers.SessionGet(sess))
			r.Post("/", controllers.SessionLogin(deps.Account, sess, logg))
			r.Delete("/", controllers.SessionLogout(deps.Account, logg))
			r.Put("/browse", controllers.SessionBrowse(sess, logg))
		})

		r.Route("/account", func(r chi.Router) {
			r.Post("/register", controllers.AccountRegister(deps.Account, logg))
			r.Post("/password/forgot", controllers.AccountForgotPassword(deps.Account, logg))
			r.Post("/password/otp", controllers.AccountVerifyOTP(deps.Account, logg))
			r.Post("/password/reset", controllers.AccountResetPassword(deps.Account, logg))
			r.Get("/verify-email/{token}", controllers.AccountVerifyEmail(deps.Account, logg))
			r.Group(func(r chi.Router) {
				r.Use(requireLogin)
				r.Put("/password", controllers.AccountUpdatePassword(deps.Account, logg))
				r.Patch("/profile", controllers.AccountUpdateProfile(deps.Account, logg))
			})
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/home", controllers.CatalogHome(deps.Catalog, logg))
			r.Get("/products", controllers.CatalogProducts(deps.Catalog, logg))
			r.Get("/products/{productId}", controllers.CatalogProduct(deps.Catalog, logg))
			r.With(requireLogin).Post("/products/{productId}/reviews", controllers.CatalogCreateReview(deps.Catalog, logg))
			r.Get("/search", controllers.CatalogSearch(deps.Catalog, logg))
			r.Get("/categories", controllers.CatalogCategories(deps.Catalog, logg))
			r.Get("/about", controllers.CatalogAbout(deps.Catalog, logg))
			r.Get("/contact", controllers.CatalogContact(deps.Catalog, logg))
			r.Post("/contact", controllers.CatalogSendMessage(deps.Catalog, logg))
		})

		// cart and wishlist answer guests themselves with a login prompt
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.Cart, logg))
			r.Post("/items", controllers.CartAdd(deps.Cart, logg))
			r.Patch("/items/{productId}", controllers.CartUpdateQuantity(deps.Cart, logg))
			r.Delete("/items/{productId}", controllers.CartRemove(deps.Cart, logg))
			r.Post("/offer", controllers.CartApplyOffer(deps.Cart, logg))
			r.Delete("/offer", controllers.CartClearOffer(deps.Cart, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistGet(deps.Wishlist, logg))
			r.Post("/", controllers.WishlistToggle(deps.Wishlist, logg))
			r.Delete("/{productId}", controllers.WishlistRemove(deps.Wishlist, logg))
			r.Post("/{productId}/move-to-cart", controllers.WishlistMoveToCart(deps.Wishlist, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(requireLogin)
			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", controllers.CheckoutSummary(deps.Checkout, logg))
				r.Post("/addresses", controllers.CheckoutAddAddress(deps.Checkout, logg))
				r.Post("/orders", controllers.CheckoutPlaceOrder(deps.Checkout, logg))
			})
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersList(deps.Checkout, logg))
				r.Get("/{orderId}", controllers.OrderGet(deps.Checkout, logg))
			})
		})

		r.Get("/notifications", controllers.NotificationsDrain(deps.Notifications))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(requireLogin, middleware.RequireAdmin(sess, logg))
		r.Route("/offers", func(r chi.Router) {
			r.Get("/", controllers.AdminOffersList(deps.Offers, logg))
			r.Post("/", controllers.AdminOfferCreate(deps.Offers, logg))
			r.Get("/{offerId}", controllers.AdminOfferGet(deps.Offers, logg))
			r.Put("/{offerId}", controllers.AdminOfferUpdate(deps.Offers, logg))
			r.Delete("/{offerId}", controllers.AdminOfferDelete(deps.Offers, logg))
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(deps.Checkout, logg))
			r.Patch("/{orderId}/status", controllers.AdminOrderStatus(deps.Checkout, logg))
			r.Delete("/{orderId}", controllers.AdminOrderDelete(deps.Checkout, logg))
		})
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductsList(deps.Admin, logg))
			r.Post("/", controllers.AdminProductCreate(deps.Admin, logg))
			r.Get("/{productId}", controllers.AdminProductGet(deps.Admin, logg))
			r.Put("/{productId}", controllers.AdminProductUpdate(deps.Admin, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(deps.Admin, logg))
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.AdminCategoriesList(deps.Admin, logg))
			r.Post("/", controllers.AdminCategoryCreate(deps.Admin, logg))
			r.Get("/{categoryId}", controllers.AdminCategoryGet(deps.Admin, logg))
			r.Put("/{categoryId}", controllers.AdminCategoryUpdate(deps.Admin, logg))
			r.Delete("/{categoryId}", controllers.AdminCategoryDelete(deps.Admin, logg))
		})
		r.Route("/banners", func(r chi.Router) {
			r.Get("/", controllers.AdminBannersList(deps.Admin, logg))
			r.Get("/{bannerId}", controllers.AdminBannerGet(deps.Admin, logg))
			r.Put("/{bannerId}", controllers.AdminBannerUpdate(deps.Admin, logg))
			r.Delete("/{bannerId}", controllers.AdminBannerDelete(deps.Admin, logg))
		})
		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUsersList(deps.Admin, logg))
			r.Get("/{userId}", controllers.AdminUserGet(deps.Admin, logg))
			r.Put("/{userId}", controllers.AdminUserUpdate(deps.Admin, logg))
			r.Delete("/{userId}", controllers.AdminUserDelete(deps.Admin, logg))
		})
		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", controllers.AdminReviewsList(deps.Admin, logg))
			r.Get("/{reviewId}", controllers.AdminReviewGet(deps.Admin, logg))
			r.Put("/{reviewId}", controllers.AdminReviewUpdate(deps.Admin, logg))
			r.Put("/{reviewId}/reply", controllers.AdminReviewReply(deps.Admin, logg))
			r.Delete("/{reviewId}", controllers.AdminReviewDelete(deps.Admin, logg))
		})
		r.Route("/site", func(r chi.Router) {
			r.Get("/", controllers.AdminSiteContent(deps.Admin, logg))
			r.Put("/about", controllers.AdminAboutUpdate(deps.Admin, logg))
			r.Put("/contact", controllers.AdminContactUpdate(deps.Admin, logg))
		})
		r.Route("/responses", func(r chi.Router) {
			r.Get("/", controllers.AdminResponsesList(deps.Admin, logg))
			r.Put("/{responseId}/reply", controllers.AdminResponseReply(deps.Admin, logg))
			r.Delete("/{responseId}", controllers.AdminResponseDelete(deps.Admin, logg))
		})
	})

	return r
}
