package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/freshfind/storefront/api/controllers"
	"github.com/freshfind/storefront/api/routes"
	"github.com/freshfind/storefront/internal/account"
	"github.com/freshfind/storefront/internal/admin"
	"github.com/freshfind/storefront/internal/cart"
	"github.com/freshfind/storefront/internal/catalog"
	"github.com/freshfind/storefront/internal/checkout"
	"github.com/freshfind/storefront/internal/notifications"
	"github.com/freshfind/storefront/internal/offers"
	"github.com/freshfind/storefront/internal/pricing"
	"github.com/freshfind/storefront/internal/session"
	"github.com/freshfind/storefront/internal/wishlist"
	"github.com/freshfind/storefront/pkg/backend"
	"github.com/freshfind/storefront/pkg/config"
	"github.com/freshfind/storefront/pkg/db"
	"github.com/freshfind/storefront/pkg/instance"
	"github.com/freshfind/storefront/pkg/logger"
	"github.com/freshfind/storefront/pkg/metrics"
	"github.com/freshfind/storefront/pkg/redis"
	"github.com/freshfind/storefront/pkg/storage/local"
	"github.com/freshfind/storefront/pkg/storage/tab"
)

const (
	serviceName     = "storefront"
	shutdownTimeout = 15 * time.Second
)

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "storefront stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tabID := uuid.NewString()
	ctx = logg.WithTabID(ctx, tabID)
	ctx = logg.WithField(ctx, "instance", instance.GetID())

	dbClient, err := db.New(ctx, cfg.Storage, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	localStore, err := local.New(ctx, dbClient)
	if err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	tabStore, err := tab.New(redisClient, tabID, cfg.Redis.TabTTL)
	if err != nil {
		return err
	}
	// closing the process closes the tab
	defer func() {
		clearCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = multierr.Append(err, tabStore.Clear(clearCtx))
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	client, err := backend.NewClient(cfg.Backend.BaseURL,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithObserver(storefrontMetrics),
		backend.WithLogger(logg),
	)
	if err != nil {
		return err
	}

	sess, err := session.New(ctx, session.Params{
		Store:      localStore,
		Tab:        tabStore,
		Logger:     logg,
		ExpirySkew: cfg.Session.ExpirySkew,
		AdminRole:  cfg.Session.AdminRole,
	})
	if err != nil {
		return err
	}
	client.SetTokenSource(sess)
	if cfg.Session.LogoutOn401 {
		client.SetUnauthorizedHandler(sess.HandleUnauthorized)
	}

	shipping, err := cfg.Pricing.Shipping()
	if err != nil {
		return err
	}
	engine := pricing.NewEngine(shipping, cfg.Pricing.CurrencySymbol)
	feed := notifications.NewFeed(cfg.Notify.FeedSize, logg)

	catalogSvc, err := catalog.NewService(client, sess, feed, logg, cfg.Catalog.ProductsPerPage)
	if err != nil {
		return err
	}
	offersSvc, err := offers.NewService(client, sess, feed)
	if err != nil {
		return err
	}
	cartSvc, err := cart.NewService(cart.Params{
		Backend:  client,
		Session:  sess,
		Offers:   tabStore,
		Engine:   engine,
		Notifier: feed,
		Metrics:  storefrontMetrics,
		Logger:   logg,
	})
	if err != nil {
		return err
	}
	wishlistSvc, err := wishlist.NewService(wishlist.ServiceParams{
		Backend:  client,
		Session:  sess,
		Cart:     cartSvc,
		Notifier: feed,
		Logger:   logg,
	})
	if err != nil {
		return err
	}
	checkoutSvc, err := checkout.NewService(checkout.ServiceParams{
		Backend:  client,
		Session:  sess,
		Cart:     cartSvc,
		Offers:   tabStore,
		Engine:   engine,
		Notifier: feed,
		Metrics:  storefrontMetrics,
		Logger:   logg,
	})
	if err != nil {
		return err
	}
	accountSvc, err := account.NewService(account.ServiceParams{
		Backend:  client,
		Session:  sess,
		Tab:      tabStore,
		Notifier: feed,
		Logger:   logg,
	})
	if err != nil {
		return err
	}

	adminSvc, err := admin.NewService(admin.Params{
		Backend:  client,
		Actor:    sess,
		Notifier: feed,
		Logger:   logg,
	})
	if err != nil {
		return err
	}

	if sess.IsLoggedIn() {
		warm(ctx, logg, cartSvc, wishlistSvc)
	}

	router := routes.NewRouter(routes.Deps{
		Config: cfg,
		Logger: logg,
		TabID:  tabID,
		Pingers: map[string]controllers.Pinger{
			"storage": localStore,
			"redis":   redisClient,
		},
		Gatherer:      registry,
		Session:       sess,
		Notifications: feed,
		Account:       accountSvc,
		Catalog:       catalogSvc,
		Offers:        offersSvc,
		Cart:          cartSvc,
		Wishlist:      wishlistSvc,
		Checkout:      checkoutSvc,
		Admin:         adminSvc,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logg.Info(logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "addr": addr}), "starting storefront server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down storefront server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// warm refreshes the cart and wishlist counters of a restored session.
// Failures only leave the counters at zero.
func warm(ctx context.Context, logg *logger.Logger, cartSvc cart.Service, wishlistSvc wishlist.Service) {
	var g errgroup.Group
	g.Go(func() error {
		_, err := cartSvc.Load(ctx)
		return err
	})
	g.Go(func() error {
		_, err := wishlistSvc.Load(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "session warm-up incomplete")
	}
}
