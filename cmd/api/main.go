package main

import (
	"context"
	"github.com/ariefcatur/healtheek-storefront/internal/academy"
	"github.com/ariefcatur/healtheek-storefront/internal/catalog"
	"github.com/ariefcatur/healtheek-storefront/internal/config"
	"github.com/ariefcatur/healtheek-storefront/internal/events"
	"github.com/ariefcatur/healtheek-storefront/internal/httpx"
	kafkax "github.com/ariefcatur/healtheek-storefront/internal/kafka"
	"github.com/ariefcatur/healtheek-storefront/internal/logging"
	"github.com/ariefcatur/healtheek-storefront/internal/orders"
	"github.com/ariefcatur/healtheek-storefront/internal/postgres"
	"github.com/ariefcatur/healtheek-storefront/internal/pricing"
	"github.com/ariefcatur/healtheek-storefront/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger, err := logging.New(cfg.Env, cfg.ServiceName)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per topic
	orderProd := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicOrderCreated, 1024, logger)
	orderProd.Start()
	catalogProd := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicCatalogChanged, 256, logger)
	catalogProd.Start()

	// Repos & services
	catalogRepo := &catalog.Repo{DB: db}
	cached := &catalog.Cache{Next: catalogRepo, Redis: rdb, TTL: cfg.CatalogCacheTTL, Log: logger}
	catalogSvc := &catalog.Service{Store: cached, Log: logger}
	courses := &academy.Repo{DB: db}
	orderRepo := &orders.Repo{DB: db}
	carts := &redisx.CartStorage{R: rdb, TTL: cfg.CartTTL}

	router := httpx.NewRouter(logger)
	limiter := httpx.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	router.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		(&httpx.StorefrontHandler{Catalog: catalogSvc, Courses: courses}).Register(r)
		(&httpx.CartHandler{Store: carts, Catalog: catalogSvc, Preview: pricing.DefaultSimple(), Log: logger}).Register(r)
		(&httpx.CheckoutHandler{
			Carts:     carts,
			Orders:    orderRepo,
			Publisher: orderProd,
			Pricing:   pricing.NewCheckout(cfg.FreeShippingThreshold, cfg.FlatShippingFee, cfg.TaxRate),
			Redis:     rdb,
			Service:   cfg.ServiceName,
			Log:       logger,
		}).Register(r)
		(&httpx.OrdersHandler{Orders: orderRepo}).Register(r)
	})
	(&httpx.AdminHandler{
		Catalog:   catalogRepo,
		Courses:   courses,
		Orders:    orderRepo,
		Publisher: catalogProd,
		Token:     cfg.AdminToken,
		Service:   cfg.ServiceName,
		Log:       logger,
	}).Register(router)
	if cfg.AdminToken == "" {
		logger.Warn("ADMIN_TOKEN is empty, admin API disabled")
	}

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	// graceful shutdown
	go func() {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	orderProd.Close() // close inbox, flush, close writer
	catalogProd.Close()
	orderProd.WaitClosed()
	catalogProd.WaitClosed()
}
