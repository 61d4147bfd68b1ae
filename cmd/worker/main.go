package main

import (
	"context"
	"github.com/ariefcatur/healtheek-storefront/internal/catalog"
	"github.com/ariefcatur/healtheek-storefront/internal/catalogsync"
	"github.com/ariefcatur/healtheek-storefront/internal/config"
	"github.com/ariefcatur/healtheek-storefront/internal/events"
	kafkax "github.com/ariefcatur/healtheek-storefront/internal/kafka"
	"github.com/ariefcatur/healtheek-storefront/internal/logging"
	"github.com/ariefcatur/healtheek-storefront/internal/postgres"
	"github.com/ariefcatur/healtheek-storefront/internal/redisx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger, err := logging.New(cfg.Env, cfg.ServiceName+"-worker")
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

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	repo := &catalog.Repo{DB: db}
	svc := &catalogsync.Service{
		Store: repo,
		Cache: &catalog.Cache{Next: repo, Redis: rdb, TTL: cfg.CatalogCacheTTL, Log: logger},
		Redis: rdb,
		Log:   logger,
		Name:  "catalogsync",
	}

	// Counts may have drifted while the worker was down.
	if err := svc.Recount(ctx); err != nil {
		logger.Warn("initial recount", zap.Error(err))
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.CatalogGroup, events.TopicCatalogChanged, cfg.CatalogWorkers, logger)
	done := make(chan struct{})
	go func() {
		defer close(done)
		logger.Info("catalog consumer started",
			zap.String("group", cfg.CatalogGroup),
			zap.String("topic", events.TopicCatalogChanged),
			zap.Int("workers", cfg.CatalogWorkers))
		if err := cons.Start(ctx, svc.HandleCatalogChanged); err != nil {
			logger.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	logger.Info("shutting down consumer")
	cancel()
	<-done
}
