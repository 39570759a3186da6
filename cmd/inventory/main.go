package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/inventory"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/logging"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	name := cfg.ServiceName + "-inventory"
	logger, err := logging.New(cfg.LogLevel, name)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, name, logger); err != nil {
		logger.Fatal("inventory exited", zap.Error(err))
	}
}

func run(cfg config.Config, name string, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	alerts := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicProductStockLow, 1024, logger)
	alerts.Start(context.Background())
	defer alerts.WaitClosed()
	defer alerts.Close()

	svc := &inventory.Service{
		Products:    &catalog.Repo{DB: db},
		Dedup:       &redisx.Dedup{RDB: rdb, Service: "inventory"},
		Snapshots:   &redisx.StockSnapshots{RDB: rdb},
		Alerts:      alerts,
		Threshold:   cfg.LowStockThreshold,
		ServiceName: name,
		Logger:      logger,
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.InventoryGroup, orders.TopicOrderPlaced, cfg.InventoryWorkers, logger)
	logger.Info("inventory consumer started",
		zap.String("group", cfg.InventoryGroup),
		zap.String("topic", orders.TopicOrderPlaced),
		zap.Int("workers", cfg.InventoryWorkers),
		zap.Int("low_stock_threshold", cfg.LowStockThreshold))

	// Start returns once ctx is cancelled and all workers are idle.
	if err := cons.Start(ctx, svc.HandleOrderPlaced); err != nil {
		return fmt.Errorf("consumer: %w", err)
	}
	logger.Info("inventory consumer stopped")
	return nil
}
