package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/simpleshop/storefront-core/api/controllers"
	"github.com/simpleshop/storefront-core/api/routes"
	"github.com/simpleshop/storefront-core/internal/auth"
	"github.com/simpleshop/storefront-core/internal/cart"
	"github.com/simpleshop/storefront-core/internal/catalog"
	"github.com/simpleshop/storefront-core/internal/checkout"
	"github.com/simpleshop/storefront-core/internal/orders"
	"github.com/simpleshop/storefront-core/internal/pricing"
	"github.com/simpleshop/storefront-core/pkg/config"
	"github.com/simpleshop/storefront-core/pkg/db"
	"github.com/simpleshop/storefront-core/pkg/logger"
	"github.com/simpleshop/storefront-core/pkg/metrics"
	"github.com/simpleshop/storefront-core/pkg/migrate"
	"github.com/simpleshop/storefront-core/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	var closers []func() error
	defer func() {
		var closeErr error
		for _, closeFn := range closers {
			closeErr = multierr.Append(closeErr, closeFn())
		}
		if closeErr != nil {
			logg.Error(context.Background(), "error closing resources", closeErr)
		}
	}()

	snapshots, storePinger, err := buildSnapshotStore(cfg, logg, &closers)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap snapshot storage", err)
		os.Exit(1)
	}

	cartStore := cart.NewStore(context.Background(), snapshots, logg)

	fee, err := cfg.Checkout.FlatShippingFee()
	if err != nil {
		logg.Error(context.Background(), "invalid shipping fee", err)
		os.Exit(1)
	}
	calc := pricing.NewCalculator(fee)

	ordersClient, err := orders.NewClient(cfg.Orders.Upstream(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service client", err)
		os.Exit(1)
	}

	catalogClient, err := catalog.NewClient(cfg.Catalog.Upstream(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog client", err)
		os.Exit(1)
	}

	authClient, err := auth.NewClient(cfg.Auth.Upstream(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth client", err)
		os.Exit(1)
	}

	coordinator, err := checkout.NewCoordinator(cartStore, ordersClient, calc, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout coordinator", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"store_driver": cfg.Store.Driver,
	})
	logg.Info(ctx, "starting storefront server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			CartStore:     cartStore,
			Calculator:    calc,
			Coordinator:   coordinator,
			Orders:        ordersClient,
			Catalog:       catalogClient,
			Auth:          authClient,
			StorePinger:   storePinger,
			HTTPMetrics:   metrics.NewHTTPMetrics(registry),
			MetricsHandle: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "storefront server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// buildSnapshotStore wires the configured snapshot driver and returns the
// store together with the pinger that gates readiness.
func buildSnapshotStore(cfg *config.Config, logg *logger.Logger, closers *[]func() error) (cart.SnapshotStore, controllers.Pinger, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverSQLite:
		dbClient, err := db.New(context.Background(), cfg.Store, logg)
		if err != nil {
			return nil, nil, err
		}
		*closers = append(*closers, dbClient.Close)

		if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
			return nil, nil, err
		}
		return cart.NewSnapshotRepository(dbClient.DB(), cfg.Store.SnapshotKey), dbClient, nil

	case config.StoreDriverRedis:
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			return nil, nil, err
		}
		*closers = append(*closers, redisClient.Close)
		return cart.NewRedisSnapshotStore(redisClient, cfg.Store.SnapshotKey), redisClient, nil

	default:
		return cart.NewMemorySnapshotStore(), nil, nil
	}
}
