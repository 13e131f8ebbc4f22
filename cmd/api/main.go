package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/infra/commerce"
	"storefront/internal/infra/db"
	infraRedis "storefront/internal/infra/redis"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/repository"
	"storefront/internal/server"
	"storefront/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	//カートの保存先
	storage, closeStorage, err := openCartStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	//コマースAPI
	client, err := commerce.NewClient(cfg.Commerce.BaseURL, cfg.Commerce.Token,
		commerce.WithHTTPClient(&http.Client{Timeout: cfg.Commerce.Timeout}),
		commerce.WithLangCode(cfg.Commerce.LangCode),
		commerce.WithMetrics(m),
	)
	if err != nil {
		return err
	}

	carts := cart.NewRegistry(storage, log, cart.WithIdleTTL(cfg.Cart.IdleTTL))
	go carts.Run(ctx, cfg.Cart.SweepInterval)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(client, log)
	e := server.New(server.Deps{
		Config:   cfg,
		Log:      log,
		Gatherer: reg,
		Catalog:  usecase.NewCatalogUsecase(client, log),
		Cart:     usecase.NewCartUsecase(carts, client, log, m),
		Auth:     authUC,
		Orders: usecase.NewOrderUsecase(client, usecase.OrderDefaults{
			FormIdentifier:           cfg.Commerce.OrderForm,
			PaymentAccountIdentifier: cfg.Commerce.PaymentAccount,
		}, log),
	})

	//Server起動
	log.Zerolog(ctx).Info().
		Str("env", cfg.AppEnv).
		Str("cart_storage", cfg.Cart.StorageDriver).
		Msg("starting storefront")
	return server.Start(ctx, e, ":"+cfg.Port, log)
}

func openCartStorage(ctx context.Context, cfg config.Config) (repository.CartStorage, func(), error) {
	switch cfg.Cart.StorageDriver {
	case config.StoragePostgres:
		gormDB, err := db.Connect(cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		repo := infraRepo.NewCartGormRepository(gormDB)
		if err := repo.Migrate(); err != nil {
			_ = db.Close(gormDB)
			return nil, nil, fmt.Errorf("migrate cart snapshots: %w", err)
		}
		return repo, func() { _ = db.Close(gormDB) }, nil

	case config.StorageRedis:
		client, err := infraRedis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return infraRepo.NewCartRedisRepository(client, cfg.Cart.TTL), func() { _ = client.Close() }, nil

	default:
		return infraRepo.NewCartMemoryRepository(), func() {}, nil
	}
}
