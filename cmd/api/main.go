package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	authapp "github.com/agromart/agromart/internal/auth/app"
	authpg "github.com/agromart/agromart/internal/auth/infra/postgres"
	cartapp "github.com/agromart/agromart/internal/cart/app"
	cartadapter "github.com/agromart/agromart/internal/cart/infra/adapter"
	cartpg "github.com/agromart/agromart/internal/cart/infra/postgres"
	catalogapp "github.com/agromart/agromart/internal/catalog/app"
	catalogpg "github.com/agromart/agromart/internal/catalog/infra/postgres"
	checkoutapp "github.com/agromart/agromart/internal/checkout/app"
	checkoutadapter "github.com/agromart/agromart/internal/checkout/infra/adapter"
	checkoutpg "github.com/agromart/agromart/internal/checkout/infra/postgres"
	"github.com/agromart/agromart/internal/httpapi"
	notifyamqp "github.com/agromart/agromart/internal/notification/amqp"
	orderapp "github.com/agromart/agromart/internal/order/app"
	orderpg "github.com/agromart/agromart/internal/order/infra/postgres"
	paymentapp "github.com/agromart/agromart/internal/payment/app"
	paymentpg "github.com/agromart/agromart/internal/payment/infra/postgres"
	"github.com/agromart/agromart/pkg/config"
	"github.com/agromart/agromart/pkg/logger"
	"github.com/agromart/agromart/pkg/metrics"
	"github.com/agromart/agromart/pkg/postgres"
	"github.com/agromart/agromart/pkg/shutdown"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Service: cfg.AppName,
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	ctx, stop := shutdown.WithSignals(context.Background())
	defer stop()

	db, err := postgres.Open(postgres.Config{
		Host:    cfg.DBHost,
		Port:    cfg.DBPort,
		User:    cfg.DBUser,
		Pass:    cfg.DBPassword,
		DB:      cfg.DBName,
		SSLMode: cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	m := metrics.NewServerMetrics("api")

	catalogSvc := catalogapp.NewService(
		catalogpg.NewProductRepo(db),
		catalogpg.NewCategoryRepo(db),
		catalogpg.NewListingRepo(db),
	)

	cartSvc := cartapp.NewService(
		cartpg.NewCartRepo(db),
		cartadapter.NewCatalogInventoryReader(catalogSvc),
	)

	var events checkoutapp.EventPublisher = notifyamqp.NopPublisher{}
	if cfg.EventsEnabled {
		publisher, err := notifyamqp.NewPublisher(notifyamqp.Config{
			URL:      cfg.RabbitMQURL,
			Exchange: cfg.OrderExchange,
			Topic:    cfg.OrderPlacedTopic,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to rabbitmq")
		}
		defer publisher.Close()
		events = publisher
	}

	checkoutSvc := checkoutapp.NewService(
		checkoutpg.NewTxManager(db),
		checkoutadapter.NewCatalogServiceReader(catalogSvc),
		events,
		log,
	)

	orderSvc := orderapp.NewService(orderpg.NewOrderRepo(db))
	paymentSvc := paymentapp.NewService(paymentpg.NewAttemptRepo(db))

	issuer := authapp.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	authSvc := authapp.NewService(
		authpg.NewUserRepo(db),
		authpg.NewRefreshTokenRepo(db),
		issuer,
		cfg.RefreshTokenTTL,
	)

	router := httpapi.NewRouter(httpapi.Deps{
		Auth:     authSvc,
		Cart:     cartSvc,
		Catalog:  catalogSvc,
		Checkout: checkoutSvc,
		Orders:   orderSvc,
		Payments: paymentSvc,
		Metrics:  m,
		Log:      log,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
