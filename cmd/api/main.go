package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/ghartak/ghartak-backend/api/routes"
	"github.com/ghartak/ghartak-backend/internal/chat"
	"github.com/ghartak/ghartak-backend/internal/insights"
	internalorders "github.com/ghartak/ghartak-backend/internal/orders"
	"github.com/ghartak/ghartak-backend/internal/payments"
	"github.com/ghartak/ghartak-backend/internal/recommendations"
	"github.com/ghartak/ghartak-backend/pkg/config"
	"github.com/ghartak/ghartak-backend/pkg/kvstore"
	"github.com/ghartak/ghartak-backend/pkg/logger"
	"github.com/ghartak/ghartak-backend/pkg/metrics"
	"github.com/ghartak/ghartak-backend/pkg/openai"
	"github.com/ghartak/ghartak-backend/pkg/razorpay"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	store, err := kvstore.NewRedis(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	ordersRepo, err := internalorders.NewRepository(store)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders repository", err)
		os.Exit(1)
	}

	// A missing or malformed gateway key leaves the client nil; online payment
	// then answers 503 with a COD suggestion instead of failing at boot.
	var gateway payments.GatewayClient
	if cfg.Razorpay.Configured() {
		var opts []razorpay.Option
		if cfg.Razorpay.BaseURL != "" {
			opts = append(opts, razorpay.WithBaseURL(cfg.Razorpay.BaseURL))
		}
		client, err := razorpay.NewClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, opts...)
		if err != nil {
			logg.Warn(context.Background(), "razorpay credentials rejected, online payment disabled")
		} else {
			gateway = client
		}
	} else {
		logg.Warn(context.Background(), "razorpay credentials missing, online payment disabled")
	}

	paymentSvc, err := payments.NewService(payments.ServiceParams{
		Repo:    ordersRepo,
		Store:   store,
		Gateway: gateway,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payment service", err)
		os.Exit(1)
	}

	insightsSvc, err := insights.NewService(ordersRepo, cfg.Insights)
	if err != nil {
		logg.Error(context.Background(), "failed to create insights service", err)
		os.Exit(1)
	}

	recommendationSvc, err := recommendations.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create recommendation service", err)
		os.Exit(1)
	}

	var completionClient chat.CompletionClient
	if cfg.OpenAI.Configured() {
		client, err := openai.NewClient(cfg.OpenAI)
		if err != nil {
			logg.Warn(context.Background(), "openai client rejected configuration, chat disabled")
		} else {
			completionClient = client
		}
	} else {
		logg.Warn(context.Background(), "openai api key missing, chat disabled")
	}

	chatSvc, err := chat.NewService(ordersRepo, completionClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create chat service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			store,
			httpMetrics,
			ordersRepo,
			paymentSvc,
			insightsSvc,
			recommendationSvc,
			chatSvc,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
