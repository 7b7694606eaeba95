package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/application"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/domain"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/infrastructure/events"
	cacheRepo "github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/infrastructure/mongodb"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/infrastructure/ratetable"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/infrastructure/viacep"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/kafka"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/logging"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/metrics"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/mongodb"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/tracing"
)

const serviceName = "shipping-quote-service"

func main() {
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting shipping-quote API")

	config := loadConfig()
	ctx := context.Background()

	tracingConfig := tracing.DefaultConfig(serviceName)
	tracingConfig.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	tracingConfig.Environment = getEnv("ENVIRONMENT", "development")
	tracingConfig.Enabled = getBool("TRACING_ENABLED", false)

	tracerProvider, err := tracing.Initialize(ctx, tracingConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
	} else if tracerProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
		logger.Info("Tracing initialized", "enabled", tracingConfig.Enabled, "endpoint", tracingConfig.OTLPEndpoint)
	}

	m := metrics.New(metrics.DefaultConfig(serviceName))

	policy, err := ratetable.LoadFile(config.PolicyFile)
	if err != nil {
		logger.WithError(err).Error("Failed to load shipping policy", "file", config.PolicyFile)
		os.Exit(1)
	}
	logger.Info("Shipping policy loaded",
		"file", config.PolicyFile,
		"regions", policy.Rates.Len(),
		"freeShippingThreshold", policy.FreeShippingThreshold.StringFixed(2),
	)

	var lookup domain.AddressLookup = viacep.NewClient(config.ViaCEP, logger, m)
	ready := func(context.Context) error { return nil }

	if config.AddressCacheEnabled {
		mongoClient, err := mongodb.NewClient(ctx, config.MongoDB)
		if err != nil {
			logger.WithError(err).Error("Failed to connect to MongoDB")
			os.Exit(1)
		}
		defer mongoClient.Close(context.Background())

		repo := cacheRepo.NewAddressCacheRepository(mongoClient, config.AddressCacheTTL, m, logger)
		if err := repo.EnsureIndexes(ctx); err != nil {
			logger.WithError(err).Warn("Failed to ensure address cache indexes")
		}
		lookup = cacheRepo.NewCachingAddressLookup(lookup, repo, m, logger)
		ready = mongoClient.HealthCheck
		logger.Info("Address cache enabled", "database", config.MongoDB.Database, "ttl", config.AddressCacheTTL.String())
	}

	var publisher domain.QuoteEventPublisher
	if config.KafkaEnabled {
		producer := kafka.NewProducer(config.Kafka)
		defer producer.Close()
		publisher = events.NewQuotePublisher(producer, m, logger)
		logger.Info("Kafka producer initialized", "brokers", config.Kafka.Brokers)
	}

	estimator := domain.NewEstimator(lookup, policy)
	quoteService := application.NewShippingQuoteService(estimator, publisher, m, logger)

	router := newRouter(&routerConfig{
		service:      quoteService,
		metrics:      m,
		logger:       logger,
		quoteTimeout: config.QuoteTimeout,
		ready:        ready,
	})

	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	quoteService.Wait()

	logger.Info("Server stopped")
}
