package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/activities"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/application"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/domain"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/infrastructure/events"
	cacheRepo "github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/infrastructure/mongodb"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/infrastructure/ratetable"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/infrastructure/viacep"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/kafka"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/logging"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/metrics"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/middleware"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/mongodb"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/temporal"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/tracing"
)

const serviceName = "shipping-quote-worker"

func main() {
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting shipping-quote worker")

	config := loadConfig()
	ctx := context.Background()

	tracerProvider, err := tracing.Initialize(ctx, config.Tracing)
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
		logger.Info("Tracing initialized", "enabled", config.Tracing.Enabled, "endpoint", config.Tracing.OTLPEndpoint)
	}

	temporalClient, err := temporal.NewClient(ctx, config.Temporal, logger.Logger)
	if err != nil {
		logger.WithError(err).Error("Failed to create Temporal client")
		os.Exit(1)
	}
	defer temporalClient.Close()
	logger.Info("Connected to Temporal", "hostPort", config.Temporal.HostPort, "namespace", config.Temporal.Namespace)

	m := metrics.New(metrics.DefaultConfig(serviceName))

	policy, err := ratetable.LoadFile(config.PolicyFile)
	if err != nil {
		logger.WithError(err).Error("Failed to load shipping policy", "file", config.PolicyFile)
		os.Exit(1)
	}

	var lookup domain.AddressLookup = viacep.NewClient(config.ViaCEP, logger, m)
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
		logger.Info("Address cache enabled", "database", config.MongoDB.Database, "ttl", config.AddressCacheTTL.String())
	}

	var publisher domain.QuoteEventPublisher
	if config.KafkaEnabled {
		producer := kafka.NewProducer(config.Kafka)
		defer producer.Close()
		publisher = events.NewQuotePublisher(producer, m, logger)
	}

	estimator := domain.NewEstimator(lookup, policy)
	quoteService := application.NewShippingQuoteService(estimator, publisher, m, logger)
	shippingActivities := activities.NewShippingActivities(quoteService, m, logger)

	w := temporalClient.NewWorker(temporal.DefaultWorkerOptions(temporal.TaskQueues.ShippingQuote))
	activities.Register(w, shippingActivities)
	logger.Info("Registered activities", "activities", []string{temporal.ActivityNames.CalculateShippingQuote})

	go func() {
		if err := w.Run(nil); err != nil {
			logger.WithError(err).Error("Worker failed")
			os.Exit(1)
		}
	}()
	logger.Info("Worker started", "taskQueue", temporal.TaskQueues.ShippingQuote)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/metrics", middleware.MetricsEndpoint(m))
	metricsServer := &http.Server{
		Addr:              config.MetricsAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down worker...")

	w.Stop()
	quoteService.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("Worker stopped")
}

// Config holds worker configuration
type Config struct {
	Temporal    *temporal.Config
	Tracing     *tracing.Config
	MetricsAddr string
	PolicyFile  string
	ViaCEP      *viacep.Config

	AddressCacheEnabled bool
	AddressCacheTTL     time.Duration
	MongoDB             *mongodb.Config

	KafkaEnabled bool
	Kafka        *kafka.Config
}

func loadConfig() *Config {
	temporalConfig := temporal.DefaultConfig()
	temporalConfig.HostPort = getEnv("TEMPORAL_HOST", temporalConfig.HostPort)
	temporalConfig.Namespace = getEnv("TEMPORAL_NAMESPACE", temporalConfig.Namespace)

	tracingConfig := tracing.DefaultConfig(serviceName)
	tracingConfig.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	tracingConfig.Environment = getEnv("ENVIRONMENT", "development")
	tracingConfig.Enabled = getBool("TRACING_ENABLED", false)

	viaCEP := viacep.DefaultConfig()
	viaCEP.BaseURL = getEnv("VIACEP_BASE_URL", viaCEP.BaseURL)
	viaCEP.Timeout = getDuration("VIACEP_TIMEOUT", viaCEP.Timeout)

	mongoConfig := mongodb.DefaultConfig()
	mongoConfig.URI = getEnv("MONGODB_URI", mongoConfig.URI)
	mongoConfig.Database = getEnv("MONGODB_DATABASE", mongoConfig.Database)

	kafkaConfig := kafka.DefaultConfig()
	kafkaConfig.Brokers = strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	kafkaConfig.ClientID = serviceName

	return &Config{
		Temporal:            temporalConfig,
		Tracing:             tracingConfig,
		MetricsAddr:         getEnv("METRICS_ADDR", ":9090"),
		PolicyFile:          getEnv("SHIPPING_POLICY_FILE", ""),
		ViaCEP:              viaCEP,
		AddressCacheEnabled: getBool("ADDRESS_CACHE_ENABLED", false),
		AddressCacheTTL:     getDuration("ADDRESS_CACHE_TTL", 720*time.Hour),
		MongoDB:             mongoConfig,
		KafkaEnabled:        getBool("KAFKA_ENABLED", false),
		Kafka:               kafkaConfig,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil && value > 0 {
		return value
	}
	return defaultValue
}
