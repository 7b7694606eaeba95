package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/application"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/logging"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/metrics"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/middleware"
)

type routerConfig struct {
	service      *application.ShippingQuoteService
	metrics      *metrics.Metrics
	logger       *logging.Logger
	quoteTimeout time.Duration
	ready        func(ctx context.Context) error
}

func newRouter(config *routerConfig) *gin.Engine {
	router := gin.New()

	middleware.Setup(router, middleware.DefaultConfig(serviceName, config.logger.Logger))
	router.Use(middleware.Metrics(config.metrics))
	router.Use(middleware.Tracing(middleware.DefaultTracingConfig(serviceName)))

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, config.ready))
	router.GET("/metrics", middleware.MetricsEndpoint(config.metrics))

	quote := []gin.HandlerFunc{
		middleware.Timeout(config.quoteTimeout),
		calculateQuoteHandler(config.service, config.logger),
	}

	api := router.Group("/api/v1/shipping")
	{
		api.POST("/quote", quote...)
		api.GET("/policy", getPolicyHandler(config.service))
	}

	// Path used by storefront builds that predate the versioned API.
	router.POST("/calculate-shipping", quote...)

	return router
}
