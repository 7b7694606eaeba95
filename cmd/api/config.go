package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/infrastructure/viacep"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/kafka"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/mongodb"
)

// Config holds application configuration
type Config struct {
	ServerAddr   string
	QuoteTimeout time.Duration
	PolicyFile   string

	ViaCEP *viacep.Config

	AddressCacheEnabled bool
	AddressCacheTTL     time.Duration
	MongoDB             *mongodb.Config

	KafkaEnabled bool
	Kafka        *kafka.Config
}

func loadConfig() *Config {
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
		ServerAddr:          getEnv("SERVER_ADDR", ":8080"),
		QuoteTimeout:        getDuration("QUOTE_TIMEOUT", 8*time.Second),
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
