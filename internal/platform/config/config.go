// Package config builds process configuration from the environment so main
// stays lean. Optional backends (Postgres, Redis, Kafka) are enabled by the
// presence of their URL; absence means the in-memory fallback.
package config

import (
	"os"
	"strings"
	"time"
)

// Server captures the full process configuration.
type Server struct {
	Addr string

	// WalletID is the wallet's own identity: issuer of presentation tokens
	// and client_id/redirect_uri of outbound authorization requests.
	WalletID string

	// ProviderEndpoint is the default authorization endpoint outbound
	// requests are built against.
	ProviderEndpoint string

	JWTSigningKey string

	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

// PostgresConfig holds the manifest store connection. Empty URL selects the
// in-memory store.
type PostgresConfig struct {
	URL string
}

// RedisConfig holds the replay guard connection. Empty URL selects the
// in-memory guard.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds the audit sink. Empty Brokers selects the in-memory
// audit store.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("CARDWALLET_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	walletID := os.Getenv("CARDWALLET_ID")
	if walletID == "" {
		walletID = "https://wallet.example.org/authorize"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	topic := os.Getenv("KAFKA_AUDIT_TOPIC")
	if topic == "" {
		topic = "cardwallet.audit"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return Server{
		Addr:             addr,
		WalletID:         walletID,
		ProviderEndpoint: os.Getenv("PROVIDER_ENDPOINT"),
		JWTSigningKey:    jwtSigningKey,
		Postgres:         PostgresConfig{URL: os.Getenv("DATABASE_URL")},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{Brokers: brokers, Topic: topic},
	}
}
