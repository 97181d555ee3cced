// Package config loads process configuration from the environment so main
// stays lean.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config contains all server configuration parameters.
type Config struct {
	Addr     string `env:"GATEKEEPER_ADDR" envDefault:":8080"`
	LogLevel int    `env:"LOG_LEVEL" envDefault:"0"`

	// NFCSecret keys the credential hasher. Override outside development:
	// rotating it invalidates every enrolled credential.
	NFCSecret string `env:"NFC_SECRET" envDefault:"demo-secret"`

	JWT      JWT      `envPrefix:"JWT_"`
	WS       WS       `envPrefix:"WS_"`
	Database Database `envPrefix:"DATABASE_"`
	Redis    Redis    `envPrefix:"REDIS_"`
	Kafka    Kafka    `envPrefix:"KAFKA_"`
}

// JWT contains token issuance and validation parameters.
type JWT struct {
	SigningKey string `env:"SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	Issuer     string `env:"ISSUER" envDefault:"gatekeeper"`
	Audience   string `env:"AUDIENCE" envDefault:"gatekeeper-api"`
	TTLMinutes int    `env:"TTL_MINUTES" envDefault:"60"`
}

// WS contains websocket parameters. AllowedOrigins lists the browser origins
// permitted to open the duplex channel; empty restricts browsers to the
// serving host.
type WS struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:""`
}

// Database contains Postgres connection parameters. An empty DSN selects the
// in-memory stores (local development without Docker).
type Database struct {
	DSN string `env:"DSN" envDefault:""`
}

// Redis contains cache connection parameters. Empty URL disables the door
// config cache.
type Redis struct {
	URL string `env:"URL" envDefault:""`
}

// Kafka contains broker parameters. Empty brokers disable the queue adapter
// and replace the notification producer with a log-only sink.
type Kafka struct {
	Brokers       []string `env:"BROKERS" envDefault:""`
	RequestTopic  string   `env:"REQUEST_TOPIC" envDefault:"access.request"`
	ConsumerGroup string   `env:"CONSUMER_GROUP" envDefault:"gatekeeper"`
}

// Load builds a Config from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
