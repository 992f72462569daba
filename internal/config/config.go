package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Shiprocket
	ShiprocketBaseURL   string `envconfig:"SHIPROCKET_BASE_URL" default:"https://apiv2.shiprocket.in"`
	ShiprocketToken     string `envconfig:"SHIPROCKET_TOKEN"`
	ShiprocketEmail     string `envconfig:"SHIPROCKET_EMAIL"`
	ShiprocketPassword  string `envconfig:"SHIPROCKET_PASSWORD"`
	ShiprocketPickup    string `envconfig:"SHIPROCKET_DEFAULT_PICKUP" default:"Primary"`
	ShiprocketChannelID string `envconfig:"SHIPROCKET_CHANNEL_ID"`
	ShiprocketUseMock   bool   `envconfig:"SHIPROCKET_USE_MOCK" default:"false"`
	HomeCountry         string `envconfig:"HOME_COUNTRY" default:"IN"`

	// Order store
	MongoURI    string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDBName string `envconfig:"MONGO_DB_NAME" default:"commerce"`

	// Events
	RabbitURL     string `envconfig:"RABBIT_URL" default:"amqp://localhost"`
	RabbitEnabled bool   `envconfig:"RABBIT_ENABLED" default:"true"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://jaeger-collector.observability.svc.cluster.local:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"delivro-fulfillment"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// HasCarrierCredentials reports whether any Shiprocket credential is set.
// Missing credentials are not fatal at startup; submissions will fail with
// an auth error until they are provided.
func (c *Config) HasCarrierCredentials() bool {
	return c.ShiprocketToken != "" || (c.ShiprocketEmail != "" && c.ShiprocketPassword != "")
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("shiprocket.mock", c.ShiprocketUseMock),
		attribute.Bool("rabbit.enabled", c.RabbitEnabled),
	}
}
