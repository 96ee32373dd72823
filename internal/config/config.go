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

	// Blue Dart
	BlueDartClientID     string `envconfig:"BLUEDART_CLIENT_ID"`
	BlueDartClientSecret string `envconfig:"BLUEDART_CLIENT_SECRET"`
	BlueDartLoginID      string `envconfig:"BLUEDART_LOGIN_ID"`
	BlueDartLicenceKey   string `envconfig:"BLUEDART_LICENCE_KEY"`
	BlueDartBaseURL      string `envconfig:"BLUEDART_BASE_URL" default:"https://apigateway.bluedart.com/in/transportation/v1"`
	BlueDartB2CAccount   bool   `envconfig:"BLUEDART_B2C_ACCOUNT" default:"false"`
	BlueDartEnabled      bool   `envconfig:"BLUEDART_ENABLED" default:"true"`
	BlueDartUseMock      bool   `envconfig:"BLUEDART_USE_MOCK" default:"false"`

	// DTDC
	DTDCAPIKey       string `envconfig:"DTDC_API_KEY"`
	DTDCCustomerCode string `envconfig:"DTDC_CUSTOMER_CODE"`
	DTDCBaseURL      string `envconfig:"DTDC_BASE_URL" default:"https://dtdcapi.shipsy.io/api"`
	DTDCEnabled      bool   `envconfig:"DTDC_ENABLED" default:"true"`
	DTDCUseMock      bool   `envconfig:"DTDC_USE_MOCK" default:"false"`

	// Persistence
	FirestoreCredentials string `envconfig:"FIRESTORE_CREDENTIALS_PATH"`
	UseMemoryStore       bool   `envconfig:"USE_MEMORY_STORE" default:"false"`

	// Shopify
	ShopifyShopDomain  string `envconfig:"SHOPIFY_SHOP_DOMAIN"`
	ShopifyAccessToken string `envconfig:"SHOPIFY_ACCESS_TOKEN"`

	// Fulfillment sync (portal backend hook)
	PortalBaseURL      string `envconfig:"PORTAL_BASE_URL"`
	FulfillmentEnabled bool   `envconfig:"FULFILLMENT_SYNC_ENABLED" default:"true"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"parceldesk-courier"`
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

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("bluedart.enabled", c.BlueDartEnabled),
		attribute.Bool("dtdc.enabled", c.DTDCEnabled),
	}
}
