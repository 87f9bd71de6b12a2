package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration.
// It is built once at startup and handed to the components that need it.
type Config struct {
	StripeSecretKey      string `envconfig:"STRIPE_SECRET_KEY" required:"true" validate:"required"`
	StripePublishableKey string `envconfig:"STRIPE_PUBLISHABLE_KEY" required:"true" validate:"required"`
	StripeWebhookSecret  string `envconfig:"STRIPE_WEBHOOK_SECRET" required:"true" validate:"required"`
	BasicPriceID         string `envconfig:"BASIC_PRICE_ID" required:"true" validate:"required"`
	ProPriceID           string `envconfig:"PRO_PRICE_ID" required:"true" validate:"required"`

	// Domain is the public base URL used to build checkout and portal redirects.
	Domain    string `envconfig:"DOMAIN" required:"true" validate:"required,url"`
	StaticDir string `envconfig:"STATIC_DIR" required:"true" validate:"required"`

	// Optional: customer attached to new checkout sessions when the request does not name one.
	CheckoutCustomerID string `envconfig:"CHECKOUT_CUSTOMER_ID"`
	// Optional: enables the webhook audit log.
	DatabaseURL string `envconfig:"DATABASE_URL"`
	// Optional: base URL for running remote HTTP integration tests (e.g., https://api.example.com)
	IntegrationBaseURL string `envconfig:"INTEGRATION_BASE_URL"`

	// Server ports
	HTTPPort string `envconfig:"PORT" default:"4242"`
	GRPCPort string `envconfig:"GRPC_PORT" default:"50051"`

	StripeTimeout time.Duration `envconfig:"STRIPE_TIMEOUT" default:"20s" validate:"gt=0"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
}

// GRPCEnabled reports whether the gRPC health listener should be started.
func (c *Config) GRPCEnabled() bool {
	return c.GRPCPort != "" && !strings.EqualFold(c.GRPCPort, GRPCPortDisabled)
}

// StaticPath resolves StaticDir against the working directory.
func (c *Config) StaticPath() string {
	if filepath.IsAbs(c.StaticDir) {
		return filepath.Clean(c.StaticDir)
	}
	wd, err := os.Getwd()
	if err != nil {
		return filepath.Clean(c.StaticDir)
	}
	return filepath.Join(wd, c.StaticDir)
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Try to load .env file from current directory and parent directories
	currentDir, _ := os.Getwd()
	for currentDir != "/" && currentDir != "." {
		envPath := filepath.Join(currentDir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// godotenv.Load never overrides variables already set in the process.
			if err := godotenv.Load(envPath); err != nil {
				return nil, fmt.Errorf("failed to load .env file: %v", err)
			}
			break
		}
		currentDir = filepath.Dir(currentDir)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	config := &Config{}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("missing required environment variable: %w", err)
	}
	config.Domain = strings.TrimSuffix(config.Domain, "/")

	// An empty variable passes envconfig's required check, so required is enforced again here.
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("envconfig")
	})
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}
