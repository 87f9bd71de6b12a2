package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_PUBLISHABLE_KEY", "pk_test_123")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_123")
	t.Setenv("BASIC_PRICE_ID", "price_basic")
	t.Setenv("PRO_PRICE_ID", "price_pro")
	t.Setenv("DOMAIN", "http://localhost:4242/")
	t.Setenv("STATIC_DIR", "../client")
}

func TestFromEnv_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4242", cfg.Domain)
	assert.Equal(t, "4242", cfg.HTTPPort)
	assert.Equal(t, "50051", cfg.GRPCPort)
	assert.Equal(t, 20*time.Second, cfg.StripeTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.GRPCEnabled())
	assert.Empty(t, cfg.CheckoutCustomerID)
}

func TestFromEnv_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PRO_PRICE_ID", "")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PRO_PRICE_ID")
}

func TestFromEnv_InvalidDomain(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DOMAIN", "not a url")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestFromEnv_InvalidLogLevel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := FromEnv()
	require.Error(t, err)
}

func TestGRPCEnabled_Off(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GRPC_PORT", "OFF")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.False(t, cfg.GRPCEnabled())
}

func TestStaticPath_Absolute(t *testing.T) {
	cfg := &Config{StaticDir: "/srv/www/"}
	assert.Equal(t, "/srv/www", cfg.StaticPath())
}
