package config

import (
	"log"
	"strings"
)

const (
	// ProdDbId is the identifier for the production database
	ProdDbId = "old-cloud"

	// GRPCPortDisabled turns the gRPC health listener off when used as GRPC_PORT.
	GRPCPortDisabled = "off"

	// TrialPeriodDays is the free trial attached to every new subscription.
	TrialPeriodDays = 7

	// Stripe app info, reported with every API request.
	AppName    = "stripe-samples/checkout-single-subscription"
	AppVersion = "0.0.2"
	AppURL     = "https://github.com/stripe-samples/checkout-single-subscription"
)

// CheckNotProdDB aborts immediately if the configured database URL contains ProdDbId.
// This should be called at the start of any test that interacts with the database.
func CheckNotProdDB(cfg *Config) {
	if cfg.DatabaseURL == "" {
		log.Fatal("DatabaseURL is not configured")
	}
	if strings.Contains(cfg.DatabaseURL, ProdDbId) {
		log.Fatalf("Tests aborted: DatabaseURL contains production identifier %s", ProdDbId)
	}
}
