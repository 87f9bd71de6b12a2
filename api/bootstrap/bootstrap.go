package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/tbeaudouin05/stripe-checkout-subscription/api/config"
	"github.com/tbeaudouin05/stripe-checkout-subscription/api/database"
	stripeapp "github.com/tbeaudouin05/stripe-checkout-subscription/api/services/stripe/app"
	stripedb "github.com/tbeaudouin05/stripe-checkout-subscription/api/services/stripe/db"
	stripegw "github.com/tbeaudouin05/stripe-checkout-subscription/api/services/stripe/gateway/stripe"
)

// App holds the wired dependencies for one process.
type App struct {
	Config  *config.Config
	Service stripeapp.Service
	db      *sql.DB
}

// Init configures the Stripe SDK, opens the optional audit database, and wires services.
func Init(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	stripegw.Configure(cfg, stripegw.NewLogger(slog.Default()))

	app := &App{Config: cfg}
	var recorder stripeapp.EventRecorder
	if cfg.DatabaseURL != "" {
		db, err := database.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		store := stripedb.NewEventStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to prepare audit log: %w", err)
		}
		app.db = db
		recorder = store
		slog.Info("webhook audit log enabled")
	}

	app.Service = stripeapp.NewService(stripegw.New(cfg.StripeTimeout), cfg, recorder)
	return app, nil
}

// Close releases the database connection, if any.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
