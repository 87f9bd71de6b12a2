package stripegw

import (
	"context"
	"net/http"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	portalsession "github.com/stripe/stripe-go/v82/billingportal/session"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/subscription"

	"github.com/tbeaudouin05/stripe-checkout-subscription/api/config"
	gw "github.com/tbeaudouin05/stripe-checkout-subscription/api/services/stripe/gateway"
)

// Configure sets the Stripe SDK key, app info and API backend once during bootstrap.
// Network retries are disabled: every call reaches Stripe at most once.
func Configure(cfg *config.Config, logger stripe.LeveledLoggerInterface) {
	stripe.Key = cfg.StripeSecretKey
	stripe.SetAppInfo(&stripe.AppInfo{
		Name:    config.AppName,
		Version: config.AppVersion,
		URL:     config.AppURL,
	})
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.StripeTimeout},
		LeveledLogger:     logger,
		MaxNetworkRetries: stripe.Int64(0),
	})
	stripe.SetBackend(stripe.APIBackend, backend)
}

// client is the Stripe SDK-backed implementation of the gateway.
type client struct {
	timeout time.Duration
}

// New returns a StripeGateway backed by the official Stripe SDK.
// Each call is bounded by timeout on top of the caller's context.
func New(timeout time.Duration) gw.StripeGateway { return client{timeout: timeout} }

func (c client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c client) GetCheckoutSession(ctx context.Context, id string, params *stripe.CheckoutSessionParams) (stripe.CheckoutSession, error) {
	if params == nil {
		params = &stripe.CheckoutSessionParams{}
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	params.Context = ctx

	s, err := session.Get(id, params)
	if err != nil {
		return stripe.CheckoutSession{}, err
	}
	if s == nil {
		return stripe.CheckoutSession{}, nil
	}
	return *s, nil
}

func (c client) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (stripe.CheckoutSession, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	params.Context = ctx

	s, err := session.New(params)
	if err != nil {
		return stripe.CheckoutSession{}, err
	}
	if s == nil {
		return stripe.CheckoutSession{}, nil
	}
	return *s, nil
}

func (c client) CreateBillingPortalSession(ctx context.Context, params *stripe.BillingPortalSessionParams) (stripe.BillingPortalSession, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	params.Context = ctx

	ps, err := portalsession.New(params)
	if err != nil {
		return stripe.BillingPortalSession{}, err
	}
	if ps == nil {
		return stripe.BillingPortalSession{}, nil
	}
	return *ps, nil
}

func (c client) GetSubscription(ctx context.Context, id string, params *stripe.SubscriptionParams) (stripe.Subscription, error) {
	if params == nil {
		params = &stripe.SubscriptionParams{}
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	params.Context = ctx

	sub, err := subscription.Get(id, params)
	if err != nil {
		return stripe.Subscription{}, err
	}
	if sub == nil {
		return stripe.Subscription{}, nil
	}
	return *sub, nil
}
