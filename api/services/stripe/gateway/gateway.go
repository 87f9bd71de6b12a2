package gateway

import (
	"context"

	stripe "github.com/stripe/stripe-go/v82"
)

//go:generate mockgen -source=gateway.go -destination=mock/mock_gateway.go -package=mock_gateway

// StripeGateway abstracts Stripe SDK operations needed by the app layer.
// Methods return values (not pointers) to respect the project's preference
// to avoid pointer types in public interfaces. Params are passed through so
// callers decide expansions; implementations own the request context.
type StripeGateway interface {
	GetCheckoutSession(ctx context.Context, id string, params *stripe.CheckoutSessionParams) (stripe.CheckoutSession, error)
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (stripe.CheckoutSession, error)
	CreateBillingPortalSession(ctx context.Context, params *stripe.BillingPortalSessionParams) (stripe.BillingPortalSession, error)
	GetSubscription(ctx context.Context, id string, params *stripe.SubscriptionParams) (stripe.Subscription, error)
}
