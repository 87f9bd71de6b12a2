package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	stripe "github.com/stripe/stripe-go/v82"

	"github.com/tbeaudouin05/stripe-checkout-subscription/api/config"
	gw "github.com/tbeaudouin05/stripe-checkout-subscription/api/services/stripe/gateway"
)

// Service defines the checkout operations exposed over HTTP.
// It holds no per-request state; all authoritative state lives in Stripe.
type Service interface {
	PublicConfig() ConfigResponse
	GetCheckoutSession(ctx context.Context, sessionID string) (stripe.CheckoutSession, error)
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (stripe.CheckoutSession, error)
	CreatePortalSession(ctx context.Context, sessionID string) (stripe.BillingPortalSession, error)
	HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) (stripe.Event, error)
	HandleCheckoutSessionCompleted(ctx context.Context, event stripe.Event) error
}

// EventRecorder keeps an audit trail of verified webhook events.
type EventRecorder interface {
	RecordEvent(ctx context.Context, event stripe.Event) error
}

type serviceImpl struct {
	gw       gw.StripeGateway
	cfg      config.Config
	recorder EventRecorder
	validate *validator.Validate
}

// NewService wires the gateway and configuration. recorder may be nil.
func NewService(g gw.StripeGateway, cfg *config.Config, recorder EventRecorder) Service {
	return serviceImpl{gw: g, cfg: *cfg, recorder: recorder, validate: validator.New()}
}

// PublicConfig returns the configured identifiers verbatim.
func (s serviceImpl) PublicConfig() ConfigResponse {
	return ConfigResponse{
		PublishableKey: s.cfg.StripePublishableKey,
		BasicPrice:     s.cfg.BasicPriceID,
		ProPrice:       s.cfg.ProPriceID,
	}
}

// GetCheckoutSession retrieves a previously created checkout session.
func (s serviceImpl) GetCheckoutSession(ctx context.Context, sessionID string) (stripe.CheckoutSession, error) {
	if sessionID == "" {
		return stripe.CheckoutSession{}, newError(ErrInvalidRequest, "sessionId is required", nil)
	}
	cs, err := s.gw.GetCheckoutSession(ctx, sessionID, nil)
	if err != nil {
		slog.WarnContext(ctx, "checkout session lookup failed", "session_id", sessionID, "err", err)
		return stripe.CheckoutSession{}, classify(err)
	}
	return cs, nil
}

// CreateCheckoutSession creates a one-item subscription checkout session with a trial period.
func (s serviceImpl) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (stripe.CheckoutSession, error) {
	if err := s.validate.Struct(req); err != nil {
		return stripe.CheckoutSession{}, newError(ErrInvalidRequest, "priceId is required", err)
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(s.cfg.Domain + successPath),
		CancelURL:  stripe.String(s.cfg.Domain + cancelPath),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			TrialPeriodDays: stripe.Int64(config.TrialPeriodDays),
		},
	}
	if customerID := s.customerFor(req); customerID != "" {
		params.Customer = stripe.String(customerID)
	}
	for _, f := range checkoutSessionExpand {
		params.AddExpand(f)
	}

	cs, err := s.gw.CreateCheckoutSession(ctx, params)
	if err != nil {
		slog.WarnContext(ctx, "checkout session creation failed", "price_id", req.PriceID, "err", err)
		return stripe.CheckoutSession{}, classify(err)
	}
	if cs.URL == "" {
		return stripe.CheckoutSession{}, newError(ErrGateway, fmt.Sprintf("checkout session %s has no url", cs.ID), nil)
	}

	slog.InfoContext(ctx, "checkout session created", "session_id", cs.ID)
	logCheckoutSession(ctx, cs)
	return cs, nil
}

// CreatePortalSession resolves the customer behind a checkout session and opens a billing portal for it.
func (s serviceImpl) CreatePortalSession(ctx context.Context, sessionID string) (stripe.BillingPortalSession, error) {
	if sessionID == "" {
		return stripe.BillingPortalSession{}, newError(ErrInvalidRequest, "sessionId is required", nil)
	}
	cs, err := s.gw.GetCheckoutSession(ctx, sessionID, nil)
	if err != nil {
		return stripe.BillingPortalSession{}, classify(err)
	}
	customerID := customerIDOf(cs.Customer)
	if customerID == "" {
		return stripe.BillingPortalSession{}, newError(ErrInvalidRequest, fmt.Sprintf("checkout session %s has no customer", sessionID), nil)
	}

	ps, err := s.gw.CreateBillingPortalSession(ctx, &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(s.cfg.Domain),
	})
	if err != nil {
		return stripe.BillingPortalSession{}, classify(err)
	}
	slog.InfoContext(ctx, "billing portal session created", "customer_id", customerID)
	return ps, nil
}

func (s serviceImpl) customerFor(req CheckoutRequest) string {
	if req.CustomerID != "" {
		return req.CustomerID
	}
	return s.cfg.CheckoutCustomerID
}
