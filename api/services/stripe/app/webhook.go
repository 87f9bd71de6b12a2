package app

import (
	"context"
	"log/slog"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// HandleWebhook verifies the signed payload and dispatches on the event type.
// Once the signature is verified the event counts as accepted: failures of
// follow-up lookups are logged, never returned.
func (s serviceImpl) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) (stripe.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, s.cfg.StripeWebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		slog.WarnContext(ctx, "webhook signature verification failed", "err", err)
		return stripe.Event{}, newError(ErrInvalidSignature, "invalid signature", err)
	}
	slog.InfoContext(ctx, "webhook received", "event_id", event.ID, "event_type", event.Type)

	if s.recorder != nil {
		if err := s.recorder.RecordEvent(ctx, event); err != nil {
			slog.ErrorContext(ctx, "failed to record webhook event", "event_id", event.ID, "err", err)
		}
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		slog.InfoContext(ctx, "payment succeeded", "event_id", event.ID)
		if err := s.HandleCheckoutSessionCompleted(ctx, event); err != nil {
			slog.ErrorContext(ctx, "checkout.session.completed not processed", "event_id", event.ID, "err", err)
		}
	default:
		// Accepted without further action.
	}
	return event, nil
}

// HandleCheckoutSessionCompleted reads the subscription and customer
// references of a completed checkout and logs the resulting subscription.
func (s serviceImpl) HandleCheckoutSessionCompleted(ctx context.Context, event stripe.Event) error {
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return newError(ErrBadEvent, "event has no data object", nil)
	}
	subscriptionID, customerID, err := extractReferences(event.Data.Raw)
	if err != nil {
		return newError(ErrBadEvent, "event data object is not a JSON object", err)
	}
	slog.InfoContext(ctx, "subscription data from event",
		"subscription_id", subscriptionID,
		"customer_id", customerID,
	)
	if subscriptionID == "" {
		return nil
	}

	params := &stripe.SubscriptionParams{}
	for _, f := range subscriptionExpand {
		params.AddExpand(f)
	}
	sub, err := s.gw.GetSubscription(ctx, subscriptionID, params)
	if err != nil {
		slog.ErrorContext(ctx, "subscription retrieve failed", "subscription_id", subscriptionID, "err", classify(err))
		return nil
	}
	logSubscription(ctx, sub)
	return nil
}
