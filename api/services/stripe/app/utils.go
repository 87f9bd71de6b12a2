package app

import (
	"context"
	"log/slog"

	stripe "github.com/stripe/stripe-go/v82"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

func customerIDOf(c *stripe.Customer) string {
	if c == nil {
		return ""
	}
	return c.ID
}

func subscriptionIDOf(sub *stripe.Subscription) string {
	if sub == nil {
		return ""
	}
	return sub.ID
}

func priceIDOf(p *stripe.Price) string {
	if p == nil {
		return ""
	}
	return p.ID
}

// lineItemPriceIDs returns one entry per line item; items without a price yield "".
func lineItemPriceIDs(cs stripe.CheckoutSession) []string {
	if cs.LineItems == nil {
		return nil
	}
	ids := make([]string, 0, len(cs.LineItems.Data))
	for _, li := range cs.LineItems.Data {
		if li == nil {
			ids = append(ids, "")
			continue
		}
		ids = append(ids, priceIDOf(li.Price))
	}
	return ids
}

func subscriptionItemPriceIDs(sub stripe.Subscription) []string {
	if sub.Items == nil {
		return nil
	}
	ids := make([]string, 0, len(sub.Items.Data))
	for _, item := range sub.Items.Data {
		if item == nil {
			ids = append(ids, "")
			continue
		}
		ids = append(ids, priceIDOf(item.Price))
	}
	return ids
}

func logCheckoutSession(ctx context.Context, cs stripe.CheckoutSession) {
	slog.InfoContext(ctx, "checkout session details",
		"subscription_id", subscriptionIDOf(cs.Subscription),
		"customer_id", customerIDOf(cs.Customer),
	)
	for _, id := range lineItemPriceIDs(cs) {
		slog.InfoContext(ctx, "checkout session line item", "price_id", id)
	}
}

func logSubscription(ctx context.Context, sub stripe.Subscription) {
	slog.InfoContext(ctx, "subscription retrieved",
		"subscription_id", sub.ID,
		"customer_id", customerIDOf(sub.Customer),
	)
	for _, id := range subscriptionItemPriceIDs(sub) {
		slog.InfoContext(ctx, "subscription item", "price_id", id)
	}
}

// extractReferences reads the subscription and customer ids from an event's
// data object without binding it to a concrete type. A reference may be a
// plain id or an expanded object carrying an "id" field.
func extractReferences(raw []byte) (subscriptionID, customerID string, err error) {
	var obj structpb.Struct
	if err := protojson.Unmarshal(raw, &obj); err != nil {
		return "", "", err
	}
	return referenceID(&obj, "subscription"), referenceID(&obj, "customer"), nil
}

func referenceID(obj *structpb.Struct, field string) string {
	v := obj.GetFields()[field]
	if expanded := v.GetStructValue(); expanded != nil {
		return expanded.GetFields()["id"].GetStringValue()
	}
	return v.GetStringValue()
}
