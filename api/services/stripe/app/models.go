package app

// ConfigResponse exposes the publishable identifiers the front end needs.
type ConfigResponse struct {
	PublishableKey string `json:"publishableKey"`
	BasicPrice     string `json:"basicPrice"`
	ProPrice       string `json:"proPrice"`
}

// CheckoutRequest is the input for creating a subscription checkout session.
// CustomerID is optional; the configured default customer applies when empty.
type CheckoutRequest struct {
	PriceID    string `validate:"required"`
	CustomerID string
}

// Expansions requested from Stripe.
var (
	checkoutSessionExpand = []string{"subscription", "customer", "line_items.data.price"}
	subscriptionExpand    = []string{"customer", "items.data.price"}
)

// Redirect targets relative to the configured domain.
const (
	successPath = "/success.html?session_id={CHECKOUT_SESSION_ID}"
	cancelPath  = "/canceled.html"
)
