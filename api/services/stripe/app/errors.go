package app

import (
	"context"
	"errors"

	stripe "github.com/stripe/stripe-go/v82"
)

// Typed errors for the Stripe app layer. These enable HTTP mapping without
// relying on SDK-specific error types at the transport layer.
var (
	// ErrInvalidRequest indicates a missing or malformed input, or a request Stripe rejected.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound indicates Stripe has no object with the given identifier.
	ErrNotFound = errors.New("not found")
	// ErrInvalidSignature indicates the webhook payload failed signature verification.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrBadEvent indicates a verified event whose payload is missing required fields.
	ErrBadEvent = errors.New("bad event")
	// ErrDatabase indicates a database-related failure.
	ErrDatabase = errors.New("database error")
	// ErrGateway indicates a failure from the Stripe gateway / API calls.
	ErrGateway = errors.New("gateway error")
)

// Error carries a client-facing message alongside its kind (one of the
// sentinels above) and the underlying cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// Message returns the client-facing text for err.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// classify translates a gateway error into an app error, keeping Stripe's own message.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var se *stripe.Error
	if errors.As(err, &se) {
		msg := se.Msg
		if msg == "" {
			msg = err.Error()
		}
		switch {
		case se.Code == stripe.ErrorCodeResourceMissing:
			return newError(ErrNotFound, msg, err)
		case se.Type == stripe.ErrorTypeInvalidRequest:
			return newError(ErrInvalidRequest, msg, err)
		default:
			return newError(ErrGateway, msg, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newError(ErrGateway, "stripe request timed out", err)
	}
	return newError(ErrGateway, err.Error(), err)
}
