package router

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc/codes"

	stripeapp "github.com/tbeaudouin05/stripe-checkout-subscription/api/services/stripe/app"
)

// maxWebhookBodySize caps the Stripe webhook payload (64 KB).
const maxWebhookBodySize = 64 * 1024

// ErrorResponse is the JSON body for failed requests: {"error":{"message":...}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message string `json:"message"`
}

type handlers struct {
	svc stripeapp.Service
	mux *runtime.ServeMux
}

func (h *handlers) getConfig(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	h.writeJSON(w, r, http.StatusOK, h.svc.PublicConfig())
}

func (h *handlers) getCheckoutSession(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	cs, err := h.svc.GetCheckoutSession(r.Context(), r.URL.Query().Get("sessionId"))
	if err != nil {
		h.writeError(w, r, httpStatus(err), err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, cs)
}

// createCheckoutSession answers every failure with 400 and the error.message body.
func (h *handlers) createCheckoutSession(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	req := stripeapp.CheckoutRequest{
		PriceID:    r.FormValue("priceId"),
		CustomerID: r.FormValue("customerId"),
	}
	cs, err := h.svc.CreateCheckoutSession(r.Context(), req)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	seeOther(w, cs.URL)
}

// customerPortal has no bespoke error mapping: failures are 500.
func (h *handlers) customerPortal(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	ps, err := h.svc.CreatePortalSession(r.Context(), r.FormValue("sessionId"))
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	seeOther(w, ps.URL)
}

// webhook: 400 with empty body when the signature does not verify, 200 with
// empty body for every verified event.
func (h *handlers) webhook(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodySize)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		slog.WarnContext(r.Context(), "failed to read webhook body", "err", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	_, err = h.svc.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	switch {
	case errors.Is(err, stripeapp.ErrInvalidSignature):
		w.WriteHeader(http.StatusBadRequest)
	case err != nil:
		slog.ErrorContext(r.Context(), "webhook dispatch failed", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

func seeOther(w http.ResponseWriter, location string) {
	w.Header().Set("Location", location)
	w.WriteHeader(http.StatusSeeOther)
}

func (h *handlers) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	_, outbound := runtime.MarshalerForRequest(h.mux, r)
	body, err := outbound.Marshal(v)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to marshal response", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", outbound.ContentType(v))
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.WarnContext(r.Context(), "failed to write response", "err", err)
	}
}

func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	h.writeJSON(w, r, status, ErrorResponse{Error: ErrorDetail{Message: stripeapp.Message(err)}})
}

// codeFor maps app-layer error kinds onto gRPC codes.
func codeFor(err error) codes.Code {
	switch {
	case errors.Is(err, stripeapp.ErrInvalidRequest), errors.Is(err, stripeapp.ErrInvalidSignature):
		return codes.InvalidArgument
	case errors.Is(err, stripeapp.ErrNotFound):
		return codes.NotFound
	default:
		return codes.Internal
	}
}

func httpStatus(err error) int {
	return runtime.HTTPStatusFromCode(codeFor(err))
}
