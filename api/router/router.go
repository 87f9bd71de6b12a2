package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/klauspost/compress/gzhttp"

	config "github.com/tbeaudouin05/stripe-checkout-subscription/api/config"
	stripeapp "github.com/tbeaudouin05/stripe-checkout-subscription/api/services/stripe/app"
)

// apiPrefix is stripped by the sample front-end proxy; routes answer with and without it.
const apiPrefix = "/api"

type route struct {
	method  string
	path    string
	handler runtime.HandlerFunc
}

// NewRouter returns the central HTTP router for the API using grpc-gateway's ServeMux.
// Paths that match no route are served from the static assets directory.
func NewRouter(cfg *config.Config, svc stripeapp.Service) http.Handler {
	static := gzhttp.GzipHandler(http.FileServer(http.Dir(cfg.StaticPath())))
	mux := runtime.NewServeMux(runtime.WithRoutingErrorHandler(staticFallback(static)))

	h := &handlers{svc: svc, mux: mux}
	routes := []route{
		{http.MethodGet, "/config", h.getConfig},
		{http.MethodGet, "/checkout-session", h.getCheckoutSession},
		{http.MethodPost, "/create-checkout-session", h.createCheckoutSession},
		{http.MethodPost, "/customer-portal", h.customerPortal},
		{http.MethodPost, "/webhook", h.webhook},
	}
	for _, rt := range routes {
		for _, p := range []string{rt.path, apiPrefix + rt.path} {
			if err := mux.HandlePath(rt.method, p, rt.handler); err != nil {
				slog.Error("failed to register route", "method", rt.method, "path", p, "err", err)
			}
		}
	}

	return RequestID(RequestLogger(Recoverer(mux)))
}

func staticFallback(static http.Handler) runtime.RoutingErrorHandlerFunc {
	return func(ctx context.Context, mux *runtime.ServeMux, m runtime.Marshaler, w http.ResponseWriter, r *http.Request, httpStatus int) {
		if httpStatus == http.StatusNotFound && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
			static.ServeHTTP(w, r)
			return
		}
		runtime.DefaultRoutingErrorHandler(ctx, mux, m, w, r, httpStatus)
	}
}
