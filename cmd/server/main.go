package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tbeaudouin05/stripe-checkout-subscription/api/bootstrap"
	"github.com/tbeaudouin05/stripe-checkout-subscription/api/config"
	"github.com/tbeaudouin05/stripe-checkout-subscription/api/logging"
	"github.com/tbeaudouin05/stripe-checkout-subscription/api/router"
	grpcserver "github.com/tbeaudouin05/stripe-checkout-subscription/api/services/stripe/grpc"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(os.Stdout, logging.ParseLevel(cfg.LogLevel)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	app, err := bootstrap.Init(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	httpSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router.NewRouter(cfg, app.Service),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var health *grpcserver.Server
	var grpcLis net.Listener
	if cfg.GRPCEnabled() {
		grpcLis, err = net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			return err
		}
		health = grpcserver.New()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("http server listening", "addr", httpSrv.Addr, "static_dir", cfg.StaticPath())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if health != nil {
		g.Go(func() error { return health.Serve(grpcLis) })
		health.SetServing(true)
	}
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		if health != nil {
			health.SetServing(false)
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := httpSrv.Shutdown(shutdownCtx)
		if health != nil {
			health.Stop()
		}
		return err
	})
	return g.Wait()
}
