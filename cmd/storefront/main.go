// cmd/storefront/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"authorstore/internal/catalog"
	"authorstore/internal/checkout"
	"authorstore/internal/clients"
	"authorstore/internal/config"
	httpserver "authorstore/internal/http"
	"authorstore/internal/http/ratelimit"
	"authorstore/internal/logger"
	"authorstore/internal/session"
	"authorstore/internal/storefront"
	"authorstore/internal/telemetry"
)

func main() {
	cfg, err := config.Load(":8081")
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	lg := logger.New(cfg.LogLevel)
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "storefront", cfg.OTLPEndpoint)
	if err != nil {
		lg.Fatal("telemetry setup failed", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	var relay checkout.Relay
	switch cfg.Relay.Mode {
	case "kafka":
		kr := clients.NewKafkaRelay(cfg.Kafka.Brokers, cfg.Relay.Topic)
		defer kr.Close()
		relay = kr
	default:
		hr, err := clients.NewRelayClient(cfg.Relay.URL, cfg.Relay.Timeout, lg)
		if err != nil {
			lg.Fatal("relay client setup failed", zap.Error(err))
		}
		relay = hr
	}

	sessions := session.NewRegistry("storefront", cfg.Session.TTL, func(string) *storefront.Session {
		return storefront.NewSession()
	})
	limiter := ratelimit.NewIPRateLimiter(rate.Limit(1), 5, 5*time.Minute, cfg.TrustedProxies)

	router := httpserver.NewStorefrontRouter(cfg, httpserver.StorefrontDeps{
		Catalog:     catalog.NewDefaultService(lg),
		Sessions:    sessions,
		Relay:       relay,
		RateLimiter: limiter,
		Logger:      lg,
	})
	srv := httpserver.NewServer(cfg.ListenAddr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sessions.Run(gctx)
		return nil
	})
	g.Go(func() error {
		limiter.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return httpserver.Serve(gctx, srv, lg)
	})

	if err := g.Wait(); err != nil {
		lg.Error("storefront stopped", zap.Error(err))
		return
	}
	lg.Info("server stopped")
}
