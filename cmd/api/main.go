// cmd/api/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"authorstore/internal/config"
	httpserver "authorstore/internal/http"
	"authorstore/internal/identity"
	"authorstore/internal/logger"
	"authorstore/internal/metrics"
)

func main() {
	cfg, err := config.Load(":8080")
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	lg := logger.New(cfg.LogLevel)
	defer func() { _ = lg.Sync() }()

	router, err := newRouter(cfg, lg)
	if err != nil {
		lg.Fatal("gateway setup failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := httpserver.Serve(ctx, httpserver.NewServer(cfg.ListenAddr, router), lg); err != nil {
		lg.Fatal("gateway stopped", zap.Error(err))
	}
	lg.Info("server stopped")
}

// newRouter maps the public prefixes onto the services. Paths the
// marketplace hands out as absolute (the onboarding redirect and blob URLs)
// are forwarded unchanged.
func newRouter(cfg *config.Config, lg *zap.Logger) (http.Handler, error) {
	storefrontProxy, err := newProxy(cfg.Gateway.StorefrontURL, lg)
	if err != nil {
		return nil, fmt.Errorf("storefront upstream: %w", err)
	}
	marketplaceProxy, err := newProxy(cfg.Gateway.MarketplaceURL, lg)
	if err != nil {
		return nil, fmt.Errorf("marketplace upstream: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.PrometheusEnabled {
		r.Handle("/metrics", metrics.Handler())
	}

	r.Handle("/api/v1/storefront/*", http.StripPrefix("/api/v1/storefront", storefrontProxy))
	r.Handle("/api/v1/marketplace/*", http.StripPrefix("/api/v1/marketplace", marketplaceProxy))

	r.Handle(identity.OnboardingPath, marketplaceProxy)
	if cfg.Blob.BaseURL != "" {
		r.Handle(cfg.Blob.BaseURL+"/*", marketplaceProxy)
	}
	return r, nil
}

func newProxy(raw string, lg *zap.Logger) (*httputil.ReverseProxy, error) {
	target, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", raw, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("upstream %q must be an absolute URL", raw)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		lg.Error("upstream unavailable",
			zap.String("upstream", target.Host),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		metrics.OperationErrorsTotal.WithLabelValues("proxy").Inc()
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
	}
	return proxy, nil
}
