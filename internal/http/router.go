package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"authorstore/internal/catalog"
	"authorstore/internal/checkout"
	"authorstore/internal/config"
	"authorstore/internal/events"
	"authorstore/internal/folders"
	"authorstore/internal/http/ratelimit"
	"authorstore/internal/identity"
	"authorstore/internal/metrics"
	"authorstore/internal/session"
	"authorstore/internal/storefront"
)

// newBaseRouter installs the middleware and health endpoints shared by every service.
func newBaseRouter(cfg *config.Config, ready func(context.Context) error) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := ready(ctx); err != nil {
				http.Error(w, "unready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.PrometheusEnabled {
		r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			metrics.Handler().ServeHTTP(w, r)
		})
	}
	return r
}

// StorefrontDeps are the collaborators of the storefront service.
type StorefrontDeps struct {
	Catalog     catalog.Service
	Sessions    *session.Registry[*storefront.Session]
	Relay       checkout.Relay
	RateLimiter *ratelimit.IPRateLimiter
	Logger      *zap.Logger
}

// NewStorefrontRouter wires the catalog and purchase flow routes.
func NewStorefrontRouter(cfg *config.Config, deps StorefrontDeps) http.Handler {
	r := newBaseRouter(cfg, nil)

	catalog.NewHandler(deps.Catalog, deps.Logger).Register(r)

	var limit func(http.Handler) http.Handler
	if deps.RateLimiter != nil {
		limit = deps.RateLimiter.Middleware()
	}
	storefront.NewHandler(deps.Catalog, deps.Sessions, deps.Relay, limit, deps.Logger).Register(r)
	return r
}

// MarketplaceDeps are the collaborators of the marketplace service.
type MarketplaceDeps struct {
	Browsers    *session.Registry[*events.Browser]
	Cities      *events.CityList
	Folders     *session.Registry[*folders.Manager]
	Roles       identity.Resolver
	RoleSetter  identity.RoleSetter
	Tracker     *identity.Tracker
	Blobs       http.Handler
	BlobBaseURL string
	RateLimiter *ratelimit.IPRateLimiter
	Ready       func(context.Context) error
	Logger      *zap.Logger
}

// NewMarketplaceRouter wires event browsing, onboarding and the
// photographer-only folder manager.
func NewMarketplaceRouter(cfg *config.Config, deps MarketplaceDeps) http.Handler {
	r := newBaseRouter(cfg, deps.Ready)

	r.HandleFunc(identity.OnboardingPath, identity.OnboardingHandler(deps.RoleSetter, deps.Tracker))

	r.Group(func(r chi.Router) {
		r.Use(identity.Gate(deps.Roles, deps.Logger))

		r.Get("/me", identity.HandleMe)
		// Uploaded files are readable by any signed-in user with a role.
		if deps.Blobs != nil {
			r.Handle(deps.BlobBaseURL+"/*", deps.Blobs)
		}
		events.NewHandler(deps.Browsers, deps.Cities, deps.Logger).Register(r)

		r.Group(func(r chi.Router) {
			r.Use(identity.RequireRole(identity.RolePhotographer))
			if deps.RateLimiter != nil {
				r.Use(deps.RateLimiter.Middleware())
			}
			folders.NewHandler(deps.Folders, deps.Logger).Register(r)
		})
	})
	return r
}

// Serve runs srv until ctx is cancelled, then shuts it down gracefully.
func Serve(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// NewServer applies the timeouts used by all services.
func NewServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
