// cmd/marketplace/main.go
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"authorstore/internal/blobstore"
	"authorstore/internal/clients"
	"authorstore/internal/config"
	"authorstore/internal/docstore"
	"authorstore/internal/events"
	"authorstore/internal/folders"
	httpserver "authorstore/internal/http"
	"authorstore/internal/http/ratelimit"
	"authorstore/internal/identity"
	"authorstore/internal/logger"
	"authorstore/internal/session"
	"authorstore/internal/telemetry"
)

func main() {
	cfg, err := config.Load(":8082")
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	lg := logger.New(cfg.LogLevel)
	defer func() { _ = lg.Sync() }()

	if cfg.DB.DSN == "" {
		lg.Fatal("DATABASE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "marketplace", cfg.OTLPEndpoint)
	if err != nil {
		lg.Fatal("telemetry setup failed", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	db, err := docstore.Open(ctx, cfg.DB.DSN)
	if err != nil {
		lg.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	docs := docstore.New(db)
	if err := docs.EnsureSchema(ctx); err != nil {
		lg.Fatal("schema setup failed", zap.Error(err))
	}

	blobs, err := blobstore.New(cfg.Blob.Dir, cfg.Blob.BaseURL)
	if err != nil {
		lg.Fatal("blob store setup failed", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	defer rdb.Close()

	directory := identity.NewRedisDirectory(rdb)
	tracker := identity.NewTracker(directory, cfg.Identity.RoleCacheTTL, lg)

	var sub *identity.Subscription
	if len(cfg.Kafka.Brokers) > 0 {
		sub = tracker.Subscribe(ctx, identity.NewKafkaSource(cfg.Kafka.Brokers, cfg.Kafka.AuthTopic, cfg.Kafka.GroupID))
		defer func() {
			if err := sub.Close(); err != nil {
				lg.Warn("closing auth subscription", zap.Error(err))
			}
		}()
	} else {
		lg.Info("KAFKA_BROKERS not set; cached roles refresh from the directory",
			zap.Duration("ttl", cfg.Identity.RoleCacheTTL))
	}

	store := events.NewStore(events.SampleEvents())
	engine := events.NewEngine(events.MatchExact, language.English)
	browsers := session.NewRegistry("events", cfg.Session.TTL, func(string) *events.Browser {
		return events.NewBrowser(store, engine)
	})
	cities := events.NewCityList(clients.NewCityClient(cfg.Cities.APIURL, cfg.Cities.ResourceID, cfg.Cities.Limit), lg)

	managers := session.NewRegistry("folders", cfg.Session.TTL, func(email string) *folders.Manager {
		return folders.NewManager(email, docs, blobs, lg)
	})
	limiter := ratelimit.NewIPRateLimiter(rate.Limit(5), 10, 5*time.Minute, cfg.TrustedProxies)

	router := httpserver.NewMarketplaceRouter(cfg, httpserver.MarketplaceDeps{
		Browsers:    browsers,
		Cities:      cities,
		Folders:     managers,
		Roles:       tracker,
		RoleSetter:  directory,
		Tracker:     tracker,
		Blobs:       blobs.Handler(),
		BlobBaseURL: cfg.Blob.BaseURL,
		RateLimiter: limiter,
		Ready: func(ctx context.Context) error {
			return errors.Join(db.PingContext(ctx), rdb.Ping(ctx).Err())
		},
		Logger: lg,
	})
	srv := httpserver.NewServer(cfg.ListenAddr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cities.Load(gctx)
		return nil
	})
	g.Go(func() error {
		browsers.Run(gctx)
		return nil
	})
	g.Go(func() error {
		managers.Run(gctx)
		return nil
	})
	g.Go(func() error {
		limiter.Run(gctx)
		return nil
	})
	g.Go(func() error {
		tracker.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return httpserver.Serve(gctx, srv, lg)
	})

	if err := g.Wait(); err != nil {
		lg.Error("marketplace stopped", zap.Error(err))
		return
	}
	lg.Info("server stopped")
}
