package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"vendra/internal/audit"
	"vendra/internal/platform/config"
	"vendra/internal/platform/httpserver"
	"vendra/internal/platform/logger"
	"vendra/internal/platform/metrics"
	"vendra/internal/platform/middleware"
	platformredis "vendra/internal/platform/redis"
	"vendra/internal/token"
	"vendra/internal/vendors"
	vendormetrics "vendra/internal/vendors/metrics"
	"vendra/internal/vendors/readiness"
	"vendra/internal/vendors/service"
	vendorstore "vendra/internal/vendors/store/vendorstore"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		log.Error("store init failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		store = vendorstore.NewCached(store, redisClient.Client, cfg.CacheTTL)
		log.Info("vendor snapshot cache enabled", "ttl", cfg.CacheTTL)
	}

	publishers := audit.Fanout{audit.NewLogPublisher(log)}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPub, err := audit.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Error("kafka audit mirror init failed", "error", err)
			os.Exit(1)
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := kafkaPub.Close(flushCtx); err != nil {
				log.Error("kafka audit mirror flush failed", "error", err)
			}
		}()
		publishers = append(publishers, kafkaPub)
		log.Info("kafka audit mirror enabled", "topic", cfg.Kafka.Topic)
	}

	svc := vendor.NewService(store,
		service.WithLogger(log),
		service.WithMetrics(vendormetrics.New()),
		service.WithAuditPublisher(publishers),
		service.WithEvaluator(readiness.New(cfg.MinDocuments)),
	)

	jwtService := token.NewJWTService(cfg.JWTSigningKey, "vendra", "vendra-admin")
	httpMetrics := metrics.New()

	router := chi.NewRouter()
	router.Use(httpMetrics.Instrument)
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.ClientMetadata)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAuth(token.NewJWTServiceAdapter(jwtService), log))
		vendor.NewHandler(svc, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting vendra", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

// buildStore selects Postgres when DATABASE_URL is set, otherwise the
// in-memory store for local development.
func buildStore(ctx context.Context, cfg config.Server) (vendorstore.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		return vendorstore.NewInMemory(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	store := vendorstore.NewPostgres(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return store, pool.Close, nil
}
