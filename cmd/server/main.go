package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	_ "github.com/jackc/pgx/v5/stdlib"

	"rollbook/internal/eventlog"
	eventlogkafka "rollbook/internal/eventlog/kafka"
	eventlogmemory "rollbook/internal/eventlog/memory"
	jwttoken "rollbook/internal/jwt_token"
	"rollbook/internal/member"
	membermetrics "rollbook/internal/member/metrics"
	memberservice "rollbook/internal/member/service"
	membercache "rollbook/internal/member/store/cache"
	membermemory "rollbook/internal/member/store/memory"
	memberpostgres "rollbook/internal/member/store/postgres"
	"rollbook/internal/platform/config"
	"rollbook/internal/platform/httpserver"
	"rollbook/internal/platform/ledger"
	"rollbook/internal/platform/logger"
	"rollbook/internal/platform/metrics"
	"rollbook/internal/platform/middleware"
	platformredis "rollbook/internal/platform/redis"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, storeTx, cleanup, err := buildStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	events, closeEvents, err := buildEventLog(cfg, log)
	if err != nil {
		return err
	}
	defer closeEvents()

	chain := ledger.NewCounter(cfg.Chain.GenesisHeight)

	svcOpts := []memberservice.Option{
		memberservice.WithLogger(log),
		memberservice.WithMetrics(membermetrics.New()),
		memberservice.WithBounds(memberservice.Bounds{
			MaxFirstNameLen: cfg.Limits.MaxFirstNameLen,
			MaxLastNameLen:  cfg.Limits.MaxLastNameLen,
			MaxEmailLen:     cfg.Limits.MaxEmailLen,
			MaxAddressLen:   cfg.Limits.MaxAddressLen,
			MaxMobileLen:    cfg.Limits.MaxMobileLen,
		}),
	}
	if storeTx != nil {
		svcOpts = append(svcOpts, memberservice.WithStoreTx(storeTx))
	}
	svc := member.NewService(store, events, chain, svcOpts...)
	h := member.NewHandler(svc, log)

	jwtService := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience)
	router := newRouter(cfg, log, h, jwttoken.NewJWTServiceAdapter(jwtService))

	srv := httpserver.New(cfg.Server.Addr, router)
	log.Info("starting rollbook", "addr", cfg.Server.Addr)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// buildStore selects the postgres-backed store when a DSN is configured,
// wrapping it with the redis cache when one is available; otherwise the
// in-memory store serves everything.
func buildStore(ctx context.Context, cfg config.Config, log *slog.Logger) (memberservice.MemberStore, memberservice.StoreTx, func(), error) {
	cleanup := func() {}

	if cfg.Postgres.DSN == "" {
		log.Info("using in-memory member store")
		return membermemory.New(), nil, cleanup, nil
	}

	db, err := sql.Open("pgx", cfg.Postgres.DSN)
	if err != nil {
		return nil, nil, cleanup, err
	}
	pg := memberpostgres.New(db)
	if err := pg.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, cleanup, err
	}

	var store memberservice.MemberStore = pg
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		db.Close()
		return nil, nil, cleanup, err
	}
	if redisClient != nil {
		store = membercache.New(pg, redisClient.Client, membercache.WithTTL(cfg.Redis.CacheTTL))
	}

	cleanup = func() {
		if redisClient != nil {
			redisClient.Close()
		}
		db.Close()
	}
	return store, memberpostgres.NewTxRunner(db), cleanup, nil
}

// buildEventLog always includes the in-process sink; the kafka sink joins
// when brokers are configured. Sink failures abort the operation, so an
// unreachable broker fails loud rather than dropping notifications.
func buildEventLog(cfg config.Config, log *slog.Logger) (*eventlog.Log, func(), error) {
	sinks := []eventlog.Sink{eventlogmemory.NewSink()}
	closeEvents := func() {}

	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := eventlogkafka.NewSink(cfg.Kafka.Brokers,
			eventlogkafka.WithTopic(cfg.Kafka.Topic),
			eventlogkafka.WithLogger(log),
		)
		if err != nil {
			return nil, closeEvents, err
		}
		sinks = append(sinks, kafkaSink)
		closeEvents = kafkaSink.Close
	}
	return eventlog.NewLog(sinks...), closeEvents, nil
}

func newRouter(cfg config.Config, log *slog.Logger, h *member.Handler, validator middleware.JWTValidator) http.Handler {
	httpMetrics := metrics.New()

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(log))
	r.Use(httpMetrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Group(func(signed chi.Router) {
			signed.Use(middleware.RequireAuth(validator, log))
			h.Register(signed)
		})
		v1.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.RequireAdminToken(cfg.Server.AdminToken, log))
			h.RegisterAdmin(admin)
		})
	})
	return r
}
