package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/savionray/content-lab/pkg/audit"
	"github.com/savionray/content-lab/pkg/auth"
	"github.com/savionray/content-lab/pkg/config"
	"github.com/savionray/content-lab/pkg/httputil"
	"github.com/savionray/content-lab/pkg/observability"
	"github.com/savionray/content-lab/pkg/orgs"
	"github.com/savionray/content-lab/pkg/pipeline"
	"github.com/savionray/content-lab/pkg/ratelimit"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

	registry := prometheus.NewRegistry()
	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(registry)
	}

	// Redis backs sessions and shared rate limit counters when configured;
	// otherwise everything runs in-process (development only).
	var redisClient *redis.Client
	if cfg.Storage.RedisURL != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.RedisURL,
			Password: cfg.Storage.RedisPassword,
			DB:       cfg.Storage.RedisDB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.WithError(err).Error("redis ping failed")
			os.Exit(1)
		}
	}

	var db *sql.DB
	if cfg.Storage.PostgresURL != "" {
		db, err = sql.Open("postgres", cfg.Storage.PostgresURL)
		if err != nil {
			log.WithError(err).Error("failed to open postgres connection")
			os.Exit(1)
		}
		if err := db.Ping(); err != nil {
			log.WithError(err).Error("postgres ping failed")
			os.Exit(1)
		}
	}

	// Rate limiting
	var rateStore ratelimit.Store
	if redisClient != nil {
		rateStore = ratelimit.NewRedisStore(redisClient, "")
	} else {
		log.Warn("no redis configured, rate limits are per-instance")
		rateStore = ratelimit.NewMemoryStore(0)
	}
	limiter := ratelimit.NewLimiter(rateStore, cfg.Security.RateLimitFailOpen)

	// Sessions
	var sessions auth.SessionStore
	if redisClient != nil {
		sessions = auth.NewRedisSessionStore(redisClient, "")
	} else {
		log.Warn("no redis configured, sessions are per-instance")
		sessions = auth.NewMemorySessionStore()
	}
	gate := auth.NewGate(sessions)

	// Memberships
	var memberships orgs.MembershipStore
	if db != nil {
		memberships = orgs.NewPostgresMembershipStore(db)
	} else {
		log.Warn("no postgres configured, memberships are in-memory")
		memberships = orgs.NewMemoryMembershipStore()
	}
	resolver := orgs.NewResolver(memberships)

	// Audit trail: durable Postgres sink behind a bounded async queue, with
	// the structured log as the non-fatal fallback path.
	var durable audit.Logger
	if db != nil {
		durable, err = audit.NewDBLogger(db)
		if err != nil {
			log.WithError(err).Error("failed to initialize audit store")
			os.Exit(1)
		}
	} else {
		log.Warn("no postgres configured, audit events go to the log sink only")
	}
	tiered := audit.NewTieredLogger(durable, log, metrics)
	auditor := audit.NewQueuedLogger(tiered, cfg.Security.AuditQueueSize, log, metrics)
	defer auditor.Close()

	orch := pipeline.NewOrchestrator(limiter, gate, resolver, auditor, log, metrics)
	orch.SetDefaultRateLimit(cfg.Security.RateLimit)

	router := mux.NewRouter()
	registerRoutes(router, orch, cfg)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteSuccess(w, map[string]string{"status": "ok"})
	})
	if cfg.Observability.MetricsEnabled {
		router.Handle("/metrics", observability.Handler(registry))
	}

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("content-lab API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("server failed")
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
