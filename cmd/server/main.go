package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gleamstack/beautysearch/internal/analytics"
	"github.com/gleamstack/beautysearch/internal/catalog/snapshot"
	"github.com/gleamstack/beautysearch/internal/index"
	"github.com/gleamstack/beautysearch/internal/search"
	"github.com/gleamstack/beautysearch/internal/search/cache"
	"github.com/gleamstack/beautysearch/internal/server"
	"github.com/gleamstack/beautysearch/internal/stats"
	"github.com/gleamstack/beautysearch/pkg/config"
	"github.com/gleamstack/beautysearch/pkg/health"
	"github.com/gleamstack/beautysearch/pkg/kafka"
	"github.com/gleamstack/beautysearch/pkg/logger"
	"github.com/gleamstack/beautysearch/pkg/metrics"
	"github.com/gleamstack/beautysearch/pkg/postgres"
	pkgredis "github.com/gleamstack/beautysearch/pkg/redis"
	"github.com/gleamstack/beautysearch/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting beautysearch", "port", cfg.Server.Port, "snapshot_source", cfg.Snapshot.Source)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if cfg.Metrics.Enabled {
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownMetrics(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}()
	}

	var pgClient *postgres.Client
	if cfg.Postgres.Enabled {
		err := resilience.Retry(ctx, "postgres", resilience.RetryConfig{}, func() error {
			var connErr error
			pgClient, connErr = postgres.New(cfg.Postgres)
			return connErr
		})
		if err != nil {
			slog.Error("postgres unavailable", "error", err)
			os.Exit(1)
		}
		defer pgClient.Close()
	}

	loader, err := buildLoader(cfg, pgClient)
	if err != nil {
		slog.Error("invalid snapshot configuration", "error", err)
		os.Exit(1)
	}

	engine := search.New(search.Options{
		Index: index.Config{
			MaxFeatures:     cfg.Index.MaxFeatures,
			MinDocFreq:      cfg.Index.MinDocFreq,
			MaxDocFreqRatio: cfg.Index.MaxDocFreqRatio,
		},
		Trending: stats.TrendingOptions{
			MinRating:      cfg.Trending.MinRating,
			MinReviewCount: cfg.Trending.MinReviewCount,
			Limit:          cfg.Trending.Limit,
		},
	})

	buildStart := time.Now()
	snap, err := loader.Load(ctx)
	if err != nil {
		slog.Error("snapshot load failed", "error", err)
		os.Exit(1)
	}
	if err := engine.Build(snap.Products, snap.Reviews); err != nil {
		slog.Error("engine build failed", "error", err)
		os.Exit(1)
	}
	m.BuildDuration.Set(time.Since(buildStart).Seconds())
	m.CatalogProducts.Set(float64(engine.CatalogSize()))
	m.VocabularyTerms.Set(float64(engine.VocabSize()))

	var queryCache *cache.QueryCache
	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, search caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			queryCache = cache.New(redisClient, cfg.Redis)
			slog.Info("search cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}

	var collector *analytics.Collector
	var analyticsHandler *analytics.Handler
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.EventsTopic)
		defer producer.Close()
		collector = analytics.NewCollector(producer, cfg.Analytics.BufferSize)
		collector.Start(ctx)
		defer collector.Close()

		aggregator := analytics.NewAggregator(nil)
		consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.EventsTopic, analytics.HandleEvent(aggregator))
		aggregator.SetConsumer(consumer)
		analyticsHandler = analytics.NewHandler(aggregator)

		go func() {
			if err := aggregator.Start(ctx); err != nil && ctx.Err() == nil {
				slog.Error("analytics aggregator error", "error", err)
			}
		}()
		slog.Info("analytics pipeline started", "topic", cfg.Kafka.EventsTopic)

		if pgClient != nil {
			store := analytics.NewStore(pgClient)
			store.StartPeriodicSave(ctx, aggregator, cfg.Analytics.SnapshotInterval)
		}
	}

	checker := health.NewChecker()
	checker.Register("search_engine", func(ctx context.Context) health.ComponentHealth {
		if engine.Ready() {
			return health.ComponentHealth{
				Status:  health.StatusUp,
				Message: fmt.Sprintf("%d products indexed", engine.CatalogSize()),
			}
		}
		return health.ComponentHealth{Status: health.StatusDown, Message: "catalog not built"}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	h := server.New(engine, queryCache, collector, m, cfg.Search)
	router := server.NewRouter(h, analyticsHandler, checker, m)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("beautysearch listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("beautysearch stopped")
}

func buildLoader(cfg *config.Config, pgClient *postgres.Client) (snapshot.Loader, error) {
	switch cfg.Snapshot.Source {
	case "csv":
		return snapshot.NewCSVLoader(cfg.Snapshot.ProductsPath, cfg.Snapshot.ReviewsGlob), nil
	case "postgres":
		if pgClient == nil {
			return nil, fmt.Errorf("snapshot.source is postgres but postgres is not enabled")
		}
		return snapshot.NewPostgresLoader(pgClient), nil
	default:
		return nil, fmt.Errorf("unknown snapshot source %q", cfg.Snapshot.Source)
	}
}
