package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Simplici0/fabrica/internal/catalog"
	"github.com/Simplici0/fabrica/internal/config"
	"github.com/Simplici0/fabrica/internal/db"
	"github.com/Simplici0/fabrica/internal/design"
	"github.com/Simplici0/fabrica/internal/migrations"
	"github.com/Simplici0/fabrica/internal/pricing"
	"github.com/Simplici0/fabrica/internal/seed"
)

func main() {
	cfg := config.Load()
	logger := cfg.Logger()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(ctx, database.DB, cfg.DBDriver); err != nil {
			return err
		}
		stats, err := seed.Run(ctx, database)
		if err != nil {
			return err
		}
		logger.Info("seed complete", "inserts", stats.Inserts)
	}

	cache, closeCache, err := factorCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	srv := newServer(database, cache, cfg.PricingCacheTTL, cfg.AdminToken, logger)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", httpServer.Addr, "env", cfg.Env, "db_driver", cfg.DBDriver)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// factorCache picks the shared Redis cache when REDIS_ADDR is set and the
// in-process cache otherwise.
func factorCache(ctx context.Context, cfg config.Config) (pricing.FactorCache, func(), error) {
	if cfg.RedisAddr == "" {
		return pricing.NewMemoryCache(), func() {}, nil
	}

	client, err := pricing.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	return pricing.NewRedisCache(client, pricing.DefaultRedisKey), func() { client.Close() }, nil
}

type server struct {
	db         *sqlx.DB
	store      *catalog.Store
	factors    *pricing.Factors
	estimator  *pricing.Estimator
	ranker     *pricing.Ranker
	quoter     *design.Quoter
	adminToken string
	log        *slog.Logger
}

func newServer(database *sqlx.DB, cache pricing.FactorCache, ttl time.Duration, adminToken string, logger *slog.Logger) *server {
	store := catalog.NewStore(database)
	factors := pricing.NewFactors(store, cache, ttl, logger)
	estimator := pricing.NewEstimator(store, factors, logger)
	ranker := pricing.NewRanker(store, estimator, logger)

	return &server{
		db:         database,
		store:      store,
		factors:    factors,
		estimator:  estimator,
		ranker:     ranker,
		quoter:     design.NewQuoter(ranker, estimator, logger),
		adminToken: adminToken,
		log:        logger,
	}
}
