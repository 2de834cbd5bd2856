// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"imagegen-solana-billing/internal/config"
	"imagegen-solana-billing/internal/domain/ports/repository"
	pg "imagegen-solana-billing/internal/infra/db/postgres"
	"imagegen-solana-billing/internal/infra/logging"
	"imagegen-solana-billing/internal/infra/metrics"
	"imagegen-solana-billing/internal/infra/oracle"
	red "imagegen-solana-billing/internal/infra/redis"
	"imagegen-solana-billing/internal/infra/sched"
	sol "imagegen-solana-billing/internal/infra/solana"
	"imagegen-solana-billing/internal/infra/web"
	"imagegen-solana-billing/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Treasury wallet check: absence disables the whole subsystem ----
	if !cfg.PaymentsEnabled() {
		logger.Warn().Msg("no treasury wallet configured; solana payments disabled")
	} else if !sol.ValidWalletAddress(cfg.Solana.TreasuryWallet) {
		log.Fatalf("solana.treasury_wallet is not a valid base58 public key")
	}

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.PoolSize)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// ---- Redis (optional: cache and rate limiting degrade gracefully) ----
	var redisClient red.RedisClient
	var limiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err = red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		limiter = red.NewRateLimiter(redisClient)
	} else {
		logger.Warn().Msg("redis not configured; running without cache and rate limiting")
	}

	// ---- Repositories ----
	intentRepo := pg.NewPaymentIntentRepo(pool)
	catalogRepo := pg.NewCatalogRepo(pool)
	creditRepo := pg.NewCreditLedgerRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	revenueRepo := pg.NewRevenueRepo(pool)
	tm := pg.NewTxManager(pool)

	var catalog repository.CatalogRepository = catalogRepo
	if redisClient != nil {
		catalog = pg.NewCatalogRepoCacheDecorator(catalogRepo, redisClient)
	}

	// ---- Adapters ----
	endpoint := cfg.Solana.RPCURL
	if endpoint == "" {
		endpoint = sol.EndpointFor(cfg.Solana.Cluster)
	}
	chain := sol.NewClient(endpoint)
	priceOracle := oracle.NewCoinGeckoOracle(cfg.Oracle, redisClient, logger)

	// ---- Use cases ----
	creditingUC := usecase.NewCreditingUseCase(creditRepo, subRepo, catalog, logger)
	paymentUC := usecase.NewPaymentUseCase(intentRepo, catalog, revenueRepo, chain, priceOracle, creditingUC, tm, cfg.Solana, logger)

	// ---- Workers ----
	sweeper := sched.NewIntentSweeper(paymentUC, cfg.Sweeper.Interval, cfg.Sweeper.Retention, logger)
	go func() { _ = sweeper.Run(ctx) }()
	expiry := sched.NewExpiryWorker(time.Hour, subRepo, logger)
	go func() { _ = expiry.Run(ctx) }()

	// ---- HTTP ----
	auth := web.NewAuthManager(cfg.API.JWTSecret, 24*time.Hour)
	srv := web.NewServer(paymentUC, creditingUC, auth, limiter, cfg.Solana.TreasuryWallet, cfg.API, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.API.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Shutdown ----
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info().Msg("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}
