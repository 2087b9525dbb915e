package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"wallet-transaction-api/config"
	httpHandler "wallet-transaction-api/internal/adapter/http/handler"
	"wallet-transaction-api/internal/adapter/storage/memory"
	pgStorage "wallet-transaction-api/internal/adapter/storage/postgres"
	redisStorage "wallet-transaction-api/internal/adapter/storage/redis"
	"wallet-transaction-api/internal/core/ports"
	"wallet-transaction-api/internal/service"
	"wallet-transaction-api/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Str("driver", cfg.Database.Driver).
		Int("port", cfg.Server.Port).
		Msg("Starting wallet transaction API")

	ctx := context.Background()

	var (
		walletRepo ports.WalletRepository
		txRepo     ports.TransactionRepository
		transactor ports.DBTransactor
		checkers   []ports.HealthChecker
	)

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		log.Info().Msg("PostgreSQL connected")

		if cfg.Database.AutoMigrate {
			if err := pgStorage.Migrate(ctx, pool, log); err != nil {
				log.Fatal().Err(err).Msg("Failed to apply schema")
			}
		}

		walletRepo = pgStorage.NewWalletRepo(pool)
		txRepo = pgStorage.NewTransactionRepo(pool)
		transactor = pgStorage.NewTransactor(pool)
		checkers = append(checkers, pgStorage.NewHealthCheck(pool))
	case config.DriverMemory:
		store := memory.NewStore()
		walletRepo = memory.NewWalletRepo(store)
		txRepo = memory.NewTransactionRepo(store)
		transactor = store
		log.Warn().Msg("Using in-memory storage, data is lost on exit")
	}

	var (
		balanceCache   ports.BalanceCache
		responseCache  ports.ResponseCache
		rateLimitStore ports.RateLimitStore
	)

	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		log.Info().Msg("Redis connected")

		balanceCache = redisStorage.NewBalanceCache(rdb)
		responseCache = redisStorage.NewResponseCache(rdb)
		if cfg.RateLimit.Enabled {
			rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		}
		checkers = append(checkers, redisStorage.NewHealthCheck(rdb))
	} else {
		balanceCache = memory.NewBalanceCache()
		responseCache = memory.NewResponseCache()
		log.Warn().Msg("Redis disabled, caching in process and rate limiting off")
	}

	walletSvc := service.NewWalletService(walletRepo, transactor, balanceCache, cfg.Cache.BalanceTTL, log)
	ledgerSvc := service.NewLedgerService(txRepo, walletRepo, transactor, balanceCache, cfg.Ledger.ReverseOnDelete, log)

	var tokenSvc ports.TokenService
	if cfg.AuthEnabled() {
		tokenSvc = service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	} else {
		log.Warn().Msg("jwt.secret not set, write routes are public")
	}

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		WalletSvc:      walletSvc,
		LedgerSvc:      ledgerSvc,
		TokenSvc:       tokenSvc,
		ResponseCache:  responseCache,
		ListCacheTTL:   cfg.Cache.ListTTL,
		RateLimitStore: rateLimitStore,
		RateLimits: httpHandler.RateLimits{
			Read:   cfg.RateLimit.ReadLimit,
			Write:  cfg.RateLimit.WriteLimit,
			Window: cfg.RateLimit.Window,
		},
		Pagination: httpHandler.Pagination{
			PageSize:    cfg.Pagination.PageSize,
			MaxPageSize: cfg.Pagination.MaxPageSize,
		},
		HealthCheckers: checkers,
		Mode:           cfg.Server.Mode,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
