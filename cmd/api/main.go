package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"luxeprompt/internal/adapter/repo"
	"luxeprompt/internal/cache"
	"luxeprompt/internal/generation"
	"luxeprompt/internal/http/handlers"
	"luxeprompt/internal/http/httpapi"
	"luxeprompt/internal/infra"
	"luxeprompt/internal/infra/geoip"
	"luxeprompt/internal/middleware"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "api")

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()
	runner := infra.NewSQLRunner(dbpool, logger)

	var store cache.Store = cache.NewMemoryStore(nil)
	redisClient, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	if redisClient != nil {
		defer redisClient.Close()
		store = cache.NewRedisStore(redisClient)
		logger.Info().Msg("balance cache backed by redis")
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer resolver.Close()
	var lookup middleware.CountryLookup
	if resolver != nil {
		lookup = resolver.CountryCode
	}

	refiner, err := newRefiner(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("provider", cfg.RefineProvider).Msg("failed to build refiner")
	}

	credits := cache.NewBalances(repo.NewCreditRepository(runner, cfg.DefaultCredits), store, cfg.BalanceCacheTTL, logger)
	svc := generation.NewService(generation.Options{
		Credits:       credits,
		Usage:         repo.NewUsageRepository(runner),
		SystemPrompts: repo.NewSystemPromptRepository(runner),
		Refiner:       refiner,
		Logger:        logger,
		RefineTimeout: cfg.RefineTimeout,
		BonusCredits:  cfg.FirstBonusCredits,
	})

	router := httpapi.NewRouter(handlers.NewApp(svc, logger), httpapi.Options{
		Logger:          logger,
		JWTSecret:       cfg.JWTSecret,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		DefaultLocale:   "en",
		CountryLookup:   lookup,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Str("refiner", cfg.RefineProvider).Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
