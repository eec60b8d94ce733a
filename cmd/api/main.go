package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-catalog/config"
	"storefront-catalog/internal/delivery/http/middleware"
	v1 "storefront-catalog/internal/delivery/http/v1"
	"storefront-catalog/internal/infrastructure/cache"
	"storefront-catalog/internal/infrastructure/dummyjson"
	"storefront-catalog/internal/usecase"
	"storefront-catalog/pkg/logger"
	"storefront-catalog/pkg/utils"

	"github.com/NYTimes/gziphandler"
	"golang.org/x/time/rate"
)

const (
	serviceName    = "storefront-catalog"
	serviceVersion = "1.0.0"
)

func main() {
	cfg := config.LoadConfig()

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	// Initialize Cache (In-Memory)
	// Catalog entries carry their own TTLs; sessions live in a separate store
	// so flushing one never drops the other.
	catalogCache := cache.NewMemoryCache(cfg.CacheCatalogTTL, 10*time.Minute)
	sessionStore := cache.NewMemoryCache(cfg.SessionTTL, time.Minute)

	// Remote store: catalog, accounts and admin APIs
	source := dummyjson.NewClient(
		cfg.CatalogAPIURL,
		cfg.CatalogHTTPTimeout,
		rate.Limit(cfg.CatalogRateLimit),
		cfg.CatalogRateBurst,
	)

	// --- Modules Initialization ---
	catalogUC := usecase.NewCatalogUsecase(source, catalogCache, cfg)
	sessionUC := usecase.NewSessionUsecase(catalogUC, sessionStore, utils.NewTokenSigner(cfg.SessionSecret), cfg.SessionTTL, cfg.MaxCartQuantity)
	cartUC := usecase.NewCartUsecase(catalogUC)
	authUC := usecase.NewAuthUsecase(source, cfg.AuthExpiresInMins)
	adminUC := usecase.NewAdminUsecase(source, source, catalogCache, cfg.AdminPageSize)

	if cfg.PrefetchCatalog {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.CatalogHTTPTimeout)
			defer cancel()
			start := time.Now()
			if err := catalogUC.WarmCatalog(ctx); err != nil {
				log.Warn().Err(err).Msg("Catalog prefetch failed, local fallbacks start empty")
				return
			}
			log.Info().Dur("duration_ms", time.Since(start)).Msg("Catalog prefetched")
		}()
	}

	mux := v1.NewRouter(cfg, catalogUC, sessionUC, cartUC, authUC, adminUC)

	// Initialize Rate Limiter with lifecycle management
	rateLimiter := middleware.NewRateLimiterFromConfig(context.Background(), cfg)

	// Apply CORS (with config injection), Request Logger, Rate Limit, and Gzip
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	srv := newServer(fmt.Sprintf(":%s", cfg.Port), cfg, handler, sessionUC)

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.ServiceStart(serviceName, serviceVersion, cfg.Port)

	// Wait for interrupt signal via channel
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.ServiceStop(serviceName)
}
