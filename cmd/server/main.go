package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mobility-route-service/internal/adapters/cache"
	"mobility-route-service/internal/adapters/tomtom"
	"mobility-route-service/internal/api"
	"mobility-route-service/internal/config"
	"mobility-route-service/internal/domain"
	"mobility-route-service/internal/platform/db"
	"mobility-route-service/internal/platform/logger"
	"mobility-route-service/internal/ports"
	"mobility-route-service/internal/services"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// main is the application composition root.
// It wires concrete adapters (TomTom, Postgres, Redis) behind ports and starts the HTTP server.
func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppEnv, "server")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if envErr != nil {
		log.Info("no .env file found, using environment variables")
	}
	if cfg.TomTomAPIKey == "" {
		log.Fatal("TOMTOM_API_KEY is required")
	}
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	var geocodeCache ports.GeocodeCache
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer closeDB(conn, log)
		geocodeCache = cache.NewSQLGeocodeCache(conn, log)
	}

	poiCache, closeCache, err := newPOICache(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer closeCache()

	client, err := tomtom.NewClient(tomtom.Options{
		APIKey:       cfg.TomTomAPIKey,
		BaseURL:      cfg.TomTomBaseURL,
		Timeout:      cfg.ProviderTimeout,
		MaxAttempts:  cfg.ProviderMaxAttempts,
		CountrySet:   cfg.GeocodeCountrySet,
		GeocodeCache: geocodeCache,
		POICache:     poiCache,
		Logger:       log.Named("tomtom"),
	})
	if err != nil {
		log.Fatal("failed to create tomtom client", zap.Error(err))
	}

	rates := domain.Rates{CostPerKm: cfg.CostPerKm, CO2PerKm: cfg.CO2PerKm}
	routes := services.NewRouteService(client, services.NewNormalizer(client), rates, log.Named("routes"))
	insights := services.NewAreaInsightsService(client, client, client, log.Named("insights"))

	router := api.NewRouter(api.Deps{
		Routes:      routes,
		Insights:    insights,
		CORSOrigins: cfg.CORSOrigins,
		Log:         log.Named("http"),
	})

	// Timeouts leave room for three sequential provider attempts on a cold cache.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

// newPOICache prefers Redis when REDIS_URL is set so cached searches are
// shared between instances; otherwise entries live in a bounded in-process map.
func newPOICache(ctx context.Context, cfg *config.Config, log *zap.Logger) (ports.POICache, func(), error) {
	if cfg.RedisURL == "" {
		log.Info("using in-memory poi cache", zap.Duration("ttl", cfg.POICacheTTL))
		return cache.NewMemoryPOICache(cfg.POICacheTTL, 0), func() {}, nil
	}

	rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info("using redis poi cache", zap.Duration("ttl", cfg.POICacheTTL))
	return cache.NewRedisPOICache(rdb, cfg.POICacheTTL), func() { _ = rdb.Close() }, nil
}

func closeDB(conn *sql.DB, log *zap.Logger) {
	if err := conn.Close(); err != nil {
		log.Warn("close database", zap.Error(err))
	}
}
