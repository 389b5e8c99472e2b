package main

import (
	"context"
	"fmt"
	"mobility-route-service/internal/adapters/repositories"
	"mobility-route-service/internal/adapters/tomtom"
	"mobility-route-service/internal/config"
	"mobility-route-service/internal/domain"
	"mobility-route-service/internal/events"
	"mobility-route-service/internal/platform/db"
	"mobility-route-service/internal/platform/logger"
	"mobility-route-service/internal/ports"
	"mobility-route-service/internal/services"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// collector samples traffic flow at a fixed set of locations on an interval
// and hands every batch to Postgres and/or Kafka.
func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppEnv, "collector")
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := tomtom.NewClient(tomtom.Options{
		APIKey:      cfg.TomTomAPIKey,
		BaseURL:     cfg.TomTomBaseURL,
		Timeout:     cfg.ProviderTimeout,
		MaxAttempts: cfg.ProviderMaxAttempts,
		Logger:      log.Named("tomtom"),
	})
	if err != nil {
		log.Fatal("failed to create tomtom client", zap.Error(err))
	}

	var sinks []ports.TrafficRecordSink
	locations := services.DelhiLocations()

	if cfg.DatabaseURL != "" {
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer conn.Close()

		repo := repositories.NewPostgresTrafficRepository(conn, log.Named("repo"))
		sinks = append(sinks, repo)
		locations = storedLocations(ctx, repo, locations, log)
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewSnapshotPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log.Named("kafka"))
		defer func() { _ = publisher.Close() }()
		sinks = append(sinks, publisher)
	}

	if len(sinks) == 0 {
		log.Warn("no DATABASE_URL or KAFKA_BROKERS configured, collected samples will not be stored")
	}

	collector := services.NewTrafficCollector(client, log, sinks...)

	log.Info("collector starting",
		zap.Int("locations", len(locations)),
		zap.Int("sinks", len(sinks)),
		zap.Duration("interval", cfg.CollectInterval),
	)
	if err := collector.Run(ctx, locations, cfg.CollectInterval); err != nil {
		log.Fatal("collector stopped", zap.Error(err))
	}
	log.Info("collector stopped")
}

// storedLocations prefers the seeded collection_locations table and falls
// back to the built-in list when it is empty or unreadable.
func storedLocations(ctx context.Context, repo *repositories.PostgresTrafficRepository, fallback []domain.NamedLocation, log *zap.Logger) []domain.NamedLocation {
	locs, err := repo.ListLocations(ctx)
	if err != nil {
		log.Warn("list stored locations, using built-in list", zap.Error(err))
		return fallback
	}
	if len(locs) == 0 {
		return fallback
	}
	return locs
}
