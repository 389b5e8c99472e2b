package main

import (
	"context"
	"database/sql"
	"fmt"
	"mobility-route-service/internal/adapters/repositories"
	"mobility-route-service/internal/config"
	"mobility-route-service/internal/platform/db"
	"mobility-route-service/internal/platform/logger"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// dbtool creates the Postgres tables and seeds the collector's locations.
func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppEnv, "dbtool")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if envErr != nil {
		log.Info("no .env file found, using environment variables")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/locations.json")
	if err := initAndSeed(ctx, conn, seedPath, log); err != nil {
		log.Fatal("database setup failed", zap.Error(err))
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string, log *zap.Logger) error {
	log.Info("initializing database schema")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	log.Info("schema ready")

	log.Info("seeding collection locations", zap.String("path", seedPath))
	n, err := repositories.SeedLocationsFromJSON(ctx, conn, seedPath)
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	log.Info("seeding complete", zap.Int("locations", n))

	return nil
}
