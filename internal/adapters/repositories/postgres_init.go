package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"mobility-route-service/internal/domain"
	"os"
	"strings"
)

// Initialize the Postgres schema. Statements are idempotent.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		query TEXT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createLocationsQuery := `
	CREATE TABLE IF NOT EXISTS collection_locations (
		name TEXT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL
	);
	`

	createSnapshotsQuery := `
	CREATE TABLE IF NOT EXISTS traffic_snapshots (
		id BIGSERIAL PRIMARY KEY,
		batch_id TEXT NOT NULL,
		collected_at TIMESTAMPTZ NOT NULL,
		location_name TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		hour SMALLINT NOT NULL,
		day_of_week SMALLINT NOT NULL,
		is_weekend BOOLEAN NOT NULL,
		current_speed DOUBLE PRECISION NOT NULL,
		free_flow_speed DOUBLE PRECISION NOT NULL,
		current_travel_time DOUBLE PRECISION NOT NULL,
		free_flow_travel_time DOUBLE PRECISION NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		congestion_level TEXT NOT NULL,
		congestion_index DOUBLE PRECISION NOT NULL,
		UNIQUE (batch_id, location_name)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_traffic_snapshots_location_time
	ON traffic_snapshots(location_name, collected_at DESC);
	`

	statements := []string{
		createGeocodeCacheQuery,
		createLocationsQuery,
		createSnapshotsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type LocationSeed struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Populate collection_locations from a JSON file of {name, lat, lon} items.
func SeedLocationsFromJSON(ctx context.Context, db *sql.DB, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed locations: read %q: %w", jsonPath, err)
	}

	var data []LocationSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed locations: parse json: %w", err)
	}

	rows := make([]domain.NamedLocation, 0, len(data))
	for i, item := range data {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return 0, fmt.Errorf("seed locations: item at index %d: name cannot be empty", i+1)
		}
		c, err := domain.NewCoordinate(item.Lat, item.Lon)
		if err != nil {
			return 0, fmt.Errorf("seed locations: item %q: %w", name, err)
		}
		rows = append(rows, domain.NamedLocation{Name: name, Coordinate: c})
	}

	if err := SaveLocations(ctx, db, rows); err != nil {
		return 0, fmt.Errorf("seed locations: %w", err)
	}
	return len(rows), nil
}

// SaveLocations upserts collection points by name.
func SaveLocations(ctx context.Context, db *sql.DB, locations []domain.NamedLocation) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save locations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO collection_locations (name, lat, lon)
	VALUES ($1, $2, $3)
	ON CONFLICT (name) DO UPDATE
	SET lat = EXCLUDED.lat,
		lon = EXCLUDED.lon;
	`)
	if err != nil {
		return fmt.Errorf("save locations: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range locations {
		if _, err := stmt.ExecContext(ctx, l.Name, l.Coordinate.Lat, l.Coordinate.Lon); err != nil {
			return fmt.Errorf("save locations: insert %q: %w", l.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save locations: commit tx: %w", err)
	}
	return nil
}
