package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mobility-route-service/internal/domain"
	"mobility-route-service/internal/platform/obs"
	"time"

	"go.uber.org/zap"
)

// Postgres-backed store for collected traffic samples and collection points.
type PostgresTrafficRepository struct {
	DB  *sql.DB
	log *zap.Logger
}

func NewPostgresTrafficRepository(db *sql.DB, log *zap.Logger) *PostgresTrafficRepository {
	return &PostgresTrafficRepository{DB: db, log: log}
}

// SaveRecords inserts one batch in a single transaction. Re-saving a batch
// is a no-op.
func (r *PostgresTrafficRepository) SaveRecords(ctx context.Context, records []domain.TrafficRecord) (err error) {
	defer obs.Time(ctx, r.log, "traffic.repo.SaveRecords")(&err)

	if r.DB == nil {
		return errors.New("traffic repository: DB is nil")
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save traffic records: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO traffic_snapshots (
		batch_id, collected_at, location_name, lat, lon,
		hour, day_of_week, is_weekend,
		current_speed, free_flow_speed, current_travel_time, free_flow_travel_time,
		confidence, congestion_level, congestion_index
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	ON CONFLICT (batch_id, location_name) DO NOTHING;
	`)
	if err != nil {
		return fmt.Errorf("save traffic records: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			rec.BatchID, rec.CollectedAt, rec.LocationName, rec.Coordinate.Lat, rec.Coordinate.Lon,
			rec.Hour, rec.DayOfWeek, rec.IsWeekend,
			rec.CurrentSpeed, rec.FreeFlowSpeed, rec.CurrentTravelTime, rec.FreeFlowTravelTime,
			rec.Confidence, string(rec.CongestionLevel), rec.CongestionIndex,
		); err != nil {
			return fmt.Errorf("save traffic records: insert %q: %w", rec.LocationName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save traffic records: commit tx: %w", err)
	}
	return nil
}

// ListRecent returns samples for a location collected at or after since,
// newest first.
func (r *PostgresTrafficRepository) ListRecent(ctx context.Context, location string, since time.Time) (_ []domain.TrafficRecord, err error) {
	defer obs.Time(ctx, r.log, "traffic.repo.ListRecent")(&err)

	if r.DB == nil {
		return nil, errors.New("traffic repository: DB is nil")
	}

	query := `
	SELECT
		batch_id, collected_at, location_name, lat, lon,
		hour, day_of_week, is_weekend,
		current_speed, free_flow_speed, current_travel_time, free_flow_travel_time,
		confidence, congestion_level, congestion_index
	FROM traffic_snapshots
	WHERE location_name = $1 AND collected_at >= $2
	ORDER BY collected_at DESC;
	`
	rows, err := r.DB.QueryContext(ctx, query, location, since)
	if err != nil {
		return nil, fmt.Errorf("list traffic records: query traffic_snapshots table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.TrafficRecord, 0, 64)
	for rows.Next() {
		var rec domain.TrafficRecord
		var level string
		if err := rows.Scan(
			&rec.BatchID, &rec.CollectedAt, &rec.LocationName, &rec.Coordinate.Lat, &rec.Coordinate.Lon,
			&rec.Hour, &rec.DayOfWeek, &rec.IsWeekend,
			&rec.CurrentSpeed, &rec.FreeFlowSpeed, &rec.CurrentTravelTime, &rec.FreeFlowTravelTime,
			&rec.Confidence, &level, &rec.CongestionIndex,
		); err != nil {
			return nil, fmt.Errorf("list traffic records: scan row: %w", err)
		}
		rec.CongestionLevel = domain.CongestionLevel(level)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list traffic records: row iteration: %w", err)
	}

	return out, nil
}

// ListLocations returns every collection point ordered by name.
func (r *PostgresTrafficRepository) ListLocations(ctx context.Context) ([]domain.NamedLocation, error) {
	if r.DB == nil {
		return nil, errors.New("traffic repository: DB is nil")
	}

	rows, err := r.DB.QueryContext(ctx, `
	SELECT name, lat, lon
	FROM collection_locations
	ORDER BY name;
	`)
	if err != nil {
		return nil, fmt.Errorf("list locations: query collection_locations table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.NamedLocation, 0, 16)
	for rows.Next() {
		var l domain.NamedLocation
		if err := rows.Scan(&l.Name, &l.Coordinate.Lat, &l.Coordinate.Lon); err != nil {
			return nil, fmt.Errorf("list locations: scan row: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list locations: row iteration: %w", err)
	}

	return out, nil
}
