package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the PostGIS database schema. Safe to run on every start.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createExtensionQuery := `
	CREATE EXTENSION IF NOT EXISTS postgis;
	`

	createTripsQuery := `
	CREATE TABLE IF NOT EXISTS trips (
		id SERIAL PRIMARY KEY,
		region TEXT NOT NULL,
		origin geometry(Point, 4326),
		destination geometry(Point, 4326),
		datetime TIMESTAMP,
		datasource TEXT,
		time_of_day TEXT
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_trips_region_datetime
	ON trips(region, datetime);
	`

	statements := []string{
		createExtensionQuery,
		createTripsQuery,
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
