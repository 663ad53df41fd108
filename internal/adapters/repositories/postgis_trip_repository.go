package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"trip-ingestion-service/internal/domain"
	"trip-ingestion-service/internal/platform/obs"
)

// PostGIS-backed implementation of the TripWriter and TripQuerier ports.
type PostgisTripRepository struct{ DB *sql.DB }

func NewPostgisTripRepository(db *sql.DB) *PostgisTripRepository {
	return &PostgisTripRepository{DB: db}
}

// InsertTrips writes all trips in a single transaction.
// Any failure rolls the whole batch back; nothing is partially committed.
func (r *PostgisTripRepository) InsertTrips(ctx context.Context, trips []domain.Trip) (_ int, err error) {
	defer obs.Time(ctx, "trips.InsertTrips")(&err)

	if r.DB == nil {
		return 0, fmt.Errorf("insert trips: DB is nil: %w", domain.ErrStoreWrite)
	}

	if len(trips) == 0 {
		return 0, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("insert trips: begin tx: %w: %w", domain.ErrStoreWrite, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO trips (
		region,
		origin,
		destination,
		datetime,
		datasource,
		time_of_day
	)
	VALUES ($1, ST_GeomFromText($2, 4326), ST_GeomFromText($3, 4326), $4, $5, $6);
	`)
	if err != nil {
		return 0, fmt.Errorf("insert trips: prepare insert: %w: %w", domain.ErrStoreWrite, err)
	}
	defer stmt.Close()

	for i, t := range trips {
		_, err := stmt.ExecContext(
			ctx,
			t.Region,
			t.Origin.WKT(),
			t.Destination.WKT(),
			t.Datetime,
			t.Datasource,
			string(t.TimeOfDay),
		)
		if err != nil {
			return 0, fmt.Errorf("insert trips: insert row %d: %w: %w", i+1, domain.ErrStoreWrite, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("insert trips: commit tx: %w: %w", domain.ErrStoreWrite, err)
	}

	return len(trips), nil
}

// GroupedTrips counts trips per (region, time_of_day, origin, destination), largest group first.
// Groups with equal counts come back in whatever order the database produces.
func (r *PostgisTripRepository) GroupedTrips(ctx context.Context) (_ []domain.TripGroup, err error) {
	defer obs.Time(ctx, "trips.GroupedTrips")(&err)

	if r.DB == nil {
		return nil, fmt.Errorf("grouped trips: DB is nil: %w", domain.ErrStoreRead)
	}

	query := `
	SELECT
		region,
		time_of_day,
		ST_AsText(origin) AS origin_point,
		ST_AsText(destination) AS destination_point,
		COUNT(*) AS total_trips
	FROM trips
	GROUP BY region, time_of_day, origin_point, destination_point
	ORDER BY total_trips DESC;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("grouped trips: query trips table: %w: %w", domain.ErrStoreRead, err)
	}
	defer rows.Close()

	groups := make([]domain.TripGroup, 0, 64)
	for rows.Next() {
		var region string
		var tod, origin, dest sql.NullString
		var total int
		if err := rows.Scan(&region, &tod, &origin, &dest, &total); err != nil {
			return nil, fmt.Errorf("grouped trips: scan row: %w: %w", domain.ErrStoreRead, err)
		}
		groups = append(groups, domain.TripGroup{
			Region:      region,
			TimeOfDay:   domain.TimeOfDay(tod.String),
			Origin:      origin.String,
			Destination: dest.String,
			TotalTrips:  total,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("grouped trips: row iteration: %w: %w", domain.ErrStoreRead, err)
	}

	return groups, nil
}

// WeeklyTripCounts returns the number of trips per week for one region.
// Weeks start where Postgres date_trunc('week', ...) puts them (ISO Monday).
func (r *PostgisTripRepository) WeeklyTripCounts(ctx context.Context, region string) (_ []domain.WeeklyCount, err error) {
	defer obs.Time(ctx, "trips.WeeklyTripCounts")(&err)

	if r.DB == nil {
		return nil, fmt.Errorf("weekly trip counts: DB is nil: %w", domain.ErrStoreRead)
	}

	query := `
	SELECT
		date_trunc('week', datetime) AS week,
		COUNT(*) AS trips
	FROM trips
	WHERE region = $1
	GROUP BY week
	ORDER BY week;
	`
	rows, err := r.DB.QueryContext(ctx, query, region)
	if err != nil {
		return nil, fmt.Errorf("weekly trip counts: query trips table: %w: %w", domain.ErrStoreRead, err)
	}
	defer rows.Close()

	counts := make([]domain.WeeklyCount, 0, 52)
	for rows.Next() {
		var c domain.WeeklyCount
		if err := rows.Scan(&c.Week, &c.Trips); err != nil {
			return nil, fmt.Errorf("weekly trip counts: scan row: %w: %w", domain.ErrStoreRead, err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("weekly trip counts: row iteration: %w: %w", domain.ErrStoreRead, err)
	}

	return counts, nil
}

// CountTrips returns the number of stored trips.
func (r *PostgisTripRepository) CountTrips(ctx context.Context) (int, error) {
	if r.DB == nil {
		return 0, errors.New("count trips: DB is nil")
	}

	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM trips;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count trips: %w: %w", domain.ErrStoreRead, err)
	}

	return n, nil
}

// Ping reports whether the database is reachable.
func (r *PostgisTripRepository) Ping(ctx context.Context) error {
	if r.DB == nil {
		return errors.New("ping: DB is nil")
	}
	return r.DB.PingContext(ctx)
}
