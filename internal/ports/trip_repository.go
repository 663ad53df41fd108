package ports

import (
	"context"
	"trip-ingestion-service/internal/domain"
)

// Port: durable, transactional storage of trips.
type TripWriter interface {
	// Persist every trip in one transaction, or none of them.
	InsertTrips(ctx context.Context, trips []domain.Trip) (int, error)
}

// Port: read-only aggregations over stored trips.
type TripQuerier interface {
	// Trip counts grouped by region, time of day and route, largest first.
	GroupedTrips(ctx context.Context) ([]domain.TripGroup, error)
	// Trip counts per calendar week for one region, oldest week first.
	WeeklyTripCounts(ctx context.Context, region string) ([]domain.WeeklyCount, error)
}

// Optional hook for anything holding query results derived from stored trips.
type QueryInvalidator interface {
	Invalidate()
}
