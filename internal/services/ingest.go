package services

import (
	"context"
	"errors"
	"fmt"
	"trip-ingestion-service/internal/domain"
	"trip-ingestion-service/internal/ports"
)

// Ingestor loads raw trip rows into the store in two phases:
// every row is parsed into a Trip first, then the whole batch is written
// in one transaction. A single bad row means nothing is written.
type Ingestor struct {
	Source      ports.RowSource
	Writer      ports.TripWriter
	Invalidator ports.QueryInvalidator
}

func NewIngestor(source ports.RowSource, writer ports.TripWriter, inv ports.QueryInvalidator) *Ingestor {
	return &Ingestor{Source: source, Writer: writer, Invalidator: inv}
}

// Ingest builds trips from rows and commits them as a single batch.
// Re-ingesting the same rows stores them again; there is no deduplication.
func (in *Ingestor) Ingest(ctx context.Context, rows []domain.RawRow) (int, error) {
	if in.Writer == nil {
		return 0, errors.New("ingest trips: writer is nil")
	}

	trips, err := domain.BuildTrips(rows)
	if err != nil {
		return 0, fmt.Errorf("ingest trips: %w", err)
	}

	n, err := in.Writer.InsertTrips(ctx, trips)
	if err != nil {
		return 0, fmt.Errorf("ingest trips: %w", err)
	}

	if in.Invalidator != nil && n > 0 {
		in.Invalidator.Invalidate()
	}

	return n, nil
}

// IngestFile reads every row from the configured source and ingests them.
func (in *Ingestor) IngestFile(ctx context.Context) (int, error) {
	if in.Source == nil {
		return 0, errors.New("ingest file: source is nil")
	}

	rows, err := in.Source.ReadRows(ctx)
	if err != nil {
		return 0, fmt.Errorf("ingest file: %w", err)
	}

	return in.Ingest(ctx, rows)
}
