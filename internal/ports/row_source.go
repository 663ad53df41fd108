package ports

import (
	"context"
	"trip-ingestion-service/internal/domain"
)

// Port: a tabular input of raw trip rows.
type RowSource interface {
	ReadRows(ctx context.Context) ([]domain.RawRow, error)
}
