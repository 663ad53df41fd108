package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"trip-ingestion-service/internal/domain"
)

type memoryStore struct {
	mu    sync.Mutex
	trips []domain.Trip
	calls int
	err   error
}

func (m *memoryStore) InsertTrips(ctx context.Context, trips []domain.Trip) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return 0, fmt.Errorf("insert trips: %w: %w", domain.ErrStoreWrite, m.err)
	}
	for _, t := range trips {
		t.ID = int64(len(m.trips) + 1)
		m.trips = append(m.trips, t)
	}
	return len(trips), nil
}

func (m *memoryStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.trips)
}

type staticSource struct {
	rows []domain.RawRow
	err  error
}

func (s staticSource) ReadRows(ctx context.Context) ([]domain.RawRow, error) {
	return s.rows, s.err
}

type invalidationCounter struct{ n int }

func (c *invalidationCounter) Invalidate() { c.n++ }

func validRow(region string) domain.RawRow {
	return domain.RawRow{
		Region:           region,
		OriginCoord:      "POINT(-46.6 -23.5)",
		DestinationCoord: "POINT(-46.7 -23.6)",
		Datetime:         "2024-03-04 07:15:00",
		Datasource:       "gps",
	}
}

func TestIngestStoresDerivedTimeOfDay(t *testing.T) {
	store := &memoryStore{}
	ing := NewIngestor(nil, store, nil)

	n, err := ing.Ingest(context.Background(), []domain.RawRow{validRow("SP")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Fatalf("stored = %d, want 1", n)
	}

	got := store.trips[0]
	if got.TimeOfDay != domain.Morning {
		t.Fatalf("time_of_day = %q, want morning", got.TimeOfDay)
	}
	if got.ID != 1 {
		t.Fatalf("id = %d, want store-assigned 1", got.ID)
	}
}

func TestIngestMalformedRowAtAnyPositionStoresNothing(t *testing.T) {
	const n = 5

	badDatetimes := []string{
		"2024-03-04T07:15:00",
		"2024-03-04 07:15:00.123",
		"2024-03-04 07:15:00,5",
	}

	for _, badDT := range badDatetimes {
		for pos := 0; pos <= n; pos++ {
			rows := make([]domain.RawRow, 0, n+1)
			for i := 0; i < n; i++ {
				rows = append(rows, validRow("SP"))
			}
			bad := validRow("SP")
			bad.Datetime = badDT
			rows = append(rows[:pos], append([]domain.RawRow{bad}, rows[pos:]...)...)

			store := &memoryStore{}
			inv := &invalidationCounter{}
			_, err := NewIngestor(nil, store, inv).Ingest(context.Background(), rows)

			if !errors.Is(err, domain.ErrMalformedTimestamp) {
				t.Fatalf("%q pos %d: err = %v, want ErrMalformedTimestamp", badDT, pos, err)
			}

			var rowErr *domain.RowError
			if !errors.As(err, &rowErr) || rowErr.Row != pos+1 {
				t.Fatalf("%q pos %d: err = %v, want RowError at row %d", badDT, pos, err, pos+1)
			}
			if store.count() != 0 || store.calls != 0 {
				t.Fatalf("%q pos %d: stored = %d calls = %d, want nothing written", badDT, pos, store.count(), store.calls)
			}
			if inv.n != 0 {
				t.Fatalf("%q pos %d: cache invalidated on failed ingest", badDT, pos)
			}
		}
	}
}

func TestIngestStoreFailurePropagates(t *testing.T) {
	store := &memoryStore{err: errors.New("disk full")}
	inv := &invalidationCounter{}

	_, err := NewIngestor(nil, store, inv).Ingest(context.Background(), []domain.RawRow{validRow("SP"), validRow("RJ")})
	if !errors.Is(err, domain.ErrStoreWrite) {
		t.Fatalf("err = %v, want ErrStoreWrite", err)
	}
	if store.count() != 0 {
		t.Fatalf("stored = %d, want 0", store.count())
	}
	if inv.n != 0 {
		t.Fatal("cache invalidated on failed ingest")
	}
}

func TestIngestTwiceDuplicatesRecords(t *testing.T) {
	store := &memoryStore{}
	ing := NewIngestor(staticSource{rows: []domain.RawRow{validRow("SP"), validRow("RJ"), validRow("SP")}}, store, nil)

	for i := 0; i < 2; i++ {
		if _, err := ing.IngestFile(context.Background()); err != nil {
			t.Fatalf("ingest #%d: unexpected error: %v", i+1, err)
		}
	}

	if store.count() != 6 {
		t.Fatalf("stored = %d, want 6 after ingesting the same file twice", store.count())
	}
}

func TestIngestInvalidatesQueryCache(t *testing.T) {
	inv := &invalidationCounter{}
	ing := NewIngestor(nil, &memoryStore{}, inv)

	if _, err := ing.Ingest(context.Background(), []domain.RawRow{validRow("SP")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.n != 1 {
		t.Fatalf("invalidations = %d, want 1", inv.n)
	}

	if _, err := ing.Ingest(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.n != 1 {
		t.Fatalf("invalidations = %d, want 1 after empty batch", inv.n)
	}
}

func TestIngestFileSourceError(t *testing.T) {
	srcErr := fmt.Errorf("read header: %w", domain.ErrInvalidRow)
	store := &memoryStore{}

	_, err := NewIngestor(staticSource{err: srcErr}, store, nil).IngestFile(context.Background())
	if !errors.Is(err, domain.ErrInvalidRow) {
		t.Fatalf("err = %v, want ErrInvalidRow", err)
	}
	if store.calls != 0 {
		t.Fatalf("writer calls = %d, want 0", store.calls)
	}
}
