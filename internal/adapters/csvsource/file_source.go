package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"trip-ingestion-service/internal/domain"
)

// Required header columns of a trips file.
var RequiredColumns = []string{
	"region",
	"origin_coord",
	"destination_coord",
	"datetime",
	"datasource",
}

// FileSource reads raw trip rows from a CSV file on disk.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (f *FileSource) ReadRows(ctx context.Context) ([]domain.RawRow, error) {
	if strings.TrimSpace(f.Path) == "" {
		return nil, errors.New("read rows: csv path is empty")
	}

	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read rows: open %q: %w", f.Path, err)
	}
	defer file.Close()

	rows, err := ReadRowsFrom(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("read rows %q: %w", f.Path, err)
	}

	return rows, nil
}

// ReadRowsFrom decodes a header line followed by data records.
// Columns are matched by name; their order does not matter and extra columns are ignored.
func ReadRowsFrom(ctx context.Context, r io.Reader) ([]domain.RawRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read header: empty input: %w", domain.ErrInvalidRow)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %v: %w", err, domain.ErrInvalidRow)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.RawRow, 0, 256)
	for n := 1; ; n++ {
		if n%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &domain.RowError{Row: n, Err: fmt.Errorf("%v: %w", err, domain.ErrInvalidRow)}
		}

		rows = append(rows, domain.RawRow{
			Region:           rec[idx["region"]],
			OriginCoord:      rec[idx["origin_coord"]],
			DestinationCoord: rec[idx["destination_coord"]],
			Datetime:         rec[idx["datetime"]],
			Datasource:       rec[idx["datasource"]],
		})
	}

	return rows, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}

	missing := make([]string, 0)
	for _, c := range RequiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("read header: missing columns %s: %w", strings.Join(missing, ", "), domain.ErrInvalidRow)
	}

	return idx, nil
}
