package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedGeometry  = errors.New("malformed geometry")
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	ErrInvalidHour        = errors.New("invalid hour")
	ErrInvalidRow         = errors.New("invalid row")
	ErrStoreWrite         = errors.New("store write failure")
	ErrStoreRead          = errors.New("store read failure")
)

// RowError reports which input row aborted a batch.
// Row is 1-based and counts data rows only (the header is not row 1).
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
