package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Fixed datetime layout of the input file.
const DatetimeLayout = "2006-01-02 15:04:05"

var rowValidator = validator.New()

// One typed record of the input file, before any parsing.
type RawRow struct {
	Region           string `validate:"required"`
	OriginCoord      string `validate:"required"`
	DestinationCoord string `validate:"required"`
	Datetime         string `validate:"required"`
	Datasource       string
}

// Validate checks that every required column carries a value.
func (r RawRow) Validate() error {
	err := rowValidator.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate row: %v: %w", err, ErrInvalidRow)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fmt.Errorf("validate row: missing %s: %w", strings.Join(fields, ", "), ErrInvalidRow)
}

// A single ingested trip. ID is zero until the store assigns one.
// TimeOfDay is derived once from Datetime at ingestion and never recomputed.
type Trip struct {
	ID          int64
	Region      string
	Origin      Point
	Destination Point
	Datetime    time.Time
	Datasource  string
	TimeOfDay   TimeOfDay
}

// ParseDatetime parses the fixed "YYYY-MM-DD HH:MM:SS" layout.
// time.Parse tolerates a fractional second after the seconds field; the
// reformat check rejects it along with any other trailing text.
func ParseDatetime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DatetimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse datetime %q: %w", s, ErrMalformedTimestamp)
	}
	if t.Format(DatetimeLayout) != s {
		return time.Time{}, fmt.Errorf("parse datetime %q: unconverted data remains: %w", s, ErrMalformedTimestamp)
	}
	return t, nil
}

// NewTrip builds a Trip from a raw row.
func NewTrip(row RawRow) (Trip, error) {
	row = row.trimmed()
	if err := row.Validate(); err != nil {
		return Trip{}, err
	}

	origin, err := ParsePoint(row.OriginCoord)
	if err != nil {
		return Trip{}, fmt.Errorf("origin: %w", err)
	}

	dest, err := ParsePoint(row.DestinationCoord)
	if err != nil {
		return Trip{}, fmt.Errorf("destination: %w", err)
	}

	dt, err := ParseDatetime(row.Datetime)
	if err != nil {
		return Trip{}, err
	}

	tod, err := BucketHour(dt.Hour())
	if err != nil {
		return Trip{}, err
	}

	return Trip{
		Region:      row.Region,
		Origin:      origin,
		Destination: dest,
		Datetime:    dt,
		Datasource:  row.Datasource,
		TimeOfDay:   tod,
	}, nil
}

// BuildTrips converts every row or none: the first failing row aborts with a *RowError.
func BuildTrips(rows []RawRow) ([]Trip, error) {
	trips := make([]Trip, 0, len(rows))
	for i, row := range rows {
		trip, err := NewTrip(row)
		if err != nil {
			return nil, &RowError{Row: i + 1, Err: err}
		}
		trips = append(trips, trip)
	}

	return trips, nil
}

func (r RawRow) trimmed() RawRow {
	return RawRow{
		Region:           strings.TrimSpace(r.Region),
		OriginCoord:      strings.TrimSpace(r.OriginCoord),
		DestinationCoord: strings.TrimSpace(r.DestinationCoord),
		Datetime:         strings.TrimSpace(r.Datetime),
		Datasource:       strings.TrimSpace(r.Datasource),
	}
}
