package domain

import (
	"errors"
	"testing"
	"time"
)

func spRow() RawRow {
	return RawRow{
		Region:           "SP",
		OriginCoord:      "POINT(-46.6 -23.5)",
		DestinationCoord: "POINT(-46.7 -23.6)",
		Datetime:         "2024-03-04 07:15:00",
		Datasource:       "gps",
	}
}

func TestNewTrip(t *testing.T) {
	trip, err := NewTrip(spRow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if trip.ID != 0 {
		t.Errorf("id = %d, want 0 before insert", trip.ID)
	}
	if trip.TimeOfDay != Morning {
		t.Errorf("time_of_day = %q, want %q", trip.TimeOfDay, Morning)
	}
	if trip.Region != "SP" || trip.Datasource != "gps" {
		t.Errorf("region/datasource = %q/%q, want SP/gps", trip.Region, trip.Datasource)
	}

	wantDT := time.Date(2024, 3, 4, 7, 15, 0, 0, time.UTC)
	if !trip.Datetime.Equal(wantDT) {
		t.Errorf("datetime = %v, want %v", trip.Datetime, wantDT)
	}
	if trip.Origin.Lon != -46.6 || trip.Origin.Lat != -23.5 {
		t.Errorf("origin = %+v", trip.Origin)
	}
	if trip.Destination.Lon != -46.7 || trip.Destination.Lat != -23.6 {
		t.Errorf("destination = %+v", trip.Destination)
	}
}

func TestNewTripErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RawRow)
		want   error
	}{
		{"bad origin", func(r *RawRow) { r.OriginCoord = "POINT(abc)" }, ErrMalformedGeometry},
		{"bad destination", func(r *RawRow) { r.DestinationCoord = "LINESTRING(0 0, 1 1)" }, ErrMalformedGeometry},
		{"iso timestamp", func(r *RawRow) { r.Datetime = "2024-03-04T07:15:00Z" }, ErrMalformedTimestamp},
		{"date only", func(r *RawRow) { r.Datetime = "2024-03-04" }, ErrMalformedTimestamp},
		{"fractional seconds", func(r *RawRow) { r.Datetime = "2024-03-04 07:15:00.123" }, ErrMalformedTimestamp},
		{"comma fraction", func(r *RawRow) { r.Datetime = "2024-03-04 07:15:00,5" }, ErrMalformedTimestamp},
		{"microseconds", func(r *RawRow) { r.Datetime = "2024-03-04 07:15:00.999999" }, ErrMalformedTimestamp},
		{"missing region", func(r *RawRow) { r.Region = "  " }, ErrInvalidRow},
		{"missing datetime", func(r *RawRow) { r.Datetime = "" }, ErrInvalidRow},
	}

	for _, tc := range cases {
		row := spRow()
		tc.mutate(&row)

		_, err := NewTrip(row)
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestNewTripAllowsEmptyDatasource(t *testing.T) {
	row := spRow()
	row.Datasource = ""

	if _, err := NewTrip(row); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildTripsAbortsOnFirstBadRow(t *testing.T) {
	bad := spRow()
	bad.Datetime = "04/03/2024 07:15"

	rows := []RawRow{spRow(), spRow(), bad, spRow()}

	trips, err := BuildTrips(rows)
	if trips != nil {
		t.Fatalf("trips = %v, want nil on failure", trips)
	}

	var rowErr *RowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("err = %v, want *RowError", err)
	}
	if rowErr.Row != 3 {
		t.Errorf("row = %d, want 3", rowErr.Row)
	}
	if !errors.Is(err, ErrMalformedTimestamp) {
		t.Errorf("err = %v, want ErrMalformedTimestamp", err)
	}
}
