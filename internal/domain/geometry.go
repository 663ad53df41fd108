package domain

import (
	"fmt"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// SRID of every stored trip point (WGS 84).
const SRID = 4326

// Immutable geographic point (longitude, latitude) tagged with a spatial reference id.
type Point struct {
	Lon  float64
	Lat  float64
	SRID int
}

// ParsePoint converts a WKT point such as "POINT(-46.63 -23.55)" into a Point.
//
// Only non-empty 2-D points are accepted; any other geometry type fails with
// ErrMalformedGeometry.
func ParsePoint(s string) (Point, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Point{}, fmt.Errorf("parse point: empty string: %w", ErrMalformedGeometry)
	}

	g, err := wkt.Unmarshal(s)
	if err != nil {
		return Point{}, fmt.Errorf("parse point %q: %v: %w", s, err, ErrMalformedGeometry)
	}

	p, ok := g.(*geom.Point)
	if !ok {
		return Point{}, fmt.Errorf("parse point %q: got %T, want point: %w", s, g, ErrMalformedGeometry)
	}
	if p.Empty() {
		return Point{}, fmt.Errorf("parse point %q: empty point: %w", s, ErrMalformedGeometry)
	}
	if p.Layout() != geom.XY {
		return Point{}, fmt.Errorf("parse point %q: unsupported layout %v: %w", s, p.Layout(), ErrMalformedGeometry)
	}

	return Point{Lon: p.X(), Lat: p.Y(), SRID: SRID}, nil
}

// WKT renders the point back to well-known text, e.g. "POINT (-46.63 -23.55)".
func (p Point) WKT() string {
	g := geom.NewPointFlat(geom.XY, []float64{p.Lon, p.Lat}).SetSRID(p.SRID)
	s, err := wkt.Marshal(g)
	if err != nil {
		// A flat XY point always encodes.
		return fmt.Sprintf("POINT (%g %g)", p.Lon, p.Lat)
	}
	return s
}
