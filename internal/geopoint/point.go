// Package geopoint models WGS84 coordinates and the text grammar used to find
// them inside free-form notes.
package geopoint

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// SRID is the spatial reference of every Point (WGS84).
const SRID = 4326

const earthRadiusKm = 6371.0

// Point is a resolved latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// New returns a Point after validating its range.
func New(lat, lon float64) (Point, error) {
	p := Point{Lat: lat, Lon: lon}
	if !p.Valid() {
		return Point{}, eris.Errorf("geopoint: out of range lat=%f lon=%f", lat, lon)
	}
	return p, nil
}

// Valid reports whether the point lies within WGS84 bounds.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// EqualsDecMinute reports whether both points render identically at
// decimal-minute precision (0.001').
func (p Point) EqualsDecMinute(o Point) bool {
	return p.Format(FormatDecMinuteShortRaw) == o.Format(FormatDecMinuteShortRaw)
}

// DistanceMeters returns the great-circle distance to o.
func (p Point) DistanceMeters(o Point) float64 {
	dLat := toRad(o.Lat - p.Lat)
	dLon := toRad(o.Lon - p.Lon)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(p.Lat))*math.Cos(toRad(o.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000
}

// ToGeom converts the point to a go-geom XY point (lon, lat) with SRID 4326.
func (p Point) ToGeom() *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{p.Lon, p.Lat}).SetSRID(SRID)
}

// FromGeom converts a go-geom point back into a Point.
func FromGeom(g *geom.Point) (Point, error) {
	if g == nil || g.Empty() {
		return Point{}, eris.New("geopoint: empty geometry")
	}
	return New(g.Y(), g.X())
}

// MarshalText renders the canonical short decimal-minute form.
func (p Point) MarshalText() ([]byte, error) {
	return []byte(p.Format(FormatDecMinuteShortRaw)), nil
}

// UnmarshalText accepts any form understood by Parse.
func (p *Point) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
