package geopoint

import (
	"fmt"
	"math"
)

// Format selects a textual coordinate representation.
type Format int

// Supported formats.
const (
	// FormatDecMinuteShortRaw is the canonical form written into notes:
	// "N 52 12.345 E 013 12.345".
	FormatDecMinuteShortRaw Format = iota
	// FormatDecMinute decorates the canonical form with degree and minute marks.
	FormatDecMinute
	// FormatDecDegree renders hemisphere-prefixed decimal degrees.
	FormatDecDegree
)

// Format renders the point in the requested format.
func (p Point) Format(f Format) string {
	latDir, lonDir := "N", "E"
	if p.Lat < 0 {
		latDir = "S"
	}
	if p.Lon < 0 {
		lonDir = "W"
	}

	switch f {
	case FormatDecDegree:
		return fmt.Sprintf("%s %09.6f° %s %010.6f°", latDir, math.Abs(p.Lat), lonDir, math.Abs(p.Lon))
	case FormatDecMinute:
		latDeg, latMin := decMinute(p.Lat)
		lonDeg, lonMin := decMinute(p.Lon)
		return fmt.Sprintf("%s %02d° %06.3f' %s %03d° %06.3f'", latDir, latDeg, latMin, lonDir, lonDeg, lonMin)
	default:
		latDeg, latMin := decMinute(p.Lat)
		lonDeg, lonMin := decMinute(p.Lon)
		return fmt.Sprintf("%s %02d %06.3f %s %03d %06.3f", latDir, latDeg, latMin, lonDir, lonDeg, lonMin)
	}
}

// String implements fmt.Stringer using the canonical format.
func (p Point) String() string {
	return p.Format(FormatDecMinuteShortRaw)
}

// decMinute splits an angle into whole degrees and minutes rounded to 0.001'.
// Rounding happens on the total so 59.9996' carries into the next degree.
func decMinute(angle float64) (int, float64) {
	thousandths := int64(math.Round(math.Abs(angle) * 60 * 1000))
	deg := thousandths / 60000
	rest := thousandths % 60000
	return int(deg), float64(rest) / 1000
}
