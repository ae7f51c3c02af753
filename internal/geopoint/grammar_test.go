package geopoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Formats(t *testing.T) {
	tests := []struct {
		name string
		text string
		lat  float64
		lon  float64
	}{
		{"short raw", "N 52 12.345 E 013 12.345", 52.20575, 13.20575},
		{"decorated minutes", "N 52° 12.345' E 013° 12.345'", 52.20575, 13.20575},
		{"compact", "N52 12.345 E13 12.345", 52.20575, 13.20575},
		{"comma decimal", "N 52 12,345 E 013 12,345", 52.20575, 13.20575},
		{"southern western", "S 33 51.408 W 070 38.898", -33.8568, -70.6483},
		{"seconds", `N 52° 12' 20.7" E 013° 12' 20.7"`, 52.20575, 13.20575},
		{"decimal degrees", "N 52.20575° E 13.20575°", 52.20575, 13.20575},
		{"signed decimal", "52.20575, -13.20575", 52.20575, -13.20575},
		{"pair separator", "N 52 12.345, E 013 12.345", 52.20575, 13.20575},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.text)
			require.NoError(t, err)
			assert.InDelta(t, tt.lat, p.Lat, 1e-6)
			assert.InDelta(t, tt.lon, p.Lon, 1e-6)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, text := range []string{
		"",
		"hello",
		"N 52 61.000 E 013 00.000",
		"N 95 00.000 E 013 00.000",
		"N 52 00.000 E 013 00.000 trailing",
		"1.5, 2.5",
	} {
		_, err := Parse(text)
		assert.ErrorIs(t, err, ErrNoCoordinates, "text %q", text)
	}
}

func TestParseAll_Positions(t *testing.T) {
	text := "Park at N 52 00.000 E 013 00.000, then go to N 52 01.000 E 013 01.000 \"note\""
	matches := ParseAll(text)
	require.Len(t, matches, 2)

	assert.Equal(t, "N 52 00.000 E 013 00.000", text[matches[0].Start:matches[0].End])
	assert.Equal(t, "N 52 01.000 E 013 01.000", text[matches[1].Start:matches[1].End])
	assert.Less(t, matches[0].End, matches[1].Start)
}

func TestParseAll_RequiresBoundary(t *testing.T) {
	assert.Empty(t, ParseAll("XN 52 00.000 E 013 00.000"))
	assert.Len(t, ParseAll("(N 52 00.000 E 013 00.000)"), 1)
}

func TestParseAll_RequiresBoundaryAfter(t *testing.T) {
	assert.Empty(t, ParseAll("N 52 12.345 E 013 45.6CD"))
	assert.Empty(t, ParseAll("N 52 12 20 E 013 12 205"))
	assert.Len(t, ParseAll("N 52 12.345 E 013 45.678, then"), 1)
	assert.Len(t, ParseAll(`N 52 12.345 E 013 45.678 "note"`), 1)
}

func TestParseAll_SecondsWithoutMarks(t *testing.T) {
	matches := ParseAll(`N 52 12 20.7 E 013 12 20.7`)
	require.Len(t, matches, 1)
	assert.InDelta(t, 52.20575, matches[0].Point.Lat, 1e-6)
}
