package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vars(pairs ...string) []Variable {
	out := make([]Variable, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Variable{Name: pairs[i], Expression: pairs[i+1]})
	}
	return out
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		eqs     []Variable
		lat     string
		lon     string
		wantLat float64
		wantLon float64
	}{
		{"plain numbers", nil, "N 52 12.345", "E 013 12.345", 52.20575, 13.20575},
		{"digit concatenation", vars("A", "1", "B", "2"), "N 52 AB.345", "E 013 AB.345", 52.20575, 13.20575},
		{"multi digit variable", vars("A", "12"), "N 52 A.345", "E 013 A.345", 52.20575, 13.20575},
		{"bracket group", vars("A", "1", "B", "2"), "N 52 (A+B).5", "E 013 [B*2].5", 52 + 3.5/60, 13 + 4.5/60},
		{"arithmetic token", vars("A", "2"), "N 52 A*5", "E 013 A+1", 52 + 10.0/60, 13 + 3.0/60},
		{"chained equations", vars("A", "2", "B", "A*3"), "N 52 B", "E 013 B", 52.1, 13.1},
		{"colon divides", vars("A", "20"), "N 52 A:2", "E 013 A:4", 52 + 10.0/60, 13 + 5.0/60},
		{"seconds", nil, "N 52 12 20.7", "E 013 12 20.7", 52.20575, 13.20575},
		{"southern western", nil, "S 12 30", "W 001 30.000", -12.5, -1.5},
		{"degree marks", nil, "N 52° 12.345'", "E 013° 12.345'", 52.20575, 13.20575},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := Evaluate(tt.eqs, nil, tt.lat, tt.lon)
			require.True(t, ok)
			assert.InDelta(t, tt.wantLat, p.Lat, 1e-9)
			assert.InDelta(t, tt.wantLon, p.Lon, 1e-9)
		})
	}
}

func TestEvaluate_Unresolvable(t *testing.T) {
	tests := []struct {
		name string
		eqs  []Variable
		lat  string
		lon  string
	}{
		{"missing variable", vars("A", "1"), "N 52 A.C", "E 013 A.0"},
		{"cycle", vars("A", "B", "B", "A"), "N 52 A", "E 013 1"},
		{"minutes out of range", vars("A", "61"), "N 52 A", "E 013 1"},
		{"division by zero", vars("A", "0"), "N 52 5/A", "E 013 1"},
		{"negative concatenation", vars("A", "0-1"), "N 52 A.5", "E 013 1"},
		{"degrees out of range", nil, "N 95 0", "E 013 1"},
		{"wrong hemisphere", nil, "E 52 0", "E 013 1"},
		{"unbalanced", nil, "N 52 (1", "E 013 1"},
		{"too many parts", nil, "N 52 1 2 3", "E 013 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Evaluate(tt.eqs, nil, tt.lat, tt.lon)
			assert.False(t, ok)
		})
	}
}

func TestEvaluate_EquationsWinOverFreeValues(t *testing.T) {
	p, ok := Evaluate(vars("A", "1"), vars("A", "5"), "N 52 A", "E 013 A")
	require.True(t, ok)
	assert.InDelta(t, 52+1.0/60, p.Lat, 1e-9)
}
