package waypoints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/waypoint-cli/internal/formula"
	"github.com/sells-group/waypoint-cli/internal/geopoint"
	"github.com/sells-group/waypoint-cli/internal/model"
)

func mustPoint(t *testing.T, text string) geopoint.Point {
	t.Helper()
	p, err := geopoint.Parse(text)
	require.NoError(t, err)
	return p
}

func TestParseWaypoints_NoTokens(t *testing.T) {
	p := NewParser("")
	assert.Empty(t, p.ParseWaypoints(""))
	assert.Empty(t, p.ParseWaypoints("Bring a pen. The container is small."))
}

func TestParseWaypoints_PrefixNameType(t *testing.T) {
	wps := NewParser("").ParseWaypoints("@[AB] Bridge (WAYPOINT) N 52 00.000 E 013 00.000")
	require.Len(t, wps, 1)

	wp := wps[0]
	assert.Equal(t, "AB", wp.Prefix)
	assert.Equal(t, "Bridge", wp.Name)
	assert.Equal(t, model.TypeWaypoint, wp.Type)
	require.NotNil(t, wp.Coords)
	assert.InDelta(t, 52.0, wp.Coords.Lat, 1e-9)
	assert.InDelta(t, 13.0, wp.Coords.Lon, 1e-9)
	assert.True(t, wp.UserDefined)
	assert.Empty(t, wp.UserNote)
}

func TestParseWaypoints_GeneratedNames(t *testing.T) {
	text := "Start here N 52 00.000 E 013 00.000\nthen walk to N 52 01.000 E 013 01.000"
	wps := NewParser("WP").ParseWaypoints(text)
	require.Len(t, wps, 2)
	assert.Equal(t, "WP 1", wps[0].Name)
	assert.Equal(t, "WP 2", wps[1].Name)
}

func TestParseWaypoints_DefaultNameLabel(t *testing.T) {
	p := NewParser("  ")
	assert.Equal(t, "Personal note", p.NameLabel())

	wps := p.ParseWaypoints("N 52 00.000 E 013 00.000")
	require.Len(t, wps, 1)
	assert.Equal(t, "Personal note 1", wps[0].Name)
}

func TestParseWaypoints_CounterRestartsPerCall(t *testing.T) {
	p := NewParser("WP")
	first := p.ParseWaypoints("N 52 00.000 E 013 00.000")
	second := p.ParseWaypoints("N 52 00.000 E 013 00.000")
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, "WP 1", first[0].Name)
	assert.Equal(t, "WP 1", second[0].Name)
}

func TestParseWaypoints_NoCoordMarker(t *testing.T) {
	wps := NewParser("").ParseWaypoints("(NO-COORD)")
	require.Len(t, wps, 1)

	wp := wps[0]
	assert.Nil(t, wp.Coords)
	assert.Nil(t, wp.CalcState)
	assert.True(t, wp.OriginalCoordsEmpty)
	assert.Equal(t, model.TypeWaypoint, wp.Type)
	assert.Equal(t, "Personal note 1", wp.Name)
}

func TestParseWaypoints_Formula(t *testing.T) {
	wps := NewParser("").ParseWaypoints("(F-PLAIN) N 52 AB.CDE E 013 FG.HIJ A=1|B=2|")
	require.Len(t, wps, 1)

	wp := wps[0]
	assert.Nil(t, wp.Coords, "free variables keep the formula unresolved")
	require.NotNil(t, wp.CalcState)

	cs := wp.CalcState
	assert.Equal(t, formula.FormatPlain, cs.Format)
	assert.Equal(t, "N 52 AB.CDE", cs.PlainLat)
	assert.Equal(t, "E 013 FG.HIJ", cs.PlainLon)
	assert.Equal(t, []formula.Variable{
		{Name: "A", Expression: "1"},
		{Name: "B", Expression: "2"},
	}, cs.Equations)

	var free []string
	for _, v := range cs.FreeVariables {
		free = append(free, v.Name)
	}
	assert.Equal(t, []string{"C", "D", "E", "F", "G", "H", "I", "J"}, free)

	solved := cs.WithValues(map[string]string{
		"C": "3", "D": "4", "E": "5",
		"F": "1", "G": "2", "H": "3", "I": "4", "J": "5",
	})
	assert.Empty(t, solved.Unresolved())
	got, ok := solved.Evaluate()
	require.True(t, ok)
	assert.True(t, got.EqualsDecMinute(mustPoint(t, "N 52 12.345 E 013 12.345")))
}

func TestParseWaypoints_FormulaResolvedByEquations(t *testing.T) {
	wps := NewParser("").ParseWaypoints("@Final (F) (F-PLAIN) N 52 A.B E 013 C.D |A=1|B=5|C=2|D=5|")
	require.Len(t, wps, 1)

	wp := wps[0]
	assert.Equal(t, "Final", wp.Name)
	assert.Equal(t, model.TypeFinal, wp.Type)
	require.NotNil(t, wp.CalcState)
	assert.Empty(t, wp.CalcState.FreeVariables)
	require.NotNil(t, wp.Coords)
	assert.True(t, wp.Coords.EqualsDecMinute(mustPoint(t, "N 52 01.500 E 013 02.500")))
}

func TestParseWaypoints_FormulaWithNumericLatitude(t *testing.T) {
	wps := NewParser("").ParseWaypoints("(F-PLAIN) N 52 12.345 E 013 45.6CD |C=7|D=8|")
	require.Len(t, wps, 1, "the numeric head of the formula is not a coordinate")

	wp := wps[0]
	require.NotNil(t, wp.CalcState)
	assert.Equal(t, "N 52 12.345", wp.CalcState.PlainLat)
	assert.Equal(t, "E 013 45.6CD", wp.CalcState.PlainLon)
	require.NotNil(t, wp.Coords)
	assert.True(t, wp.Coords.EqualsDecMinute(mustPoint(t, "N 52 12.345 E 013 45.678")))
}

func TestParseWaypoints_FormulaMarkerWithoutFormula(t *testing.T) {
	wps := NewParser("").ParseWaypoints("(F-PLAIN) ask the owner")
	require.Len(t, wps, 1)
	assert.Nil(t, wps[0].CalcState)
	assert.Nil(t, wps[0].Coords)
	assert.Equal(t, "ask the owner", wps[0].UserNote)
}

func TestParseWaypoints_TypeInference(t *testing.T) {
	tests := []struct {
		name string
		text string
		want model.WaypointType
	}{
		{"enclosed code", "@Lot (P) N 52 00.000 E 013 00.000", model.TypeParking},
		{"enclosed code lower case", "@Lot (p) N 52 00.000 E 013 00.000", model.TypeParking},
		{"bare code as last word", "@Lot P N 52 00.000 E 013 00.000", model.TypeParking},
		{"code inside last word", "@Lot x(T) N 52 00.000 E 013 00.000", model.TypeTrailhead},
		{"long label", "Final Location: N 52 00.000 E 013 00.000", model.TypeFinal},
		{"new waypoint label", "the Stage is at N 52 00.000 E 013 00.000", model.TypeStage},
		{"internal id", "see pkg at N 52 00.000 E 013 00.000", model.TypeParking},
		{"internal id outside window", "puzzle box under the big old tree N 52 00.000 E 013 00.000", model.TypeWaypoint},
		{"label in upper case", "TRAILHEAD N 52 00.000 E 013 00.000", model.TypeTrailhead},
		{"label outside window", "Parking Area is far away from this point N 52 00.000 E 013 00.000", model.TypeWaypoint},
		{"fallback", "somewhere N 52 00.000 E 013 00.000", model.TypeWaypoint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wps := NewParser("").ParseWaypoints(tt.text)
			require.Len(t, wps, 1)
			assert.Equal(t, tt.want, wps[0].Type)
		})
	}
}

func TestParseWaypoints_TrailingShortCodeDropped(t *testing.T) {
	wps := NewParser("").ParseWaypoints("@Spot P N 52 00.000 E 013 00.000")
	require.Len(t, wps, 1)
	assert.Equal(t, model.TypeParking, wps[0].Type)
	assert.Equal(t, "Spot", wps[0].Name)
}

func TestParseWaypoints_TrailingLabelKept(t *testing.T) {
	// Only a trailing short code is removed from the name; a label that
	// decided the type stays.
	wps := NewParser("").ParseWaypoints("@Spot Parking N 52 00.000 E 013 00.000")
	require.Len(t, wps, 1)
	assert.Equal(t, model.TypeParking, wps[0].Type)
	assert.Equal(t, "Spot Parking", wps[0].Name)
}

func TestParseWaypoints_ShortCodeOfOtherTypeKept(t *testing.T) {
	wps := NewParser("").ParseWaypoints("@Spot P (F) N 52 00.000 E 013 00.000")
	require.Len(t, wps, 1)
	assert.Equal(t, model.TypeFinal, wps[0].Type)
	assert.Equal(t, "Spot P", wps[0].Name)
}

func TestParseWaypoints_NameRequiresMarker(t *testing.T) {
	wps := NewParser("WP").ParseWaypoints("Bridge N 52 00.000 E 013 00.000")
	require.Len(t, wps, 1)
	assert.Equal(t, "WP 1", wps[0].Name)
	assert.Empty(t, wps[0].Prefix)
}

func TestParseWaypoints_PrefixOnlyGetsGeneratedName(t *testing.T) {
	wps := NewParser("WP").ParseWaypoints("@[P1] (P) N 52 00.000 E 013 00.000")
	require.Len(t, wps, 1)
	assert.Equal(t, "P1", wps[0].Prefix)
	assert.Equal(t, "WP 1", wps[0].Name)
}

func TestParseWaypoints_Notes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"rest of line", "N 52 00.000 E 013 00.000 behind the tree\nnext line", "behind the tree"},
		{"delimited", `N 52 00.000 E 013 00.000 "behind the tree"`, "behind the tree"},
		{"escaped delimiter", `N 52 00.000 E 013 00.000 "the \"old\" tree \\ stump"`, `the "old" tree \ stump`},
		{"multi line", "N 52 00.000 E 013 00.000\n\"first\nsecond\"", "first\nsecond"},
		{"unterminated", `N 52 00.000 E 013 00.000 "runs to the end`, "runs to the end"},
		{"none", "N 52 00.000 E 013 00.000\nnext line", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wps := NewParser("").ParseWaypoints(tt.text)
			require.Len(t, wps, 1)
			assert.Equal(t, tt.want, wps[0].UserNote)
		})
	}
}

func TestParseWaypoints_BackupRegionFirst(t *testing.T) {
	text := "N 53 00.000 E 014 00.000\n" +
		BackupTagOpen + "@[B1]Backup (S) N 52 00.000 E 013 00.000" + BackupTagClose
	wps := NewParser("WP").ParseWaypoints(text)
	require.Len(t, wps, 2)

	assert.Equal(t, "Backup", wps[0].Name)
	assert.Equal(t, "B1", wps[0].Prefix)
	assert.Equal(t, model.TypeStage, wps[0].Type)
	assert.Equal(t, "WP 2", wps[1].Name)
}

func TestScan_PassOrder(t *testing.T) {
	text := "(F-PLAIN) N 52 A.B E 013 C.D\n(NO-COORD)\nN 52 00.000 E 013 00.000"
	matches := Scan(text)
	require.Len(t, matches, 3)
	assert.Equal(t, MatchResolved, matches[0].Kind)
	assert.Equal(t, MatchEmpty, matches[1].Kind)
	assert.Equal(t, MatchFormula, matches[2].Kind)
	assert.Equal(t, "formula", matches[2].Kind.String())
	assert.Equal(t, CoordEmpty, text[matches[1].Start:matches[1].End])
}
