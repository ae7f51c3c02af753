package waypoints

import (
	"strings"

	"github.com/sells-group/waypoint-cli/internal/geopoint"
)

// MatchKind tells which scan pass produced a Match.
type MatchKind int

// Scan passes, in the order they run.
const (
	MatchResolved MatchKind = iota
	MatchEmpty
	MatchFormula
)

func (k MatchKind) String() string {
	switch k {
	case MatchResolved:
		return "resolved"
	case MatchEmpty:
		return "empty"
	case MatchFormula:
		return "formula"
	default:
		return "unknown"
	}
}

// Match is one scan hit. Start and End are byte offsets into Text, End
// exclusive. Point is set only for resolved matches.
type Match struct {
	Kind  MatchKind
	Point *geopoint.Point
	Start int
	End   int
	Text  string
}

// Scan runs the three passes over text and returns their union: resolved
// coordinates first, then empty markers, then formula markers. Passes do not
// exclude each other.
func Scan(text string) []Match {
	var matches []Match
	for _, m := range geopoint.ParseAll(text) {
		p := m.Point
		matches = append(matches, Match{Kind: MatchResolved, Point: &p, Start: m.Start, End: m.End, Text: text})
	}
	matches = append(matches, scanLiteral(text, CoordEmpty, MatchEmpty)...)
	matches = append(matches, scanLiteral(text, CoordFormulaPlain, MatchFormula)...)
	return matches
}

// scanLiteral finds every non-overlapping occurrence of token.
func scanLiteral(text, token string, kind MatchKind) []Match {
	var matches []Match
	from := 0
	for {
		i := strings.Index(text[from:], token)
		if i < 0 {
			return matches
		}
		start := from + i
		end := start + len(token)
		matches = append(matches, Match{Kind: kind, Start: start, End: end, Text: text})
		from = end
	}
}
