// Package formula implements the plain coordinate-formula grammar used for
// puzzle waypoints ("N 52 AB.CDE E 013 FG.HIJ") and its evaluator.
package formula

import (
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
)

// VariableSeparator separates "X=expr" segments written after a formula.
const VariableSeparator = '|'

// ErrNoFormula is returned when no formula starts at the requested offset.
var ErrNoFormula = eris.New("formula: no formula found")

// Format is the coordinate input format a formula is written in.
type Format int

// Supported formats.
const (
	// FormatPlain is free text per half: hemisphere, degrees, minutes.
	FormatPlain Format = iota
)

var formatNames = map[Format]string{
	FormatPlain: "plain",
}

// String returns the configuration name of the format.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseFormat maps a configuration name to a Format.
func ParseFormat(name string) (Format, error) {
	for f, n := range formatNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return f, nil
		}
	}
	return 0, eris.Errorf("formula: unknown format %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Parsed describes a formula found in a text. Start and End are byte offsets
// into the text passed to TryParse, End exclusive.
type Parsed struct {
	Start int
	End   int
	Lat   string
	Lon   string
}

// TryParse reads a formula starting at offset (leading blanks are skipped).
// Each half is a hemisphere letter followed by a degrees and a minutes
// expression; bracketed sub-expressions may contain blanks.
func TryParse(text string, offset int, format Format) (Parsed, error) {
	if format != FormatPlain {
		return Parsed{}, eris.Errorf("formula: unsupported format %s", format)
	}
	if offset < 0 || offset > len(text) {
		return Parsed{}, eris.Wrapf(ErrNoFormula, "formula: offset %d out of range", offset)
	}

	latStart := skipBlanks(text, offset)
	latEnd, ok := parseHalf(text, latStart, "NS")
	if !ok {
		return Parsed{}, eris.Wrap(ErrNoFormula, "formula: latitude")
	}

	lonStart := skipBlanks(text, latEnd)
	if lonStart == latEnd {
		return Parsed{}, eris.Wrap(ErrNoFormula, "formula: missing separator")
	}
	lonEnd, ok := parseHalf(text, lonStart, "EW")
	if !ok {
		return Parsed{}, eris.Wrap(ErrNoFormula, "formula: longitude")
	}

	return Parsed{
		Start: latStart,
		End:   lonEnd,
		Lat:   text[latStart:latEnd],
		Lon:   text[lonStart:lonEnd],
	}, nil
}

// parseHalf consumes "<hemisphere> <degrees> <minutes>" and returns the end
// offset.
func parseHalf(text string, pos int, hemispheres string) (int, bool) {
	if pos >= len(text) || !strings.ContainsRune(hemispheres, rune(text[pos])) {
		return pos, false
	}
	pos = skipBlanks(text, pos+1)

	degEnd := scanToken(text, pos)
	if degEnd == pos {
		return pos, false
	}
	minStart := skipBlanks(text, degEnd)
	if minStart == degEnd {
		return pos, false
	}
	minEnd := scanToken(text, minStart)
	if minEnd == minStart {
		return pos, false
	}
	return minEnd, true
}

// scanToken returns the end of the expression token starting at pos, or pos
// when there is none. Blanks are allowed only inside brackets.
func scanToken(text string, pos int) int {
	depth := 0
	i := pos
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case r == '\n' || r == '\r':
			return closeToken(pos, i, depth)
		case r == '(' || r == '[':
			depth++
		case r == ')' || r == ']':
			if depth == 0 {
				return closeToken(pos, i, depth)
			}
			depth--
		case r == ' ' || r == '\t':
			if depth == 0 {
				return closeToken(pos, i, depth)
			}
		case !isExpressionRune(r):
			return closeToken(pos, i, depth)
		}
		i += size
	}
	return closeToken(pos, i, depth)
}

func closeToken(start, end, depth int) int {
	if depth != 0 {
		return start
	}
	return end
}

func isExpressionRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9', isVariable(r):
		return true
	}
	return strings.ContainsRune(".,+-*/^%°'′:", r)
}

func isHemisphere(r rune) bool {
	return r == 'N' || r == 'S' || r == 'E' || r == 'W'
}

func skipBlanks(text string, pos int) int {
	for pos < len(text) && (text[pos] == ' ' || text[pos] == '\t') {
		pos++
	}
	return pos
}
