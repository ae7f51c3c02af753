package waypoints

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/sells-group/waypoint-cli/internal/formula"
)

// parseFormula reads the formula and its variable list after a formula
// marker. It returns the calc state, or nil when no formula follows, and the
// text left for the user note.
func (r *parseRun) parseFormula(text string) (*formula.CalcState, string) {
	parsed, err := formula.TryParse(text, 0, r.parser.format)
	if err != nil {
		zap.L().Debug("waypoints: formula marker without formula", zap.Error(err))
		return nil, text
	}

	vars, rest := scanVariables(strings.TrimSpace(text[parsed.End:]))
	return formula.NewCalcState(r.parser.format, parsed.Lat, parsed.Lon, vars), rest
}

// scanVariables consumes "|A=1|B=2|" style segments. Scanning stops at the
// first segment that is not an equation, and after a segment closed by a line
// break.
func scanVariables(text string) ([]formula.Variable, string) {
	var vars []formula.Variable
	rest := text
	for rest != "" {
		seg, next, byLine := rest, "", true
		if end := strings.IndexAny(rest, string(formula.VariableSeparator)+"\n"); end >= 0 {
			seg = rest[:end]
			if rest[end] == byte(formula.VariableSeparator) {
				next, byLine = rest[end+1:], false
			} else {
				next = rest[end:]
			}
		}

		if seg == "" && !byLine {
			rest = next
			continue
		}
		name, expr, ok := splitEquation(seg)
		if !ok {
			break
		}
		if expr != "" {
			vars = append(vars, formula.Variable{Name: name, Expression: expr})
		}
		rest = next
		if byLine {
			break
		}
	}
	return vars, rest
}

// splitEquation splits "X=expr". The name must be a single ASCII letter.
func splitEquation(seg string) (string, string, bool) {
	name, expr, found := strings.Cut(seg, "=")
	if !found {
		return "", "", false
	}
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) != 1 || !isASCIILetter(name[0]) {
		return "", "", false
	}
	return name, strings.TrimSpace(expr), true
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
