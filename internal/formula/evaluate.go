package formula

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/waypoint-cli/internal/geopoint"
)

var (
	errUnresolved = eris.New("formula: unresolved variable")
	errCycle      = eris.New("formula: cyclic variable definition")
	errSyntax     = eris.New("formula: syntax error")
)

// Evaluate resolves a formula to a coordinate using the equations and any
// free variables that already carry a value. It reports false when a
// variable is missing or the result is not a valid coordinate.
func Evaluate(equations, freeVariables []Variable, lat, lon string) (geopoint.Point, bool) {
	env := newEnv(equations, freeVariables)

	latVal, err := env.half(lat, "NS")
	if err != nil {
		return geopoint.Point{}, false
	}
	lonVal, err := env.half(lon, "EW")
	if err != nil {
		return geopoint.Point{}, false
	}

	p, err := geopoint.New(latVal, lonVal)
	if err != nil {
		return geopoint.Point{}, false
	}
	return p, true
}

// env resolves variables lazily; values are memoized per evaluation.
type env struct {
	exprs    map[string]string
	values   map[string]float64
	visiting map[string]bool
}

func newEnv(equations, freeVariables []Variable) *env {
	e := &env{
		exprs:    make(map[string]string),
		values:   make(map[string]float64),
		visiting: make(map[string]bool),
	}
	for _, list := range [][]Variable{equations, freeVariables} {
		for _, v := range list {
			expr := strings.TrimSpace(v.Expression)
			if expr == "" {
				continue
			}
			if _, ok := e.exprs[v.Name]; !ok {
				e.exprs[v.Name] = expr
			}
		}
	}
	return e
}

func (e *env) lookup(name string) (float64, error) {
	if v, ok := e.values[name]; ok {
		return v, nil
	}
	if e.visiting[name] {
		return 0, eris.Wrapf(errCycle, "formula: variable %s", name)
	}
	expr, ok := e.exprs[name]
	if !ok {
		return 0, eris.Wrapf(errUnresolved, "formula: variable %s", name)
	}

	e.visiting[name] = true
	defer delete(e.visiting, name)

	v, err := e.expression(expr)
	if err != nil {
		return 0, err
	}
	e.values[name] = v
	return v, nil
}

// half evaluates "<hemisphere> <deg> [<min> [<sec>]]" to a signed angle.
func (e *env) half(text, hemispheres string) (float64, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || !strings.ContainsRune(hemispheres, rune(trimmed[0])) {
		return 0, eris.Wrapf(errSyntax, "formula: hemisphere in %q", text)
	}

	parts := splitTopLevel(trimmed[1:])
	if len(parts) == 0 || len(parts) > 3 {
		return 0, eris.Wrapf(errSyntax, "formula: parts in %q", text)
	}

	var angle float64
	for i, part := range parts {
		v, err := e.token(part)
		if err != nil {
			return 0, err
		}
		if v < 0 || (i > 0 && v >= 60) {
			return 0, eris.Wrapf(errSyntax, "formula: component %q out of range", part)
		}
		angle += v / math.Pow(60, float64(i))
	}

	if trimmed[0] == 'S' || trimmed[0] == 'W' {
		angle = -angle
	}
	return angle, nil
}

// token evaluates a degrees/minutes/seconds token. Without top-level
// operators the token is read as a digit string where variables and
// bracketed groups contribute their integer digits ("AB.C" with A=1, B=2,
// C=3 is 12.3). With operators it is an arithmetic expression.
func (e *env) token(tok string) (float64, error) {
	tok = strings.NewReplacer("°", "", "'", "", "′", "", "″", "").Replace(tok)
	if tok == "" {
		return 0, eris.Wrap(errSyntax, "formula: empty token")
	}
	if hasTopLevelOperator(tok) {
		return e.expression(tok)
	}
	digits, err := e.concat(tok)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(digits, ",", "."), 64)
	if err != nil {
		return 0, eris.Wrapf(errSyntax, "formula: number %q", digits)
	}
	return v, nil
}

// concat expands variables and bracket groups into a digit string.
func (e *env) concat(tok string) (string, error) {
	var sb strings.Builder
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		switch {
		case c >= '0' && c <= '9', c == '.', c == ',':
			sb.WriteByte(c)
		case isVariable(rune(c)):
			v, err := e.lookup(string(c))
			if err != nil {
				return "", err
			}
			s, err := digitsOf(v)
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
		case c == '(' || c == '[':
			end := matchingBracket(tok, i)
			if end < 0 {
				return "", eris.Wrapf(errSyntax, "formula: unbalanced %q", tok)
			}
			v, err := e.expression(tok[i+1 : end])
			if err != nil {
				return "", err
			}
			sb.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
			i = end
		default:
			return "", eris.Wrapf(errSyntax, "formula: unexpected %q in %q", c, tok)
		}
	}
	return sb.String(), nil
}

// digitsOf renders a variable value for concatenation; only non-negative
// integers qualify.
func digitsOf(v float64) (string, error) {
	if v < 0 || v != math.Trunc(v) || math.IsInf(v, 0) {
		return "", eris.Wrapf(errSyntax, "formula: %v is not a digit value", v)
	}
	return strconv.FormatFloat(v, 'f', 0, 64), nil
}

func hasTopLevelOperator(tok string) bool {
	depth := 0
	for i := 0; i < len(tok); i++ {
		switch tok[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case '+', '-', '*', '/', '^', '%', ':':
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

func matchingBracket(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitTopLevel splits on blanks outside brackets.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		}
		blank := (c == ' ' || c == '\t') && depth == 0
		if blank {
			if start >= 0 {
				parts = append(parts, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		parts = append(parts, s[start:])
	}
	return parts
}
