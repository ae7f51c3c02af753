package formula

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"

	"github.com/sells-group/waypoint-cli/internal/geopoint"
)

// Variable is a named single-character variable with its expression. Free
// variables carry an empty expression until the user supplies a value.
type Variable struct {
	Name       string `json:"name" yaml:"name"`
	Expression string `json:"expression,omitempty" yaml:"expression,omitempty"`
}

// CalcState is the stored form of a coordinate formula.
type CalcState struct {
	Format        Format     `json:"format" yaml:"format"`
	PlainLat      string     `json:"plainLat" yaml:"plain_lat"`
	PlainLon      string     `json:"plainLon" yaml:"plain_lon"`
	Equations     []Variable `json:"equations,omitempty" yaml:"equations,omitempty"`
	FreeVariables []Variable `json:"freeVariables,omitempty" yaml:"free_variables,omitempty"`
}

// NewCalcState builds a calc state from raw formula text and the variables
// written next to it. Variables with an expression become equations (first
// definition wins); every other letter referenced by the formula or by an
// equation becomes a free variable, in order of first appearance.
func NewCalcState(format Format, lat, lon string, vars []Variable) *CalcState {
	cs := &CalcState{Format: format, PlainLat: lat, PlainLon: lon}

	defined := make(map[string]bool)
	for _, v := range vars {
		expr := strings.TrimSpace(v.Expression)
		if expr == "" || defined[v.Name] {
			continue
		}
		defined[v.Name] = true
		cs.Equations = append(cs.Equations, Variable{Name: v.Name, Expression: expr})
	}

	seen := make(map[string]bool)
	collect := func(expr string) {
		for _, name := range referencedVariables(expr) {
			if defined[name] || seen[name] {
				continue
			}
			seen[name] = true
			cs.FreeVariables = append(cs.FreeVariables, Variable{Name: name})
		}
	}
	collect(stripHemisphere(lat))
	collect(stripHemisphere(lon))
	for _, eq := range cs.Equations {
		collect(eq.Expression)
	}

	return cs
}

// Evaluate resolves the formula with the current variables.
func (cs *CalcState) Evaluate() (geopoint.Point, bool) {
	if cs == nil {
		return geopoint.Point{}, false
	}
	return Evaluate(cs.Equations, cs.FreeVariables, cs.PlainLat, cs.PlainLon)
}

// WithValues returns a copy whose free variables take the given values.
// Unknown names are ignored.
func (cs *CalcState) WithValues(values map[string]string) *CalcState {
	out := *cs
	out.Equations = append([]Variable(nil), cs.Equations...)
	out.FreeVariables = make([]Variable, len(cs.FreeVariables))
	for i, v := range cs.FreeVariables {
		if val, ok := values[v.Name]; ok {
			v.Expression = strings.TrimSpace(val)
		}
		out.FreeVariables[i] = v
	}
	return &out
}

// Unresolved lists the free variables that still lack a value.
func (cs *CalcState) Unresolved() []string {
	var names []string
	for _, v := range cs.FreeVariables {
		if strings.TrimSpace(v.Expression) == "" {
			names = append(names, v.Name)
		}
	}
	return names
}

// MarshalJSONString encodes the calc state for storage.
func (cs *CalcState) MarshalJSONString() (string, error) {
	data, err := json.Marshal(cs)
	if err != nil {
		return "", eris.Wrap(err, "formula: marshal calc state")
	}
	return string(data), nil
}

// CalcStateFromJSON decodes a stored calc state.
func CalcStateFromJSON(data string) (*CalcState, error) {
	var cs CalcState
	if err := json.Unmarshal([]byte(data), &cs); err != nil {
		return nil, eris.Wrap(err, "formula: unmarshal calc state")
	}
	return &cs, nil
}

// referencedVariables returns every letter used in expr, in order, with
// duplicates.
func referencedVariables(expr string) []string {
	var names []string
	for _, r := range expr {
		if isVariable(r) {
			names = append(names, string(r))
		}
	}
	return names
}

func isVariable(r rune) bool {
	return r < unicode.MaxASCII && unicode.IsLetter(r)
}

// stripHemisphere drops the leading N/S/E/W of a formula half.
func stripHemisphere(half string) string {
	trimmed := strings.TrimSpace(half)
	if trimmed == "" {
		return trimmed
	}
	if isHemisphere(rune(trimmed[0])) {
		return trimmed[1:]
	}
	return trimmed
}
