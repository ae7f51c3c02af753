// Package model defines the waypoint and cache types shared across the CLI.
package model

import (
	"github.com/sells-group/waypoint-cli/internal/formula"
	"github.com/sells-group/waypoint-cli/internal/geopoint"
)

// Waypoint is a named point of interest of a cache. It has resolved
// coordinates, a pending formula, or deliberately no coordinates.
type Waypoint struct {
	Name        string             `json:"name" yaml:"name"`
	Prefix      string             `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Type        WaypointType       `json:"type" yaml:"type"`
	Coords      *geopoint.Point    `json:"coords,omitempty" yaml:"coords,omitempty"`
	CalcState   *formula.CalcState `json:"calcState,omitempty" yaml:"calc_state,omitempty"`
	UserNote    string             `json:"userNote,omitempty" yaml:"user_note,omitempty"`
	UserDefined bool               `json:"userDefined" yaml:"user_defined"`
	// OriginalCoordsEmpty marks waypoints written with an explicit
	// "no coordinates" marker.
	OriginalCoordsEmpty bool `json:"originalCoordsEmpty,omitempty" yaml:"original_coords_empty,omitempty"`
}

// HasCoords reports whether the waypoint carries a resolved coordinate.
func (w Waypoint) HasCoords() bool {
	return w.Coords != nil
}

// Clone returns a deep copy.
func (w Waypoint) Clone() Waypoint {
	out := w
	if w.Coords != nil {
		c := *w.Coords
		out.Coords = &c
	}
	if w.CalcState != nil {
		cs := *w.CalcState
		cs.Equations = append([]formula.Variable(nil), w.CalcState.Equations...)
		cs.FreeVariables = append([]formula.Variable(nil), w.CalcState.FreeVariables...)
		out.CalcState = &cs
	}
	return out
}
