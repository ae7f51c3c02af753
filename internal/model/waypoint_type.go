package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// WaypointType is the closed set of waypoint kinds. The zero value is the
// generic waypoint.
type WaypointType int

// Waypoint types.
const (
	TypeWaypoint WaypointType = iota
	TypeFinal
	TypeParking
	TypePuzzle
	TypeStage
	TypeTrailhead
	TypeOriginal
)

type typeInfo struct {
	id               string
	shortCode        string
	label            string
	newWaypointLabel string
	rawName          string
}

var typeInfos = map[WaypointType]typeInfo{
	TypeWaypoint:  {id: "waypoint", shortCode: "W", label: "Reference Point", newWaypointLabel: "Waypoint", rawName: "WAYPOINT"},
	TypeFinal:     {id: "flag", shortCode: "F", label: "Final Location", newWaypointLabel: "Final", rawName: "FINAL"},
	TypeParking:   {id: "pkg", shortCode: "P", label: "Parking Area", newWaypointLabel: "Parking", rawName: "PARKING"},
	TypePuzzle:    {id: "puzzle", shortCode: "X", label: "Virtual Stage", newWaypointLabel: "Virtual", rawName: "PUZZLE"},
	TypeStage:     {id: "stage", shortCode: "S", label: "Physical Stage", newWaypointLabel: "Stage", rawName: "STAGE"},
	TypeTrailhead: {id: "trailhead", shortCode: "T", label: "Trailhead", newWaypointLabel: "Trailhead", rawName: "TRAILHEAD"},
	TypeOriginal:  {id: "original", shortCode: "H", label: "Original Coordinates", newWaypointLabel: "Original", rawName: "ORIGINAL"},
}

// AllTypes lists the registry in lookup order. Type detection scans it
// linearly, so the order decides ties.
var AllTypes = []WaypointType{
	TypeFinal,
	TypeParking,
	TypePuzzle,
	TypeStage,
	TypeTrailhead,
	TypeWaypoint,
	TypeOriginal,
}

func (t WaypointType) info() typeInfo {
	if info, ok := typeInfos[t]; ok {
		return info
	}
	return typeInfos[TypeWaypoint]
}

// ID is the internal identifier (e.g. "pkg").
func (t WaypointType) ID() string { return t.info().id }

// ShortCode is the one-letter code written in parentheses (e.g. "P").
func (t WaypointType) ShortCode() string { return t.info().shortCode }

// Label is the long localized label (e.g. "Parking Area").
func (t WaypointType) Label() string { return t.info().label }

// NewWaypointLabel is the shorter label used for new waypoints (e.g. "Parking").
func (t WaypointType) NewWaypointLabel() string { return t.info().newWaypointLabel }

// String returns the raw identifier (e.g. "PARKING").
func (t WaypointType) String() string { return t.info().rawName }

// MarshalText implements encoding.TextMarshaler.
func (t WaypointType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts a raw identifier, an internal id or a short code.
func (t *WaypointType) UnmarshalText(text []byte) error {
	parsed, err := ParseWaypointType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseWaypointType looks a type up by raw identifier, internal id or short
// code, case-insensitively.
func ParseWaypointType(s string) (WaypointType, error) {
	s = strings.TrimSpace(s)
	for _, t := range AllTypes {
		if strings.EqualFold(s, t.String()) || strings.EqualFold(s, t.ID()) || strings.EqualFold(s, t.ShortCode()) {
			return t, nil
		}
	}
	return TypeWaypoint, eris.Errorf("model: unknown waypoint type %q", s)
}
