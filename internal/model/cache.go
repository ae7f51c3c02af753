package model

import "time"

// Cache is the slice of a geocache this tool cares about: its personal note
// and whether waypoints may be extracted from it.
type Cache struct {
	Geocode                  string    `json:"geocode" yaml:"geocode"`
	PersonalNote             string    `json:"personalNote" yaml:"personal_note"`
	PreventWaypointsFromNote bool      `json:"preventWaypointsFromNote" yaml:"prevent_waypoints_from_note"`
	UpdatedAt                time.Time `json:"updatedAt" yaml:"updated_at"`
}
