package store

import (
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"

	"github.com/sells-group/waypoint-cli/internal/formula"
	"github.com/sells-group/waypoint-cli/internal/geopoint"
	"github.com/sells-group/waypoint-cli/internal/model"
)

// waypointColumns is the column order used by inserts and selects.
var waypointColumns = []string{
	"id", "geocode", "position", "name", "prefix", "wp_type",
	"coords", "calc_state", "user_note", "user_defined", "original_coords_empty",
}

// waypointRow is the database form of a waypoint.
type waypointRow struct {
	ID                  string
	Geocode             string
	Position            int
	Name                string
	Prefix              string
	Type                string
	Coords              []byte
	CalcState           string
	UserNote            string
	UserDefined         bool
	OriginalCoordsEmpty bool
}

func toRow(geocode string, position int, wp model.Waypoint) (waypointRow, error) {
	coords, err := encodeCoords(wp.Coords)
	if err != nil {
		return waypointRow{}, err
	}

	var calcState string
	if wp.CalcState != nil {
		calcState, err = wp.CalcState.MarshalJSONString()
		if err != nil {
			return waypointRow{}, eris.Wrapf(err, "store: waypoint %q", wp.Name)
		}
	}

	return waypointRow{
		ID:                  uuid.New().String(),
		Geocode:             geocode,
		Position:            position,
		Name:                wp.Name,
		Prefix:              wp.Prefix,
		Type:                wp.Type.String(),
		Coords:              coords,
		CalcState:           calcState,
		UserNote:            wp.UserNote,
		UserDefined:         wp.UserDefined,
		OriginalCoordsEmpty: wp.OriginalCoordsEmpty,
	}, nil
}

// values returns the row in waypointColumns order. An empty calc state is
// stored as NULL.
func (r waypointRow) values() []any {
	var calcState any
	if r.CalcState != "" {
		calcState = r.CalcState
	}
	var coords any
	if len(r.Coords) > 0 {
		coords = r.Coords
	}
	return []any{
		r.ID, r.Geocode, r.Position, r.Name, r.Prefix, r.Type,
		coords, calcState, r.UserNote, r.UserDefined, r.OriginalCoordsEmpty,
	}
}

func (r waypointRow) toWaypoint() (model.Waypoint, error) {
	wpType, err := model.ParseWaypointType(r.Type)
	if err != nil {
		return model.Waypoint{}, eris.Wrapf(err, "store: waypoint %s", r.ID)
	}

	coords, err := decodeCoords(r.Coords)
	if err != nil {
		return model.Waypoint{}, eris.Wrapf(err, "store: waypoint %s", r.ID)
	}

	wp := model.Waypoint{
		Name:                r.Name,
		Prefix:              r.Prefix,
		Type:                wpType,
		Coords:              coords,
		UserNote:            r.UserNote,
		UserDefined:         r.UserDefined,
		OriginalCoordsEmpty: r.OriginalCoordsEmpty,
	}
	if r.CalcState != "" {
		wp.CalcState, err = formula.CalcStateFromJSON(r.CalcState)
		if err != nil {
			return model.Waypoint{}, eris.Wrapf(err, "store: waypoint %s", r.ID)
		}
	}
	return wp, nil
}

// encodeCoords converts a point to EWKB bytes with SRID 4326.
func encodeCoords(p *geopoint.Point) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	data, err := ewkb.Marshal(p.ToGeom(), ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "store: encode EWKB")
	}
	return data, nil
}

func decodeCoords(data []byte) (*geopoint.Point, error) {
	if len(data) == 0 {
		return nil, nil
	}
	g, err := ewkb.Unmarshal(data)
	if err != nil {
		return nil, eris.Wrap(err, "store: decode EWKB")
	}
	pt, ok := g.(*geom.Point)
	if !ok {
		return nil, eris.Errorf("store: expected point geometry, got %T", g)
	}
	p, err := geopoint.FromGeom(pt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
