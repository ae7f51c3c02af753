package waypoints

import (
	"reflect"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/waypoint-cli/internal/model"
)

// Merge folds parsed waypoints into existing ones and reports whether
// anything changed. A parsed waypoint updates the existing waypoint with the
// same prefix; without a prefix it updates one at the same coordinates, or
// else one with the same name and type. Unmatched waypoints are appended.
// nameLabel identifies generated names, which a real name may replace.
func Merge(existing, parsed []model.Waypoint, nameLabel string) ([]model.Waypoint, bool) {
	out := make([]model.Waypoint, 0, len(existing)+len(parsed))
	for _, wp := range existing {
		out = append(out, wp.Clone())
	}

	changed := false
	for _, wp := range parsed {
		idx := findWaypoint(out, wp)
		if idx < 0 {
			out = append(out, wp.Clone())
			changed = true
			continue
		}
		if mergeInto(&out[idx], wp, nameLabel) {
			changed = true
		}
	}
	return out, changed
}

func findWaypoint(wps []model.Waypoint, wp model.Waypoint) int {
	if wp.Prefix != "" {
		for i := range wps {
			if wps[i].Prefix == wp.Prefix {
				return i
			}
		}
		return -1
	}

	if wp.Coords != nil {
		for i := range wps {
			if wps[i].Coords != nil && wps[i].Coords.EqualsDecMinute(*wp.Coords) {
				return i
			}
		}
	}

	for i := range wps {
		if wps[i].Name == wp.Name && wps[i].Type.Label() == wp.Type.Label() {
			return i
		}
	}
	return -1
}

func mergeInto(dst *model.Waypoint, src model.Waypoint, nameLabel string) bool {
	changed := false

	if isGeneratedName(dst.Name, nameLabel) && !isGeneratedName(src.Name, nameLabel) && src.Name != "" {
		dst.Name = src.Name
		changed = true
	}
	if dst.Type == model.TypeWaypoint && src.Type != model.TypeWaypoint {
		dst.Type = src.Type
		changed = true
	}

	if src.Coords != nil && (dst.Coords == nil || !dst.Coords.EqualsDecMinute(*src.Coords)) {
		if dst.Coords != nil {
			zap.L().Debug("waypoints: coordinates moved",
				zap.String("name", dst.Name),
				zap.Float64("meters", dst.Coords.DistanceMeters(*src.Coords)),
			)
		}
		p := *src.Coords
		dst.Coords = &p
		dst.OriginalCoordsEmpty = false
		changed = true
	} else if src.OriginalCoordsEmpty && dst.Coords == nil && !dst.OriginalCoordsEmpty {
		dst.OriginalCoordsEmpty = true
		changed = true
	}

	if src.CalcState != nil && !reflect.DeepEqual(dst.CalcState, src.CalcState) {
		dst.CalcState = src.Clone().CalcState
		changed = true
	}

	if src.UserNote != "" && src.UserNote != dst.UserNote && !isTruncationOf(src.UserNote, dst.UserNote) {
		dst.UserNote = src.UserNote
		changed = true
	}

	return changed
}

func isGeneratedName(name, nameLabel string) bool {
	return name == "" || strings.HasPrefix(name, nameLabel+" ")
}

// isTruncationOf reports whether note is full cut short by a bounded render.
func isTruncationOf(note, full string) bool {
	if !strings.HasSuffix(note, NoteContinued) {
		return false
	}
	return strings.HasPrefix(full, strings.TrimSuffix(note, NoteContinued))
}
