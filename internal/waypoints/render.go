package waypoints

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/waypoint-cli/internal/formula"
	"github.com/sells-group/waypoint-cli/internal/geopoint"
	"github.com/sells-group/waypoint-cli/internal/model"
)

// Render writes a waypoint as a single parseable entry. maxNoteSize limits
// the note: negative means unlimited, zero drops it, and a positive limit
// truncates longer notes and marks them with "...".
func Render(wp model.Waypoint, maxNoteSize int) string {
	var sb strings.Builder

	sb.WriteString(NameMarker)
	if !wp.UserDefined || wp.Prefix != "" {
		sb.WriteString(PrefixOpen + wp.Prefix + PrefixClose)
	}
	sb.WriteString(wp.Name)
	sb.WriteString(" ")
	sb.WriteString(TypeOpen + cases.Upper(language.Und).String(wp.Type.ShortCode()) + TypeClose)
	sb.WriteString(" ")

	switch {
	case wp.Coords != nil:
		sb.WriteString(wp.Coords.Format(geopoint.FormatDecMinuteShortRaw))
	case wp.CalcState != nil:
		sb.WriteString(renderFormula(wp.CalcState))
	default:
		sb.WriteString(CoordEmpty)
	}

	note := wp.UserNote
	if maxNoteSize != 0 && strings.TrimSpace(note) != "" {
		if maxNoteSize > 0 && runeLen(note) > maxNoteSize {
			note = truncateRunes(note, maxNoteSize) + NoteContinued
		}
		if strings.Contains(note, "\n") {
			sb.WriteString("\n")
		} else {
			sb.WriteString(" ")
		}
		sb.WriteString(delimit(note, NoteDelimiter, NoteEscape))
	}

	return sb.String()
}

// renderFormula writes "(F-PLAIN) <lat> <lon> |A=expr|B=expr|".
func renderFormula(cs *formula.CalcState) string {
	var sb strings.Builder
	sb.WriteString(CoordFormulaPlain)
	sb.WriteString(" ")
	sb.WriteString(cs.PlainLat)
	sb.WriteString(" ")
	sb.WriteString(cs.PlainLon)
	sb.WriteString(" ")

	var vars []formula.Variable
	vars = append(vars, cs.Equations...)
	vars = append(vars, cs.FreeVariables...)
	written := false
	for _, v := range vars {
		if v.Expression == "" {
			continue
		}
		if !written {
			sb.WriteRune(formula.VariableSeparator)
			written = true
		}
		sb.WriteString(v.Name + "=" + v.Expression)
		sb.WriteRune(formula.VariableSeparator)
	}
	return sb.String()
}

// RenderAll renders waypoints one per line, optionally wrapped in backup
// tags. With maxSize >= 0 the notes are shortened step by step until the
// text fits; ErrNoSolution is returned when even note-less output does not.
func RenderAll(wps []model.Waypoint, maxSize int, includeBackupTags bool) (string, error) {
	text := renderList(wps, -1, includeBackupTags)
	if maxSize < 0 || runeLen(text) <= maxSize {
		return text, nil
	}

	smallest := runeLen(text)
	for _, budget := range noteBudgets {
		text = renderList(wps, budget, includeBackupTags)
		size := runeLen(text)
		if size <= maxSize {
			zap.L().Debug("waypoints: shortened notes to fit",
				zap.Int("note_budget", budget),
				zap.Int("size", size),
				zap.Int("max_size", maxSize),
			)
			return text, nil
		}
		smallest = min(smallest, size)
	}
	return "", &SizeBudgetError{MaxSize: maxSize, Smallest: smallest}
}

func renderList(wps []model.Waypoint, maxNoteSize int, includeBackupTags bool) string {
	lines := make([]string, 0, len(wps))
	for _, wp := range wps {
		lines = append(lines, Render(wp, maxNoteSize))
	}
	text := strings.Join(lines, waypointSeparator)
	if includeBackupTags {
		text = BackupTagOpen + "\n" + text + "\n" + BackupTagClose
	}
	return text
}
