package waypoints

import (
	"fmt"
	"strings"

	"github.com/sells-group/waypoint-cli/internal/model"
)

// extract builds a waypoint from a match and the text around it.
func (r *parseRun) extract(m Match) model.Waypoint {
	words := strings.Fields(lineBefore(m.Text, m.Start))
	lastWord := ""
	if len(words) > 0 {
		lastWord = words[len(words)-1]
	}

	wpType := r.inferType(lastRunes(m.Text, m.Start, typeWindowRunes), lastWord)

	name, prefix := r.nameAndPrefix(words, wpType)
	if name == "" {
		name = fmt.Sprintf("%s %d", r.parser.nameLabel, r.count)
	}

	wp := model.Waypoint{
		Name:        name,
		Prefix:      prefix,
		Type:        wpType,
		Coords:      m.Point,
		UserDefined: true,
	}

	after := m.Text[m.End:]
	switch m.Kind {
	case MatchEmpty:
		wp.OriginalCoordsEmpty = true
	case MatchFormula:
		cs, rest := r.parseFormula(after)
		if cs != nil {
			wp.CalcState = cs
			if p, ok := cs.Evaluate(); ok {
				wp.Coords = &p
			}
		}
		after = rest
	}

	if note := strings.TrimSpace(parseUserNote(after)); note != "" {
		wp.UserNote = note
	}
	return wp
}

// inferType detects the waypoint type from the text before a match. window
// is the short stretch right before the match, lastWord the word touching it.
// The first rule that fires wins:
//  1. the last "(x)" in window with x a short code
//  2. lastWord is a short code or contains "(code)"
//  3. window contains a long label
//  4. window contains a new-waypoint label
//  5. window contains an internal id
//  6. window contains a raw identifier
func (r *parseRun) inferType(window, lastWord string) model.WaypointType {
	w := r.foldCase(window)
	lw := r.foldCase(lastWord)

	if code, ok := enclosedCode(w); ok {
		for _, t := range model.AllTypes {
			if code == r.foldCase(t.ShortCode()) {
				return t
			}
		}
	}

	for _, t := range model.AllTypes {
		code := r.foldCase(t.ShortCode())
		if lw == code || strings.Contains(lw, TypeOpen+code+TypeClose) {
			return t
		}
	}

	// Long labels go before the short ones so "Parking Area" is not read as
	// something shorter it contains.
	lookups := []func(model.WaypointType) string{
		model.WaypointType.Label,
		model.WaypointType.NewWaypointLabel,
		model.WaypointType.ID,
		model.WaypointType.String,
	}
	for _, lookup := range lookups {
		for _, t := range model.AllTypes {
			if strings.Contains(w, r.foldCase(lookup(t))) {
				return t
			}
		}
	}

	return model.TypeWaypoint
}

// enclosedCode returns x for the last "(x)" in s when x is one character.
func enclosedCode(s string) (string, bool) {
	closeIdx := strings.LastIndex(s, TypeClose)
	if closeIdx <= 0 {
		return "", false
	}
	openIdx := strings.LastIndex(s[:closeIdx], TypeOpen)
	if openIdx < 0 || openIdx+len(TypeOpen)+1 != closeIdx {
		return "", false
	}
	return s[closeIdx-1 : closeIdx], true
}

// nameAndPrefix reads "@[prefix]name more words" from the words before a
// match. Both are empty unless the line starts with the name marker.
func (r *parseRun) nameAndPrefix(words []string, wpType model.WaypointType) (string, string) {
	if len(words) == 0 || !strings.HasPrefix(words[0], NameMarker) {
		return "", ""
	}

	seed := strings.TrimPrefix(words[0], NameMarker)
	prefix := ""
	if idx := strings.Index(seed, PrefixClose); idx > 0 && strings.HasPrefix(seed, PrefixOpen) {
		prefix = strings.TrimSpace(seed[len(PrefixOpen):idx])
		seed = seed[idx+len(PrefixClose):]
	}

	var parts []string
	if seed != "" {
		parts = append(parts, seed)
	}
	for i := 1; i < len(words); i++ {
		if r.useWordForName(words[i], i == len(words)-1, wpType) {
			parts = append(parts, words[i])
		}
	}
	return strings.TrimSpace(strings.Join(parts, " ")), prefix
}

// useWordForName drops fully parenthesized words (the type annotation) and a
// trailing bare short code of the detected type.
func (r *parseRun) useWordForName(word string, isLast bool, wpType model.WaypointType) bool {
	if strings.TrimSpace(word) == "" {
		return false
	}
	if strings.HasPrefix(word, TypeOpen) && strings.HasSuffix(word, TypeClose) {
		return false
	}
	return !(isLast && r.foldCase(word) == r.foldCase(wpType.ShortCode()))
}

// parseUserNote reads the note following a coordinate: a delimited value
// when the text starts with a quote, otherwise the rest of the line.
func parseUserNote(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, string(NoteDelimiter)) {
		return nextDelimited(trimmed, NoteDelimiter, NoteEscape)
	}
	return untilLineBreak(text)
}
