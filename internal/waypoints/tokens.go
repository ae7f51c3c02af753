// Package waypoints extracts waypoints from free-form cache notes and writes
// them back in a grammar the extractor reads losslessly.
//
// A rendered waypoint looks like
//
//	@[PK]Parking lot (P) N 52 12.345 E 013 12.345 "gravel, free"
//
// and a block of them may be wrapped in backup tags, which the parser reads
// before anything else in the text.
package waypoints

// Grammar tokens. These are persisted inside user notes and must not change.
const (
	NameMarker        = "@"
	PrefixOpen        = "["
	PrefixClose       = "]"
	TypeOpen          = "("
	TypeClose         = ")"
	CoordEmpty        = "(NO-COORD)"
	CoordFormulaPlain = "(F-PLAIN)"
	NoteDelimiter     = '"'
	NoteEscape        = '\\'
	NoteContinued     = "..."
	BackupTagOpen     = "{c:geo-start}"
	BackupTagClose    = "{c:geo-end}"
)

const (
	// typeWindowRunes is how far back type labels are searched.
	typeWindowRunes   = 20
	defaultNameLabel  = "Personal note"
	waypointSeparator = "\n"
	embedSeparator    = "\n\n"
)

// noteBudgets is the strictly decreasing sequence of per-waypoint note
// lengths tried when a rendering exceeds its size limit.
var noteBudgets = []int{50, 40, 30, 20, 10, 0}
