package waypoints

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/waypoint-cli/internal/formula"
)

func TestScanVariables(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantVars []formula.Variable
		wantRest string
	}{
		{
			name:     "leading separator",
			text:     "|A=1|B=2|",
			wantVars: []formula.Variable{{Name: "A", Expression: "1"}, {Name: "B", Expression: "2"}},
		},
		{
			name:     "without leading separator",
			text:     "A=1|B = 2 + 3|",
			wantVars: []formula.Variable{{Name: "A", Expression: "1"}, {Name: "B", Expression: "2 + 3"}},
		},
		{
			name:     "empty expression dropped",
			text:     "|A=|B=2|",
			wantVars: []formula.Variable{{Name: "B", Expression: "2"}},
		},
		{
			name:     "note follows",
			text:     `|A=1| "a note"`,
			wantVars: []formula.Variable{{Name: "A", Expression: "1"}},
			wantRest: ` "a note"`,
		},
		{
			name:     "stops at line break",
			text:     "A=1\nB=2|",
			wantVars: []formula.Variable{{Name: "A", Expression: "1"}},
			wantRest: "\nB=2|",
		},
		{
			name:     "not an equation",
			text:     "B|C=1|",
			wantRest: "B|C=1|",
		},
		{
			name:     "quoted text is no variable",
			text:     `"=x"`,
			wantRest: `"=x"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars, rest := scanVariables(tt.text)
			assert.Equal(t, tt.wantVars, vars)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}
