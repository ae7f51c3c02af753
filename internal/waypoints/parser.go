package waypoints

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/sells-group/waypoint-cli/internal/formula"
	"github.com/sells-group/waypoint-cli/internal/model"
)

// Parser turns free text into waypoints. It holds only configuration and is
// safe for concurrent use; all per-call state lives in a parseRun.
type Parser struct {
	nameLabel string
	format    formula.Format
}

// Option configures a Parser.
type Option func(*Parser)

// WithFormulaFormat sets the input format for formulas after the
// "(F-PLAIN)" marker.
func WithFormulaFormat(f formula.Format) Option {
	return func(p *Parser) {
		p.format = f
	}
}

// NewParser creates a Parser. nameLabel names waypoints whose text carries no
// name: "<nameLabel> 1", "<nameLabel> 2", ...
func NewParser(nameLabel string, opts ...Option) *Parser {
	if strings.TrimSpace(nameLabel) == "" {
		nameLabel = defaultNameLabel
	}
	p := &Parser{nameLabel: nameLabel, format: formula.FormatPlain}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NameLabel returns the label used for generated names.
func (p *Parser) NameLabel() string {
	return p.nameLabel
}

// ParseWaypoints extracts all waypoints from text. Backup regions are read
// first; the rest of the text is scanned afterwards with the regions
// removed. It never fails: text without waypoints yields an empty result.
func (p *Parser) ParseWaypoints(text string) []model.Waypoint {
	run := &parseRun{
		parser: p,
		fold:   cases.Fold(),
		count:  1,
	}

	regions := backupRegions(text)
	for _, region := range regions {
		run.parseText(region)
	}
	run.parseText(removeBackupRegions(text))

	zap.L().Debug("waypoints: parsed text",
		zap.Int("backup_regions", len(regions)),
		zap.Int("waypoints", len(run.out)),
	)
	return run.out
}

// parseRun is the state of a single ParseWaypoints call.
type parseRun struct {
	parser *Parser
	fold   cases.Caser
	count  int
	out    []model.Waypoint
}

func (r *parseRun) parseText(text string) {
	for _, m := range Scan(text) {
		r.out = append(r.out, r.extract(m))
		r.count++
	}
}

func (r *parseRun) foldCase(s string) string {
	return r.fold.String(s)
}
