package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/twpayne/go-geom/encoding/geojson"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/waypoint-cli/internal/formula"
	"github.com/sells-group/waypoint-cli/internal/model"
	"github.com/sells-group/waypoint-cli/internal/waypoints"
)

// Output formats for parsed waypoints.
const (
	formatText    = "text"
	formatYAML    = "yaml"
	formatGeoJSON = "geojson"
)

// newParser builds a parser from the loaded configuration.
func newParser() (*waypoints.Parser, error) {
	f, err := formula.ParseFormat(cfg.Parser.CoordFormat)
	if err != nil {
		return nil, err
	}
	return waypoints.NewParser(cfg.Parser.NameLabel, waypoints.WithFormulaFormat(f)), nil
}

// readNote reads a note from a file, or from stdin when path is "-".
func readNote(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", eris.Wrap(err, "read stdin")
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", eris.Wrapf(err, "read note %s", path)
	}
	return string(data), nil
}

// readWaypointsFile loads a YAML list of waypoints.
func readWaypointsFile(path string) ([]model.Waypoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read waypoints %s", path)
	}
	var wps []model.Waypoint
	if err := yaml.Unmarshal(data, &wps); err != nil {
		return nil, eris.Wrapf(err, "decode waypoints %s", path)
	}
	return wps, nil
}

// intFlagOr returns the flag value if it was set, otherwise fallback.
func intFlagOr(cmd *cobra.Command, name string, fallback int) int {
	if cmd.Flags().Changed(name) {
		v, err := cmd.Flags().GetInt(name)
		if err == nil {
			return v
		}
	}
	return fallback
}

func boolFlagOr(cmd *cobra.Command, name string, fallback bool) bool {
	if cmd.Flags().Changed(name) {
		v, err := cmd.Flags().GetBool(name)
		if err == nil {
			return v
		}
	}
	return fallback
}

// parsedNote is the parse result of one input.
type parsedNote struct {
	Source    string           `yaml:"source" json:"source"`
	Waypoints []model.Waypoint `yaml:"waypoints" json:"waypoints"`
}

// writeParsed prints parse results in the requested format. maxNoteSize
// limits user notes in the text format; negative means unlimited.
func writeParsed(w io.Writer, notes []parsedNote, format string, maxNoteSize int) error {
	switch strings.ToLower(format) {
	case formatText:
		for i, n := range notes {
			if len(notes) > 1 {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "# %s\n", n.Source)
			}
			for _, wp := range n.Waypoints {
				fmt.Fprintln(w, waypoints.Render(wp, maxNoteSize))
			}
		}
		return nil
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(notes); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return eris.Wrap(enc.Close(), "encode yaml")
	case formatGeoJSON:
		return eris.Wrap(json.NewEncoder(w).Encode(featureCollection(notes)), "encode geojson")
	default:
		return eris.Errorf("unknown output format %q (want text, yaml or geojson)", format)
	}
}

// featureCollection converts waypoints with coordinates to GeoJSON points.
// Waypoints without coordinates have no geometry and are left out.
func featureCollection(notes []parsedNote) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{}}
	for _, n := range notes {
		for _, wp := range n.Waypoints {
			if wp.Coords == nil {
				continue
			}
			props := map[string]interface{}{
				"source": n.Source,
				"name":   wp.Name,
				"type":   wp.Type.String(),
			}
			if wp.Prefix != "" {
				props["prefix"] = wp.Prefix
			}
			if wp.UserNote != "" {
				props["note"] = wp.UserNote
			}
			fc.Features = append(fc.Features, &geojson.Feature{
				Geometry:   wp.Coords.ToGeom(),
				Properties: props,
			})
		}
	}
	return fc
}
