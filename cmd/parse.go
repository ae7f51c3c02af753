package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/waypoint-cli/internal/waypoints"
)

var (
	parseFormat      string
	parseConcurrency int
)

var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Extract waypoints from notes",
	Long:  "Parses each note file (or stdin when no file or \"-\" is given) and prints the waypoints found.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("parse"); err != nil {
			return err
		}
		p, err := newParser()
		if err != nil {
			return err
		}

		paths := args
		if len(paths) == 0 {
			paths = []string{"-"}
		}

		notes, err := parseNotes(cmd.Context(), p, paths, cmd.InOrStdin(), parseConcurrency)
		if err != nil {
			return err
		}
		return writeParsed(cmd.OutOrStdout(), notes, parseFormat, cfg.Render.MaxNoteSize)
	},
}

// parseNotes reads and parses the inputs concurrently. Results keep the
// order of paths.
func parseNotes(ctx context.Context, p *waypoints.Parser, paths []string, stdin io.Reader, concurrency int) ([]parsedNote, error) {
	if concurrency <= 0 {
		concurrency = 4
	}

	results := make([]parsedNote, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text, err := readNote(path, stdin)
			if err != nil {
				return err
			}
			wps := p.ParseWaypoints(text)
			zap.L().Debug("parsed note", zap.String("source", path), zap.Int("waypoints", len(wps)))
			results[i] = parsedNote{Source: path, Waypoints: wps}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func init() {
	parseCmd.Flags().StringVar(&parseFormat, "format", formatText, "output format: text, yaml or geojson")
	parseCmd.Flags().IntVar(&parseConcurrency, "concurrency", 4, "number of notes parsed in parallel")
	rootCmd.AddCommand(parseCmd)
}
