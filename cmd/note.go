package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/waypoint-cli/internal/model"
	"github.com/sells-group/waypoint-cli/internal/store"
	"github.com/sells-group/waypoint-cli/internal/waypoints"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage stored cache notes and their waypoints",
}

var (
	noteGeocode  string
	noteFile     string
	noteForce    bool
	notePrevent  bool
	noteShowText bool
)

var noteImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Store a note and merge the waypoints found in it",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("note"); err != nil {
			return err
		}
		p, err := newParser()
		if err != nil {
			return err
		}
		text, err := readNote(noteFile, cmd.InOrStdin())
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		opts := importOptions{Force: noteForce}
		if cmd.Flags().Changed("prevent") {
			opts.Prevent = &notePrevent
		}

		res, err := importNote(ctx, st, p, noteGeocode, text, opts)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case res.Skipped:
			fmt.Fprintf(out, "%s: note saved, waypoint extraction is disabled for this cache (use --force)\n", noteGeocode)
		case res.Changed:
			fmt.Fprintf(out, "%s: %d waypoints parsed, %d stored\n", noteGeocode, res.Parsed, res.Total)
		default:
			fmt.Fprintf(out, "%s: %d waypoints parsed, nothing new\n", noteGeocode, res.Parsed)
		}
		return nil
	},
}

var noteExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Embed the stored waypoints into the stored note",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("note"); err != nil {
			return err
		}

		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		text, err := exportNote(ctx, st, noteGeocode, intFlagOr(cmd, "max-size", cfg.Render.MaxSize))
		if err != nil {
			return err
		}
		if noteShowText {
			fmt.Fprintln(cmd.OutOrStdout(), text)
		}
		return nil
	},
}

// importOptions controls importNote. A nil Prevent keeps the stored flag.
type importOptions struct {
	Force   bool
	Prevent *bool
}

// importResult summarizes an import.
type importResult struct {
	Parsed  int
	Total   int
	Changed bool
	Skipped bool
}

// importNote saves the note text for a cache and merges the waypoints parsed
// from it into the stored ones. Extraction is skipped when the cache forbids
// it, unless opts.Force is set.
func importNote(ctx context.Context, st store.Store, p *waypoints.Parser, geocode, text string, opts importOptions) (importResult, error) {
	if geocode == "" {
		return importResult{}, eris.New("note: geocode is required")
	}

	cache, err := st.GetCache(ctx, geocode)
	if errors.Is(err, store.ErrNotFound) {
		cache = &model.Cache{Geocode: geocode}
	} else if err != nil {
		return importResult{}, err
	}

	cache.PersonalNote = text
	if opts.Prevent != nil {
		cache.PreventWaypointsFromNote = *opts.Prevent
	}
	if err := st.UpsertCache(ctx, cache); err != nil {
		return importResult{}, err
	}

	if cache.PreventWaypointsFromNote && !opts.Force {
		zap.L().Info("note: waypoint extraction disabled", zap.String("geocode", geocode))
		return importResult{Skipped: true}, nil
	}

	existing, err := st.ListWaypoints(ctx, geocode)
	if err != nil {
		return importResult{}, err
	}

	parsed := p.ParseWaypoints(text)
	merged, changed := waypoints.Merge(existing, parsed, p.NameLabel())
	if changed {
		if err := st.ReplaceWaypoints(ctx, geocode, merged); err != nil {
			return importResult{}, err
		}
	}

	zap.L().Info("note: imported",
		zap.String("geocode", geocode),
		zap.Int("parsed", len(parsed)),
		zap.Int("total", len(merged)),
		zap.Bool("changed", changed),
	)
	return importResult{Parsed: len(parsed), Total: len(merged), Changed: changed}, nil
}

// exportNote embeds the stored waypoints into the stored note, saves the
// result and returns it.
func exportNote(ctx context.Context, st store.Store, geocode string, maxSize int) (string, error) {
	if geocode == "" {
		return "", eris.New("note: geocode is required")
	}

	cache, err := st.GetCache(ctx, geocode)
	if err != nil {
		return "", err
	}
	wps, err := st.ListWaypoints(ctx, geocode)
	if err != nil {
		return "", err
	}

	text, err := waypoints.Embed(cache.PersonalNote, wps, maxSize)
	if err != nil {
		return "", eris.Wrapf(err, "note: embed waypoints for %s", geocode)
	}

	cache.PersonalNote = text
	if err := st.UpsertCache(ctx, cache); err != nil {
		return "", err
	}
	zap.L().Info("note: exported", zap.String("geocode", geocode), zap.Int("waypoints", len(wps)))
	return text, nil
}

func init() {
	noteCmd.PersistentFlags().StringVar(&noteGeocode, "geocode", "", "cache geocode, e.g. GC1234")
	_ = noteCmd.MarkPersistentFlagRequired("geocode")

	noteImportCmd.Flags().StringVar(&noteFile, "note", "-", "note file, \"-\" for stdin")
	noteImportCmd.Flags().BoolVar(&noteForce, "force", false, "extract waypoints even if the cache disables it")
	noteImportCmd.Flags().BoolVar(&notePrevent, "prevent", false, "set whether waypoints may be extracted from this cache's note")

	noteExportCmd.Flags().Int("max-size", -1, "maximum note size in characters, negative for unlimited (default from config)")
	noteExportCmd.Flags().BoolVar(&noteShowText, "print", true, "print the exported note")

	noteCmd.AddCommand(noteImportCmd, noteExportCmd)
	rootCmd.AddCommand(noteCmd)
}
