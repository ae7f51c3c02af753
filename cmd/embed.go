package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/waypoint-cli/internal/waypoints"
)

var (
	embedNoteFile      string
	embedWaypointsFile string
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Replace the backup region of a note with rendered waypoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		note, err := readNote(embedNoteFile, cmd.InOrStdin())
		if err != nil {
			return err
		}
		wps, err := readWaypointsFile(embedWaypointsFile)
		if err != nil {
			return err
		}

		out, err := waypoints.Embed(note, wps, intFlagOr(cmd, "max-size", cfg.Render.MaxSize))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	embedCmd.Flags().StringVar(&embedNoteFile, "note", "-", "note file, \"-\" for stdin")
	embedCmd.Flags().StringVar(&embedWaypointsFile, "waypoints", "", "YAML file with the waypoints to embed")
	embedCmd.Flags().Int("max-size", -1, "maximum note size in characters, negative for unlimited (default from config)")
	_ = embedCmd.MarkFlagRequired("waypoints")
	rootCmd.AddCommand(embedCmd)
}
