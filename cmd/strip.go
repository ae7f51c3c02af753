package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/waypoint-cli/internal/waypoints"
)

var stripNoteFile string

var stripCmd = &cobra.Command{
	Use:   "strip",
	Short: "Print a note without its waypoint backup region",
	RunE: func(cmd *cobra.Command, args []string) error {
		note, err := readNote(stripNoteFile, cmd.InOrStdin())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), waypoints.StripBackupRegion(note))
		return nil
	},
}

func init() {
	stripCmd.Flags().StringVar(&stripNoteFile, "note", "-", "note file, \"-\" for stdin")
	rootCmd.AddCommand(stripCmd)
}
