package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/waypoint-cli/internal/waypoints"
)

var renderWaypointsFile string

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render waypoints as parseable note text",
	RunE: func(cmd *cobra.Command, args []string) error {
		wps, err := readWaypointsFile(renderWaypointsFile)
		if err != nil {
			return err
		}

		maxSize := intFlagOr(cmd, "max-size", cfg.Render.MaxSize)
		backupTags := boolFlagOr(cmd, "backup-tags", cfg.Render.BackupTags)

		text, err := waypoints.RenderAll(wps, maxSize, backupTags)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderWaypointsFile, "waypoints", "", "YAML file with the waypoints to render")
	renderCmd.Flags().Int("max-size", -1, "maximum output size in characters, negative for unlimited (default from config)")
	renderCmd.Flags().Bool("backup-tags", true, "wrap the output in backup tags (default from config)")
	_ = renderCmd.MarkFlagRequired("waypoints")
	rootCmd.AddCommand(renderCmd)
}
