package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wfngen-dev/wfngen/internal/registry"
	"github.com/wfngen-dev/wfngen/internal/sweep"
)

// sweepCmd represents the sweep command.
var sweepCmd = &cobra.Command{
	Use:   "sweep <sweep.yaml>",
	Short: "Generate scripts for every point of a parameter grid",
	Long: `Expand a sweep file - a base configuration plus axes of values - into
the cross product of configurations and generate a script for each
point. Every point is validated and attempted even when some fail, and
a manifest recording the outcome of each point is written next to the
scripts.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSweepAction(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

// runSweepAction implements the core logic for the sweep command.
func runSweepAction(cmd *cobra.Command, path string) error {
	file, err := sweep.Load(path)
	if err != nil {
		return err
	}
	if file.OutputDir == "" {
		file.OutputDir = toolDefaults().OutputDir
	}

	reg, err := registry.Default()
	if err != nil {
		return err
	}

	runner := &sweep.Runner{Registry: reg, Defaults: toolDefaults()}
	manifest, runErr := runner.Run(cmd.Context(), file)
	if manifest != nil {
		for _, res := range manifest.Points {
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", res.Status, res.Filename)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "manifest: %s\n",
			filepath.Join(manifest.OutputDir, sweep.ManifestFilename))
	}
	return runErr
}
