package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wfngen-dev/wfngen/internal/registry"
	"github.com/wfngen-dev/wfngen/internal/version"
)

// versionCmd implements the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of wfngen",
	RunE: func(_ *cobra.Command, _ []string) error {
		reg, err := registry.Default()
		if err != nil {
			return err
		}
		info := version.Get()
		fmt.Printf("wfngen version %s (catalog format %s)\n", info.Full(), reg.FormatVersion())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
