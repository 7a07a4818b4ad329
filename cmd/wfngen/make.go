package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wfngen-dev/wfngen/internal/assemble"
	"github.com/wfngen-dev/wfngen/internal/compat"
	"github.com/wfngen-dev/wfngen/internal/config"
	"github.com/wfngen-dev/wfngen/internal/emit"
	"github.com/wfngen-dev/wfngen/internal/registry"
)

// newMakeCommand builds the make command. Each instance carries its own
// flag state, so tests can construct commands without sharing flags.
func newMakeCommand() *cobra.Command {
	var flags calcFlags
	var templateFile string

	cmd := &cobra.Command{
		Use:   "make [calculation.yaml]",
		Short: "Generate a calculation script from a configuration",
		Long: `Assemble and write a Python calculation script for the configured
system. The configuration can come from a YAML file, from flags, or
both - flags override the file field by field.

The selected components are validated against the compatibility catalog
first; an incompatible combination reports every conflict and writes
nothing. Pass --filename - to print the script to stdout instead of
writing a file, and --template to merge the generated blocks into a
hand-written script skeleton.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMakeAction(cmd, args, &flags, templateFile)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&templateFile, "template", "", "Script skeleton with ## wfngen:<stage> markers to merge into")
	return cmd
}

func init() {
	rootCmd.AddCommand(newMakeCommand())
}

// runMakeAction implements the core logic for the make command.
func runMakeAction(cmd *cobra.Command, args []string, flags *calcFlags, templateFile string) error {
	cfg, err := flags.configuration(cmd.Flags(), args)
	if err != nil {
		return err
	}

	reg, err := registry.Default()
	if err != nil {
		return err
	}

	resolved, err := config.Resolve(reg, cfg)
	if err != nil {
		return err
	}

	report := compat.Validate(resolved)
	if err := report.Err(); err != nil {
		return err
	}
	slog.Debug("configuration validated",
		"wfn_type", cfg.WfnType, "ham_type", cfg.HamType,
		"objective", cfg.Objective, "solver", cfg.Solver)

	plan, err := assemble.Assemble(reg, resolved)
	if err != nil {
		return err
	}

	var tmpl string
	if templateFile != "" {
		raw, err := os.ReadFile(templateFile)
		if err != nil {
			return fmt.Errorf("failed to read template: %w", err)
		}
		tmpl = string(raw)
	}

	if cfg.Filename == "-" {
		if tmpl != "" {
			fmt.Fprint(cmd.OutOrStdout(), emit.Merge(plan, tmpl))
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), plan.Render())
		return nil
	}

	dest := destinationPath(cfg.Filename, toolDefaults().OutputDir)
	if tmpl != "" {
		err = emit.EmitWithTemplate(plan, dest, tmpl)
	} else {
		err = emit.Emit(plan, dest)
	}
	if err != nil {
		return err
	}

	slog.Info("script written", "path", dest, "stages", len(plan.Blocks))
	return nil
}

// destinationPath resolves the output path. A relative filename lands
// in the configured output directory; an absolute one is used as-is.
func destinationPath(filename, outputDir string) string {
	if filename == "" {
		filename = "calculate.py"
	}
	if outputDir == "" || filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(outputDir, filename)
}
