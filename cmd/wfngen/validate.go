package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/wfngen-dev/wfngen/internal/compat"
	"github.com/wfngen-dev/wfngen/internal/config"
	"github.com/wfngen-dev/wfngen/internal/registry"
)

var (
	validateFlags  calcFlags
	validateFormat string
)

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate [calculation.yaml]",
	Short: "Check a configuration without writing a script",
	Long: `Run the full compatibility validation for a configuration and report
every structural violation and component conflict. Nothing is written;
the exit code is non-zero when the configuration is invalid.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidateAction(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateFlags.register(validateCmd)
	validateCmd.Flags().StringVar(&validateFormat, "format", "table", "Output format: table, json, yaml")
}

// runValidateAction implements the core logic for the validate command.
func runValidateAction(cmd *cobra.Command, args []string) error {
	cfg, err := validateFlags.configuration(cmd.Flags(), args)
	if err != nil {
		return err
	}

	reg, err := registry.Default()
	if err != nil {
		return err
	}

	report := &compat.Report{}
	resolved, err := config.Resolve(reg, cfg)
	if err != nil {
		// Unknown component names are reported through the same report
		// shape as conflicts so formatted output stays uniform.
		report.Conflicts = append(report.Conflicts, compat.ConflictReason{
			Component: "configuration",
			Detail:    err.Error(),
		})
	} else {
		report = compat.Validate(resolved)
	}

	if err := formatReport(cmd.OutOrStdout(), report, validateFormat); err != nil {
		return err
	}
	return report.Err()
}

// formatReport writes the validation report in the requested format.
func formatReport(w io.Writer, report *compat.Report, format string) error {
	switch format {
	case "table":
		if report.Valid() {
			fmt.Fprintln(w, "configuration is valid")
			return nil
		}
		for _, msg := range report.Messages() {
			fmt.Fprintf(w, "  - %s\n", msg)
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reportDocument(report))
	case "yaml":
		raw, err := yaml.Marshal(reportDocument(report))
		if err != nil {
			return err
		}
		_, err = w.Write(raw)
		return err
	default:
		return fmt.Errorf("unknown format: %s (supported: table, json, yaml)", format)
	}
}

// reportDocument wraps a report with its verdict for machine-readable
// output.
func reportDocument(report *compat.Report) map[string]any {
	return map[string]any{
		"valid":  report.Valid(),
		"report": report,
	}
}
