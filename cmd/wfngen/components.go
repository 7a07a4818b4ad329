package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wfngen-dev/wfngen/internal/registry"
)

var componentsKind string

// componentsCmd represents the components command.
var componentsCmd = &cobra.Command{
	Use:   "components",
	Short: "List the available calculation components",
	Long: `Enumerate the wavefunctions, Hamiltonians, objectives and solvers the
catalog knows about, with the capabilities they require and provide.
Use --kind to list a single component kind.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runComponentsAction(cmd)
	},
}

func init() {
	rootCmd.AddCommand(componentsCmd)

	componentsCmd.Flags().StringVarP(&componentsKind, "kind", "k", "", "Component kind: wavefunction, hamiltonian, objective, solver")
}

// runComponentsAction implements the core logic for the components command.
func runComponentsAction(cmd *cobra.Command) error {
	reg, err := registry.Default()
	if err != nil {
		return err
	}

	kinds := registry.Kinds
	if componentsKind != "" {
		kind, err := registry.ParseKind(componentsKind)
		if err != nil {
			return err
		}
		kinds = []registry.Kind{kind}
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tNAME\tREQUIRES\tPROVIDES\tTUNABLE\tSUMMARY")
	for _, kind := range kinds {
		for _, d := range reg.All(kind) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				d.Kind, d.Name,
				joinOrDash(d.RequiredCapabilities),
				joinOrDash(d.ProvidedCapabilities),
				joinOrDash(d.TunableGroups),
				d.Summary)
		}
	}
	return w.Flush()
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ",")
}
