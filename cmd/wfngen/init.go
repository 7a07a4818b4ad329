package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/wfngen-dev/wfngen/internal/compat"
	"github.com/wfngen-dev/wfngen/internal/config"
	"github.com/wfngen-dev/wfngen/internal/emit"
	"github.com/wfngen-dev/wfngen/internal/registry"
)

var initOutput string

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively build a calculation configuration",
	Long: `Walk through the system parameters and component choices one prompt at
a time and write the result as a calculation configuration file. The
component lists come straight from the catalog, so the wizard always
offers exactly what 'wfngen make' will accept.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runInitAction(cmd)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initOutput, "output", "o", "calculation.yaml", "Where to write the configuration")
}

// runInitAction implements the core logic for the init command.
func runInitAction(cmd *cobra.Command) error {
	reg, err := registry.Default()
	if err != nil {
		return err
	}

	var cfg config.Configuration
	var nelecStr, nspinStr, projStr string

	err = huh.NewInput().
		Title("Number of electrons").
		Value(&nelecStr).
		Validate(validatePositiveInt).
		Run()
	if err != nil {
		return err
	}
	cfg.Nelec, _ = strconv.Atoi(strings.TrimSpace(nelecStr))

	err = huh.NewInput().
		Title("Number of spin orbitals").
		Value(&nspinStr).
		Validate(validatePositiveInt).
		Run()
	if err != nil {
		return err
	}
	cfg.Nspin, _ = strconv.Atoi(strings.TrimSpace(nspinStr))

	err = huh.NewInput().
		Title("One-electron integral file (.npy)").
		Value(&cfg.OneIntFile).
		Run()
	if err != nil {
		return err
	}

	err = huh.NewInput().
		Title("Two-electron integral file (.npy)").
		Value(&cfg.TwoIntFile).
		Run()
	if err != nil {
		return err
	}

	err = huh.NewSelect[string]().
		Title("Wavefunction").
		Options(componentOptions(reg, registry.KindWavefunction)...).
		Value(&cfg.WfnType).
		Run()
	if err != nil {
		return err
	}

	err = huh.NewSelect[string]().
		Title("Hamiltonian").
		Options(componentOptions(reg, registry.KindHamiltonian)...).
		Value(&cfg.HamType).
		Run()
	if err != nil {
		return err
	}

	err = huh.NewSelect[string]().
		Title("Objective").
		Options(componentOptions(reg, registry.KindObjective)...).
		Value(&cfg.Objective).
		Run()
	if err != nil {
		return err
	}

	err = huh.NewSelect[string]().
		Title("Solver").
		Options(componentOptions(reg, registry.KindSolver)...).
		Value(&cfg.Solver).
		Run()
	if err != nil {
		return err
	}

	wfn, err := reg.Lookup(registry.KindWavefunction, cfg.WfnType)
	if err != nil {
		return err
	}
	if len(wfn.TunableGroups) > 0 {
		err = huh.NewMultiSelect[string]().
			Title("Parameter groups to activate for optimization").
			Options(stringOptions(wfn.TunableGroups)...).
			Value(&cfg.ActiveParams).
			Run()
		if err != nil {
			return err
		}
	}

	err = huh.NewInput().
		Title("Projection space excitation orders (comma-separated, e.g. 0,2)").
		Value(&projStr).
		Validate(validateOrders).
		Run()
	if err != nil {
		return err
	}
	cfg.ProjSpace, _ = parseOrders(projStr)

	err = huh.NewInput().
		Title("Output script filename").
		Value(&cfg.Filename).
		Run()
	if err != nil {
		return err
	}

	cfg.ApplyDefaults(toolDefaults())

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := emit.WriteFileAtomic(initOutput, data); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "configuration written to %s\n", initOutput)

	// Validate the finished configuration so the user learns about
	// incompatible choices now, not at make time.
	resolved, err := config.Resolve(reg, cfg)
	if err != nil {
		return err
	}
	if err := compat.Validate(resolved).Err(); err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "warning: the configuration is not yet valid:")
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "run 'wfngen make %s' to generate the script\n", initOutput)
	return nil
}

func componentOptions(reg *registry.Registry, kind registry.Kind) []huh.Option[string] {
	all := reg.All(kind)
	opts := make([]huh.Option[string], len(all))
	for i, d := range all {
		opts[i] = huh.NewOption(fmt.Sprintf("%s - %s", d.Name, d.Summary), d.Name)
	}
	return opts
}

func stringOptions(values []string) []huh.Option[string] {
	opts := make([]huh.Option[string], len(values))
	for i, v := range values {
		opts[i] = huh.NewOption(v, v)
	}
	return opts
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fmt.Errorf("enter a positive integer")
	}
	return nil
}

func validateOrders(s string) error {
	_, err := parseOrders(s)
	return err
}

// parseOrders turns "0,2,4" into []int{0, 2, 4}. An empty input is an
// empty projection space.
func parseOrders(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	orders := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", strings.TrimSpace(part))
		}
		orders[i] = n
	}
	return orders, nil
}
