package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/wfngen-dev/wfngen/internal/config"
)

// calcFlags holds the calculation configuration flags shared by the
// make and validate commands. Flags layer on top of an optional
// configuration file: a flag that was set on the command line wins over
// the file, and tool-level defaults fill whatever remains unset.
type calcFlags struct {
	nelec        int
	nspin        int
	oneIntFile   string
	twoIntFile   string
	wfnType      string
	hamType      string
	activeParams []string
	projSpace    []int
	objective    string
	solver       string
	filename     string
}

func (f *calcFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&f.nelec, "nelec", 0, "Number of electrons")
	flags.IntVar(&f.nspin, "nspin", 0, "Number of spin orbitals")
	flags.StringVar(&f.oneIntFile, "one_int_file", "", "One-electron integral file (.npy)")
	flags.StringVar(&f.twoIntFile, "two_int_file", "", "Two-electron integral file (.npy)")
	flags.StringVar(&f.wfnType, "wfn_type", "", "Wavefunction type (see 'wfngen components')")
	flags.StringVar(&f.hamType, "ham_type", "", "Hamiltonian type")
	flags.StringSliceVar(&f.activeParams, "active_params", nil, "Parameter groups to activate for optimization (comma-separated)")
	flags.IntSliceVar(&f.projSpace, "proj_space", nil, "Projection space excitation orders (comma-separated)")
	flags.StringVar(&f.objective, "objective", "", "Objective (Schrodinger equation formulation)")
	flags.StringVar(&f.solver, "solver", "", "Solver")
	flags.StringVar(&f.filename, "filename", "", "Output script path ('-' for stdout)")
}

// configuration assembles the effective calculation configuration from
// the optional positional config file and the command-line flags.
func (f *calcFlags) configuration(flags *pflag.FlagSet, args []string) (config.Configuration, error) {
	var cfg config.Configuration
	if len(args) == 1 {
		loaded, err := config.LoadFile(args[0])
		if err != nil {
			return config.Configuration{}, err
		}
		cfg = loaded
	}

	if flags.Changed("nelec") {
		cfg.Nelec = f.nelec
	}
	if flags.Changed("nspin") {
		cfg.Nspin = f.nspin
	}
	if flags.Changed("one_int_file") {
		cfg.OneIntFile = f.oneIntFile
	}
	if flags.Changed("two_int_file") {
		cfg.TwoIntFile = f.twoIntFile
	}
	if flags.Changed("wfn_type") {
		cfg.WfnType = f.wfnType
	}
	if flags.Changed("ham_type") {
		cfg.HamType = f.hamType
	}
	if flags.Changed("active_params") {
		cfg.ActiveParams = f.activeParams
	}
	if flags.Changed("proj_space") {
		cfg.ProjSpace = f.projSpace
	}
	if flags.Changed("objective") {
		cfg.Objective = f.objective
	}
	if flags.Changed("solver") {
		cfg.Solver = f.solver
	}
	if flags.Changed("filename") {
		cfg.Filename = f.filename
	}

	cfg.ApplyDefaults(toolDefaults())
	return cfg, nil
}

// toolDefaults reads the user's tool-level fallbacks, typically from
// $HOME/.wfngen.yaml or WFNGEN_* environment variables.
func toolDefaults() config.Defaults {
	return config.Defaults{
		HamType:   viper.GetString("defaults.ham_type"),
		Objective: viper.GetString("defaults.objective"),
		OutputDir: viper.GetString("defaults.output_dir"),
	}
}
