package registry

// ConstraintEnv exposes configuration values to catalog constraint
// expressions. Field tags define the identifiers visible inside the
// expressions, mirroring the CLI flag names.
type ConstraintEnv struct {
	Nelec        int      `expr:"nelec"`
	Nspin        int      `expr:"nspin"`
	ProjSpace    []int    `expr:"proj_space"`
	ActiveParams []string `expr:"active_params"`
	Wavefunction string   `expr:"wfn_type"`
	Hamiltonian  string   `expr:"ham_type"`
	Objective    string   `expr:"objective"`
	Solver       string   `expr:"solver"`
}
