// Package config defines the calculation configuration and its loading.
package config

import (
	"errors"

	"github.com/wfngen-dev/wfngen/internal/registry"
)

// Canonical component choices used when a field is omitted. The solver
// has no canonical default: the right one depends on the objective, so
// omitting it is an error.
const (
	DefaultHamType   = "chemical"
	DefaultObjective = "system"
)

// Configuration is one user request: the system being solved and the
// four component selections. Field names mirror the CLI flags.
type Configuration struct {
	Nelec        int      `yaml:"nelec"`
	Nspin        int      `yaml:"nspin"`
	OneIntFile   string   `yaml:"one_int_file"`
	TwoIntFile   string   `yaml:"two_int_file"`
	WfnType      string   `yaml:"wfn_type"`
	HamType      string   `yaml:"ham_type"`
	ActiveParams []string `yaml:"active_params"`
	ProjSpace    []int    `yaml:"proj_space"`
	Objective    string   `yaml:"objective"`
	Solver       string   `yaml:"solver"`
	Filename     string   `yaml:"filename"`
}

// Defaults carries tool-level fallback values, typically sourced from
// the user's wfngen config file or environment.
type Defaults struct {
	HamType   string
	Objective string
	OutputDir string
}

// ApplyDefaults fills omitted component selections. Explicit values are
// never overridden.
func (c *Configuration) ApplyDefaults(d Defaults) {
	if c.HamType == "" {
		c.HamType = d.HamType
	}
	if c.HamType == "" {
		c.HamType = DefaultHamType
	}
	if c.Objective == "" {
		c.Objective = d.Objective
	}
	if c.Objective == "" {
		c.Objective = DefaultObjective
	}
}

// Resolved is a Configuration with its component names resolved against
// the registry. Construction goes through Resolve, so holding a
// Resolved implies every descriptor pointer is non-nil.
type Resolved struct {
	Config Configuration

	Wavefunction *registry.ComponentDescriptor
	Hamiltonian  *registry.ComponentDescriptor
	Objective    *registry.ComponentDescriptor
	Solver       *registry.ComponentDescriptor
}

// Resolve looks up the four selected components. All lookup misses are
// collected so the user sees every unknown name at once; compatibility
// validation never runs against unresolved names.
func Resolve(reg *registry.Registry, cfg Configuration) (*Resolved, error) {
	r := &Resolved{Config: cfg}

	var errs []error
	lookup := func(kind registry.Kind, name string, dst **registry.ComponentDescriptor) {
		d, err := reg.Lookup(kind, name)
		if err != nil {
			errs = append(errs, err)
			return
		}
		*dst = d
	}

	lookup(registry.KindWavefunction, cfg.WfnType, &r.Wavefunction)
	lookup(registry.KindHamiltonian, cfg.HamType, &r.Hamiltonian)
	lookup(registry.KindObjective, cfg.Objective, &r.Objective)
	lookup(registry.KindSolver, cfg.Solver, &r.Solver)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

// Env exposes the configuration to catalog constraint expressions.
func (r *Resolved) Env() registry.ConstraintEnv {
	return registry.ConstraintEnv{
		Nelec:        r.Config.Nelec,
		Nspin:        r.Config.Nspin,
		ProjSpace:    r.Config.ProjSpace,
		ActiveParams: r.Config.ActiveParams,
		Wavefunction: r.Config.WfnType,
		Hamiltonian:  r.Config.HamType,
		Objective:    r.Config.Objective,
		Solver:       r.Config.Solver,
	}
}

// Components returns the four selected descriptors in stage order.
func (r *Resolved) Components() []*registry.ComponentDescriptor {
	return []*registry.ComponentDescriptor{r.Hamiltonian, r.Wavefunction, r.Objective, r.Solver}
}
