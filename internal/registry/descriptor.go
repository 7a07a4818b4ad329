// Package registry holds the static catalog of calculation components.
package registry

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr/vm"
)

// Kind identifies which slot of a calculation a component fills.
type Kind string

const (
	KindWavefunction Kind = "wavefunction"
	KindHamiltonian  Kind = "hamiltonian"
	KindObjective    Kind = "objective"
	KindSolver       Kind = "solver"
)

// Kinds lists all component kinds in catalog order.
var Kinds = []Kind{KindWavefunction, KindHamiltonian, KindObjective, KindSolver}

// ParseKind resolves a user-supplied kind name. Single-letter
// abbreviations are accepted for CLI convenience.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wavefunction", "wfn", "w":
		return KindWavefunction, nil
	case "hamiltonian", "ham", "h":
		return KindHamiltonian, nil
	case "objective", "o":
		return KindObjective, nil
	case "solver", "s":
		return KindSolver, nil
	default:
		return "", fmt.Errorf("invalid component kind: %q (expected wavefunction, hamiltonian, objective or solver)", s)
	}
}

// Constraint is a compatibility rule attached to a component, expressed
// as a boolean expression over the configuration environment. Rules live
// in the catalog, not in validator code, so new components can ship new
// rules without touching the validator.
type Constraint struct {
	Source  string
	Detail  string
	Program *vm.Program
}

// ConstructionTemplate is the ordered list of statement templates a
// component contributes to the generated script. Imports are collected
// into the script preamble; statements form the component's stage block.
type ConstructionTemplate struct {
	Imports    []string
	Statements []string
}

// ComponentDescriptor describes one selectable component. Descriptors
// are pure data: created once at catalog load, never mutated.
type ComponentDescriptor struct {
	Kind    Kind
	Name    string
	Summary string

	// RequiredCapabilities must all be covered by the union of the
	// capabilities provided by the other selected components plus the
	// capabilities derived from the configuration itself.
	RequiredCapabilities []string
	ProvidedCapabilities []string

	// TunableGroups names the parameter groups that may be activated
	// for optimization. Only wavefunctions declare these.
	TunableGroups []string

	Constraints []Constraint
	Template    ConstructionTemplate
}

// HasTunableGroup reports whether the named parameter group exists.
func (d *ComponentDescriptor) HasTunableGroup(group string) bool {
	for _, g := range d.TunableGroups {
		if g == group {
			return true
		}
	}
	return false
}

func (d *ComponentDescriptor) String() string {
	return string(d.Kind) + "/" + d.Name
}
