package compat

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/wfngen-dev/wfngen/internal/config"
	"github.com/wfngen-dev/wfngen/internal/registry"
)

// Validate checks a resolved configuration for structural soundness and
// component compatibility. It never short-circuits: the returned Report
// carries every problem found, and validating the same configuration
// twice yields the same report.
func Validate(r *config.Resolved) *Report {
	report := &Report{}

	checkStructure(r, report)
	checkCapabilities(r, report)
	checkConstraints(r, report)

	return report
}

// selection order fixes the order of capability conflicts in the report.
func selection(r *config.Resolved) []*registry.ComponentDescriptor {
	return []*registry.ComponentDescriptor{r.Wavefunction, r.Hamiltonian, r.Objective, r.Solver}
}

func checkStructure(r *config.Resolved, report *Report) {
	cfg := r.Config

	add := func(field, format string, args ...any) {
		report.Structural = append(report.Structural, StructuralViolation{
			Field:  field,
			Detail: fmt.Sprintf(format, args...),
		})
	}

	if cfg.Nelec < 1 {
		add("nelec", "electron count must be positive, got %d", cfg.Nelec)
	}
	if cfg.Nspin < 1 {
		add("nspin", "spin orbital count must be positive, got %d", cfg.Nspin)
	} else {
		if cfg.Nspin < cfg.Nelec {
			add("nspin", "spin orbital count %d cannot hold %d electrons", cfg.Nspin, cfg.Nelec)
		}
		// Spin orbitals come in alpha/beta pairs of spatial orbitals.
		if cfg.Nspin%2 != 0 {
			add("nspin", "spin orbital count must be even, got %d", cfg.Nspin)
		}
	}

	if cfg.OneIntFile == "" {
		add("one_int_file", "one-electron integral file is required")
	}
	if cfg.TwoIntFile == "" {
		add("two_int_file", "two-electron integral file is required")
	}

	checkProjSpace(cfg, add)

	for _, group := range cfg.ActiveParams {
		if !r.Wavefunction.HasTunableGroup(group) {
			add("active_params", "%s has no tunable parameter group %q (available: %v)",
				r.Wavefunction, group, r.Wavefunction.TunableGroups)
		}
	}
}

func checkProjSpace(cfg config.Configuration, add func(field, format string, args ...any)) {
	// A calculation must project onto at least the reference
	// determinant, so an empty projection space is invalid.
	if len(cfg.ProjSpace) == 0 {
		add("proj_space", "projection space is empty; at least excitation order 0 is required")
		return
	}

	for i, order := range cfg.ProjSpace {
		if order < 0 {
			add("proj_space", "excitation order %d is negative", order)
		}
		if cfg.Nelec > 0 && order > cfg.Nelec {
			add("proj_space", "excitation order %d exceeds the electron count %d", order, cfg.Nelec)
		}
		if i > 0 && order <= cfg.ProjSpace[i-1] {
			add("proj_space", "excitation orders must be strictly increasing, got %d after %d",
				order, cfg.ProjSpace[i-1])
		}
	}
}

func checkCapabilities(r *config.Resolved, report *Report) {
	provided := make(map[string]bool)
	for _, d := range selection(r) {
		for _, c := range d.ProvidedCapabilities {
			provided[c] = true
		}
	}
	for _, c := range DerivedCapabilities(r.Config) {
		provided[c] = true
	}

	for _, d := range selection(r) {
		for _, required := range d.RequiredCapabilities {
			if !provided[required] {
				report.Conflicts = append(report.Conflicts, ConflictReason{
					Component: d.String(),
					Missing:   required,
					Detail: fmt.Sprintf("requires capability %q, which no selected component or configuration field provides",
						required),
				})
			}
		}
	}
}

func checkConstraints(r *config.Resolved, report *Report) {
	env := r.Env()

	for _, d := range selection(r) {
		for _, constraint := range d.Constraints {
			out, err := expr.Run(constraint.Program, env)
			if err != nil {
				// Rules are compiled against a typed environment at
				// catalog load, so a runtime failure is a catalog
				// defect. Surface it as a conflict rather than
				// panicking mid-validation.
				report.Conflicts = append(report.Conflicts, ConflictReason{
					Component: d.String(),
					Detail:    fmt.Sprintf("constraint %q failed to evaluate: %v", constraint.Source, err),
				})
				continue
			}
			if ok, _ := out.(bool); !ok {
				report.Conflicts = append(report.Conflicts, ConflictReason{
					Component: d.String(),
					Detail:    constraint.Detail,
				})
			}
		}
	}
}
