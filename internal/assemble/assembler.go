package assemble

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/wfngen-dev/wfngen/internal/config"
	"github.com/wfngen-dev/wfngen/internal/registry"
)

// templateEnv is the data visible to construction templates. Every
// field is derived from the configuration alone, which is what makes
// assembly deterministic.
type templateEnv struct {
	Nelec      int
	Nspin      int
	OneIntFile string
	TwoIntFile string

	// ProjOrders is the projection space as Python list contents,
	// e.g. "0, 2, 4".
	ProjOrders string

	// ParamSelection is the contents of the param_selection list, one
	// tuple per active group; ParamSelectionRef is the expression
	// objectives use to refer to it ("param_selection" or "None").
	ParamSelection    string
	ParamSelectionRef string

	WfnType   string
	HamType   string
	Objective string
	Solver    string
}

// Assemble builds the script plan for a resolved configuration. The
// configuration must already have passed validation; Assemble does not
// re-validate, and an error here means the pipeline itself is broken
// (malformed catalog template), not that the user's input was bad.
func Assemble(reg *registry.Registry, r *config.Resolved) (*ScriptPlan, error) {
	order, err := StageOrder()
	if err != nil {
		return nil, err
	}

	env := buildEnv(r.Config)
	plan := &ScriptPlan{Imports: []string{"import numpy as np"}}
	seenImports := map[string]bool{plan.Imports[0]: true}

	for _, stage := range order {
		if stage == StageActiveParams && len(r.Config.ActiveParams) == 0 {
			continue
		}

		tmpl, owner, err := stageTemplate(reg, r, stage)
		if err != nil {
			return nil, err
		}

		for _, imp := range tmpl.Imports {
			if !seenImports[imp] {
				seenImports[imp] = true
				plan.Imports = append(plan.Imports, imp)
			}
		}

		lines, err := renderLines(stage, tmpl.Statements, env)
		if err != nil {
			return nil, err
		}
		plan.Blocks = append(plan.Blocks, StatementBlock{Stage: stage, Owner: owner, Lines: lines})
	}

	return plan, nil
}

// stageTemplate picks the construction template and owning component
// for a stage. The builtin stages are attributed to the component that
// consumes them: integrals to the Hamiltonian, parameter activation and
// projection to the wavefunction.
func stageTemplate(reg *registry.Registry, r *config.Resolved, stage Stage) (registry.ConstructionTemplate, string, error) {
	switch stage {
	case StageHamiltonian:
		return r.Hamiltonian.Template, r.Hamiltonian.Name, nil
	case StageWavefunction:
		return r.Wavefunction.Template, r.Wavefunction.Name, nil
	case StageObjective:
		return r.Objective.Template, r.Objective.Name, nil
	case StageSolver:
		return r.Solver.Template, r.Solver.Name, nil
	case StageIntegrals:
		tmpl, ok := reg.StageTemplate(string(stage))
		if !ok {
			return registry.ConstructionTemplate{}, "", fmt.Errorf("catalog has no template for stage %q", stage)
		}
		return tmpl, r.Hamiltonian.Name, nil
	case StageActiveParams, StageProjection:
		tmpl, ok := reg.StageTemplate(string(stage))
		if !ok {
			return registry.ConstructionTemplate{}, "", fmt.Errorf("catalog has no template for stage %q", stage)
		}
		return tmpl, r.Wavefunction.Name, nil
	default:
		return registry.ConstructionTemplate{}, "", fmt.Errorf("unknown stage %q", stage)
	}
}

func buildEnv(cfg config.Configuration) templateEnv {
	orders := make([]string, len(cfg.ProjSpace))
	for i, order := range cfg.ProjSpace {
		orders[i] = strconv.Itoa(order)
	}

	selection := make([]string, len(cfg.ActiveParams))
	for i, group := range cfg.ActiveParams {
		selection[i] = fmt.Sprintf("(%s, np.ones(%s.nparams, dtype=bool))", group, group)
	}

	ref := "None"
	if len(cfg.ActiveParams) > 0 {
		ref = "param_selection"
	}

	return templateEnv{
		Nelec:             cfg.Nelec,
		Nspin:             cfg.Nspin,
		OneIntFile:        cfg.OneIntFile,
		TwoIntFile:        cfg.TwoIntFile,
		ProjOrders:        strings.Join(orders, ", "),
		ParamSelection:    strings.Join(selection, ", "),
		ParamSelectionRef: ref,
		WfnType:           cfg.WfnType,
		HamType:           cfg.HamType,
		Objective:         cfg.Objective,
		Solver:            cfg.Solver,
	}
}

func renderLines(stage Stage, statements []string, env templateEnv) ([]string, error) {
	lines := make([]string, 0, len(statements))
	for i, stmt := range statements {
		tmpl, err := template.New(fmt.Sprintf("%s#%d", stage, i)).Option("missingkey=error").Parse(stmt)
		if err != nil {
			return nil, fmt.Errorf("stage %s statement %d: %w", stage, i, err)
		}
		var sb strings.Builder
		if err := tmpl.Execute(&sb, env); err != nil {
			return nil, fmt.Errorf("stage %s statement %d: %w", stage, i, err)
		}
		lines = append(lines, sb.String())
	}
	return lines, nil
}
