// Package assemble turns a validated configuration into an ordered
// script plan.
package assemble

import "fmt"

// Stage identifies one section of the generated script.
type Stage string

const (
	StageIntegrals    Stage = "integrals"
	StageHamiltonian  Stage = "hamiltonian"
	StageWavefunction Stage = "wavefunction"
	StageActiveParams Stage = "active_params"
	StageProjection   Stage = "projection"
	StageObjective    Stage = "objective"
	StageSolver       Stage = "solver"
)

// stageRank fixes declaration order; it breaks ties between stages that
// become ready in the same topological round, making the order total.
var stageRank = []Stage{
	StageIntegrals,
	StageHamiltonian,
	StageWavefunction,
	StageActiveParams,
	StageProjection,
	StageObjective,
	StageSolver,
}

// stageDeps is the static dependency graph between stages: integrals
// feed the Hamiltonian, the wavefunction feeds parameter activation and
// the projection space, and the objective consumes all three before the
// solver runs.
var stageDeps = map[Stage][]Stage{
	StageIntegrals:    {},
	StageHamiltonian:  {StageIntegrals},
	StageWavefunction: {},
	StageActiveParams: {StageWavefunction},
	StageProjection:   {StageWavefunction},
	StageObjective:    {StageWavefunction, StageHamiltonian, StageProjection, StageActiveParams},
	StageSolver:       {StageObjective},
}

// StageOrder returns the stages in topological order (Kahn's algorithm
// with rank tie-breaking). The graph is static, so the result is always
// the same; computing it keeps the ordering honest against the declared
// dependencies instead of hard-coding a list.
func StageOrder() ([]Stage, error) {
	inDegree := make(map[Stage]int, len(stageRank))
	dependents := make(map[Stage][]Stage, len(stageRank))

	for _, stage := range stageRank {
		inDegree[stage] = len(stageDeps[stage])
		for _, dep := range stageDeps[stage] {
			dependents[dep] = append(dependents[dep], stage)
		}
	}

	order := make([]Stage, 0, len(stageRank))
	done := make(map[Stage]bool, len(stageRank))

	for len(order) < len(stageRank) {
		next := Stage("")
		for _, stage := range stageRank {
			if !done[stage] && inDegree[stage] == 0 {
				next = stage
				break
			}
		}
		if next == "" {
			return nil, fmt.Errorf("stage dependency cycle among %v", remaining(done))
		}

		done[next] = true
		order = append(order, next)
		for _, dep := range dependents[next] {
			inDegree[dep]--
		}
	}

	return order, nil
}

func remaining(done map[Stage]bool) []Stage {
	var out []Stage
	for _, stage := range stageRank {
		if !done[stage] {
			out = append(out, stage)
		}
	}
	return out
}
