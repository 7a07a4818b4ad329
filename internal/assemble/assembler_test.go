package assemble

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfngen-dev/wfngen/internal/config"
	"github.com/wfngen-dev/wfngen/internal/registry"
)

func testResolved(t *testing.T, cfg config.Configuration) (*registry.Registry, *config.Resolved) {
	t.Helper()
	reg, err := registry.Default()
	require.NoError(t, err)
	r, err := config.Resolve(reg, cfg)
	require.NoError(t, err)
	return reg, r
}

func referenceConfig() config.Configuration {
	return config.Configuration{
		Nelec:      4,
		Nspin:      8,
		OneIntFile: "oneint.npy",
		TwoIntFile: "twoint.npy",
		WfnType:    "fci",
		HamType:    "chemical",
		ProjSpace:  []int{0},
		Objective:  "system",
		Solver:     "diag",
	}
}

func Test_StageOrder(t *testing.T) {
	order, err := StageOrder()
	require.NoError(t, err)
	require.Len(t, order, len(stageRank))

	position := make(map[Stage]int, len(order))
	for i, stage := range order {
		position[stage] = i
	}

	// Every declared dependency must come earlier.
	for stage, deps := range stageDeps {
		for _, dep := range deps {
			assert.Less(t, position[dep], position[stage],
				"%s must come after %s", stage, dep)
		}
	}

	assert.Equal(t, StageIntegrals, order[0])
	assert.Equal(t, StageSolver, order[len(order)-1])
}

func Test_Assemble_ReferenceScenario(t *testing.T) {
	reg, r := testResolved(t, referenceConfig())

	plan, err := Assemble(reg, r)
	require.NoError(t, err)

	// No active parameters, so the activation stage is absent.
	assert.Equal(t, []Stage{
		StageIntegrals,
		StageHamiltonian,
		StageWavefunction,
		StageProjection,
		StageObjective,
		StageSolver,
	}, plan.Stages())

	script := plan.Render()
	assert.Contains(t, script, "import numpy as np")
	assert.Contains(t, script, "one_int = np.load('oneint.npy')")
	assert.Contains(t, script, "two_int = np.load('twoint.npy')")
	assert.Contains(t, script, "nelec = 4")
	assert.Contains(t, script, "nspin = 8")
	assert.Contains(t, script, "wfn = FCI(nelec, nspin)")
	assert.Contains(t, script, "exc_orders=[0]")
	assert.Contains(t, script, "param_selection=None")
	assert.Contains(t, script, "brute(wfn, ham)")
	assert.NotContains(t, script, "{{", "unexpanded template placeholder")
}

func Test_Assemble_ActiveParameters(t *testing.T) {
	cfg := referenceConfig()
	cfg.WfnType = "ap1rog"
	cfg.ActiveParams = []string{"wfn"}
	cfg.Objective = "least_squares"
	cfg.Solver = "minimize"
	cfg.ProjSpace = []int{0, 2}
	reg, r := testResolved(t, cfg)

	plan, err := Assemble(reg, r)
	require.NoError(t, err)

	stages := plan.Stages()
	assert.Contains(t, stages, StageActiveParams)

	block, ok := plan.Block(StageActiveParams)
	require.True(t, ok)
	assert.Equal(t, "ap1rog", block.Owner, "parameter activation belongs to the wavefunction")
	assert.Contains(t, block.Text(), "param_selection = [(wfn, np.ones(wfn.nparams, dtype=bool))]")

	script := plan.Render()
	assert.Contains(t, script, "param_selection=param_selection")
	assert.Contains(t, script, "exc_orders=[0, 2]")
	assert.Contains(t, script, "results = minimize(objective)")
}

func Test_Assemble_BlockOwnership(t *testing.T) {
	reg, r := testResolved(t, referenceConfig())

	plan, err := Assemble(reg, r)
	require.NoError(t, err)

	owners := map[Stage]string{}
	for _, b := range plan.Blocks {
		owners[b.Stage] = b.Owner
	}
	assert.Equal(t, "chemical", owners[StageIntegrals], "integrals are attributed to the hamiltonian")
	assert.Equal(t, "chemical", owners[StageHamiltonian])
	assert.Equal(t, "fci", owners[StageWavefunction])
	assert.Equal(t, "fci", owners[StageProjection])
	assert.Equal(t, "system", owners[StageObjective])
	assert.Equal(t, "diag", owners[StageSolver])
}

func Test_Assemble_Deterministic(t *testing.T) {
	cfg := referenceConfig()
	cfg.ActiveParams = []string{"wfn", "ham"}
	cfg.Solver = "least_squares"
	reg, r := testResolved(t, cfg)

	first, err := Assemble(reg, r)
	require.NoError(t, err)
	second, err := Assemble(reg, r)
	require.NoError(t, err)

	assert.Equal(t, first.Render(), second.Render(), "same configuration must yield byte-identical scripts")
}

func Test_Assemble_ImportsDeduplicated(t *testing.T) {
	reg, r := testResolved(t, referenceConfig())

	plan, err := Assemble(reg, r)
	require.NoError(t, err)

	seen := map[string]int{}
	for _, imp := range plan.Imports {
		seen[imp]++
	}
	for imp, n := range seen {
		assert.Equal(t, 1, n, "duplicate import %q", imp)
	}

	// Rendered script starts with the preamble, not a stage marker.
	script := plan.Render()
	assert.True(t, strings.HasPrefix(script, "import numpy as np\n"))
}
