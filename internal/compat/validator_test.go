package compat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfngen-dev/wfngen/internal/config"
	"github.com/wfngen-dev/wfngen/internal/registry"
)

// baseConfig is the reference scenario: FCI on 4 electrons in 8 spin
// orbitals, diagonalization over the reference determinant.
func baseConfig() config.Configuration {
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

func resolve(t *testing.T, cfg config.Configuration) *config.Resolved {
	t.Helper()
	reg, err := registry.Default()
	require.NoError(t, err)
	r, err := config.Resolve(reg, cfg)
	require.NoError(t, err)
	return r
}

func Test_Validate_ReferenceScenario(t *testing.T) {
	report := Validate(resolve(t, baseConfig()))
	assert.True(t, report.Valid(), "unexpected problems: %v", report.Messages())
	assert.NoError(t, report.Err())
}

func Test_Validate_StructuralViolations(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*config.Configuration)
		wantField string
	}{
		{
			name:      "odd spin orbital count",
			mutate:    func(c *config.Configuration) { c.Nspin = 7 },
			wantField: "nspin",
		},
		{
			name:      "fewer spin orbitals than electrons",
			mutate:    func(c *config.Configuration) { c.Nspin = 2 },
			wantField: "nspin",
		},
		{
			name:      "zero electrons",
			mutate:    func(c *config.Configuration) { c.Nelec = 0 },
			wantField: "nelec",
		},
		{
			name:      "empty projection space",
			mutate:    func(c *config.Configuration) { c.ProjSpace = nil },
			wantField: "proj_space",
		},
		{
			name:      "decreasing projection space",
			mutate:    func(c *config.Configuration) { c.ProjSpace = []int{2, 0} },
			wantField: "proj_space",
		},
		{
			name:      "duplicate excitation order",
			mutate:    func(c *config.Configuration) { c.ProjSpace = []int{0, 0} },
			wantField: "proj_space",
		},
		{
			name:      "order above electron count",
			mutate:    func(c *config.Configuration) { c.ProjSpace = []int{0, 6} },
			wantField: "proj_space",
		},
		{
			name:      "missing one-electron integrals",
			mutate:    func(c *config.Configuration) { c.OneIntFile = "" },
			wantField: "one_int_file",
		},
		{
			name:      "unknown parameter group",
			mutate:    func(c *config.Configuration) { c.ActiveParams = []string{"geminal"} },
			wantField: "active_params",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(&cfg)

			report := Validate(resolve(t, cfg))
			require.False(t, report.Valid())

			found := false
			for _, v := range report.Structural {
				if v.Field == tt.wantField {
					found = true
				}
			}
			assert.True(t, found, "no structural violation cites %q: %v", tt.wantField, report.Messages())
		})
	}
}

func Test_Validate_MissingCapabilities(t *testing.T) {
	t.Run("evolutionary solver needs a scalar objective and active parameters", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Solver = "cma"

		report := Validate(resolve(t, cfg))
		require.False(t, report.Valid())
		require.Len(t, report.Conflicts, 2, "one conflict per missing capability: %v", report.Messages())

		missing := []string{report.Conflicts[0].Missing, report.Conflicts[1].Missing}
		assert.Contains(t, missing, "scalar_objective")
		assert.Contains(t, missing, "has_active_parameters")
		for _, c := range report.Conflicts {
			assert.Equal(t, "solver/cma", c.Component)
		}
	})

	t.Run("seniority-zero hamiltonian needs a seniority-zero wavefunction", func(t *testing.T) {
		cfg := baseConfig()
		cfg.HamType = "sen0"

		report := Validate(resolve(t, cfg))
		require.False(t, report.Valid())
		assert.Equal(t, "seniority_zero", report.Conflicts[0].Missing)
		assert.Equal(t, "hamiltonian/sen0", report.Conflicts[0].Component)
	})

	t.Run("geminal wavefunction needs paired electrons", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Nelec = 3
		cfg.WfnType = "apig"
		cfg.ActiveParams = []string{"wfn"}
		cfg.Solver = "least_squares"

		report := Validate(resolve(t, cfg))
		require.False(t, report.Valid())

		found := false
		for _, c := range report.Conflicts {
			if c.Component == "wavefunction/apig" && c.Missing == "even_electron_count" {
				found = true
			}
		}
		assert.True(t, found, "missing even_electron_count conflict: %v", report.Messages())
	})
}

func Test_Validate_CatalogConstraints(t *testing.T) {
	t.Run("ap1rog requires the reference determinant", func(t *testing.T) {
		cfg := baseConfig()
		cfg.WfnType = "ap1rog"
		cfg.ActiveParams = []string{"wfn"}
		cfg.Solver = "least_squares"
		cfg.ProjSpace = []int{1, 2}

		report := Validate(resolve(t, cfg))
		require.False(t, report.Valid())

		found := false
		for _, c := range report.Conflicts {
			if c.Component == "wavefunction/ap1rog" {
				found = true
				assert.Contains(t, c.Detail, "reference determinant")
			}
		}
		assert.True(t, found, "expected ap1rog constraint conflict: %v", report.Messages())
	})

	t.Run("eigensolver rejects active parameters", func(t *testing.T) {
		cfg := baseConfig()
		cfg.ActiveParams = []string{"wfn"}

		report := Validate(resolve(t, cfg))
		require.False(t, report.Valid())
		assert.Equal(t, "solver/diag", report.Conflicts[0].Component)
	})
}

func Test_Validate_Idempotent(t *testing.T) {
	cfg := baseConfig()
	cfg.Solver = "cma"
	cfg.Nspin = 7
	cfg.ProjSpace = []int{2, 0}

	r := resolve(t, cfg)
	first := Validate(r)
	second := Validate(r)

	require.False(t, first.Valid())
	assert.Equal(t, first.Messages(), second.Messages())
}

func Test_Validate_CollectsEverything(t *testing.T) {
	// One pass must report structural and capability problems together.
	cfg := baseConfig()
	cfg.Nspin = 7
	cfg.Solver = "cma"

	report := Validate(resolve(t, cfg))
	require.False(t, report.Valid())
	assert.NotEmpty(t, report.Structural)
	assert.NotEmpty(t, report.Conflicts)

	msgs := report.Messages()
	assert.Len(t, msgs, len(report.Structural)+len(report.Conflicts))
}

func Test_DerivedCapabilities(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Configuration
		want    []string
		exclude []string
	}{
		{
			name: "full configuration",
			cfg: config.Configuration{
				Nelec:        4,
				OneIntFile:   "a.npy",
				TwoIntFile:   "b.npy",
				ProjSpace:    []int{0, 2},
				ActiveParams: []string{"wfn"},
			},
			want: []string{
				"even_electron_count",
				"excitation_order_0",
				"excitation_order_2",
				"has_active_parameters",
				"one_electron_integrals",
				"projection_space",
				"two_electron_integrals",
			},
		},
		{
			name:    "odd electron count",
			cfg:     config.Configuration{Nelec: 3, ProjSpace: []int{0}},
			want:    []string{"excitation_order_0", "projection_space"},
			exclude: []string{"even_electron_count", "has_active_parameters"},
		},
		{
			name:    "empty configuration derives nothing",
			cfg:     config.Configuration{},
			exclude: []string{"projection_space", "one_electron_integrals"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := DerivedCapabilities(tt.cfg)
			if tt.want != nil {
				assert.Equal(t, tt.want, caps)
			}
			for _, c := range tt.exclude {
				assert.NotContains(t, caps, c)
			}
		})
	}
}
