package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const calcYAML = `nelec: 4
nspin: 8
one_int_file: oneint.npy
two_int_file: twoint.npy
wfn_type: fci
proj_space: [0]
solver: diag
`

func writeCalcFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calculation.yaml")
	require.NoError(t, os.WriteFile(path, []byte(calcYAML), 0o644))
	return path
}

func newCalcCommand() (*cobra.Command, *calcFlags) {
	var flags calcFlags
	cmd := &cobra.Command{Use: "test"}
	flags.register(cmd)
	return cmd, &flags
}

func Test_CalcFlags_FileOnly(t *testing.T) {
	path := writeCalcFile(t)
	cmd, flags := newCalcCommand()
	require.NoError(t, cmd.ParseFlags(nil))

	cfg, err := flags.configuration(cmd.Flags(), []string{path})
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Nelec)
	assert.Equal(t, "fci", cfg.WfnType)
	assert.Equal(t, "chemical", cfg.HamType, "omitted hamiltonian falls to the canonical default")
	assert.Equal(t, "system", cfg.Objective)
}

func Test_CalcFlags_FlagsOverrideFile(t *testing.T) {
	path := writeCalcFile(t)
	cmd, flags := newCalcCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--wfn_type", "doci", "--nspin", "10"}))

	cfg, err := flags.configuration(cmd.Flags(), []string{path})
	require.NoError(t, err)

	assert.Equal(t, "doci", cfg.WfnType, "changed flag wins over the file")
	assert.Equal(t, 10, cfg.Nspin)
	assert.Equal(t, 4, cfg.Nelec, "untouched fields keep the file value")
	assert.Equal(t, "diag", cfg.Solver)
}

func Test_CalcFlags_FlagsOnly(t *testing.T) {
	cmd, flags := newCalcCommand()
	require.NoError(t, cmd.ParseFlags([]string{
		"--nelec", "4", "--nspin", "8",
		"--one_int_file", "oneint.npy", "--two_int_file", "twoint.npy",
		"--wfn_type", "ap1rog", "--proj_space", "0,2", "--solver", "least_squares",
	}))

	cfg, err := flags.configuration(cmd.Flags(), nil)
	require.NoError(t, err)

	assert.Equal(t, "ap1rog", cfg.WfnType)
	assert.Equal(t, []int{0, 2}, cfg.ProjSpace)
	assert.Equal(t, "least_squares", cfg.Solver)
	assert.Equal(t, "chemical", cfg.HamType)
}

func Test_CalcFlags_MissingFile(t *testing.T) {
	cmd, flags := newCalcCommand()
	require.NoError(t, cmd.ParseFlags(nil))

	_, err := flags.configuration(cmd.Flags(), []string{"/no/such/file.yaml"})
	assert.Error(t, err)
}

func Test_DestinationPath(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		outputDir string
		want      string
	}{
		{name: "default name", filename: "", outputDir: "", want: "calculate.py"},
		{name: "relative into output dir", filename: "run.py", outputDir: "scripts", want: filepath.Join("scripts", "run.py")},
		{name: "absolute ignores output dir", filename: "/tmp/run.py", outputDir: "scripts", want: "/tmp/run.py"},
		{name: "no output dir", filename: "run.py", outputDir: "", want: "run.py"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, destinationPath(tt.filename, tt.outputDir))
		})
	}
}
