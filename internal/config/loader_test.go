package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/automerge/internal/testutil"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteYAML(t, filepath.Join(dir, FileName), map[string]any{
		"target_branch": "develop",
		"prompt":        "line",
		"sim": map[string]any{
			"tool":     "nvc",
			"waveform": "out.vcd",
		},
	})
	t.Setenv("AUTOMERGE_REMOTE", "upstream")
	t.Setenv("AUTOMERGE_SIM_TOOL", "ghdl-mcode")

	v := viper.New()
	used, err := ReadFile(v, "", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), used)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "develop", cfg.TargetBranch)
	assert.Equal(t, "upstream", cfg.Remote)
	assert.Equal(t, "line", cfg.Prompt)
	assert.Equal(t, "ghdl-mcode", cfg.Sim.Tool, "env overrides file")
	assert.Equal(t, "out.vcd", cfg.Sim.Waveform)
	assert.Equal(t, "*.vhd", cfg.Sim.Pattern, "unset keys keep defaults")
}

func TestReadFile_MissingInSearchMode(t *testing.T) {
	used, err := ReadFile(viper.New(), "", t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, used)
}

func TestReadFile_MissingExplicit(t *testing.T) {
	_, err := ReadFile(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("AUTOMERGE_PROMPT", "gui")

	_, err := Load(viper.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration: prompt")
}
