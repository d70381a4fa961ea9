package config

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindFlagsDefaults(t *testing.T) {
	cmd := &cobra.Command{Use: "convert"}
	v := BindFlags(cmd)

	cfg := Load(v)
	assert.Equal(t, "", cfg.Output)
	assert.False(t, cfg.Verbose)
	assert.False(t, cfg.NoProgress)
	assert.False(t, cfg.Verify)
}

func TestBindFlagsReadsParsedFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "convert"}
	v := BindFlags(cmd)

	require.NoError(t, cmd.Flags().Parse([]string{
		"--output", "out.MMDB",
		"--verbose",
		"--verify",
	}))

	cfg := Load(v)
	assert.Equal(t, "out.MMDB", cfg.Output)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.Verify)
	assert.False(t, cfg.NoProgress)
}

func TestBindFlagsReadsEnvironment(t *testing.T) {
	cmd := &cobra.Command{Use: "convert"}
	v := BindFlags(cmd)

	t.Setenv("IPCONVERT_NO_PROGRESS", "true")

	cfg := Load(v)
	assert.True(t, cfg.NoProgress)
}
