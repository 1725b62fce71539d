package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ManifestFlag(t *testing.T) {
	var out bytes.Buffer

	cfg, exit, err := Parse([]string{"-manifest", "pipelines/"}, &out)
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, "pipelines/", cfg.ManifestPath)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParse_ShorthandFlag(t *testing.T) {
	var out bytes.Buffer

	cfg, exit, err := Parse([]string{"-m", "pipeline.hcl"}, &out)
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, "pipeline.hcl", cfg.ManifestPath)
}

func TestParse_PositionalPath(t *testing.T) {
	var out bytes.Buffer

	cfg, exit, err := Parse([]string{"pipeline.hcl"}, &out)
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, "pipeline.hcl", cfg.ManifestPath)
}

func TestParse_FlagWinsOverPositional(t *testing.T) {
	var out bytes.Buffer

	cfg, exit, err := Parse([]string{"-manifest", "from-flag.hcl", "positional.hcl"}, &out)
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, "from-flag.hcl", cfg.ManifestPath)
}

func TestParse_NoPathPrintsUsage(t *testing.T) {
	var out bytes.Buffer

	cfg, exit, err := Parse(nil, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_LogOptions(t *testing.T) {
	var out bytes.Buffer

	cfg, _, err := Parse([]string{"-log-format", "TEXT", "-log-level", "DEBUG", "pipeline.hcl"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParse_InvalidLogFormat(t *testing.T) {
	var out bytes.Buffer

	_, _, err := Parse([]string{"-log-format", "xml", "pipeline.hcl"}, &out)
	require.Error(t, err)

	exitErr, ok := err.(*ExitError)
	require.True(t, ok)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, "invalid log-format")
}

func TestParse_InvalidLogLevel(t *testing.T) {
	var out bytes.Buffer

	_, _, err := Parse([]string{"-log-level", "loud", "pipeline.hcl"}, &out)
	require.Error(t, err)

	exitErr, ok := err.(*ExitError)
	require.True(t, ok)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, "invalid log-level")
}

func TestParse_UnknownFlag(t *testing.T) {
	var out bytes.Buffer

	_, _, err := Parse([]string{"-bogus"}, &out)
	require.Error(t, err)

	exitErr, ok := err.(*ExitError)
	require.True(t, ok)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_Help(t *testing.T) {
	var out bytes.Buffer

	cfg, exit, err := Parse([]string{"-h"}, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
}
