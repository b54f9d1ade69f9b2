package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestInfoCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "square.off")
	require.NoError(t, os.WriteFile(good, []byte("OFF\n4 2 0\n0 0 0\n2 0 0\n2 2 0\n0 2 0\n3 0 1 2\n3 0 2 3\n"), 0o644))

	stdout, _, err := execute(t, "info", good)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Vertices:   4")
	assert.Contains(t, stdout, "Faces:      2")
	assert.Contains(t, stdout, "Center:     (1.000, 1.000, 0.000)")

	_, stderr, err := execute(t, "info", good, filepath.Join(dir, "missing.off"))
	assert.Error(t, err)
	assert.Contains(t, stderr, "missing.off")
}

func TestInfoCommandUsesConfig(t *testing.T) {
	dir := t.TempDir()
	quad := filepath.Join(dir, "quad.off")
	require.NoError(t, os.WriteFile(quad, []byte("OFF\n4 1 0\n0 0 0\n1 0 0\n1 1 0\n0 1 0\n4 0 1 2 3\n"), 0o644))
	cfg := filepath.Join(dir, "oxy-view.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[loader]\nface_validation = \"ignore\"\n"), 0o644))

	_, _, err := execute(t, "info", quad)
	assert.Error(t, err)

	_, _, err = execute(t, "--config", cfg, "info", quad)
	assert.NoError(t, err)
}

func TestViewFlagsOverrideConfig(t *testing.T) {
	opts := &globalOptions{}
	cmd := newViewCmd(opts)
	require.NoError(t, cmd.ParseFlags([]string{"--backend", "wgpu", "--variant", "gouraud", "--watch"}))

	cfg, err := loadConfig(opts)
	require.NoError(t, err)
	vo := &viewOptions{globalOptions: opts}
	vo.backend, _ = cmd.Flags().GetString("backend")
	vo.variant, _ = cmd.Flags().GetString("variant")
	vo.watch, _ = cmd.Flags().GetBool("watch")
	require.NoError(t, applyViewFlags(cmd, vo, &cfg))

	assert.Equal(t, "wgpu", cfg.Renderer.Backend)
	assert.Equal(t, "gouraud", cfg.Shading.Variant)
	assert.True(t, cfg.Watch.Enabled)
	assert.False(t, cfg.Renderer.OnDemand)

	require.NoError(t, cmd.ParseFlags([]string{"--variant", "toon"}))
	vo.variant, _ = cmd.Flags().GetString("variant")
	assert.Error(t, applyViewFlags(cmd, vo, &cfg))
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "--log-level", "chatty", "info", "x.off")
	assert.Error(t, err)
}
