package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "gallery dev (none)\n", out)
}

func TestConfigCommandPrintsEffectiveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gallery.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"9100\"\nstorage:\n  driver: memory\n"), 0o644))

	out, err := execute(t, "config", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "9100")
	assert.Contains(t, out, "driver: memory")
}

func TestConfigCommandRejectsBadFile(t *testing.T) {
	_, err := execute(t, "config", "-c", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestRootRejectsUnknownArgs(t *testing.T) {
	_, err := execute(t, "bogus")
	assert.Error(t, err)
}
