package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/ridgegrow/internal/testutil"
)

func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	// A syntax error makes app.NewApp panic while loading the scene.
	invalidHCL := `
		mesh {
			vertices = [
		// Missing closing brackets here
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0o600), "failed to set up test file")

	runErr := run(context.Background(), &bytes.Buffer{}, []string{filePath})

	require.Error(t, runErr, "run() should have returned an error after recovering from a panic")
	require.Contains(t, runErr.Error(), "application startup panicked")
	require.Contains(t, runErr.Error(), "failed to parse")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_GrowsScene(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	scene := filepath.Join(dir, "scene.hcl")
	output := filepath.Join(dir, "ridges.geojson")
	src := "engine {\n  strategy = \"hill_climb\"\n  poll_timeout = \"10ms\"\n}\n" + testutil.ConfluenceScene().HCL()
	require.NoError(t, os.WriteFile(scene, []byte(src), 0o600))

	err := run(context.Background(), &bytes.Buffer{}, []string{"-log-level", "error", "-output", output, scene})
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Contains(t, string(data), `"ridge-1"`)
}
