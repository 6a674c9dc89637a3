package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(modelYAML), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	calls := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, 10*time.Millisecond, func() { calls <- struct{}{} })
	}()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))

	// The watcher may not be registered yet, so keep touching the file
	// until a rebuild is triggered.
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
loop:
	for {
		select {
		case <-calls:
			break loop
		case <-ticker.C:
			require.NoError(t, os.WriteFile(path, []byte(modelYAML), 0o644))
		case <-deadline:
			t.Fatal("no rebuild after the model file changed")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}

func TestWatchFile_MissingDirectory(t *testing.T) {
	err := watchFile(context.Background(), filepath.Join(t.TempDir(), "nope", "model.yaml"), time.Millisecond, func() {})
	assert.ErrorContains(t, err, "watch")
}

func TestRunBuild_Watch(t *testing.T) {
	path := writeModel(t, modelYAML)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	err := runBuild(ctx, &buf, path, buildOptions{Output: "json", Watch: true})
	require.NoError(t, err, "watch mode returns cleanly when the context ends")
	assert.Contains(t, buf.String(), `"model": "lumped"`, "the first build runs before watching")
}
