package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherForwardsWriteToWatchedPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mesh.off")
	require.NoError(t, os.WriteFile(path, []byte("OFF\n0 0 0\n"), 0o644))

	w, err := NewWatcher(WithDebounce(10 * time.Millisecond))
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Watch(path))

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	assert.Equal(t, abs, w.Path())

	require.NoError(t, os.WriteFile(path, []byte("OFF\n3 1 0\n"), 0o644))

	select {
	case got := <-w.Events():
		assert.Equal(t, abs, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change event for the watched file")
	}
}

func TestWatcherMovesToNewDirectoryAfterOldOneIsGone(t *testing.T) {
	root := t.TempDir()
	oldDir := filepath.Join(root, "old")
	newDir := filepath.Join(root, "new")
	require.NoError(t, os.Mkdir(oldDir, 0o755))
	require.NoError(t, os.Mkdir(newDir, 0o755))
	oldPath := filepath.Join(oldDir, "mesh.off")
	newPath := filepath.Join(newDir, "mesh.off")
	require.NoError(t, os.WriteFile(oldPath, nil, 0o644))
	require.NoError(t, os.WriteFile(newPath, nil, 0o644))

	w, err := NewWatcher(WithDebounce(10 * time.Millisecond))
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Watch(oldPath))

	// The old watch can no longer be removed; switching must still succeed.
	require.NoError(t, os.RemoveAll(oldDir))
	require.NoError(t, w.Watch(newPath))

	abs, err := filepath.Abs(newPath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(newPath, []byte("OFF\n0 0 0\n"), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-w.Events():
			if got == abs {
				return
			}
		case <-deadline:
			t.Fatal("no change event for the file in the new directory")
		}
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mesh.off")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	w, err := NewWatcher(WithDebounce(10 * time.Millisecond))
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Watch(path))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.off"), []byte("x"), 0o644))

	select {
	case got := <-w.Events():
		t.Fatalf("unexpected event for %s", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherCloseClosesEvents(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, ok := <-w.Events()
	assert.False(t, ok)
}
