package watch

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchPaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git", "refs", "heads"), 0o755))

	got := slices.Sorted(watchPaths(root))
	want := []string{
		root,
		filepath.Join(root, ".git"),
		filepath.Join(root, ".git", "refs", "heads"),
	}
	slices.Sort(want)
	assert.Equal(t, want, got)
}

func TestWatchPathsWithoutGitDir(t *testing.T) {
	root := t.TempDir()
	assert.Equal(t, []string{root}, slices.Collect(watchPaths(root)))
	assert.Empty(t, slices.Collect(watchPaths("")))
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write", fsnotify.Event{Name: "/r/.git/index", Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: "/r/main.go", Op: fsnotify.Create}, true},
		{"chmod", fsnotify.Event{Name: "/r/main.go", Op: fsnotify.Chmod}, false},
		{"lock", fsnotify.Event{Name: "/r/.git/index.lock", Op: fsnotify.Create}, false},
		{"ipc", fsnotify.Event{Name: "/r/.git/fsmonitor.IPC", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevant(tt.ev))
		})
	}
}

func TestWatcherPulsesOnChange(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))

	w, err := New(root, 10*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	assert.False(t, w.Poll())
	for i := range 3 {
		name := filepath.Join(root, ".git", "file"+string(rune('a'+i)))
		require.NoError(t, os.WriteFile(name, []byte("x"), 0o644))
	}

	deadline := time.Now().Add(2 * time.Second)
	for !w.Poll() {
		if time.Now().After(deadline) {
			t.Fatal("no pulse after repository change")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNilWatcher(t *testing.T) {
	var w *Watcher
	assert.False(t, w.Poll())
	assert.NoError(t, w.Close())
}
