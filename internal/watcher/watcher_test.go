package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"drill write", fsnotify.Event{Name: "gerbers/Board.drl", Op: fsnotify.Write}, true},
		{"drill create", fsnotify.Event{Name: "Board.TX1", Op: fsnotify.Create}, true},
		{"drill removed", fsnotify.Event{Name: "Board-NPTH.drl", Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: "Board.drl", Op: fsnotify.Chmod}, false},
		{"gerber layer", fsnotify.Event{Name: "Board.GTL", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevant(tt.ev))
		})
	}
}

func TestRunDebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, 200*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	batches := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(paths []string) error {
			batches <- paths
			return nil
		})
	}()

	for _, name := range []string{"b.drl", "a.drl", "notes.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("M48\n"), 0o644))
	}

	select {
	case paths := <-batches:
		assert.Equal(t, []string{filepath.Join(dir, "a.drl"), filepath.Join(dir, "b.drl")}, paths)
	case <-ctx.Done():
		t.Fatal("no change batch delivered")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
