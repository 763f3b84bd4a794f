package settings

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/penwyp/go-focus-monitor/internal/core/constants"
	"github.com/penwyp/go-focus-monitor/internal/core/model"
	"github.com/penwyp/go-focus-monitor/internal/data/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTarget struct {
	mu      sync.Mutex
	current model.Settings
	applied int
}

func (r *recordingTarget) Settings() model.Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current.Clone()
}

func (r *recordingTarget) ApplySettings(s model.Settings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = s.Clone()
	r.applied++
}

func (r *recordingTarget) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.applied
}

func newDoc(t *testing.T) *store.Document {
	t.Helper()
	s, err := store.New(t.TempDir())
	require.NoError(t, err)
	return s.Document(constants.DocumentSettings)
}

func TestReload(t *testing.T) {
	doc := newDoc(t)
	target := &recordingTarget{}
	w, err := NewWatcher(doc, target)
	require.NoError(t, err)
	defer w.Close()

	// Missing file keeps current settings
	assert.False(t, w.Reload())

	require.NoError(t, doc.Write(model.Settings{Whitelist: []string{"b", "a"}, DarkMode: true}))
	assert.True(t, w.Reload())
	assert.Equal(t, 1, target.count())
	assert.True(t, bool(target.Settings().DarkMode))

	// Same content in another order is not a change
	require.NoError(t, doc.Write(model.Settings{Whitelist: []string{"a", "b"}, DarkMode: true}))
	assert.False(t, w.Reload())
	assert.Equal(t, 1, target.count())
}

func TestReloadIgnoresWriteInFlight(t *testing.T) {
	doc := newDoc(t)
	require.NoError(t, doc.Write(model.Settings{Whitelist: []string{"old"}}))
	require.NoError(t, doc.Write(model.Settings{Whitelist: []string{"old", "new"}}))

	target := &recordingTarget{}
	target.ApplySettings(model.Settings{Whitelist: []string{"new", "old"}})
	w, err := NewWatcher(doc, target)
	require.NoError(t, err)
	defer w.Close()

	// Another process has rotated the stable file away and not yet renamed its copy in
	require.NoError(t, os.Rename(doc.Path(), doc.BackupPath()))
	require.NoError(t, os.WriteFile(doc.BackupPath(), []byte(`{"whitelist":["old"]}`), 0644))

	assert.False(t, w.Reload())
	assert.Equal(t, []string{"new", "old"}, target.Settings().Whitelist)
	_, err = os.Stat(doc.Path())
	assert.True(t, os.IsNotExist(err), "the watcher never heals the stable file")
}

func TestRunAppliesExternalWrite(t *testing.T) {
	doc := newDoc(t)
	target := &recordingTarget{}
	w, err := NewWatcher(doc, target)
	require.NoError(t, err)
	defer w.Close()
	w.SetDebounce(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, doc.Write(model.Settings{Whitelist: []string{"code"}}))

	require.Eventually(t, func() bool {
		return target.count() == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"code"}, target.Settings().Whitelist)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b model.Settings
		want bool
	}{
		{"empty", model.Settings{}, model.Settings{Whitelist: []string{}}, true},
		{"order", model.Settings{Whitelist: []string{"a", "b"}}, model.Settings{Whitelist: []string{"b", "a"}}, true},
		{"duplicates", model.Settings{Whitelist: []string{"a", "a"}}, model.Settings{Whitelist: []string{"a"}}, true},
		{"whitelist differs", model.Settings{Whitelist: []string{"a"}}, model.Settings{Whitelist: []string{"b"}}, false},
		{"dark mode", model.Settings{DarkMode: true}, model.Settings{}, false},
		{"start minimized", model.Settings{StartMinimized: true}, model.Settings{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}
