package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigWatcher_SignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rc.conf")
	require.NoError(t, os.WriteFile(path, []byte("timezone=UTC\n"), 0644))

	w, err := NewConfigWatcher(path, testLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer func() { _ = w.Stop() }()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hostname"), []byte("box\n"), 0644))
	select {
	case <-w.Changes():
		t.Fatal("unexpected change for unrelated file")
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(path, []byte("timezone=Europe/Warsaw\n"), 0644))
	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("no change signalled")
	}
}

func TestConfigWatcher_SignalsOnRenameIntoPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rc.conf")
	require.NoError(t, os.WriteFile(path, []byte("timezone=UTC\n"), 0644))

	w, err := NewConfigWatcher(path, testLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer func() { _ = w.Stop() }()

	tmp := filepath.Join(dir, ".rc.conf.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("timezone=Asia/Tokyo\n"), 0644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("no change signalled")
	}
}

func TestConfigWatcher_StopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rc.conf")
	w, err := NewConfigWatcher(path, testLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start())
	require.NoError(t, w.Start())

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
