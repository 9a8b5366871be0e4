package emitter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepTemp(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-2 * time.Hour)

	write := func(name string, mtime time.Time) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))
		require.NoError(t, os.Chtimes(p, mtime, mtime))
		return p
	}
	stale := write("smartcal_1.applescript", old)
	fresh := write("smartcal_2.applescript", time.Now())
	foreign := write("other_1.applescript", old)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "smartcal_dir"), 0o700))

	n, err := SweepTemp(dir, "smartcal_", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
	assert.FileExists(t, foreign)
	assert.DirExists(t, filepath.Join(dir, "smartcal_dir"))
}

func TestSweepTempEdgeCases(t *testing.T) {
	n, err := SweepTemp(filepath.Join(t.TempDir(), "missing"), "smartcal_", time.Hour)
	assert.NoError(t, err)
	assert.Zero(t, n)

	dir := t.TempDir()
	p := filepath.Join(dir, "anything")
	require.NoError(t, os.WriteFile(p, nil, 0o600))
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(p, old, old))

	n, err = SweepTemp(dir, "", time.Hour)
	assert.NoError(t, err)
	assert.Zero(t, n, "an empty prefix sweeps nothing")
	assert.FileExists(t, p)
}
