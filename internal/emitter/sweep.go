package emitter

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SweepTemp removes files in dir whose name starts with prefix and whose
// modification time is older than maxAge. It returns how many were removed.
// An empty dir means os.TempDir().
func SweepTemp(dir, prefix string, maxAge time.Duration) (int, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if prefix == "" {
		// Never sweep a shared temp dir without a prefix.
		return 0, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	var firstErr error
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			if !os.IsNotExist(err) && firstErr == nil {
				firstErr = err
			}
			continue
		}
		removed++
	}
	return removed, firstErr
}
