package emitter

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-calendar/pkg/apperr"
)

func TestClassifyScriptError(t *testing.T) {
	exit := errors.New("exit status 1")
	bg := context.Background()

	tests := []struct {
		name   string
		ctx    context.Context
		err    error
		stderr string
		want   apperr.Code
	}{
		{"automation denied", bg, exit, "execution error: Not authorized to send Apple events to Calendar. (-1743)", apperr.CodePermissionDenied},
		{"cancelled", bg, exit, "execution error: User canceled. (-128)", apperr.CodeUserCancelled},
		{"not running", bg, exit, "execution error: Calendar got an error: Application isn't running. (-600)", apperr.CodeAppNotRunning},
		{"missing tool", bg, exec.ErrNotFound, "", apperr.CodeDependencyMissing},
		{"missing path", bg, &os.PathError{Op: "fork/exec", Path: "/x/osascript", Err: os.ErrNotExist}, "", apperr.CodeDependencyMissing},
		{"other", bg, exit, "syntax error: Expected end of line. (-2741)", apperr.CodeScriptFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyScriptError(tt.ctx, tt.err, tt.stderr)
			assert.Equal(t, tt.want, got.Code)
		})
	}

	t.Run("deadline", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(bg, time.Nanosecond)
		defer cancel()
		<-ctx.Done()
		assert.Equal(t, apperr.CodeTimedOut, classifyScriptError(ctx, errors.New("signal: killed"), "").Code)
	})
}

// fakeOSAScript writes a shell script standing in for osascript.
func fakeOSAScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "osascript")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestOSAScriptRunner(t *testing.T) {
	ctx := context.Background()

	t.Run("success returns stdout and removes the script", func(t *testing.T) {
		dir := t.TempDir()
		bin := fakeOSAScript(t, `grep -q 'tell application' "$1" || exit 3; echo "  UID-42  "`)
		r := OSAScriptRunner{Bin: bin, Dir: dir, Prefix: "smartcal_"}

		out, err := r.Run(ctx, `tell application "Calendar"`+"\nend tell\n")
		require.NoError(t, err)
		assert.Equal(t, "UID-42", out)

		left, _ := filepath.Glob(filepath.Join(dir, "smartcal_*.applescript"))
		assert.Empty(t, left)
	})

	t.Run("stderr is classified", func(t *testing.T) {
		bin := fakeOSAScript(t, `echo "execution error: Not authorized to send Apple events to Calendar. (-1743)" >&2; exit 1`)
		_, err := OSAScriptRunner{Bin: bin, Dir: t.TempDir(), Prefix: "smartcal_"}.Run(ctx, "x")
		assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
	})

	t.Run("timeout", func(t *testing.T) {
		bin := fakeOSAScript(t, `exec sleep 5`)
		start := time.Now()
		_, err := OSAScriptRunner{Bin: bin, Dir: t.TempDir(), Prefix: "smartcal_", Timeout: 100 * time.Millisecond}.Run(ctx, "x")
		assert.ErrorIs(t, err, apperr.ErrTimedOut)
		assert.Less(t, time.Since(start), 4*time.Second)
	})

	t.Run("missing binary", func(t *testing.T) {
		_, err := OSAScriptRunner{Bin: "smartcal-no-such-osascript", Dir: t.TempDir()}.Run(ctx, "x")
		assert.ErrorIs(t, err, apperr.ErrDependencyMissing)
	})
}
