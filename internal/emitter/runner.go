package emitter

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"smart-calendar/pkg/apperr"
)

// DefaultScriptTimeout bounds one script execution.
const DefaultScriptTimeout = 30 * time.Second

// Runner executes a host automation script and returns its stdout.
type Runner interface {
	Run(ctx context.Context, script string) (string, error)
}

// OSAScriptRunner runs AppleScript through osascript. The script is written
// to a temp file named {Prefix}*.applescript in Dir.
type OSAScriptRunner struct {
	Bin     string
	Dir     string
	Prefix  string
	Timeout time.Duration
}

// Run executes script and maps failures to the error taxonomy.
func (r OSAScriptRunner) Run(ctx context.Context, script string) (string, error) {
	bin := r.Bin
	if bin == "" {
		bin = "osascript"
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultScriptTimeout
	}

	f, err := os.CreateTemp(r.Dir, r.Prefix+"*.applescript")
	if err != nil {
		return "", apperr.Wrap(apperr.CodeScriptFailed, err, "reason", "create script file")
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString(script); err != nil {
		f.Close()
		return "", apperr.Wrap(apperr.CodeScriptFailed, err, "reason", "write script file")
	}
	if err := f.Close(); err != nil {
		return "", apperr.Wrap(apperr.CodeScriptFailed, err, "reason", "write script file")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, f.Name())
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", classifyScriptError(ctx, err, stderr.String())
	}
	return strings.TrimSpace(stdout.String()), nil
}

// classifyScriptError maps an osascript failure onto the error taxonomy.
func classifyScriptError(ctx context.Context, err error, stderr string) *apperr.Error {
	stderr = strings.TrimSpace(stderr)
	lower := strings.ToLower(stderr)

	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, os.ErrNotExist):
		return apperr.Wrap(apperr.CodeDependencyMissing, err, "tool", "osascript")
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperr.Wrap(apperr.CodeTimedOut, err, "stage", "calendar script")
	case errors.Is(ctx.Err(), context.Canceled):
		return apperr.Wrap(apperr.CodeUserCancelled, err)
	case strings.Contains(stderr, "-1743"), strings.Contains(lower, "not authorized"),
		strings.Contains(lower, "not authorised"), strings.Contains(lower, "not allowed to send apple events"):
		return apperr.Wrap(apperr.CodePermissionDenied, err, "stderr", stderr)
	case strings.Contains(stderr, "-128"), strings.Contains(lower, "user canceled"):
		return apperr.Wrap(apperr.CodeUserCancelled, err, "stderr", stderr)
	case strings.Contains(stderr, "-600"), strings.Contains(lower, "isn't running"),
		strings.Contains(lower, "is not running"):
		return apperr.Wrap(apperr.CodeAppNotRunning, err, "stderr", stderr)
	}
	return apperr.Wrap(apperr.CodeScriptFailed, err, "stderr", stderr)
}
