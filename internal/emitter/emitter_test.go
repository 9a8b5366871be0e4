package emitter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"smart-calendar/internal/model"
	"smart-calendar/pkg/apperr"
	"smart-calendar/pkg/datemath"
	pkgLog "smart-calendar/pkg/log"
)

type fakeRunner struct {
	scripts []string
	out     string
	err     error
}

func (f *fakeRunner) Run(ctx context.Context, script string) (string, error) {
	f.scripts = append(f.scripts, script)
	return f.out, f.err
}

func TestValidateEvent(t *testing.T) {
	start := time.Date(2025, 1, 16, 14, 0, 0, 0, testLoc)
	tests := []struct {
		name string
		ev   model.NormalizedEvent
		want *apperr.Error
	}{
		{"ok", model.NormalizedEvent{Title: "x", Start: start, End: start}, nil},
		{"blank title", model.NormalizedEvent{Title: "  ", Start: start, End: start}, apperr.ErrValidationFailed},
		{"no start", model.NormalizedEvent{Title: "x", End: start}, apperr.ErrDateFormatInvalid},
		{"no end", model.NormalizedEvent{Title: "x", Start: start}, apperr.ErrDateFormatInvalid},
		{"end before start", model.NormalizedEvent{Title: "x", Start: start, End: start.Add(-time.Minute)}, apperr.ErrValidationFailed},
		{"all-day may end on its start", model.NormalizedEvent{Title: "x", Start: start, End: start.Add(-time.Minute), AllDay: true}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEvent(tt.ev)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestScriptEmitter(t *testing.T) {
	runner := &fakeRunner{out: "UID-1"}
	e, err := New(Config{Runner: runner, DefaultCalendar: "Personal"}, pkgLog.NewNop())
	require.NoError(t, err)

	t.Run("emit", func(t *testing.T) {
		r, err := e.Emit(context.Background(), sampleEvent())
		require.NoError(t, err)
		assert.Equal(t, Receipt{Backend: BackendAppleScript, Calendar: "Meetings", Reference: "UID-1"}, r)
		require.Len(t, runner.scripts, 1)
		assert.Contains(t, runner.scripts[0], `whose name is "Meetings"`)
	})

	t.Run("preview does not run", func(t *testing.T) {
		r, err := e.Preview(context.Background(), sampleEvent())
		require.NoError(t, err)
		assert.True(t, r.DryRun)
		assert.Contains(t, r.Command, "make new event")
		assert.Len(t, runner.scripts, 1)
	})

	t.Run("invalid event never reaches the runner", func(t *testing.T) {
		_, err := e.Emit(context.Background(), model.NormalizedEvent{})
		assert.ErrorIs(t, err, apperr.ErrValidationFailed)
		assert.Len(t, runner.scripts, 1)
	})

	t.Run("runner errors pass through", func(t *testing.T) {
		runner.err = apperr.New(apperr.CodeAppNotRunning)
		_, err := e.Emit(context.Background(), sampleEvent())
		assert.ErrorIs(t, err, apperr.ErrAppNotRunning)
	})
}

func TestNew(t *testing.T) {
	_, err := New(Config{Backend: "carrier-pigeon"}, pkgLog.NewNop())
	assert.Error(t, err)

	_, err = New(Config{Backend: BackendGoogle}, pkgLog.NewNop())
	assert.Error(t, err, "google needs a client")

	e, err := New(Config{Backend: "ICS"}, pkgLog.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &icsEmitter{}, e)
}

func TestUnknownRecurrenceIsWarned(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	e, err := New(Config{Runner: &fakeRunner{out: "UID-1"}}, pkgLog.NewFromZap(zap.New(core)))
	require.NoError(t, err)

	ev := sampleEvent()
	ev.Recurrence = "every blue moon"
	r, err := e.Preview(context.Background(), ev)
	require.NoError(t, err)
	assert.NotContains(t, r.Command, "recurrence:")

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).FilterMessageSnippet("unknown recurrence").All()
	assert.Len(t, warnings, 1)

	ev.Recurrence = model.Recurrence(datemath.RecurWeekly)
	_, err = e.Preview(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessageSnippet("unknown recurrence").Len())
}
