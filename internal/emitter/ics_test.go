package emitter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-calendar/internal/model"
	"smart-calendar/pkg/apperr"
	pkgLog "smart-calendar/pkg/log"
)

func newTestICS(dir string) *icsEmitter {
	return &icsEmitter{
		dir:      dir,
		fallback: "Personal",
		now:      func() time.Time { return time.Date(2025, 1, 15, 1, 2, 3, 0, time.UTC) },
		newUID:   func() string { return "fixed-uid@smartcal" },
		l:        pkgLog.NewNop(),
	}
}

func decodeOne(t *testing.T, data string) ical.Event {
	t.Helper()
	cal, err := ical.NewDecoder(strings.NewReader(data)).Decode()
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 1)
	return events[0]
}

func TestICSPreview(t *testing.T) {
	r, err := newTestICS(t.TempDir()).Preview(context.Background(), sampleEvent())
	require.NoError(t, err)
	assert.True(t, r.DryRun)
	assert.Equal(t, BackendICS, r.Backend)
	assert.Equal(t, "Meetings", r.Calendar)
	assert.Equal(t, "fixed-uid@smartcal", r.Reference)

	ev := decodeOne(t, r.Command)
	text := func(name string) string {
		v, err := ev.Props.Text(name)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "fixed-uid@smartcal", text(ical.PropUID))
	assert.Equal(t, `Say "hi" \ now`, text(ical.PropSummary))
	assert.Equal(t, "line1\nline2", text(ical.PropDescription))
	assert.Equal(t, "Meetings", text(ical.PropCategories))
	assert.Equal(t, "CONFIRMED", text(ical.PropStatus))
	assert.Equal(t, "5", ev.Props.Get(ical.PropPriority).Value)

	start := ev.Props.Get(ical.PropDateTimeStart)
	assert.Equal(t, "20250116T140000", start.Value)
	assert.Equal(t, "UTC+8", start.Params.Get(ical.ParamTimezoneID))
	assert.Equal(t, "20250116T150000", ev.Props.Get(ical.PropDateTimeEnd).Value)

	rrule := ev.Props.Get(ical.PropRecurrenceRule)
	require.NotNil(t, rrule)
	assert.Contains(t, rrule.Value, "FREQ=WEEKLY")
	assert.Contains(t, rrule.Value, "BYDAY=TU,TH")
	assert.Equal(t, "20250121T140000", ev.Props.Get(ical.PropExceptionDates).Value)

	assert.Equal(t, "mailto:amy@example.com", ev.Props.Get(ical.PropAttendee).Value)

	require.Len(t, ev.Children, 2)
	assert.Equal(t, ical.CompAlarm, ev.Children[0].Name)
	assert.Equal(t, "-PT15M", ev.Children[0].Props.Get(ical.PropTrigger).Value)
	assert.Equal(t, "-PT0M", ev.Children[1].Props.Get(ical.PropTrigger).Value)
}

func TestICSAllDay(t *testing.T) {
	day := time.Date(2025, 1, 20, 0, 0, 0, 0, testLoc)
	r, err := newTestICS(t.TempDir()).Preview(context.Background(), model.NormalizedEvent{
		Title: "Holiday", Start: day, End: day, AllDay: true, Priority: model.PriorityLow,
		Recurrence:    "yearly",
		ExcludedDates: []time.Time{day.AddDate(1, 0, 0)},
	})
	require.NoError(t, err)

	ev := decodeOne(t, r.Command)
	assert.Equal(t, "20250120", ev.Props.Get(ical.PropDateTimeStart).Value)
	assert.Equal(t, "20250121", ev.Props.Get(ical.PropDateTimeEnd).Value)
	assert.Equal(t, "20260120", ev.Props.Get(ical.PropExceptionDates).Value)
	assert.Equal(t, "9", ev.Props.Get(ical.PropPriority).Value)
	assert.Equal(t, "Personal", r.Calendar)
}

func TestICSEmitWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	r, err := newTestICS(dir).Emit(context.Background(), sampleEvent())
	require.NoError(t, err)
	assert.False(t, r.DryRun)
	assert.Equal(t, filepath.Join(dir, "20250116-1400-fixed-uid.ics"), r.Reference)

	data, err := os.ReadFile(r.Reference)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "BEGIN:VCALENDAR"))
	decodeOne(t, string(data))
}

func TestICSRejectsInvalidEvent(t *testing.T) {
	_, err := newTestICS(t.TempDir()).Emit(context.Background(), model.NormalizedEvent{Title: " "})
	assert.ErrorIs(t, err, apperr.ErrValidationFailed)
}
