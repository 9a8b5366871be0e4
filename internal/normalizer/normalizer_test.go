package normalizer

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-calendar/internal/model"
	"smart-calendar/pkg/apperr"
	pkgLog "smart-calendar/pkg/log"
)

var testLoc = time.FixedZone("UTC+8", 8*3600)

func newTestNormalizer() *Normalizer {
	return New(testLoc, pkgLog.NewNop())
}

func at(day, hour, min int) time.Time {
	return time.Date(2025, 1, day, hour, min, 0, 0, testLoc)
}

func TestNormalize_TeamMeetingScenario(t *testing.T) {
	raw := []byte(`{"title":"Team meeting","start_time":"2025-01-16 14:00","end_time":"2025-01-16 15:00","calendar_type":"meetings"}`)

	got, err := newTestNormalizer().Normalize(context.Background(), raw)
	require.NoError(t, err)

	want := model.NormalizedEvent{
		Title:         "Team meeting",
		Start:         at(16, 14, 0),
		End:           at(16, 15, 0),
		Status:        model.StatusConfirmed,
		Priority:      model.PriorityMedium,
		CalendarType:  model.CalendarMeetings,
		Recurrence:    model.RecurrenceNone,
		Alerts:        []int{},
		ExcludedDates: []time.Time{},
		Attendees:     []string{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 60, got.DurationMinutes())
}

func TestNormalize_ResponseShapes(t *testing.T) {
	const event = `{"title":"Review","start_time":"2025-01-17 10:00","description":"has {braces} and \"quotes\""}`

	tests := []struct {
		name     string
		raw      string
		strategy Strategy
	}{
		{"direct object", event, StrategyDirect},
		{
			"anthropic envelope",
			`{"id":"msg_1","type":"message","content":[{"type":"text","text":` + quote(event) + `}]}`,
			StrategyWrapper,
		},
		{
			"envelope with fence and prose",
			`{"content":[{"type":"text","text":` + quote("Sure! Here it is:\n```json\n"+event+"\n```\nLet me know.") + `}]}`,
			StrategyWrapper,
		},
		{
			"openai style envelope",
			`{"choices":[{"message":{"content":` + quote(event) + `}}]}`,
			StrategyWrapper,
		},
		{"trailing prose", event + "\n\nNote: I assumed {a default} duration.", StrategyScan},
		{"leading prose", `Here is the event {not json} then ` + event, StrategyScan},
		{"nested event key", `{"event":` + event + `}`, StrategyDirect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, strategy, err := Extract([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.strategy, strategy)
			assert.Equal(t, "Review", d.Title)
			assert.Equal(t, "2025-01-17 10:00", d.StartTime)
			assert.Equal(t, `has {braces} and "quotes"`, d.Description)
		})
	}
}

func TestExtract_PatternFallback(t *testing.T) {
	// Truncated reply: the object never closes.
	raw := `{"title": "Dentist", "start_time": "2025-01-20 09:30", "allday": false, "alerts": [15, 60], "location": "Main St`

	d, strategy, err := Extract([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, StrategyPattern, strategy)
	assert.Equal(t, "Dentist", d.Title)
	assert.Equal(t, "2025-01-20 09:30", d.StartTime)
	assert.Equal(t, []int{15, 60}, d.Alerts)
}

func TestExtract_Failures(t *testing.T) {
	_, _, err := Extract(nil)
	assert.ErrorIs(t, err, apperr.ErrAIResponseInvalid)

	_, _, err = Extract([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`))
	assert.ErrorIs(t, err, apperr.ErrAIResponseInvalid)

	_, _, err = Extract([]byte("I could not understand that request."))
	assert.ErrorIs(t, err, apperr.ErrJSONParseFailed)
}

func TestObjectCandidates(t *testing.T) {
	got := objectCandidates(`say "hi" then {"a":"}"} and {"b":{"c":[1,{}]}} tail {`)
	want := []string{`{"a":"}"}`, `{"b":{"c":[1,{}]}}`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("objectCandidates mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	n := newTestNormalizer()
	ctx := context.Background()

	tests := []struct {
		name    string
		draft   EventDraft
		check   func(t *testing.T, ev model.NormalizedEvent)
		wantErr *apperr.Error
	}{
		{
			name:    "missing title",
			draft:   EventDraft{StartTime: "2025-01-16 14:00"},
			wantErr: apperr.ErrValidationFailed,
		},
		{
			name:    "missing start",
			draft:   EventDraft{Title: "x"},
			wantErr: apperr.ErrValidationFailed,
		},
		{
			name:    "bad start",
			draft:   EventDraft{Title: "x", StartTime: "tomorrow-ish"},
			wantErr: apperr.ErrDateFormatInvalid,
		},
		{
			name:    "bad end",
			draft:   EventDraft{Title: "x", StartTime: "2025-01-16 14:00", EndTime: "later"},
			wantErr: apperr.ErrDateFormatInvalid,
		},
		{
			name:    "unknown calendar type",
			draft:   EventDraft{Title: "x", StartTime: "2025-01-16 14:00", CalendarType: "holidays"},
			wantErr: apperr.ErrValidationFailed,
		},
		{
			name:    "unknown recurrence",
			draft:   EventDraft{Title: "x", StartTime: "2025-01-16 14:00", Recurrence: "every blue moon"},
			wantErr: apperr.ErrValidationFailed,
		},
		{
			name:    "unknown status",
			draft:   EventDraft{Title: "x", StartTime: "2025-01-16 14:00", Status: "postponed"},
			wantErr: apperr.ErrValidationFailed,
		},
		{
			name:  "missing end defaults to one hour",
			draft: EventDraft{Title: "x", StartTime: "2025-01-16 14:00:30"},
			check: func(t *testing.T, ev model.NormalizedEvent) {
				assert.Equal(t, time.Date(2025, 1, 16, 15, 0, 30, 0, testLoc), ev.End)
			},
		},
		{
			name:  "negative duration is clamped",
			draft: EventDraft{Title: "x", StartTime: "2025-01-16 14:00", EndTime: "2025-01-16 13:00"},
			check: func(t *testing.T, ev model.NormalizedEvent) {
				assert.Equal(t, at(16, 15, 0), ev.End)
			},
		},
		{
			name:  "date only start is all day",
			draft: EventDraft{Title: "Holiday", StartTime: "2025-01-20"},
			check: func(t *testing.T, ev model.NormalizedEvent) {
				assert.True(t, ev.AllDay)
				assert.Equal(t, at(20, 0, 0), ev.Start)
				assert.Equal(t, ev.Start, ev.End)
			},
		},
		{
			name: "TTh class",
			draft: EventDraft{
				Title: "Physics lecture", StartTime: "2025-01-16 09:00", EndTime: "2025-01-16 10:15",
				Recurrence: "TTh", Priority: "High Priority", Status: "Canceled",
			},
			check: func(t *testing.T, ev model.NormalizedEvent) {
				assert.Equal(t, model.Recurrence("weekly_tue_thu"), ev.Recurrence)
				assert.Equal(t, "FREQ=WEEKLY;INTERVAL=1;BYDAY=TU,TH", ev.RecurrenceRule())
				assert.Equal(t, model.PriorityHigh, ev.Priority)
				assert.Equal(t, model.StatusCancelled, ev.Status)
				assert.Equal(t, 75, ev.DurationMinutes())
			},
		},
		{
			name: "sets are cleaned",
			draft: EventDraft{
				Title: "  Sync   with  team ", StartTime: "2025-01-16 14:00",
				Alerts:        []int{15, -5, 15, 0},
				Attendees:     []string{"Bob <BOB@example.com>", "bob@example.com", "not an email", " amy@example.com "},
				ExcludedDates: []string{"2025-02-03", "2025-01-27", "2025-02-03", "garbage"},
			},
			check: func(t *testing.T, ev model.NormalizedEvent) {
				assert.Equal(t, "Sync with team", ev.Title)
				assert.Equal(t, []int{15, 0}, ev.Alerts)
				assert.Equal(t, []string{"bob@example.com", "amy@example.com"}, ev.Attendees)
				require.Len(t, ev.ExcludedDates, 2)
				assert.Equal(t, at(27, 0, 0), ev.ExcludedDates[0])
				assert.Equal(t, time.Date(2025, 2, 3, 0, 0, 0, 0, testLoc), ev.ExcludedDates[1])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := n.Validate(ctx, tt.draft)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, ev)
		})
	}
}

func TestValidate_RelativeDates(t *testing.T) {
	// 2025-01-15 is a Wednesday.
	n := New(testLoc, pkgLog.NewNop(), WithClock(func() time.Time { return at(15, 9, 0) }))
	ctx := context.Background()

	ev, err := n.Validate(ctx, EventDraft{
		Title:         "Design review",
		StartTime:     "tomorrow 14:00",
		EndTime:       "明天 15:30",
		ExcludedDates: []string{"下周三", "2025-01-29"},
	})
	require.NoError(t, err)
	assert.Equal(t, at(16, 14, 0), ev.Start)
	assert.Equal(t, at(16, 15, 30), ev.End)
	assert.False(t, ev.AllDay)
	assert.Equal(t, []time.Time{at(22, 0, 0), at(29, 0, 0)}, ev.ExcludedDates)

	ev, err = n.Validate(ctx, EventDraft{Title: "Offsite", StartTime: "next friday"})
	require.NoError(t, err)
	assert.True(t, ev.AllDay)
	assert.Equal(t, at(17, 0, 0), ev.Start)
	assert.Equal(t, at(17, 0, 0), ev.End)

	_, err = n.Validate(ctx, EventDraft{Title: "x", StartTime: "tomorrow 25:00"})
	assert.ErrorIs(t, err, apperr.ErrDateFormatInvalid)
}

func TestDraftCoercion(t *testing.T) {
	d, _, err := Extract([]byte(`{"summary":"Gym","start":"2025-01-18 07:00","all_day":"false","alerts":"10, 30","attendees":"a@x.io, b@x.io"}`))
	require.NoError(t, err)
	assert.Equal(t, "Gym", d.Title)
	assert.Equal(t, "2025-01-18 07:00", d.StartTime)
	assert.False(t, d.AllDay)
	assert.Equal(t, []int{10, 30}, d.Alerts)
	assert.Equal(t, []string{"a@x.io", "b@x.io"}, d.Attendees)
}

func quote(s string) string {
	b := []byte{'"'}
	for _, r := range s {
		switch r {
		case '"':
			b = append(b, '\\', '"')
		case '\\':
			b = append(b, '\\', '\\')
		case '\n':
			b = append(b, '\\', 'n')
		default:
			b = append(b, string(r)...)
		}
	}
	return string(append(b, '"'))
}
