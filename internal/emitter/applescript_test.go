package emitter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"smart-calendar/internal/model"
)

var testLoc = time.FixedZone("UTC+8", 8*3600)

func sampleEvent() model.NormalizedEvent {
	start := time.Date(2025, 1, 16, 14, 0, 0, 0, testLoc)
	return model.NormalizedEvent{
		Title:         `Say "hi" \ now`,
		Start:         start,
		End:           start.Add(time.Hour),
		Description:   "line1\nline2",
		Status:        model.StatusConfirmed,
		Priority:      model.PriorityMedium,
		CalendarType:  model.CalendarMeetings,
		Recurrence:    "weekly_tue_thu",
		Alerts:        []int{15, 0},
		Attendees:     []string{"amy@example.com"},
		ExcludedDates: []time.Time{time.Date(2025, 1, 21, 0, 0, 0, 0, testLoc)},
	}
}

func TestScriptBuilderBuild(t *testing.T) {
	script := NewScriptBuilder("Calendar", "Personal").Build(sampleEvent())

	for _, want := range []string{
		`tell application "Calendar"`,
		`set targetCal to first calendar whose name is "Meetings"`,
		`set targetCal to first calendar whose writable is true`,
		"set day of startDate to 1\n",
		"set year of startDate to 2025\n",
		"set month of startDate to 1\n",
		"set day of startDate to 16\n",
		"set time of startDate to 50400\n",
		"set time of endDate to 54000\n",
		"set day of exDate1 to 21\n",
		`with properties {summary:"Say \"hi\" \\ now", start date:startDate, end date:endDate, ` +
			`description:"line1\nline2", recurrence:"FREQ=WEEKLY;INTERVAL=1;BYDAY=TU,TH", excluded dates:{exDate1}}`,
		"make new display alarm at end of display alarms with properties {trigger interval:-15}",
		"make new display alarm at end of display alarms with properties {trigger interval:0}",
		`make new attendee at end of attendees with properties {email:"amy@example.com"}`,
		"return uid of newEvent",
	} {
		assert.Contains(t, script, want)
	}

	// Alerts and attendees are added to the created event, not inline.
	create := strings.Index(script, "make new event")
	alarm := strings.Index(script, "make new display alarm")
	assert.Greater(t, alarm, create)
	assert.NotContains(t, script, "allday event")
	assert.NotContains(t, script, "location:")
}

func TestScriptBuilderOmitsEmptyProperties(t *testing.T) {
	ev := model.NormalizedEvent{
		Title: "Focus",
		Start: time.Date(2025, 3, 31, 9, 30, 15, 0, testLoc),
		End:   time.Date(2025, 3, 31, 10, 0, 0, 0, testLoc),
	}
	script := NewScriptBuilder("", "Personal").Build(ev)

	assert.Contains(t, script, `tell application "Calendar"`)
	assert.Contains(t, script, `whose name is "Personal"`)
	assert.Contains(t, script, `with properties {summary:"Focus", start date:startDate, end date:endDate}`)
	assert.Contains(t, script, "set time of startDate to 34215\n")
	assert.NotContains(t, script, "tell newEvent")
	assert.NotContains(t, script, "exDate")
}

func TestScriptBuilderAllDayAndMeeting(t *testing.T) {
	day := time.Date(2025, 1, 20, 0, 0, 0, 0, testLoc)
	ev := model.NormalizedEvent{
		Title:    "Offsite",
		Start:    day,
		End:      day,
		AllDay:   true,
		Location: "Room 1",
	}
	ev.AttachMeeting(model.MeetingResource{ID: "1", JoinURL: "https://zoom.us/j/1"})

	script := NewScriptBuilder("Calendar", "Work").Build(ev)
	assert.Contains(t, script, `description:"Join: https://zoom.us/j/1", location:"Room 1", url:"https://zoom.us/j/1", allday event:true}`)
	assert.Contains(t, script, `whose name is "Work"`)
}

func TestQuoteAS(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", `"plain"`},
		{`a"b`, `"a\"b"`},
		{`back\slash`, `"back\\slash"`},
		{"tab\there", `"tab\there"`},
		{"cr\rlf\n", `"cr\rlf\n"`},
		{"bell\x07gone\x00", `"bellgone"`},
		{"会议 ✓", `"会议 ✓"`},
		{`" & (do shell script "rm -rf ~") & "`, `"\" & (do shell script \"rm -rf ~\") & \""`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, quoteAS(tt.in))
	}
}
