package emitter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"smart-calendar/internal/model"
)

// asValue is one AppleScript expression in a property record.
type asValue interface {
	render() string
}

type asString string

func (s asString) render() string { return quoteAS(string(s)) }

type asBool bool

func (b asBool) render() string { return strconv.FormatBool(bool(b)) }

// asRef names a variable declared earlier in the script.
type asRef string

func (r asRef) render() string { return string(r) }

type asList []asValue

func (l asList) render() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = v.render()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

type property struct {
	key   string
	value asValue
}

// ScriptBuilder renders a NormalizedEvent into a Calendar.app script. User
// text only ever enters the script through quoteAS.
type ScriptBuilder struct {
	app      string
	fallback string
}

// NewScriptBuilder creates a builder targeting app. fallback names the
// calendar used when the event has no calendar type.
func NewScriptBuilder(app, fallback string) *ScriptBuilder {
	if app == "" {
		app = "Calendar"
	}
	return &ScriptBuilder{app: app, fallback: fallback}
}

// Build returns the script for ev. ev must already be validated.
func (b *ScriptBuilder) Build(ev model.NormalizedEvent) string {
	var sb strings.Builder
	w := func(indent int, format string, args ...any) {
		sb.WriteString(strings.Repeat("\t", indent))
		fmt.Fprintf(&sb, format, args...)
		sb.WriteByte('\n')
	}

	calendar := ev.CalendarName(b.fallback)

	w(0, "tell application %s", quoteAS(b.app))
	w(1, "set targetCal to missing value")
	w(1, "try")
	w(2, "set targetCal to first calendar whose name is %s", quoteAS(calendar))
	w(1, "end try")
	w(1, "if targetCal is missing value then")
	w(2, "set targetCal to first calendar whose writable is true")
	w(1, "end if")

	for _, line := range dateLines("startDate", ev.Start) {
		w(1, "%s", line)
	}
	for _, line := range dateLines("endDate", ev.End) {
		w(1, "%s", line)
	}
	var exRefs asList
	for i, d := range ev.ExcludedDates {
		name := fmt.Sprintf("exDate%d", i+1)
		for _, line := range dateLines(name, d) {
			w(1, "%s", line)
		}
		exRefs = append(exRefs, asRef(name))
	}

	w(1, "set newEvent to make new event at end of events of targetCal with properties %s",
		renderRecord(eventProperties(ev, exRefs)))

	if len(ev.Alerts) > 0 || len(ev.Attendees) > 0 {
		w(1, "tell newEvent")
		for _, minutes := range ev.Alerts {
			w(2, "make new display alarm at end of display alarms with properties {trigger interval:%d}", -minutes)
		}
		for _, email := range ev.Attendees {
			w(2, "make new attendee at end of attendees with properties {email:%s}", quoteAS(email))
		}
		w(1, "end tell")
	}
	w(1, "return uid of newEvent")
	w(0, "end tell")
	return sb.String()
}

// eventProperties lists required properties first, then optional ones only
// when they carry a value; Calendar rejects some empty properties.
func eventProperties(ev model.NormalizedEvent, exRefs asList) []property {
	props := []property{
		{"summary", asString(ev.Title)},
		{"start date", asRef("startDate")},
		{"end date", asRef("endDate")},
	}
	optional := func(key, v string) {
		if v != "" {
			props = append(props, property{key, asString(v)})
		}
	}
	optional("description", description(ev))
	optional("location", ev.Location)
	optional("url", ev.URL)
	optional("recurrence", ev.RecurrenceRule())
	if ev.AllDay {
		props = append(props, property{"allday event", asBool(true)})
	}
	if len(exRefs) > 0 {
		props = append(props, property{"excluded dates", exRefs})
	}
	return props
}

// description appends the meeting link when the text does not carry it yet.
func description(ev model.NormalizedEvent) string {
	if ev.MeetingURL == "" || strings.Contains(ev.Description, ev.MeetingURL) {
		return ev.Description
	}
	if ev.Description == "" {
		return "Join: " + ev.MeetingURL
	}
	return ev.Description + "\n\nJoin: " + ev.MeetingURL
}

func renderRecord(props []property) string {
	parts := make([]string, len(props))
	for i, p := range props {
		parts[i] = p.key + ":" + p.value.render()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// dateLines builds a date from numeric components so the script does not
// depend on the host's date format. The day is reset first so that month
// changes cannot overflow.
func dateLines(name string, t time.Time) []string {
	secs := t.Hour()*3600 + t.Minute()*60 + t.Second()
	return []string{
		fmt.Sprintf("set %s to current date", name),
		fmt.Sprintf("set day of %s to 1", name),
		fmt.Sprintf("set year of %s to %d", name, t.Year()),
		fmt.Sprintf("set month of %s to %d", name, int(t.Month())),
		fmt.Sprintf("set day of %s to %d", name, t.Day()),
		fmt.Sprintf("set time of %s to %d", name, secs),
	}
}

// quoteAS returns s as an AppleScript string literal.
func quoteAS(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
