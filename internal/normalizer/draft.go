package normalizer

import (
	"encoding/json"
	"strconv"
	"strings"
)

// EventDraft is the permissive shape of an event before validation.
type EventDraft struct {
	Title         string
	StartTime     string
	EndTime       string
	AllDay        bool
	Description   string
	Location      string
	URL           string
	Status        string
	Priority      string
	CalendarType  string
	Recurrence    string
	Alerts        []int
	ExcludedDates []string
	Attendees     []string
}

// Field spellings models use besides the requested snake_case ones.
var fieldAliases = map[string][]string{
	"title":          {"title", "summary", "name"},
	"start_time":     {"start_time", "startTime", "start", "start_date"},
	"end_time":       {"end_time", "endTime", "end", "end_date"},
	"allday":         {"allday", "all_day", "allDay", "is_all_day"},
	"description":    {"description", "notes", "details"},
	"location":       {"location", "place"},
	"url":            {"url", "link"},
	"status":         {"status"},
	"priority":       {"priority"},
	"calendar_type":  {"calendar_type", "calendarType", "calendar"},
	"recurrence":     {"recurrence", "repeat", "recurring"},
	"alerts":         {"alerts", "alarms", "reminders"},
	"excluded_dates": {"excluded_dates", "excludedDates", "exdates"},
	"attendees":      {"attendees", "participants", "invitees"},
}

func lookup(m map[string]any, field string) (any, bool) {
	for _, k := range fieldAliases[field] {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func draftFromMap(m map[string]any) EventDraft {
	get := func(field string) any {
		v, _ := lookup(m, field)
		return v
	}
	return EventDraft{
		Title:         asString(get("title")),
		StartTime:     asString(get("start_time")),
		EndTime:       asString(get("end_time")),
		AllDay:        asBool(get("allday")),
		Description:   asString(get("description")),
		Location:      asString(get("location")),
		URL:           asString(get("url")),
		Status:        asString(get("status")),
		Priority:      asString(get("priority")),
		CalendarType:  asString(get("calendar_type")),
		Recurrence:    asString(get("recurrence")),
		Alerts:        asInts(get("alerts")),
		ExcludedDates: asStrings(get("excluded_dates")),
		Attendees:     asStrings(get("attendees")),
	}
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "1", "y":
			return true
		}
	case json.Number:
		n, err := t.Float64()
		return err == nil && n != 0
	case float64:
		return t != 0
	}
	return false
}

func asInts(v any) []int {
	var out []int
	add := func(x any) {
		switch t := x.(type) {
		case json.Number:
			if n, err := t.Int64(); err == nil {
				out = append(out, int(n))
			} else if f, err := t.Float64(); err == nil {
				out = append(out, int(f))
			}
		case float64:
			out = append(out, int(t))
		case string:
			for _, p := range strings.Split(t, ",") {
				if n, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
					out = append(out, n)
				}
			}
		}
	}
	switch t := v.(type) {
	case []any:
		for _, x := range t {
			add(x)
		}
	default:
		add(t)
	}
	return out
}

func asStrings(v any) []string {
	var out []string
	switch t := v.(type) {
	case []any:
		for _, x := range t {
			if s := asString(x); s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, p := range strings.Split(t, ",") {
			if s := strings.TrimSpace(p); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
