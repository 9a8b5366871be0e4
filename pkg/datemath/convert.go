package datemath

import (
	"strings"
	"time"

	"github.com/ncruces/go-strftime"

	"smart-calendar/pkg/apperr"
)

// Layouts tried in order when the declared input format does not match.
// Minute-precision inputs are accepted and padded to seconds.
var wallClockLayouts = []struct {
	layout   string
	dateOnly bool
}{
	{"2006-01-02 15:04:05", false},
	{"2006-01-02 15:04", false},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02T15:04", false},
	{"2006/01/02 15:04:05", false},
	{"2006/01/02 15:04", false},
	{"2006-01-02", true},
	{"2006/01/02", true},
}

// ParseLocal parses a wall-clock datetime in loc. Offset-qualified inputs
// (RFC3339) are converted into loc. dateOnly is true for bare dates.
func ParseLocal(value string, loc *time.Location) (t time.Time, dateOnly bool, err error) {
	if loc == nil {
		return time.Time{}, false, apperr.New(apperr.CodeTimezoneInvalid)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false, apperr.New(apperr.CodeDateFormatInvalid, "value", value)
	}

	for _, l := range wallClockLayouts {
		if t, err := time.ParseInLocation(l.layout, value, loc); err == nil {
			return t, l.dateOnly, nil
		}
	}
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano, "2006-01-02 15:04:05Z07:00"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.In(loc), false, nil
		}
	}
	return time.Time{}, false, apperr.New(apperr.CodeDateFormatInvalid, "value", value)
}

// Convert reformats a datetime string from one strftime format to another.
// When value does not match fromFmt, the common wall-clock shapes are
// auto-detected, so "YYYY-MM-DD HH:MM" and "YYYY-MM-DD HH:MM:SS" both work
// no matter which of them the caller declared. Output is second precision.
func Convert(value, fromFmt, toFmt string, loc *time.Location) (string, error) {
	if loc == nil {
		return "", apperr.New(apperr.CodeTimezoneInvalid)
	}
	value = strings.TrimSpace(value)

	t, err := parseStrftime(value, fromFmt, loc)
	if err != nil {
		t, _, err = ParseLocal(value, loc)
		if err != nil {
			return "", apperr.Wrap(apperr.CodeDateConversionFailed, err, "value", value, "from", fromFmt)
		}
	}

	t = t.Truncate(time.Second)
	if strings.HasSuffix(toFmt, "Z") {
		t = t.UTC()
	} else {
		t = t.In(loc)
	}
	return strftime.Format(toFmt, t), nil
}

func parseStrftime(value, format string, loc *time.Location) (time.Time, error) {
	if format == "" {
		return time.Time{}, apperr.New(apperr.CodeDateConversionFailed)
	}
	layout, err := strftime.Layout(format)
	if err != nil {
		return time.Time{}, err
	}
	return time.ParseInLocation(layout, value, loc)
}

// FormatLocal renders t as "YYYY-MM-DD HH:MM:SS" in loc.
func FormatLocal(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DateTimeLayout)
}

// Duration returns (end - start) in whole minutes using epoch seconds.
// The result is negative when end precedes start; callers decide what
// that means.
func Duration(start, end time.Time) int {
	return int((end.Unix() - start.Unix()) / 60)
}
