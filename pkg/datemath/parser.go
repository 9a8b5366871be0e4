package datemath

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	inDurationRe  = regexp.MustCompile(`^in (\d+) (day|days|week|weeks|month|months)$`)
	clockSuffixRe = regexp.MustCompile(`\s*(\d{1,2}(?::\d{2}(?::\d{2})?)?\s*(?:am|pm)?)$`)
	clockRe       = regexp.MustCompile(`^(\d{1,2})(?::(\d{2})(?::(\d{2}))?)?\s*(am|pm)?$`)
)

// ErrNotRelative reports a string that is not a relative date expression.
var ErrNotRelative = errors.New("not a relative date")

var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

var cnWeekdays = map[string]time.Weekday{
	"一": time.Monday,
	"二": time.Tuesday,
	"三": time.Wednesday,
	"四": time.Thursday,
	"五": time.Friday,
	"六": time.Saturday,
	"日": time.Sunday,
	"天": time.Sunday,
}

// Parser converts relative date strings to absolute time.Time values.
type Parser struct {
	location *time.Location
}

// NewParserInLocation creates a parser for an already resolved location.
func NewParserInLocation(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	return &Parser{location: loc}
}

// Location returns the parser's timezone.
func (p *Parser) Location() *time.Location {
	return p.location
}

// Parse converts a relative date string to the start of that day.
// The baseTime is used as the reference point (usually time.Now()).
// Strings that are not a relative date return ErrNotRelative.
func (p *Parser) Parse(relative string, baseTime time.Time) (time.Time, error) {
	relative = strings.ToLower(strings.TrimSpace(relative))

	switch relative {
	case "today", "今天":
		return p.startOfDay(baseTime), nil
	case "tomorrow", "明天":
		return p.startOfDay(baseTime.AddDate(0, 0, 1)), nil
	case "day after tomorrow", "the day after tomorrow", "后天":
		return p.startOfDay(baseTime.AddDate(0, 0, 2)), nil
	case "yesterday", "昨天":
		return p.startOfDay(baseTime.AddDate(0, 0, -1)), nil
	}

	// Handle "in X days/weeks/months"
	if strings.HasPrefix(relative, "in ") {
		return p.parseInDuration(relative, baseTime)
	}

	// Handle "next <weekday>"
	if strings.HasPrefix(relative, "next ") {
		return p.parseNextWeekday(strings.TrimPrefix(relative, "next "), baseTime)
	}

	// Handle "下周X" / "下星期X"
	for _, prefix := range []string{"下周", "下星期", "下礼拜"} {
		if strings.HasPrefix(relative, prefix) {
			day := strings.TrimPrefix(relative, prefix)
			target, ok := cnWeekdays[day]
			if !ok {
				return baseTime, fmt.Errorf("unknown weekday: %q", day)
			}
			return p.NextWeekday(baseTime, target), nil
		}
	}

	return baseTime, fmt.Errorf("%w: %q", ErrNotRelative, relative)
}

// parseInDuration handles patterns like "in 3 days", "in 2 weeks", "in 1 month".
func (p *Parser) parseInDuration(relative string, baseTime time.Time) (time.Time, error) {
	matches := inDurationRe.FindStringSubmatch(relative)
	if len(matches) != 3 {
		return baseTime, fmt.Errorf("invalid duration format: %q", relative)
	}

	amount, _ := strconv.Atoi(matches[1])
	unit := matches[2]

	switch {
	case strings.HasPrefix(unit, "day"):
		return p.startOfDay(baseTime.AddDate(0, 0, amount)), nil
	case strings.HasPrefix(unit, "week"):
		return p.startOfDay(baseTime.AddDate(0, 0, amount*7)), nil
	case strings.HasPrefix(unit, "month"):
		return p.startOfDay(baseTime.AddDate(0, amount, 0)), nil
	}

	return baseTime, fmt.Errorf("unknown time unit: %q", unit)
}

// parseNextWeekday handles day names after "next ", like "monday", "friday".
func (p *Parser) parseNextWeekday(dayName string, baseTime time.Time) (time.Time, error) {
	targetWeekday, ok := weekdays[dayName]
	if !ok {
		return baseTime, fmt.Errorf("unknown weekday: %q", dayName)
	}
	return p.NextWeekday(baseTime, targetWeekday), nil
}

// NextWeekday returns the start of the next day strictly after baseTime's
// date that falls on target.
func (p *Parser) NextWeekday(baseTime time.Time, target time.Weekday) time.Time {
	base := baseTime.In(p.location)
	daysUntil := int(target - base.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return p.startOfDay(base.AddDate(0, 0, daysUntil))
}

// startOfDay returns midnight at the start of the given day in the parser's timezone.
func (p *Parser) startOfDay(t time.Time) time.Time {
	t = t.In(p.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, p.location)
}

// ParseDateTime resolves a relative date with an optional time of day,
// such as "tomorrow 14:00", "next friday at 3pm" or "明天 09:30". Without a
// time of day the result is date-only.
func (p *Parser) ParseDateTime(value string, baseTime time.Time) (ParseResult, error) {
	value = strings.ToLower(strings.TrimSpace(value))

	datePart, clock := value, ""
	if m := clockSuffixRe.FindStringSubmatchIndex(value); m != nil {
		datePart = strings.TrimSpace(value[:m[0]])
		datePart = strings.TrimSpace(strings.TrimSuffix(datePart, " at"))
		clock = value[m[2]:m[3]]
	}

	day, err := p.Parse(datePart, baseTime)
	if err != nil {
		return ParseResult{}, err
	}
	if clock == "" {
		return ParseResult{AbsoluteTime: day, IsAllDay: true}, nil
	}

	hour, minute, err := parseClock(clock)
	if err != nil {
		return ParseResult{}, err
	}
	return ParseResult{
		AbsoluteTime: time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, p.location),
	}, nil
}

// parseClock reads "14:00", "14:00:00", "3pm" or "3:30 pm".
func parseClock(clock string) (hour, minute int, err error) {
	m := clockRe.FindStringSubmatch(strings.TrimSpace(clock))
	if m == nil {
		return 0, 0, fmt.Errorf("invalid time of day: %q", clock)
	}
	hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if m[4] != "" {
		if hour < 1 || hour > 12 {
			return 0, 0, fmt.Errorf("invalid time of day: %q", clock)
		}
		hour %= 12
		if m[4] == "pm" {
			hour += 12
		}
	}
	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time of day: %q", clock)
	}
	return hour, minute, nil
}

// References computes the reference dates embedded in the model prompt.
func (p *Parser) References(now time.Time) References {
	today := p.startOfDay(now)
	refs := References{
		Now:              now.In(p.location),
		Today:            today.Format(DateLayout),
		Tomorrow:         today.AddDate(0, 0, 1).Format(DateLayout),
		DayAfterTomorrow: today.AddDate(0, 0, 2).Format(DateLayout),
		Weekday:          today.Weekday().String(),
		Timezone:         p.location.String(),
		NextWeekdays:     make([]WeekdayDate, 0, 7),
	}
	for d := time.Monday; ; d = (d + 1) % 7 {
		refs.NextWeekdays = append(refs.NextWeekdays, WeekdayDate{
			Weekday: d,
			Date:    p.NextWeekday(now, d).Format(DateLayout),
		})
		if d == time.Sunday {
			break
		}
	}
	return refs
}
