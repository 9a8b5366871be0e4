package datemath

import "time"

// Go layouts for the wall-clock formats exchanged with the model and the host.
const (
	DateLayout           = "2006-01-02"
	DateTimeLayout       = "2006-01-02 15:04:05"
	DateTimeMinuteLayout = "2006-01-02 15:04"
)

// strftime formats understood by Convert.
const (
	FormatDate           = "%Y-%m-%d"
	FormatDateTime       = "%Y-%m-%d %H:%M:%S"
	FormatDateTimeMinute = "%Y-%m-%d %H:%M"
	FormatISO8601UTC     = "%Y-%m-%dT%H:%M:%SZ"
)

// ParseResult holds the result of parsing a wall-clock string.
type ParseResult struct {
	AbsoluteTime time.Time
	IsAllDay     bool
}

// WeekdayDate is the date of the next occurrence of a weekday.
type WeekdayDate struct {
	Weekday time.Weekday
	Date    string
}

// References are the dates relative expressions are resolved against.
type References struct {
	Now              time.Time
	Today            string
	Tomorrow         string
	DayAfterTomorrow string
	Weekday          string
	Timezone         string
	NextWeekdays     []WeekdayDate
}

// Source names where a timezone was resolved from.
type Source string

const (
	SourceConfigured Source = "configured"
	SourceEnv        Source = "env"
	SourceFile       Source = "timezone-file"
	SourceSymlink    Source = "localtime-symlink"
	SourceAbbrev     Source = "zone-abbreviation"
	SourceDefault    Source = "default"
)
