package datemath

import (
	"bufio"
	"os"
	"strings"
	"time"
)

// Common clock abbreviations and the zone they most likely stand for.
var abbrevToIANA = map[string]string{
	"EST":  "America/New_York",
	"EDT":  "America/New_York",
	"CST":  "America/Chicago",
	"CDT":  "America/Chicago",
	"MST":  "America/Denver",
	"MDT":  "America/Denver",
	"PST":  "America/Los_Angeles",
	"PDT":  "America/Los_Angeles",
	"AKST": "America/Anchorage",
	"AKDT": "America/Anchorage",
	"HST":  "Pacific/Honolulu",
	"GMT":  "Europe/London",
	"BST":  "Europe/London",
	"CET":  "Europe/Paris",
	"CEST": "Europe/Paris",
	"EET":  "Europe/Athens",
	"EEST": "Europe/Athens",
	"MSK":  "Europe/Moscow",
	"IST":  "Asia/Kolkata",
	"JST":  "Asia/Tokyo",
	"KST":  "Asia/Seoul",
	"HKT":  "Asia/Hong_Kong",
	"SGT":  "Asia/Singapore",
	"AEST": "Australia/Sydney",
	"AEDT": "Australia/Sydney",
	"NZST": "Pacific/Auckland",
	"NZDT": "Pacific/Auckland",
	"UTC":  "UTC",
}

// Resolver determines the invoking timezone. Every source is a field so
// callers and tests can replace it.
type Resolver struct {
	Configured    string
	Getenv        func(string) string
	TimezoneFile  string
	LocaltimeLink string
	ZoneAbbrev    func() string
}

// NewResolver returns a resolver reading the real system sources.
func NewResolver(configured string) *Resolver {
	return &Resolver{
		Configured:    configured,
		Getenv:        os.Getenv,
		TimezoneFile:  "/etc/timezone",
		LocaltimeLink: "/etc/localtime",
		ZoneAbbrev: func() string {
			name, _ := time.Now().Zone()
			return name
		},
	}
}

// Resolve walks the sources in order and returns the first loadable zone.
// It never fails: the last resort is UTC.
func (r *Resolver) Resolve() (*time.Location, Source) {
	if loc, ok := load(r.Configured); ok {
		return loc, SourceConfigured
	}
	if r.Getenv != nil {
		if loc, ok := load(strings.TrimPrefix(r.Getenv("TZ"), ":")); ok {
			return loc, SourceEnv
		}
	}
	if loc, ok := load(readFirstLine(r.TimezoneFile)); ok {
		return loc, SourceFile
	}
	if loc, ok := load(zoneFromLink(r.LocaltimeLink)); ok {
		return loc, SourceSymlink
	}
	if r.ZoneAbbrev != nil {
		if name, ok := abbrevToIANA[strings.ToUpper(r.ZoneAbbrev())]; ok {
			if loc, ok := load(name); ok {
				return loc, SourceAbbrev
			}
		}
	}
	return time.UTC, SourceDefault
}

// LoadLocation is time.LoadLocation that also accepts clock abbreviations.
func LoadLocation(name string) (*time.Location, bool) {
	if loc, ok := load(name); ok {
		return loc, true
	}
	if iana, ok := abbrevToIANA[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return load(iana)
	}
	return nil, false
}

func load(name string) (*time.Location, bool) {
	name = strings.TrimSpace(name)
	if name == "" || name == "Local" {
		return nil, false
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, false
	}
	return loc, true
}

func readFirstLine(path string) string {
	if path == "" {
		return ""
	}
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			return line
		}
	}
	return ""
}

// zoneFromLink extracts "Area/City" from a target like
// /var/db/timezone/zoneinfo/America/New_York.
func zoneFromLink(path string) string {
	if path == "" {
		return ""
	}
	target, err := os.Readlink(path)
	if err != nil {
		return ""
	}
	const marker = "zoneinfo/"
	i := strings.LastIndex(target, marker)
	if i < 0 {
		return ""
	}
	return target[i+len(marker):]
}
