package datemath

import (
	"fmt"
	"strings"

	"github.com/teambition/rrule-go"
)

// Recurrence pattern names understood by MapRecurrence.
const (
	RecurNone               = "none"
	RecurDaily              = "daily"
	RecurWeekdays           = "weekdays"
	RecurWeekly             = "weekly"
	RecurWeeklyMonWedFri    = "weekly_mon_wed_fri"
	RecurWeeklyTueThu       = "weekly_tue_thu"
	RecurBiweekly           = "biweekly"
	RecurMonthly            = "monthly"
	RecurMonthlyFirstMonday = "monthly_first_monday"
	RecurMonthlyLastFriday  = "monthly_last_friday"
	RecurQuarterly          = "quarterly"
	RecurYearly             = "yearly"
)

var recurrenceRules = map[string]string{
	RecurNone:               "",
	RecurDaily:              "FREQ=DAILY;INTERVAL=1",
	RecurWeekdays:           "FREQ=WEEKLY;INTERVAL=1;BYDAY=MO,TU,WE,TH,FR",
	RecurWeekly:             "FREQ=WEEKLY;INTERVAL=1",
	RecurWeeklyMonWedFri:    "FREQ=WEEKLY;INTERVAL=1;BYDAY=MO,WE,FR",
	RecurWeeklyTueThu:       "FREQ=WEEKLY;INTERVAL=1;BYDAY=TU,TH",
	RecurBiweekly:           "FREQ=WEEKLY;INTERVAL=2",
	RecurMonthly:            "FREQ=MONTHLY;INTERVAL=1",
	RecurMonthlyFirstMonday: "FREQ=MONTHLY;INTERVAL=1;BYDAY=1MO",
	RecurMonthlyLastFriday:  "FREQ=MONTHLY;INTERVAL=1;BYDAY=-1FR",
	RecurQuarterly:          "FREQ=MONTHLY;INTERVAL=3",
	RecurYearly:             "FREQ=YEARLY;INTERVAL=1",
}

// Spellings the model and users produce for the canonical names.
var recurrenceAliases = map[string]string{
	"":                        RecurNone,
	"never":                   RecurNone,
	"once":                    RecurNone,
	"no":                      RecurNone,
	"every_day":               RecurDaily,
	"everyday":                RecurDaily,
	"weekday":                 RecurWeekdays,
	"every_weekday":           RecurWeekdays,
	"workdays":                RecurWeekdays,
	"every_week":              RecurWeekly,
	"mwf":                     RecurWeeklyMonWedFri,
	"weekly_mwf":              RecurWeeklyMonWedFri,
	"mon_wed_fri":             RecurWeeklyMonWedFri,
	"monday_wednesday_friday": RecurWeeklyMonWedFri,
	"tth":                     RecurWeeklyTueThu,
	"tr":                      RecurWeeklyTueThu,
	"tu_th":                   RecurWeeklyTueThu,
	"tue_thu":                 RecurWeeklyTueThu,
	"tues_thurs":              RecurWeeklyTueThu,
	"weekly_tth":              RecurWeeklyTueThu,
	"weekly_tu_th":            RecurWeeklyTueThu,
	"tuesday_thursday":        RecurWeeklyTueThu,
	"every_other_week":        RecurBiweekly,
	"bi_weekly":               RecurBiweekly,
	"fortnightly":             RecurBiweekly,
	"every_month":             RecurMonthly,
	"first_monday":            RecurMonthlyFirstMonday,
	"last_friday":             RecurMonthlyLastFriday,
	"monthly_last_fri":        RecurMonthlyLastFriday,
	"every_quarter":           RecurQuarterly,
	"annually":                RecurYearly,
	"annual":                  RecurYearly,
	"every_year":              RecurYearly,
	"每天":                      RecurDaily,
	"每周":                      RecurWeekly,
	"每两周":                     RecurBiweekly,
	"每月":                      RecurMonthly,
	"每年":                      RecurYearly,
}

func init() {
	for name, rule := range recurrenceRules {
		if rule == "" {
			continue
		}
		if _, err := rrule.StrToROption(rule); err != nil {
			panic(fmt.Sprintf("datemath: invalid rule for %s: %v", name, err))
		}
	}
}

// CanonicalRecurrence normalizes case, separators and aliases and reports
// whether the result is a known pattern name.
func CanonicalRecurrence(name string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "_", "-", "_", "/", "_", "&", "_", ",", "_").Replace(key)
	for strings.Contains(key, "__") {
		key = strings.ReplaceAll(key, "__", "_")
	}
	key = strings.Trim(key, "_")

	if _, ok := recurrenceRules[key]; ok {
		return key, true
	}
	if canonical, ok := recurrenceAliases[key]; ok {
		return canonical, true
	}
	return "", false
}

// LookupRecurrence returns the rule for a pattern name and whether the
// name was recognised.
func LookupRecurrence(name string) (string, bool) {
	canonical, ok := CanonicalRecurrence(name)
	if !ok {
		return "", false
	}
	return recurrenceRules[canonical], true
}

// MapRecurrence returns the iCalendar rule for a pattern name. Unknown
// names map to the empty rule.
func MapRecurrence(name string) string {
	rule, _ := LookupRecurrence(name)
	return rule
}

// RecurrenceNames lists the canonical pattern names.
func RecurrenceNames() []string {
	return []string{
		RecurNone, RecurDaily, RecurWeekdays, RecurWeekly, RecurWeeklyMonWedFri,
		RecurWeeklyTueThu, RecurBiweekly, RecurMonthly, RecurMonthlyFirstMonday,
		RecurMonthlyLastFriday, RecurQuarterly, RecurYearly,
	}
}
