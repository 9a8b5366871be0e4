package gateway

import (
	"fmt"
	"strings"
	"time"

	"smart-calendar/internal/model"
	"smart-calendar/pkg/datemath"
)

// EventParsingPrompt is the instruction block sent ahead of the user text.
const EventParsingPrompt = `You are a calendar assistant. Convert the text below into ONE calendar event.

Return ONLY a JSON object with exactly these fields:
{
  "title": string (required, short and meaningful),
  "start_time": "YYYY-MM-DD HH:MM" (required),
  "end_time": "YYYY-MM-DD HH:MM",
  "allday": boolean,
  "description": string,
  "location": string,
  "url": string,
  "status": "confirmed" | "tentative" | "cancelled" | "none",
  "priority": "high" | "medium" | "low",
  "calendar_type": "high_priority" | "medium_priority" | "low_priority" | "work" | "personal" | "deadlines" | "meetings",
  "alerts": [integer minutes before start],
  "recurrence": "none" | "daily" | "weekdays" | "weekly" | "weekly_mon_wed_fri" | "weekly_tue_thu" | "biweekly" | "monthly" | "monthly_first_monday" | "monthly_last_friday" | "quarterly" | "yearly",
  "excluded_dates": ["YYYY-MM-DD"],
  "attendees": ["email address"]
}

RULES:
1. Always provide a meaningful title.
2. Times are local wall-clock times in the timezone given below, in exact "YYYY-MM-DD HH:MM" format.
3. Use the date mappings below exactly; never compute relative dates yourself.
4. If the time is ambiguous (for example only "afternoon" or "下午"), use business hours (2pm-5pm).
5. Duration expressions ("for 1 hour", "一小时", "半小时") determine end_time. Without one, the event lasts one hour.
6. For all-day events set "allday": true and use 00:00 as the time.
7. Classes or events on Tuesdays and Thursdays ("TTh") use "weekly_tue_thu"; Monday/Wednesday/Friday ("MWF") use "weekly_mon_wed_fri".
8. calendar_type: deadlines and due dates use "deadlines"; meetings, calls and conferences use "meetings"; otherwise choose by urgency, then by work or personal context.
9. Leave a field empty ("", [] or false) when the text does not mention it.
10. Respond with the JSON object only. No markdown, no explanation.`

// BuildEventPrompt renders the single user turn for req. The output only
// depends on the request, so identical requests produce identical prompts.
func BuildEventPrompt(req model.EventRequest) string {
	var sb strings.Builder
	sb.WriteString(EventParsingPrompt)

	refs := req.References
	sb.WriteString("\n\nDATE MAPPINGS (timezone ")
	sb.WriteString(refs.Timezone)
	sb.WriteString("):\n")
	fmt.Fprintf(&sb, "- today / 今天 = %s (%s)\n", refs.Today, refs.Weekday)
	fmt.Fprintf(&sb, "- tomorrow / 明天 = %s\n", refs.Tomorrow)
	fmt.Fprintf(&sb, "- day after tomorrow / 后天 = %s\n", refs.DayAfterTomorrow)
	for _, wd := range refs.NextWeekdays {
		fmt.Fprintf(&sb, "- next %s / 下周%s = %s\n", wd.Weekday, cnWeekday[wd.Weekday], wd.Date)
	}

	if prefs := strings.TrimSpace(req.UserPreferences); prefs != "" {
		sb.WriteString("\nUSER CALENDAR PREFERENCES (these override rule 8):\n")
		sb.WriteString(prefs)
		sb.WriteString("\n")
	}

	sb.WriteString("\nText to convert:\n")
	sb.WriteString(strings.TrimSpace(req.RawText))
	return sb.String()
}

var cnWeekday = map[time.Weekday]string{
	time.Monday:    "一",
	time.Tuesday:   "二",
	time.Wednesday: "三",
	time.Thursday:  "四",
	time.Friday:    "五",
	time.Saturday:  "六",
	time.Sunday:    "日",
}

// NewEventRequest builds the request for text using reference dates
// computed by parser at now.
func NewEventRequest(text, preferences string, parser *datemath.Parser, now time.Time) model.EventRequest {
	refs := parser.References(now)
	return model.EventRequest{
		RawText:           strings.TrimSpace(text),
		ReferenceToday:    refs.Today,
		ReferenceTomorrow: refs.Tomorrow,
		UserPreferences:   strings.TrimSpace(preferences),
		References:        refs,
	}
}
