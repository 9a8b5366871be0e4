package selector

import (
	"strings"
	"unicode"

	"smart-calendar/internal/model"
)

// Input is the text the selector classifies.
type Input struct {
	Text      string
	Title     string
	Location  string
	Attendees []string
}

// Selector maps event text to one of the fixed calendars.
type Selector struct {
	def model.CalendarType
}

// New creates a Selector that falls back to def when nothing matches.
// An invalid def falls back to Personal.
func New(def model.CalendarType) *Selector {
	if !def.Valid() {
		def = model.CalendarPersonal
	}
	return &Selector{def: def}
}

// Default returns the fallback calendar.
func (s *Selector) Default() model.CalendarType {
	return s.def
}

// Select classifies in. Deadline keywords win over meeting keywords, which
// win over urgency, which wins over domain.
func (s *Selector) Select(in Input) model.CalendarType {
	doc := newDocument(in.Title, in.Text, in.Location)

	if doc.countAny(deadlineKeywords) > 0 {
		return model.CalendarDeadlines
	}
	if doc.countAny(meetingKeywords) > 0 {
		return model.CalendarMeetings
	}

	// The weighted score decides whether urgency applies at all; the most
	// urgent level with a hit decides which calendar.
	score, top := 0, model.CalendarType("")
	for _, lv := range urgencyLevels {
		hits := doc.countAny(lv.keywords)
		if hits > 0 && top == "" {
			top = lv.calendar
		}
		score += lv.weight * hits
	}
	if score > 0 {
		return top
	}

	work := doc.countAny(workKeywords) + len(in.Attendees)
	personal := doc.countAny(personalKeywords)
	switch {
	case work == 0 && personal == 0:
		return s.def
	case work >= personal:
		return model.CalendarWork
	default:
		return model.CalendarPersonal
	}
}

// document holds the text in two forms: a lower-cased raw string for
// substring matches and a space-padded word string for whole-word matches.
type document struct {
	raw   string
	words string
}

func newDocument(parts ...string) document {
	raw := strings.ToLower(strings.Join(parts, " "))
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return document{raw: raw, words: " " + strings.Join(fields, " ") + " "}
}

func (d document) countAny(keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if d.has(kw) {
			n++
		}
	}
	return n
}

func (d document) has(kw string) bool {
	if !isWordKeyword(kw) {
		return strings.Contains(d.raw, kw)
	}
	return strings.Contains(d.words, " "+kw+" ")
}

// isWordKeyword reports whether kw is plain ASCII words that can be matched
// on word boundaries. CJK and punctuated keywords match as substrings.
func isWordKeyword(kw string) bool {
	for i := 0; i < len(kw); i++ {
		c := kw[i]
		if !(c == ' ' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
