// Package locale renders the user-facing status line in English or
// Simplified Chinese.
package locale

import (
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"smart-calendar/pkg/apperr"
)

const (
	whenLayout    = "2006-01-02 15:04"
	allDayLayout  = "2006-01-02"
	defaultLangID = "en"
)

// Status describes a finished run for the status line.
type Status struct {
	Title    string
	Calendar string
	Start    time.Time
	AllDay   bool
	Meeting  bool
	Degraded bool
	DryRun   bool
}

// Locale holds the message bundle. It is safe for concurrent use.
type Locale struct {
	bundle *i18n.Bundle
}

// New builds the bundle with English as the default language.
func New() *Locale {
	b := i18n.NewBundle(language.English)
	b.MustAddMessages(language.English, msgCreated, msgCreatedMeeting, msgDegraded, msgPreview,
		msgFailed, msgHint, msgAllDay, msgDegradedNote)
	b.MustAddMessages(language.SimplifiedChinese, zhHans...)
	return &Locale{bundle: b}
}

// Languages lists the supported language tags.
func (l *Locale) Languages() []string {
	tags := l.bundle.LanguageTags()
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.String()
	}
	return out
}

// StatusLine renders the outcome of a successful run.
func (l *Locale) StatusLine(lang string, s Status) string {
	msg := msgCreated
	switch {
	case s.DryRun:
		msg = msgPreview
	case s.Degraded:
		msg = msgDegraded
	case s.Meeting:
		msg = msgCreatedMeeting
	}
	return l.localize(lang, msg, map[string]any{
		"Title":    s.Title,
		"Calendar": s.Calendar,
		"When":     l.when(lang, s.Start, s.AllDay),
	})
}

// DegradedNote explains why the meeting link is missing.
func (l *Locale) DegradedNote(lang string, cause error) string {
	return l.localize(lang, msgDegradedNote, map[string]any{"Reason": l.Message(lang, apperr.CodeOf(cause))})
}

// ErrorLines renders a failure as a status line and an optional hint line.
func (l *Locale) ErrorLines(lang string, err error) (line, hint string) {
	code := apperr.CodeOf(err)
	line = l.localize(lang, msgFailed, map[string]any{"Message": l.Message(lang, code)})
	if h := l.Hint(lang, code); h != "" {
		hint = l.localize(lang, msgHint, map[string]any{"Hint": h})
	}
	return line, hint
}

// Message returns the localized human message for code.
func (l *Locale) Message(lang string, code apperr.Code) string {
	return l.localize(lang, &i18n.Message{ID: errorID(code), Other: code.Message()}, nil)
}

// Hint returns the localized recovery hint for code, or "" when the code
// has none.
func (l *Locale) Hint(lang string, code apperr.Code) string {
	if code.Hint() == "" {
		return ""
	}
	return l.localize(lang, &i18n.Message{ID: hintID(code), Other: code.Hint()}, nil)
}

func (l *Locale) when(lang string, t time.Time, allDay bool) string {
	if allDay {
		return l.localize(lang, msgAllDay, map[string]any{"Date": t.Format(allDayLayout)})
	}
	return t.Format(whenLayout)
}

// localize falls back to the English text when lang has no translation.
func (l *Locale) localize(lang string, msg *i18n.Message, data map[string]any) string {
	if lang == "" {
		lang = defaultLangID
	}
	out, err := i18n.NewLocalizer(l.bundle, lang).Localize(&i18n.LocalizeConfig{
		DefaultMessage: msg,
		TemplateData:   data,
	})
	if err != nil && out == "" {
		return msg.Other
	}
	return out
}
