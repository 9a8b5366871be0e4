package event

import "smart-calendar/pkg/locale"

// StatusLines returns the status line of a run and an optional second line:
// the recovery hint on failure, or the degraded note.
func StatusLines(loc *locale.Locale, lang string, out CreateOutput, err error) (line, detail string) {
	if err != nil {
		return loc.ErrorLines(lang, err)
	}
	return out.StatusLine, out.DegradedNote
}
