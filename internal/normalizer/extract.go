package normalizer

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"smart-calendar/pkg/apperr"
)

// Strategy names the extraction path that produced a draft.
type Strategy string

const (
	StrategyDirect  Strategy = "direct"
	StrategyWrapper Strategy = "wrapper"
	StrategyScan    Strategy = "brace-scan"
	StrategyPattern Strategy = "pattern"
)

var (
	fenceRe = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")

	stringFieldRe = regexp.MustCompile(`"(title|start_time|end_time|description|location|url|status|priority|calendar_type|recurrence)"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	boolFieldRe   = regexp.MustCompile(`"(allday|all_day)"\s*:\s*(true|false)`)
	arrayFieldRe  = regexp.MustCompile(`(?s)"(alerts|attendees|excluded_dates)"\s*:\s*(\[[^\]]*\])`)
)

// wrapper covers the reply envelopes the gateway may return.
type wrapper struct {
	Type    string `json:"type"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Message *struct {
		Content json.RawMessage `json:"content"`
	} `json:"message"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Extract finds one event object in raw and returns it as a draft.
func Extract(raw []byte) (EventDraft, Strategy, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return EventDraft{}, "", apperr.New(apperr.CodeAIResponseInvalid, "reason", "empty reply")
	}

	// 1. The reply is the event itself.
	if m, ok := decodeObject(raw); ok {
		if ev, ok := eventObject(m); ok {
			return draftFromMap(ev), StrategyDirect, nil
		}
	}

	// 2. The reply is an envelope around text.
	text := string(raw)
	var w wrapper
	if err := json.Unmarshal(raw, &w); err == nil {
		if w.Type == "error" || w.Error != nil {
			msg := ""
			if w.Error != nil {
				msg = w.Error.Message
			}
			return EventDraft{}, "", apperr.New(apperr.CodeAIResponseInvalid, "reason", "error reply", "detail", msg)
		}
		if t, ok := w.text(); ok {
			text = t
		}
	}
	if d, ok := fromText(text); ok {
		if text != string(raw) {
			return d, StrategyWrapper, nil
		}
		return d, StrategyScan, nil
	}

	// 3. Last resort: pick fields out by pattern.
	if d, ok := fromPatterns(text); ok {
		return d, StrategyPattern, nil
	}
	return EventDraft{}, "", apperr.New(apperr.CodeJSONParseFailed, "reason", "no event object found")
}

func (w wrapper) text() (string, bool) {
	var parts []string
	for _, c := range w.Content {
		if c.Type == "text" || c.Type == "" {
			parts = append(parts, c.Text)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, "\n"), true
	}
	if len(w.Choices) > 0 && w.Choices[0].Message.Content != "" {
		return w.Choices[0].Message.Content, true
	}
	if w.Message != nil && len(w.Message.Content) > 0 {
		var s string
		if json.Unmarshal(w.Message.Content, &s) == nil {
			return s, true
		}
		return string(w.Message.Content), true
	}
	return "", false
}

// fromText looks for the event object inside free text: fenced blocks
// first, then every balanced object in order.
func fromText(text string) (EventDraft, bool) {
	var sources []string
	for _, m := range fenceRe.FindAllStringSubmatch(text, -1) {
		sources = append(sources, m[1])
	}
	sources = append(sources, text)

	for _, src := range sources {
		for _, cand := range objectCandidates(src) {
			m, ok := decodeObject([]byte(cand))
			if !ok {
				continue
			}
			if ev, ok := eventObject(m); ok {
				return draftFromMap(ev), true
			}
		}
	}
	return EventDraft{}, false
}

// objectCandidates returns every balanced top-level {...} span of s in
// order. Braces inside JSON strings are ignored; quotes outside an object
// are prose and do not open a string.
func objectCandidates(s string) []string {
	var out []string
	depth, start := 0, -1
	inStr, esc := false, false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inStr {
			switch {
			case esc:
				esc = false
			case c == '\\':
				esc = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			if depth > 0 {
				inStr = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					out = append(out, s[start:i+1])
				}
			}
		}
	}
	return out
}

func fromPatterns(text string) (EventDraft, bool) {
	m := map[string]any{}
	for _, sm := range stringFieldRe.FindAllStringSubmatch(text, -1) {
		if _, seen := m[sm[1]]; seen {
			continue
		}
		var v string
		if err := json.Unmarshal([]byte(`"`+sm[2]+`"`), &v); err != nil {
			v = sm[2]
		}
		m[sm[1]] = v
	}
	for _, sm := range boolFieldRe.FindAllStringSubmatch(text, -1) {
		m["allday"] = sm[2] == "true"
	}
	for _, sm := range arrayFieldRe.FindAllStringSubmatch(text, -1) {
		var arr []any
		if json.Unmarshal([]byte(sm[2]), &arr) == nil {
			m[sm[1]] = arr
		}
	}
	if len(m) == 0 {
		return EventDraft{}, false
	}
	return draftFromMap(m), true
}

func decodeObject(b []byte) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil || m == nil {
		return nil, false
	}
	// Trailing non-space content means b was not a single object.
	if dec.More() {
		return nil, false
	}
	return m, true
}

// eventObject returns m, or an "event" object nested in m, when it looks
// like an event.
func eventObject(m map[string]any) (map[string]any, bool) {
	if looksLikeEvent(m) {
		return m, true
	}
	for _, key := range []string{"event", "data", "result"} {
		if inner, ok := m[key].(map[string]any); ok && looksLikeEvent(inner) {
			return inner, true
		}
	}
	return nil, false
}

func looksLikeEvent(m map[string]any) bool {
	for _, k := range []string{"title", "start_time", "startTime", "start", "summary"} {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}
