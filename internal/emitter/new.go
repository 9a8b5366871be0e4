package emitter

import (
	"fmt"
	"strings"
	"time"

	pkgLog "smart-calendar/pkg/log"
)

// New creates the emitter for cfg.Backend. An empty backend means
// AppleScript.
func New(cfg Config, l pkgLog.Logger) (Emitter, error) {
	fallback := cfg.DefaultCalendar
	if fallback == "" {
		fallback = "Personal"
	}

	switch strings.ToLower(cfg.Backend) {
	case "", BackendAppleScript:
		runner := cfg.Runner
		if runner == nil {
			runner = OSAScriptRunner{Dir: cfg.TempDir, Prefix: cfg.TempPrefix, Timeout: cfg.ScriptTimeout}
		}
		return &scriptEmitter{
			builder:  NewScriptBuilder(cfg.App, fallback),
			runner:   runner,
			fallback: fallback,
			l:        l,
		}, nil

	case BackendICS:
		dir := cfg.ICSDir
		if dir == "" {
			dir = "."
		}
		return &icsEmitter{dir: dir, fallback: fallback, now: time.Now, newUID: newICSUID, l: l}, nil

	case BackendGoogle:
		if cfg.GoogleClient == nil {
			return nil, fmt.Errorf("emitter: google backend requires a calendar client")
		}
		return &googleEmitter{
			client:   cfg.GoogleClient,
			ids:      cfg.GoogleIDs,
			fallback: fallback,
			timezone: cfg.Timezone,
			l:        l,
		}, nil
	}
	return nil, fmt.Errorf("emitter: unknown backend %q", cfg.Backend)
}
