package emitter

import (
	"time"

	"smart-calendar/pkg/gcalendar"
)

// Backend names.
const (
	BackendAppleScript = "applescript"
	BackendICS         = "ics"
	BackendGoogle      = "google"
)

// Receipt describes an emitted or previewed event.
type Receipt struct {
	Backend  string
	Calendar string
	// Reference is the event uid, file path or API id.
	Reference string
	// Command is the rendered mutation. Set on previews.
	Command string
	DryRun  bool
}

// Config selects and configures a backend.
type Config struct {
	Backend         string
	App             string
	DefaultCalendar string
	ScriptTimeout   time.Duration
	TempDir         string
	TempPrefix      string
	ICSDir          string
	// Timezone is the IANA name used by backends that need one.
	Timezone string

	// Google backend
	GoogleClient *gcalendar.Client
	GoogleIDs    map[string]string

	// Runner overrides the osascript runner.
	Runner Runner
}
