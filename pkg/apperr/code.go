package apperr

// Code identifies one failure kind of the closed taxonomy.
type Code string

// Domain groups codes for reporting and HTTP status mapping.
type Domain string

const (
	DomainCredential  Domain = "credential"
	DomainTransport   Domain = "transport"
	DomainData        Domain = "data"
	DomainIntegration Domain = "integration"
	DomainHost        Domain = "host"
)

const (
	// Credential
	CodeCredentialMissing Code = "credential-missing"
	CodeCredentialInvalid Code = "credential-invalid"

	// Transport
	CodeNetworkUnavailable Code = "network-unavailable"
	CodeRequestFailed      Code = "request-failed"
	CodeRateLimited        Code = "rate-limited"
	CodeTimedOut           Code = "timed-out"

	// Data
	CodeJSONParseFailed      Code = "json-parse-failed"
	CodeValidationFailed     Code = "validation-failed"
	CodeDateFormatInvalid    Code = "date-format-invalid"
	CodeDateConversionFailed Code = "date-conversion-failed"
	CodeTimezoneInvalid      Code = "timezone-invalid"

	// Integration
	CodeAIResponseInvalid     Code = "ai-response-invalid"
	CodeMeetingTokenFailed    Code = "meeting-token-failed"
	CodeMeetingCreationFailed Code = "meeting-creation-failed"

	// Host
	CodeScriptFailed      Code = "script-failed"
	CodePermissionDenied  Code = "permission-denied"
	CodeDependencyMissing Code = "dependency-missing"
	CodeUserCancelled     Code = "user-cancelled"
	CodeAppNotRunning     Code = "app-not-running"
)

type codeInfo struct {
	domain    Domain
	message   string
	hint      string
	retryable bool
}

var catalog = map[Code]codeInfo{
	CodeCredentialMissing: {
		domain:  DomainCredential,
		message: "API key is not configured",
		hint:    "Set your AI API key in the options or the ANTHROPIC_API_KEY environment variable.",
	},
	CodeCredentialInvalid: {
		domain:  DomainCredential,
		message: "API key was rejected by the service",
		hint:    "Check that the API key is correct and has not been revoked.",
	},
	CodeNetworkUnavailable: {
		domain:    DomainTransport,
		message:   "Network is unavailable",
		hint:      "Check your internet connection and try again.",
		retryable: true,
	},
	CodeRequestFailed: {
		domain:  DomainTransport,
		message: "Request to the AI service failed",
		hint:    "Try again in a moment; if the problem persists check the service status.",
	},
	CodeRateLimited: {
		domain:    DomainTransport,
		message:   "Too many requests to the AI service",
		hint:      "Wait a minute before trying again.",
		retryable: true,
	},
	CodeTimedOut: {
		domain:    DomainTransport,
		message:   "Operation timed out",
		hint:      "Try again; slow networks may need a longer timeout in the options.",
		retryable: true,
	},
	CodeJSONParseFailed: {
		domain:  DomainData,
		message: "Could not parse the AI response",
		hint:    "Try rephrasing the selected text.",
	},
	CodeValidationFailed: {
		domain:  DomainData,
		message: "Event details are incomplete or invalid",
		hint:    "Make sure the text mentions what the event is and when it starts.",
	},
	CodeDateFormatInvalid: {
		domain:  DomainData,
		message: "Event date has an invalid format",
		hint:    "Use an explicit date such as 2024-05-10 14:00.",
	},
	CodeDateConversionFailed: {
		domain:  DomainData,
		message: "Could not convert the event date",
	},
	CodeTimezoneInvalid: {
		domain:  DomainData,
		message: "Timezone is not recognized",
		hint:    "Set an IANA timezone name such as America/New_York in the options.",
	},
	CodeAIResponseInvalid: {
		domain:  DomainIntegration,
		message: "AI service returned an unexpected response",
		hint:    "Try again; if the problem persists try another model.",
	},
	CodeMeetingTokenFailed: {
		domain:  DomainIntegration,
		message: "Could not authenticate with the meeting service",
		hint:    "Check the meeting account id, client id and client secret.",
	},
	CodeMeetingCreationFailed: {
		domain:  DomainIntegration,
		message: "Could not create the online meeting",
	},
	CodeScriptFailed: {
		domain:  DomainHost,
		message: "Calendar command failed",
		hint:    "Make sure the target calendar exists and is writable.",
	},
	CodePermissionDenied: {
		domain:  DomainHost,
		message: "Not allowed to control the calendar application",
		hint:    "Grant automation access in System Settings > Privacy & Security > Automation.",
	},
	CodeDependencyMissing: {
		domain:  DomainHost,
		message: "A required system tool is missing",
		hint:    "Install the missing tool or choose another calendar backend.",
	},
	CodeUserCancelled: {
		domain:  DomainHost,
		message: "Operation was cancelled",
	},
	CodeAppNotRunning: {
		domain:  DomainHost,
		message: "Calendar application is not running",
		hint:    "Open the calendar application and try again.",
	},
}

// Codes returns every code of the taxonomy.
func Codes() []Code {
	codes := make([]Code, 0, len(catalog))
	for c := range catalog {
		codes = append(codes, c)
	}
	return codes
}

// Message returns the fixed human-readable message for the code.
func (c Code) Message() string {
	if info, ok := catalog[c]; ok {
		return info.message
	}
	return "Unknown error"
}

// Hint returns the recovery hint, or empty if the code has none.
func (c Code) Hint() string {
	return catalog[c].hint
}

// Domain returns the domain the code belongs to.
func (c Code) Domain() Domain {
	return catalog[c].domain
}

// Retryable reports whether the failure kind is worth an automatic retry.
func (c Code) Retryable() bool {
	return catalog[c].retryable
}

// Valid reports whether the code is part of the taxonomy.
func (c Code) Valid() bool {
	_, ok := catalog[c]
	return ok
}
