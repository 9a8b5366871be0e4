package zoom

import "time"

const (
	// DefaultTokenURL is the OAuth token endpoint
	DefaultTokenURL = "https://zoom.us/oauth/token"

	// DefaultAPIURL is the REST API base
	DefaultAPIURL = "https://api.zoom.us/v2"

	// DefaultTokenMargin is subtracted from the token lifetime before reuse
	DefaultTokenMargin = 300 * time.Second

	// DefaultTimeout bounds each HTTP call
	DefaultTimeout = 15 * time.Second

	// DefaultDuration is used when the meeting length is unknown
	DefaultDuration = 30

	// fallbackTokenTTL is assumed when the token endpoint omits expires_in
	fallbackTokenTTL = time.Hour

	// scheduledMeeting is the meeting type for a meeting with a fixed time
	scheduledMeeting = 2

	grantType = "account_credentials"
)
