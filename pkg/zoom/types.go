package zoom

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	pkgLog "smart-calendar/pkg/log"
)

// Credentials identify a server-to-server OAuth app.
type Credentials struct {
	AccountID    string
	ClientID     string
	ClientSecret string
}

// Valid reports whether all three credentials are set.
func (c Credentials) Valid() bool {
	return c.AccountID != "" && c.ClientID != "" && c.ClientSecret != ""
}

// Config holds client configuration
type Config struct {
	Credentials
	TokenURL    string
	APIURL      string
	TokenFile   string
	TokenMargin time.Duration
	Timeout     time.Duration
	HTTPClient  *http.Client
	Logger      pkgLog.Logger
}

func (c *Config) setDefaults() {
	if c.TokenURL == "" {
		c.TokenURL = DefaultTokenURL
	}
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.TokenMargin <= 0 {
		c.TokenMargin = DefaultTokenMargin
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Logger == nil {
		c.Logger = pkgLog.NewNop()
	}
}

// MeetingRequest describes the meeting to create.
type MeetingRequest struct {
	Topic     string
	Start     time.Time
	End       time.Time
	Timezone  string
	Attendees []string
}

// Meeting is a created meeting.
type Meeting struct {
	ID              string
	JoinURL         string
	DurationMinutes int
}

// OAuthToken is the on-disk token record.
type OAuthToken struct {
	Value      string    `json:"value"`
	ObtainedAt time.Time `json:"obtained_at"`
	TTLSeconds int64     `json:"ttl_seconds"`
}

// createMeetingBody is the meeting creation request body
type createMeetingBody struct {
	Topic     string          `json:"topic"`
	Type      int             `json:"type"`
	StartTime string          `json:"start_time"`
	Duration  int             `json:"duration"`
	Timezone  string          `json:"timezone,omitempty"`
	Settings  meetingSettings `json:"settings"`
}

type meetingSettings struct {
	JoinBeforeHost  bool            `json:"join_before_host"`
	WaitingRoom     bool            `json:"waiting_room"`
	MeetingInvitees []meetingInvite `json:"meeting_invitees,omitempty"`
}

type meetingInvite struct {
	Email string `json:"email"`
}

// createMeetingResponse is the subset of the reply we use
type createMeetingResponse struct {
	ID       jsonID `json:"id"`
	JoinURL  string `json:"join_url"`
	Duration int    `json:"duration"`
}

// zoomImpl is the internal implementation of IZoom
type zoomImpl struct {
	creds      Credentials
	oauth      clientcredentials.Config
	apiURL     string
	store      *TokenStore
	httpClient *http.Client
	l          pkgLog.Logger

	// mu serializes token refresh
	mu sync.Mutex
}
