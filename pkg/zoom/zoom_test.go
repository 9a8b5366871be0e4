package zoom_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"smart-calendar/pkg/apperr"
	pkgLog "smart-calendar/pkg/log"
	"smart-calendar/pkg/zoom"
)

type fakeZoom struct {
	t            *testing.T
	tokenCalls   atomic.Int32
	meetingCalls atomic.Int32
	tokenStatus  int
	meetStatus   []int // consumed per call; last entry repeats

	mu       sync.Mutex
	lastBody map[string]any
}

func (f *fakeZoom) body() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastBody
}

func (f *fakeZoom) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		id, secret, ok := r.BasicAuth()
		assert.True(f.t, ok, "token request must use basic auth")
		assert.Equal(f.t, "client-id", id)
		assert.Equal(f.t, "client-secret", secret)
		assert.NoError(f.t, r.ParseForm())
		assert.Equal(f.t, "account_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(f.t, "acct-1", r.PostForm.Get("account_id"))

		if f.tokenStatus != 0 && f.tokenStatus != http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.tokenStatus)
			w.Write([]byte(`{"reason":"Invalid client_id or client_secret","error":"invalid_client"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-` + strconv.Itoa(int(f.tokenCalls.Load())) + `","token_type":"bearer","expires_in":3599}`))
	})
	mux.HandleFunc("/v2/users/me/meetings", func(w http.ResponseWriter, r *http.Request) {
		n := int(f.meetingCalls.Add(1))
		assert.Equal(f.t, http.MethodPost, r.Method)
		assert.Contains(f.t, r.Header.Get("Authorization"), "Bearer tok-")

		var body map[string]any
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
		f.mu.Lock()
		f.lastBody = body
		f.mu.Unlock()

		status := http.StatusCreated
		if len(f.meetStatus) > 0 {
			status = f.meetStatus[min(n, len(f.meetStatus))-1]
		}
		w.WriteHeader(status)
		if status == http.StatusCreated {
			w.Write([]byte(`{"id":81234567890,"join_url":"https://zoom.us/j/81234567890","duration":45}`))
			return
		}
		w.Write([]byte(`{"code":124,"message":"Invalid access token."}`))
	})
	return mux
}

func newClient(t *testing.T, f *fakeZoom, tokenFile string) (zoom.IZoom, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return zoom.New(zoom.Config{
		Credentials: zoom.Credentials{AccountID: "acct-1", ClientID: "client-id", ClientSecret: "client-secret"},
		TokenURL:    srv.URL + "/oauth/token",
		APIURL:      srv.URL + "/v2/",
		TokenFile:   tokenFile,
		HTTPClient:  srv.Client(),
	}), srv
}

func meetingRequest() zoom.MeetingRequest {
	loc := time.FixedZone("UTC+8", 8*3600)
	start := time.Date(2025, 1, 16, 14, 0, 0, 0, loc)
	return zoom.MeetingRequest{
		Topic:     "Design review",
		Start:     start,
		End:       start.Add(45 * time.Minute),
		Timezone:  "Asia/Shanghai",
		Attendees: []string{"amy@example.com"},
	}
}

func TestProvision(t *testing.T) {
	f := &fakeZoom{t: t}
	tokenFile := filepath.Join(t.TempDir(), "zoom", "token.json")
	client, _ := newClient(t, f, tokenFile)

	m, err := client.Provision(context.Background(), meetingRequest())
	require.NoError(t, err)
	assert.Equal(t, "81234567890", m.ID)
	assert.Equal(t, "https://zoom.us/j/81234567890", m.JoinURL)
	assert.Equal(t, 45, m.DurationMinutes)

	body := f.body()
	assert.Equal(t, "Design review", body["topic"])
	assert.EqualValues(t, 2, body["type"])
	assert.Equal(t, "2025-01-16T06:00:00Z", body["start_time"])
	assert.EqualValues(t, 45, body["duration"])
	assert.Equal(t, "Asia/Shanghai", body["timezone"])
	settings := body["settings"].(map[string]any)
	assert.Equal(t, []any{map[string]any{"email": "amy@example.com"}}, settings["meeting_invitees"])

	_, err = os.Stat(tokenFile)
	require.NoError(t, err, "token should be cached on disk")

	// Second call reuses the cached token.
	_, err = client.Provision(context.Background(), meetingRequest())
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.tokenCalls.Load())
	assert.EqualValues(t, 2, f.meetingCalls.Load())
}

func TestProvisionReusesTokenFileAcrossClients(t *testing.T) {
	f := &fakeZoom{t: t}
	tokenFile := filepath.Join(t.TempDir(), "token.json")

	first, _ := newClient(t, f, tokenFile)
	_, err := first.Provision(context.Background(), meetingRequest())
	require.NoError(t, err)

	second, _ := newClient(t, f, tokenFile)
	_, err = second.Provision(context.Background(), meetingRequest())
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.tokenCalls.Load())
}

func TestProvisionUnauthorizedClearsToken(t *testing.T) {
	f := &fakeZoom{t: t, meetStatus: []int{http.StatusUnauthorized, http.StatusCreated}}
	tokenFile := filepath.Join(t.TempDir(), "token.json")
	client, _ := newClient(t, f, tokenFile)

	_, err := client.Provision(context.Background(), meetingRequest())
	assert.ErrorIs(t, err, apperr.ErrMeetingTokenFailed)
	_, statErr := os.Stat(tokenFile)
	assert.True(t, os.IsNotExist(statErr), "token file should be removed after 401")

	// The caller's retry performs a fresh exchange.
	m, err := client.Provision(context.Background(), meetingRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, m.JoinURL)
	assert.EqualValues(t, 2, f.tokenCalls.Load())
}

func TestProvisionFailures(t *testing.T) {
	t.Run("creation error", func(t *testing.T) {
		f := &fakeZoom{t: t, meetStatus: []int{http.StatusBadRequest}}
		client, _ := newClient(t, f, "")
		_, err := client.Provision(context.Background(), meetingRequest())
		assert.ErrorIs(t, err, apperr.ErrMeetingCreationFailed)
	})

	t.Run("token endpoint rejects credentials", func(t *testing.T) {
		f := &fakeZoom{t: t, tokenStatus: http.StatusBadRequest}
		client, _ := newClient(t, f, "")
		_, err := client.Provision(context.Background(), meetingRequest())
		assert.ErrorIs(t, err, apperr.ErrMeetingTokenFailed)
		assert.EqualValues(t, 0, f.meetingCalls.Load())
	})

	t.Run("missing credentials", func(t *testing.T) {
		client := zoom.New(zoom.Config{TokenURL: "http://127.0.0.1:1/unused"})
		_, err := client.Provision(context.Background(), meetingRequest())
		assert.ErrorIs(t, err, apperr.ErrMeetingTokenFailed)
	})
}

func TestProvisionDefaultDuration(t *testing.T) {
	f := &fakeZoom{t: t}
	client, _ := newClient(t, f, "")

	req := meetingRequest()
	req.End = req.Start.Add(-time.Hour)
	_, err := client.Provision(context.Background(), req)
	require.NoError(t, err)
	assert.EqualValues(t, zoom.DefaultDuration, f.body()["duration"])
}

func TestProvisionWarnsWhenTokenCacheUnwritable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	f := &fakeZoom{t: t}
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	core, logs := observer.New(zapcore.WarnLevel)
	client := zoom.New(zoom.Config{
		Credentials: zoom.Credentials{AccountID: "acct-1", ClientID: "client-id", ClientSecret: "client-secret"},
		TokenURL:    srv.URL + "/oauth/token",
		APIURL:      srv.URL + "/v2/",
		TokenFile:   filepath.Join(blocker, "zoom_token.json"),
		HTTPClient:  srv.Client(),
		Logger:      pkgLog.NewFromZap(zap.New(core)),
	})

	m, err := client.Provision(context.Background(), meetingRequest())
	require.NoError(t, err)
	assert.Equal(t, "https://zoom.us/j/81234567890", m.JoinURL)

	warnings := logs.FilterMessageSnippet("token cache write failed").All()
	assert.Len(t, warnings, 1)
}

func TestShouldProvision(t *testing.T) {
	tests := []struct {
		text, location string
		want           bool
	}{
		{"Sync on Zoom at 3pm", "", true},
		{"Team sync", "https://zoom.us/j/123", true},
		{"Online meeting with vendor", "", true},
		{"Quick video call with Sam", "", true},
		{"明天下午线上会议", "", true},
		{"视频会议讨论预算", "", true},
		{"Lunch with Sam", "Cafe", false},
		{"明天下午开会", "会议室A", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, zoom.ShouldProvision(tt.text, tt.location), "%q / %q", tt.text, tt.location)
	}
}

func TestCredentialsValid(t *testing.T) {
	assert.True(t, zoom.Credentials{AccountID: "a", ClientID: "b", ClientSecret: "c"}.Valid())
	assert.False(t, zoom.Credentials{AccountID: "a", ClientID: "b"}.Valid())
	assert.False(t, zoom.Credentials{}.Valid())
}
