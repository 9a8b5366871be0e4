package zoom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"smart-calendar/pkg/apperr"
)

// newZoomImpl creates a new implementation
func newZoomImpl(cfg Config) *zoomImpl {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &zoomImpl{
		creds: cfg.Credentials,
		oauth: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			EndpointParams: url.Values{
				"grant_type": {grantType},
				"account_id": {cfg.AccountID},
			},
			AuthStyle: oauth2.AuthStyleInHeader,
		},
		apiURL:     cfg.APIURL,
		store:      NewTokenStore(cfg.TokenFile, cfg.TokenMargin),
		httpClient: client,
		l:          cfg.Logger,
	}
}

// Provision creates a scheduled meeting
func (z *zoomImpl) Provision(ctx context.Context, req MeetingRequest) (Meeting, error) {
	if !z.creds.Valid() {
		return Meeting{}, apperr.New(apperr.CodeMeetingTokenFailed, "reason", "credentials not configured")
	}

	token, err := z.token(ctx)
	if err != nil {
		return Meeting{}, err
	}

	duration := int(req.End.Sub(req.Start) / time.Minute)
	if duration <= 0 {
		duration = DefaultDuration
	}

	body := createMeetingBody{
		Topic:     req.Topic,
		Type:      scheduledMeeting,
		StartTime: req.Start.UTC().Format("2006-01-02T15:04:05Z"),
		Duration:  duration,
		Timezone:  req.Timezone,
		Settings:  meetingSettings{JoinBeforeHost: true},
	}
	for _, email := range req.Attendees {
		body.Settings.MeetingInvitees = append(body.Settings.MeetingInvitees, meetingInvite{Email: email})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Meeting{}, apperr.Wrap(apperr.CodeMeetingCreationFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		z.apiURL+"/users/me/meetings", bytes.NewReader(payload))
	if err != nil {
		return Meeting{}, apperr.Wrap(apperr.CodeMeetingCreationFailed, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := z.httpClient.Do(httpReq)
	if err != nil {
		return Meeting{}, apperr.Wrap(apperr.CodeMeetingCreationFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Meeting{}, apperr.Wrap(apperr.CodeMeetingCreationFailed, err)
	}

	switch resp.StatusCode {
	case http.StatusCreated:
	case http.StatusUnauthorized:
		if err := z.store.Clear(); err != nil {
			z.l.Warnf(ctx, "zoom: token cache clear failed: %v", err)
			return Meeting{}, apperr.Wrap(apperr.CodeMeetingTokenFailed, err, "status", "401")
		}
		return Meeting{}, apperr.New(apperr.CodeMeetingTokenFailed, "status", "401")
	default:
		return Meeting{}, apperr.New(apperr.CodeMeetingCreationFailed,
			"status", strconv.Itoa(resp.StatusCode), "body", truncate(string(respBody), 200))
	}

	var created createMeetingResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		return Meeting{}, apperr.Wrap(apperr.CodeMeetingCreationFailed, err, "reason", "malformed reply")
	}
	if created.JoinURL == "" {
		return Meeting{}, apperr.New(apperr.CodeMeetingCreationFailed, "reason", "reply has no join_url")
	}
	if created.Duration > 0 {
		duration = created.Duration
	}
	return Meeting{ID: string(created.ID), JoinURL: created.JoinURL, DurationMinutes: duration}, nil
}

// token returns a cached token or performs the client-credentials exchange.
func (z *zoomImpl) token(ctx context.Context) (string, error) {
	z.mu.Lock()
	defer z.mu.Unlock()

	if v, ok := z.store.Load(); ok {
		return v, nil
	}

	tok, err := z.oauth.Token(context.WithValue(ctx, oauth2.HTTPClient, z.httpClient))
	if err != nil {
		return "", apperr.Wrap(apperr.CodeMeetingTokenFailed, err)
	}
	if tok.AccessToken == "" {
		return "", apperr.New(apperr.CodeMeetingTokenFailed, "reason", "empty access token")
	}

	ttl := fallbackTokenTTL
	if tok.ExpiresIn > 0 {
		ttl = time.Duration(tok.ExpiresIn) * time.Second
	} else if !tok.Expiry.IsZero() {
		ttl = time.Until(tok.Expiry)
	}

	// A failed save only costs an extra exchange next time.
	if err := z.store.Save(OAuthToken{
		Value:      tok.AccessToken,
		ObtainedAt: time.Now().UTC(),
		TTLSeconds: int64(ttl / time.Second),
	}); err != nil {
		z.l.Warnf(ctx, "zoom: token cache write failed: %v", err)
	}
	return tok.AccessToken, nil
}

// jsonID accepts an id encoded as a JSON number or string.
type jsonID string

func (id *jsonID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*id = jsonID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("zoom: invalid id %s: %w", s, err)
	}
	*id = jsonID(n.String())
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
