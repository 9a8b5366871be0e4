package zoom

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// TokenStore caches one access token in a file. The file modification time
// is the TTL clock; a token is reused only while its age is below its TTL
// minus the margin. An empty path keeps the token in memory only.
type TokenStore struct {
	path   string
	margin time.Duration
	now    func() time.Time

	mu  sync.Mutex
	mem *OAuthToken
	// memAt is the in-memory stand-in for the file mtime
	memAt time.Time
}

// NewTokenStore creates a store backed by path.
func NewTokenStore(path string, margin time.Duration) *TokenStore {
	if margin < 0 {
		margin = 0
	}
	return &TokenStore{path: path, margin: margin, now: time.Now}
}

// Load returns the cached token value if it is still fresh.
func (s *TokenStore) Load() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, obtained, ok := s.read()
	if !ok || tok.Value == "" {
		return "", false
	}
	ttl := time.Duration(tok.TTLSeconds) * time.Second
	if s.now().Sub(obtained) >= ttl-s.margin {
		return "", false
	}
	return tok.Value, true
}

// Save stores tok, replacing any previous token.
func (s *TokenStore) Save(tok OAuthToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		s.mem, s.memAt = &tok, s.now()
		return nil
	}

	data, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("zoom: create token dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".token-*.tmp")
	if err != nil {
		return fmt.Errorf("zoom: create token file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("zoom: write token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("zoom: write token file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("zoom: replace token file: %w", err)
	}
	return nil
}

// Clear removes the cached token. A missing token is not an error.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mem = nil
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("zoom: remove token file: %w", err)
	}
	return nil
}

// read must be called with mu held.
func (s *TokenStore) read() (OAuthToken, time.Time, bool) {
	if s.path == "" {
		if s.mem == nil {
			return OAuthToken{}, time.Time{}, false
		}
		return *s.mem, s.memAt, true
	}

	info, err := os.Stat(s.path)
	if err != nil {
		return OAuthToken{}, time.Time{}, false
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return OAuthToken{}, time.Time{}, false
	}
	var tok OAuthToken
	if err := json.Unmarshal(data, &tok); err != nil {
		return OAuthToken{}, time.Time{}, false
	}
	return tok, info.ModTime(), true
}
