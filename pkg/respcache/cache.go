package respcache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultTTL        = 24 * time.Hour
	DefaultMemorySize = 256

	fileExt = ".json"
	tmpExt  = ".tmp"
)

// Config configures a Cache.
type Config struct {
	Dir        string
	TTL        time.Duration
	MemorySize int
}

// CachedResponse is one stored upstream reply.
type CachedResponse struct {
	RequestHash  string
	ResponseBody []byte
	CreatedAt    time.Time
}

// Cache maps a request hash to a previous successful response body.
// Entries live in {dir}/{hash}.json and expire by file mtime. Lookups go
// through an in-process LRU first. Safe for concurrent use.
type Cache struct {
	dir string
	ttl time.Duration
	mem *expirable.LRU[string, CachedResponse]
	now func() time.Time

	disabled bool
}

// New creates the cache directory if needed. If the directory cannot be
// created the cache keeps working in memory only.
func New(cfg Config) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MemorySize <= 0 {
		cfg.MemorySize = DefaultMemorySize
	}

	c := &Cache{
		dir: cfg.Dir,
		ttl: cfg.TTL,
		mem: expirable.NewLRU[string, CachedResponse](cfg.MemorySize, nil, cfg.TTL),
		now: time.Now,
	}
	if c.dir == "" || os.MkdirAll(c.dir, 0o700) != nil {
		c.disabled = true
	}
	return c
}

// Key returns the content address of a request body.
func Key(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// Dir returns the backing directory, or "" when running memory only.
func (c *Cache) Dir() string {
	if c.disabled {
		return ""
	}
	return c.dir
}

// Get returns the cached body for key if it is still fresh.
func (c *Cache) Get(key string) ([]byte, bool) {
	r, ok := c.Lookup(key)
	if !ok {
		return nil, false
	}
	return r.ResponseBody, true
}

// Lookup returns the full cached record for key if it is still fresh.
func (c *Cache) Lookup(key string) (CachedResponse, bool) {
	if !validKey(key) {
		return CachedResponse{}, false
	}
	if r, ok := c.mem.Get(key); ok && c.fresh(r.CreatedAt) {
		return r, true
	}
	if c.disabled {
		return CachedResponse{}, false
	}

	path := c.path(key)
	info, err := os.Stat(path)
	if err != nil || !c.fresh(info.ModTime()) {
		return CachedResponse{}, false
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return CachedResponse{}, false
	}

	r := CachedResponse{RequestHash: key, ResponseBody: body, CreatedAt: info.ModTime()}
	c.mem.Add(key, r)
	return r, true
}

// Set stores body under key. The file is written to a temp name and
// renamed so readers never see a partial body; concurrent writers race
// and the last rename wins.
func (c *Cache) Set(key string, body []byte) error {
	if !validKey(key) {
		return fmt.Errorf("respcache: invalid key %q", key)
	}
	stored := append([]byte(nil), body...)
	c.mem.Add(key, CachedResponse{RequestHash: key, ResponseBody: stored, CreatedAt: c.now()})
	if c.disabled {
		return nil
	}

	f, err := os.CreateTemp(c.dir, key+".*"+tmpExt)
	if err != nil {
		return fmt.Errorf("respcache: create temp: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(stored); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("respcache: write: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("respcache: close: %w", err)
	}
	if err := os.Rename(tmp, c.path(key)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("respcache: rename: %w", err)
	}
	return nil
}

// Prune deletes expired entries and abandoned temp files and returns how
// many files were removed.
func (c *Cache) Prune() (int, error) {
	c.mem.Purge()
	if c.disabled {
		return 0, nil
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("respcache: read dir: %w", err)
	}

	removed := 0
	var errs []error
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !(strings.HasSuffix(name, fileExt) || strings.HasSuffix(name, tmpExt)) {
			continue
		}
		info, err := e.Info()
		if err != nil || c.fresh(info.ModTime()) {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

func (c *Cache) fresh(created time.Time) bool {
	return c.now().Sub(created) < c.ttl
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+fileExt)
}

func validKey(key string) bool {
	if len(key) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(key)
	return err == nil
}
