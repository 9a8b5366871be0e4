package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Calendar backends.
const (
	BackendAppleScript = "applescript"
	BackendICS         = "ics"
	BackendGoogle      = "google"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Pipeline
	AI          AIConfig
	Cache       CacheConfig
	Timezone    TimezoneConfig
	Calendar    CalendarConfig
	Meeting     MeetingConfig
	Preferences PreferencesConfig
	Locale      LocaleConfig
	Temp        TempConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// AIConfig holds the language-model gateway settings
type AIConfig struct {
	APIKey            string
	BaseURL           string
	Model             string
	FallbackModel     string
	APIVersion        string
	MaxTokens         int
	ConnectTimeout    time.Duration
	Timeout           time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
	MaxTotalTimeout   time.Duration
	RequestsPerSecond float64
}

type CacheConfig struct {
	Dir        string
	TTL        time.Duration
	MemorySize int
}

type TimezoneConfig struct {
	Name string
}

// CalendarConfig selects and configures the emitter backend
type CalendarConfig struct {
	Backend               string
	App                   string
	Default               string
	ScriptTimeout         time.Duration
	ICSDir                string
	GoogleCredentialsPath string
	// GoogleIDs maps a calendar display name to a Google calendar id.
	GoogleIDs map[string]string
}

// MeetingConfig holds the video-meeting provider credentials. The
// provisioner is enabled only when all three credentials are present.
type MeetingConfig struct {
	AccountID    string
	ClientID     string
	ClientSecret string
	TokenURL     string
	APIURL       string
	TokenFile    string
	TokenMargin  time.Duration
	Timeout      time.Duration
}

// Enabled reports whether meeting credentials are complete.
func (m MeetingConfig) Enabled() bool {
	return m.AccountID != "" && m.ClientID != "" && m.ClientSecret != ""
}

type PreferencesConfig struct {
	Text string
	File string
}

type LocaleConfig struct {
	Lang string
}

type TempConfig struct {
	Dir    string
	Prefix string
	MaxAge time.Duration
}

// Load loads configuration using Viper.
// A .env file in the working directory is applied to the environment first.
// Config file name: config.yaml, searched in ./config, ., $HOME/.smartcal, /etc/smartcal/
func Load() (*Config, error) {
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".smartcal"))
	}
	viper.AddConfigPath("/etc/smartcal/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	var errs []error
	dur := func(key string) time.Duration {
		d, err := parseDuration(key)
		if err != nil {
			errs = append(errs, err)
		}
		return d
	}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// AI gateway
	cfg.AI.APIKey = expandEnvVar(viper.GetString("ai.api_key"))
	for _, key := range []string{"anthropic_api_key", "ai_api_key"} {
		if k := viper.GetString(key); k != "" && cfg.AI.APIKey == "" {
			cfg.AI.APIKey = k
		}
	}
	cfg.AI.BaseURL = viper.GetString("ai.base_url")
	cfg.AI.Model = viper.GetString("ai.model")
	cfg.AI.FallbackModel = viper.GetString("ai.fallback_model")
	cfg.AI.APIVersion = viper.GetString("ai.api_version")
	cfg.AI.MaxTokens = viper.GetInt("ai.max_tokens")
	cfg.AI.ConnectTimeout = dur("ai.connect_timeout")
	cfg.AI.Timeout = dur("ai.timeout")
	cfg.AI.RetryAttempts = viper.GetInt("ai.retry_attempts")
	cfg.AI.RetryDelay = dur("ai.retry_delay")
	cfg.AI.MaxTotalTimeout = dur("ai.max_total_timeout")
	cfg.AI.RequestsPerSecond = viper.GetFloat64("ai.requests_per_second")

	// Response cache
	cfg.Cache.Dir = expandHome(viper.GetString("cache.dir"))
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = defaultCacheDir()
	}
	cfg.Cache.TTL = dur("cache.ttl")
	cfg.Cache.MemorySize = viper.GetInt("cache.memory_size")

	cfg.Timezone.Name = viper.GetString("timezone.name")

	// Calendar emitter
	cfg.Calendar.Backend = strings.ToLower(viper.GetString("calendar.backend"))
	cfg.Calendar.App = viper.GetString("calendar.app")
	cfg.Calendar.Default = viper.GetString("calendar.default")
	cfg.Calendar.ScriptTimeout = dur("calendar.script_timeout")
	cfg.Calendar.ICSDir = expandHome(viper.GetString("calendar.ics_dir"))
	cfg.Calendar.GoogleCredentialsPath = expandHome(viper.GetString("calendar.google_credentials_path"))
	if googleCreds := viper.GetString("google_calendar_credentials"); googleCreds != "" {
		cfg.Calendar.GoogleCredentialsPath = googleCreds
	}
	cfg.Calendar.GoogleIDs = viper.GetStringMapString("calendar.google_ids")

	// Meeting provisioner
	cfg.Meeting.AccountID = expandEnvVar(viper.GetString("meeting.account_id"))
	cfg.Meeting.ClientID = expandEnvVar(viper.GetString("meeting.client_id"))
	cfg.Meeting.ClientSecret = expandEnvVar(viper.GetString("meeting.client_secret"))
	if v := viper.GetString("zoom_account_id"); v != "" {
		cfg.Meeting.AccountID = v
	}
	if v := viper.GetString("zoom_client_id"); v != "" {
		cfg.Meeting.ClientID = v
	}
	if v := viper.GetString("zoom_client_secret"); v != "" {
		cfg.Meeting.ClientSecret = v
	}
	cfg.Meeting.TokenURL = viper.GetString("meeting.token_url")
	cfg.Meeting.APIURL = viper.GetString("meeting.api_url")
	cfg.Meeting.TokenFile = expandHome(viper.GetString("meeting.token_file"))
	if cfg.Meeting.TokenFile == "" {
		cfg.Meeting.TokenFile = filepath.Join(filepath.Dir(cfg.Cache.Dir), "meeting_token.json")
	}
	cfg.Meeting.TokenMargin = dur("meeting.token_margin")
	cfg.Meeting.Timeout = dur("meeting.timeout")

	cfg.Preferences.Text = viper.GetString("preferences.text")
	cfg.Preferences.File = expandHome(viper.GetString("preferences.file"))

	cfg.Locale.Lang = viper.GetString("locale.lang")

	cfg.Temp.Dir = viper.GetString("temp.dir")
	if cfg.Temp.Dir == "" {
		cfg.Temp.Dir = os.TempDir()
	}
	cfg.Temp.Prefix = viper.GetString("temp.prefix")
	cfg.Temp.MaxAge = dur("temp.max_age")

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges. A missing AI key is not an error here; the
// gateway reports it when a request is made.
func (c *Config) Validate() error {
	switch c.Calendar.Backend {
	case BackendAppleScript, BackendICS, BackendGoogle:
	default:
		return fmt.Errorf("calendar.backend: unknown backend %q", c.Calendar.Backend)
	}
	if c.Calendar.Backend == BackendGoogle && c.Calendar.GoogleCredentialsPath == "" {
		return fmt.Errorf("calendar.google_credentials_path is required for the google backend")
	}
	if c.AI.RetryAttempts < 1 {
		return fmt.Errorf("ai.retry_attempts must be at least 1")
	}
	if c.AI.RetryDelay < 0 || c.AI.Timeout <= 0 || c.AI.ConnectTimeout <= 0 {
		return fmt.Errorf("ai timeouts must be positive")
	}
	if c.AI.RequestsPerSecond < 0 {
		return fmt.Errorf("ai.requests_per_second must not be negative")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	if c.Calendar.ScriptTimeout <= 0 {
		return fmt.Errorf("calendar.script_timeout must be positive")
	}
	if c.Meeting.TokenMargin < 0 {
		return fmt.Errorf("meeting.token_margin must not be negative")
	}
	return nil
}

// PreferenceText returns the configured preference text, reading the
// preference file when no inline text is set.
func (c *Config) PreferenceText() (string, error) {
	if c.Preferences.Text != "" || c.Preferences.File == "" {
		return c.Preferences.Text, nil
	}
	b, err := os.ReadFile(c.Preferences.File)
	if err != nil {
		return "", fmt.Errorf("read preferences file: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.mode", "development")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	// AI gateway defaults
	viper.SetDefault("ai.base_url", "https://api.anthropic.com/v1")
	viper.SetDefault("ai.model", "claude-3-5-haiku-latest")
	viper.SetDefault("ai.api_version", "2023-06-01")
	viper.SetDefault("ai.max_tokens", 1024)
	viper.SetDefault("ai.connect_timeout", "10s")
	viper.SetDefault("ai.timeout", "30s")
	viper.SetDefault("ai.retry_attempts", 3)
	viper.SetDefault("ai.retry_delay", "1s")
	viper.SetDefault("ai.max_total_timeout", "120s")
	viper.SetDefault("ai.requests_per_second", 2)

	viper.SetDefault("cache.ttl", "24h")
	viper.SetDefault("cache.memory_size", 256)

	viper.SetDefault("calendar.backend", BackendAppleScript)
	viper.SetDefault("calendar.app", "Calendar")
	viper.SetDefault("calendar.default", "Personal")
	viper.SetDefault("calendar.script_timeout", "30s")
	viper.SetDefault("calendar.ics_dir", ".")

	viper.SetDefault("meeting.token_url", "https://zoom.us/oauth/token")
	viper.SetDefault("meeting.api_url", "https://api.zoom.us/v2")
	viper.SetDefault("meeting.token_margin", "300s")
	viper.SetDefault("meeting.timeout", "30s")

	viper.SetDefault("locale.lang", "en")
	viper.SetDefault("temp.prefix", "smartcal_")
	viper.SetDefault("temp.max_age", "1h")
}

func parseDuration(key string) (time.Duration, error) {
	raw := strings.TrimSpace(viper.GetString(key))
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, raw, err)
	}
	return d, nil
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(value string) string {
	if value == "" {
		return value
	}

	// Check if value is in format ${VAR_NAME}
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		// Try viper first (handles both env and config)
		if envValue := viper.GetString(envVar); envValue != "" {
			return envValue
		}
		// Try lowercase version
		if envValue := viper.GetString(strings.ToLower(envVar)); envValue != "" {
			return envValue
		}
		// Try direct os.Getenv as last resort
		if envValue := os.Getenv(envVar); envValue != "" {
			return envValue
		}
		return ""
	}

	return value
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "smartcal", "responses")
}
