package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"docgrip/internal/eventbus"
)

// Serialization modes for the search queue
const (
	SerializeIssue      = "issue"
	SerializeCompletion = "completion"
)

// Request body formats
const (
	BodyRaw  = "raw"
	BodyJSON = "json"
)

// ErrConfigNotFound is returned by LoadFromPath when the file does not exist
var ErrConfigNotFound = errors.New("config file not found")

// Config represents the application configuration
type Config struct {
	Version    int             `toml:"version"`
	Server     ServerSettings  `toml:"server"`
	Search     SearchSettings  `toml:"search"`
	UISettings UISettings      `toml:"ui"`
	Log        LogSettings     `toml:"log"`
	History    HistorySettings `toml:"history"`
}

// ServerSettings points at the search endpoint
type ServerSettings struct {
	URL      string `toml:"url"`
	Endpoint string `toml:"endpoint"`
}

// SearchSettings controls how queued searches are issued and rendered
type SearchSettings struct {
	Timeout      Duration `toml:"timeout"` // 0 disables the timeout
	DiscardStale bool     `toml:"discard_stale"`
	CancelStale  bool     `toml:"cancel_stale"`
	Serialize    string   `toml:"serialize"`
	BodyFormat   string   `toml:"body_format"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowRank    bool `toml:"show_rank"`
	HistorySize int  `toml:"history_size"`
}

// LogSettings configures the log file
type LogSettings struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// HistorySettings configures the query history database
type HistorySettings struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Duration is a time.Duration that reads and writes as "1.5s" in TOML
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service for path; an empty path selects
// the default location under the user config directory
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = filepath.Join(DefaultDir(), "config.toml")
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

// DefaultDir returns the docgrip directory under the user config dir
func DefaultDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "docgrip")
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, falling back to defaults when the
// file does not exist yet
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, ErrConfigNotFound) {
		cfg = DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			Path:      cs.filePath,
			ServerURL: cfg.Server.URL,
		})
	}

	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}

	return nil
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Server: ServerSettings{
			URL:      "http://localhost:8080",
			Endpoint: "/api/search",
		},
		Search: SearchSettings{
			DiscardStale: true,
			CancelStale:  true,
			Serialize:    SerializeIssue,
			BodyFormat:   BodyRaw,
		},
		UISettings: UISettings{
			HistorySize: 200,
		},
		Log: LogSettings{
			Level: "info",
			File:  "docgrip.log",
		},
		History: HistorySettings{
			Enabled: true,
		},
	}
}

// LoadEnvFile loads a .env file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides config values from DOCGRIP_* environment variables
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("DOCGRIP_SERVER_URL"); v != "" {
		cfg.Server.URL = v
	}
	if v := os.Getenv("DOCGRIP_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("DOCGRIP_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("DOCGRIP_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}
}

// Validate checks that the configuration can be used to run searches
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return fmt.Errorf("invalid server url %q: %w", c.Server.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server url %q must use http or https", c.Server.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("server url %q has no host", c.Server.URL)
	}
	if !strings.HasPrefix(c.Server.Endpoint, "/") {
		return fmt.Errorf("server endpoint %q must start with /", c.Server.Endpoint)
	}
	switch c.Search.Serialize {
	case SerializeIssue, SerializeCompletion:
	default:
		return fmt.Errorf("search serialize must be %q or %q, got %q", SerializeIssue, SerializeCompletion, c.Search.Serialize)
	}
	switch c.Search.BodyFormat {
	case BodyRaw, BodyJSON:
	default:
		return fmt.Errorf("search body_format must be %q or %q, got %q", BodyRaw, BodyJSON, c.Search.BodyFormat)
	}
	if c.Search.Timeout.Duration < 0 {
		return errors.New("search timeout must not be negative")
	}
	if c.UISettings.HistorySize < 0 {
		return errors.New("ui history_size must not be negative")
	}
	return nil
}

// HistoryPath returns the history database path, defaulting to the config dir
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return filepath.Join(DefaultDir(), "history.db")
}
