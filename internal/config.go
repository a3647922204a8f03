package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Store backends
const (
	BackendSQLite   = "sqlite"
	BackendDuckDB   = "duckdb"
	BackendDynamoDB = "dynamodb"
	BackendFile     = "file"
	BackendMemory   = "memory"
)

// Classifier providers
const (
	ProviderComprehend = "comprehend"
	ProviderOpenAI     = "openai"
	ProviderHTTP       = "http"
	ProviderLexicon    = "lexicon"
)

// Config holds all emotion-session configuration.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Store      StoreConfig      `toml:"store"`
	Classifier ClassifierConfig `toml:"classifier"`
	Responder  ResponderConfig  `toml:"responder"`
	Log        LogConfig        `toml:"log"`

	source string
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type StoreConfig struct {
	Backend       string `toml:"backend"`
	Path          string `toml:"path"`
	Table         string `toml:"table"`
	SessionsTable string `toml:"sessions_table"`
	Region        string `toml:"region"`
	Endpoint      string `toml:"endpoint"`
}

type ClassifierConfig struct {
	Provider       string `toml:"provider"`
	Region         string `toml:"region"`
	Model          string `toml:"model"`
	BaseURL        string `toml:"base_url"`
	APIKeyEnv      string `toml:"api_key_env"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxRetries     int    `toml:"max_retries"`
	BaseDelayMS    int    `toml:"base_delay_ms"`
}

type ResponderConfig struct {
	HistoryWindow int   `toml:"history_window"`
	Seed          int64 `toml:"seed"` // 0 seeds from the clock
}

type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: ":8000"},
		Store: StoreConfig{
			Backend:       BackendSQLite,
			Path:          "~/.local/share/emotion-session/emotion.db",
			Table:         "emotion_analyses",
			SessionsTable: "user_sessions",
			Region:        "us-east-1",
		},
		Classifier: ClassifierConfig{
			Provider:       ProviderComprehend,
			Region:         "us-east-1",
			Model:          "gpt-4o-mini",
			BaseURL:        "http://localhost:8080",
			APIKeyEnv:      "OPENAI_API_KEY",
			TimeoutSeconds: 10,
			MaxRetries:     2,
			BaseDelayMS:    200,
		},
		Responder: ResponderConfig{HistoryWindow: DefaultHistoryWindow},
		Log:       LogConfig{Level: "info"},
	}
}

// LoadDotEnv loads .env files into the process environment. Missing files
// are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return &ConfigError{Key: p, Err: err}
		}
	}
	return nil
}

// LoadConfig reads config from path, or from the standard locations when
// path is empty, then applies environment overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, &ConfigError{Key: path, Err: err}
		}
		cfg.source = path
	} else {
		for _, p := range configPaths() {
			if _, err := os.Stat(p); err == nil {
				if _, err := toml.DecodeFile(p, &cfg); err != nil {
					return cfg, &ConfigError{Key: p, Err: err}
				}
				cfg.source = p
				break
			}
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	cfg.Store.Path = expandHome(cfg.Store.Path)

	return cfg, cfg.Validate()
}

// Source returns the config file that was loaded, or "" for defaults.
func (c Config) Source() string {
	return c.source
}

// ApplyEnv overlays environment variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("DATABASE_URL"); ok {
		scheme, rest, found := strings.Cut(v, "://")
		if !found {
			return &ConfigError{Key: "DATABASE_URL", Err: fmt.Errorf("missing scheme in %q", v)}
		}
		c.Store.Backend = strings.ToLower(scheme)
		// sqlite:///relative.db and sqlite:////abs.db
		c.Store.Path = strings.TrimPrefix(rest, "/")
	}
	if v, ok := get("USE_DYNAMODB"); ok && strings.EqualFold(v, "true") {
		c.Store.Backend = BackendDynamoDB
	}
	if v, ok := get("AWS_DEFAULT_REGION"); ok {
		c.Store.Region = v
		c.Classifier.Region = v
	}
	if v, ok := get("EMOTION_STORE"); ok {
		c.Store.Backend = strings.ToLower(v)
	}
	if v, ok := get("EMOTION_STORE_PATH"); ok {
		c.Store.Path = v
	}
	if v, ok := get("EMOTION_CLASSIFIER"); ok {
		c.Classifier.Provider = strings.ToLower(v)
	}
	if v, ok := get("EMOTION_CLASSIFIER_URL"); ok {
		c.Classifier.BaseURL = v
	}
	if v, ok := get("EMOTION_MODEL"); ok {
		c.Classifier.Model = v
	}
	if v, ok := get("EMOTION_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := get("EMOTION_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := get("EMOTION_HISTORY_WINDOW"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigError{Key: "EMOTION_HISTORY_WINDOW", Err: err}
		}
		c.Responder.HistoryWindow = n
	}
	if v, ok := get("EMOTION_SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return &ConfigError{Key: "EMOTION_SEED", Err: err}
		}
		c.Responder.Seed = n
	}
	return nil
}

// Validate checks that the configuration can be wired.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendSQLite, BackendDuckDB, BackendDynamoDB, BackendFile, BackendMemory:
	default:
		return &ConfigError{Key: "store.backend", Err: fmt.Errorf("%w: %q", ErrUnknownBackend, c.Store.Backend)}
	}
	switch c.Store.Backend {
	case BackendSQLite, BackendDuckDB, BackendFile:
		if c.Store.Path == "" {
			return &ConfigError{Key: "store.path", Err: errors.New("path is required for " + c.Store.Backend)}
		}
	case BackendDynamoDB:
		if c.Store.Table == "" || c.Store.SessionsTable == "" {
			return &ConfigError{Key: "store.table", Err: errors.New("table names are required for dynamodb")}
		}
	}

	switch c.Classifier.Provider {
	case ProviderComprehend, ProviderOpenAI, ProviderHTTP, ProviderLexicon:
	default:
		return &ConfigError{Key: "classifier.provider", Err: fmt.Errorf("%w: %q", ErrUnknownBackend, c.Classifier.Provider)}
	}
	if c.Classifier.TimeoutSeconds <= 0 {
		return &ConfigError{Key: "classifier.timeout_seconds", Err: errors.New("must be positive")}
	}
	if c.Classifier.MaxRetries < 0 {
		return &ConfigError{Key: "classifier.max_retries", Err: errors.New("must not be negative")}
	}
	if c.Responder.HistoryWindow <= 0 {
		return &ConfigError{Key: "responder.history_window", Err: errors.New("must be positive")}
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return &ConfigError{Key: "log.level", Err: err}
	}
	return nil
}

// Timeout returns the per-call classifier timeout.
func (c ClassifierConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryConfig converts the classifier retry settings.
func (c ClassifierConfig) RetryConfig() RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.MaxRetries = c.MaxRetries
	if c.BaseDelayMS > 0 {
		cfg.BaseDelay = time.Duration(c.BaseDelayMS) * time.Millisecond
	}
	return cfg
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "emotion-session", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "emotion-session", "config.toml"))
	}

	return paths
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
