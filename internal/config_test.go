package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	if cfg.Responder.HistoryWindow != DefaultHistoryWindow {
		t.Errorf("HistoryWindow = %d, want %d", cfg.Responder.HistoryWindow, DefaultHistoryWindow)
	}
	if got := cfg.Classifier.RetryConfig().MaxRetries; got != 2 {
		t.Errorf("RetryConfig().MaxRetries = %d, want 2", got)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("EMOTION_STORE", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("USE_DYNAMODB", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[server]
addr = ":9090"

[store]
backend = "file"
path = "` + filepath.ToSlash(dir) + `/data"

[classifier]
provider = "lexicon"
max_retries = 1

[responder]
history_window = 4
seed = 99
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Store.Backend != BackendFile {
		t.Errorf("Store.Backend = %q, want file", cfg.Store.Backend)
	}
	if cfg.Classifier.Provider != ProviderLexicon || cfg.Classifier.MaxRetries != 1 {
		t.Errorf("Classifier = %+v", cfg.Classifier)
	}
	if cfg.Classifier.TimeoutSeconds != 10 {
		t.Errorf("unset keys should keep defaults, TimeoutSeconds = %d", cfg.Classifier.TimeoutSeconds)
	}
	if cfg.Responder.HistoryWindow != 4 || cfg.Responder.Seed != 99 {
		t.Errorf("Responder = %+v", cfg.Responder)
	}
	if cfg.Source() != path {
		t.Errorf("Source() = %q, want %q", cfg.Source(), path)
	}
}

func TestLoadConfigBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[store\nbackend ="), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Errorf("LoadConfig() error = %v, want ConfigError", err)
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		check   func(t *testing.T, cfg Config)
		wantErr bool
	}{
		{
			name: "database url sqlite",
			env:  map[string]string{"DATABASE_URL": "sqlite:///./emotion_detection.db"},
			check: func(t *testing.T, cfg Config) {
				if cfg.Store.Backend != BackendSQLite || cfg.Store.Path != "./emotion_detection.db" {
					t.Errorf("Store = %+v", cfg.Store)
				}
			},
		},
		{
			name: "database url absolute",
			env:  map[string]string{"DATABASE_URL": "duckdb:////var/lib/emotion.duckdb"},
			check: func(t *testing.T, cfg Config) {
				if cfg.Store.Backend != BackendDuckDB || cfg.Store.Path != "/var/lib/emotion.duckdb" {
					t.Errorf("Store = %+v", cfg.Store)
				}
			},
		},
		{
			name: "use dynamodb",
			env:  map[string]string{"USE_DYNAMODB": "TRUE", "AWS_DEFAULT_REGION": "eu-west-1"},
			check: func(t *testing.T, cfg Config) {
				if cfg.Store.Backend != BackendDynamoDB {
					t.Errorf("Store.Backend = %q, want dynamodb", cfg.Store.Backend)
				}
				if cfg.Store.Region != "eu-west-1" || cfg.Classifier.Region != "eu-west-1" {
					t.Errorf("regions = %q/%q, want eu-west-1", cfg.Store.Region, cfg.Classifier.Region)
				}
			},
		},
		{
			name: "explicit store wins",
			env:  map[string]string{"USE_DYNAMODB": "true", "EMOTION_STORE": "Memory"},
			check: func(t *testing.T, cfg Config) {
				if cfg.Store.Backend != BackendMemory {
					t.Errorf("Store.Backend = %q, want memory", cfg.Store.Backend)
				}
			},
		},
		{
			name: "responder and classifier",
			env: map[string]string{
				"EMOTION_CLASSIFIER":     "http",
				"EMOTION_CLASSIFIER_URL": "http://sentiment:9000",
				"EMOTION_HISTORY_WINDOW": "6",
				"EMOTION_SEED":           "1234",
				"EMOTION_LOG_LEVEL":      "debug",
				"EMOTION_ADDR":           "127.0.0.1:8001",
			},
			check: func(t *testing.T, cfg Config) {
				if cfg.Classifier.Provider != ProviderHTTP || cfg.Classifier.BaseURL != "http://sentiment:9000" {
					t.Errorf("Classifier = %+v", cfg.Classifier)
				}
				if cfg.Responder.HistoryWindow != 6 || cfg.Responder.Seed != 1234 {
					t.Errorf("Responder = %+v", cfg.Responder)
				}
				if cfg.Log.Level != "debug" || cfg.Server.Addr != "127.0.0.1:8001" {
					t.Errorf("Log/Server = %+v/%+v", cfg.Log, cfg.Server)
				}
			},
		},
		{
			name:    "bad window",
			env:     map[string]string{"EMOTION_HISTORY_WINDOW": "many"},
			wantErr: true,
		},
		{
			name:    "url without scheme",
			env:     map[string]string{"DATABASE_URL": "emotion.db"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.ApplyEnv(envMap(tt.env))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyEnv() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
	}{
		{"unknown backend", func(c *Config) { c.Store.Backend = "postgres" }, "store.backend"},
		{"unknown provider", func(c *Config) { c.Classifier.Provider = "magic" }, "classifier.provider"},
		{"missing path", func(c *Config) { c.Store.Path = "" }, "store.path"},
		{"zero window", func(c *Config) { c.Responder.HistoryWindow = 0 }, "responder.history_window"},
		{"zero timeout", func(c *Config) { c.Classifier.TimeoutSeconds = 0 }, "classifier.timeout_seconds"},
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("Validate() error = %v, want ConfigError", err)
			}
			if cerr.Key != tt.wantKey {
				t.Errorf("Validate() key = %q, want %q", cerr.Key, tt.wantKey)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Store.Backend = "postgres"
	if err := cfg.Validate(); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Validate() error = %v, want ErrUnknownBackend", err)
	}

	cfg = DefaultConfig()
	cfg.Store.Backend = BackendMemory
	cfg.Store.Path = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("memory backend without path: Validate() error = %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("EMOTION_TEST_DOTENV=loaded\n"), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("EMOTION_TEST_DOTENV", "")
	os.Unsetenv("EMOTION_TEST_DOTENV")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("EMOTION_TEST_DOTENV"); got != "loaded" {
		t.Errorf("EMOTION_TEST_DOTENV = %q, want loaded", got)
	}
}
