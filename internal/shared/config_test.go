package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Backend.BaseURL != "http://127.0.0.1:8000" {
			t.Errorf("expected backend base URL http://127.0.0.1:8000, got %s", config.Backend.BaseURL)
		}
		if config.Backend.LoginURL() != "http://127.0.0.1:8000/login" {
			t.Errorf("expected login URL http://127.0.0.1:8000/login, got %s", config.Backend.LoginURL())
		}
		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}
		if config.Database.Path != "./statsdash.db" {
			t.Errorf("expected database path ./statsdash.db, got %s", config.Database.Path)
		}
		if config.Fetch.RequestsPerSecond != 0 {
			t.Errorf("expected limiter disabled by default, got %v", config.Fetch.RequestsPerSecond)
		}
		if err := config.Validate(); err != nil {
			t.Errorf("expected default config to validate, got %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[backend]
base_url = "http://stats.example.com/"
login_path = "auth/login"
timeout_seconds = 3

[server]
port = 4000
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Backend.LoginURL() != "http://stats.example.com/auth/login" {
			t.Errorf("unexpected login URL %s", config.Backend.LoginURL())
		}
		if config.Backend.Timeout() != 3*time.Second {
			t.Errorf("expected 3s timeout, got %v", config.Backend.Timeout())
		}
		if config.Server.Port != 4000 {
			t.Errorf("expected server port 4000, got %d", config.Server.Port)
		}
		if config.Server.Host != "127.0.0.1" {
			t.Errorf("expected unset host to keep default, got %s", config.Server.Host)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("LoadConfigOrDefault", func(t *testing.T) {
		t.Setenv(BackendURLEnv, "http://override:9000")

		config, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if config.Backend.BaseURL != "http://override:9000" {
			t.Errorf("expected env override, got %s", config.Backend.BaseURL)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name   string
			mutate func(*Config)
		}{
			{name: "relative backend URL", mutate: func(c *Config) { c.Backend.BaseURL = "/stats" }},
			{name: "port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }},
			{name: "negative rate", mutate: func(c *Config) { c.Fetch.RequestsPerSecond = -1 }},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				tt.mutate(config)
				if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})
}
