package shared

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Server.BaseURL != "http://127.0.0.1:5000" {
			t.Errorf("expected base_url http://127.0.0.1:5000, got %s", config.Server.BaseURL)
		}
		if config.Server.Endpoint != "/analyze" {
			t.Errorf("expected endpoint /analyze, got %s", config.Server.Endpoint)
		}
		if config.Serve.Port != 3000 {
			t.Errorf("expected serve port 3000, got %d", config.Serve.Port)
		}
		if !config.Validation.Local {
			t.Error("expected local validation to be enabled by default")
		}
		if config.Report.Workers != 4 {
			t.Errorf("expected 4 report workers, got %d", config.Report.Workers)
		}
		if err := config.Validate(); err != nil {
			t.Errorf("default config should be valid: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "nested", "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Server.BaseURL != DefaultConfig().Server.BaseURL {
			t.Errorf("created config base_url doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[server]
base_url = "http://analysis.internal:8000/"
timeout = "5s"
rate_limit = 2.5
token = "secret"

[database]
path = "/custom/path.db"

[serve]
port = 8080
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if got := config.Server.AnalyzeURL(); got != "http://analysis.internal:8000/analyze" {
			t.Errorf("expected joined analyze URL, got %s", got)
		}
		if d, _ := config.Server.TimeoutDuration(); d != 5*time.Second {
			t.Errorf("expected 5s timeout, got %v", d)
		}
		if config.Server.RateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %v", config.Server.RateLimit)
		}
		if config.Database.DatabasePath() != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.DatabasePath())
		}
		if config.Serve.Addr() != "127.0.0.1:8080" {
			t.Errorf("expected serve addr 127.0.0.1:8080, got %s", config.Serve.Addr())
		}
		if config.Report.OutputDir != "./txa-reports" {
			t.Errorf("expected unset keys to keep defaults, got output_dir %q", config.Report.OutputDir)
		}
	})

	t.Run("LoadConfig Invalid", func(t *testing.T) {
		tt := []struct {
			name string
			body string
		}{
			{name: "bad timeout", body: "[server]\ntimeout = \"soon\"\n"},
			{name: "endpoint without slash", body: "[server]\nendpoint = \"analyze\"\n"},
			{name: "negative rate", body: "[server]\nrate_limit = -1.0\n"},
			{name: "port out of range", body: "[serve]\nport = 70000\n"},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				configPath := filepath.Join(t.TempDir(), "config.toml")
				if err := os.WriteFile(configPath, []byte(tc.body), 0644); err != nil {
					t.Fatalf("failed to write config: %v", err)
				}

				_, err := LoadConfig(configPath)
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})

	t.Run("LoadConfig Missing", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("DatabasePath Defaults To XDG", func(t *testing.T) {
		got := DatabaseConfig{}.DatabasePath()
		if !strings.HasSuffix(got, filepath.Join(AppName, "txa.db")) {
			t.Errorf("expected XDG data path, got %s", got)
		}
	})

	t.Run("ResolveConfigPath", func(t *testing.T) {
		if got := ResolveConfigPath("/explicit/config.toml"); got != "/explicit/config.toml" {
			t.Errorf("explicit path should win, got %s", got)
		}
	})
}
