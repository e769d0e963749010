package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// AppName names the XDG subdirectories used for config and data.
const AppName = "txa"

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Report     ReportConfig     `toml:"report"`
	Serve      ServeConfig      `toml:"serve"`
	Validation ValidationConfig `toml:"validation"`
}

// ServerConfig describes the analysis server the client submits to.
type ServerConfig struct {
	BaseURL   string  `toml:"base_url"`
	Endpoint  string  `toml:"endpoint"`
	Timeout   string  `toml:"timeout"`
	RateLimit float64 `toml:"rate_limit"`
	Token     string  `toml:"token"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ReportConfig controls artifact export.
type ReportConfig struct {
	OutputDir   string `toml:"output_dir"`
	OpenBrowser bool   `toml:"open_browser"`
	Workers     int    `toml:"workers"`
}

// ServeConfig contains settings for the local report server.
type ServeConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ValidationConfig toggles client-side URL checks.
type ValidationConfig struct {
	Local bool `toml:"local"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResolveConfigPath picks the config file to load: the explicit path if given,
// then ./config.toml, then the XDG config file. Returns "" when none exist.
func ResolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	for _, candidate := range []string{"config.toml", filepath.Join(XDGConfigDir(), "config.toml")} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.BaseURL) == "" {
		return fmt.Errorf("%w: server.base_url is empty", ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.Server.Endpoint, "/") {
		return fmt.Errorf("%w: server.endpoint must start with /", ErrInvalidConfig)
	}
	if _, err := c.Server.TimeoutDuration(); err != nil {
		return err
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("%w: server.rate_limit must not be negative", ErrInvalidConfig)
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return fmt.Errorf("%w: serve.port out of range", ErrInvalidConfig)
	}
	return nil
}

// TimeoutDuration parses the configured request timeout; empty means no timeout.
func (s ServerConfig) TimeoutDuration() (time.Duration, error) {
	if s.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: server.timeout: %v", ErrInvalidConfig, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: server.timeout must not be negative", ErrInvalidConfig)
	}
	return d, nil
}

// AnalyzeURL joins the base URL and endpoint.
func (s ServerConfig) AnalyzeURL() string {
	return strings.TrimRight(s.BaseURL, "/") + s.Endpoint
}

// DatabasePath returns the configured database path or the XDG default.
func (d DatabaseConfig) DatabasePath() string {
	if d.Path != "" {
		return d.Path
	}
	return filepath.Join(XDGDataDir(), AppName+".db")
}

// Addr returns host:port for the report server.
func (s ServeConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// XDGConfigDir returns the XDG config directory for txa.
//
// On Linux: ~/.config/txa
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGDataDir returns the XDG data directory for txa.
//
// On Linux: ~/.local/share/txa
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGStateDir returns the XDG state directory, used for TUI logs.
func XDGStateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}
