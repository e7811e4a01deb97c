// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept in the file; the database password comes from
// the environment or the OS keychain and is never written back.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"chartviz/cli/internal/charts"
	"chartviz/cli/internal/logging"
	"chartviz/cli/internal/manifest"
	"chartviz/cli/internal/xdg"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the config file name inside the config dir.
const FileName = "config.yaml"

// Config holds non-sensitive CLI settings.
type Config struct {
	APIURL         string                 `yaml:"api_url"`
	LogLevel       string                 `yaml:"log_level"`
	KeyringBackend string                 `yaml:"keyring_backend,omitempty"`
	Endpoints      manifest.HTTPEndpoints `yaml:"endpoints,omitempty"`
	Connection     ConnectionConfig       `yaml:"connection"`
	Chart          ChartConfig            `yaml:"chart"`
}

// ConnectionConfig holds the database coordinates sent to the backend.
type ConnectionConfig struct {
	Host   string `yaml:"host"`
	DBName string `yaml:"db_name"`
	User   string `yaml:"user"`
	// Port is only used by local verification; the backend always dials 5432.
	Port int `yaml:"port,omitempty"`
	// Password is filled from CHARTVIZ_DB_PASSWORD or the keychain.
	Password string `yaml:"-"`
}

// ChartConfig holds rendering defaults.
type ChartConfig struct {
	Kind   string `yaml:"kind"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		APIURL:   "http://localhost:8080",
		LogLevel: "warn",
		Connection: ConnectionConfig{
			Host:   "localhost",
			DBName: "chart_visualizer_db",
			User:   "postgres",
			Port:   5432,
		},
		Chart: ChartConfig{
			Kind:   string(charts.KindBar),
			Width:  1024,
			Height: 576,
		},
	}
}

// DefaultPath returns the config file path in the XDG config dir.
func DefaultPath() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// LoadDotEnv loads a .env file from the working directory when present.
// Variables already set in the environment win.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from path (the XDG default when empty). A missing file
// yields defaults. Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes configuration with 0600 permissions.
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks the values that would otherwise fail later and obscurely.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := charts.ParseKind(c.Chart.Kind); err != nil {
		return fmt.Errorf("chart.kind: %w", err)
	}
	if c.Chart.Width < 100 || c.Chart.Height < 100 {
		return fmt.Errorf("chart size %dx%d is too small", c.Chart.Width, c.Chart.Height)
	}
	if c.Connection.Port < 0 || c.Connection.Port > 65535 {
		return fmt.Errorf("connection.port %d out of range", c.Connection.Port)
	}
	return nil
}

// ChartConnection converts the connection section into the wire form.
func (c *Config) ChartConnection() charts.ConnectionConfig {
	return c.Connection.Chart()
}

// Chart converts the connection into the wire form sent to the backend.
func (cc ConnectionConfig) Chart() charts.ConnectionConfig {
	return charts.ConnectionConfig{
		Host:     cc.Host,
		DBName:   cc.DBName,
		User:     cc.User,
		Password: cc.Password,
	}
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CHARTVIZ_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv("CHARTVIZ_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("CHARTVIZ_KEYRING_BACKEND"); v != "" {
		c.KeyringBackend = v
	}

	if v := os.Getenv("CHARTVIZ_DB_HOST"); v != "" {
		c.Connection.Host = v
	}
	if v := os.Getenv("CHARTVIZ_DB_NAME"); v != "" {
		c.Connection.DBName = v
	}
	if v := os.Getenv("CHARTVIZ_DB_USER"); v != "" {
		c.Connection.User = v
	}
	if v := os.Getenv("CHARTVIZ_DB_PORT"); v != "" {
		if p, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.Connection.Port = p
		}
	}
	if v, ok := os.LookupEnv("CHARTVIZ_DB_PASSWORD"); ok {
		c.Connection.Password = v
	}
}
