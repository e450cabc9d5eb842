// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Storage modes.
const (
	ModeRemote = "remote"
	ModeLocal  = "local"
)

// Config holds the application configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
	Logging LoggingConfig `toml:"logging"`
}

// APIConfig holds remote backend settings.
type APIConfig struct {
	BaseURL        string `toml:"base_url"` // e.g., "https://fleet.example.com"
	Token          string `toml:"token"`    // bearer token, optional
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// StorageConfig selects the backend: the remote API or a local SQLite file.
type StorageConfig struct {
	Mode   string `toml:"mode"` // "remote" or "local"
	DBPath string `toml:"db_path"`
}

// UIConfig holds board settings.
type UIConfig struct {
	Theme        string `toml:"theme"`         // "slate", "harbor", "paper"
	CellWidth    int    `toml:"cell_width"`    // drag geometry: width of one vehicle column
	CellHeight   int    `toml:"cell_height"`   // drag geometry: height of one day row
	HoldDelayMS  int    `toml:"hold_delay_ms"` // press-and-hold time before a drag arms
	ConfirmMoves bool   `toml:"confirm_moves"` // ask before every reassign/shift
}

// HoldDelay returns the hold-before-drag delay as a duration.
func (u UIConfig) HoldDelay() time.Duration {
	return time.Duration(u.HoldDelayMS) * time.Millisecond
}

// LoggingConfig holds log file settings. The board owns the terminal, so
// logs always go to a file.
type LoggingConfig struct {
	Path  string `toml:"path"`
	Level string `toml:"level"` // "debug", "info", "warn", "error"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "",
			TimeoutSeconds: 30,
		},
		Storage: StorageConfig{
			Mode:   ModeLocal,
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme:        "slate",
			CellWidth:    50,
			CellHeight:   44,
			HoldDelayMS:  150,
			ConfirmMoves: true,
		},
		Logging: LoggingConfig{
			Path:  defaultLogPath(),
			Level: "info",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "fleetboard.db"
	}
	return filepath.Join(home, ".local", "share", "fleetboard", "fleetboard.db")
}

// defaultLogPath returns the default log file path.
func defaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "fleetboard.log"
	}
	return filepath.Join(home, ".local", "share", "fleetboard", "fleetboard.log")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "fleetboard", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Logging.Path = expandPath(cfg.Logging.Path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FLEETBOARD_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("FLEETBOARD_API_TOKEN"); v != "" {
		cfg.API.Token = v
	}
	if v := os.Getenv("FLEETBOARD_API_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.API.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("FLEETBOARD_STORAGE_MODE"); v != "" {
		cfg.Storage.Mode = v
	}
	if v := os.Getenv("FLEETBOARD_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("FLEETBOARD_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("FLEETBOARD_LOG_PATH"); v != "" {
		cfg.Logging.Path = v
	}
	if v := os.Getenv("FLEETBOARD_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Storage.Mode {
	case ModeRemote:
		if c.API.BaseURL == "" {
			return errors.New("api.base_url must be set in remote mode")
		}
	case ModeLocal:
		if c.Storage.DBPath == "" {
			return errors.New("storage.db_path must be set in local mode")
		}
	default:
		return fmt.Errorf("storage.mode must be %q or %q, got %q", ModeRemote, ModeLocal, c.Storage.Mode)
	}

	if c.API.TimeoutSeconds <= 0 {
		return errors.New("api.timeout_seconds must be positive")
	}
	if c.UI.CellWidth <= 0 || c.UI.CellHeight <= 0 {
		return errors.New("ui.cell_width and ui.cell_height must be positive")
	}
	if c.UI.HoldDelayMS < 0 {
		return errors.New("ui.hold_delay_ms cannot be negative")
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging.level: %s", c.Logging.Level)
	}
	return nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
