package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.Storage.Mode != ModeLocal {
		t.Errorf("default mode = %q, want local", cfg.Storage.Mode)
	}
	if cfg.API.Timeout() != 30*time.Second {
		t.Errorf("default timeout = %v", cfg.API.Timeout())
	}
	if cfg.UI.HoldDelay() != 150*time.Millisecond {
		t.Errorf("default hold delay = %v", cfg.UI.HoldDelay())
	}
}

func TestLoadFrom(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.UI.Theme != "slate" {
			t.Errorf("theme = %q, want default", cfg.UI.Theme)
		}
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[api]
base_url = "https://fleet.example.com"
token = "secret"

[storage]
mode = "remote"

[ui]
theme = "harbor"
cell_width = 60
`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing config: %v", err)
		}

		cfg, err := LoadFrom(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Storage.Mode != ModeRemote {
			t.Errorf("mode = %q", cfg.Storage.Mode)
		}
		if cfg.API.BaseURL != "https://fleet.example.com" || cfg.API.Token != "secret" {
			t.Errorf("api config not loaded: %+v", cfg.API)
		}
		if cfg.UI.CellWidth != 60 {
			t.Errorf("cell_width = %d, want 60", cfg.UI.CellWidth)
		}
		// Unset fields keep their defaults.
		if cfg.UI.CellHeight != 44 {
			t.Errorf("cell_height = %d, want default 44", cfg.UI.CellHeight)
		}
	})

	t.Run("env overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("[ui]\ntheme = \"harbor\"\n"), 0o644); err != nil {
			t.Fatalf("writing config: %v", err)
		}
		t.Setenv("FLEETBOARD_UI_THEME", "paper")
		t.Setenv("FLEETBOARD_API_TIMEOUT_SECONDS", "5")

		cfg, err := LoadFrom(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.UI.Theme != "paper" {
			t.Errorf("theme = %q, want env override", cfg.UI.Theme)
		}
		if cfg.API.TimeoutSeconds != 5 {
			t.Errorf("timeout = %d, want 5", cfg.API.TimeoutSeconds)
		}
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("[storage]\nmode = \"cloud\"\n"), 0o644); err != nil {
			t.Fatalf("writing config: %v", err)
		}
		if _, err := LoadFrom(path); err == nil {
			t.Fatal("expected an error for an unknown storage mode")
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"remote without base url", func(c *Config) { c.Storage.Mode = ModeRemote; c.API.BaseURL = "" }, "base_url"},
		{"local without db path", func(c *Config) { c.Storage.DBPath = "" }, "db_path"},
		{"zero cell width", func(c *Config) { c.UI.CellWidth = 0 }, "cell_width"},
		{"negative hold delay", func(c *Config) { c.UI.HoldDelayMS = -1 }, "hold_delay"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"zero timeout", func(c *Config) { c.API.TimeoutSeconds = 0 }, "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := Default()
	cfg.UI.Theme = "harbor"
	cfg.API.BaseURL = "https://fleet.example.com"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("saving: %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if loaded.UI.Theme != "harbor" || loaded.API.BaseURL != cfg.API.BaseURL {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
}
