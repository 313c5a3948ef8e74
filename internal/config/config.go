package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

const appName = "lazytodo"

type Config struct {
	DBPath     string `json:"db_path" toml:"db_path"`
	WebEnabled bool   `json:"web_enabled" toml:"web_enabled"`
	WebPort    int    `json:"web_port" toml:"web_port"`
	LogPath    string `json:"log_path,omitempty" toml:"log_path,omitempty"`
	Timezone   string `json:"timezone,omitempty" toml:"timezone,omitempty"`
}

func Default() Config {
	return Config{WebPort: 8080}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/lazytodo/config.json.
func DefaultConfigPath() (string, error) {
	return filepath.Join(xdg.ConfigHome, appName, "config.json"), nil
}

// DefaultDBPath returns $XDG_DATA_HOME/lazytodo/todos.db.
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, appName, "todos.db")
}

// DefaultDebugLogPath returns $XDG_STATE_HOME/lazytodo/debug.log.
func DefaultDebugLogPath() string {
	return filepath.Join(xdg.StateHome, appName, "debug.log")
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// Location resolves Timezone, falling back to the local zone when unset.
func (c Config) Location() (*time.Location, error) {
	if strings.TrimSpace(c.Timezone) == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load reads the config at path. A missing file yields the defaults. Files
// ending in .toml are parsed as TOML, everything else as JSON.
func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return Config{}, err
	}

	if isTOML(path) {
		if _, err := toml.Decode(string(data), &config); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		return config, nil
	}

	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return config, nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		data = buf.Bytes()
	} else {
		encoded, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		data = append(encoded, '\n')
	}

	return os.WriteFile(path, data, 0o644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
