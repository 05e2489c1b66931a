package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config models the optional rcode config file. Every field may be left
// unset; zero values fall through to environment and built-in defaults.
type Config struct {
	MaxIdleSeconds int                `yaml:"maxIdleSeconds"`
	RuntimeDir     string             `yaml:"runtimeDir"`
	SocketPattern  string             `yaml:"socketPattern"`
	SessionLog     string             `yaml:"sessionLog"`
	SSHConfig      string             `yaml:"sshConfig"`
	ProbeTimeoutMs int                `yaml:"probeTimeoutMs"`
	LogLevel       string             `yaml:"logLevel"`
	Editors        map[string]*Editor `yaml:"editors"`
	Hosts          map[string]*Host   `yaml:"hosts"`
}

// Editor overrides per-flavor launcher settings.
type Editor struct {
	Binary string `yaml:"binary"`
}

// Host overrides per-alias remote settings.
type Host struct {
	Home string `yaml:"home"`
}

// Load decodes the config file. Missing files return (nil, nil).
func Load(path string) (*Config, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, nil
	}
	expanded, err := ExpandPath(trimmed)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(expanded)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Save writes the config to disk, creating parent directories if needed.
func (c *Config) Save(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("config is nil")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return err
	}
	return os.WriteFile(expanded, data, 0o600)
}

// EditorBinary returns the configured launcher for a flavor, if any.
func (c *Config) EditorBinary(flavor string) string {
	if c == nil {
		return ""
	}
	if e := c.Editors[flavor]; e != nil {
		return strings.TrimSpace(e.Binary)
	}
	return ""
}

// HostHome returns the configured remote home for alias, if any.
func (c *Config) HostHome(alias string) string {
	if c == nil {
		return ""
	}
	if h := c.Hosts[alias]; h != nil {
		return strings.TrimSpace(h.Home)
	}
	return ""
}

// ExpandPath resolves ~ and relative paths.
func ExpandPath(path string) (string, error) {
	switch {
	case strings.HasPrefix(path, "~/"):
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	case path == "~":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return home, nil
	case filepath.IsAbs(path):
		return path, nil
	default:
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return filepath.Join(cwd, path), nil
	}
}
