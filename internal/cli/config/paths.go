package config

import (
	"os"
	"path/filepath"
)

func DefaultConfigDir() string {
	if v := os.Getenv("RCODE_HOME"); v != "" {
		return v
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "rcode")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "rcode")
}

func DefaultConfigPath() string {
	if v := os.Getenv("RCODE_CONFIG"); v != "" {
		return v
	}
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}
