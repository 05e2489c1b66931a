package config

import (
	"fmt"
	"os"
	"time"

	"github.com/antonkrylov/rcode/internal/editor"
	"github.com/antonkrylov/rcode/internal/ipc"
	"github.com/antonkrylov/rcode/internal/sessionlog"
	"github.com/antonkrylov/rcode/internal/sshconfig"
)

// Overrides are values given on the command line.
type Overrides struct {
	ConfigPath string
	MaxIdle    time.Duration
	LogLevel   string
}

// Settings is the effective configuration of one invocation.
type Settings struct {
	ConfigPath    string
	Config        *Config
	Home          string
	MaxIdle       time.Duration
	RuntimeDir    string
	SocketPattern string
	SessionLog    string
	SSHConfig     string
	ProbeTimeout  time.Duration
	LogLevel      string
}

// Resolve applies, in order of precedence:
// 1) flags (o)
// 2) config file values
// 3) environment (RCODE_LOG_LEVEL, XDG_RUNTIME_DIR)
// 4) defaults (4h idle, /run/user/<uid>, ~/.rcode, ~/.ssh/config, 1s probe)
func Resolve(home string, o Overrides) (*Settings, error) {
	if home == "" {
		return nil, fmt.Errorf("home directory is required")
	}
	s := &Settings{
		ConfigPath: o.ConfigPath,
		Home:       home,
		MaxIdle:    o.MaxIdle,
		LogLevel:   o.LogLevel,
	}

	if s.ConfigPath != "" {
		cfg, err := Load(s.ConfigPath)
		if err != nil {
			return nil, err
		}
		s.Config = cfg
	}

	if cfg := s.Config; cfg != nil {
		if s.MaxIdle == 0 && cfg.MaxIdleSeconds > 0 {
			s.MaxIdle = time.Duration(cfg.MaxIdleSeconds) * time.Second
		}
		if cfg.ProbeTimeoutMs > 0 {
			s.ProbeTimeout = time.Duration(cfg.ProbeTimeoutMs) * time.Millisecond
		}
		if s.LogLevel == "" {
			s.LogLevel = cfg.LogLevel
		}
		s.RuntimeDir = cfg.RuntimeDir
		s.SocketPattern = cfg.SocketPattern
		var err error
		if s.SessionLog, err = expandOptional(cfg.SessionLog); err != nil {
			return nil, err
		}
		if s.SSHConfig, err = expandOptional(cfg.SSHConfig); err != nil {
			return nil, err
		}
	}

	if s.LogLevel == "" {
		s.LogLevel = os.Getenv("RCODE_LOG_LEVEL")
	}

	if s.MaxIdle <= 0 {
		s.MaxIdle = ipc.DefaultMaxIdle
	}
	if s.ProbeTimeout <= 0 {
		s.ProbeTimeout = ipc.DefaultProbeTimeout
	}
	if s.RuntimeDir == "" {
		s.RuntimeDir = ipc.DefaultRuntimeDir()
	}
	if s.SocketPattern == "" {
		s.SocketPattern = editor.SocketPattern
	}
	if s.SessionLog == "" {
		s.SessionLog = sessionlog.DefaultPath(home)
	}
	if s.SSHConfig == "" {
		s.SSHConfig = sshconfig.DefaultPath(home)
	}
	return s, nil
}

func expandOptional(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	return ExpandPath(path)
}
