// Package sshconfig answers the two questions rcode asks of ~/.ssh/config:
// is this alias configured, and which user does it log in as.
package sshconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kevinburke/ssh_config"
)

// DefaultUser is assumed when no User applies to a host.
const DefaultUser = "root"

// Hosts is a parsed ssh client config.
type Hosts struct {
	cfg     *ssh_config.Config
	aliases map[string]bool
}

// DefaultPath returns ~/.ssh/config.
func DefaultPath(home string) string {
	return filepath.Join(home, ".ssh", "config")
}

// Load parses the config at path. A missing file yields an empty set.
func Load(path string) (*Hosts, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Hosts{aliases: map[string]bool{}}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, err := ssh_config.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("parse ssh config %s: %w", path, err)
	}
	return fromConfig(cfg), nil
}

// Parse decodes config text.
func Parse(text string) (*Hosts, error) {
	cfg, err := ssh_config.Decode(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parse ssh config: %w", err)
	}
	return fromConfig(cfg), nil
}

func fromConfig(cfg *ssh_config.Config) *Hosts {
	h := &Hosts{cfg: cfg, aliases: map[string]bool{}}
	for _, host := range cfg.Hosts {
		for _, p := range host.Patterns {
			s := p.String()
			if s == "" || strings.ContainsAny(s, "*?!") {
				continue
			}
			h.aliases[s] = true
		}
	}
	return h
}

// Known reports whether alias appears literally on a Host line.
func (h *Hosts) Known(alias string) bool {
	return h != nil && h.aliases[alias]
}

// Aliases returns the literal host aliases, sorted.
func (h *Hosts) Aliases() []string {
	if h == nil {
		return nil
	}
	out := make([]string, 0, len(h.aliases))
	for a := range h.aliases {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// User returns the login user for alias, DefaultUser when unset.
func (h *Hosts) User(alias string) string {
	if h == nil || h.cfg == nil {
		return DefaultUser
	}
	user, err := h.cfg.Get(alias, "User")
	if err != nil || strings.TrimSpace(user) == "" {
		return DefaultUser
	}
	return strings.TrimSpace(user)
}
