// Package ipc finds the editor-server IPC socket that belongs to the user's
// live editor session.
package ipc

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/antonkrylov/rcode/internal/fsstat"
)

// Candidate is a socket file that matched the naming pattern.
type Candidate struct {
	Path       string
	LastAccess time.Time
}

// DefaultRuntimeDir returns $XDG_RUNTIME_DIR, or /run/user/<uid>.
func DefaultRuntimeDir() string {
	if v := os.Getenv("XDG_RUNTIME_DIR"); v != "" {
		return v
	}
	return fmt.Sprintf("/run/user/%d", os.Getuid())
}

// Scan lists files in dir matching pattern with their access times. A
// missing dir yields an empty result. Order is unspecified.
func Scan(dir, pattern string) ([]Candidate, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("socket pattern %q: %w", pattern, err)
	}
	out := make([]Candidate, 0, len(matches))
	for _, m := range matches {
		atime, err := fsstat.AccessTime(m)
		if err != nil {
			// removed between glob and stat
			continue
		}
		out = append(out, Candidate{Path: m, LastAccess: atime})
	}
	return out, nil
}
