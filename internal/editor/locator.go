package editor

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/antonkrylov/rcode/internal/failure"
	"github.com/antonkrylov/rcode/internal/fsstat"
)

// Installation is one installed server build. Directories are named by an
// opaque commit id.
type Installation struct {
	Dir        string
	LastAccess time.Time
}

// Installations lists the server builds of f under home, most recently
// accessed first. A missing install root yields nil.
func Installations(home string, f Flavor) []Installation {
	root := filepath.Join(home, f.ServerDir)
	seen := make(map[string]bool)
	var out []Installation
	for _, pattern := range f.VersionGlobs {
		matches, err := filepath.Glob(filepath.Join(root, pattern))
		if err != nil {
			continue
		}
		for _, dir := range matches {
			if seen[dir] {
				continue
			}
			fi, err := os.Stat(dir)
			if err != nil || !fi.IsDir() {
				continue
			}
			atime, err := fsstat.AccessTime(dir)
			if err != nil {
				continue
			}
			seen[dir] = true
			out = append(out, Installation{Dir: dir, LastAccess: atime})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastAccess.After(out[j].LastAccess)
	})
	return out
}

// Installed reports whether at least one build of f exists under home.
func Installed(home string, f Flavor) bool {
	return len(Installations(home, f)) > 0
}

// CLIPath returns the server CLI inside an installation.
func (f Flavor) CLIPath(inst Installation) string {
	for _, rel := range f.CLIPaths {
		p := filepath.Join(inst.Dir, filepath.FromSlash(rel))
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if len(f.CLIPaths) == 0 {
		return ""
	}
	return filepath.Join(inst.Dir, filepath.FromSlash(f.CLIPaths[len(f.CLIPaths)-1]))
}

// Locator finds the CLI of the most recently used server build.
type Locator struct {
	Home string
	Log  zerolog.Logger
}

func NewLocator(home string, log zerolog.Logger) *Locator {
	return &Locator{Home: home, Log: log}
}

// Locate returns the CLI of the most recently accessed installation of f.
func (l *Locator) Locate(f Flavor) (string, error) {
	insts := Installations(l.Home, f)
	if len(insts) == 0 {
		return "", failure.New(failure.NotFound,
			"No installation of "+f.Product+" Server detected!",
			"Please connect to this machine through a remote SSH session and try again.",
			"Afterwards there should exist a folder under ~/"+f.ServerDir,
		)
	}
	path := f.CLIPath(insts[0])
	l.Log.Debug().
		Str("flavor", f.Name).
		Str("installation", insts[0].Dir).
		Int("candidates", len(insts)).
		Str("cli", path).
		Msg("located server cli")
	return path, nil
}
