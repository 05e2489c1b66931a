package ipc

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/antonkrylov/rcode/internal/editor"
	"github.com/antonkrylov/rcode/internal/failure"
)

// DefaultMaxIdle is how long a socket may go untouched before it is treated
// as belonging to an abandoned session.
const DefaultMaxIdle = 4 * time.Hour

// Selector picks the live, correctly owned socket among candidates.
type Selector struct {
	Checker OwnershipChecker
	MaxIdle time.Duration
	Now     func() time.Time
	Log     zerolog.Logger
}

func (s *Selector) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Fresh drops candidates idle longer than MaxIdle and orders the rest most
// recently accessed first.
func (s *Selector) Fresh(cands []Candidate) []Candidate {
	maxIdle := s.MaxIdle
	if maxIdle <= 0 {
		maxIdle = DefaultMaxIdle
	}
	now := s.now()
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if now.Sub(c.LastAccess) > maxIdle {
			s.Log.Debug().Str("socket", c.Path).Time("last_access", c.LastAccess).Msg("skipping idle socket")
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastAccess.After(out[j].LastAccess)
	})
	return out
}

// Select returns the first fresh candidate that is live and owned by f.
func (s *Selector) Select(cands []Candidate, f editor.Flavor) (string, error) {
	for _, c := range s.Fresh(cands) {
		st := s.Checker.Check(c.Path, f)
		s.Log.Debug().
			Str("socket", c.Path).
			Bool("live", st.Live).
			Int("pid", st.PID).
			Bool("owned", st.Owned).
			Msg("probed socket")
		if st.Live && st.Owned {
			return c.Path, nil
		}
	}
	return "", noSocket(f)
}

func noSocket(f editor.Flavor) error {
	return failure.New(failure.NotFound,
		"Could not find an open "+f.Product+" IPC socket.",
		"Please make sure to connect to this machine with a standard "+
			f.Product+" remote SSH session before using this tool.",
	)
}

// Report describes one candidate for diagnostics.
type Report struct {
	Candidate
	Idle   time.Duration
	Stale  bool
	Status Status
}

// Inspect checks every candidate without selecting, most recent first. Stale
// candidates are reported but not probed.
func (s *Selector) Inspect(cands []Candidate, f editor.Flavor) []Report {
	fresh := make(map[string]bool)
	for _, c := range s.Fresh(cands) {
		fresh[c.Path] = true
	}
	sorted := append([]Candidate(nil), cands...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastAccess.After(sorted[j].LastAccess)
	})
	now := s.now()
	out := make([]Report, 0, len(sorted))
	for _, c := range sorted {
		r := Report{Candidate: c, Idle: now.Sub(c.LastAccess), Stale: !fresh[c.Path]}
		if !r.Stale {
			r.Status = s.Checker.Check(c.Path, f)
		}
		out = append(out, r)
	}
	return out
}

// Resolver scans a runtime directory and selects a socket.
type Resolver struct {
	RuntimeDir string
	Pattern    string
	Selector   *Selector
}

// Candidates scans the runtime directory.
func (r *Resolver) Candidates() ([]Candidate, error) {
	pattern := r.Pattern
	if pattern == "" {
		pattern = editor.SocketPattern
	}
	dir := r.RuntimeDir
	if dir == "" {
		dir = DefaultRuntimeDir()
	}
	return Scan(dir, pattern)
}

// Resolve returns the socket of the live f session.
func (r *Resolver) Resolve(f editor.Flavor) (string, error) {
	cands, err := r.Candidates()
	if err != nil {
		return "", err
	}
	r.Selector.Log.Debug().Int("candidates", len(cands)).Str("flavor", f.Name).Msg("resolving ipc socket")
	return r.Selector.Select(cands, f)
}
