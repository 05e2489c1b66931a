package sessionlog

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// LatestName is the record name written for every plain open.
const LatestName = "latest"

// DefaultFileName is the log file under the home directory.
const DefaultFileName = ".rcode"

// Record maps a session name to a remote folder URI.
type Record struct {
	Name string
	URI  string
}

// Store is an append-only log of name,uri lines. It is never rewritten in
// place; every append is a single write of one full line.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns ~/.rcode.
func DefaultPath(home string) string {
	return filepath.Join(home, DefaultFileName)
}

func (s *Store) Path() string {
	return s.path
}

func lineSep() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// Append writes name,uri, creating the file if needed. Duplicates are kept.
func (s *Store) Append(name, uri string) error {
	name = strings.TrimSpace(name)
	uri = strings.TrimSpace(uri)
	if name == "" {
		return fmt.Errorf("session name is required")
	}
	if uri == "" {
		return fmt.Errorf("session uri is required")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(name + "," + uri + lineSep()); err != nil {
		_ = f.Close()
		return fmt.Errorf("append session: %w", err)
	}
	return f.Close()
}

// Records returns every well-formed record in file order. A missing file
// yields nil.
func (s *Store) Records() ([]Record, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		rec, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		out = append(out, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read session log: %w", err)
	}
	return out, nil
}

// MostRecent returns the last record regardless of name.
func (s *Store) MostRecent() (Record, bool, error) {
	recs, err := s.Records()
	if err != nil || len(recs) == 0 {
		return Record{}, false, err
	}
	return recs[len(recs)-1], true, nil
}

// FindByName returns the first record, in file order, whose name matches.
func (s *Store) FindByName(name string) (Record, bool, error) {
	recs, err := s.Records()
	if err != nil {
		return Record{}, false, err
	}
	want := strings.TrimSpace(name)
	for _, r := range recs {
		if r.Name == want {
			return r, true, nil
		}
	}
	return Record{}, false, nil
}

// parseLine splits at the first comma. Blank lines and lines without a
// comma are not records.
func parseLine(line string) (Record, bool) {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return Record{}, false
	}
	name, uri, ok := strings.Cut(line, ",")
	if !ok {
		return Record{}, false
	}
	return Record{Name: strings.TrimSpace(name), URI: strings.TrimSpace(uri)}, true
}
