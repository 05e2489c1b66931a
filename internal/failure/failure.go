// Package failure defines the user-facing error kinds rcode reports before
// exiting with status 1.
package failure

import "strings"

// Kind classifies a surfaced error.
type Kind int

const (
	// Configuration covers unknown hosts and missing ssh config entries.
	Configuration Kind = iota + 1
	// NotFound covers missing server installations, sockets and shortcuts.
	NotFound
	// Usage covers missing required arguments.
	Usage
)

func (k Kind) String() string {
	switch k {
	case Configuration:
		return "configuration error"
	case NotFound:
		return "not found"
	case Usage:
		return "usage error"
	default:
		return "error"
	}
}

// Error is a terminal error with a message and optional hint lines.
type Error struct {
	Kind  Kind
	Msg   string
	Hints []string
}

var (
	ErrConfiguration error = &Error{Kind: Configuration}
	ErrNotFound      error = &Error{Kind: NotFound}
	ErrUsage         error = &Error{Kind: Usage}
)

// New returns an Error of the given kind.
func New(kind Kind, msg string, hints ...string) *Error {
	return &Error{Kind: kind, Msg: msg, Hints: hints}
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Msg
}

// Is matches the kind sentinels, so errors.Is(err, ErrNotFound) holds for
// every NotFound error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Kind == e.Kind
}

// Lines renders the message followed by a blank line and the hints.
func (e *Error) Lines() []string {
	lines := []string{e.Error()}
	if len(e.Hints) > 0 {
		lines = append(lines, "")
		lines = append(lines, e.Hints...)
	}
	return lines
}

// String is Lines joined with newlines.
func (e *Error) String() string {
	return strings.Join(e.Lines(), "\n")
}
