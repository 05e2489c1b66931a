package ipc

import (
	"net"
	"strings"
	"time"

	"github.com/antonkrylov/rcode/internal/editor"
)

// DefaultProbeTimeout bounds the liveness connect.
const DefaultProbeTimeout = 1 * time.Second

// Capabilities is the OS surface the ownership check needs.
type Capabilities interface {
	// Probe reports whether something is listening on the unix socket.
	Probe(path string) bool
	// OwnerPID returns the process holding the listening end of the socket.
	OwnerPID(path string) (int, bool)
	// Cmdline returns the command line of pid.
	Cmdline(pid int) (string, bool)
}

// System implements Capabilities against the running OS.
type System struct {
	ProbeTimeout time.Duration
}

func (s System) Probe(path string) bool {
	timeout := s.ProbeTimeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	conn, err := net.DialTimeout("unix", path, timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

func (s System) OwnerPID(path string) (int, bool) {
	return ownerPID(path)
}

func (s System) Cmdline(pid int) (string, bool) {
	return cmdline(pid)
}

// OwnershipChecker accepts a socket when it is live and held by a process of
// the expected flavor.
type OwnershipChecker struct {
	Sys Capabilities
}

// Status is the outcome of checking one socket.
type Status struct {
	Live    bool
	PID     int
	Cmdline string
	Owned   bool
}

// Check runs the probe and owner lookup, stopping at the first failure.
func (c OwnershipChecker) Check(path string, f editor.Flavor) Status {
	var st Status
	if !c.Sys.Probe(path) {
		return st
	}
	st.Live = true
	pid, ok := c.Sys.OwnerPID(path)
	if !ok {
		return st
	}
	st.PID = pid
	cmd, ok := c.Sys.Cmdline(pid)
	if !ok {
		return st
	}
	st.Cmdline = cmd
	st.Owned = f.OwnerMarker != "" && strings.Contains(cmd, f.OwnerMarker)
	return st
}

// Accepts reports whether path is live and owned by a server of flavor f.
func (c OwnershipChecker) Accepts(path string, f editor.Flavor) bool {
	st := c.Check(path, f)
	return st.Live && st.Owned
}
