package launcher

import (
	"github.com/antonkrylov/rcode/internal/editor"
)

// SSHClientEnv is set by sshd for inbound connections.
const SSHClientEnv = "SSH_CLIENT"

// Mode selects which side of the connection this invocation runs on.
type Mode int

const (
	// Local opens a remote folder from the user's desktop.
	Local Mode = iota
	// Remote hands a directory on this host back to the desktop editor.
	Remote
)

func (m Mode) String() string {
	if m == Remote {
		return "remote"
	}
	return "local"
}

// Target is the mode and flavor an invocation runs with, computed once.
type Target struct {
	Mode   Mode
	Flavor editor.Flavor
}

// Detect picks remote mode when a server install exists under home and the
// process runs inside an inbound SSH session. The preferred flavor wins when
// it is installed; otherwise the first installed flavor is used.
func Detect(home string, lookupEnv func(string) (string, bool), preferred editor.Flavor) Target {
	v, ok := lookupEnv(SSHClientEnv)
	if !ok || v == "" {
		return Target{Mode: Local, Flavor: preferred}
	}
	if editor.Installed(home, preferred) {
		return Target{Mode: Remote, Flavor: preferred}
	}
	for _, f := range editor.All() {
		if f.Name == preferred.Name {
			continue
		}
		if editor.Installed(home, f) {
			return Target{Mode: Remote, Flavor: f}
		}
	}
	return Target{Mode: Local, Flavor: preferred}
}
