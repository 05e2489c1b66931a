// Package editor describes the supported remote editor servers and finds the
// CLI of the most recently used server installation.
package editor

// Flavor is one remote-server product. VS Code and Cursor share the IPC
// socket naming convention but not their install layout or process names.
type Flavor struct {
	Name    string
	Product string
	// ServerDir is the per-user install root, relative to the home directory.
	ServerDir string
	// VersionGlobs match one directory per installed server build, relative
	// to ServerDir.
	VersionGlobs []string
	// CLIPaths are tried in order inside a version directory. The last entry
	// is returned even when missing.
	CLIPaths []string
	// OwnerMarker must appear in the command line of the process listening on
	// the IPC socket.
	OwnerMarker string
	// LocalBinary is the desktop launcher used in local mode.
	LocalBinary string
	URIScheme   string
}

var (
	VSCode = Flavor{
		Name:         "vscode",
		Product:      "VS Code",
		ServerDir:    ".vscode-server",
		VersionGlobs: []string{"bin/*", "cli/servers/*/server"},
		CLIPaths:     []string{"bin/code", "bin/remote-cli/code"},
		OwnerMarker:  ".vscode-server",
		LocalBinary:  "code",
		URIScheme:    "vscode-remote",
	}
	Cursor = Flavor{
		Name:         "cursor",
		Product:      "Cursor",
		ServerDir:    ".cursor-server",
		VersionGlobs: []string{"cli/servers/*/server", "bin/*"},
		CLIPaths:     []string{"bin/remote-cli/cursor", "bin/cursor"},
		OwnerMarker:  ".cursor-server",
		LocalBinary:  "cursor",
		URIScheme:    "vscode-remote",
	}
)

const (
	// IPCHookEnv carries the resolved socket to the server CLI.
	IPCHookEnv = "VSCODE_IPC_HOOK_CLI"
	// SocketPattern matches the IPC sockets of both flavors.
	SocketPattern = "vscode-ipc-*.sock"
)

// All returns the supported flavors in detection order.
func All() []Flavor {
	return []Flavor{VSCode, Cursor}
}

// ByName looks up a flavor by its Name.
func ByName(name string) (Flavor, bool) {
	for _, f := range All() {
		if f.Name == name {
			return f, true
		}
	}
	return Flavor{}, false
}

func (f Flavor) String() string {
	return f.Name
}
