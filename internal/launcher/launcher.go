// Package launcher runs one rcode invocation: resolve what to open, record
// it, and hand off to the editor.
package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/antonkrylov/rcode/internal/editor"
	"github.com/antonkrylov/rcode/internal/failure"
	"github.com/antonkrylov/rcode/internal/sessionlog"
	"github.com/antonkrylov/rcode/internal/sshconfig"
)

// BinaryLocator finds the server CLI on the remote side.
type BinaryLocator interface {
	Locate(f editor.Flavor) (string, error)
}

// SocketResolver finds the IPC socket of the live editor session.
type SocketResolver interface {
	Resolve(f editor.Flavor) (string, error)
}

// HostLookup answers ssh-config questions about a host alias.
type HostLookup interface {
	Known(alias string) bool
	User(alias string) string
}

// Request is what the user asked for.
type Request struct {
	// Dir is the directory to open. In local mode it is a path on the
	// remote host, possibly written against the local home directory.
	Dir string
	// Host is the ssh alias (local mode only).
	Host         string
	Latest       bool
	ShortcutName string
	OpenShortcut string
}

// Launcher carries the collaborators of one invocation.
type Launcher struct {
	Target   Target
	Home     string
	Locator  BinaryLocator
	Sockets  SocketResolver
	Sessions *sessionlog.Store
	Hosts    HostLookup
	Runner   Runner
	Stdout   io.Writer
	Log      zerolog.Logger
	Environ  []string
	LookPath func(string) (string, error)
	HostHome func(alias string) string
	LocalBin string
}

// Launch runs the flow selected by the target mode and returns the exit code
// of the editor process.
func (l *Launcher) Launch(ctx context.Context, req Request) (int, error) {
	l.Log.Debug().
		Str("mode", l.Target.Mode.String()).
		Str("flavor", l.Target.Flavor.Name).
		Msg("launch")
	if l.Target.Mode == Remote {
		return l.runRemote(ctx, req.Dir)
	}
	return l.runLocal(ctx, req)
}

func (l *Launcher) runRemote(ctx context.Context, dir string) (int, error) {
	if strings.TrimSpace(dir) == "" {
		return 1, failure.New(failure.Usage, "missing directory",
			"usage: "+l.progName()+" <dir>")
	}
	f := l.Target.Flavor
	bin, err := l.Locator.Locate(f)
	if err != nil {
		return 1, err
	}
	sock, err := l.Sockets.Resolve(f)
	if err != nil {
		return 1, err
	}
	l.Log.Info().Str("cli", bin).Str("socket", sock).Msg("handing directory to editor")
	return l.Runner.Run(ctx, Command{
		Path: bin,
		Args: []string{dir},
		Env:  withEnv(l.environ(), editor.IPCHookEnv, sock),
	})
}

func (l *Launcher) runLocal(ctx context.Context, req Request) (int, error) {
	if req.Latest {
		rec, ok, err := l.Sessions.MostRecent()
		if err != nil {
			return 1, err
		}
		if !ok {
			fmt.Fprintf(l.stdout(), "No %s session recorded yet; open one with `%s <host> <dir>` first.\n",
				l.progName(), l.progName())
			return 0, nil
		}
		bin, err := l.localBinary()
		if err != nil {
			return 1, err
		}
		return l.openURI(ctx, bin, rec.URI)
	}

	if name := strings.TrimSpace(req.OpenShortcut); name != "" {
		_, seen, err := l.Sessions.MostRecent()
		if err != nil {
			return 1, err
		}
		// With an empty log the request falls through to a plain open.
		if seen {
			return l.openShortcut(ctx, name)
		}
	}

	return l.openHost(ctx, req)
}

func (l *Launcher) openShortcut(ctx context.Context, name string) (int, error) {
	rec, ok, err := l.Sessions.FindByName(name)
	if err != nil {
		return 1, err
	}
	if !ok {
		return 1, failure.New(failure.NotFound,
			fmt.Sprintf("no such shortcut %q", name),
			"Shortcuts are recorded in "+l.Sessions.Path()+"; add one with --shortcut-name.")
	}
	bin, err := l.localBinary()
	if err != nil {
		return 1, err
	}
	code, err := l.openURI(ctx, bin, rec.URI)
	if err != nil {
		return code, err
	}
	// Opening a shortcut counts as using it.
	if err := l.Sessions.Append(sessionlog.LatestName, rec.URI); err != nil {
		l.Log.Warn().Err(err).Msg("could not refresh latest session")
	}
	return code, nil
}

func (l *Launcher) openHost(ctx context.Context, req Request) (int, error) {
	host := strings.TrimSpace(req.Host)
	if host == "" {
		return 1, failure.New(failure.Usage, "missing host",
			"usage: "+l.progName()+" <host> <dir>")
	}
	if !l.Hosts.Known(host) {
		return 1, failure.New(failure.Configuration,
			fmt.Sprintf("host %q is not configured", host),
			"Please add a Host entry for it to your ~/.ssh/config to use this.")
	}
	if strings.TrimSpace(req.Dir) == "" {
		return 1, failure.New(failure.Usage, "missing directory",
			"usage: "+l.progName()+" <host> <dir>")
	}

	remoteHome := l.remoteHome(host)
	uri := BuildURI(l.Target.Flavor.URIScheme, host, RemotePath(req.Dir, l.Home, remoteHome))

	bin, err := l.localBinary()
	if err != nil {
		return 1, err
	}
	name := strings.TrimSpace(req.ShortcutName)
	if name == "" {
		name = sessionlog.LatestName
	}
	if err := l.Sessions.Append(name, uri); err != nil {
		return 1, fmt.Errorf("record session: %w", err)
	}
	l.Log.Info().Str("name", name).Str("uri", uri).Msg("recorded session")
	return l.openURI(ctx, bin, uri)
}

func (l *Launcher) openURI(ctx context.Context, bin, uri string) (int, error) {
	return l.Runner.Run(ctx, Command{Path: bin, Args: []string{"--folder-uri", uri}})
}

func (l *Launcher) localBinary() (string, error) {
	name := l.LocalBin
	if name == "" {
		name = l.Target.Flavor.LocalBinary
	}
	lookPath := l.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(name)
	if err != nil {
		return "", failure.New(failure.Configuration,
			fmt.Sprintf("%q not found in $PATH", name),
			"Install the "+l.Target.Flavor.Product+" shell command or set editors."+
				l.Target.Flavor.Name+".binary in the rcode config.")
	}
	return path, nil
}

func (l *Launcher) remoteHome(host string) string {
	if l.HostHome != nil {
		if h := l.HostHome(host); h != "" {
			return h
		}
	}
	user := sshconfig.DefaultUser
	if l.Hosts != nil {
		user = l.Hosts.User(host)
	}
	return HomeFor(user)
}

func (l *Launcher) environ() []string {
	if l.Environ != nil {
		return l.Environ
	}
	return os.Environ()
}

func (l *Launcher) stdout() io.Writer {
	if l.Stdout != nil {
		return l.Stdout
	}
	return os.Stdout
}

func (l *Launcher) progName() string {
	if l.Target.Flavor.Name == editor.Cursor.Name {
		return "rcursor"
	}
	return "rcode"
}

// HomeFor returns the home directory of a remote user.
func HomeFor(user string) string {
	if user == "root" {
		return "/root"
	}
	return "/home/" + user
}

// RemotePath rewrites a leading local home directory to remoteHome. A leading
// ~ is expanded against the local home first. Other paths pass through.
func RemotePath(dir, localHome, remoteHome string) string {
	dir = filepath.ToSlash(dir)
	localHome = strings.TrimRight(filepath.ToSlash(localHome), "/")
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		if localHome == "" {
			return remoteHome + dir[1:]
		}
		dir = localHome + dir[1:]
	}
	if localHome == "" {
		return dir
	}
	if dir == localHome || strings.HasPrefix(dir, localHome+"/") {
		return remoteHome + dir[len(localHome):]
	}
	return dir
}

// BuildURI returns the remote-folder URI for host and path. Neither is
// escaped.
func BuildURI(scheme, host, path string) string {
	return scheme + "://ssh-remote+" + host + path
}

func withEnv(env []string, key, value string) []string {
	out := make([]string, 0, len(env)+1)
	prefix := key + "="
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			continue
		}
		out = append(out, kv)
	}
	return append(out, prefix+value)
}
