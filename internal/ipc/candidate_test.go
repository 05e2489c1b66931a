package ipc

import (
	"net"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonkrylov/rcode/internal/editor"
)

func TestScanMissingDir(t *testing.T) {
	cands, err := Scan(filepath.Join(t.TempDir(), "nope"), editor.SocketPattern)
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestScanMatchesPattern(t *testing.T) {
	dir := t.TempDir()
	when := time.Unix(1700000000, 0)
	for _, name := range []string{"vscode-ipc-1.sock", "vscode-ipc-2.sock", "vscode-git-1.sock", "other"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, nil, 0o600))
		require.NoError(t, os.Chtimes(p, when, when))
	}

	cands, err := Scan(dir, editor.SocketPattern)
	require.NoError(t, err)
	var names []string
	for _, c := range cands {
		names = append(names, filepath.Base(c.Path))
		assert.True(t, c.LastAccess.Equal(when))
	}
	sort.Strings(names)
	assert.Equal(t, []string{"vscode-ipc-1.sock", "vscode-ipc-2.sock"}, names)
}

func TestScanBadPattern(t *testing.T) {
	_, err := Scan(t.TempDir(), "[")
	assert.Error(t, err)
}

// shortSocketDir keeps socket paths under the sun_path limit.
func shortSocketDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "rc")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return dir
}

func TestSystemProbe(t *testing.T) {
	dir := shortSocketDir(t)
	path := filepath.Join(dir, "vscode-ipc-t.sock")

	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	ln.(*net.UnixListener).SetUnlinkOnClose(false)

	sys := System{ProbeTimeout: time.Second}
	assert.True(t, sys.Probe(path))

	require.NoError(t, ln.Close())
	assert.False(t, sys.Probe(path), "stale socket file must not probe as live")
	assert.False(t, sys.Probe(filepath.Join(dir, "missing.sock")))
}

func TestResolverEndToEndWithFake(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "vscode-ipc-a.sock")
	require.NoError(t, os.WriteFile(p, nil, 0o600))
	require.NoError(t, os.Chtimes(p, now.Add(-time.Minute), now.Add(-time.Minute)))

	sys := &fakeSys{
		live:    map[string]bool{p: true},
		owners:  map[string]int{p: 99},
		cmdline: map[int]string{99: vscodeServerCmd},
	}
	r := &Resolver{RuntimeDir: dir, Selector: &Selector{
		Checker: OwnershipChecker{Sys: sys},
		Now:     func() time.Time { return now },
		Log:     zerolog.Nop(),
	}}
	got, err := r.Resolve(editor.VSCode)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}
