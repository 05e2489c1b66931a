package editor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonkrylov/rcode/internal/failure"
)

func mkInstall(t *testing.T, dir string, atime time.Time, files ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"), 0o755))
	}
	require.NoError(t, os.Chtimes(dir, atime, atime))
}

func TestLocatePicksMostRecentlyUsed(t *testing.T) {
	home := t.TempDir()
	base := time.Now().Add(-time.Hour)
	old := filepath.Join(home, ".vscode-server", "bin", "aaaa")
	recent := filepath.Join(home, ".vscode-server", "bin", "bbbb")
	mkInstall(t, old, base, "bin/code")
	mkInstall(t, recent, base.Add(10*time.Minute), "bin/code")

	got, err := NewLocator(home, zerolog.Nop()).Locate(VSCode)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(recent, "bin", "code"), got)
}

func TestLocateFallsBackToAlternateLayout(t *testing.T) {
	home := t.TempDir()
	dir := filepath.Join(home, ".vscode-server", "bin", "cccc")
	mkInstall(t, dir, time.Now())

	got, err := NewLocator(home, zerolog.Nop()).Locate(VSCode)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bin", "remote-cli", "code"), got)
}

func TestLocateCLIServersLayout(t *testing.T) {
	home := t.TempDir()
	dir := filepath.Join(home, ".cursor-server", "cli", "servers", "Stable-1234", "server")
	mkInstall(t, dir, time.Now(), "bin/remote-cli/cursor")

	got, err := NewLocator(home, zerolog.Nop()).Locate(Cursor)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bin", "remote-cli", "cursor"), got)
}

func TestLocateNoInstallation(t *testing.T) {
	home := t.TempDir()
	_, err := NewLocator(home, zerolog.Nop()).Locate(VSCode)
	require.Error(t, err)
	assert.True(t, errors.Is(err, failure.ErrNotFound))
	assert.Contains(t, err.Error(), "No installation of VS Code Server detected")
}

func TestInstalledIgnoresFiles(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".vscode-server", "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".vscode-server", "bin", "stray"), nil, 0o644))
	assert.False(t, Installed(home, VSCode))
	assert.False(t, Installed(home, Cursor))

	mkInstall(t, filepath.Join(home, ".vscode-server", "bin", "dddd"), time.Now())
	assert.True(t, Installed(home, VSCode))
}

func TestByName(t *testing.T) {
	f, ok := ByName("cursor")
	require.True(t, ok)
	assert.Equal(t, "cursor", f.LocalBinary)
	_, ok = ByName("emacs")
	assert.False(t, ok)
}
