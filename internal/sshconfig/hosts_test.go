package sshconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
Host devbox
  HostName 10.0.0.5
  User alice

Host gpu gpu-backup
  HostName gpu.internal

Host *.corp
  User corpuser
`

func TestKnownAndUser(t *testing.T) {
	hosts, err := Parse(sample)
	require.NoError(t, err)

	assert.True(t, hosts.Known("devbox"))
	assert.True(t, hosts.Known("gpu"))
	assert.True(t, hosts.Known("gpu-backup"))
	assert.False(t, hosts.Known("*.corp"))
	assert.False(t, hosts.Known("build.corp"))
	assert.False(t, hosts.Known("*"))

	assert.Equal(t, "alice", hosts.User("devbox"))
	assert.Equal(t, DefaultUser, hosts.User("gpu"))
	assert.Equal(t, "corpuser", hosts.User("build.corp"))
	assert.Equal(t, []string{"devbox", "gpu", "gpu-backup"}, hosts.Aliases())
}

func TestLoadMissingFile(t *testing.T) {
	hosts, err := Load(filepath.Join(t.TempDir(), "config"))
	require.NoError(t, err)
	assert.False(t, hosts.Known("devbox"))
	assert.Equal(t, DefaultUser, hosts.User("devbox"))
	assert.Empty(t, hosts.Aliases())
}

func TestLoadFile(t *testing.T) {
	path := DefaultPath(t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	hosts, err := Load(path)
	require.NoError(t, err)
	assert.True(t, hosts.Known("devbox"))
}
