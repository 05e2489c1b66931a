package fsstat

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTimeFollowsChtimes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	when := time.Unix(1700000000, 0)
	require.NoError(t, os.Chtimes(path, when, when))

	got, err := AccessTime(path)
	require.NoError(t, err)
	assert.True(t, got.Equal(when), "got %s want %s", got, when)
}

func TestAccessTimeMissing(t *testing.T) {
	_, err := AccessTime(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	if runtime.GOOS == "linux" || runtime.GOOS == "darwin" {
		assert.True(t, errors.Is(err, os.ErrNotExist))
	}
}
