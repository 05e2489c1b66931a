package launcher

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shell(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func TestExecRunnerPropagatesExitCode(t *testing.T) {
	sh := shell(t)
	code, err := ExecRunner{}.Run(context.Background(), Command{Path: sh, Args: []string{"-c", "exit 3"}})
	require.NoError(t, err)
	assert.Equal(t, 3, code)
}

func TestExecRunnerPassesEnvAndStdio(t *testing.T) {
	sh := shell(t)
	var out bytes.Buffer
	r := ExecRunner{Stdin: strings.NewReader(""), Stdout: &out, Stderr: &out}
	code, err := r.Run(context.Background(), Command{
		Path: sh,
		Args: []string{"-c", `printf %s "$VSCODE_IPC_HOOK_CLI"`},
		Env:  withEnv([]string{"VSCODE_IPC_HOOK_CLI=/old.sock"}, "VSCODE_IPC_HOOK_CLI", "/new.sock"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "/new.sock", out.String())
}

func TestExecRunnerMissingBinary(t *testing.T) {
	code, err := ExecRunner{}.Run(context.Background(), Command{Path: "/nonexistent/rcode-editor"})
	require.Error(t, err)
	assert.Equal(t, 1, code)
}
