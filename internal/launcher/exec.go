package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Command is one editor process to run.
type Command struct {
	Path string
	Args []string
	// Env replaces the child environment when non-nil.
	Env []string
}

// Runner runs a command to completion and reports its exit code.
type Runner interface {
	Run(ctx context.Context, cmd Command) (int, error)
}

// ExecRunner runs commands with the caller's stdio attached.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (r ExecRunner) Run(ctx context.Context, c Command) (int, error) {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Env = c.Env
	cmd.Stdin = orReader(r.Stdin, os.Stdin)
	cmd.Stdout = orWriter(r.Stdout, os.Stdout)
	cmd.Stderr = orWriter(r.Stderr, os.Stderr)

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// killed by a signal
			code = 1
		}
		return code, nil
	}
	if err != nil {
		return 1, fmt.Errorf("run %s: %w", c.Path, err)
	}
	return 0, nil
}

func orReader(r io.Reader, def io.Reader) io.Reader {
	if r != nil {
		return r
	}
	return def
}

func orWriter(w io.Writer, def io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return def
}
