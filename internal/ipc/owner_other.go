//go:build !linux

package ipc

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const lookupTimeout = 2 * time.Second

func ownerPID(path string) (int, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()
	// lsof -t returns PIDs, one per line
	out, err := exec.CommandContext(ctx, "lsof", "-t", "--", path).Output()
	if err != nil {
		return 0, false
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return 0, false
	}
	return pid, true
}

func cmdline(pid int) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, "ps", "-o", "command=", "-p", strconv.Itoa(pid)).Output()
	if err != nil {
		return "", false
	}
	cmd := strings.TrimSpace(string(out))
	return cmd, cmd != ""
}
