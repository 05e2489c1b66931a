//go:build linux

package ipc

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// soAcceptCon is __SO_ACCEPTCON in /proc/net/unix flags: the socket listens.
const soAcceptCon = 0x10000

var procRoot = "/proc"

func ownerPID(path string) (int, bool) {
	inode, ok := listeningInode(path)
	if !ok {
		return 0, false
	}
	return pidForInode(inode)
}

// listeningInode finds the inode of the listening unix socket bound to path.
func listeningInode(path string) (uint64, bool) {
	want := map[string]bool{filepath.Clean(path): true}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		want[resolved] = true
	}

	f, err := os.Open(filepath.Join(procRoot, "net", "unix"))
	if err != nil {
		return 0, false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	// Skip header line
	scanner.Scan()
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 8 {
			continue
		}
		sockPath := strings.Join(fields[7:], " ")
		if !want[sockPath] {
			continue
		}
		flags, err := strconv.ParseUint(fields[3], 16, 32)
		if err != nil || flags&soAcceptCon == 0 {
			continue
		}
		inode, err := strconv.ParseUint(fields[6], 10, 64)
		if err != nil {
			continue
		}
		return inode, true
	}
	return 0, false
}

// pidForInode scans /proc/*/fd for a descriptor pointing at the socket inode.
func pidForInode(inode uint64) (int, bool) {
	target := fmt.Sprintf("socket:[%d]", inode)

	entries, err := os.ReadDir(procRoot)
	if err != nil {
		return 0, false
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		fdDir := filepath.Join(procRoot, entry.Name(), "fd")
		fds, err := os.ReadDir(fdDir)
		if err != nil {
			// exited, or owned by another user
			continue
		}
		for _, fd := range fds {
			link, err := os.Readlink(filepath.Join(fdDir, fd.Name()))
			if err != nil {
				continue
			}
			if link == target {
				return pid, true
			}
		}
	}
	return 0, false
}

func cmdline(pid int) (string, bool) {
	b, err := os.ReadFile(filepath.Join(procRoot, strconv.Itoa(pid), "cmdline"))
	if err != nil || len(b) == 0 {
		return "", false
	}
	return strings.TrimSpace(strings.ReplaceAll(string(b), "\x00", " ")), true
}
