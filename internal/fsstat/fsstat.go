// Package fsstat reads file access times. rcode ranks sockets and server
// installations by when they were last touched.
package fsstat

import (
	"os"
	"time"
)

// AccessTime returns the last-access time of path, following symlinks.
func AccessTime(path string) (time.Time, error) {
	return accessTime(path)
}

func modTime(path string) (time.Time, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return fi.ModTime(), nil
}
