//go:build !linux && !darwin

package fsstat

import "time"

// No portable atime here; modification time is the closest signal.
func accessTime(path string) (time.Time, error) {
	return modTime(path)
}
