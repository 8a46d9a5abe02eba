//go:build linux || darwin || freebsd

package indicators

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// freeBytes returns the unallocated bytes of the filesystem holding path.
func freeBytes(path string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, fmt.Errorf("indicators: statfs %s: %w", path, err)
	}
	return uint64(st.Bfree) * uint64(st.Bsize), nil
}
