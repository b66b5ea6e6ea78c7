//go:build unix

package cbv

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmapOrRead memory-maps f read-only, letting the kernel page archive
// bytes in on demand rather than copying the whole file up front. The
// mapping stays valid after f is closed by the caller.
func mmapOrRead(f *os.File, size int64) ([]byte, func() error, error) {
	if size == 0 {
		return nil, func() error { return nil }, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}

	return data, func() error { return unix.Munmap(data) }, nil
}
