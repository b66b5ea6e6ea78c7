//go:build !unix

package cbv

import (
	"io"
	"os"
)

// mmapOrRead reads f's contents into memory outright; platforms outside
// the unix build tag get no mmap fast path.
func mmapOrRead(f *os.File, size int64) ([]byte, func() error, error) {
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return nil }, nil
}
