package cbv

import "os"

// openArchive maps path's full contents into memory (where the platform
// supports it) and returns a closer to release them. loadPlaintext
// copies a plaintext archive out of the mapping (and decryption writes
// a new buffer) before any parsing; the parser stages then borrow
// slices of that buffer and never copy it wholesale.
func openArchive(path string) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}

	return mmapOrRead(f, info.Size())
}
