// Copyright (c) Elliot Nunn

// This library is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 2.1 of the License, or (at your option) any later version.

// This library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.

package cbv

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PasswordProvider supplies the password for an encrypted (.cbz)
// archive. It's called at most once per List, Extract, or DecryptFile
// call, and only when the archive actually needs one.
type PasswordProvider func() (string, error)

// OverwritePolicy decides whether an existing file on disk may be
// overwritten by an extracted one. Extract consults it once per output
// file, only when that file already exists.
type OverwritePolicy interface {
	Allow(path string) (bool, error)
}

type alwaysOverwrite struct{}

func (alwaysOverwrite) Allow(string) (bool, error) { return true, nil }

type neverOverwrite struct{}

func (neverOverwrite) Allow(string) (bool, error) { return false, nil }

type askOverwrite struct {
	ask func(path string) (bool, error)
}

func (a askOverwrite) Allow(path string) (bool, error) { return a.ask(path) }

var (
	// Always overwrites any existing file without asking.
	Always OverwritePolicy = alwaysOverwrite{}
	// Never overwrites an existing file; the file is skipped, not an error.
	Never OverwritePolicy = neverOverwrite{}
)

// Ask builds an OverwritePolicy that defers each decision to callback.
func Ask(callback func(path string) (bool, error)) OverwritePolicy {
	return askOverwrite{callback}
}

// FileError reports a non-fatal failure extracting one archive member.
// Extract collects these and carries on with the remaining files.
type FileError struct {
	Name string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("%s: %v", e.Name, e.Err) }
func (e *FileError) Unwrap() error { return e.Err }

// isEncrypted reports whether path names an encrypted (.cbz) archive, by
// extension, per spec.md §4.4.
func isEncrypted(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".cbz")
}

// loadPlaintext opens path, decrypting it with a password drawn from
// providePassword if its extension marks it encrypted.
func loadPlaintext(path string, providePassword PasswordProvider) ([]byte, error) {
	raw, closer, err := openArchive(path)
	if err != nil {
		return nil, err
	}
	defer closer()

	if !isEncrypted(path) {
		// Copy out of the mapping so the returned slice survives closer().
		plain := make([]byte, len(raw))
		copy(plain, raw)
		return plain, nil
	}

	if providePassword == nil {
		return nil, fmt.Errorf("cbv: %s is encrypted and no password was provided", path)
	}
	password, err := providePassword()
	if err != nil {
		return nil, err
	}
	return DecryptArchive(raw, []byte(password))
}

// List returns the files recorded in archivePath's file table, in
// archive order.
func List(archivePath string, providePassword PasswordProvider) ([]FileMetaData, error) {
	plain, err := loadPlaintext(archivePath, providePassword)
	if err != nil {
		return nil, err
	}
	return ListFiles(plain)
}

// ExtractOptions configures Extract beyond its required arguments.
type ExtractOptions struct {
	// Include, when non-empty, is a doublestar glob pattern; only
	// archive members whose name matches it are written to disk.
	Include string
}

// Extract decodes and writes every file recorded in archivePath's file
// table under outputDir. A failure decoding or writing one file is
// collected in the returned slice and does not stop the rest; a failure
// parsing the container itself, or a wrong password, aborts the whole
// call. The one exception is a file whose compressed region runs past
// the end of the archive: it is collected as a failure, and the files
// after it in the table are neither extracted nor reported.
func Extract(archivePath, outputDir string, providePassword PasswordProvider, overwrite OverwritePolicy, opts ExtractOptions) ([]FileError, error) {
	plain, err := loadPlaintext(archivePath, providePassword)
	if err != nil {
		return nil, err
	}

	hdr, rest, err := ParseHeader(plain)
	if err != nil {
		return nil, err
	}
	files, fileData, err := ParseFileTable(rest, hdr)
	if err != nil {
		return nil, err
	}

	var failures []FileError
	off := 0
	for _, meta := range files {
		if meta.CompressedSize < 0 || off+int(meta.CompressedSize) > len(fileData) {
			failures = append(failures, FileError{meta.Name, fmt.Errorf("cbv: file region runs past the end of the archive: %w", ErrUnexpectedEOF)})
			// The running offset is only meaningful while every preceding
			// compressed_size is trustworthy; once one overruns, the rest
			// of the table can't be located reliably either.
			break
		}
		region := fileData[off : off+int(meta.CompressedSize)]
		off += int(meta.CompressedSize)

		if opts.Include != "" {
			matched, err := doublestar.Match(opts.Include, meta.Name)
			if err != nil {
				return nil, fmt.Errorf("cbv: invalid --include pattern %q: %w", opts.Include, err)
			}
			if !matched {
				continue
			}
		}

		if err := extractOne(meta, region, outputDir, overwrite); err != nil {
			slog.Warn("skipping file that failed to extract", "name", meta.Name, "err", err)
			failures = append(failures, FileError{meta.Name, err})
		}
	}

	return failures, nil
}

func extractOne(meta FileMetaData, region []byte, outputDir string, overwrite OverwritePolicy) error {
	dest, err := safeJoin(outputDir, meta.Name)
	if err != nil {
		return err
	}

	decoded, err := decodeFileBody(region)
	if err != nil {
		return err
	}
	if int32(len(decoded)) != meta.DecompressedSize {
		return fmt.Errorf("cbv: decoded %d bytes, expected %d: %w", len(decoded), meta.DecompressedSize, ErrSizeMismatch)
	}

	if _, err := os.Stat(dest); err == nil {
		ok, err := overwrite.Allow(dest)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o777); err != nil {
		return err
	}
	return os.WriteFile(dest, decoded, 0o666)
}

// DecryptFile decrypts archivePath (a .cbz archive) under the password
// providePassword returns, and writes the resulting plaintext .cbv bytes
// to outputPath.
func DecryptFile(archivePath, outputPath string, providePassword PasswordProvider) error {
	if providePassword == nil {
		return fmt.Errorf("cbv: decrypt requires a password")
	}

	raw, closer, err := openArchive(archivePath)
	if err != nil {
		return err
	}
	defer closer()

	password, err := providePassword()
	if err != nil {
		return err
	}
	plain, err := DecryptArchive(raw, []byte(password))
	if err != nil {
		return err
	}

	return os.WriteFile(outputPath, plain, 0o666)
}
