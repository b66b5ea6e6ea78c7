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
	"encoding/binary"
	"fmt"
)

// headerSize is the fixed width of the archive header: 2 magic bytes,
// a uint16 file count, a uint8 filename_len, and 3 unexplored bytes.
const headerSize = 8

// minFilenameLen is the smallest filename_len the format allows: a
// 132-byte name field plus two int32 size fields.
const minFilenameLen = 140

// nameFieldLen is the width, in bytes, of the filename portion of a
// file metadata record; the remainder of a filename_len-wide record is
// the two int32 size fields.
const nameFieldLen = 132

// Header is the fixed 8-byte archive header.
type Header struct {
	FileCount   uint16
	FilenameLen uint8
	// Unexplored region: three trailing bytes of undocumented meaning.
	_ [3]byte
}

// ParseHeader reads the fixed 8-byte archive header from the front of b,
// returning the header and the bytes that follow it.
func ParseHeader(b []byte) (Header, []byte, error) {
	if len(b) < headerSize {
		return Header{}, nil, fmt.Errorf("cbv: archive shorter than header (%d bytes): %w", len(b), ErrMalformedContainer)
	}
	if b[0] != 0x08 || b[1] != 0x00 {
		return Header{}, nil, fmt.Errorf("cbv: bad magic %#02x %#02x: %w", b[0], b[1], ErrMalformedContainer)
	}

	hdr := Header{
		FileCount:   binary.LittleEndian.Uint16(b[2:4]),
		FilenameLen: b[4],
	}
	return hdr, b[headerSize:], nil
}

// FileMetaData describes one file recorded in the archive's file table.
type FileMetaData struct {
	// Name is the decoded, slash-normalized filename.
	Name string
	// CompressedSize is the total byte length of the file's block
	// sequence in the archive.
	CompressedSize int32
	// DecompressedSize is the sum of all of the file's decoded block
	// payloads.
	DecompressedSize int32
}

// ParseFileTable reads header.FileCount fixed-width records (each
// header.FilenameLen bytes) from the front of b, returning the decoded
// metadata and the bytes that follow the table.
func ParseFileTable(b []byte, header Header) ([]FileMetaData, []byte, error) {
	if header.FilenameLen < minFilenameLen {
		return nil, nil, fmt.Errorf("cbv: filename_len %d is narrower than the minimum %d: %w", header.FilenameLen, minFilenameLen, ErrMalformedContainer)
	}

	recordLen := int(header.FilenameLen)
	tableLen := int(header.FileCount) * recordLen
	if len(b) < tableLen {
		return nil, nil, fmt.Errorf("cbv: file table truncated (need %d bytes, have %d): %w", tableLen, len(b), ErrMalformedContainer)
	}

	files := make([]FileMetaData, header.FileCount)
	for i := range files {
		rec := b[i*recordLen : (i+1)*recordLen]

		nameField := rec[:nameFieldLen]
		compressedSize := int32(binary.LittleEndian.Uint32(rec[nameFieldLen : nameFieldLen+4]))
		decompressedSize := int32(binary.LittleEndian.Uint32(rec[nameFieldLen+4 : nameFieldLen+8]))

		files[i] = FileMetaData{
			Name:             decodeFilename(nameField),
			CompressedSize:   compressedSize,
			DecompressedSize: decompressedSize,
		}
	}

	return files, b[tableLen:], nil
}

// ListFiles parses the header and file table from the front of
// archiveBytes and returns the decoded metadata, ignoring any bytes that
// follow (the compressed file bodies).
func ListFiles(archiveBytes []byte) ([]FileMetaData, error) {
	hdr, rest, err := ParseHeader(archiveBytes)
	if err != nil {
		return nil, err
	}
	files, _, err := ParseFileTable(rest, hdr)
	if err != nil {
		return nil, err
	}
	return files, nil
}
