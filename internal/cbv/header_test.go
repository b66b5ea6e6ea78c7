package cbv

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func buildHeader(fileCount uint16, filenameLen uint8) []byte {
	b := make([]byte, headerSize)
	b[0], b[1] = 0x08, 0x00
	binary.LittleEndian.PutUint16(b[2:4], fileCount)
	b[4] = filenameLen
	return b
}

func buildFileRecord(name string, compressedSize, decompressedSize int32) []byte {
	rec := make([]byte, minFilenameLen)
	copy(rec, name)
	binary.LittleEndian.PutUint32(rec[nameFieldLen:nameFieldLen+4], uint32(compressedSize))
	binary.LittleEndian.PutUint32(rec[nameFieldLen+4:nameFieldLen+8], uint32(decompressedSize))
	return rec
}

func TestParseHeader(t *testing.T) {
	hdr, rest, err := ParseHeader(buildHeader(3, 140))
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if hdr.FileCount != 3 || hdr.FilenameLen != 140 {
		t.Fatalf("got %+v", hdr)
	}
	if len(rest) != 0 {
		t.Fatalf("expected no trailing bytes, got %d", len(rest))
	}
}

func TestParseHeaderBadMagic(t *testing.T) {
	b := buildHeader(1, 140)
	b[0] = 0xFF
	_, _, err := ParseHeader(b)
	if !errors.Is(err, ErrMalformedContainer) {
		t.Fatalf("expected ErrMalformedContainer, got %v", err)
	}
}

func TestParseHeaderTooShort(t *testing.T) {
	_, _, err := ParseHeader([]byte{0x08, 0x00, 0x01})
	if !errors.Is(err, ErrMalformedContainer) {
		t.Fatalf("expected ErrMalformedContainer, got %v", err)
	}
}

func TestParseFileTable(t *testing.T) {
	hdr := Header{FileCount: 2, FilenameLen: minFilenameLen}
	var table bytes.Buffer
	table.Write(buildFileRecord(`dir\file.txt`, 10, 20))
	table.Write(buildFileRecord("second.bin", 5, 5))
	table.Write([]byte("trailing block bytes"))

	files, rest, err := ParseFileTable(table.Bytes(), hdr)
	if err != nil {
		t.Fatalf("ParseFileTable: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if files[0].Name != "dir/file.txt" {
		t.Fatalf("expected backslash normalized to slash, got %q", files[0].Name)
	}
	if files[0].CompressedSize != 10 || files[0].DecompressedSize != 20 {
		t.Fatalf("got %+v", files[0])
	}
	if string(rest) != "trailing block bytes" {
		t.Fatalf("unexpected remainder: %q", rest)
	}
}

func TestParseFileTableNarrowFilenameLen(t *testing.T) {
	_, _, err := ParseFileTable(nil, Header{FileCount: 1, FilenameLen: 10})
	if !errors.Is(err, ErrMalformedContainer) {
		t.Fatalf("expected ErrMalformedContainer, got %v", err)
	}
}

func TestParseFileTableTruncated(t *testing.T) {
	hdr := Header{FileCount: 2, FilenameLen: minFilenameLen}
	_, _, err := ParseFileTable(buildFileRecord("only-one.txt", 1, 1), hdr)
	if !errors.Is(err, ErrMalformedContainer) {
		t.Fatalf("expected ErrMalformedContainer, got %v", err)
	}
}

func TestListFiles(t *testing.T) {
	var archive bytes.Buffer
	archive.Write(buildHeader(1, minFilenameLen))
	archive.Write(buildFileRecord("readme.txt", 4, 8))

	files, err := ListFiles(archive.Bytes())
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 1 || files[0].Name != "readme.txt" {
		t.Fatalf("got %+v", files)
	}
}
