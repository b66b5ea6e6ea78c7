package cbv

import (
	"errors"
	"testing"
)

func buildBlock(payload []byte) []byte {
	b := make([]byte, blockHeaderSize)
	b[0] = byte(len(payload))
	b[1] = byte(len(payload) >> 8)
	return append(b, payload...)
}

func TestNextBlock(t *testing.T) {
	block := buildBlock([]byte{1, 2, 3})
	payload, rest, err := nextBlock(append(block, 0xAA))
	if err != nil {
		t.Fatalf("nextBlock: %v", err)
	}
	if string(payload) != "\x01\x02\x03" {
		t.Fatalf("got %v", payload)
	}
	if len(rest) != 1 || rest[0] != 0xAA {
		t.Fatalf("got rest %v", rest)
	}
}

func TestNextBlockTruncatedHeader(t *testing.T) {
	_, _, err := nextBlock([]byte{0x01})
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestNextBlockTruncatedPayload(t *testing.T) {
	_, _, err := nextBlock([]byte{0x05, 0x00, 0x00, 0x00, 'a'})
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestDecodeBlockPayloadNoFlags(t *testing.T) {
	payload := append([]byte{0x00}, "raw bytes"...)
	out, err := decodeBlockPayload(payload)
	if err != nil {
		t.Fatalf("decodeBlockPayload: %v", err)
	}
	if string(out) != "raw bytes" {
		t.Fatalf("got %q", out)
	}
}

func TestDecodeBlockPayloadLZSS(t *testing.T) {
	lzssBody := append([]byte{0x00, 0x00}, "literal data"...)
	payload := append([]byte{byte(flagLZSS)}, lzssBody...)
	out, err := decodeBlockPayload(payload)
	if err != nil {
		t.Fatalf("decodeBlockPayload: %v", err)
	}
	if string(out) != "literal data" {
		t.Fatalf("got %q", out)
	}
}

func TestDecodeFileBodyConcatenatesBlocks(t *testing.T) {
	block1 := buildBlock(append([]byte{0x00}, "hello "...))
	block2 := buildBlock(append([]byte{0x00}, "world"...))

	var compressed []byte
	compressed = append(compressed, block1...)
	compressed = append(compressed, block2...)

	out, err := decodeFileBody(compressed)
	if err != nil {
		t.Fatalf("decodeFileBody: %v", err)
	}
	if string(out) != "hello world" {
		t.Fatalf("got %q", out)
	}
}

func TestDecodeBlockPayloadEmpty(t *testing.T) {
	_, err := decodeBlockPayload(nil)
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
}
