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

// blockFlag is the 2-bit compression flag at the start of a block's
// payload.
type blockFlag uint8

const (
	flagLZSS    blockFlag = 1 << 0
	flagHuffman blockFlag = 1 << 1
)

// blockHeaderSize is the width of the 4-byte header in front of each
// block's payload: a uint16 block_size and 2 unexplored bytes.
const blockHeaderSize = 4

// nextBlock splits the next block (header + payload) off the front of
// b, returning its decoded payload bytes and whatever follows it.
func nextBlock(b []byte) (payload, rest []byte, err error) {
	if len(b) < blockHeaderSize {
		return nil, nil, fmt.Errorf("cbv: truncated block header: %w", ErrUnexpectedEOF)
	}
	size := int(binary.LittleEndian.Uint16(b[:2]))
	b = b[blockHeaderSize:]
	if len(b) < size {
		return nil, nil, fmt.Errorf("cbv: block payload truncated (need %d bytes, have %d): %w", size, len(b), ErrUnexpectedEOF)
	}
	return b[:size], b[size:], nil
}

// decodeBlockPayload runs a block's payload through the stages its flag
// byte selects: Huffman decoding first (if flagged), then LZSS
// decompression of the result (if flagged) — the decompressor always
// operates on the Huffman stage's exact output, per spec.md §4.3.
func decodeBlockPayload(payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("cbv: empty block payload: %w", ErrUnexpectedEOF)
	}

	flag := blockFlag(payload[0])
	body := payload[1:]

	if flag&flagHuffman != 0 {
		decoded, err := decodeHuffmanBody(body)
		if err != nil {
			return nil, err
		}
		body = decoded
	}

	if flag&flagLZSS != 0 {
		decoded, err := decodeLZSS(body)
		if err != nil {
			return nil, err
		}
		body = decoded
	}

	return body, nil
}

// decodeFileBody decodes every block in a file's compressed region
// (compressedBytes, as delimited by compressed_size) and returns the
// concatenated, reconstructed file contents.
func decodeFileBody(compressedBytes []byte) ([]byte, error) {
	var out []byte
	for len(compressedBytes) > 0 {
		payload, rest, err := nextBlock(compressedBytes)
		if err != nil {
			return nil, err
		}
		decoded, err := decodeBlockPayload(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, decoded...)
		compressedBytes = rest
	}
	return out, nil
}
