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

import "errors"

var (
	// ErrMalformedContainer covers a bad magic number, a truncated header,
	// or a truncated file table.
	ErrMalformedContainer = errors.New("cbv: malformed container")

	// ErrMalformedHuffman covers a canonical code-length table that
	// collides two symbols on one leaf, or a bitstream that walks into a
	// missing trie child.
	ErrMalformedHuffman = errors.New("cbv: malformed huffman table")

	// ErrMalformedLZSS covers a back-reference whose offset exceeds the
	// output produced so far.
	ErrMalformedLZSS = errors.New("cbv: malformed lzss stream")

	// ErrUnexpectedEOF covers a block payload shorter than its declared
	// size, or a file region shorter than its compressed size.
	ErrUnexpectedEOF = errors.New("cbv: unexpected end of archive")

	// ErrSizeMismatch covers a file whose decoded length doesn't match
	// its recorded decompressed_size.
	ErrSizeMismatch = errors.New("cbv: decoded size does not match recorded size")

	// ErrUnsafePath covers a filename that is absolute or escapes the
	// output directory.
	ErrUnsafePath = errors.New("cbv: unsafe output path")

	// ErrWrongPassword means the first decrypted DES block's magic bytes
	// didn't match 0x08 0x00, the only integrity signal this format
	// offers.
	ErrWrongPassword = errors.New("cbv: wrong password")
)
