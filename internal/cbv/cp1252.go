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
	"bytes"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// decodeFilename extracts a filename from a fixed-width, null-terminated,
// CP-1252 record field, normalizing backslashes to forward slashes.
func decodeFilename(field []byte) string {
	end := bytes.IndexByte(field, 0)
	if end < 0 {
		end = len(field)
	}

	text, err := charmap.Windows1252.NewDecoder().Bytes(field[:end])
	if err != nil {
		// Windows-1252 has no undefined code points that the decoder
		// rejects outright, so this path isn't reachable in practice;
		// fall back to the raw bytes rather than losing the filename.
		text = field[:end]
	}

	return strings.ReplaceAll(string(text), "\\", "/")
}
