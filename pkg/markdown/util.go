// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package markdown

import "unicode/utf8"

// decodeRune reads the rune at pos, returning utf8.RuneError if pos is out
// of range. It never splits a multi-byte rune across a returned length.
func decodeRune(buf []byte, pos int) rune {
	if pos >= len(buf) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRune(buf[pos:])
	return r
}

func isSpaceOrTab(b byte) bool {
	return b == ' ' || b == '\t'
}

// runeLenAt returns the byte length of the rune starting at pos. ok is
// false when the buffer ends mid-rune and isFinal is false (more bytes
// could still complete it); callers must suspend rather than split it.
func runeLenAt(buf []byte, pos int, isFinal bool) (size int, ok bool) {
	if pos >= len(buf) {
		return 0, isFinal
	}
	if utf8.FullRune(buf[pos:]) || isFinal {
		_, size = utf8.DecodeRune(buf[pos:])
		return size, true
	}
	return 0, false
}
