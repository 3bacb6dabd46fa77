// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package markdown

import "unicode"

// startEat implements StartMap: a valid opener at the start of a line.
// It delegates directly to the shared emphasis table.
func startEat(buf []byte, pos int, isFinal bool) (int, Kind, int) {
	return emphasisTable.eat(buf, pos, isFinal)
}

// leftEat implements LeftMap: a valid opener after whitespace. pos must
// point at the whitespace byte; the delimiter itself is matched at pos+1
// and the whitespace byte is folded into the returned byte length so the
// caller advances past both.
func leftEat(buf []byte, pos int, isFinal bool) (int, Kind, int) {
	if pos >= len(buf) {
		if !isFinal {
			return -1, KindNone, 0
		}
		return 0, KindNone, 0
	}
	if !isASCIISpace(buf[pos]) {
		return 0, KindNone, 0
	}
	n, k, bl := emphasisTable.eat(buf, pos+1, isFinal)
	if n <= 0 {
		return n, k, 0
	}
	return n, k, bl + 1
}

// rightEat implements RightMap: a valid closer. The caller must already
// have verified the delimiter stack is non-empty and at_line_start is
// false; rightEat only applies the trailing lookahead rule (spec.md §4.2):
// the byte immediately after the delimiter must not be a letter.
func rightEat(buf []byte, pos int, isFinal bool) (int, Kind, int) {
	n, k, bl := emphasisTable.eat(buf, pos, isFinal)
	if n <= 0 {
		return n, k, bl
	}
	followPos := pos + bl
	if followPos >= len(buf) {
		if !isFinal {
			return -1, KindNone, 0
		}
		return n, k, bl
	}
	r := decodeRune(buf, followPos)
	if unicode.IsLetter(r) {
		return 0, KindNone, 0
	}
	return n, k, bl
}

// endEat implements EndMap: a closer at end of line (followed by '\n' or
// end of input).
func endEat(buf []byte, pos int, isFinal bool) (int, Kind, int) {
	n, k, bl := emphasisTable.eat(buf, pos, isFinal)
	if n <= 0 {
		return n, k, bl
	}
	followPos := pos + bl
	if followPos >= len(buf) {
		if !isFinal {
			return -1, KindNone, 0
		}
		return n, k, bl
	}
	if buf[followPos] == '\n' {
		return n, k, bl
	}
	return 0, KindNone, 0
}

func isASCIISpace(b byte) bool {
	return b == ' ' || b == '\t'
}
