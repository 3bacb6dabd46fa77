// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package markdown

import "strings"

// HTMLResult is the outcome of the raw-HTML sub-parser (spec.md §4.5),
// triggered by a FormatMap "<" match.
type HTMLResult struct {
	Suspend  bool
	Matched  bool // a well-formed open or close tag
	NotATag  bool // "<" was not a tag; Consumed bytes are literal text
	Consumed int
	IsClose  bool
	Tag      string
	Attrs    string // raw, unparsed
}

func matchHTMLTag(buf []byte, pos int, isFinal bool) HTMLResult {
	i := pos + 1
	isClose := false
	if i < len(buf) && buf[i] == '/' {
		isClose = true
		i++
	}
	if i >= len(buf) {
		if !isFinal {
			return HTMLResult{Suspend: true}
		}
		return HTMLResult{NotATag: true, Consumed: i - pos}
	}

	start := i
	for i < len(buf) && isASCIIAlpha(buf[i]) {
		i++
	}
	if i == start {
		return HTMLResult{NotATag: true, Consumed: i - pos}
	}
	tag := string(buf[start:i])

	if i >= len(buf) {
		if !isFinal {
			return HTMLResult{Suspend: true}
		}
		return HTMLResult{NotATag: true, Consumed: i - pos}
	}

	switch {
	case buf[i] == '>':
		return HTMLResult{Matched: true, Consumed: i + 1 - pos, IsClose: isClose, Tag: tag}
	case buf[i] == '\n':
		return HTMLResult{NotATag: true, Consumed: i - pos}
	case isSpaceOrTab(buf[i]):
		end := indexByteFrom(buf, i, '>')
		if end == -1 {
			if !isFinal {
				return HTMLResult{Suspend: true}
			}
			return HTMLResult{NotATag: true, Consumed: len(buf) - pos}
		}
		if nl := indexByteFrom(buf, i, '\n'); nl != -1 && nl < end {
			return HTMLResult{NotATag: true, Consumed: nl - pos}
		}
		attrs := strings.TrimSpace(string(buf[i:end]))
		return HTMLResult{Matched: true, Consumed: end + 1 - pos, IsClose: isClose, Tag: tag, Attrs: attrs}
	default:
		return HTMLResult{NotATag: true, Consumed: i - pos}
	}
}

func isASCIIAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
