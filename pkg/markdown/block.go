// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package markdown

import (
	"bytes"
	"strings"
)

// BlockResult is peek_block's verdict (spec.md §4.3), represented as a
// struct rather than a four-tuple for Go ergonomics; the fields carry the
// same information spec.md assigns to (result, kind, byte_len, fence_lang).
type BlockResult struct {
	Suspend   bool   // true: undecidable with the bytes available
	Matched   bool   // false (and !Suspend): no block marker here
	Kind      Kind
	Consumed   int    // bytes to advance past for this block open
	MarkerLen  int    // bytes belonging to the marker itself (fence_open for fenced code)
	Lang       string // fenced-code info string, trimmed
	Indent     int    // list/blockquote nesting level implied by this marker
	NestedKind Kind   // for CONTINUE_LIST: the marker kind found after the indent, if any
}

// peekBlock classifies the block marker, if any, starting at pos. lastLineBlock
// is the Kind most recently closed, used to gate CONTINUE_LIST.
func peekBlock(buf []byte, pos int, isFinal bool, lastLineBlock Kind) BlockResult {
	n, k, bl := blockMap.eat(buf, pos, isFinal)
	if n == -1 {
		return BlockResult{Suspend: true}
	}
	if n == 0 {
		if hr, ok := peekHorizontalRule(buf, pos, isFinal); ok {
			return hr
		}
		return BlockResult{}
	}

	switch k {
	case KindFencedCodeQuote, KindFencedCodeTild:
		return peekFenceOpen(buf, pos, bl, k, isFinal)
	case KindContinueList:
		if lastLineBlock != KindUnorderedList && lastLineBlock != KindOrderedList {
			return BlockResult{}
		}
		rest := peekList(buf, pos+bl, isFinal)
		if rest.Suspend {
			return BlockResult{Suspend: true}
		}
		indent := 1
		nested := KindNone
		if rest.Matched {
			indent += rest.Indent
			nested = rest.Kind
		}
		return BlockResult{
			Matched:    true,
			Kind:       KindContinueList,
			Consumed:   bl + rest.Consumed,
			MarkerLen:  bl + rest.Consumed,
			Indent:     indent,
			NestedKind: nested,
		}
	case KindTable:
		return peekTableOpen(buf, pos, isFinal)
	case KindHeading1, KindHeading2, KindHeading3, KindHeading4, KindHeading5, KindHeading6:
		return BlockResult{Matched: true, Kind: k, Consumed: bl, MarkerLen: bl, Indent: k.HeadingLevel()}
	case KindBlockquote:
		return BlockResult{Matched: true, Kind: k, Consumed: bl, MarkerLen: bl, Indent: strings.Count(string(buf[pos:pos+bl]), "> ")}
	case KindUnorderedList, KindOrderedList:
		return BlockResult{Matched: true, Kind: k, Consumed: bl, MarkerLen: bl, Indent: 1}
	default:
		return BlockResult{Matched: true, Kind: k, Consumed: bl, MarkerLen: bl}
	}
}

// peekList resolves a single nested continuation/list token for the
// recursive chaining ListMap.peek performs on deeper indentation
// (spec.md §4.3).
func peekList(buf []byte, pos int, isFinal bool) BlockResult {
	n, k, bl := listMap.eat(buf, pos, isFinal)
	if n == -1 {
		return BlockResult{Suspend: true}
	}
	if n == 0 {
		return BlockResult{}
	}
	if k == KindContinueList {
		rest := peekList(buf, pos+bl, isFinal)
		if rest.Suspend {
			return BlockResult{Suspend: true}
		}
		indent := 1
		if rest.Matched {
			indent += rest.Indent
		}
		return BlockResult{Matched: true, Kind: KindContinueList, Consumed: bl + rest.Consumed, Indent: indent}
	}
	return BlockResult{Matched: true, Kind: k, Consumed: bl, Indent: 1}
}

// peekFenceOpen reads the info string following a fenced-code marker and,
// on success, returns a Consumed length that swallows the marker, the
// info string, and the line's trailing newline in one block-open
// transaction (so the opening line never surfaces as code content).
func peekFenceOpen(buf []byte, pos, markerLen int, kind Kind, isFinal bool) BlockResult {
	lineStart := pos + markerLen
	nl := bytes.IndexByte(buf[lineStart:], '\n')
	if nl == -1 {
		if !isFinal {
			return BlockResult{Suspend: true}
		}
		info := strings.TrimSpace(string(buf[lineStart:]))
		return BlockResult{
			Matched:   true,
			Kind:      kind,
			Consumed:  len(buf) - pos,
			MarkerLen: markerLen,
			Lang:      info,
		}
	}
	info := strings.TrimSpace(string(buf[lineStart : lineStart+nl]))
	return BlockResult{
		Matched:   true,
		Kind:      kind,
		Consumed:  markerLen + nl + 1,
		MarkerLen: markerLen,
		Lang:      info,
	}
}

// peekFencedClose checks whether the line starting at pos (which must be
// at line start, inside a fenced code block) closes the block: it must
// equal fenceOpen byte-for-byte, optionally followed by trailing
// whitespace up to the newline (spec.md §4.6, §9 — the stricter variant,
// matching fence_open's indentation exactly rather than CommonMark's
// independent up-to-3-space rule; see DESIGN.md).
func peekFencedClose(buf []byte, pos int, isFinal bool, fenceOpen []byte) (suspend, matched bool, consumed int) {
	end := pos + len(fenceOpen)
	if end > len(buf) {
		if !isFinal {
			return true, false, 0
		}
		return false, false, 0
	}
	if !bytes.Equal(buf[pos:end], fenceOpen) {
		return false, false, 0
	}
	nl := bytes.IndexByte(buf[end:], '\n')
	if nl == -1 {
		if !isFinal {
			return true, false, 0
		}
		trailing := buf[end:]
		if strings.TrimSpace(string(trailing)) != "" {
			return false, false, 0
		}
		return false, true, len(buf) - pos
	}
	trailing := buf[end : end+nl]
	if strings.TrimSpace(string(trailing)) != "" {
		return false, false, 0
	}
	return false, true, len(fenceOpen) + nl + 1
}

// peekHorizontalRule recognizes a line whose only non-space content is a
// run of three or more identical '-', '*', or '_' characters. It is not
// table-driven because it requires the whole line, unlike the prefix
// markers in blockMap.
func peekHorizontalRule(buf []byte, pos int, isFinal bool) (BlockResult, bool) {
	c := buf[pos]
	if c != '-' && c != '*' && c != '_' {
		return BlockResult{}, false
	}
	// Scan incrementally rather than waiting for the whole line: any byte
	// that disqualifies the line (not c, not a space/tab, not '\n') rejects
	// immediately without needing more input.
	count := 0
	i := pos
	for i < len(buf) {
		switch buf[i] {
		case '\n':
			if count < 3 {
				return BlockResult{}, false
			}
			return BlockResult{Matched: true, Kind: KindHorizontalRule, Consumed: i + 1 - pos, MarkerLen: i + 1 - pos}, true
		case ' ', '\t':
		case c:
			count++
		default:
			return BlockResult{}, false
		}
		i++
	}
	if !isFinal {
		return BlockResult{Suspend: true}, true
	}
	if count < 3 {
		return BlockResult{}, false
	}
	return BlockResult{Matched: true, Kind: KindHorizontalRule, Consumed: i - pos, MarkerLen: i - pos}, true
}
