// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package markdown

import (
	"bytes"
	"regexp"
	"strings"
)

// Align is a table cell's column alignment, derived from ':' placement in
// the separator line.
type Align int

const (
	AlignNone Align = iota
	AlignLeft
	AlignRight
	AlignCenter
)

var tableSeparatorPattern = regexp.MustCompile(`^[-\s|:]*$`)

// peekTableOpen validates the three-line table window (spec.md §4.3,
// §9 open question #1 — resolved here as the stricter variant: line 1
// must both start AND end with '|', with no trailing text tolerated).
func peekTableOpen(buf []byte, pos int, isFinal bool) BlockResult {
	line1End, ok := lineEnd(buf, pos, isFinal)
	if !ok {
		return BlockResult{Suspend: true}
	}
	if line1End < 0 {
		return BlockResult{}
	}
	line2Start := line1End + 1
	line2End, ok := lineEnd(buf, line2Start, isFinal)
	if !ok {
		return BlockResult{Suspend: true}
	}
	if line2End < 0 {
		return BlockResult{}
	}
	line3Start := line2End + 1
	line3End, ok := lineEnd(buf, line3Start, isFinal)
	if !ok {
		return BlockResult{Suspend: true}
	}
	consumedEnd := line3Start
	if line3End < 0 {
		consumedEnd = len(buf)
	} else {
		consumedEnd = line3End + 1
	}

	line1 := buf[pos:line1End]
	line2End2 := line2End
	if line2End2 < 0 {
		line2End2 = len(buf)
	}
	line2 := buf[line2Start:line2End2]
	line3EndAbs := line3End
	if line3EndAbs < 0 {
		line3EndAbs = len(buf)
	}
	line3 := buf[line3Start:line3EndAbs]

	if !isPipeBounded(line1) || !isSeparatorLine(line2) || !isPipeBounded(line3) {
		return BlockResult{}
	}

	return BlockResult{
		Matched:  true,
		Kind:     KindTable,
		Consumed: consumedEnd - pos,
	}
}

// lineEnd returns the offset of the '\n' terminating the line starting at
// pos, -1 if the buffer ends first (valid only when isFinal), or ok=false
// meaning "suspend — more input needed".
func lineEnd(buf []byte, pos int, isFinal bool) (int, bool) {
	if pos > len(buf) {
		return -1, isFinal
	}
	nl := bytes.IndexByte(buf[pos:], '\n')
	if nl == -1 {
		if !isFinal {
			return 0, false
		}
		return -1, true
	}
	return pos + nl, true
}

func isPipeBounded(line []byte) bool {
	t := strings.TrimSpace(string(line))
	return strings.HasPrefix(t, "|") && strings.HasSuffix(t, "|") && len(t) >= 2
}

func isSeparatorLine(line []byte) bool {
	t := strings.TrimSpace(string(line))
	if t == "" {
		return false
	}
	return tableSeparatorPattern.MatchString(t) && strings.Contains(t, "-")
}

// splitTableRow splits a single raw table row line into trimmed cells,
// dropping the bounding pipes.
func splitTableRow(line []byte) []string {
	t := strings.TrimSpace(string(line))
	t = strings.TrimPrefix(t, "|")
	t = strings.TrimSuffix(t, "|")
	parts := strings.Split(t, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// tableAlignments parses the separator row into one Align per column.
func tableAlignments(line []byte) []Align {
	cells := splitTableRow(line)
	aligns := make([]Align, len(cells))
	for i, c := range cells {
		left := strings.HasPrefix(c, ":")
		right := strings.HasSuffix(c, ":")
		switch {
		case left && right:
			aligns[i] = AlignCenter
		case left:
			aligns[i] = AlignLeft
		case right:
			aligns[i] = AlignRight
		default:
			aligns[i] = AlignNone
		}
	}
	return aligns
}

// isTableRowLine reports whether the line looks like another row of an
// already-open table (starts with '|' once trimmed of leading spaces).
func isTableRowLine(line []byte) bool {
	t := bytes.TrimLeft(line, " \t")
	return len(t) > 0 && t[0] == '|'
}
