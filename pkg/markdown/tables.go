// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package markdown

import "strings"

// maxOrderedDigits bounds ordered-list marker width, matching the common
// Markdown convention of rejecting markers wider than this as plain text.
const maxOrderedDigits = 9

// formatMap classifies inline format markers that are not emphasis
// delimiters: code spans, strikethrough, the link lead, task boxes, and
// the raw HTML lead. Consulted on every inline byte (spec.md §4.6 step 3).
var formatMap = buildFormatMap()

// emphasisTable backs StartMap, LeftMap, RightMap, and EndMap. All four are
// the same set of delimiter literals; what differs is the positional
// precondition/postcondition each wrapper applies (see emphasis.go).
var emphasisTable = buildEmphasisTable()

// blockMap is the literal block-marker table peek_block falls back on
// before applying the bespoke fenced-code / continuation / table logic.
var blockMap = buildBlockMap()

// listMap is the reduced marker map used to recursively resolve nested
// continuation indentation (spec.md §4.3).
var listMap = buildListMap()

func buildFormatMap() *MarkerMap {
	m := newMarkerMap()
	m.set("`", KindLiteral)
	m.set("``", KindCode)

	m.set("~", KindInvalid)
	m.set("~~", KindStrikethrough)

	m.set("[", KindInvalid)
	m.set("[ ", KindInvalid)
	m.set("[ ]", KindTaskList)
	m.set("[x", KindInvalid)
	m.set("[x]", KindTaskListDone)
	m.set("[X", KindInvalid)
	m.set("[X]", KindTaskListDone)
	m.set("[?", KindInvalid)
	m.set("[??", KindLink)

	m.set("<", KindHTML)

	return m
}

func buildEmphasisTable() *MarkerMap {
	m := newMarkerMap()
	m.set("*", KindItalic)
	m.set("**", KindBold)
	m.set("***", KindBoldItalic)
	m.set("_", KindItalic)
	m.set("__", KindBold)
	m.set("___", KindBoldItalic)
	return m
}

func buildBlockMap() *MarkerMap {
	m := newMarkerMap()

	for level := 1; level <= 6; level++ {
		key := strings.Repeat("#", level) + " "
		if level > 1 {
			m.set(strings.Repeat("#", level-1), KindInvalid)
		}
		m.set(key, headingKind(level))
	}

	// Blockquote markers are built from repeating "> " units. The
	// incomplete prefix while waiting to see whether a repetition's
	// trailing space arrives is level reps plus a bare '>' — distinct
	// from the (already complete) shorter concrete marker, so it never
	// collides with it.
	for level := 0; level <= 5; level++ {
		m.set(strings.Repeat("> ", level)+">", KindInvalid)
	}
	for level := 1; level <= 6; level++ {
		m.set(strings.Repeat("> ", level), KindBlockquote)
	}

	m.set("-", KindInvalid)
	m.set("- ", KindUnorderedList)
	m.set("*", KindInvalid)
	m.set("* ", KindUnorderedList)
	m.set("+", KindInvalid)
	m.set("+ ", KindUnorderedList)
	addOrderedListKeys(m)

	m.set("  ", KindContinueList)

	m.set("`", KindInvalid)
	m.set("``", KindInvalid)
	m.set("```", KindFencedCodeQuote)
	m.set("   `", KindInvalid)
	m.set("   ``", KindInvalid)
	m.set("   ```", KindFencedCodeQuote)

	m.set("~", KindInvalid)
	m.set("~~", KindInvalid)
	m.set("~~~", KindFencedCodeTild)
	m.set("   ~", KindInvalid)
	m.set("   ~~", KindInvalid)
	m.set("   ~~~", KindFencedCodeTild)

	m.set("|", KindTable)

	return m
}

func buildListMap() *MarkerMap {
	m := newMarkerMap()
	m.set("  ", KindContinueList)
	for _, lead := range []string{"", " "} {
		m.set(lead+"-", KindInvalid)
		m.set(lead+"-"+" ", KindUnorderedList)
		m.set(lead+"*", KindInvalid)
		m.set(lead+"*"+" ", KindUnorderedList)
		m.set(lead+"+", KindInvalid)
		m.set(lead+"+"+" ", KindUnorderedList)
	}
	addOrderedListKeys(m)
	return m
}

// addOrderedListKeys installs "1", "1.", "1. " (and 2..maxOrderedDigits
// digit-wide variants, since the digit wildcard normalizes every run
// position to the same '1' but cannot itself express variable width) so
// that ordered-list markers of up to maxOrderedDigits digits resolve.
func addOrderedListKeys(m *MarkerMap) {
	for n := 1; n <= maxOrderedDigits; n++ {
		digits := strings.Repeat("1", n)
		m.set(digits, KindInvalid)
		m.set(digits+".", KindInvalid)
		m.set(digits+". ", KindOrderedList)
	}
}
