// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package markdown implements a streaming, chunk-fed Markdown parser.
//
// Callers feed arbitrary byte chunks to Parser.Add as they arrive — for
// example token-by-token output from a language model — and the parser
// emits rendering callbacks incrementally, never requiring the full
// document to be buffered in memory. See Parser for the entry point and
// Renderer for the callback surface the parser drives.
package markdown

// Kind is the closed set of marker and format classifications used
// throughout the marker maps and the parser. INVALID is a sentinel meaning
// "this is a known prefix of a longer marker; keep growing" — it is never
// returned to a caller as a committed match.
type Kind int

const (
	KindNone Kind = iota
	KindInvalid

	// Inline formats
	KindText
	KindItalic
	KindBold
	KindBoldItalic
	KindCode
	KindLiteral // single-backtick code span
	KindStrikethrough
	KindLink
	KindHTML
	KindTaskList
	KindTaskListDone

	// Block formats
	KindHeading1
	KindHeading2
	KindHeading3
	KindHeading4
	KindHeading5
	KindHeading6
	KindHorizontalRule
	KindParagraph
	KindUnorderedList
	KindOrderedList
	KindContinueList
	KindFencedCodeQuote
	KindFencedCodeTild
	KindBlockquote
	KindTable
)

// String renders a Kind for diagnostics and test failure messages.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "NONE"
	case KindInvalid:
		return "INVALID"
	case KindText:
		return "TEXT"
	case KindItalic:
		return "ITALIC"
	case KindBold:
		return "BOLD"
	case KindBoldItalic:
		return "BOLD_ITALIC"
	case KindCode:
		return "CODE"
	case KindLiteral:
		return "LITERAL"
	case KindStrikethrough:
		return "STRIKETHROUGH"
	case KindLink:
		return "LINK"
	case KindHTML:
		return "HTML"
	case KindTaskList:
		return "TASK_LIST"
	case KindTaskListDone:
		return "TASK_LIST_DONE"
	case KindHeading1, KindHeading2, KindHeading3, KindHeading4, KindHeading5, KindHeading6:
		return "HEADING_" + string(rune('0'+k.HeadingLevel()))
	case KindHorizontalRule:
		return "HORIZONTAL_RULE"
	case KindParagraph:
		return "PARAGRAPH"
	case KindUnorderedList:
		return "UNORDERED_LIST"
	case KindOrderedList:
		return "ORDERED_LIST"
	case KindContinueList:
		return "CONTINUE_LIST"
	case KindFencedCodeQuote:
		return "FENCED_CODE_QUOTE"
	case KindFencedCodeTild:
		return "FENCED_CODE_TILD"
	case KindBlockquote:
		return "BLOCKQUOTE"
	case KindTable:
		return "TABLE"
	default:
		return "UNKNOWN"
	}
}

// HeadingLevel returns 1-6 for a heading Kind, or 0 if k is not a heading.
func (k Kind) HeadingLevel() int {
	switch k {
	case KindHeading1:
		return 1
	case KindHeading2:
		return 2
	case KindHeading3:
		return 3
	case KindHeading4:
		return 4
	case KindHeading5:
		return 5
	case KindHeading6:
		return 6
	default:
		return 0
	}
}

func headingKind(level int) Kind {
	switch level {
	case 1:
		return KindHeading1
	case 2:
		return KindHeading2
	case 3:
		return KindHeading3
	case 4:
		return KindHeading4
	case 5:
		return KindHeading5
	case 6:
		return KindHeading6
	default:
		return KindInvalid
	}
}
