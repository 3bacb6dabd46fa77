// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package markdown

import "bytes"

// Parser is a streaming, chunk-fed Markdown parser. Callers feed bytes as
// they arrive via Add and eventually call Flush; the parser never
// requires the whole document to be buffered and emits renderer
// callbacks incrementally as soon as a construct is unambiguous.
//
// A Parser is not safe for concurrent use; a caller serving many
// documents at once must instantiate one Parser per document.
type Parser struct {
	r Renderer

	leftover    []byte
	pendingText []byte // trailing text run of the previous chunk, not yet emitted

	stack     []Kind
	inLiteral bool

	currentBlock  Kind
	blockLevel    int // heading is derived from Kind; this holds quote level
	lastLineBlock Kind

	fenceOpen []byte
	fenceLang string
	fenceChar byte

	listStack []listFrame

	tableAligns []Align

	atLineStart    bool
	atContentStart bool
	lineHadContent bool
}

type listFrame struct {
	kind   Kind
	indent int
}

// NewParser constructs a Parser that emits callbacks on r.
func NewParser(r Renderer) *Parser {
	return &Parser{r: r, atLineStart: true, atContentStart: true}
}

// Flush is add("", true): it signals end of input, closing every
// still-open inline state and block in reverse order of opening.
func (p *Parser) Flush() {
	p.Add(nil, true)
}

// PendingBytes returns how many bytes of the most recent chunk the parser
// retained internally because they could not yet be resolved into a
// callback (e.g. a marker run or fence close awaiting more input, or a
// trailing text run that may continue in the next chunk). Callers
// that log chunk-handling at Debug level use this to report retention size
// without reaching into the parser's internal state.
func (p *Parser) PendingBytes() int {
	return len(p.leftover) + len(p.pendingText)
}

// Add feeds a chunk of input. is_final marks the last chunk of the
// stream; omit it (pass false) for every chunk before the last.
func (p *Parser) Add(chunk []byte, isFinal bool) {
	buf := p.leftover
	if len(chunk) > 0 {
		buf = append(append([]byte(nil), buf...), chunk...)
	}
	p.leftover = nil

	pos := 0
	text := p.pendingText
	p.pendingText = nil

	flushText := func() {
		if len(text) == 0 {
			return
		}
		s := string(text)
		text = text[:0]
		if p.inFence() {
			p.r.OnCodeText(s)
		} else {
			p.r.OnText(s)
		}
	}

	suspendFrom := func(from int) {
		p.pendingText = text
		p.leftover = append(p.leftover, buf[from:]...)
	}

	for pos < len(buf) {
		b := buf[pos]

		if b == '\n' {
			if p.inFence() {
				flushText()
				p.r.OnCodeText("\n")
			} else {
				flushText()
				p.closeInlineStack()
				p.r.OnText("\n")
				if p.currentBlock != KindNone &&
					(blockIsSingleLine(p.currentBlock) || (p.currentBlock == KindParagraph && !p.lineHadContent)) {
					p.closeBlock()
				}
			}
			pos++
			p.atLineStart = true
			p.atContentStart = true
			p.lineHadContent = false
			continue
		}

		if p.inFence() {
			if p.atLineStart {
				suspend, matched, consumed := peekFencedClose(buf, pos, isFinal, p.fenceOpen)
				if suspend {
					suspendFrom(pos)
					return
				}
				if matched {
					p.closeBlock()
					pos += consumed
					p.atLineStart = true
					p.atContentStart = true
					continue
				}
			}
			nl := bytes.IndexByte(buf[pos:], '\n')
			if nl == -1 {
				if !isFinal {
					suspendFrom(pos)
					return
				}
				text = append(text, buf[pos:]...)
				pos = len(buf)
				p.atLineStart = false
				continue
			}
			text = append(text, buf[pos:pos+nl]...)
			flushText()
			pos += nl
			p.atLineStart = false
			continue
		}

		if p.atLineStart {
			newPos, suspend := p.handleLineStart(buf, pos, isFinal)
			if suspend {
				suspendFrom(pos)
				return
			}
			if newPos > pos {
				pos = newPos
				// A block open can swallow a trailing newline as part of
				// its own opening transaction (table's 3-line window,
				// fenced code's info-string line); when it does, the new
				// position is genuinely back at line start.
				p.atLineStart = newPos > 0 && buf[newPos-1] == '\n'
				p.atContentStart = p.atLineStart
				continue
			}
			// No bytes consumed (no block marker here): fall through to
			// inline dispatch at this same position with at_content_start
			// still set, so StartMap gets first refusal.
		}

		if p.inLiteral {
			if b == '`' {
				flushText()
				p.gotFormat(KindLiteral)
				pos++
				p.atLineStart, p.atContentStart, p.lineHadContent = false, false, true
				continue
			}
			size, ok := runeLenAt(buf, pos, isFinal)
			if !ok {
				suspendFrom(pos)
				return
			}
			text = append(text, buf[pos:pos+size]...)
			pos += size
			p.atLineStart, p.atContentStart, p.lineHadContent = false, false, true
			continue
		}

		if b == '\\' {
			if pos+1 >= len(buf) {
				if !isFinal {
					suspendFrom(pos)
					return
				}
				text = append(text, b)
				pos++
				p.atLineStart, p.atContentStart = false, false
				continue
			}
			size, ok := runeLenAt(buf, pos+1, isFinal)
			if !ok {
				suspendFrom(pos)
				return
			}
			text = append(text, buf[pos+1:pos+1+size]...)
			pos += 1 + size
			p.atLineStart, p.atContentStart, p.lineHadContent = false, false, true
			continue
		}

		if p.atContentStart {
			n, k, bl := startEat(buf, pos, isFinal)
			if n == -1 {
				suspendFrom(pos)
				return
			}
			if n > 0 {
				flushText()
				p.gotFormat(k)
				pos += bl
				p.atLineStart, p.atContentStart, p.lineHadContent = false, false, true
				continue
			}
		} else {
			n, k, bl := leftEat(buf, pos, isFinal)
			if n == -1 {
				suspendFrom(pos)
				return
			}
			if n > 0 {
				text = append(text, b)
				flushText()
				p.gotFormat(k)
				pos += bl
				p.atLineStart, p.atContentStart, p.lineHadContent = false, false, true
				continue
			}
		}

		if handled, newPos, suspend := p.tryFormatMap(buf, pos, isFinal, flushText); handled {
			if suspend {
				suspendFrom(pos)
				return
			}
			pos = newPos
			p.atLineStart, p.atContentStart, p.lineHadContent = false, false, true
			continue
		}

		if len(p.stack) > 0 {
			n, k, bl := rightEat(buf, pos, isFinal)
			if n == -1 {
				suspendFrom(pos)
				return
			}
			if n > 0 {
				flushText()
				p.gotFormat(k)
				pos += bl
				p.atLineStart, p.atContentStart, p.lineHadContent = false, false, true
				continue
			}
		}

		size, ok := runeLenAt(buf, pos, isFinal)
		if !ok {
			suspendFrom(pos)
			return
		}
		if p.currentBlock == KindNone {
			p.openBlock(buf, pos, BlockResult{Matched: true, Kind: KindParagraph})
		}
		text = append(text, buf[pos:pos+size]...)
		pos += size
		p.atLineStart, p.atContentStart, p.lineHadContent = false, false, true
	}

	if !isFinal {
		// The text run may continue in the next chunk; holding it keeps
		// on_text payloads the same however the input is split.
		p.pendingText = text
		return
	}

	flushText()
	p.closeInlineStack()
	if len(p.listStack) > 0 {
		p.descendListTo(0)
	}
	if p.currentBlock != KindNone {
		p.closeBlock()
	}
}

func (p *Parser) inFence() bool {
	return p.currentBlock == KindFencedCodeQuote || p.currentBlock == KindFencedCodeTild
}

// handleLineStart classifies the block marker (if any) at the start of
// the current line and applies whatever block/list transition it
// implies. It returns the new cursor position and whether the caller
// must suspend (retain from pos onward as leftover).
func (p *Parser) handleLineStart(buf []byte, pos int, isFinal bool) (int, bool) {
	if p.currentBlock == KindTable {
		return p.handleTableLine(buf, pos, isFinal)
	}

	gate := p.lastLineBlock
	if p.currentBlock == KindUnorderedList || p.currentBlock == KindOrderedList {
		gate = p.currentBlock
	}
	res := peekBlock(buf, pos, isFinal, gate)
	if res.Suspend {
		return pos, true
	}
	if !res.Matched {
		if len(p.listStack) > 0 {
			p.descendListTo(0)
		}
		if p.currentBlock == KindNone {
			p.openBlock(buf, pos, BlockResult{Matched: true, Kind: KindParagraph})
		}
		return pos, false
	}

	switch res.Kind {
	case KindTable:
		if len(p.listStack) > 0 {
			p.descendListTo(0)
		}
		if p.currentBlock != KindNone {
			p.closeBlock()
		}
		p.openTableBlock(buf, pos, res)
		return pos + res.Consumed, false

	case KindUnorderedList, KindOrderedList:
		if p.currentBlock != KindNone && p.currentBlock != KindUnorderedList && p.currentBlock != KindOrderedList {
			p.closeBlock()
		}
		p.descendListTo(1)
		if len(p.listStack) == 1 && p.listStack[0].kind == res.Kind {
			p.closeListItem()
		} else {
			p.descendListTo(0)
			p.pushListFrame(res.Kind, 1)
		}
		p.currentBlock = res.Kind
		p.r.OnLI(true)
		return pos + res.Consumed, false

	case KindContinueList:
		if len(p.listStack) == 0 {
			return pos, false
		}
		if res.NestedKind == KindUnorderedList || res.NestedKind == KindOrderedList {
			depth := res.Indent
			if depth > len(p.listStack) {
				p.pushListFrame(res.NestedKind, depth)
			} else {
				p.descendListTo(depth)
				if len(p.listStack) == depth && p.listStack[depth-1].kind == res.NestedKind {
					p.closeListItem()
				} else {
					p.descendListTo(depth - 1)
					p.pushListFrame(res.NestedKind, depth)
				}
			}
			p.r.OnLI(true)
		}
		return pos + res.Consumed, false

	default:
		if len(p.listStack) > 0 {
			p.descendListTo(0)
		}
		if p.currentBlock != KindNone {
			if p.isContinuation(res) {
				p.blockLevel = res.Indent
				return pos + res.Consumed, false
			}
			p.closeBlock()
		}
		p.openBlock(buf, pos, res)
		return pos + res.Consumed, false
	}
}

func (p *Parser) isContinuation(res BlockResult) bool {
	return p.currentBlock == KindBlockquote && res.Kind == KindBlockquote && res.Indent == p.blockLevel
}

func (p *Parser) openBlock(buf []byte, pos int, res BlockResult) {
	p.currentBlock = res.Kind
	p.blockLevel = res.Indent
	switch res.Kind {
	case KindParagraph:
		p.r.OnP(true)
	case KindHeading1, KindHeading2, KindHeading3, KindHeading4, KindHeading5, KindHeading6:
		p.r.OnH(true, res.Kind.HeadingLevel())
	case KindHorizontalRule:
		p.r.OnHR()
		p.currentBlock = KindNone
		p.lastLineBlock = KindHorizontalRule
	case KindBlockquote:
		p.r.OnQuote(true, res.Indent)
	case KindFencedCodeQuote, KindFencedCodeTild:
		p.fenceOpen = append([]byte(nil), buf[pos:pos+res.MarkerLen]...)
		p.fenceLang = res.Lang
		if res.Kind == KindFencedCodeQuote {
			p.fenceChar = '`'
		} else {
			p.fenceChar = '~'
		}
		p.r.OnCodeBlock(true, res.Lang)
		p.r.OnCode(true, res.Lang, p.fenceChar)
	}
}

func (p *Parser) closeBlock() {
	switch p.currentBlock {
	case KindParagraph:
		p.r.OnP(false)
	case KindHeading1, KindHeading2, KindHeading3, KindHeading4, KindHeading5, KindHeading6:
		p.r.OnH(false, p.currentBlock.HeadingLevel())
	case KindBlockquote:
		p.r.OnQuote(false, p.blockLevel)
	case KindFencedCodeQuote, KindFencedCodeTild:
		p.r.OnCode(false, p.fenceLang, p.fenceChar)
		p.r.OnCodeBlock(false, p.fenceLang)
		p.fenceOpen = nil
	case KindTable:
		p.r.OnTable(false)
		p.tableAligns = nil
	}
	p.lastLineBlock = p.currentBlock
	p.currentBlock = KindNone
}

// blockIsSingleLine reports whether a block construct is confined to the
// line that opens it (closed at that line's terminating newline, rather
// than left open awaiting either a continuation or a differing marker).
func blockIsSingleLine(k Kind) bool {
	switch k {
	case KindHeading1, KindHeading2, KindHeading3, KindHeading4, KindHeading5, KindHeading6:
		return true
	default:
		return false
	}
}

func (p *Parser) pushListFrame(kind Kind, indent int) {
	p.listStack = append(p.listStack, listFrame{kind: kind, indent: indent})
	if kind == KindUnorderedList {
		p.r.OnUL(true, indent)
	} else {
		p.r.OnOL(true, indent)
	}
}

func (p *Parser) closeListItem() {
	if len(p.listStack) > 0 {
		p.r.OnLI(false)
	}
}

// descendListTo pops list frames deeper than depth, closing each one's
// open list item and list container in LIFO order.
func (p *Parser) descendListTo(depth int) {
	for len(p.listStack) > depth {
		f := p.listStack[len(p.listStack)-1]
		p.r.OnLI(false)
		if f.kind == KindUnorderedList {
			p.r.OnUL(false, f.indent)
		} else {
			p.r.OnOL(false, f.indent)
		}
		p.listStack = p.listStack[:len(p.listStack)-1]
	}
	if depth == 0 {
		p.lastLineBlock = KindContinueList
		p.currentBlock = KindNone
	}
}

func (p *Parser) openTableBlock(buf []byte, pos int, res BlockResult) {
	raw := buf[pos : pos+res.Consumed]
	lines := splitLines(raw)
	p.currentBlock = KindTable
	if len(lines) < 3 {
		// Defensive only: peekTableOpen guarantees 3 lines when Matched.
		p.r.OnTable(true)
		return
	}
	p.tableAligns = tableAlignments(lines[1])
	p.r.OnTable(true)
	p.emitTableRow(lines[0], true)
	p.emitTableRow(lines[2], false)
}

func (p *Parser) handleTableLine(buf []byte, pos int, isFinal bool) (int, bool) {
	nl := bytes.IndexByte(buf[pos:], '\n')
	if nl == -1 {
		if !isFinal {
			return pos, true
		}
		line := buf[pos:]
		if isTableRowLine(line) {
			p.emitTableRow(line, false)
			return len(buf), false
		}
		p.closeBlock()
		return pos, false
	}
	line := buf[pos : pos+nl]
	if !isTableRowLine(line) {
		p.closeBlock()
		return pos, false
	}
	p.emitTableRow(line, false)
	return pos + nl + 1, false
}

func (p *Parser) emitTableRow(line []byte, isHeader bool) {
	cells := splitTableRow(line)
	p.r.OnTableRow(true)
	for i, c := range cells {
		align := AlignNone
		if i < len(p.tableAligns) {
			align = p.tableAligns[i]
		}
		if isHeader {
			p.r.OnTableHCell(true, align)
			p.r.OnText(c)
			p.r.OnTableHCell(false, align)
		} else {
			p.r.OnTableCell(true, align)
			p.r.OnText(c)
			p.r.OnTableCell(false, align)
		}
	}
	p.r.OnTableRow(false)
}

func splitLines(raw []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\n' {
			lines = append(lines, raw[start:i])
			start = i + 1
		}
	}
	if start < len(raw) {
		lines = append(lines, raw[start:])
	}
	return lines
}

// tryFormatMap consults FormatMap for code spans, strikethrough, task
// list markers, links, and raw HTML. It returns handled=false when the
// byte at pos is not one FormatMap governs (or governs but rejects),
// leaving it to be re-examined as plain text/markup by the caller.
func (p *Parser) tryFormatMap(buf []byte, pos int, isFinal bool, flushText func()) (handled bool, newPos int, suspend bool) {
	switch buf[pos] {
	case '`', '~':
		n, k, bl := formatMap.eat(buf, pos, isFinal)
		if n == -1 {
			return true, pos, true
		}
		if n == 0 {
			return false, pos, false
		}
		flushText()
		p.gotFormat(k)
		return true, pos + bl, false

	case '[':
		n, k, bl := formatMap.eat(buf, pos, isFinal)
		if n == -1 {
			return true, pos, true
		}
		if n == 0 {
			return false, pos, false
		}
		switch k {
		case KindTaskList:
			flushText()
			p.r.OnTaskList(true, false)
			return true, pos + bl, false
		case KindTaskListDone:
			flushText()
			p.r.OnTaskList(true, true)
			return true, pos + bl, false
		case KindLink:
			lr := matchLink(buf, pos, isFinal)
			if lr.Suspend {
				return true, pos, true
			}
			if !lr.Matched {
				return false, pos, false
			}
			flushText()
			p.r.OnA(true, lr.Href, lr.Title, lr.IsReference)
			p.emitLinkText(buf[lr.TextStart:lr.TextEnd])
			p.r.OnA(false, lr.Href, lr.Title, lr.IsReference)
			return true, pos + lr.Consumed, false
		default:
			return false, pos, false
		}

	case '<':
		hr := matchHTMLTag(buf, pos, isFinal)
		if hr.Suspend {
			return true, pos, true
		}
		if hr.NotATag {
			return false, pos, false
		}
		flushText()
		p.r.OnHTML(!hr.IsClose, hr.Tag, hr.Attrs)
		return true, pos + hr.Consumed, false

	default:
		return false, pos, false
	}
}

// gotFormat applies the stack-toggling rule for inline format kinds
// (spec.md §4.6): push and emit an open if the stack top differs (or is
// empty), otherwise pop and emit the matching close. BOLD_ITALIC opens
// strong-then-em and closes in reverse; LITERAL toggles in_literal
// instead of using the stack; TASK_LIST/TASK_LIST_DONE never reach here.
func (p *Parser) gotFormat(k Kind) {
	switch k {
	case KindBoldItalic:
		if len(p.stack) >= 2 && p.stack[len(p.stack)-1] == KindItalic && p.stack[len(p.stack)-2] == KindBold {
			p.stack = p.stack[:len(p.stack)-2]
			p.r.OnEm(false)
			p.r.OnStrong(false)
			return
		}
		p.stack = append(p.stack, KindBold, KindItalic)
		p.r.OnStrong(true)
		p.r.OnEm(true)
		return
	case KindLiteral:
		p.inLiteral = !p.inLiteral
		p.r.OnCodeSpan(p.inLiteral)
		return
	}
	if len(p.stack) > 0 && p.stack[len(p.stack)-1] == k {
		p.stack = p.stack[:len(p.stack)-1]
		p.emitSimpleFormat(k, false)
		return
	}
	p.stack = append(p.stack, k)
	p.emitSimpleFormat(k, true)
}

func (p *Parser) emitSimpleFormat(k Kind, start bool) {
	switch k {
	case KindItalic:
		p.r.OnEm(start)
	case KindBold:
		p.r.OnStrong(start)
	case KindCode:
		p.r.OnCodeSpan(start)
	case KindStrikethrough:
		p.r.OnDel(start)
	}
}

func (p *Parser) closeInlineStack() {
	for len(p.stack) > 0 {
		k := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]
		p.emitSimpleFormat(k, false)
	}
	if p.inLiteral {
		p.inLiteral = false
		p.r.OnCodeSpan(false)
	}
}

// emitLinkText re-parses link text through an inline-only entry point:
// emphasis and code spans inside it are recognized, but a nested '['
// is rejected at eat_link time already (see link.go), so no link lead
// can ever reach here.
func (p *Parser) emitLinkText(content []byte) {
	var stack []Kind
	var text []byte
	flush := func() {
		if len(text) > 0 {
			p.r.OnText(string(text))
			text = text[:0]
		}
	}
	got := func(k Kind) {
		if len(stack) > 0 && stack[len(stack)-1] == k {
			stack = stack[:len(stack)-1]
			p.emitSimpleFormat(k, false)
			return
		}
		stack = append(stack, k)
		p.emitSimpleFormat(k, true)
	}

	pos := 0
	for pos < len(content) {
		b := content[pos]
		if b == '\\' && pos+1 < len(content) {
			flush()
			size, _ := runeLenAt(content, pos+1, true)
			text = append(text, content[pos+1:pos+1+size]...)
			pos += 1 + size
			continue
		}
		if b == '`' || b == '~' {
			n, k, bl := formatMap.eat(content, pos, true)
			if n > 0 && k != KindInvalid {
				flush()
				got(k)
				pos += bl
				continue
			}
		}
		var n int
		var k Kind
		var bl int
		if pos == 0 {
			n, k, bl = startEat(content, pos, true)
		} else if isASCIISpace(content[pos-1]) {
			n, k, bl = leftEat(content, pos-1, true)
			if n > 0 {
				bl--
			}
		}
		if n <= 0 && len(stack) > 0 {
			n, k, bl = rightEat(content, pos, true)
		}
		if n > 0 {
			flush()
			got(k)
			pos += bl
			continue
		}
		size, _ := runeLenAt(content, pos, true)
		text = append(text, content[pos:pos+size]...)
		pos += size
	}
	flush()
	for len(stack) > 0 {
		k := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		p.emitSimpleFormat(k, false)
	}
}
