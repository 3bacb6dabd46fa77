// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package markdown

// TreeRenderer implements Renderer by building a Document, for callers
// that want a traversable AST (e.g. the code-indexing adapter) instead
// of a serialized rendering. It keeps a stack of open node ids mirroring
// Parser's own state-stack/current-block nesting.
type TreeRenderer struct {
	NopRenderer
	Doc   *Document
	stack []NodeID
}

// NewTreeRenderer creates a TreeRenderer with a fresh Document.
func NewTreeRenderer() *TreeRenderer {
	d := NewDocument()
	return &TreeRenderer{Doc: d, stack: []NodeID{d.Root()}}
}

func (t *TreeRenderer) top() NodeID {
	return t.stack[len(t.stack)-1]
}

func (t *TreeRenderer) push(kind NodeKind, configure func(*Node)) {
	id := t.Doc.appendChild(t.top(), kind)
	if configure != nil {
		configure(&t.Doc.nodes[id])
	}
	t.stack = append(t.stack, id)
}

func (t *TreeRenderer) pop() {
	if len(t.stack) > 1 {
		t.stack = t.stack[:len(t.stack)-1]
	}
}

func (t *TreeRenderer) OnText(str string)   { t.Doc.appendText(t.top(), str) }
func (t *TreeRenderer) OnEntity(str string) { t.Doc.appendText(t.top(), str) }

func (t *TreeRenderer) format(start bool, kind Kind) {
	if start {
		t.push(NodeFormat, func(n *Node) { n.Block = kind })
	} else {
		t.pop()
	}
}

func (t *TreeRenderer) OnEm(start bool)       { t.format(start, KindItalic) }
func (t *TreeRenderer) OnStrong(start bool)   { t.format(start, KindBold) }
func (t *TreeRenderer) OnCodeSpan(start bool) { t.format(start, KindCode) }
func (t *TreeRenderer) OnDel(start bool)      { t.format(start, KindStrikethrough) }
func (t *TreeRenderer) OnU(start bool)        {}

func (t *TreeRenderer) OnH(start bool, level int) {
	if start {
		t.push(NodeBlock, func(n *Node) { n.Block = headingKind(level) })
	} else {
		t.pop()
	}
}

func (t *TreeRenderer) OnP(start bool) {
	if start {
		t.push(NodeBlock, func(n *Node) { n.Block = KindParagraph })
	} else {
		t.pop()
	}
}

func (t *TreeRenderer) OnHR() {
	t.Doc.appendChild(t.top(), NodeBlock)
	id := t.Doc.Children(t.top())
	last := id[len(id)-1]
	t.Doc.nodes[last].Block = KindHorizontalRule
}

func (t *TreeRenderer) OnBR()     {}
func (t *TreeRenderer) OnSoftBR() {}

func (t *TreeRenderer) OnUL(start bool, indent int) {
	if start {
		t.push(NodeList, func(n *Node) { n.Ordered = false; n.Indent = indent })
	} else {
		t.pop()
	}
}

func (t *TreeRenderer) OnOL(start bool, indent int) {
	if start {
		t.push(NodeList, func(n *Node) { n.Ordered = true; n.Indent = indent })
	} else {
		t.pop()
	}
}

func (t *TreeRenderer) OnLI(start bool) {
	if start {
		t.push(NodeListItem, nil)
	} else {
		t.pop()
	}
}

func (t *TreeRenderer) OnTaskList(start bool, checked bool) {
	t.push(NodeListItem, func(n *Node) { n.Task = true; n.Checked = checked })
	t.pop()
}

func (t *TreeRenderer) OnCodeBlock(start bool, lang string) {
	if start {
		t.push(NodeBlock, func(n *Node) { n.Block = KindFencedCodeQuote; n.Lang = lang })
	} else {
		t.pop()
	}
}

func (t *TreeRenderer) OnCodeText(str string) { t.Doc.appendText(t.top(), str) }

// OnCode fires in lockstep with OnCodeBlock (Parser emits both at the same
// fence boundary) and only carries the one field OnCodeBlock can't: which
// fence delimiter was used. Record it on the node OnCodeBlock just pushed
// so a consumer that needs to reproduce the original fence (the code index
// exposing it as index.Symbol.FenceChar) doesn't have to re-scan the source.
func (t *TreeRenderer) OnCode(start bool, lang string, fenceChar byte) {
	if start {
		t.Doc.nodes[t.top()].FenceChar = fenceChar
	}
}

func (t *TreeRenderer) OnQuote(start bool, level int) {
	if start {
		t.push(NodeBlock, func(n *Node) { n.Block = KindBlockquote; n.Indent = level })
	} else {
		t.pop()
	}
}

func (t *TreeRenderer) OnTable(start bool) {
	if start {
		t.push(NodeBlock, func(n *Node) { n.Block = KindTable })
	} else {
		t.pop()
	}
}

func (t *TreeRenderer) OnTableRow(start bool) {
	if start {
		t.push(NodeBlock, nil)
	} else {
		t.pop()
	}
}

func (t *TreeRenderer) tableCell(start bool, align Align) {
	if start {
		t.push(NodeFormat, func(n *Node) { n.Block = KindTable; n.Align = align })
	} else {
		t.pop()
	}
}

func (t *TreeRenderer) OnTableHCell(start bool, align Align) { t.tableCell(start, align) }
func (t *TreeRenderer) OnTableCell(start bool, align Align)  { t.tableCell(start, align) }

func (t *TreeRenderer) OnA(start bool, href, title string, isReference bool) {
	if start {
		t.push(NodeFormat, func(n *Node) { n.Block = KindLink; n.Href = href; n.Title = title })
	} else {
		t.pop()
	}
}

func (t *TreeRenderer) OnImg(src, title string) {
	t.push(NodeFormat, func(n *Node) { n.Block = KindLink; n.Href = src; n.Title = title })
	t.pop()
}

func (t *TreeRenderer) OnHTML(start bool, tag, attributes string) {
	t.push(NodeFormat, func(n *Node) { n.Block = KindHTML; n.Text = tag; n.Title = attributes })
	t.pop()
}

func (t *TreeRenderer) OnOther(start bool, tag string) {}
