// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// balanceRenderer tracks open/close depth per construct so tests can
// assert every start/end pair is LIFO-balanced and fully closed by the
// time Flush returns, without pinning down the exact callback sequence.
type balanceRenderer struct {
	NopRenderer
	depth    map[string]int
	minDepth map[string]int
}

func newBalanceRenderer() *balanceRenderer {
	return &balanceRenderer{depth: map[string]int{}, minDepth: map[string]int{}}
}

func (b *balanceRenderer) mark(name string, start bool) {
	if start {
		b.depth[name]++
		return
	}
	b.depth[name]--
	if b.depth[name] < b.minDepth[name] {
		b.minDepth[name] = b.depth[name]
	}
}

func (b *balanceRenderer) OnEm(start bool)       { b.mark("em", start) }
func (b *balanceRenderer) OnStrong(start bool)   { b.mark("strong", start) }
func (b *balanceRenderer) OnCodeSpan(start bool) { b.mark("codespan", start) }
func (b *balanceRenderer) OnDel(start bool)      { b.mark("del", start) }
func (b *balanceRenderer) OnH(start bool, _ int) { b.mark("h", start) }
func (b *balanceRenderer) OnP(start bool)        { b.mark("p", start) }
func (b *balanceRenderer) OnUL(start bool, _ int) { b.mark("ul", start) }
func (b *balanceRenderer) OnOL(start bool, _ int) { b.mark("ol", start) }
func (b *balanceRenderer) OnLI(start bool)        { b.mark("li", start) }
func (b *balanceRenderer) OnCodeBlock(start bool, _ string) { b.mark("codeblock", start) }
func (b *balanceRenderer) OnCode(start bool, _ string, _ byte) { b.mark("code", start) }
func (b *balanceRenderer) OnQuote(start bool, _ int)        { b.mark("quote", start) }
func (b *balanceRenderer) OnTable(start bool)               { b.mark("table", start) }
func (b *balanceRenderer) OnTableRow(start bool)            { b.mark("tablerow", start) }
func (b *balanceRenderer) OnTableHCell(start bool, _ Align) { b.mark("tablehcell", start) }
func (b *balanceRenderer) OnTableCell(start bool, _ Align)  { b.mark("tablecell", start) }
func (b *balanceRenderer) OnA(start bool, _, _ string, _ bool) { b.mark("a", start) }
func (b *balanceRenderer) OnHTML(start bool, _, _ string)      { b.mark("html", start) }

// assertFullyBalanced feeds src, chunked at every cut, and checks every
// construct returned to depth zero and never went negative.
func assertFullyBalanced(t *testing.T, src string, cuts ...int) {
	t.Helper()
	b := newBalanceRenderer()
	p := NewParser(b)
	prev := 0
	for _, c := range cuts {
		p.Add([]byte(src[prev:c]), false)
		prev = c
	}
	p.Add([]byte(src[prev:]), false)
	p.Flush()

	for name, d := range b.depth {
		assert.Equalf(t, 0, d, "construct %q left open at end of document", name)
	}
	for name, m := range b.minDepth {
		assert.GreaterOrEqualf(t, m, 0, "construct %q closed more often than opened", name)
	}
}

func TestNestingBalanced_Emphasis(t *testing.T) {
	assertFullyBalanced(t, "a **b *c* d** e\n")
}

func TestNestingBalanced_BoldItalic(t *testing.T) {
	assertFullyBalanced(t, "***strong and emphasized***\n")
}

func TestNestingBalanced_List(t *testing.T) {
	assertFullyBalanced(t, "- one\n- two\n- three\n")
}

func TestNestingBalanced_OrderedList(t *testing.T) {
	assertFullyBalanced(t, "1. one\n2. two\n")
}

func TestNestingBalanced_NestedQuote(t *testing.T) {
	assertFullyBalanced(t, "> level one\n> > level two\n> level one again\n")
}

func TestNestingBalanced_Heading(t *testing.T) {
	assertFullyBalanced(t, "# Title\n\nBody text.\n")
}

func TestNestingBalanced_CodeBlock(t *testing.T) {
	assertFullyBalanced(t, "```go\nfunc main() {}\n```\n")
}

func TestNestingBalanced_MixedDocument(t *testing.T) {
	src := "# Heading\n\nSome **bold** and *em* and `code`.\n\n" +
		"- item one\n- item two\n\n" +
		"> a quote\n\n" +
		"[link](https://example.com)\n"
	assertFullyBalanced(t, src)
}

// TestNestingBalanced_ChunkInvariant checks the same document stays
// balanced no matter where it's split across Add calls, including splits
// that land in the middle of a marker.
func TestNestingBalanced_ChunkInvariant(t *testing.T) {
	src := "a **bold *em* text** b\n\n- x\n- y\n"
	for cut := 1; cut < len(src); cut++ {
		assertFullyBalanced(t, src, cut)
	}
}
