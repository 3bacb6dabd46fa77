// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package render

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/mdstream/pkg/markdown"
)

// PlainRenderer strips all markup and keeps only the readable text,
// the rendering mode a log sink or a non-interactive pipe wants.
type PlainRenderer struct {
	markdown.NopRenderer
	b         strings.Builder
	listStack []plainListState
}

type plainListState struct {
	ordered bool
	next    int
}

// String returns the accumulated plain text.
func (p *PlainRenderer) String() string { return p.b.String() }

func (p *PlainRenderer) OnText(str string)   { p.b.WriteString(str) }
func (p *PlainRenderer) OnEntity(str string) { p.b.WriteString(str) }

func (p *PlainRenderer) OnH(start bool, level int) {
	if !start {
		p.b.WriteString("\n")
	}
}

func (p *PlainRenderer) OnP(start bool) {
	if !start {
		p.b.WriteString("\n")
	}
}

func (p *PlainRenderer) OnHR()     { p.b.WriteString("\n---\n") }
func (p *PlainRenderer) OnBR()     { p.b.WriteString("\n") }
func (p *PlainRenderer) OnSoftBR() { p.b.WriteString("\n") }

func (p *PlainRenderer) OnUL(start bool, indent int) { p.pushOrPopList(start, false) }
func (p *PlainRenderer) OnOL(start bool, indent int) { p.pushOrPopList(start, true) }

func (p *PlainRenderer) pushOrPopList(start, ordered bool) {
	if start {
		p.listStack = append(p.listStack, plainListState{ordered: ordered, next: 1})
	} else if len(p.listStack) > 0 {
		p.listStack = p.listStack[:len(p.listStack)-1]
	}
}

func (p *PlainRenderer) OnLI(start bool) {
	if !start {
		p.b.WriteString("\n")
		return
	}
	p.b.WriteString(strings.Repeat("  ", len(p.listStack)-1))
	if len(p.listStack) == 0 {
		p.b.WriteString("- ")
		return
	}
	top := &p.listStack[len(p.listStack)-1]
	if top.ordered {
		fmt.Fprintf(&p.b, "%d. ", top.next)
		top.next++
	} else {
		p.b.WriteString("- ")
	}
}

func (p *PlainRenderer) OnTaskList(start bool, checked bool) {
	p.b.WriteString(strings.Repeat("  ", len(p.listStack)))
	if checked {
		p.b.WriteString("[x] ")
	} else {
		p.b.WriteString("[ ] ")
	}
}

func (p *PlainRenderer) OnCodeBlock(start bool, lang string) {
	if !start {
		p.b.WriteString("\n")
	}
}

func (p *PlainRenderer) OnCodeText(str string) { p.b.WriteString(str) }

func (p *PlainRenderer) OnQuote(start bool, level int) {
	if !start {
		p.b.WriteString("\n")
	}
}

func (p *PlainRenderer) OnTableRow(start bool) {
	if !start {
		p.b.WriteString("\n")
	}
}

func (p *PlainRenderer) tableCell(start bool, sep string) {
	if start {
		p.b.WriteString(sep)
	}
}

func (p *PlainRenderer) OnTableHCell(start bool, align markdown.Align) { p.tableCell(start, "| ") }
func (p *PlainRenderer) OnTableCell(start bool, align markdown.Align) { p.tableCell(start, "| ") }

func (p *PlainRenderer) OnA(start bool, href, title string, isReference bool) {}

func (p *PlainRenderer) OnImg(src, title string) {
	if title != "" {
		fmt.Fprintf(&p.b, "[%s]", title)
	}
}

func (p *PlainRenderer) OnHTML(start bool, tag, attributes string) {}
func (p *PlainRenderer) OnOther(start bool, tag string)            {}
